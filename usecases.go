package main

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// CartUseCase contém a lógica de negócio do carrinho
type CartUseCase struct {
	catalog     *Catalog
	carts       CartStore
	maxQuantity int32
}

// NewCartUseCase cria uma nova instância de CartUseCase
func NewCartUseCase(catalog *Catalog, carts CartStore, maxQuantity int32) *CartUseCase {
	return &CartUseCase{
		catalog:     catalog,
		carts:       carts,
		maxQuantity: maxQuantity,
	}
}

// AddItem adiciona um item ao carrinho da sessão. Valida o SKU contra o
// catálogo e a quantidade do pedido contra [1, maxQuantity] antes de qualquer
// mutação. O limite vale para cada chamada individual; a quantidade acumulada
// de uma linha não é limitada.
func (uc *CartUseCase) AddItem(ctx context.Context, sessionID, sku string, quantity int32) (*Cart, error) {
	product, ok := uc.catalog.Lookup(sku)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, sku)
	}
	if quantity < 1 || quantity > uc.maxQuantity {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidQuantity, quantity, uc.maxQuantity)
	}

	cart, err := uc.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.AddLine(product, quantity)

	if err := uc.carts.Set(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("failed to store cart: %w", err)
	}

	return cart, nil
}

// ViewCart retorna o carrinho da sessão com os totais recalculados. Uma sessão
// sem carrinho é um carrinho vazio, não um erro.
func (uc *CartUseCase) ViewCart(ctx context.Context, sessionID string, taxRateBps int64) (*Cart, Totals, error) {
	cart, err := uc.loadCart(ctx, sessionID)
	if err != nil {
		return nil, Totals{}, err
	}
	return cart, ComputeTotals(cart.Lines, taxRateBps), nil
}

// ClearCart esvazia o carrinho da sessão
func (uc *CartUseCase) ClearCart(ctx context.Context, sessionID string) error {
	if err := uc.carts.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// loadCart busca o carrinho da sessão, criando um vazio sob demanda
func (uc *CartUseCase) loadCart(ctx context.Context, sessionID string) (*Cart, error) {
	cart, err := uc.carts.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// ReceiptLine representa uma linha do recibo de checkout
type ReceiptLine struct {
	Sku       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// Receipt representa o resultado de um checkout bem-sucedido. É construído a
// partir do snapshot em memória usado na persistência, nunca relido do banco.
type Receipt struct {
	OrderID         int64         `json:"order_id"`
	Lines           []ReceiptLine `json:"lines"`
	Subtotal        int64         `json:"subtotal"`
	Tax             int64         `json:"tax"`
	Total           int64         `json:"total"`
	SubtotalDisplay string        `json:"subtotal_display"`
	TaxDisplay      string        `json:"tax_display"`
	TotalDisplay    string        `json:"total_display"`
	TaxRate         string        `json:"tax_rate"`
}

// CheckoutUseCase converte um carrinho não-vazio em um pedido persistido
type CheckoutUseCase struct {
	carts      CartStore
	repository OrderRepository
	taxRateBps int64
}

// NewCheckoutUseCase cria uma nova instância de CheckoutUseCase
func NewCheckoutUseCase(carts CartStore, repository OrderRepository, taxRateBps int64) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:      carts,
		repository: repository,
		taxRateBps: taxRateBps,
	}
}

// Checkout tira um snapshot do carrinho, calcula os totais, persiste pedido e
// linhas atomicamente e só então limpa o carrinho. Qualquer falha de
// persistência faz rollback completo e preserva o carrinho para retry. Uma
// falha ao limpar o carrinho depois do commit não desfaz o pedido: durabilidade
// financeira vem antes da limpeza da sessão.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, sessionID string) (*Receipt, error) {
	cart, err := uc.carts.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(cart.Lines, uc.taxRateBps)
	order := NewOrder(totals, uc.taxRateBps)
	lines := BuildOrderLines(cart.Lines)

	orderID, err := uc.repository.CreateOrder(ctx, order, lines)
	if err != nil {
		log.Printf("❌ Checkout failed for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	if err := uc.carts.Delete(ctx, sessionID); err != nil {
		// o pedido já está committed; apenas loga
		log.Printf("⚠️ Failed to clear cart for session %s after checkout: %v", sessionID, err)
	}

	log.Printf("✅ Order %d created for session %s (total %s)", orderID, sessionID, FormatMinorUnits(totals.Total))
	recordOrderCreated(ctx, totals.Total)

	return buildReceipt(orderID, lines, totals, uc.taxRateBps), nil
}

func buildReceipt(orderID int64, lines []OrderLine, totals Totals, taxRateBps int64) *Receipt {
	receiptLines := make([]ReceiptLine, 0, len(lines))
	for _, l := range lines {
		receiptLines = append(receiptLines, ReceiptLine{
			Sku:       l.Sku,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}

	return &Receipt{
		OrderID:         orderID,
		Lines:           receiptLines,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		SubtotalDisplay: FormatMinorUnits(totals.Subtotal),
		TaxDisplay:      FormatMinorUnits(totals.Tax),
		TotalDisplay:    FormatMinorUnits(totals.Total),
		TaxRate:         FormatTaxRate(taxRateBps),
	}
}
