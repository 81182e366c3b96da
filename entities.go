package main

import (
	"fmt"
	"time"
)

// Product representa um item do catálogo. O catálogo é fixo e definido
// no início do processo; o preço está em unidades mínimas da moeda (centavos).
type Product struct {
	Sku       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
}

// Catalog é o conjunto fixo de produtos, somente leitura
type Catalog struct {
	products []Product
	bySku    map[string]Product
}

// NewCatalog cria um catálogo a partir de uma lista fixa de produtos
func NewCatalog(products []Product) *Catalog {
	bySku := make(map[string]Product, len(products))
	for _, p := range products {
		bySku[p.Sku] = p
	}
	return &Catalog{products: products, bySku: bySku}
}

// DefaultCatalog retorna o catálogo padrão do serviço
func DefaultCatalog() *Catalog {
	return NewCatalog([]Product{
		{Sku: "burger", Name: "Burger", UnitPrice: 1000},
		{Sku: "fries", Name: "Fries", UnitPrice: 800},
		{Sku: "soda", Name: "Soda", UnitPrice: 300},
		{Sku: "salad", Name: "Salad", UnitPrice: 700},
		{Sku: "cookie", Name: "Cookie", UnitPrice: 250},
	})
}

// List retorna todos os produtos do catálogo
func (c *Catalog) List() []Product {
	return c.products
}

// Lookup busca um produto pelo SKU
func (c *Catalog) Lookup(sku string) (Product, bool) {
	p, ok := c.bySku[sku]
	return p, ok
}

// CartLine representa uma linha do carrinho. A identidade da linha é o SKU:
// adicionar um SKU já presente incrementa a quantidade em vez de duplicar.
type CartLine struct {
	Sku       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

// LineTotal calcula o total da linha em unidades mínimas
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart representa o carrinho de uma sessão: sequência ordenada de linhas,
// única por SKU
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// AddLine adiciona quantity unidades do produto ao carrinho. O preço do
// catálogo é capturado no momento do add; mudanças posteriores de preço não
// afetam linhas já existentes.
func (c *Cart) AddLine(product Product, quantity int32) {
	for i := range c.Lines {
		if c.Lines[i].Sku == product.Sku {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		Sku:       product.Sku,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Quantity:  quantity,
	})
}

// IsEmpty indica se o carrinho não tem linhas
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Totals representa os totais derivados de um carrinho, em unidades mínimas.
// Nunca é persistido nem cacheado: é recalculado a cada leitura.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// ComputeTotals calcula subtotal, imposto e total sobre as linhas, usando
// aritmética inteira do início ao fim. taxRateBps é a alíquota em pontos-base
// (1300 = 13%). O imposto arredonda meio-para-cima na unidade mínima.
func ComputeTotals(lines []CartLine, taxRateBps int64) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal()
	}

	tax := (subtotal*taxRateBps + 5000) / 10000

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Order representa um pedido persistido. Imutável após o commit.
type Order struct {
	ID         int64     `json:"id" db:"id"`
	Subtotal   int64     `json:"subtotal" db:"subtotal"`
	TaxRateBps int64     `json:"tax_rate_bps" db:"tax_rate"`
	Tax        int64     `json:"tax" db:"tax"`
	Total      int64     `json:"total" db:"total"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewOrder cria um pedido a partir dos totais calculados e da alíquota vigente
func NewOrder(totals Totals, taxRateBps int64) *Order {
	return &Order{
		Subtotal:   totals.Subtotal,
		TaxRateBps: taxRateBps,
		Tax:        totals.Tax,
		Total:      totals.Total,
		CreatedAt:  time.Now(),
	}
}

// OrderLine representa uma linha persistida de um pedido
type OrderLine struct {
	OrderID   int64  `json:"order_id" db:"order_id"`
	Sku       string `json:"sku" db:"sku"`
	Name      string `json:"name" db:"name"`
	UnitPrice int64  `json:"unit_price" db:"unit_price"`
	Quantity  int32  `json:"quantity" db:"quantity"`
	LineTotal int64  `json:"line_total" db:"line_total"`
}

// BuildOrderLines converte o snapshot do carrinho em linhas de pedido.
// line_total usa a mesma multiplicação por linha que alimenta o subtotal,
// garantindo subtotal == soma dos line_total.
func BuildOrderLines(lines []CartLine) []OrderLine {
	orderLines := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		orderLines = append(orderLines, OrderLine{
			Sku:       l.Sku,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}
	return orderLines
}

// FormatMinorUnits formata um valor em unidades mínimas como string decimal
// ("2412" -> "24.12"). Apenas apresentação, fora do contrato de cálculo.
func FormatMinorUnits(v int64) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// FormatTaxRate formata a alíquota em pontos-base como decimal ("1300" -> "0.1300")
func FormatTaxRate(bps int64) string {
	return fmt.Sprintf("%d.%04d", bps/10000, bps%10000)
}
