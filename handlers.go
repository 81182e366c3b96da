package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// SessionCookieName é o cookie que identifica a sessão do carrinho
const SessionCookieName = "cart_session"

// AddItemRequest representa a requisição para adicionar um item ao carrinho
type AddItemRequest struct {
	Sku      string `json:"sku" binding:"required"`
	Quantity int32  `json:"quantity" binding:"required,gt=0"`
}

// CartResponse representa o carrinho com seus totais recalculados
type CartResponse struct {
	Lines    []CartLine `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Tax      int64      `json:"tax"`
	Total    int64      `json:"total"`
}

// CartUseCaseInterface define a interface para o use case de carrinho
type CartUseCaseInterface interface {
	AddItem(ctx context.Context, sessionID, sku string, quantity int32) (*Cart, error)
	ViewCart(ctx context.Context, sessionID string, taxRateBps int64) (*Cart, Totals, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// CheckoutUseCaseInterface define a interface para o use case de checkout
type CheckoutUseCaseInterface interface {
	Checkout(ctx context.Context, sessionID string) (*Receipt, error)
}

// Handler contém os handlers HTTP do serviço
type Handler struct {
	catalog    *Catalog
	cart       CartUseCaseInterface
	checkout   CheckoutUseCaseInterface
	repository OrderRepository
	carts      CartStore
	taxRateBps int64
}

// NewHandler cria uma nova instância de Handler
func NewHandler(catalog *Catalog, cart CartUseCaseInterface, checkout CheckoutUseCaseInterface, repository OrderRepository, carts CartStore, taxRateBps int64) *Handler {
	return &Handler{
		catalog:    catalog,
		cart:       cart,
		checkout:   checkout,
		repository: repository,
		carts:      carts,
		taxRateBps: taxRateBps,
	}
}

// SessionMiddleware garante que toda requisição carrega um identificador de
// sessão: aceita o header X-Session-ID ou o cookie da sessão e cria um novo
// quando ausente. Sessões diferentes nunca enxergam o carrinho uma da outra.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(SessionCookieName, sessionID, 0, "/", "", false, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// ListProducts lista o catálogo fixo de produtos
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalog.List()})
}

// GetCart retorna o carrinho da sessão com os totais
func (h *Handler) GetCart(c *gin.Context) {
	ctx, span := StartCartSpan(c.Request.Context(), "view", sessionID(c))
	defer span.End()

	cart, totals, err := h.cart.ViewCart(ctx, sessionID(c), h.taxRateBps)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, totals))
}

// AddItem adiciona um item ao carrinho da sessão
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := StartCartSpan(c.Request.Context(), "add_item", sessionID(c))
	defer span.End()

	span.SetAttributes(
		attribute.String("sku", req.Sku),
		attribute.Int("quantity", int(req.Quantity)),
	)

	cart, err := h.cart.AddItem(ctx, sessionID(c), req.Sku, req.Quantity)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrUnknownProduct):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, cartResponse(cart, ComputeTotals(cart.Lines, h.taxRateBps)))
}

// ClearCart esvazia o carrinho da sessão
func (h *Handler) ClearCart(c *gin.Context) {
	ctx, span := StartCartSpan(c.Request.Context(), "clear", sessionID(c))
	defer span.End()

	if err := h.cart.ClearCart(ctx, sessionID(c)); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "cart cleared"})
}

// Checkout converte o carrinho da sessão em um pedido persistido
func (h *Handler) Checkout(c *gin.Context) {
	ctx, span := StartCheckoutSpan(c.Request.Context(), sessionID(c))
	defer span.End()

	receipt, err := h.checkout.Checkout(ctx, sessionID(c))
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	span.SetAttributes(
		attribute.Int64("order_id", receipt.OrderID),
		attribute.Int64("order_total", receipt.Total),
	)

	c.JSON(http.StatusOK, receipt)
}

// HealthCheck verifica a saúde do serviço e de seus armazenamentos
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.repository.Healthcheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	if err := h.carts.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cart-checkout-service",
	})
}

func cartResponse(cart *Cart, totals Totals) CartResponse {
	lines := cart.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	return CartResponse{
		Lines:    lines,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}
}
