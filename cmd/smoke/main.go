package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type product struct {
	Sku       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
}

type productList struct {
	Products []product `json:"products"`
}

type cartLine struct {
	Sku       string `json:"sku"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

type cartView struct {
	Lines    []cartLine `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Tax      int64      `json:"tax"`
	Total    int64      `json:"total"`
}

type receipt struct {
	OrderID  int64 `json:"order_id"`
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// smoke drives the public API end to end with a fresh session: list the
// catalog, add a few lines, read the cart back, check out, and verify the
// receipt totals against its own recomputation. Exits non-zero on any mismatch.
func main() {
	baseURL := flag.String("base-url", envOr("BASE_URL", "http://localhost:8080"), "service base URL")
	taxRateBps := flag.Int64("tax-rate-bps", 1300, "tax rate the service is configured with, in basis points")
	flag.Parse()

	session := uuid.New().String()
	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("X-Session-ID", session)

	log.Printf("🚬 Smoke run against %s (session %s)", *baseURL, session)

	var products productList
	resp, err := client.R().SetResult(&products).Get("/api/products")
	check(err, resp, "list products")
	if len(products.Products) == 0 {
		fail("catalog is empty")
	}

	adds := []struct {
		sku string
		qty int32
	}{
		{products.Products[0].Sku, 1},
		{products.Products[0].Sku, 2},
		{products.Products[1].Sku, 1},
	}
	for _, a := range adds {
		resp, err := client.R().
			SetBody(map[string]any{"sku": a.sku, "quantity": a.qty}).
			Post("/api/cart/items")
		check(err, resp, fmt.Sprintf("add %s x%d", a.sku, a.qty))
	}

	var cart cartView
	resp, err = client.R().SetResult(&cart).Get("/api/cart")
	check(err, resp, "view cart")

	var subtotal int64
	for _, l := range cart.Lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	tax := (subtotal*(*taxRateBps) + 5000) / 10000
	if cart.Subtotal != subtotal || cart.Tax != tax || cart.Total != subtotal+tax {
		fail(fmt.Sprintf("cart totals mismatch: got %d/%d/%d, want %d/%d/%d",
			cart.Subtotal, cart.Tax, cart.Total, subtotal, tax, subtotal+tax))
	}

	var rcpt receipt
	resp, err = client.R().SetResult(&rcpt).Post("/api/checkout")
	check(err, resp, "checkout")
	if rcpt.Subtotal != subtotal || rcpt.Tax != tax || rcpt.Total != subtotal+tax {
		fail(fmt.Sprintf("receipt totals mismatch: got %d/%d/%d, want %d/%d/%d",
			rcpt.Subtotal, rcpt.Tax, rcpt.Total, subtotal, tax, subtotal+tax))
	}
	if rcpt.OrderID == 0 {
		fail("receipt has no order id")
	}

	var after cartView
	resp, err = client.R().SetResult(&after).Get("/api/cart")
	check(err, resp, "view cart after checkout")
	if len(after.Lines) != 0 {
		fail(fmt.Sprintf("cart not cleared after checkout: %d lines left", len(after.Lines)))
	}

	log.Printf("✅ Smoke run passed: order %d, total %d minor units", rcpt.OrderID, rcpt.Total)
}

func check(err error, resp *resty.Response, step string) {
	if err != nil {
		fail(fmt.Sprintf("%s: %v", step, err))
	}
	if resp.IsError() {
		fail(fmt.Sprintf("%s: HTTP %d: %s", step, resp.StatusCode(), resp.String()))
	}
}

func fail(msg string) {
	log.Printf("❌ %s", msg)
	os.Exit(1)
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
