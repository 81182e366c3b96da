package main

import "testing"

func TestComputeTotals(t *testing.T) {
	// Arrange
	lines := []CartLine{
		{Sku: "burger", Name: "Burger", UnitPrice: 1000, Quantity: 1},
		{Sku: "fries", Name: "Fries", UnitPrice: 800, Quantity: 1},
		{Sku: "soda", Name: "Soda", UnitPrice: 300, Quantity: 2},
	}

	// Act
	totals := ComputeTotals(lines, 1300)

	// Assert
	if totals.Subtotal != 2400 {
		t.Errorf("Expected subtotal 2400, got %d", totals.Subtotal)
	}
	if totals.Tax != 312 {
		t.Errorf("Expected tax 312, got %d", totals.Tax)
	}
	if totals.Total != 2712 {
		t.Errorf("Expected total 2712, got %d", totals.Total)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, 1300)

	if totals.Subtotal != 0 || totals.Tax != 0 || totals.Total != 0 {
		t.Errorf("Expected all zeros for empty cart, got %+v", totals)
	}
}

func TestComputeTotalsRoundsHalfUp(t *testing.T) {
	// 50 * 0.13 = 6.5 -> rounds up to 7
	lines := []CartLine{{Sku: "gum", UnitPrice: 50, Quantity: 1}}

	totals := ComputeTotals(lines, 1300)

	if totals.Tax != 7 {
		t.Errorf("Expected tax 7 at the half-cent boundary, got %d", totals.Tax)
	}
	if totals.Total != 57 {
		t.Errorf("Expected total 57, got %d", totals.Total)
	}
}

func TestComputeTotalsRoundsDownBelowHalf(t *testing.T) {
	// 34 * 0.13 = 4.42 -> rounds down to 4
	lines := []CartLine{{Sku: "gum", UnitPrice: 34, Quantity: 1}}

	totals := ComputeTotals(lines, 1300)

	if totals.Tax != 4 {
		t.Errorf("Expected tax 4, got %d", totals.Tax)
	}
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	lines := []CartLine{
		{Sku: "burger", UnitPrice: 1000, Quantity: 2},
		{Sku: "soda", UnitPrice: 300, Quantity: 1},
	}

	first := ComputeTotals(lines, 1300)
	second := ComputeTotals(lines, 1300)

	if first != second {
		t.Errorf("Expected identical totals on repeated reads, got %+v and %+v", first, second)
	}
}

func TestCartAddLineAccumulatesBySku(t *testing.T) {
	// Arrange
	cart := &Cart{}
	burger := Product{Sku: "burger", Name: "Burger", UnitPrice: 1000}

	// Act
	cart.AddLine(burger, 1)
	cart.AddLine(burger, 2)

	// Assert
	if len(cart.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Errorf("Expected accumulated quantity 3, got %d", cart.Lines[0].Quantity)
	}
}

func TestCartAddLineKeepsOrder(t *testing.T) {
	cart := &Cart{}
	cart.AddLine(Product{Sku: "burger", UnitPrice: 1000}, 1)
	cart.AddLine(Product{Sku: "fries", UnitPrice: 800}, 1)
	cart.AddLine(Product{Sku: "burger", UnitPrice: 1000}, 1)

	if len(cart.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Sku != "burger" || cart.Lines[1].Sku != "fries" {
		t.Errorf("Expected insertion order preserved, got %s then %s", cart.Lines[0].Sku, cart.Lines[1].Sku)
	}
}

func TestBuildOrderLinesMatchesSubtotal(t *testing.T) {
	lines := []CartLine{
		{Sku: "burger", UnitPrice: 1000, Quantity: 3},
		{Sku: "soda", UnitPrice: 300, Quantity: 2},
	}

	orderLines := BuildOrderLines(lines)
	totals := ComputeTotals(lines, 1300)

	var sum int64
	for _, l := range orderLines {
		if l.LineTotal != l.UnitPrice*int64(l.Quantity) {
			t.Errorf("Expected line_total %d for %s, got %d", l.UnitPrice*int64(l.Quantity), l.Sku, l.LineTotal)
		}
		sum += l.LineTotal
	}
	if sum != totals.Subtotal {
		t.Errorf("Expected line totals to sum to subtotal %d, got %d", totals.Subtotal, sum)
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Lookup("burger"); !ok {
		t.Error("Expected burger in the default catalog")
	}
	if _, ok := catalog.Lookup("pizza"); ok {
		t.Error("Expected pizza to be unknown")
	}
	if len(catalog.List()) == 0 {
		t.Error("Expected a non-empty catalog")
	}
}

func TestFormatMinorUnits(t *testing.T) {
	cases := map[int64]string{
		2400: "24.00",
		2712: "27.12",
		7:    "0.07",
		0:    "0.00",
	}

	for input, expected := range cases {
		if got := FormatMinorUnits(input); got != expected {
			t.Errorf("Expected %s for %d, got %s", expected, input, got)
		}
	}
}

func TestFormatTaxRate(t *testing.T) {
	if got := FormatTaxRate(1300); got != "0.1300" {
		t.Errorf("Expected 0.1300, got %s", got)
	}
	if got := FormatTaxRate(825); got != "0.0825" {
		t.Errorf("Expected 0.0825, got %s", got)
	}
}
