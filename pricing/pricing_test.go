package pricing

import (
	"testing"

	"github.com/xraph/till/cart"
	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

func line(priceCents int64, qty int, ratePct int64) *cart.Line {
	return &cart.Line{
		ID:       id.NewCartLineID(),
		ItemID:   id.NewItemID(),
		Name:     "test item",
		Price:    types.USD(priceCents),
		Quantity: qty,
		TaxRate:  types.Percent(ratePct),
	}
}

func TestLineSubtotal(t *testing.T) {
	// $100.00 × 2 = $200.00
	l := line(10000, 2, 10)
	if got := LineSubtotal(l); !got.Equal(types.USD(20000)) {
		t.Errorf("got %v, want $200.00", got)
	}
}

func TestLineTax(t *testing.T) {
	// 10% of $200.00 = $20.00
	l := line(10000, 2, 10)
	if got := LineTax(l); !got.Equal(types.USD(2000)) {
		t.Errorf("got %v, want $20.00", got)
	}
}

func TestComputeSingleLine(t *testing.T) {
	lines := []*cart.Line{line(10000, 2, 10)}

	totals := Compute(lines, "usd")
	if !totals.Subtotal.Equal(types.USD(20000)) {
		t.Errorf("subtotal: got %v, want $200.00", totals.Subtotal)
	}
	if !totals.Tax.Equal(types.USD(2000)) {
		t.Errorf("tax: got %v, want $20.00", totals.Tax)
	}
	if !totals.Total.Equal(types.USD(22000)) {
		t.Errorf("total: got %v, want $220.00", totals.Total)
	}
}

func TestComputeMultiLine(t *testing.T) {
	lines := []*cart.Line{
		line(10000, 2, 10), // $200.00 + $20.00 tax
		line(20000, 1, 5),  // $200.00 + $10.00 tax
		line(15000, 3, 8),  // $450.00 + $36.00 tax
	}

	totals := Compute(lines, "usd")
	if !totals.Subtotal.Equal(types.USD(85000)) {
		t.Errorf("subtotal: got %v, want $850.00", totals.Subtotal)
	}
	if !totals.Tax.Equal(types.USD(6600)) {
		t.Errorf("tax: got %v, want $66.00", totals.Tax)
	}
	if !totals.Total.Equal(types.USD(91600)) {
		t.Errorf("total: got %v, want $916.00", totals.Total)
	}
}

func TestTotalRoundTrip(t *testing.T) {
	// total == subtotal + tax for any line set, including one with rates
	// that round at the cent boundary.
	sets := [][]*cart.Line{
		{line(10000, 2, 10)},
		{line(10000, 2, 10), line(20000, 1, 5)},
		{
			{ItemID: id.NewItemID(), Price: types.USD(103), Quantity: 3, TaxRate: types.BasisPoints(825)},
			{ItemID: id.NewItemID(), Price: types.USD(77), Quantity: 1, TaxRate: types.BasisPoints(550)},
		},
	}

	for i, lines := range sets {
		sub := Subtotal(lines, "usd")
		tax := Tax(lines, "usd")
		total := Total(lines, "usd")
		if !total.Equal(sub.Add(tax)) {
			t.Errorf("set %d: total %v != subtotal %v + tax %v", i, total, sub, tax)
		}
	}
}

func TestCartTaxRoundsOnce(t *testing.T) {
	// Each line alone would round to 8 cents (8.4975), so summing
	// rounded line taxes would give 16. Exact accumulation gives
	// 16.995 which rounds half-up to 17.
	lines := []*cart.Line{
		{ItemID: id.NewItemID(), Price: types.USD(103), Quantity: 1, TaxRate: types.BasisPoints(825)},
		{ItemID: id.NewItemID(), Price: types.USD(103), Quantity: 1, TaxRate: types.BasisPoints(825)},
	}

	if got := Tax(lines, "usd"); !got.Equal(types.USD(17)) {
		t.Errorf("got %v, want $0.17", got)
	}
}

func TestEmptyLines(t *testing.T) {
	totals := Compute(nil, "usd")
	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() || !totals.Total.IsZero() {
		t.Errorf("empty cart should price to zero, got %+v", totals)
	}
	if totals.Total.Currency != "usd" {
		t.Errorf("zero totals should keep the requested currency, got %q", totals.Total.Currency)
	}
}
