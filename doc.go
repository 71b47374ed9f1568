// Package till provides an embeddable point-of-sale billing engine for Go applications.
//
// Till is designed as a library, not a service. Import it directly into your Go
// application and drive it from whatever front end you have: a terminal, an HTTP
// handler, a kiosk. It provides:
//
//   - Inventory with atomic stock reservation
//   - A single active cart with price/tax snapshots per line
//   - Integer-only money with half-up tax rounding at line boundaries
//   - Per-customer credit accounts with hard limits
//   - An append-only transaction ledger
//   - Pluggable lifecycle hooks for receipts, audit and metrics
//
// # Quick Start
//
// Create a till instance with your preferred store:
//
//	import (
//	    "github.com/xraph/till"
//	    "github.com/xraph/till/store/memory"
//	)
//
//	t := till.New(memory.New())
//	if err := t.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Stop()
//
// # Core Concepts
//
// Items are stocked goods with a price and a tax rate:
//
//	soap, err := t.AddItem(ctx, "Soap", till.USD(250), 40, till.Percent(10))
//
// The cart reserves stock as it grows, so two registers can never oversell:
//
//	line, err := t.AddToCart(ctx, soap.ID, 2)
//
// Checkout turns the cart into a permanent transaction in one atomic step:
//
//	txn, err := t.CompletePurchase(ctx, cust.ID, transaction.ModePaid)
//
// Credit sales charge the customer's account and fail cleanly when the
// limit would be breached:
//
//	txn, err := t.CompletePurchase(ctx, cust.ID, transaction.ModeCredit)
//	if till.IsCreditError(err) {
//	    // cart is untouched; retry with another mode
//	}
package till
