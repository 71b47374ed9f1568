package till_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/till"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/item"
	"github.com/xraph/till/store/memory"
	"github.com/xraph/till/transaction"
)

func newTill(t *testing.T) *till.Till {
	t.Helper()

	eng := till.New(memory.New())
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	t.Cleanup(func() {
		if err := eng.Stop(); err != nil {
			t.Errorf("Stop() = %v", err)
		}
	})
	return eng
}

func mustAddItem(t *testing.T, eng *till.Till, name string, price till.Money, qty int, rate till.TaxRate) *item.Item {
	t.Helper()

	it, err := eng.AddItem(context.Background(), name, price, qty, rate)
	if err != nil {
		t.Fatalf("AddItem(%q) = %v", name, err)
	}
	return it
}

func mustRegisterCustomer(t *testing.T, eng *till.Till, name, phone string, limit till.Money) *customer.Customer {
	t.Helper()

	c, err := eng.RegisterCustomer(context.Background(), name, phone, limit)
	if err != nil {
		t.Fatalf("RegisterCustomer(%q) = %v", name, err)
	}
	return c
}

func TestAddItemValidation(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		itemName string
		price    till.Money
		qty      int
		rate     till.TaxRate
	}{
		{"empty name", "  ", till.USD(100), 1, till.Percent(10)},
		{"negative price", "Soap", till.USD(-100), 1, till.Percent(10)},
		{"wrong currency", "Soap", till.EUR(100), 1, till.Percent(10)},
		{"negative quantity", "Soap", till.USD(100), -1, till.Percent(10)},
		{"rate above 100%", "Soap", till.USD(100), 1, till.Percent(150)},
		{"negative rate", "Soap", till.USD(100), 1, till.Percent(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.AddItem(ctx, tt.itemName, tt.price, tt.qty, tt.rate)
			if !till.IsValidation(err) {
				t.Errorf("AddItem() = %v, want validation error", err)
			}
		})
	}
}

func TestAddToCartReservesStock(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(25000), 10, till.Percent(10))

	line, err := eng.AddToCart(ctx, it.ID, 2)
	if err != nil {
		t.Fatalf("AddToCart() = %v", err)
	}
	if line.Quantity != 2 {
		t.Errorf("line quantity = %d, want 2", line.Quantity)
	}

	got, err := eng.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItem() = %v", err)
	}
	if got.Quantity != 8 {
		t.Errorf("stock after reserve = %d, want 8", got.Quantity)
	}
}

func TestAddToCartMergesLines(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(10))

	first, err := eng.AddToCart(ctx, it.ID, 2)
	if err != nil {
		t.Fatalf("first AddToCart() = %v", err)
	}
	second, err := eng.AddToCart(ctx, it.ID, 3)
	if err != nil {
		t.Fatalf("second AddToCart() = %v", err)
	}

	if second.ID.String() != first.ID.String() {
		t.Errorf("second add created a new line: %s != %s", second.ID, first.ID)
	}
	if second.Quantity != 5 {
		t.Errorf("merged quantity = %d, want 5", second.Quantity)
	}

	lines, err := eng.CartLines(ctx)
	if err != nil {
		t.Fatalf("CartLines() = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(lines))
	}
}

func TestAddToCartInsufficientStock(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 3, till.Percent(0))

	if _, err := eng.AddToCart(ctx, it.ID, 4); !errors.Is(err, till.ErrInsufficientStock) {
		t.Fatalf("AddToCart(4 of 3) = %v, want ErrInsufficientStock", err)
	}

	// A rejected add changes nothing.
	got, _ := eng.GetItem(ctx, it.ID)
	if got.Quantity != 3 {
		t.Errorf("stock after rejected add = %d, want 3", got.Quantity)
	}
	lines, _ := eng.CartLines(ctx)
	if len(lines) != 0 {
		t.Errorf("cart has %d lines after rejected add, want 0", len(lines))
	}
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(10))

	line, err := eng.AddToCart(ctx, it.ID, 1)
	if err != nil {
		t.Fatalf("AddToCart() = %v", err)
	}

	if line.Name != "Soap" {
		t.Errorf("line name = %q, want %q", line.Name, "Soap")
	}
	if line.Price.Amount != 1000 {
		t.Errorf("line price = %d, want 1000", line.Price.Amount)
	}
	if line.TaxRate.BasisPoints() != 1000 {
		t.Errorf("line tax rate = %d bps, want 1000", line.TaxRate.BasisPoints())
	}
}

func TestRemoveFromCartRestoresStock(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(10))
	if _, err := eng.AddToCart(ctx, it.ID, 4); err != nil {
		t.Fatalf("AddToCart() = %v", err)
	}

	if err := eng.RemoveFromCart(ctx, it.ID); err != nil {
		t.Fatalf("RemoveFromCart() = %v", err)
	}

	got, _ := eng.GetItem(ctx, it.ID)
	if got.Quantity != 10 {
		t.Errorf("stock after remove = %d, want 10", got.Quantity)
	}
	if err := eng.RemoveFromCart(ctx, it.ID); !errors.Is(err, till.ErrLineNotFound) {
		t.Errorf("second remove = %v, want ErrLineNotFound", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 5, till.Percent(0))
	if _, err := eng.AddToCart(ctx, it.ID, 3); err != nil {
		t.Fatalf("AddToCart() = %v", err)
	}

	// Increase within stock.
	if err := eng.AdjustQuantity(ctx, it.ID, 2); err != nil {
		t.Fatalf("AdjustQuantity(+2) = %v", err)
	}
	got, _ := eng.GetItem(ctx, it.ID)
	if got.Quantity != 0 {
		t.Errorf("stock = %d, want 0", got.Quantity)
	}

	// Increase beyond stock fails with the cart unchanged.
	if err := eng.AdjustQuantity(ctx, it.ID, 1); !errors.Is(err, till.ErrInsufficientStock) {
		t.Fatalf("AdjustQuantity(+1 at zero stock) = %v, want ErrInsufficientStock", err)
	}
	lines, _ := eng.CartLines(ctx)
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("cart lines = %+v, want one line of 5", lines)
	}

	// Decrease releases stock.
	if err := eng.AdjustQuantity(ctx, it.ID, -2); err != nil {
		t.Fatalf("AdjustQuantity(-2) = %v", err)
	}
	got, _ = eng.GetItem(ctx, it.ID)
	if got.Quantity != 2 {
		t.Errorf("stock after decrease = %d, want 2", got.Quantity)
	}

	// Dropping below one unit removes the line and restores everything.
	if err := eng.AdjustQuantity(ctx, it.ID, -3); err != nil {
		t.Fatalf("AdjustQuantity(-3) = %v", err)
	}
	lines, _ = eng.CartLines(ctx)
	if len(lines) != 0 {
		t.Errorf("cart has %d lines, want 0", len(lines))
	}
	got, _ = eng.GetItem(ctx, it.ID)
	if got.Quantity != 5 {
		t.Errorf("stock after line removal = %d, want 5", got.Quantity)
	}
}

func TestClearCartRestoresStock(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	soap := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(10))
	rice := mustAddItem(t, eng, "Rice", till.USD(5000), 6, till.Percent(5))
	if _, err := eng.AddToCart(ctx, soap.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AddToCart(ctx, rice.ID, 3); err != nil {
		t.Fatal(err)
	}

	if err := eng.ClearCart(ctx); err != nil {
		t.Fatalf("ClearCart() = %v", err)
	}

	gotSoap, _ := eng.GetItem(ctx, soap.ID)
	gotRice, _ := eng.GetItem(ctx, rice.ID)
	if gotSoap.Quantity != 10 || gotRice.Quantity != 6 {
		t.Errorf("stock after clear = %d/%d, want 10/6", gotSoap.Quantity, gotRice.Quantity)
	}
	lines, _ := eng.CartLines(ctx)
	if len(lines) != 0 {
		t.Errorf("cart has %d lines, want 0", len(lines))
	}
}

func TestTotals(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(10000), 10, till.Percent(10))
	if _, err := eng.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatal(err)
	}

	totals, err := eng.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals() = %v", err)
	}
	if totals.Subtotal.Amount != 20000 {
		t.Errorf("subtotal = %d, want 20000", totals.Subtotal.Amount)
	}
	if totals.Tax.Amount != 2000 {
		t.Errorf("tax = %d, want 2000", totals.Tax.Amount)
	}
	if totals.Total.Amount != 22000 {
		t.Errorf("total = %d, want 22000", totals.Total.Amount)
	}
}

func TestCompletePurchasePaid(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(10000), 10, till.Percent(10))
	cust := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(50000))

	if _, err := eng.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatal(err)
	}

	txn, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModePaid)
	if err != nil {
		t.Fatalf("CompletePurchase() = %v", err)
	}

	if txn.Total.Amount != 22000 {
		t.Errorf("total = %d, want 22000", txn.Total.Amount)
	}
	if txn.Tax.Amount != 2000 {
		t.Errorf("tax = %d, want 2000", txn.Tax.Amount)
	}
	if len(txn.Lines) != 1 || txn.Lines[0].Quantity != 2 {
		t.Errorf("transaction lines = %+v, want one line of 2", txn.Lines)
	}

	// Cart is emptied; reservations are consumed, not released.
	lines, _ := eng.CartLines(ctx)
	if len(lines) != 0 {
		t.Errorf("cart has %d lines after checkout, want 0", len(lines))
	}
	got, _ := eng.GetItem(ctx, it.ID)
	if got.Quantity != 8 {
		t.Errorf("stock after paid checkout = %d, want 8", got.Quantity)
	}

	// Immediate settlement does not touch credit.
	gotCust, _ := eng.GetCustomer(ctx, cust.ID)
	if !gotCust.CreditUsed.IsZero() {
		t.Errorf("credit used = %s, want zero", gotCust.CreditUsed)
	}

	// The sale is in the ledger.
	recorded, err := eng.GetTransaction(ctx, txn.ID)
	if err != nil {
		t.Fatalf("GetTransaction() = %v", err)
	}
	if recorded.Mode != transaction.ModePaid {
		t.Errorf("recorded mode = %q, want %q", recorded.Mode, transaction.ModePaid)
	}
}

func TestCompletePurchaseCredit(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(10000), 10, till.Percent(10))
	cust := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(50000))

	if _, err := eng.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatal(err)
	}

	txn, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModeCredit)
	if err != nil {
		t.Fatalf("CompletePurchase(credit) = %v", err)
	}

	gotCust, _ := eng.GetCustomer(ctx, cust.ID)
	if gotCust.CreditUsed.Amount != txn.Total.Amount {
		t.Errorf("credit used = %d, want %d", gotCust.CreditUsed.Amount, txn.Total.Amount)
	}
	if gotCust.AvailableCredit().Amount != 50000-22000 {
		t.Errorf("available credit = %d, want %d", gotCust.AvailableCredit().Amount, 50000-22000)
	}
}

func TestCompletePurchaseCreditLimitExceeded(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(10000), 10, till.Percent(10))
	cust := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(20000))

	if _, err := eng.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatal(err)
	}

	_, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModeCredit)
	if !errors.Is(err, till.ErrCreditLimitExceeded) {
		t.Fatalf("CompletePurchase() = %v, want ErrCreditLimitExceeded", err)
	}

	// Nothing was charged, recorded, or cleared.
	gotCust, _ := eng.GetCustomer(ctx, cust.ID)
	if !gotCust.CreditUsed.IsZero() {
		t.Errorf("credit used = %s, want zero", gotCust.CreditUsed)
	}
	txns, _ := eng.ListTransactions(ctx, transaction.ListOpts{})
	if len(txns) != 0 {
		t.Errorf("ledger has %d transactions, want 0", len(txns))
	}
	lines, _ := eng.CartLines(ctx)
	if len(lines) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(lines))
	}

	// The cart keeps its reservation so the sale can be retried as paid.
	got, _ := eng.GetItem(ctx, it.ID)
	if got.Quantity != 8 {
		t.Errorf("stock after rejection = %d, want 8", got.Quantity)
	}
	if _, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModePaid); err != nil {
		t.Fatalf("retry as paid = %v", err)
	}
}

func TestCompletePurchaseGuards(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(0))
	cust := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(50000))

	t.Run("nil customer", func(t *testing.T) {
		var nilID = till.ID{}
		if _, err := eng.CompletePurchase(ctx, nilID, transaction.ModePaid); !errors.Is(err, till.ErrNoCustomerSelected) {
			t.Errorf("got %v, want ErrNoCustomerSelected", err)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		if _, err := eng.CompletePurchase(ctx, cust.ID, "layaway"); !errors.Is(err, till.ErrInvalidPaymentMode) {
			t.Errorf("got %v, want ErrInvalidPaymentMode", err)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		if _, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModePaid); !errors.Is(err, till.ErrEmptyCart) {
			t.Errorf("got %v, want ErrEmptyCart", err)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		if _, err := eng.AddToCart(ctx, it.ID, 1); err != nil {
			t.Fatal(err)
		}
		// An ID minted by another engine is unknown to this store.
		otherEng := newTill(t)
		stranger := mustRegisterCustomer(t, otherEng, "Stranger", "555-0199", till.USD(1000))
		if _, err := eng.CompletePurchase(ctx, stranger.ID, transaction.ModePaid); !errors.Is(err, till.ErrCustomerNotFound) {
			t.Errorf("got %v, want ErrCustomerNotFound", err)
		}
	})
}

func TestListTransactionsFilters(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 100, till.Percent(0))
	asha := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(100000))
	noor := mustRegisterCustomer(t, eng, "Noor", "555-0102", till.USD(100000))

	var created []string
	checkout := func(c *customer.Customer, mode transaction.PaymentMode) {
		t.Helper()
		if _, err := eng.AddToCart(ctx, it.ID, 1); err != nil {
			t.Fatal(err)
		}
		txn, err := eng.CompletePurchase(ctx, c.ID, mode)
		if err != nil {
			t.Fatal(err)
		}
		created = append(created, txn.ID.String())
	}

	checkout(asha, transaction.ModePaid)
	checkout(noor, transaction.ModeCredit)
	checkout(asha, transaction.ModeCredit)
	checkout(noor, transaction.ModePaid)

	all, err := eng.ListTransactions(ctx, transaction.ListOpts{})
	if err != nil {
		t.Fatalf("ListTransactions() = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("ledger has %d transactions, want 4", len(all))
	}
	// Insertion order is stable.
	for i := range all {
		if all[i].ID.String() != created[i] {
			t.Errorf("transaction %d = %s, want %s", i, all[i].ID, created[i])
		}
	}

	credit, err := eng.ListTransactions(ctx, transaction.ListOpts{Mode: transaction.ModeCredit})
	if err != nil {
		t.Fatal(err)
	}
	if len(credit) != 2 {
		t.Errorf("credit transactions = %d, want 2", len(credit))
	}

	byNoor, err := eng.ListTransactions(ctx, transaction.ListOpts{CustomerID: noor.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byNoor) != 2 {
		t.Errorf("transactions for customer = %d, want 2", len(byNoor))
	}

	both, err := eng.ListTransactions(ctx, transaction.ListOpts{
		Mode:       transaction.ModeCredit,
		CustomerID: noor.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(both) != 1 {
		t.Errorf("combined filter = %d, want 1", len(both))
	}
}

func TestTransactionIsSnapshot(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	it := mustAddItem(t, eng, "Soap", till.USD(1000), 10, till.Percent(10))
	cust := mustRegisterCustomer(t, eng, "Asha", "555-0101", till.USD(50000))
	if _, err := eng.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatal(err)
	}

	txn, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModePaid)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the returned value must not affect the ledger.
	txn.Lines[0].Quantity = 999

	recorded, err := eng.GetTransaction(ctx, txn.ID)
	if err != nil {
		t.Fatal(err)
	}
	if recorded.Lines[0].Quantity != 2 {
		t.Errorf("recorded line quantity = %d, want 2", recorded.Lines[0].Quantity)
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	eng := till.New(memory.New(), till.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer eng.Stop()

	it, err := eng.AddItem(ctx, "Soap", till.USD(1000), 5, till.Percent(0))
	if err != nil {
		t.Fatal(err)
	}
	cust, err := eng.RegisterCustomer(ctx, "Asha", "555-0101", till.USD(50000))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AddToCart(ctx, it.ID, 1); err != nil {
		t.Fatal(err)
	}

	txn, err := eng.CompletePurchase(ctx, cust.ID, transaction.ModePaid)
	if err != nil {
		t.Fatal(err)
	}
	if !txn.Date.Equal(fixed) {
		t.Errorf("transaction date = %v, want %v", txn.Date, fixed)
	}
}

func TestListItemsSearch(t *testing.T) {
	eng := newTill(t)
	ctx := context.Background()

	mustAddItem(t, eng, "Hand Soap", till.USD(250), 10, till.Percent(10))
	mustAddItem(t, eng, "Rice", till.USD(5000), 10, till.Percent(0))
	mustAddItem(t, eng, "Dish Soap", till.USD(300), 10, till.Percent(10))

	all, err := eng.ListItems(ctx, item.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("ListItems() = %d items, want 3", len(all))
	}
	if all[0].Name != "Hand Soap" || all[2].Name != "Dish Soap" {
		t.Errorf("items out of insertion order: %q, %q, %q", all[0].Name, all[1].Name, all[2].Name)
	}

	soaps, err := eng.ListItems(ctx, item.ListOpts{Search: "soap"})
	if err != nil {
		t.Fatal(err)
	}
	if len(soaps) != 2 {
		t.Errorf("search %q = %d items, want 2", "soap", len(soaps))
	}
}
