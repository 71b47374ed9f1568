package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/till"
	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

func newItem(name string, price int64, qty int) *item.Item {
	return &item.Item{
		Entity:   types.NewEntity(),
		ID:       id.NewItemID(),
		Name:     name,
		Price:    types.USD(price),
		Quantity: qty,
		TaxRate:  types.Percent(10),
	}
}

func newCustomer(name string, limit int64) *customer.Customer {
	return &customer.Customer{
		Entity:      types.NewEntity(),
		ID:          id.NewCustomerID(),
		Name:        name,
		Phone:       "555-0101",
		CreditLimit: types.USD(limit),
		CreditUsed:  types.Zero("usd"),
	}
}

func TestItemCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	it := newItem("Soap", 250, 40)
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem() = %v", err)
	}
	if err := s.CreateItem(ctx, it); !errors.Is(err, till.ErrAlreadyExists) {
		t.Errorf("duplicate CreateItem() = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItem() = %v", err)
	}
	if got.Name != "Soap" || got.Quantity != 40 {
		t.Errorf("got %+v", got)
	}

	// Stored items are isolated from caller mutation.
	got.Quantity = 0
	again, _ := s.GetItem(ctx, it.ID)
	if again.Quantity != 40 {
		t.Errorf("quantity = %d after caller mutation, want 40", again.Quantity)
	}

	if _, err := s.GetItem(ctx, id.NewItemID()); !errors.Is(err, till.ErrItemNotFound) {
		t.Errorf("GetItem(unknown) = %v, want ErrItemNotFound", err)
	}
}

func TestListItemsSearchAndPagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"Hand Soap", "Rice", "Dish Soap", "Oil"} {
		if err := s.CreateItem(ctx, newItem(name, 100, 5)); err != nil {
			t.Fatal(err)
		}
	}

	soaps, err := s.ListItems(ctx, item.ListOpts{Search: "soap"})
	if err != nil {
		t.Fatal(err)
	}
	if len(soaps) != 2 {
		t.Errorf("search = %d items, want 2", len(soaps))
	}

	page, err := s.ListItems(ctx, item.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Name != "Rice" {
		t.Errorf("page = %+v", page)
	}
}

func TestReserveStock(t *testing.T) {
	s := New()
	ctx := context.Background()

	it := newItem("Soap", 250, 3)
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatal(err)
	}

	if err := s.ReserveStock(ctx, it.ID, 2); err != nil {
		t.Fatalf("ReserveStock(2) = %v", err)
	}
	if err := s.ReserveStock(ctx, it.ID, 2); !errors.Is(err, till.ErrInsufficientStock) {
		t.Fatalf("ReserveStock(2 of 1) = %v, want ErrInsufficientStock", err)
	}

	// The failed reserve must not have touched the count.
	got, _ := s.GetItem(ctx, it.ID)
	if got.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", got.Quantity)
	}

	if err := s.ReserveStock(ctx, it.ID, 0); !errors.Is(err, till.ErrInvalidQuantity) {
		t.Errorf("ReserveStock(0) = %v, want ErrInvalidQuantity", err)
	}
	if err := s.ReserveStock(ctx, id.NewItemID(), 1); !errors.Is(err, till.ErrItemNotFound) {
		t.Errorf("ReserveStock(unknown) = %v, want ErrItemNotFound", err)
	}

	if err := s.ReleaseStock(ctx, it.ID, 2); err != nil {
		t.Fatalf("ReleaseStock() = %v", err)
	}
	got, _ = s.GetItem(ctx, it.ID)
	if got.Quantity != 3 {
		t.Errorf("quantity after release = %d, want 3", got.Quantity)
	}
}

func TestChargeCredit(t *testing.T) {
	s := New()
	ctx := context.Background()

	c := newCustomer("Asha", 500)
	if err := s.CreateCustomer(ctx, c); err != nil {
		t.Fatal(err)
	}

	if err := s.ChargeCredit(ctx, c.ID, types.USD(300)); err != nil {
		t.Fatalf("ChargeCredit(300) = %v", err)
	}
	// Exactly at the limit is allowed.
	if err := s.ChargeCredit(ctx, c.ID, types.USD(200)); err != nil {
		t.Fatalf("ChargeCredit(200) = %v", err)
	}
	if err := s.ChargeCredit(ctx, c.ID, types.USD(1)); !errors.Is(err, till.ErrCreditLimitExceeded) {
		t.Fatalf("ChargeCredit over limit = %v, want ErrCreditLimitExceeded", err)
	}

	got, _ := s.GetCustomer(ctx, c.ID)
	if got.CreditUsed.Amount != 500 {
		t.Errorf("credit used = %d, want 500", got.CreditUsed.Amount)
	}

	// Negative amounts reverse a charge and are never limit-checked.
	if err := s.ChargeCredit(ctx, c.ID, types.USD(-500)); err != nil {
		t.Fatalf("ChargeCredit(-500) = %v", err)
	}
	got, _ = s.GetCustomer(ctx, c.ID)
	if !got.CreditUsed.IsZero() {
		t.Errorf("credit used after reversal = %d, want 0", got.CreditUsed.Amount)
	}

	if err := s.ChargeCredit(ctx, id.NewCustomerID(), types.USD(1)); !errors.Is(err, till.ErrCustomerNotFound) {
		t.Errorf("ChargeCredit(unknown) = %v, want ErrCustomerNotFound", err)
	}
}

func TestCartLines(t *testing.T) {
	s := New()
	ctx := context.Background()

	itemID := id.NewItemID()
	line := &cart.Line{
		Entity:   types.NewEntity(),
		ID:       id.NewCartLineID(),
		ItemID:   itemID,
		Name:     "Soap",
		Price:    types.USD(250),
		Quantity: 2,
		TaxRate:  types.Percent(10),
	}

	if _, err := s.GetCartLine(ctx, itemID); !errors.Is(err, till.ErrLineNotFound) {
		t.Fatalf("GetCartLine(empty) = %v, want ErrLineNotFound", err)
	}

	if err := s.PutCartLine(ctx, line); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCartLine(ctx, itemID)
	if err != nil {
		t.Fatalf("GetCartLine() = %v", err)
	}
	if got.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", got.Quantity)
	}

	// Put replaces the line for the same item without duplicating it.
	got.Quantity = 5
	if err := s.PutCartLine(ctx, got); err != nil {
		t.Fatal(err)
	}
	lines, _ := s.ListCartLines(ctx)
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Errorf("lines = %+v, want one line of 5", lines)
	}

	if err := s.DeleteCartLine(ctx, itemID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCartLine(ctx, itemID); !errors.Is(err, till.ErrLineNotFound) {
		t.Errorf("second delete = %v, want ErrLineNotFound", err)
	}
}

func TestCartInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Soap", "Rice", "Oil"} {
		l := &cart.Line{
			Entity:   types.NewEntity(),
			ID:       id.NewCartLineID(),
			ItemID:   id.NewItemID(),
			Name:     name,
			Price:    types.USD(100),
			Quantity: 1,
			TaxRate:  types.Percent(0),
		}
		if err := s.PutCartLine(ctx, l); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, l.ItemID.String())
	}

	lines, err := s.ListCartLines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range lines {
		if l.ItemID.String() != ids[i] {
			t.Errorf("line %d = %s, want %s", i, l.ItemID, ids[i])
		}
	}

	if err := s.ClearCart(ctx); err != nil {
		t.Fatal(err)
	}
	lines, _ = s.ListCartLines(ctx)
	if len(lines) != 0 {
		t.Errorf("lines after clear = %d, want 0", len(lines))
	}
}

func TestTransactionLedger(t *testing.T) {
	s := New()
	ctx := context.Background()

	custID := id.NewCustomerID()
	otherID := id.NewCustomerID()

	record := func(cID id.CustomerID, mode transaction.PaymentMode) *transaction.Transaction {
		t.Helper()
		txn := &transaction.Transaction{
			Entity:     types.NewEntity(),
			ID:         id.NewTransactionID(),
			CustomerID: cID,
			Lines:      []cart.Line{{Name: "Soap", Quantity: 1, Price: types.USD(100)}},
			Subtotal:   types.USD(100),
			Tax:        types.USD(10),
			Total:      types.USD(110),
			Mode:       mode,
		}
		if err := s.RecordTransaction(ctx, txn); err != nil {
			t.Fatal(err)
		}
		return txn
	}

	first := record(custID, transaction.ModePaid)
	record(otherID, transaction.ModeCredit)
	record(custID, transaction.ModeCredit)

	if err := s.RecordTransaction(ctx, first); !errors.Is(err, till.ErrAlreadyExists) {
		t.Errorf("duplicate record = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetTransaction(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetTransaction() = %v", err)
	}
	// The ledger copy is isolated from caller mutation.
	got.Lines[0].Quantity = 99
	again, _ := s.GetTransaction(ctx, first.ID)
	if again.Lines[0].Quantity != 1 {
		t.Errorf("ledger line mutated through caller copy")
	}

	credit, err := s.ListTransactions(ctx, transaction.ListOpts{Mode: transaction.ModeCredit})
	if err != nil {
		t.Fatal(err)
	}
	if len(credit) != 2 {
		t.Errorf("credit transactions = %d, want 2", len(credit))
	}

	byCust, err := s.ListTransactions(ctx, transaction.ListOpts{CustomerID: custID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCust) != 2 {
		t.Errorf("customer transactions = %d, want 2", len(byCust))
	}

	if _, err := s.GetTransaction(ctx, id.NewTransactionID()); !errors.Is(err, till.ErrTransactionNotFound) {
		t.Errorf("GetTransaction(unknown) = %v, want ErrTransactionNotFound", err)
	}
}
