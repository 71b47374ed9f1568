package till

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	"github.com/xraph/till/plugin"
	"github.com/xraph/till/pricing"
	"github.com/xraph/till/store"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

// Till is the point-of-sale billing engine. It coordinates the inventory,
// cart, customer and transaction stores behind a single mutex so that
// every composite mutation (adding to the cart, adjusting a line,
// checking out) is observed as one atomic step. Stock and cart lines
// always move in lockstep: a unit leaves available stock exactly when a
// line gains it, and returns exactly when a line loses it.
type Till struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	currency string
	now      func() time.Time

	// mu spans every composite mutation. Partial application of a
	// checkout (credit charged but sale not recorded, or cart cleared
	// without a ledger append) must never be observable.
	mu sync.Mutex
}

// New creates a new Till instance.
func New(s store.Store, opts ...Option) *Till {
	t := &Till{
		store:    s,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		currency: "usd",
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Option configures a Till instance.
type Option func(*Till)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Till) {
		t.logger = logger
		t.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(t *Till) {
		_ = t.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithCurrency sets the engine currency (default "usd"). Every item
// price and credit limit must use this currency; the engine does not
// mix currencies.
func WithCurrency(currency string) Option {
	return func(t *Till) {
		t.currency = strings.ToLower(currency)
	}
}

// WithClock overrides the time source used to date transactions.
func WithClock(now func() time.Time) Option {
	return func(t *Till) {
		t.now = now
	}
}

// Start prepares the store and initializes plugins.
func (t *Till) Start(ctx context.Context) error {
	if err := t.store.Migrate(ctx); err != nil {
		return err
	}

	t.plugins.EmitInit(ctx, t)

	t.logger.Info("till started", "currency", t.currency)

	return nil
}

// Stop shuts down the Till.
func (t *Till) Stop() error {
	ctx := context.Background()
	t.plugins.EmitShutdown(ctx)

	return t.store.Close()
}

// Currency returns the engine currency.
func (t *Till) Currency() string { return t.currency }

// ──────────────────────────────────────────────────
// Inventory
// ──────────────────────────────────────────────────

// AddItem registers a new stocked item. Price and tax rate are validated
// as business constraints even when the caller has already type-checked
// its raw input.
func (t *Till) AddItem(ctx context.Context, name string, price types.Money, quantity int, rate types.TaxRate) (*item.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}
	if price.IsNegative() {
		return nil, ValidationError{Field: "price", Message: "must not be negative"}
	}
	if price.Currency != t.currency {
		return nil, ValidationError{Field: "price", Message: fmt.Sprintf("currency must be %q", t.currency)}
	}
	if quantity < 0 {
		return nil, ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	if !rate.Valid() {
		return nil, ValidationError{Field: "tax_rate", Message: "must be between 0% and 100%"}
	}

	it := &item.Item{
		Entity:   types.NewEntity(),
		ID:       id.NewItemID(),
		Name:     name,
		Price:    price,
		Quantity: quantity,
		TaxRate:  rate,
	}

	if err := t.store.CreateItem(ctx, it); err != nil {
		return nil, err
	}

	t.plugins.EmitItemCreated(ctx, it)
	return it, nil
}

// GetItem retrieves an item by ID.
func (t *Till) GetItem(ctx context.Context, itemID id.ItemID) (*item.Item, error) {
	return t.store.GetItem(ctx, itemID)
}

// ListItems returns items in insertion order.
func (t *Till) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	return t.store.ListItems(ctx, opts)
}

// ──────────────────────────────────────────────────
// Cart
// ──────────────────────────────────────────────────

// AddToCart reserves qty units of an item into the active cart. A line
// already holding the item keeps its original price/name/tax snapshot
// and only gains quantity.
func (t *Till) AddToCart(ctx context.Context, itemID id.ItemID, qty int) (*cart.Line, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ReserveStock(ctx, itemID, qty); err != nil {
		return nil, err
	}

	it, err := t.store.GetItem(ctx, itemID)
	if err != nil {
		t.releaseStock(ctx, itemID, qty)
		return nil, err
	}

	line, err := t.store.GetCartLine(ctx, itemID)
	switch {
	case err == nil:
		line.Quantity += qty
		line.Touch()
	case IsNotFound(err):
		line = &cart.Line{
			Entity:   types.NewEntity(),
			ID:       id.NewCartLineID(),
			ItemID:   it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: qty,
			TaxRate:  it.TaxRate,
		}
	default:
		t.releaseStock(ctx, itemID, qty)
		return nil, err
	}

	if err := t.store.PutCartLine(ctx, line); err != nil {
		t.releaseStock(ctx, itemID, qty)
		return nil, err
	}

	t.plugins.EmitStockReserved(ctx, itemID.String(), qty)
	if it.SoldOut() {
		t.plugins.EmitStockDepleted(ctx, itemID.String())
	}
	t.plugins.EmitCartLineAdded(ctx, line)

	return line, nil
}

// RemoveFromCart drops an item's line and returns its full reserved
// quantity to stock.
func (t *Till) RemoveFromCart(ctx context.Context, itemID id.ItemID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.removeLineLocked(ctx, itemID)
}

// AdjustQuantity changes a line's quantity by delta, reserving or
// releasing stock to match. A result below one unit removes the line
// outright. An increase that exceeds available stock fails with the
// cart unchanged.
func (t *Till) AdjustQuantity(ctx context.Context, itemID id.ItemID, delta int) error {
	if delta == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	line, err := t.store.GetCartLine(ctx, itemID)
	if err != nil {
		return err
	}

	if line.Quantity+delta < 1 {
		return t.removeLineLocked(ctx, itemID)
	}

	if delta > 0 {
		if err := t.store.ReserveStock(ctx, itemID, delta); err != nil {
			return err
		}
	} else {
		if err := t.store.ReleaseStock(ctx, itemID, -delta); err != nil {
			return err
		}
	}

	line.Quantity += delta
	line.Touch()
	if err := t.store.PutCartLine(ctx, line); err != nil {
		// Undo the stock move so store and cart stay in lockstep.
		if delta > 0 {
			t.releaseStock(ctx, itemID, delta)
		} else if rerr := t.store.ReserveStock(ctx, itemID, -delta); rerr != nil {
			t.logger.Error("failed to re-reserve stock after line update failure",
				"item_id", itemID.String(),
				"quantity", -delta,
				"error", rerr,
			)
		}
		return err
	}

	if delta > 0 {
		t.plugins.EmitStockReserved(ctx, itemID.String(), delta)
	} else {
		t.plugins.EmitStockReleased(ctx, itemID.String(), -delta)
	}

	return nil
}

// ClearCart abandons the active cart, returning every reservation to
// stock.
func (t *Till) ClearCart(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines, err := t.store.ListCartLines(ctx)
	if err != nil {
		return err
	}

	for _, l := range lines {
		if err := t.store.ReleaseStock(ctx, l.ItemID, l.Quantity); err != nil {
			return err
		}
		t.plugins.EmitStockReleased(ctx, l.ItemID.String(), l.Quantity)
	}

	if err := t.store.ClearCart(ctx); err != nil {
		return err
	}

	t.plugins.EmitCartCleared(ctx, len(lines))
	return nil
}

// CartLines returns the active cart in insertion order.
func (t *Till) CartLines(ctx context.Context) ([]*cart.Line, error) {
	return t.store.ListCartLines(ctx)
}

// Totals prices the active cart.
func (t *Till) Totals(ctx context.Context) (pricing.Totals, error) {
	lines, err := t.store.ListCartLines(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.Compute(lines, t.currency), nil
}

// removeLineLocked releases a line's reservation and deletes it.
// Callers hold t.mu.
func (t *Till) removeLineLocked(ctx context.Context, itemID id.ItemID) error {
	line, err := t.store.GetCartLine(ctx, itemID)
	if err != nil {
		return err
	}

	if err := t.store.ReleaseStock(ctx, itemID, line.Quantity); err != nil {
		return err
	}

	if err := t.store.DeleteCartLine(ctx, itemID); err != nil {
		// Undo the release so store and cart stay in lockstep.
		if rerr := t.store.ReserveStock(ctx, itemID, line.Quantity); rerr != nil {
			t.logger.Error("failed to re-reserve stock after line delete failure",
				"item_id", itemID.String(),
				"quantity", line.Quantity,
				"error", rerr,
			)
		}
		return err
	}

	t.plugins.EmitStockReleased(ctx, itemID.String(), line.Quantity)
	t.plugins.EmitCartLineRemoved(ctx, itemID.String(), line.Quantity)
	return nil
}

// releaseStock is a best-effort compensation used when a cart mutation
// fails after its reservation succeeded.
func (t *Till) releaseStock(ctx context.Context, itemID id.ItemID, qty int) {
	if err := t.store.ReleaseStock(ctx, itemID, qty); err != nil {
		t.logger.Error("failed to release stock after cart failure",
			"item_id", itemID.String(),
			"quantity", qty,
			"error", err,
		)
	}
}

// ──────────────────────────────────────────────────
// Customers
// ──────────────────────────────────────────────────

// RegisterCustomer creates a credit account with zero used credit.
func (t *Till) RegisterCustomer(ctx context.Context, name, phone string, creditLimit types.Money) (*customer.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(phone) == "" {
		return nil, ValidationError{Field: "phone", Message: "must not be empty"}
	}
	if creditLimit.IsNegative() {
		return nil, ValidationError{Field: "credit_limit", Message: "must not be negative"}
	}
	if creditLimit.Currency != t.currency {
		return nil, ValidationError{Field: "credit_limit", Message: fmt.Sprintf("currency must be %q", t.currency)}
	}

	c := &customer.Customer{
		Entity:      types.NewEntity(),
		ID:          id.NewCustomerID(),
		Name:        name,
		Phone:       strings.TrimSpace(phone),
		CreditLimit: creditLimit,
		CreditUsed:  types.Zero(t.currency),
	}

	if err := t.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	t.plugins.EmitCustomerRegistered(ctx, c)
	return c, nil
}

// GetCustomer retrieves a customer by ID.
func (t *Till) GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	return t.store.GetCustomer(ctx, customerID)
}

// ListCustomers returns customers in insertion order.
func (t *Till) ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	return t.store.ListCustomers(ctx, opts)
}

// ──────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────

// CompletePurchase converts the active cart into a recorded transaction
// as one atomic step: price the lines, charge credit when settling on
// credit, append to the ledger, clear the cart. The cart's reservations
// are consumed into the transaction, not returned to stock.
//
// A credit charge that would breach the customer's limit fails the whole
// operation with ErrCreditLimitExceeded and changes nothing, except
// that the cart keeps its stock reservation, deliberately, so the
// operator can retry the same cart with another mode or customer.
func (t *Till) CompletePurchase(ctx context.Context, customerID id.CustomerID, mode transaction.PaymentMode) (*transaction.Transaction, error) {
	if customerID.IsNil() {
		return nil, ErrNoCustomerSelected
	}
	if !mode.Valid() {
		return nil, ErrInvalidPaymentMode
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cust, err := t.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	lines, err := t.store.ListCartLines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := pricing.Compute(lines, t.currency)

	if mode == transaction.ModeCredit {
		if err := t.store.ChargeCredit(ctx, cust.ID, totals.Total); err != nil {
			if IsCreditError(err) {
				t.plugins.EmitCreditRejected(ctx, cust.ID.String(), totals.Total)
				t.plugins.EmitSaleRejected(ctx, cust.ID.String(), err)
			}
			return nil, err
		}
	}

	txn := &transaction.Transaction{
		Entity:     types.NewEntity(),
		ID:         id.NewTransactionID(),
		CustomerID: cust.ID,
		Lines:      cart.CloneLines(lines),
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Mode:       mode,
		Date:       t.now(),
	}

	if err := t.store.RecordTransaction(ctx, txn); err != nil {
		if mode == transaction.ModeCredit {
			// Reverse the charge through the same store path so the
			// failed checkout leaves no trace.
			if cerr := t.store.ChargeCredit(ctx, cust.ID, totals.Total.Multiply(-1)); cerr != nil {
				t.logger.Error("failed to reverse credit charge after ledger failure",
					"customer_id", cust.ID.String(),
					"amount", totals.Total.String(),
					"error", cerr,
				)
			}
		}
		return nil, err
	}

	// Reservations are consumed into the transaction: delete the lines
	// without releasing stock.
	if err := t.store.ClearCart(ctx); err != nil {
		return nil, fmt.Errorf("till: transaction %s recorded but cart not cleared: %w", txn.ID, err)
	}

	if mode == transaction.ModeCredit {
		t.plugins.EmitCreditCharged(ctx, cust.ID.String(), totals.Total)
	}
	t.plugins.EmitSaleCompleted(ctx, txn)

	t.logger.Info("sale completed",
		"transaction_id", txn.ID.String(),
		"customer_id", cust.ID.String(),
		"mode", string(mode),
		"total", totals.Total.String(),
	)

	return txn, nil
}

// ──────────────────────────────────────────────────
// History
// ──────────────────────────────────────────────────

// GetTransaction retrieves a recorded sale by ID.
func (t *Till) GetTransaction(ctx context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	return t.store.GetTransaction(ctx, txnID)
}

// ListTransactions returns recorded sales in insertion order; filters in
// opts select a stable subsequence of that order.
func (t *Till) ListTransactions(ctx context.Context, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	return t.store.ListTransactions(ctx, opts)
}
