package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	till "github.com/xraph/till"
	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	tillstore "github.com/xraph/till/store"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

// compile-time interface check
var _ tillstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("till/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("till/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Item Store ====================

func (s *Store) CreateItem(ctx context.Context, it *item.Item) error {
	m := toItemModel(it)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetItem(ctx context.Context, itemID id.ItemID) (*item.Item, error) {
	m := new(itemModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", itemID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, till.ErrItemNotFound
		}
		return nil, err
	}
	return fromItemModel(m)
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	var models []itemModel
	q := s.pg.NewSelect(&models)

	if opts.Search != "" {
		q = q.Where("name ILIKE ?", "%"+opts.Search+"%")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	// TypeID suffixes are K-sortable, so id order is insertion order.
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*item.Item, len(models))
	for i := range models {
		it, err := fromItemModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = it
	}
	return result, nil
}

func (s *Store) ReserveStock(ctx context.Context, itemID id.ItemID, qty int) error {
	if qty < 1 {
		return till.ErrInvalidQuantity
	}

	res, err := s.pg.NewUpdate((*itemModel)(nil)).
		Set("quantity = quantity - ?", qty).
		Set("updated_at = ?", now()).
		Where("id = ?", itemID.String()).
		Where("quantity >= ?", qty).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, gerr := s.GetItem(ctx, itemID); gerr != nil {
			return gerr
		}
		return till.ErrInsufficientStock
	}
	return nil
}

func (s *Store) ReleaseStock(ctx context.Context, itemID id.ItemID, qty int) error {
	if qty < 1 {
		return till.ErrInvalidQuantity
	}

	res, err := s.pg.NewUpdate((*itemModel)(nil)).
		Set("quantity = quantity + ?", qty).
		Set("updated_at = ?", now()).
		Where("id = ?", itemID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return till.ErrItemNotFound
	}
	return nil
}

// ==================== Customer Store ====================

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	m := toCustomerModel(c)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	m := new(customerModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", customerID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, till.ErrCustomerNotFound
		}
		return nil, err
	}
	return fromCustomerModel(m)
}

func (s *Store) ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	var models []customerModel
	q := s.pg.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*customer.Customer, len(models))
	for i := range models {
		c, err := fromCustomerModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) ChargeCredit(ctx context.Context, customerID id.CustomerID, amount types.Money) error {
	q := s.pg.NewUpdate((*customerModel)(nil)).
		Set("credit_used = credit_used + ?", amount.Amount).
		Set("updated_at = ?", now()).
		Where("id = ?", customerID.String())

	// Only positive charges are bounded by the limit; reversals always
	// apply.
	if amount.Amount > 0 {
		q = q.Where("credit_used + ? <= credit_limit", amount.Amount)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, gerr := s.GetCustomer(ctx, customerID); gerr != nil {
			return gerr
		}
		return till.ErrCreditLimitExceeded
	}
	return nil
}

// ==================== Cart Store ====================

func (s *Store) GetCartLine(ctx context.Context, itemID id.ItemID) (*cart.Line, error) {
	m := new(cartLineModel)
	err := s.pg.NewSelect(m).
		Where("item_id = ?", itemID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, till.ErrLineNotFound
		}
		return nil, err
	}
	return fromCartLineModel(m)
}

func (s *Store) ListCartLines(ctx context.Context) ([]*cart.Line, error) {
	var models []cartLineModel
	q := s.pg.NewSelect(&models).OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*cart.Line, len(models))
	for i := range models {
		l, err := fromCartLineModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = l
	}
	return result, nil
}

func (s *Store) PutCartLine(ctx context.Context, line *cart.Line) error {
	m := toCartLineModel(line)
	_, err := s.pg.NewInsert(m).
		OnConflict("(item_id) DO UPDATE").
		Set("quantity = EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) DeleteCartLine(ctx context.Context, itemID id.ItemID) error {
	res, err := s.pg.NewDelete((*cartLineModel)(nil)).
		Where("item_id = ?", itemID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return till.ErrLineNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context) error {
	_, err := s.pg.NewDelete((*cartLineModel)(nil)).
		Where("1 = 1").
		Exec(ctx)
	return err
}

// ==================== Transaction Store ====================

func (s *Store) RecordTransaction(ctx context.Context, txn *transaction.Transaction) error {
	m := toTransactionModel(txn)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetTransaction(ctx context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	m := new(transactionModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", txnID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, till.ErrTransactionNotFound
		}
		return nil, err
	}
	return fromTransactionModel(m)
}

func (s *Store) ListTransactions(ctx context.Context, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	var models []transactionModel
	q := s.pg.NewSelect(&models)

	if opts.Mode != "" {
		q = q.Where("mode = ?", string(opts.Mode))
	}
	if !opts.CustomerID.IsNil() {
		q = q.Where("customer_id = ?", opts.CustomerID.String())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*transaction.Transaction, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
