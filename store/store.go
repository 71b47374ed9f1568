package store

import (
	"context"

	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

// Store is the unified storage interface for all Till entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Item methods
	CreateItem(ctx context.Context, it *item.Item) error
	GetItem(ctx context.Context, itemID id.ItemID) (*item.Item, error)
	ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error)
	// ReserveStock atomically decrements an item's available quantity.
	// Insufficient stock fails without mutating anything.
	ReserveStock(ctx context.Context, itemID id.ItemID, qty int) error
	ReleaseStock(ctx context.Context, itemID id.ItemID, qty int) error

	// Customer methods
	CreateCustomer(ctx context.Context, c *customer.Customer) error
	GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error)
	ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error)
	// ChargeCredit atomically adds amount to a customer's used credit,
	// rejecting a positive charge that would exceed the credit limit.
	// It is the only path through which used credit changes.
	ChargeCredit(ctx context.Context, customerID id.CustomerID, amount types.Money) error

	// Cart methods
	GetCartLine(ctx context.Context, itemID id.ItemID) (*cart.Line, error)
	ListCartLines(ctx context.Context) ([]*cart.Line, error)
	PutCartLine(ctx context.Context, line *cart.Line) error
	DeleteCartLine(ctx context.Context, itemID id.ItemID) error
	// ClearCart deletes every line without touching stock; the engine
	// decides whether reservations are released or consumed.
	ClearCart(ctx context.Context) error

	// Transaction methods
	RecordTransaction(ctx context.Context, txn *transaction.Transaction) error
	GetTransaction(ctx context.Context, txnID id.TransactionID) (*transaction.Transaction, error)
	ListTransactions(ctx context.Context, opts transaction.ListOpts) ([]*transaction.Transaction, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
