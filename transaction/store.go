package transaction

import (
	"context"

	"github.com/xraph/till/id"
)

// Store is the append-only ledger of completed sales. There is no
// update or delete: once recorded, a transaction is history.
type Store interface {
	Record(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, txnID id.TransactionID) (*Transaction, error)

	// List returns transactions in insertion order. Filters produce a
	// stable subsequence of that order.
	List(ctx context.Context, opts ListOpts) ([]*Transaction, error)
}

type ListOpts struct {
	// Mode restricts results to one settlement mode when non-empty.
	Mode PaymentMode
	// CustomerID restricts results to one customer when non-nil.
	CustomerID id.CustomerID
	Limit      int
	Offset     int
}
