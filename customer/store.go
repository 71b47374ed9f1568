package customer

import (
	"context"

	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

type Store interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, customerID id.CustomerID) (*Customer, error)
	List(ctx context.Context, opts ListOpts) ([]*Customer, error)

	// ChargeCredit atomically increments the customer's used credit.
	// It fails without mutation when the charge would breach the limit.
	// This is the only path by which used credit changes.
	ChargeCredit(ctx context.Context, customerID id.CustomerID, amount types.Money) error
}

type ListOpts struct {
	Limit  int
	Offset int
}
