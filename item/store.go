package item

import (
	"context"

	"github.com/xraph/till/id"
)

type Store interface {
	Create(ctx context.Context, i *Item) error
	Get(ctx context.Context, itemID id.ItemID) (*Item, error)
	List(ctx context.Context, opts ListOpts) ([]*Item, error)

	// Reserve atomically moves qty units from available stock into a
	// caller-held reservation. It fails without mutation when fewer than
	// qty units remain.
	Reserve(ctx context.Context, itemID id.ItemID, qty int) error

	// Release returns qty previously reserved units to available stock.
	Release(ctx context.Context, itemID id.ItemID, qty int) error
}

type ListOpts struct {
	// Search filters by case-insensitive substring match on the name.
	Search string
	Limit  int
	Offset int
}
