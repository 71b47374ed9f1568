package cart

import (
	"context"

	"github.com/xraph/till/id"
)

// Store holds the active cart's line set, keyed by item: at most one
// line exists per item. Stock mutation is not the cart's job: callers
// reserve and release through the item store and keep the two in
// lockstep.
type Store interface {
	GetLine(ctx context.Context, itemID id.ItemID) (*Line, error)
	ListLines(ctx context.Context) ([]*Line, error)

	// PutLine inserts the line, or replaces the existing line for the
	// same item.
	PutLine(ctx context.Context, l *Line) error

	DeleteLine(ctx context.Context, itemID id.ItemID) error

	// Clear removes every line. It does not touch stock.
	Clear(ctx context.Context) error
}
