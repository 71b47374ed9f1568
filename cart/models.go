// Package cart defines the in-progress sale's reserved line set and its
// store contract.
package cart

import (
	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

// Line is a reservation of stock for one item in the active cart. Name,
// Price and TaxRate are a snapshot taken when the item was first added;
// a repeat add of the same item only bumps Quantity, it never refreshes
// the snapshot. Committed transactions carry their own copies, so a
// later price change on the item never rewrites history.
type Line struct {
	types.Entity
	ID       id.CartLineID `json:"id"`
	ItemID   id.ItemID     `json:"item_id"`
	Name     string        `json:"name"`
	Price    types.Money   `json:"price"`
	Quantity int           `json:"quantity"`
	TaxRate  types.TaxRate `json:"tax_rate"`
}

// Clone returns a deep copy of the line.
func (l *Line) Clone() Line {
	return *l
}

// CloneLines deep-copies a line slice, preserving order. Used when a
// transaction snapshots the cart at commit time.
func CloneLines(lines []*Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
