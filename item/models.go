// Package item defines the inventory item model and its store contract.
package item

import (
	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

// Item is a stocked product. Quantity is the number of units currently
// available for sale; units reserved into a cart are subtracted from it
// until the sale commits or the reservation is released.
type Item struct {
	types.Entity
	ID       id.ItemID      `json:"id"`
	Name     string         `json:"name"`
	Price    types.Money    `json:"price"`
	Quantity int            `json:"quantity"`
	TaxRate  types.TaxRate  `json:"tax_rate"`
}

// InStock reports whether at least qty units are available.
func (i *Item) InStock(qty int) bool {
	return qty >= 1 && i.Quantity >= qty
}

// SoldOut reports whether no units remain available.
func (i *Item) SoldOut() bool { return i.Quantity <= 0 }
