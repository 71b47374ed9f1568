// Package transaction defines the completed-sale record and the
// append-only ledger contract that owns it.
package transaction

import (
	"time"

	"github.com/xraph/till/cart"
	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

// PaymentMode is how a sale was settled.
type PaymentMode string

const (
	ModePaid   PaymentMode = "paid"
	ModeCredit PaymentMode = "credit"
)

// Valid reports whether the mode is one of the known settlement modes.
func (m PaymentMode) Valid() bool {
	return m == ModePaid || m == ModeCredit
}

// Transaction is one completed sale. It is created exactly once at
// checkout and never mutated afterward. Lines is a deep copy of the cart
// at commit time, so the record stays reproducible even if the items it
// references are later repriced.
type Transaction struct {
	types.Entity
	ID         id.TransactionID `json:"id"`
	CustomerID id.CustomerID    `json:"customer_id"`
	Lines      []cart.Line      `json:"lines"`
	Subtotal   types.Money      `json:"subtotal"`
	Tax        types.Money      `json:"tax"`
	Total      types.Money      `json:"total"`
	Mode       PaymentMode      `json:"mode"`
	Date       time.Time        `json:"date"`
}

// Clone returns a deep copy.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	cp.Lines = make([]cart.Line, len(t.Lines))
	copy(cp.Lines, t.Lines)
	return &cp
}
