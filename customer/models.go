// Package customer defines the customer credit account model and its
// store contract.
package customer

import (
	"github.com/xraph/till/id"
	"github.com/xraph/till/types"
)

// Customer is a registered credit account. CreditUsed only ever changes
// through the checkout path; it never exceeds CreditLimit.
type Customer struct {
	types.Entity
	ID          id.CustomerID `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	CreditLimit types.Money   `json:"credit_limit"`
	CreditUsed  types.Money   `json:"credit_used"`
}

// AvailableCredit returns the credit remaining before the limit.
func (c *Customer) AvailableCredit() types.Money {
	return c.CreditLimit.Subtract(c.CreditUsed)
}

// CanCharge reports whether charging amount would stay within the limit.
func (c *Customer) CanCharge(amount types.Money) bool {
	return !c.CreditUsed.Add(amount).GreaterThan(c.CreditLimit)
}
