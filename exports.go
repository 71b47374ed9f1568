package till

import "github.com/xraph/till/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// TaxRate is re-exported from types package.
type TaxRate = types.TaxRate

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export TaxRate constructors
var (
	Percent     = types.Percent
	BasisPoints = types.BasisPoints
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
