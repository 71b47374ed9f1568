package till

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Every failure leaves the
// engine's state exactly as it was before the call, with one documented
// exception: a rejected credit charge keeps the cart's stock reservation
// in place so the operator can retry with another mode or customer.
var (
	// General errors
	ErrNotFound      = errors.New("till: not found")
	ErrAlreadyExists = errors.New("till: already exists")
	ErrInvalidInput  = errors.New("till: invalid input")

	// Inventory errors
	ErrItemNotFound      = errors.New("till: item not found")
	ErrInsufficientStock = errors.New("till: insufficient stock")
	ErrInvalidQuantity   = errors.New("till: invalid quantity")

	// Cart errors
	ErrLineNotFound = errors.New("till: item not in cart")
	ErrEmptyCart    = errors.New("till: cart is empty")

	// Customer errors
	ErrCustomerNotFound    = errors.New("till: customer not found")
	ErrNoCustomerSelected  = errors.New("till: no customer selected")
	ErrCreditLimitExceeded = errors.New("till: credit limit exceeded")

	// Transaction errors
	ErrTransactionNotFound = errors.New("till: transaction not found")
	ErrInvalidPaymentMode  = errors.New("till: invalid payment mode")

	// Store errors
	ErrStoreNotReady = errors.New("till: store not ready")
	ErrStoreClosed   = errors.New("till: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("till: validation failed for %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput, so callers can
// classify without caring which field failed.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrLineNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsStockError returns true if the error is related to stock levels.
func IsStockError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsCreditError returns true if the error is related to credit limits.
func IsCreditError(err error) bool {
	return errors.Is(err, ErrCreditLimitExceeded)
}

// IsValidation returns true if the error is a validation failure,
// including field-level ValidationError values.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCheckoutBlocked returns true if the error means checkout cannot
// proceed as requested but the cart is intact for a retry.
func IsCheckoutBlocked(err error) bool {
	return errors.Is(err, ErrNoCustomerSelected) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrCreditLimitExceeded) ||
		errors.Is(err, ErrInvalidPaymentMode)
}
