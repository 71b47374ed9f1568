// Package plugin provides an extensible plugin system for Till.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, t interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnItemCreated is called when a new item is added to the inventory.
type OnItemCreated interface {
	Plugin
	OnItemCreated(ctx context.Context, it interface{}) error
}

// OnStockReserved is called when stock is reserved into the cart.
type OnStockReserved interface {
	Plugin
	OnStockReserved(ctx context.Context, itemID string, qty int) error
}

// OnStockReleased is called when a reservation is returned to stock.
type OnStockReleased interface {
	Plugin
	OnStockReleased(ctx context.Context, itemID string, qty int) error
}

// OnStockDepleted is called when a reservation drains an item to zero.
type OnStockDepleted interface {
	Plugin
	OnStockDepleted(ctx context.Context, itemID string) error
}

// ──────────────────────────────────────────────────
// Cart hooks
// ──────────────────────────────────────────────────

// OnCartLineAdded is called when a cart line is created or grows.
type OnCartLineAdded interface {
	Plugin
	OnCartLineAdded(ctx context.Context, line interface{}) error
}

// OnCartLineRemoved is called when a cart line is removed.
type OnCartLineRemoved interface {
	Plugin
	OnCartLineRemoved(ctx context.Context, itemID string, qty int) error
}

// OnCartCleared is called when the cart is abandoned.
type OnCartCleared interface {
	Plugin
	OnCartCleared(ctx context.Context, lineCount int) error
}

// ──────────────────────────────────────────────────
// Customer / credit hooks
// ──────────────────────────────────────────────────

// OnCustomerRegistered is called when a new customer account is created.
type OnCustomerRegistered interface {
	Plugin
	OnCustomerRegistered(ctx context.Context, c interface{}) error
}

// OnCreditCharged is called when a credit sale charges a customer.
type OnCreditCharged interface {
	Plugin
	OnCreditCharged(ctx context.Context, customerID string, amount interface{}) error
}

// OnCreditRejected is called when a charge would breach the credit limit.
type OnCreditRejected interface {
	Plugin
	OnCreditRejected(ctx context.Context, customerID string, amount interface{}) error
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted is called after a checkout is committed.
type OnSaleCompleted interface {
	Plugin
	OnSaleCompleted(ctx context.Context, txn interface{}) error
}

// OnSaleRejected is called when a checkout fails a business rule.
type OnSaleRejected interface {
	Plugin
	OnSaleRejected(ctx context.Context, customerID string, reason error) error
}

// ──────────────────────────────────────────────────
// Receipt formatters
// ──────────────────────────────────────────────────

// ReceiptFormatter renders completed sales for export.
type ReceiptFormatter interface {
	Plugin
	Format() string                                                   // "text", "html", "csv", etc.
	Render(ctx context.Context, txn interface{}, w interface{}) error // w is io.Writer
}
