package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onItemCreated        []OnItemCreated
	onStockReserved      []OnStockReserved
	onStockReleased      []OnStockReleased
	onStockDepleted      []OnStockDepleted
	onCartLineAdded      []OnCartLineAdded
	onCartLineRemoved    []OnCartLineRemoved
	onCartCleared        []OnCartCleared
	onCustomerRegistered []OnCustomerRegistered
	onCreditCharged      []OnCreditCharged
	onCreditRejected     []OnCreditRejected
	onSaleCompleted      []OnSaleCompleted
	onSaleRejected       []OnSaleRejected
	receiptFormatters    map[string]ReceiptFormatter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:            slog.Default(),
		receiptFormatters: make(map[string]ReceiptFormatter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnItemCreated); ok {
		r.onItemCreated = append(r.onItemCreated, v)
	}
	if v, ok := p.(OnStockReserved); ok {
		r.onStockReserved = append(r.onStockReserved, v)
	}
	if v, ok := p.(OnStockReleased); ok {
		r.onStockReleased = append(r.onStockReleased, v)
	}
	if v, ok := p.(OnStockDepleted); ok {
		r.onStockDepleted = append(r.onStockDepleted, v)
	}
	if v, ok := p.(OnCartLineAdded); ok {
		r.onCartLineAdded = append(r.onCartLineAdded, v)
	}
	if v, ok := p.(OnCartLineRemoved); ok {
		r.onCartLineRemoved = append(r.onCartLineRemoved, v)
	}
	if v, ok := p.(OnCartCleared); ok {
		r.onCartCleared = append(r.onCartCleared, v)
	}
	if v, ok := p.(OnCustomerRegistered); ok {
		r.onCustomerRegistered = append(r.onCustomerRegistered, v)
	}
	if v, ok := p.(OnCreditCharged); ok {
		r.onCreditCharged = append(r.onCreditCharged, v)
	}
	if v, ok := p.(OnCreditRejected); ok {
		r.onCreditRejected = append(r.onCreditRejected, v)
	}
	if v, ok := p.(OnSaleCompleted); ok {
		r.onSaleCompleted = append(r.onSaleCompleted, v)
	}
	if v, ok := p.(OnSaleRejected); ok {
		r.onSaleRejected = append(r.onSaleRejected, v)
	}
	if v, ok := p.(ReceiptFormatter); ok {
		r.receiptFormatters[v.Format()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnItemCreated)(nil)).Elem(), "OnItemCreated")
	checkInterface(reflect.TypeOf((*OnStockReserved)(nil)).Elem(), "OnStockReserved")
	checkInterface(reflect.TypeOf((*OnCustomerRegistered)(nil)).Elem(), "OnCustomerRegistered")
	checkInterface(reflect.TypeOf((*OnCreditCharged)(nil)).Elem(), "OnCreditCharged")
	checkInterface(reflect.TypeOf((*OnSaleCompleted)(nil)).Elem(), "OnSaleCompleted")
	checkInterface(reflect.TypeOf((*ReceiptFormatter)(nil)).Elem(), "ReceiptFormatter")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// GetReceiptFormatter returns the formatter registered for a format.
func (r *Registry) GetReceiptFormatter(format string) (ReceiptFormatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.receiptFormatters[format]
	return f, ok
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, till interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, till)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitItemCreated calls OnItemCreated for all plugins that implement it.
func (r *Registry) EmitItemCreated(ctx context.Context, it interface{}) {
	r.mu.RLock()
	plugins := r.onItemCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnItemCreated(ctx, it)
		}); err != nil {
			r.logger.Warn("plugin OnItemCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockReserved calls OnStockReserved for all plugins that implement it.
func (r *Registry) EmitStockReserved(ctx context.Context, itemID string, qty int) {
	r.mu.RLock()
	plugins := r.onStockReserved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockReserved(ctx, itemID, qty)
		}); err != nil {
			r.logger.Warn("plugin OnStockReserved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockReleased calls OnStockReleased for all plugins that implement it.
func (r *Registry) EmitStockReleased(ctx context.Context, itemID string, qty int) {
	r.mu.RLock()
	plugins := r.onStockReleased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockReleased(ctx, itemID, qty)
		}); err != nil {
			r.logger.Warn("plugin OnStockReleased failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockDepleted calls OnStockDepleted for all plugins that implement it.
func (r *Registry) EmitStockDepleted(ctx context.Context, itemID string) {
	r.mu.RLock()
	plugins := r.onStockDepleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockDepleted(ctx, itemID)
		}); err != nil {
			r.logger.Warn("plugin OnStockDepleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCartLineAdded calls OnCartLineAdded for all plugins that implement it.
func (r *Registry) EmitCartLineAdded(ctx context.Context, line interface{}) {
	r.mu.RLock()
	plugins := r.onCartLineAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCartLineAdded(ctx, line)
		}); err != nil {
			r.logger.Warn("plugin OnCartLineAdded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCartLineRemoved calls OnCartLineRemoved for all plugins that implement it.
func (r *Registry) EmitCartLineRemoved(ctx context.Context, itemID string, qty int) {
	r.mu.RLock()
	plugins := r.onCartLineRemoved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCartLineRemoved(ctx, itemID, qty)
		}); err != nil {
			r.logger.Warn("plugin OnCartLineRemoved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCartCleared calls OnCartCleared for all plugins that implement it.
func (r *Registry) EmitCartCleared(ctx context.Context, lineCount int) {
	r.mu.RLock()
	plugins := r.onCartCleared
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCartCleared(ctx, lineCount)
		}); err != nil {
			r.logger.Warn("plugin OnCartCleared failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCustomerRegistered calls OnCustomerRegistered for all plugins that implement it.
func (r *Registry) EmitCustomerRegistered(ctx context.Context, c interface{}) {
	r.mu.RLock()
	plugins := r.onCustomerRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCustomerRegistered(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnCustomerRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCreditCharged calls OnCreditCharged for all plugins that implement it.
func (r *Registry) EmitCreditCharged(ctx context.Context, customerID string, amount interface{}) {
	r.mu.RLock()
	plugins := r.onCreditCharged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCreditCharged(ctx, customerID, amount)
		}); err != nil {
			r.logger.Warn("plugin OnCreditCharged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCreditRejected calls OnCreditRejected for all plugins that implement it.
func (r *Registry) EmitCreditRejected(ctx context.Context, customerID string, amount interface{}) {
	r.mu.RLock()
	plugins := r.onCreditRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCreditRejected(ctx, customerID, amount)
		}); err != nil {
			r.logger.Warn("plugin OnCreditRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleCompleted calls OnSaleCompleted for all plugins that implement it.
func (r *Registry) EmitSaleCompleted(ctx context.Context, txn interface{}) {
	r.mu.RLock()
	plugins := r.onSaleCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleCompleted(ctx, txn)
		}); err != nil {
			r.logger.Warn("plugin OnSaleCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleRejected calls OnSaleRejected for all plugins that implement it.
func (r *Registry) EmitSaleRejected(ctx context.Context, customerID string, reason error) {
	r.mu.RLock()
	plugins := r.onSaleRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleRejected(ctx, customerID, reason)
		}); err != nil {
			r.logger.Warn("plugin OnSaleRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the checkout pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
