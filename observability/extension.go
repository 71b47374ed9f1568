// Package observability provides a metrics extension for Till that records
// lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/till/plugin"
	"github.com/xraph/till/transaction"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnItemCreated        = (*MetricsExtension)(nil)
	_ plugin.OnStockReserved      = (*MetricsExtension)(nil)
	_ plugin.OnStockReleased      = (*MetricsExtension)(nil)
	_ plugin.OnStockDepleted      = (*MetricsExtension)(nil)
	_ plugin.OnCartLineAdded      = (*MetricsExtension)(nil)
	_ plugin.OnCartLineRemoved    = (*MetricsExtension)(nil)
	_ plugin.OnCartCleared        = (*MetricsExtension)(nil)
	_ plugin.OnCustomerRegistered = (*MetricsExtension)(nil)
	_ plugin.OnCreditCharged      = (*MetricsExtension)(nil)
	_ plugin.OnCreditRejected     = (*MetricsExtension)(nil)
	_ plugin.OnSaleCompleted      = (*MetricsExtension)(nil)
	_ plugin.OnSaleRejected       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Till plugin to automatically track point-of-sale metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Inventory metrics
	ItemCreated   Counter
	StockReserved Counter
	StockReleased Counter
	StockDepleted Counter

	// Cart metrics
	CartLineAdded   Counter
	CartLineRemoved Counter
	CartCleared     Counter
	CartSize        Histogram

	// Customer metrics
	CustomerRegistered Counter
	CreditCharged      Counter
	CreditRejected     Counter

	// Sale metrics
	SaleCompleted  Counter
	SaleRejected   Counter
	SaleTotal      Histogram
	SaleTax        Histogram
	SaleLineCount  Histogram
	CreditSales    Counter
	ImmediateSales Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Inventory metrics
		ItemCreated:   factory.Counter("till.item.created"),
		StockReserved: factory.Counter("till.stock.reserved"),
		StockReleased: factory.Counter("till.stock.released"),
		StockDepleted: factory.Counter("till.stock.depleted"),

		// Cart metrics
		CartLineAdded:   factory.Counter("till.cart.line.added"),
		CartLineRemoved: factory.Counter("till.cart.line.removed"),
		CartCleared:     factory.Counter("till.cart.cleared"),
		CartSize:        factory.Histogram("till.cart.size"),

		// Customer metrics
		CustomerRegistered: factory.Counter("till.customer.registered"),
		CreditCharged:      factory.Counter("till.credit.charged"),
		CreditRejected:     factory.Counter("till.credit.rejected"),

		// Sale metrics
		SaleCompleted:  factory.Counter("till.sale.completed"),
		SaleRejected:   factory.Counter("till.sale.rejected"),
		SaleTotal:      factory.Histogram("till.sale.total_amount"),
		SaleTax:        factory.Histogram("till.sale.tax_amount"),
		SaleLineCount:  factory.Histogram("till.sale.line_count"),
		CreditSales:    factory.Counter("till.sale.credit"),
		ImmediateSales: factory.Counter("till.sale.paid"),

		// Error metrics
		StoreErrors:  factory.Counter("till.store.errors"),
		PluginErrors: factory.Counter("till.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnItemCreated implements plugin.OnItemCreated.
func (m *MetricsExtension) OnItemCreated(_ context.Context, _ interface{}) error {
	m.ItemCreated.Inc()
	return nil
}

// OnStockReserved implements plugin.OnStockReserved.
func (m *MetricsExtension) OnStockReserved(_ context.Context, _ string, qty int) error {
	m.StockReserved.Add(float64(qty))
	return nil
}

// OnStockReleased implements plugin.OnStockReleased.
func (m *MetricsExtension) OnStockReleased(_ context.Context, _ string, qty int) error {
	m.StockReleased.Add(float64(qty))
	return nil
}

// OnStockDepleted implements plugin.OnStockDepleted.
func (m *MetricsExtension) OnStockDepleted(_ context.Context, _ string) error {
	m.StockDepleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Cart hooks
// ──────────────────────────────────────────────────

// OnCartLineAdded implements plugin.OnCartLineAdded.
func (m *MetricsExtension) OnCartLineAdded(_ context.Context, _ interface{}) error {
	m.CartLineAdded.Inc()
	return nil
}

// OnCartLineRemoved implements plugin.OnCartLineRemoved.
func (m *MetricsExtension) OnCartLineRemoved(_ context.Context, _ string, _ int) error {
	m.CartLineRemoved.Inc()
	return nil
}

// OnCartCleared implements plugin.OnCartCleared.
func (m *MetricsExtension) OnCartCleared(_ context.Context, lineCount int) error {
	m.CartCleared.Inc()
	m.CartSize.Observe(float64(lineCount))
	return nil
}

// ──────────────────────────────────────────────────
// Customer / credit hooks
// ──────────────────────────────────────────────────

// OnCustomerRegistered implements plugin.OnCustomerRegistered.
func (m *MetricsExtension) OnCustomerRegistered(_ context.Context, _ interface{}) error {
	m.CustomerRegistered.Inc()
	return nil
}

// OnCreditCharged implements plugin.OnCreditCharged.
func (m *MetricsExtension) OnCreditCharged(_ context.Context, _ string, _ interface{}) error {
	m.CreditCharged.Inc()
	return nil
}

// OnCreditRejected implements plugin.OnCreditRejected.
func (m *MetricsExtension) OnCreditRejected(_ context.Context, _ string, _ interface{}) error {
	m.CreditRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted implements plugin.OnSaleCompleted.
func (m *MetricsExtension) OnSaleCompleted(_ context.Context, txn interface{}) error {
	m.SaleCompleted.Inc()

	if t, ok := txn.(*transaction.Transaction); ok {
		m.SaleTotal.Observe(float64(t.Total.Amount))
		m.SaleTax.Observe(float64(t.Tax.Amount))
		m.SaleLineCount.Observe(float64(len(t.Lines)))
		if t.Mode == transaction.ModeCredit {
			m.CreditSales.Inc()
		} else {
			m.ImmediateSales.Inc()
		}
	}
	return nil
}

// OnSaleRejected implements plugin.OnSaleRejected.
func (m *MetricsExtension) OnSaleRejected(_ context.Context, _ string, _ error) error {
	m.SaleRejected.Inc()
	return nil
}
