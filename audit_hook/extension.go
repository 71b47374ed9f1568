// Package audithook bridges Till lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/till/plugin"
	"github.com/xraph/till/transaction"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnItemCreated        = (*Extension)(nil)
	_ plugin.OnStockReserved      = (*Extension)(nil)
	_ plugin.OnStockReleased      = (*Extension)(nil)
	_ plugin.OnStockDepleted      = (*Extension)(nil)
	_ plugin.OnCartLineRemoved    = (*Extension)(nil)
	_ plugin.OnCartCleared        = (*Extension)(nil)
	_ plugin.OnCustomerRegistered = (*Extension)(nil)
	_ plugin.OnCreditCharged      = (*Extension)(nil)
	_ plugin.OnCreditRejected     = (*Extension)(nil)
	_ plugin.OnSaleCompleted      = (*Extension)(nil)
	_ plugin.OnSaleRejected       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Till lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnItemCreated implements plugin.OnItemCreated.
func (e *Extension) OnItemCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionItemCreated, SeverityInfo, OutcomeSuccess,
		ResourceItem, "", CategoryInventory, nil,
		"event", "item_created",
	)
}

// OnStockReserved implements plugin.OnStockReserved.
func (e *Extension) OnStockReserved(ctx context.Context, itemID string, qty int) error {
	return e.record(ctx, ActionStockReserved, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID, CategoryInventory, nil,
		"item_id", itemID,
		"quantity", qty,
	)
}

// OnStockReleased implements plugin.OnStockReleased.
func (e *Extension) OnStockReleased(ctx context.Context, itemID string, qty int) error {
	return e.record(ctx, ActionStockReleased, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID, CategoryInventory, nil,
		"item_id", itemID,
		"quantity", qty,
	)
}

// OnStockDepleted implements plugin.OnStockDepleted.
func (e *Extension) OnStockDepleted(ctx context.Context, itemID string) error {
	return e.record(ctx, ActionStockDepleted, SeverityWarning, OutcomeSuccess,
		ResourceItem, itemID, CategoryInventory, nil,
		"item_id", itemID,
	)
}

// ──────────────────────────────────────────────────
// Cart hooks
// ──────────────────────────────────────────────────

// OnCartLineRemoved implements plugin.OnCartLineRemoved.
func (e *Extension) OnCartLineRemoved(ctx context.Context, itemID string, qty int) error {
	return e.record(ctx, ActionCartLineRemoved, SeverityInfo, OutcomeSuccess,
		ResourceCart, itemID, CategorySales, nil,
		"item_id", itemID,
		"quantity", qty,
	)
}

// OnCartCleared implements plugin.OnCartCleared.
func (e *Extension) OnCartCleared(ctx context.Context, lineCount int) error {
	return e.record(ctx, ActionCartCleared, SeverityInfo, OutcomeSuccess,
		ResourceCart, "", CategorySales, nil,
		"line_count", lineCount,
	)
}

// ──────────────────────────────────────────────────
// Customer / credit hooks
// ──────────────────────────────────────────────────

// OnCustomerRegistered implements plugin.OnCustomerRegistered.
func (e *Extension) OnCustomerRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionCustomerRegistered, SeverityInfo, OutcomeSuccess,
		ResourceCustomer, "", CategoryCredit, nil,
		"event", "customer_registered",
	)
}

// OnCreditCharged implements plugin.OnCreditCharged.
func (e *Extension) OnCreditCharged(ctx context.Context, customerID string, amount interface{}) error {
	return e.record(ctx, ActionCreditCharged, SeverityInfo, OutcomeSuccess,
		ResourceCustomer, customerID, CategoryCredit, nil,
		"customer_id", customerID,
		"amount", fmt.Sprintf("%v", amount),
	)
}

// OnCreditRejected implements plugin.OnCreditRejected.
func (e *Extension) OnCreditRejected(ctx context.Context, customerID string, amount interface{}) error {
	return e.record(ctx, ActionCreditRejected, SeverityWarning, OutcomeFailure,
		ResourceCustomer, customerID, CategoryCredit, nil,
		"customer_id", customerID,
		"amount", fmt.Sprintf("%v", amount),
	)
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted implements plugin.OnSaleCompleted.
func (e *Extension) OnSaleCompleted(ctx context.Context, txn interface{}) error {
	var txnID, mode string
	if t, ok := txn.(*transaction.Transaction); ok {
		txnID = t.ID.String()
		mode = string(t.Mode)
	}

	return e.record(ctx, ActionSaleCompleted, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, txnID, CategorySales, nil,
		"transaction_id", txnID,
		"mode", mode,
	)
}

// OnSaleRejected implements plugin.OnSaleRejected.
func (e *Extension) OnSaleRejected(ctx context.Context, customerID string, reason error) error {
	return e.record(ctx, ActionSaleRejected, SeverityWarning, OutcomeFailure,
		ResourceTransaction, "", CategorySales, reason,
		"customer_id", customerID,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
