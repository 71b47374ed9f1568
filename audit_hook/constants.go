package audithook

// Action constants for audit events.
const (
	// Inventory actions
	ActionItemCreated   = "item.created"
	ActionStockReserved = "stock.reserved"
	ActionStockReleased = "stock.released"
	ActionStockDepleted = "stock.depleted"

	// Cart actions
	ActionCartLineAdded   = "cart.line.added"
	ActionCartLineRemoved = "cart.line.removed"
	ActionCartCleared     = "cart.cleared"

	// Customer actions
	ActionCustomerRegistered = "customer.registered"
	ActionCreditCharged      = "credit.charged"
	ActionCreditRejected     = "credit.rejected"

	// Sale actions
	ActionSaleCompleted = "sale.completed"
	ActionSaleRejected  = "sale.rejected"
)

// Resource constants for audit events.
const (
	ResourceItem        = "item"
	ResourceCart        = "cart"
	ResourceCustomer    = "customer"
	ResourceTransaction = "transaction"
)

// Category constants for audit events.
const (
	CategoryInventory = "inventory"
	CategorySales     = "sales"
	CategoryCredit    = "credit"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
