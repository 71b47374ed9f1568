package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

// ==================== Item models ====================

type itemModel struct {
	grove.BaseModel `grove:"table:till_items"`

	ID         string    `grove:"id,pk"`
	Name       string    `grove:"name"`
	Price      int64     `grove:"price"`
	Currency   string    `grove:"currency"`
	Quantity   int       `grove:"quantity"`
	TaxRateBps int64     `grove:"tax_rate_bps"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

func toItemModel(it *item.Item) *itemModel {
	return &itemModel{
		ID:         it.ID.String(),
		Name:       it.Name,
		Price:      it.Price.Amount,
		Currency:   it.Price.Currency,
		Quantity:   it.Quantity,
		TaxRateBps: it.TaxRate.BasisPoints(),
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

func fromItemModel(m *itemModel) (*item.Item, error) {
	itemID, err := id.ParseItemID(m.ID)
	if err != nil {
		return nil, err
	}

	return &item.Item{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       itemID,
		Name:     m.Name,
		Price:    types.Money{Amount: m.Price, Currency: m.Currency},
		Quantity: m.Quantity,
		TaxRate:  types.BasisPoints(m.TaxRateBps),
	}, nil
}

// ==================== Customer models ====================

type customerModel struct {
	grove.BaseModel `grove:"table:till_customers"`

	ID          string    `grove:"id,pk"`
	Name        string    `grove:"name"`
	Phone       string    `grove:"phone"`
	CreditLimit int64     `grove:"credit_limit"`
	CreditUsed  int64     `grove:"credit_used"`
	Currency    string    `grove:"currency"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
}

func toCustomerModel(c *customer.Customer) *customerModel {
	return &customerModel{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		CreditLimit: c.CreditLimit.Amount,
		CreditUsed:  c.CreditUsed.Amount,
		Currency:    c.CreditLimit.Currency,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromCustomerModel(m *customerModel) (*customer.Customer, error) {
	customerID, err := id.ParseCustomerID(m.ID)
	if err != nil {
		return nil, err
	}

	return &customer.Customer{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          customerID,
		Name:        m.Name,
		Phone:       m.Phone,
		CreditLimit: types.Money{Amount: m.CreditLimit, Currency: m.Currency},
		CreditUsed:  types.Money{Amount: m.CreditUsed, Currency: m.Currency},
	}, nil
}

// ==================== Cart line models ====================

type cartLineModel struct {
	grove.BaseModel `grove:"table:till_cart_lines"`

	ItemID     string    `grove:"item_id,pk"`
	ID         string    `grove:"id"`
	Name       string    `grove:"name"`
	Price      int64     `grove:"price"`
	Currency   string    `grove:"currency"`
	Quantity   int       `grove:"quantity"`
	TaxRateBps int64     `grove:"tax_rate_bps"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

func toCartLineModel(l *cart.Line) *cartLineModel {
	return &cartLineModel{
		ItemID:     l.ItemID.String(),
		ID:         l.ID.String(),
		Name:       l.Name,
		Price:      l.Price.Amount,
		Currency:   l.Price.Currency,
		Quantity:   l.Quantity,
		TaxRateBps: l.TaxRate.BasisPoints(),
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func fromCartLineModel(m *cartLineModel) (*cart.Line, error) {
	itemID, err := id.ParseItemID(m.ItemID)
	if err != nil {
		return nil, err
	}
	lineID, err := id.ParseCartLineID(m.ID)
	if err != nil {
		return nil, err
	}

	return &cart.Line{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       lineID,
		ItemID:   itemID,
		Name:     m.Name,
		Price:    types.Money{Amount: m.Price, Currency: m.Currency},
		Quantity: m.Quantity,
		TaxRate:  types.BasisPoints(m.TaxRateBps),
	}, nil
}

// ==================== Transaction models ====================

type transactionModel struct {
	grove.BaseModel `grove:"table:till_transactions"`

	ID         string          `grove:"id,pk"`
	CustomerID string          `grove:"customer_id"`
	Lines      json.RawMessage `grove:"lines"`
	Subtotal   int64           `grove:"subtotal"`
	Tax        int64           `grove:"tax"`
	Total      int64           `grove:"total"`
	Currency   string          `grove:"currency"`
	Mode       string          `grove:"mode"`
	Date       time.Time       `grove:"date"`
	CreatedAt  time.Time       `grove:"created_at"`
	UpdatedAt  time.Time       `grove:"updated_at"`
}

func toTransactionModel(t *transaction.Transaction) *transactionModel {
	lines, _ := json.Marshal(t.Lines) //nolint:errcheck // best-effort

	return &transactionModel{
		ID:         t.ID.String(),
		CustomerID: t.CustomerID.String(),
		Lines:      lines,
		Subtotal:   t.Subtotal.Amount,
		Tax:        t.Tax.Amount,
		Total:      t.Total.Amount,
		Currency:   t.Total.Currency,
		Mode:       string(t.Mode),
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*transaction.Transaction, error) {
	txnID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}

	var lines []cart.Line
	if len(m.Lines) > 0 {
		_ = json.Unmarshal(m.Lines, &lines) //nolint:errcheck // best-effort
	}

	return &transaction.Transaction{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         txnID,
		CustomerID: customerID,
		Lines:      lines,
		Subtotal:   types.Money{Amount: m.Subtotal, Currency: m.Currency},
		Tax:        types.Money{Amount: m.Tax, Currency: m.Currency},
		Total:      types.Money{Amount: m.Total, Currency: m.Currency},
		Mode:       transaction.PaymentMode(m.Mode),
		Date:       m.Date,
	}, nil
}
