// Package memory provides an in-memory Store implementation, used for
// tests and single-process deployments that do not need durability.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/xraph/till"
	"github.com/xraph/till/cart"
	"github.com/xraph/till/customer"
	"github.com/xraph/till/id"
	"github.com/xraph/till/item"
	"github.com/xraph/till/transaction"
	"github.com/xraph/till/types"
)

type Store struct {
	mu sync.RWMutex

	// Item storage, with insertion order preserved for listing.
	items     map[string]*item.Item
	itemOrder []string

	// Customer storage
	customers     map[string]*customer.Customer
	customerOrder []string

	// Cart storage, keyed by item ID.
	lines     map[string]*cart.Line
	lineOrder []string

	// Transaction ledger, append-only.
	transactions []*transaction.Transaction
	txnIndex     map[string]int
}

func New() *Store {
	return &Store{
		items:     make(map[string]*item.Item),
		customers: make(map[string]*customer.Customer),
		lines:     make(map[string]*cart.Line),
		txnIndex:  make(map[string]int),
	}
}

// Item Store implementation

func (s *Store) CreateItem(_ context.Context, it *item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := it.ID.String()
	if _, exists := s.items[key]; exists {
		return till.ErrAlreadyExists
	}

	cp := *it
	s.items[key] = &cp
	s.itemOrder = append(s.itemOrder, key)
	return nil
}

func (s *Store) GetItem(_ context.Context, itemID id.ItemID) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID.String()]
	if !ok {
		return nil, till.ErrItemNotFound
	}

	cp := *it
	return &cp, nil
}

func (s *Store) ListItems(_ context.Context, opts item.ListOpts) ([]*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*item.Item
	search := strings.ToLower(opts.Search)
	for _, key := range s.itemOrder {
		it := s.items[key]
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		cp := *it
		result = append(result, &cp)
	}

	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ReserveStock(_ context.Context, itemID id.ItemID, qty int) error {
	if qty < 1 {
		return till.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID.String()]
	if !ok {
		return till.ErrItemNotFound
	}
	if it.Quantity < qty {
		return till.ErrInsufficientStock
	}

	it.Quantity -= qty
	it.Touch()
	return nil
}

func (s *Store) ReleaseStock(_ context.Context, itemID id.ItemID, qty int) error {
	if qty < 1 {
		return till.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID.String()]
	if !ok {
		return till.ErrItemNotFound
	}

	it.Quantity += qty
	it.Touch()
	return nil
}

// Customer Store implementation

func (s *Store) CreateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.ID.String()
	if _, exists := s.customers[key]; exists {
		return till.ErrAlreadyExists
	}

	cp := *c
	s.customers[key] = &cp
	s.customerOrder = append(s.customerOrder, key)
	return nil
}

func (s *Store) GetCustomer(_ context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[customerID.String()]
	if !ok {
		return nil, till.ErrCustomerNotFound
	}

	cp := *c
	return &cp, nil
}

func (s *Store) ListCustomers(_ context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*customer.Customer
	for _, key := range s.customerOrder {
		cp := *s.customers[key]
		result = append(result, &cp)
	}

	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ChargeCredit(_ context.Context, customerID id.CustomerID, amount types.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID.String()]
	if !ok {
		return till.ErrCustomerNotFound
	}

	next := c.CreditUsed.Add(amount)
	if amount.IsPositive() && next.GreaterThan(c.CreditLimit) {
		return till.ErrCreditLimitExceeded
	}

	c.CreditUsed = next
	c.Touch()
	return nil
}

// Cart Store implementation

func (s *Store) GetCartLine(_ context.Context, itemID id.ItemID) (*cart.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lines[itemID.String()]
	if !ok {
		return nil, till.ErrLineNotFound
	}

	cl := l.Clone()
	return &cl, nil
}

func (s *Store) ListCartLines(_ context.Context) ([]*cart.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*cart.Line
	for _, key := range s.lineOrder {
		cl := s.lines[key].Clone()
		result = append(result, &cl)
	}
	return result, nil
}

func (s *Store) PutCartLine(_ context.Context, line *cart.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := line.ItemID.String()
	if _, exists := s.lines[key]; !exists {
		s.lineOrder = append(s.lineOrder, key)
	}
	cl := line.Clone()
	s.lines[key] = &cl
	return nil
}

func (s *Store) DeleteCartLine(_ context.Context, itemID id.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := itemID.String()
	if _, ok := s.lines[key]; !ok {
		return till.ErrLineNotFound
	}

	delete(s.lines, key)
	for i, k := range s.lineOrder {
		if k == key {
			s.lineOrder = append(s.lineOrder[:i], s.lineOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ClearCart(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[string]*cart.Line)
	s.lineOrder = nil
	return nil
}

// Transaction Store implementation

func (s *Store) RecordTransaction(_ context.Context, txn *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := txn.ID.String()
	if _, exists := s.txnIndex[key]; exists {
		return till.ErrAlreadyExists
	}

	cp := txn.Clone()
	s.txnIndex[key] = len(s.transactions)
	s.transactions = append(s.transactions, cp)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.txnIndex[txnID.String()]
	if !ok {
		return nil, till.ErrTransactionNotFound
	}

	return s.transactions[i].Clone(), nil
}

func (s *Store) ListTransactions(_ context.Context, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*transaction.Transaction
	for _, txn := range s.transactions {
		if opts.Mode != "" && txn.Mode != opts.Mode {
			continue
		}
		if !opts.CustomerID.IsNil() && txn.CustomerID.String() != opts.CustomerID.String() {
			continue
		}
		result = append(result, txn.Clone())
	}

	return paginate(result, opts.Limit, opts.Offset), nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// paginate applies offset/limit to an already-ordered slice.
func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
