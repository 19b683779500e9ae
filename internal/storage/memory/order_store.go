package memory

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/storage"
)

// OrderStore is an in-memory implementation of storage.OrderStore.
// It mirrors the relational semantics: referential checks against a token
// store, monotonic status updates, write-once promotion fee.
type OrderStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.Order // keyed by order id
	tokens *TokenStore              // referential check target
}

// NewOrderStore creates a new in-memory order store. Orders may only
// reference tokens present in tokens.
func NewOrderStore(tokens *TokenStore) *OrderStore {
	return &OrderStore{
		data:   make(map[string]*domain.Order),
		tokens: tokens,
	}
}

// Insert adds a new order. Returns ErrReferentialViolation if a referenced
// token is not cached, ErrDuplicateKey if the id is taken.
func (s *OrderStore) Insert(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return storage.ErrInvalidInput
	}

	if s.tokens != nil {
		for _, tok := range []string{o.TokenSell, o.TokenBuy} {
			if _, err := s.tokens.GetByID(ctx, tok); err != nil {
				return storage.ErrReferentialViolation
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.ID]; exists {
		return storage.ErrDuplicateKey
	}

	orderCopy := *o
	if orderCopy.CreatedAt.IsZero() {
		orderCopy.CreatedAt = time.Now()
	}
	if orderCopy.AmountBuyFilled == "" {
		orderCopy.AmountBuyFilled = "0"
	}
	s.data[o.ID] = &orderCopy
	return nil
}

// GetByID retrieves an order by id. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	orderCopy := *o
	return &orderCopy, nil
}

// UpdateStatus applies the monotonic reconciliation rule: status only
// changes while the current status is active, and the fill amount never
// decreases.
func (s *OrderStore) UpdateStatus(_ context.Context, id string, status domain.Status, filled string) error {
	if !status.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}

	if o.Status == domain.StatusActive {
		o.Status = status
	}

	cur, ok1 := new(big.Int).SetString(o.AmountBuyFilled, 10)
	next, ok2 := new(big.Int).SetString(filled, 10)
	if !ok2 {
		return storage.ErrInvalidInput
	}
	if !ok1 || next.Cmp(cur) > 0 {
		o.AmountBuyFilled = next.String()
	}
	return nil
}

// AttachFee records the promotion fee, first write wins.
func (s *OrderStore) AttachFee(_ context.Context, id string, fee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	if o.AdsFee != nil {
		return storage.ErrFeeAlreadySet
	}

	feeCopy := fee
	o.AdsFee = &feeCopy
	return nil
}

// List retrieves orders ordered by promotion fee descending, then newest
// first. An empty status matches all orders.
func (s *OrderStore) List(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Order
	for _, o := range s.data {
		if status != "" && o.Status != status {
			continue
		}
		orderCopy := *o
		result = append(result, &orderCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		fi, fj := feeOf(result[i]), feeOf(result[j])
		if !fi.Equal(fj) {
			return fi.GreaterThan(fj)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// feeOf treats an absent promotion fee as zero for ordering.
func feeOf(o *domain.Order) decimal.Decimal {
	if o.AdsFee == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(*o.AdsFee)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ storage.OrderStore = (*OrderStore)(nil)
