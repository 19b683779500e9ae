package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/storage"
)

const (
	tokenA = "0x1111111111111111111111111111111111111111"
	tokenB = "0x2222222222222222222222222222222222222222"
	makerA = "0x3333333333333333333333333333333333333333"
)

// newOrderStoreWithTokens seeds the token store so referential checks pass.
func newOrderStoreWithTokens(t *testing.T) *OrderStore {
	t.Helper()
	ctx := context.Background()

	tokens := NewTokenStore()
	for _, id := range []string{tokenA, tokenB} {
		if err := tokens.Insert(ctx, &domain.Token{ID: id, Decimals: 18}); err != nil {
			t.Fatalf("seed token %s: %v", id, err)
		}
	}
	return NewOrderStore(tokens)
}

func testOrder(id string) *domain.Order {
	return &domain.Order{
		ID:         id,
		Maker:      makerA,
		TokenSell:  tokenA,
		TokenBuy:   tokenB,
		AmountSell: "1000000000000000000",
		AmountBuy:  "500000000000000000",
		Nonce:      "7",
		Signature:  "0xabc",
		Status:     domain.StatusActive,
	}
}

func TestOrderStore_InsertAndGetByID(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if result.Status != domain.StatusActive {
		t.Errorf("Status mismatch: got %s, want active", result.Status)
	}
	if result.AmountBuyFilled != "0" {
		t.Errorf("AmountBuyFilled should default to 0, got %s", result.AmountBuyFilled)
	}
	if result.AdsFee != nil {
		t.Errorf("AdsFee should be nil on insert, got %v", *result.AdsFee)
	}
}

func TestOrderStore_ReferentialViolation(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	o := testOrder("order-1")
	o.TokenBuy = "0x9999999999999999999999999999999999999999"

	err := store.Insert(ctx, o)
	if !errors.Is(err, storage.ErrReferentialViolation) {
		t.Errorf("Expected ErrReferentialViolation, got %v", err)
	}
}

func TestOrderStore_DuplicateID(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := store.Insert(ctx, testOrder("order-1"))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOrderStore_UpdateStatus_Monotonic(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// active -> filled
	if err := store.UpdateStatus(ctx, "order-1", domain.StatusFilled, "500000000000000000"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	result, _ := store.GetByID(ctx, "order-1")
	if result.Status != domain.StatusFilled {
		t.Errorf("Expected filled, got %s", result.Status)
	}

	// filled is terminal: a later canceled observation must not change it
	if err := store.UpdateStatus(ctx, "order-1", domain.StatusCanceled, "500000000000000000"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	result, _ = store.GetByID(ctx, "order-1")
	if result.Status != domain.StatusFilled {
		t.Errorf("Terminal status regressed: got %s, want filled", result.Status)
	}
}

func TestOrderStore_UpdateStatus_FillNeverDecreases(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.UpdateStatus(ctx, "order-1", domain.StatusActive, "300"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	// Stale read with a smaller fill is a no-op
	if err := store.UpdateStatus(ctx, "order-1", domain.StatusActive, "100"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	result, _ := store.GetByID(ctx, "order-1")
	if result.AmountBuyFilled != "300" {
		t.Errorf("Fill regressed: got %s, want 300", result.AmountBuyFilled)
	}
}

func TestOrderStore_UpdateStatus_Errors(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.UpdateStatus(ctx, "missing", domain.StatusFilled, "0"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.UpdateStatus(ctx, "order-1", "bogus", "0"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad status, got %v", err)
	}
	if err := store.UpdateStatus(ctx, "order-1", domain.StatusActive, "not-a-number"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad fill, got %v", err)
	}
}

func TestOrderStore_AttachFee_WriteOnce(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testOrder("order-1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.AttachFee(ctx, "order-1", "0.5"); err != nil {
		t.Fatalf("AttachFee failed: %v", err)
	}

	err := store.AttachFee(ctx, "order-1", "9.9")
	if !errors.Is(err, storage.ErrFeeAlreadySet) {
		t.Errorf("Expected ErrFeeAlreadySet, got %v", err)
	}

	result, _ := store.GetByID(ctx, "order-1")
	if result.AdsFee == nil || *result.AdsFee != "0.5" {
		t.Errorf("First fee should win, got %v", result.AdsFee)
	}

	if err := store.AttachFee(ctx, "missing", "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOrderStore_List_PromotionOrdering(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	base := time.Now()

	oldUnpaid := testOrder("old-unpaid")
	oldUnpaid.CreatedAt = base.Add(-3 * time.Hour)
	newUnpaid := testOrder("new-unpaid")
	newUnpaid.CreatedAt = base.Add(-1 * time.Hour)
	paidLow := testOrder("paid-low")
	paidLow.CreatedAt = base.Add(-4 * time.Hour)
	paidHigh := testOrder("paid-high")
	paidHigh.CreatedAt = base.Add(-5 * time.Hour)

	for _, o := range []*domain.Order{oldUnpaid, newUnpaid, paidLow, paidHigh} {
		if err := store.Insert(ctx, o); err != nil {
			t.Fatalf("Insert %s failed: %v", o.ID, err)
		}
	}
	if err := store.AttachFee(ctx, "paid-low", "0.1"); err != nil {
		t.Fatalf("AttachFee failed: %v", err)
	}
	if err := store.AttachFee(ctx, "paid-high", "2.5"); err != nil {
		t.Fatalf("AttachFee failed: %v", err)
	}

	result, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"paid-high", "paid-low", "new-unpaid", "old-unpaid"}
	if len(result) != len(want) {
		t.Fatalf("Expected %d orders, got %d", len(want), len(result))
	}
	for i, id := range want {
		if result[i].ID != id {
			t.Errorf("Position %d: got %s, want %s", i, result[i].ID, id)
		}
	}
}

func TestOrderStore_List_StatusFilter(t *testing.T) {
	store := newOrderStoreWithTokens(t)
	ctx := context.Background()

	active := testOrder("active-1")
	filled := testOrder("filled-1")
	for _, o := range []*domain.Order{active, filled} {
		if err := store.Insert(ctx, o); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.UpdateStatus(ctx, "filled-1", domain.StatusFilled, "500000000000000000"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	result, err := store.List(ctx, domain.StatusActive)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(result) != 1 || result[0].ID != "active-1" {
		t.Errorf("Expected only active-1, got %v orders", len(result))
	}
}
