package relay

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"rajaswap-relay/internal/domain"
)

// SyncResult is the state derived from the settlement contract during a
// synchronization run.
type SyncResult struct {
	Status       domain.Status
	FilledAmount string
}

// SyncOrder reconciles a cached order against the settlement contract. It
// recomputes the order's content hash, reads the on-chain fill and
// cancellation state, and applies the derived status to the catalog. The
// returned result reflects the chain, not the possibly-older cached row.
//
// Cancellation takes precedence over fill when both are observed. The store
// enforces monotonicity, so repeating a sync or applying a stale read never
// regresses the cached state.
func (s *Service) SyncOrder(ctx context.Context, id string) (*SyncResult, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	msg, err := s.hasher.Message(order)
	if err != nil {
		return nil, err
	}
	orderHash, err := s.hasher.Hash(msg)
	if err != nil {
		return nil, err
	}

	// The two contract reads are independent; run them concurrently.
	var (
		filled    *big.Int
		cancelled bool
	)
	errCh := make(chan error, 2)
	go func() {
		f, readErr := s.reader.FilledAmount(ctx, orderHash)
		if readErr == nil {
			filled = f
		}
		errCh <- readErr
	}()
	go func() {
		c, readErr := s.reader.NonceCancelled(ctx, msg.Maker, msg.Nonce)
		if readErr == nil {
			cancelled = c
		}
		errCh <- readErr
	}()
	for i := 0; i < 2; i++ {
		if readErr := <-errCh; readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, readErr)
		}
	}

	status := domain.StatusActive
	switch {
	case cancelled:
		status = domain.StatusCanceled
	case filled.Cmp(msg.AmountBuy) >= 0:
		status = domain.StatusFilled
	}

	if err := s.orders.UpdateStatus(ctx, id, status, filled.String()); err != nil {
		return nil, err
	}

	s.log.Info("order synchronized",
		zap.String("id", id),
		zap.String("order_hash", orderHash.Hex()),
		zap.String("status", string(status)),
		zap.String("filled", filled.String()),
	)
	return &SyncResult{Status: status, FilledAmount: filled.String()}, nil
}
