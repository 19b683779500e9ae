// Package stub provides an in-memory chain.Reader for testing.
package stub

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"rajaswap-relay/internal/chain"
)

// ErrNotFound is returned when a transaction or token is not known.
var ErrNotFound = errors.New("not found")

// Reader implements chain.Reader for testing. Unknown order hashes read as
// zero fill and uncancelled, matching contract mapping defaults.
type Reader struct {
	mu        sync.RWMutex
	filled    map[common.Hash]*big.Int
	cancelled map[string]bool
	payments  map[common.Hash]*chain.TxPayment
	tokens    map[common.Address]*chain.TokenInfo

	FeeBpsValue   *big.Int
	MinAdFeeValue *big.Int

	// Err, when set, is returned by every read to simulate an
	// unavailable ledger.
	Err error
}

// NewReader creates an empty stub reader.
func NewReader() *Reader {
	return &Reader{
		filled:        make(map[common.Hash]*big.Int),
		cancelled:     make(map[string]bool),
		payments:      make(map[common.Hash]*chain.TxPayment),
		tokens:        make(map[common.Address]*chain.TokenInfo),
		FeeBpsValue:   big.NewInt(30),
		MinAdFeeValue: big.NewInt(0),
	}
}

var _ chain.Reader = (*Reader)(nil)

func nonceKey(maker common.Address, nonce *big.Int) string {
	return maker.Hex() + ":" + nonce.String()
}

// SetFilled records the on-chain fill amount for an order hash.
func (r *Reader) SetFilled(orderHash common.Hash, amount *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filled[orderHash] = new(big.Int).Set(amount)
}

// SetCancelled marks a (maker, nonce) pair as cancelled.
func (r *Reader) SetCancelled(maker common.Address, nonce *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[nonceKey(maker, nonce)] = true
}

// AddPayment records a transaction payment.
func (r *Reader) AddPayment(txHash common.Hash, p *chain.TxPayment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[txHash] = p
}

// AddToken records ERC-20 metadata for a token address.
func (r *Reader) AddToken(token common.Address, info *chain.TokenInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = info
}

// FilledAmount returns the recorded fill, or zero for unknown hashes.
func (r *Reader) FilledAmount(_ context.Context, orderHash common.Hash) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if f, ok := r.filled[orderHash]; ok {
		return new(big.Int).Set(f), nil
	}
	return big.NewInt(0), nil
}

// NonceCancelled reports whether the (maker, nonce) pair was cancelled.
func (r *Reader) NonceCancelled(_ context.Context, maker common.Address, nonce *big.Int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return false, r.Err
	}
	return r.cancelled[nonceKey(maker, nonce)], nil
}

// IsOrderFilled reports whether the recorded fill is non-zero.
func (r *Reader) IsOrderFilled(ctx context.Context, orderHash common.Hash) (bool, error) {
	f, err := r.FilledAmount(ctx, orderHash)
	if err != nil {
		return false, err
	}
	return f.Sign() > 0, nil
}

// FeeBps returns the configured settlement fee.
func (r *Reader) FeeBps(_ context.Context) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return new(big.Int).Set(r.FeeBpsValue), nil
}

// MinAdFee returns the configured minimum promotion fee.
func (r *Reader) MinAdFee(_ context.Context) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return new(big.Int).Set(r.MinAdFeeValue), nil
}

// TokenMetadata returns recorded metadata, or ErrNotFound.
func (r *Reader) TokenMetadata(_ context.Context, token common.Address) (*chain.TokenInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	info, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	infoCopy := *info
	return &infoCopy, nil
}

// Payment returns a recorded payment, or ErrNotFound.
func (r *Reader) Payment(_ context.Context, txHash common.Hash) (*chain.TxPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.payments[txHash]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
