// Package chain reads authoritative settlement state from the ledger.
// The settlement contract is the source of truth this engine mirrors and
// never writes to.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo is ERC-20 metadata read from a token contract.
type TokenInfo struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// TxPayment is the settlement-relevant view of a submitted transaction:
// whether it succeeded, who received it, and how much native currency moved.
type TxPayment struct {
	Success bool
	To      *common.Address // nil for contract-creation transactions
	Value   *big.Int
}

// Reader is the read-only view of the settlement contract and ledger used
// by the relay.
type Reader interface {
	// FilledAmount returns the cumulative buy-side fill recorded on-chain
	// for the order hash. Unknown hashes read as zero.
	FilledAmount(ctx context.Context, orderHash common.Hash) (*big.Int, error)

	// NonceCancelled reports whether the maker has cancelled the nonce,
	// invalidating every order that shares it.
	NonceCancelled(ctx context.Context, maker common.Address, nonce *big.Int) (bool, error)

	// IsOrderFilled reports whether the contract considers the order
	// completely filled.
	IsOrderFilled(ctx context.Context, orderHash common.Hash) (bool, error)

	// FeeBps returns the settlement fee in basis points.
	FeeBps(ctx context.Context) (*big.Int, error)

	// MinAdFee returns the minimum promotion fee in native base units.
	MinAdFee(ctx context.Context) (*big.Int, error)

	// TokenMetadata reads (name, symbol, decimals) from an ERC-20 token.
	TokenMetadata(ctx context.Context, token common.Address) (*TokenInfo, error)

	// Payment returns the receipt status, recipient and transferred value
	// of a transaction.
	Payment(ctx context.Context, txHash common.Hash) (*TxPayment, error)
}
