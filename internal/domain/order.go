package domain

import "time"

// Status is the lifecycle state of an order.
// Transitions are one-directional: active -> filled or active -> canceled.
// filled and canceled are terminal.
type Status string

const (
	StatusActive   Status = "active"
	StatusFilled   Status = "filled"
	StatusCanceled Status = "canceled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFilled, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCanceled
}

// Order is a maker-signed swap intent cached off-chain.
// Corresponds to the orders table in PostgreSQL.
//
// Amounts and nonce are base-unit uint256 values carried as decimal strings;
// the settlement contract is the source of truth for Status and
// AmountBuyFilled, which are only mutated by synchronization.
type Order struct {
	ID              string     // generated UUID, not the content hash
	Maker           string     // EIP-55 checksummed address
	TokenSell       string     // checksummed token address, FK to token
	TokenBuy        string     // checksummed token address, FK to token
	AmountSell      string     // base units, > 0
	AmountBuy       string     // base units, > 0
	Nonce           string     // per-maker cancellation scope
	Deadline        *time.Time // nil = no expiry
	DesiredTaker    *string    // nil = public order
	Signature       string     // 0x-prefixed 65-byte typed-data signature
	Status          Status
	AmountBuyFilled string  // monotonically non-decreasing fill cache
	AdsFee          *string // promotion fee in native units, write-once
	CreatedAt       time.Time
}
