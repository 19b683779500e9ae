package storage

import (
	"context"

	"rajaswap-relay/internal/domain"
)

// OrderStore provides access to the persisted order catalog.
// Orders are append-only intents: rows are never deleted, and only
// status, fill progress and the promotion fee ever change.
type OrderStore interface {
	// Insert adds a new order. Both referenced tokens must already exist;
	// returns ErrReferentialViolation otherwise, ErrDuplicateKey if the id
	// is taken.
	Insert(ctx context.Context, o *domain.Order) error

	// GetByID retrieves an order by its id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatus reconciles on-chain state into the cached row.
	// The update is monotonic: status only changes while the current status
	// is active, and the fill amount never decreases. A stale or repeated
	// reconciliation is a no-op, not an error.
	UpdateStatus(ctx context.Context, id string, status domain.Status, filled string) error

	// AttachFee records a verified promotion fee (native units, decimal
	// string). Write-once: returns ErrFeeAlreadySet if a fee is present.
	AttachFee(ctx context.Context, id string, fee string) error

	// List retrieves orders ordered by promotion fee descending, then
	// newest first. An empty status matches all orders.
	List(ctx context.Context, status domain.Status) ([]*domain.Order, error)
}

// TokenStore provides access to cached ERC-20 metadata.
type TokenStore interface {
	// Insert adds token metadata. Returns ErrDuplicateKey if the address
	// is already cached; callers resolving lazily treat that as success.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByID retrieves a token by address. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Token, error)
}
