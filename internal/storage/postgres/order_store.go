package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/storage"
)

// OrderStore implements storage.OrderStore using PostgreSQL.
//
// Monotonicity of UpdateStatus and the write-once fee rule are enforced in
// SQL so that concurrent reconciliations stay commutative without locks:
// each mutation is a single atomic statement.
type OrderStore struct {
	pool *Pool
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(pool *Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

const orderColumns = `
	id::text, maker, token_sell, token_buy,
	amount_sell::text, amount_buy::text, nonce::text,
	deadline, desired_taker, signature, status,
	amount_buy_filled::text, ads_fee::text, created_at
`

// Insert adds a new order. Returns ErrReferentialViolation if a referenced
// token is not cached, ErrDuplicateKey if the id is taken.
func (s *OrderStore) Insert(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO orders (
			id, maker, token_sell, token_buy,
			amount_sell, amount_buy, nonce,
			deadline, desired_taker, signature, status, amount_buy_filled
		) VALUES (
			$1::uuid, $2, $3, $4,
			$5::numeric, $6::numeric, $7::numeric,
			$8, $9, $10, $11, $12::numeric
		)
	`

	_, err := s.pool.Exec(ctx, query,
		o.ID,
		o.Maker,
		o.TokenSell,
		o.TokenBuy,
		o.AmountSell,
		o.AmountBuy,
		o.Nonce,
		o.Deadline,
		o.DesiredTaker,
		o.Signature,
		string(o.Status),
		o.AmountBuyFilled,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrReferentialViolation
		}
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by id. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1::uuid`

	row := s.pool.QueryRow(ctx, query, id)
	o, err := scanOrder(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

// UpdateStatus reconciles on-chain state into the cached row. Status only
// changes while the current status is active; the fill amount never
// decreases. Stale reconciliations degrade to no-ops.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.Status, filled string) error {
	if !status.Valid() {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE orders
		SET status            = CASE WHEN status = 'active' THEN $2 ELSE status END,
		    amount_buy_filled = GREATEST(amount_buy_filled, $3::numeric)
		WHERE id = $1::uuid
	`

	tag, err := s.pool.Exec(ctx, query, id, string(status), filled)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AttachFee records the promotion fee, first write wins.
func (s *OrderStore) AttachFee(ctx context.Context, id string, fee string) error {
	query := `
		UPDATE orders
		SET ads_fee = $2::numeric
		WHERE id = $1::uuid AND ads_fee IS NULL
	`

	tag, err := s.pool.Exec(ctx, query, id, fee)
	if err != nil {
		return fmt.Errorf("attach order fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from an already-promoted one.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return storage.ErrFeeAlreadySet
	}
	return nil
}

// List retrieves orders ordered by promotion fee descending, then newest
// first. An empty status matches all orders.
func (s *OrderStore) List(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE $1 = '' OR status = $1
		ORDER BY ads_fee DESC NULLS LAST, created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// scanOrder scans a single row into an Order.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string

	err := row.Scan(
		&o.ID,
		&o.Maker,
		&o.TokenSell,
		&o.TokenBuy,
		&o.AmountSell,
		&o.AmountBuy,
		&o.Nonce,
		&o.Deadline,
		&o.DesiredTaker,
		&o.Signature,
		&status,
		&o.AmountBuyFilled,
		&o.AdsFee,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.Status(status)
	return &o, nil
}
