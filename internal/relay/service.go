// Package relay implements the order relay engine: submission of signed swap
// intents, reconciliation of the cached catalog against the settlement
// contract, and attestation of promotion fee payments.
package relay

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rajaswap-relay/internal/chain"
	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/eip712"
	"rajaswap-relay/internal/storage"
)

// Service is the order relay engine. The settlement contract is the source
// of truth for fills and cancellations; the service only mirrors it into the
// order catalog and never writes to the chain.
type Service struct {
	orders   storage.OrderStore
	tokens   storage.TokenStore
	reader   chain.Reader
	hasher   *eip712.Hasher
	contract common.Address
	log      *zap.Logger
}

// NewService creates a relay service. The hasher's signing domain must match
// the deployed settlement contract or every signature check will fail.
func NewService(orders storage.OrderStore, tokens storage.TokenStore, reader chain.Reader, hasher *eip712.Hasher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		tokens:   tokens,
		reader:   reader,
		hasher:   hasher,
		contract: hasher.Domain().VerifyingContract,
		log:      log,
	}
}

// checkConfigured guards operations that are meaningless without a bound
// settlement contract. Checked per request so a misconfigured deployment
// fails loudly instead of verifying against the zero address.
func (s *Service) checkConfigured() error {
	if s.contract == (common.Address{}) {
		return ErrMisconfigured
	}
	return nil
}

// GetOrder retrieves a single order by id. A syntactically invalid id is
// reported as not found rather than reaching the store.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListOrders retrieves orders ordered by promotion fee descending, then
// newest first. An empty status matches all orders.
func (s *Service) ListOrders(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return s.orders.List(ctx, status)
}
