package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/storage"
)

// resolveTokens ensures metadata for both order legs is cached before the
// order row is inserted, satisfying the foreign keys. The two lookups are
// independent and run concurrently.
func (s *Service) resolveTokens(ctx context.Context, tokenSell, tokenBuy common.Address) error {
	errCh := make(chan error, 2)
	for _, token := range []common.Address{tokenSell, tokenBuy} {
		go func(addr common.Address) {
			errCh <- s.resolveToken(ctx, addr)
		}(token)
	}
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

// resolveToken caches ERC-20 metadata for a token if not already present.
// A concurrent insert of the same token is treated as success.
func (s *Service) resolveToken(ctx context.Context, token common.Address) error {
	id := token.Hex()

	_, err := s.tokens.GetByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", ErrTokenResolutionFailed, id, err)
	}

	info, err := s.reader.TokenMetadata(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTokenResolutionFailed, id, err)
	}

	err = s.tokens.Insert(ctx, &domain.Token{
		ID:       id,
		Name:     info.Name,
		Symbol:   info.Symbol,
		Decimals: info.Decimals,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return fmt.Errorf("%w: %s: %v", ErrTokenResolutionFailed, id, err)
	}

	s.log.Debug("token metadata cached",
		zap.String("token", id),
		zap.String("symbol", info.Symbol),
	)
	return nil
}
