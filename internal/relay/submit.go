package relay

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/eip712"
)

// SubmitRequest carries the maker-signed intent as received over the wire.
// Amounts and nonce are decimal strings of base-unit uint256 values.
type SubmitRequest struct {
	Maker        string
	TokenSell    string
	AmountSell   string
	TokenBuy     string
	AmountBuy    string
	Nonce        string
	Deadline     string  // unix seconds; "" or "0" means no expiry
	DesiredTaker *string // nil or empty means public order
	Signature    string  // 0x-prefixed 65-byte r||s||v
}

// SubmitOrder validates a signed intent, verifies the maker's typed-data
// signature, lazily resolves metadata for both referenced tokens, and stores
// the order as active. Nothing is written if any step fails.
func (s *Service) SubmitOrder(ctx context.Context, req *SubmitRequest) (*domain.Order, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	maker, err := eip712.NormalizeAddress(req.Maker)
	if err != nil {
		return nil, fmt.Errorf("maker: %w", err)
	}
	tokenSell, err := eip712.NormalizeAddress(req.TokenSell)
	if err != nil {
		return nil, fmt.Errorf("tokenSell: %w", err)
	}
	tokenBuy, err := eip712.NormalizeAddress(req.TokenBuy)
	if err != nil {
		return nil, fmt.Errorf("tokenBuy: %w", err)
	}
	desiredTaker, err := eip712.NormalizeOptionalAddress(req.DesiredTaker)
	if err != nil {
		return nil, fmt.Errorf("desiredTaker: %w", err)
	}

	if err := requirePositiveUint256("amountSell", req.AmountSell); err != nil {
		return nil, err
	}
	if err := requirePositiveUint256("amountBuy", req.AmountBuy); err != nil {
		return nil, err
	}
	if _, ok := new(big.Int).SetString(req.Nonce, 10); !ok {
		return nil, fmt.Errorf("%w: nonce %q is not a uint256", eip712.ErrMalformedOrder, req.Nonce)
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		Maker:           maker,
		TokenSell:       tokenSell,
		TokenBuy:        tokenBuy,
		AmountSell:      req.AmountSell,
		AmountBuy:       req.AmountBuy,
		Nonce:           req.Nonce,
		Deadline:        deadline,
		DesiredTaker:    desiredTaker,
		Signature:       req.Signature,
		Status:          domain.StatusActive,
		AmountBuyFilled: "0",
	}

	msg, err := s.hasher.Message(order)
	if err != nil {
		return nil, err
	}
	ok, err := s.hasher.VerifySignature(msg, req.Signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Log the recomputed payload so a domain mismatch between relay
		// and frontend is diagnosable from server logs alone.
		s.log.Warn("signature verification failed",
			zap.String("maker", maker),
			zap.String("contract", s.contract.Hex()),
			zap.String("chain_id", s.hasher.Domain().ChainID.String()),
			zap.String("deadline", msg.Deadline.String()),
			zap.String("desired_taker", msg.DesiredTaker.Hex()),
		)
		return nil, eip712.ErrSignatureInvalid
	}

	if err := s.resolveTokens(ctx, msg.TokenSell, msg.TokenBuy); err != nil {
		return nil, err
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order accepted",
		zap.String("id", order.ID),
		zap.String("maker", order.Maker),
		zap.String("token_sell", order.TokenSell),
		zap.String("token_buy", order.TokenBuy),
	)
	return order, nil
}

func requirePositiveUint256(field, s string) error {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.BitLen() > 256 {
		return fmt.Errorf("%w: %s %q is not a uint256", eip712.ErrMalformedOrder, field, s)
	}
	if n.Sign() <= 0 {
		return fmt.Errorf("%w: %s must be positive", eip712.ErrMalformedOrder, field)
	}
	return nil
}

// parseDeadline converts the wire deadline to storage form. "" and "0" both
// mean no expiry and are stored as null, so they hash identically on every
// later recomputation.
func parseDeadline(s string) (*time.Time, error) {
	if s == "" || s == "0" {
		return nil, nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs < 0 {
		return nil, fmt.Errorf("%w: deadline %q is not a unix timestamp", eip712.ErrMalformedOrder, s)
	}
	t := time.Unix(secs, 0).UTC()
	return &t, nil
}
