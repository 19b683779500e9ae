package relay

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rajaswap-relay/internal/eip712"
)

// nativeDecimals is the base-unit exponent of the chain's native currency.
const nativeDecimals = 18

// SettlementParams are the promotion parameters published by the settlement
// contract.
type SettlementParams struct {
	FeeBps   string
	MinAdFee string // native base units
}

// AttestFee verifies an on-chain promotion payment and attaches its value to
// the order. The transaction must have executed successfully and must have
// been sent to the settlement contract itself; self-reported fees are never
// trusted. The fee is write-once: storage.ErrFeeAlreadySet is returned on a
// second attestation.
//
// Returns the recorded fee in native units as a decimal string.
func (s *Service) AttestFee(ctx context.Context, orderID, txHash string) (string, error) {
	if err := s.checkConfigured(); err != nil {
		return "", err
	}

	// HexToHash silently truncates or pads, so validate the raw hex first.
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		return "", fmt.Errorf("%w: tx hash %q", eip712.ErrInvalidIdentifier, txHash)
	}
	hash := common.BytesToHash(raw)

	// Confirm the order exists before any ledger read.
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return "", err
	}

	payment, err := s.reader.Payment(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if !payment.Success {
		return "", ErrTransactionNotSuccessful
	}
	if payment.To == nil || *payment.To != s.contract {
		return "", ErrWrongRecipient
	}

	fee := decimal.NewFromBigInt(payment.Value, -nativeDecimals).String()

	if err := s.orders.AttachFee(ctx, orderID, fee); err != nil {
		return "", err
	}

	s.log.Info("promotion fee attested",
		zap.String("id", orderID),
		zap.String("tx", hash.Hex()),
		zap.String("fee", fee),
	)
	return fee, nil
}

// GetSettlementParams reads the current promotion parameters from the
// settlement contract.
func (s *Service) GetSettlementParams(ctx context.Context) (*SettlementParams, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	feeBps, err := s.reader.FeeBps(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	minAdFee, err := s.reader.MinAdFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return &SettlementParams{
		FeeBps:   feeBps.String(),
		MinAdFee: minAdFee.String(),
	}, nil
}
