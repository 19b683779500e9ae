package relay

import "errors"

// Service-level errors. Validation and signature errors surface from the
// eip712 package; storage sentinels (ErrFeeAlreadySet, ErrReferentialViolation)
// pass through unchanged.
var (
	// ErrOrderNotFound indicates the order id is not in the catalog.
	ErrOrderNotFound = errors.New("order not found")

	// ErrTokenResolutionFailed indicates ERC-20 metadata could not be read
	// for a token referenced by an order.
	ErrTokenResolutionFailed = errors.New("token metadata resolution failed")

	// ErrUpstreamUnavailable indicates the settlement ledger could not be
	// read; the cached state was left untouched.
	ErrUpstreamUnavailable = errors.New("settlement ledger unavailable")

	// ErrTransactionNotSuccessful indicates the referenced fee payment
	// transaction did not execute successfully.
	ErrTransactionNotSuccessful = errors.New("transaction not successful")

	// ErrWrongRecipient indicates the fee payment was not sent to the
	// settlement contract.
	ErrWrongRecipient = errors.New("payment recipient is not the settlement contract")

	// ErrMisconfigured indicates the settlement contract address is not
	// configured, so signatures and payments cannot be verified.
	ErrMisconfigured = errors.New("settlement contract address not configured")
)
