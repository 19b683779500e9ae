package eip712

import "errors"

var (
	// ErrInvalidIdentifier is returned for account/token identifiers that
	// are not well-formed 20-byte hex addresses.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrMalformedOrder is returned when a numeric order field cannot be
	// parsed as a non-negative integer within the 256-bit range.
	ErrMalformedOrder = errors.New("malformed order")

	// ErrSignatureInvalid is returned for signatures of the wrong shape,
	// and surfaced by callers when a well-formed signature fails to
	// verify against the claimed maker. VerifySignature itself reports
	// the latter as a plain false, not as an error.
	ErrSignatureInvalid = errors.New("invalid signature")
)
