package storage

import "errors"

// Storage errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrReferentialViolation is returned when an order references a token
	// that has not been resolved into the token table.
	ErrReferentialViolation = errors.New("referenced token not resolved")

	// ErrFeeAlreadySet is returned when attaching a promotion fee to an
	// order that already has one. The fee is write-once: the first
	// successful attestation wins.
	ErrFeeAlreadySet = errors.New("promotion fee already set")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
