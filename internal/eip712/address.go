package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress canonicalizes a textual account/token identifier to its
// EIP-55 checksummed form. Two differently-cased spellings of the same
// address always normalize to the same string, so storage keys and equality
// checks stay unambiguous.
func NormalizeAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return common.HexToAddress(s).Hex(), nil
}

// NormalizeOptionalAddress normalizes a nullable identifier. nil and the
// empty string both mean "absent" and pass through as nil.
func NormalizeOptionalAddress(s *string) (*string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	normalized, err := NormalizeAddress(*s)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}
