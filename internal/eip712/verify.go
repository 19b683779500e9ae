package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifySignature reports whether sigHex is a valid maker signature over the
// typed payload of msg. The recovered signer must equal msg.Maker exactly;
// a mismatch anywhere in the typed structure invalidates the whole
// signature. Recovery failures (e.g. an all-zero signature) count as
// invalid, not as system errors.
//
// The signature is 65 bytes r||s||v; v is accepted as 0/1 (raw recovery id)
// or 27/28 (wallet convention).
func (h *Hasher) VerifySignature(msg *OrderMessage, sigHex string) (bool, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false, fmt.Errorf("%w: want %d-byte r||s||v hex signature", ErrSignatureInvalid, crypto.SignatureLength)
	}

	digest, err := h.Hash(msg)
	if err != nil {
		return false, err
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pubBytes, err := crypto.Ecrecover(digest.Bytes(), normalized)
	if err != nil {
		return false, nil
	}
	pub, err := crypto.UnmarshalPubkey(pubBytes)
	if err != nil {
		return false, nil
	}

	return crypto.PubkeyToAddress(*pub) == msg.Maker, nil
}
