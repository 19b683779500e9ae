package eip712

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rajaswap-relay/internal/domain"
)

// signOrder signs the typed payload of o with key and returns the order and
// its hex signature. crypto.Sign yields v as a raw recovery id (0/1).
func signOrder(t *testing.T, h *Hasher, o *domain.Order) (*OrderMessage, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	o.Maker = crypto.PubkeyToAddress(key.PublicKey).Hex()

	msg, err := h.Message(o)
	require.NoError(t, err)
	digest, err := h.Hash(msg)
	require.NoError(t, err)

	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)
	return msg, hexutil.Encode(sig)
}

func TestVerifySignature_Valid(t *testing.T) {
	h := testHasher()
	msg, sig := signOrder(t, h, baseOrder())

	ok, err := h.VerifySignature(msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifySignature_AcceptsWalletV(t *testing.T) {
	h := testHasher()
	msg, sigHex := signOrder(t, h, baseOrder())

	// Shift v from 0/1 to 27/28, as wallets emit it.
	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	sig[64] += 27

	ok, err := h.VerifySignature(msg, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifySignature_WrongMaker(t *testing.T) {
	h := testHasher()
	msg, sig := signOrder(t, h, baseOrder())

	// Someone else claims the signed order.
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	msg.Maker = crypto.PubkeyToAddress(otherKey.PublicKey)

	ok, err := h.VerifySignature(msg, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySignature_TamperedField(t *testing.T) {
	h := testHasher()
	o := baseOrder()
	_, sig := signOrder(t, h, o)

	// Sweeten the deal after signing.
	o.AmountBuy = "600000000000000000"
	tampered, err := h.Message(o)
	require.NoError(t, err)

	ok, err := h.VerifySignature(tampered, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySignature_GarbageInputs(t *testing.T) {
	h := testHasher()
	msg, _ := signOrder(t, h, baseOrder())

	// All-zero signature recovers nothing: invalid, not a system error.
	zero := make([]byte, crypto.SignatureLength)
	ok, err := h.VerifySignature(msg, hexutil.Encode(zero))
	require.NoError(t, err)
	assert.False(t, ok)

	// Malformed hex and wrong lengths are rejected outright.
	_, err = h.VerifySignature(msg, "not-hex")
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	_, err = h.VerifySignature(msg, "0x1234")
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}
