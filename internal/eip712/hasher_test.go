package eip712

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rajaswap-relay/internal/domain"
)

const (
	testContract = "0x5555555555555555555555555555555555555555"
	testChainID  = 5003
)

func testHasher() *Hasher {
	return NewHasher(DefaultDomain(testChainID, common.HexToAddress(testContract)))
}

func baseOrder() *domain.Order {
	return &domain.Order{
		Maker:      "0x3333333333333333333333333333333333333333",
		TokenSell:  "0x1111111111111111111111111111111111111111",
		TokenBuy:   "0x2222222222222222222222222222222222222222",
		AmountSell: "1000000000000000000",
		AmountBuy:  "500000000000000000",
		Nonce:      "7",
	}
}

func TestHasher_NormalizesAbsentFields(t *testing.T) {
	h := testHasher()

	// nil and empty desiredTaker, nil deadline
	o1 := baseOrder()
	o2 := baseOrder()
	empty := ""
	o2.DesiredTaker = &empty
	o3 := baseOrder()
	zeroTaker := "0x0000000000000000000000000000000000000000"
	o3.DesiredTaker = &zeroTaker

	m1, err := h.Message(o1)
	require.NoError(t, err)
	m2, err := h.Message(o2)
	require.NoError(t, err)
	m3, err := h.Message(o3)
	require.NoError(t, err)

	h1, err := h.Hash(m1)
	require.NoError(t, err)
	h2, err := h.Hash(m2)
	require.NoError(t, err)
	h3, err := h.Hash(m3)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "nil and empty desiredTaker must hash identically")
	assert.Equal(t, h1, h3, "nil and zero-address desiredTaker must hash identically")
}

func TestHasher_NilDeadlineHashesAsZero(t *testing.T) {
	h := testHasher()

	o := baseOrder()
	m, err := h.Message(o)
	require.NoError(t, err)
	assert.Equal(t, "0", m.Deadline.String())

	withDeadline := baseOrder()
	ts := time.Unix(1900000000, 0)
	withDeadline.Deadline = &ts
	m2, err := h.Message(withDeadline)
	require.NoError(t, err)
	assert.Equal(t, "1900000000", m2.Deadline.String())

	d1, err := h.Hash(m)
	require.NoError(t, err)
	d2, err := h.Hash(m2)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2, "deadline participates in the hash")
}

func TestHasher_Deterministic(t *testing.T) {
	h := testHasher()

	m, err := h.Message(baseOrder())
	require.NoError(t, err)

	d1, err := h.Hash(m)
	require.NoError(t, err)
	d2, err := h.Hash(m)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, common.Hash{}, d1)
}

func TestHasher_DomainBindsHash(t *testing.T) {
	o := baseOrder()

	m1, err := testHasher().Message(o)
	require.NoError(t, err)
	d1, err := testHasher().Hash(m1)
	require.NoError(t, err)

	otherChain := NewHasher(DefaultDomain(1, common.HexToAddress(testContract)))
	m2, err := otherChain.Message(o)
	require.NoError(t, err)
	d2, err := otherChain.Hash(m2)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2, "chain id must bind the digest")

	otherContract := NewHasher(DefaultDomain(testChainID, common.HexToAddress("0x6666666666666666666666666666666666666666")))
	m3, err := otherContract.Message(o)
	require.NoError(t, err)
	d3, err := otherContract.Hash(m3)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3, "verifying contract must bind the digest")
}

func TestHasher_RejectsMalformedFields(t *testing.T) {
	h := testHasher()

	bad := baseOrder()
	bad.AmountSell = "not-a-number"
	_, err := h.Message(bad)
	assert.True(t, errors.Is(err, ErrMalformedOrder), "got %v", err)

	negative := baseOrder()
	negative.AmountBuy = "-5"
	_, err = h.Message(negative)
	assert.True(t, errors.Is(err, ErrMalformedOrder), "got %v", err)

	// 2^256 is one past the uint256 range
	overflow := baseOrder()
	overflow.Nonce = "115792089237316195423570985008687907853269984665640564039457584007913129639936"
	_, err = h.Message(overflow)
	assert.True(t, errors.Is(err, ErrMalformedOrder), "got %v", err)

	badAddr := baseOrder()
	badAddr.Maker = "not-an-address"
	_, err = h.Message(badAddr)
	assert.True(t, errors.Is(err, ErrInvalidIdentifier), "got %v", err)
}

func TestNormalizeAddress(t *testing.T) {
	lower := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	upper := "0xDAC17F958D2EE523A2206206994597C13D831EC7"

	a, err := NormalizeAddress(lower)
	require.NoError(t, err)
	b, err := NormalizeAddress(upper)
	require.NoError(t, err)
	assert.Equal(t, a, b, "case variants normalize identically")
	assert.Equal(t, common.HexToAddress(lower).Hex(), a)

	_, err = NormalizeAddress("0x123")
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
}

func TestNormalizeOptionalAddress(t *testing.T) {
	got, err := NormalizeOptionalAddress(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = NormalizeOptionalAddress(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	got, err = NormalizeOptionalAddress(&addr)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, common.HexToAddress(addr).Hex(), *got)
}
