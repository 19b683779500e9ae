package eip712

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"rajaswap-relay/internal/domain"
)

// SigningDomain is the EIP-712 domain separator shared bit-for-bit with the
// settlement contract. Binding the chain id and contract address prevents
// replay across chains and deployments.
type SigningDomain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// DefaultDomain returns the RajaSwap signing domain for the given chain and
// settlement contract.
func DefaultDomain(chainID int64, contract common.Address) SigningDomain {
	return SigningDomain{
		Name:              "RajaSwap",
		Version:           "1",
		ChainID:           big.NewInt(chainID),
		VerifyingContract: contract,
	}
}

// OrderMessage is the canonical typed message signed by the maker.
// All optional fields are already normalized: an absent desiredTaker is the
// zero address, an absent deadline is integer 0.
type OrderMessage struct {
	Maker        common.Address
	TokenSell    common.Address
	AmountSell   *big.Int
	TokenBuy     common.Address
	AmountBuy    *big.Int
	Nonce        *big.Int
	Deadline     *big.Int
	DesiredTaker common.Address
}

// Hasher derives the typed signing payload and the domain-bound content hash
// of an order. It is the single normalization point for null-vs-zero
// coercions; no caller may re-implement them.
type Hasher struct {
	domain SigningDomain
}

// NewHasher creates a Hasher bound to the given signing domain.
func NewHasher(domain SigningDomain) *Hasher {
	return &Hasher{domain: domain}
}

// Domain returns the signing domain, for diagnostics.
func (h *Hasher) Domain() SigningDomain {
	return h.domain
}

// Message builds the canonical typed message from an order's logical fields.
// Identical logical fields always yield an identical message regardless of
// how optional fields were stored. Returns ErrMalformedOrder for numeric
// fields outside the uint256 range and ErrInvalidIdentifier for malformed
// addresses.
func (h *Hasher) Message(o *domain.Order) (*OrderMessage, error) {
	maker, err := parseAddress("maker", o.Maker)
	if err != nil {
		return nil, err
	}
	tokenSell, err := parseAddress("tokenSell", o.TokenSell)
	if err != nil {
		return nil, err
	}
	tokenBuy, err := parseAddress("tokenBuy", o.TokenBuy)
	if err != nil {
		return nil, err
	}

	amountSell, err := parseUint256("amountSell", o.AmountSell)
	if err != nil {
		return nil, err
	}
	amountBuy, err := parseUint256("amountBuy", o.AmountBuy)
	if err != nil {
		return nil, err
	}
	nonce, err := parseUint256("nonce", o.Nonce)
	if err != nil {
		return nil, err
	}

	// A stored null deadline hashes as integer 0; a timestamp is truncated
	// to whole seconds since epoch.
	deadline := big.NewInt(0)
	if o.Deadline != nil {
		deadline = big.NewInt(o.Deadline.Unix())
	}

	// An absent desiredTaker is encoded identically to the zero address.
	var desiredTaker common.Address
	if o.DesiredTaker != nil && *o.DesiredTaker != "" {
		desiredTaker, err = parseAddress("desiredTaker", *o.DesiredTaker)
		if err != nil {
			return nil, err
		}
	}

	return &OrderMessage{
		Maker:        maker,
		TokenSell:    tokenSell,
		AmountSell:   amountSell,
		TokenBuy:     tokenBuy,
		AmountBuy:    amountBuy,
		Nonce:        nonce,
		Deadline:     deadline,
		DesiredTaker: desiredTaker,
	}, nil
}

// Hash computes the domain-bound content hash of the message:
// keccak256("\x19\x01" || domainSeparator || structHash). This digest is the
// key the settlement contract uses for fill accounting, and the payload the
// maker's wallet signed.
func (h *Hasher) Hash(msg *OrderMessage) (common.Hash, error) {
	td := h.TypedData(msg)

	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash domain: %w", err)
	}

	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash order struct: %w", err)
	}

	raw := make([]byte, 0, 2+len(domainSeparator)+len(structHash))
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, structHash...)
	return crypto.Keccak256Hash(raw), nil
}

// TypedData builds the full eth_signTypedData_v4 structure for msg.
// Exposed so signature failures can be logged with the exact recomputed
// payload.
func (h *Hasher) TypedData(msg *OrderMessage) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": []apitypes.Type{
				{Name: "maker", Type: "address"},
				{Name: "tokenSell", Type: "address"},
				{Name: "amountSell", Type: "uint256"},
				{Name: "tokenBuy", Type: "address"},
				{Name: "amountBuy", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
				{Name: "desiredTaker", Type: "address"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              h.domain.Name,
			Version:           h.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(h.domain.ChainID),
			VerifyingContract: h.domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"maker":        msg.Maker.Hex(),
			"tokenSell":    msg.TokenSell.Hex(),
			"amountSell":   msg.AmountSell.String(),
			"tokenBuy":     msg.TokenBuy.Hex(),
			"amountBuy":    msg.AmountBuy.String(),
			"nonce":        msg.Nonce.String(),
			"deadline":     msg.Deadline.String(),
			"desiredTaker": msg.DesiredTaker.Hex(),
		},
	}
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, field, s)
	}
	return common.HexToAddress(s), nil
}

func parseUint256(field, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %s %q is not a uint256", ErrMalformedOrder, field, s)
	}
	return n, nil
}
