package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"rajaswap-relay/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Read surface of the RajaSwap settlement contract.
const settlementABIJSON = `[
	{"type":"function","stateMutability":"view","name":"filledAmount",
	 "inputs":[{"name":"orderHash","type":"bytes32"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"_nonceCancelled",
	 "inputs":[{"name":"maker","type":"address"},{"name":"nonce","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","stateMutability":"view","name":"isOrderFilled",
	 "inputs":[{"name":"orderHash","type":"bytes32"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","stateMutability":"view","name":"feeBps",
	 "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"minAdFee",
	 "inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

const erc20ABIJSON = `[
	{"type":"function","stateMutability":"view","name":"name",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","stateMutability":"view","name":"symbol",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","stateMutability":"view","name":"decimals",
	 "inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

// Client implements Reader over an Ethereum JSON-RPC endpoint.
// Transient transport failures are retried with exponential backoff; every
// individual RPC call is bounded by the configured timeout so no caller
// blocks indefinitely on ledger latency.
type Client struct {
	eth           *ethclient.Client
	contract      common.Address
	settlementABI abi.ABI
	erc20ABI      abi.ABI

	timeout     time.Duration
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// WithMaxDelay sets the maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.maxDelay = d }
}

// NewClient dials the RPC endpoint and binds the settlement contract address.
func NewClient(rpcURL string, contract common.Address, opts ...ClientOption) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}

	settlementABI, err := abi.JSON(strings.NewReader(settlementABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse settlement abi: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	c := &Client{
		eth:           eth,
		contract:      contract,
		settlementABI: settlementABI,
		erc20ABI:      erc20ABI,
		timeout:       DefaultTimeout,
		maxRetries:    DefaultMaxRetries,
		retryDelay:    DefaultRetryDelay,
		maxDelay:      DefaultMaxDelay,
		backoffMult:   DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

var _ Reader = (*Client)(nil)

// withRetry runs fn with a bounded per-attempt timeout, retrying transient
// failures with exponential backoff.
func (c *Client) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := fn(callCtx)
		cancel()
		observability.ObserveChainCall(op, time.Since(start).Seconds())

		if err == nil {
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("%s: max retries exceeded: %w", op, lastErr)
}

// callView packs, executes and unpacks a single view call.
func (c *Client) callView(ctx context.Context, to common.Address, contractABI abi.ABI, method string, out interface{}, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}

	var raw []byte
	err = c.withRetry(ctx, method, func(callCtx context.Context) error {
		res, callErr := c.eth.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if callErr != nil {
			return callErr
		}
		raw = res
		return nil
	})
	if err != nil {
		return err
	}

	if err := contractABI.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("unpack %s: %w", method, err)
	}
	return nil
}

// FilledAmount returns the cumulative on-chain fill for the order hash.
func (c *Client) FilledAmount(ctx context.Context, orderHash common.Hash) (*big.Int, error) {
	var out *big.Int
	if err := c.callView(ctx, c.contract, c.settlementABI, "filledAmount", &out, orderHash); err != nil {
		return nil, err
	}
	return out, nil
}

// NonceCancelled reports whether the maker cancelled the nonce.
func (c *Client) NonceCancelled(ctx context.Context, maker common.Address, nonce *big.Int) (bool, error) {
	var out bool
	if err := c.callView(ctx, c.contract, c.settlementABI, "_nonceCancelled", &out, maker, nonce); err != nil {
		return false, err
	}
	return out, nil
}

// IsOrderFilled reports whether the contract considers the order filled.
func (c *Client) IsOrderFilled(ctx context.Context, orderHash common.Hash) (bool, error) {
	var out bool
	if err := c.callView(ctx, c.contract, c.settlementABI, "isOrderFilled", &out, orderHash); err != nil {
		return false, err
	}
	return out, nil
}

// FeeBps returns the settlement fee in basis points.
func (c *Client) FeeBps(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	if err := c.callView(ctx, c.contract, c.settlementABI, "feeBps", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MinAdFee returns the minimum promotion fee in native base units.
func (c *Client) MinAdFee(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	if err := c.callView(ctx, c.contract, c.settlementABI, "minAdFee", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TokenMetadata reads (name, symbol, decimals) from an ERC-20 token.
func (c *Client) TokenMetadata(ctx context.Context, token common.Address) (*TokenInfo, error) {
	var info TokenInfo
	if err := c.callView(ctx, token, c.erc20ABI, "name", &info.Name); err != nil {
		return nil, err
	}
	if err := c.callView(ctx, token, c.erc20ABI, "symbol", &info.Symbol); err != nil {
		return nil, err
	}
	if err := c.callView(ctx, token, c.erc20ABI, "decimals", &info.Decimals); err != nil {
		return nil, err
	}
	return &info, nil
}

// Payment returns the receipt status, recipient and value of a transaction.
func (c *Client) Payment(ctx context.Context, txHash common.Hash) (*TxPayment, error) {
	var receipt *types.Receipt
	err := c.withRetry(ctx, "eth_getTransactionReceipt", func(callCtx context.Context) error {
		r, callErr := c.eth.TransactionReceipt(callCtx, txHash)
		if callErr != nil {
			return callErr
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	var tx *types.Transaction
	err = c.withRetry(ctx, "eth_getTransactionByHash", func(callCtx context.Context) error {
		t, _, callErr := c.eth.TransactionByHash(callCtx, txHash)
		if callErr != nil {
			return callErr
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TxPayment{
		Success: receipt.Status == types.ReceiptStatusSuccessful,
		To:      tx.To(),
		Value:   tx.Value(),
	}, nil
}
