// Package config loads server configuration from flags and environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Mantle Sepolia is the default settlement chain.
const DefaultChainID = 5003

// Config holds the relay server configuration.
type Config struct {
	RPCEndpoint  string
	ContractAddr common.Address
	ChainID      int64

	PostgresDSN string
	UseMemory   bool

	ListenAddr  string
	CallTimeout time.Duration
}

// Load parses configuration from command-line flags, with environment
// variables as defaults. A .env file in the working directory is loaded
// first, without overriding existing environment variables.
func Load(args []string) (*Config, error) {
	// Ignore the error: a missing .env file means system env only.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("rajaswap-relay", flag.ContinueOnError)

	rpcEndpoint := fs.String("rpc-endpoint", os.Getenv("RPC_ENDPOINT"), "Ledger JSON-RPC HTTP endpoint")
	contractAddr := fs.String("contract-address", os.Getenv("SETTLEMENT_CONTRACT"), "Settlement contract address")
	chainID := fs.Int64("chain-id", envInt64("CHAIN_ID", DefaultChainID), "EIP-155 chain id of the settlement chain")
	postgresDSN := fs.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := fs.Bool("use-memory", envBool("USE_MEMORY"), "Use in-memory storage instead of PostgreSQL")
	listenAddr := fs.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	callTimeout := fs.Duration("call-timeout", envDuration("CALL_TIMEOUT", 15*time.Second), "Per-call ledger RPC timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCEndpoint: *rpcEndpoint,
		ChainID:     *chainID,
		PostgresDSN: *postgresDSN,
		UseMemory:   *useMemory,
		ListenAddr:  *listenAddr,
		CallTimeout: *callTimeout,
	}

	if cfg.RPCEndpoint == "" {
		return nil, fmt.Errorf("--rpc-endpoint is required")
	}
	if !cfg.UseMemory && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}
	if *contractAddr != "" {
		if !common.IsHexAddress(*contractAddr) {
			return nil, fmt.Errorf("invalid --contract-address %q", *contractAddr)
		}
		cfg.ContractAddr = common.HexToAddress(*contractAddr)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
