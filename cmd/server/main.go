// Package main runs the order relay server: HTTP API, settlement chain
// client, and the order catalog (PostgreSQL or in-memory).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rajaswap-relay/internal/api"
	"rajaswap-relay/internal/chain"
	"rajaswap-relay/internal/config"
	"rajaswap-relay/internal/eip712"
	"rajaswap-relay/internal/relay"
	"rajaswap-relay/internal/storage"
	"rajaswap-relay/internal/storage/memory"
	"rajaswap-relay/internal/storage/migrations"
	pgstore "rajaswap-relay/internal/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}
	if cfg.ContractAddr == (common.Address{}) {
		logger.Warn("settlement contract address not configured; order operations will be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orders, tokens, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatal("storage initialization failed", zap.Error(err))
	}
	defer cleanup()

	reader, err := chain.NewClient(cfg.RPCEndpoint, cfg.ContractAddr,
		chain.WithTimeout(cfg.CallTimeout),
	)
	if err != nil {
		logger.Fatal("chain client initialization failed", zap.Error(err))
	}
	defer reader.Close()

	hasher := eip712.NewHasher(eip712.DefaultDomain(cfg.ChainID, cfg.ContractAddr))
	svc := relay.NewService(orders, tokens, reader, hasher, logger)
	server := api.NewServer(svc, logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.ListenAddr),
			zap.Int64("chain_id", cfg.ChainID),
			zap.String("contract", cfg.ContractAddr.Hex()),
		)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case serveErr := <-errCh:
		logger.Fatal("server error", zap.Error(serveErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// createStores builds the order and token stores, running migrations when
// backed by PostgreSQL.
func createStores(ctx context.Context, cfg *config.Config) (storage.OrderStore, storage.TokenStore, func(), error) {
	if cfg.UseMemory {
		tokens := memory.NewTokenStore()
		return memory.NewOrderStore(tokens), tokens, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return pgstore.NewOrderStore(pool), pgstore.NewTokenStore(pool), pool.Close, nil
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
