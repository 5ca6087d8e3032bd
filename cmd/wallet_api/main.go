package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paywave-wallet-ledger/internal/config"
	"github.com/paywave-wallet-ledger/internal/data/postgres"
	"github.com/paywave-wallet-ledger/internal/engine"
	"github.com/paywave-wallet-ledger/internal/logger"
	"github.com/paywave-wallet-ledger/internal/platform/auth"
	"github.com/paywave-wallet-ledger/internal/platform/persistence"
	"github.com/paywave-wallet-ledger/internal/wallet_api"
	"github.com/paywave-wallet-ledger/internal/wallet_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("wallet_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	walletRepo := postgres.NewWalletRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	profileRepo := postgres.NewProfileRepository(log, postgresDB)

	// Initialize the movement engine behind a bounded worker pool
	movementEngine := engine.NewEngine(log, postgresDB, walletRepo, ledgerRepo, outboxRepo, cfg.Movement.Timeout)
	pooledEngine, err := engine.NewPooledEngine(log, movementEngine, cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize movement worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize token verification and services
	verifier := auth.NewJWTVerifier(&cfg.Auth)
	walletService := service.NewWalletService(walletRepo, ledgerRepo)
	movementService := service.NewMovementService(log, profileRepo, pooledEngine)

	// Initialize REST server
	server := wallet_api.NewServer(log, cfg, verifier, walletService, movementService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop accepting requests, then let in-flight movements drain
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	pooledEngine.Shutdown()

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
