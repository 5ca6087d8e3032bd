package wallet_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paywave-wallet-ledger/internal/platform/auth"
	"github.com/paywave-wallet-ledger/internal/wallet_api/handler"
	"github.com/paywave-wallet-ledger/internal/wallet_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	verifier auth.TokenVerifier,
	walletHandler *handler.WalletHandler,
	transferHandler *handler.TransferHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints, all behind bearer authentication
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(logger, verifier))
	{
		// Wallet operations
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", walletHandler.Get)
			wallet.POST("/deposit", walletHandler.Deposit)
			wallet.GET("/transactions", walletHandler.GetTransactions)
		}

		// Transfer operations
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
		}

		// Transaction audit view
		transactions := v1.Group("/transactions")
		{
			transactions.GET("/:id", walletHandler.GetTransaction)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
