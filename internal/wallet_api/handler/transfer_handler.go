package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/paywave-wallet-ledger/internal/domain/profile"
	"github.com/paywave-wallet-ledger/internal/domain/wallet"
	"github.com/paywave-wallet-ledger/internal/wallet_api/middleware"
	"github.com/paywave-wallet-ledger/internal/wallet_api/service"
)

// TransferHandler handles HTTP requests for money transfers
type TransferHandler struct {
	movementService service.MovementService
	walletHandler   *WalletHandler // Shares the movement error mapping
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, movementService service.MovementService, walletHandler *WalletHandler) *TransferHandler {
	return &TransferHandler{
		movementService: movementService,
		walletHandler:   walletHandler,
		logger:          logger,
	}
}

// Create sends money from the authenticated user to the user registered
// under the recipient phone number
func (h *TransferHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.movementService.Transfer(c.Request.Context(), userID, req.RecipientPhone, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrProfileNotFound{}):
			RespondNotFound(c, "No user registered with this phone number")
		case errors.Is(err, wallet.ErrWalletNotFound{UserID: userID}):
			RespondNotFound(c, "Sender wallet not found")
		case errors.Is(err, wallet.ErrWalletNotFound{}):
			RespondNotFound(c, "Recipient wallet not found")
		default:
			h.walletHandler.respondMovementError(c, userID, err)
		}
		return
	}

	RespondCreated(c, mapResultToResponse(userID, result))
}
