package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
	"github.com/paywave-wallet-ledger/internal/domain/wallet"
	"github.com/paywave-wallet-ledger/internal/engine"
	"github.com/paywave-wallet-ledger/internal/wallet_api/middleware"
	"github.com/paywave-wallet-ledger/internal/wallet_api/service"
)

// WalletHandler handles HTTP requests for the authenticated user's wallet
type WalletHandler struct {
	walletService   service.WalletService
	movementService service.MovementService
	logger          *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, walletService service.WalletService, movementService service.MovementService) *WalletHandler {
	return &WalletHandler{
		walletService:   walletService,
		movementService: movementService,
		logger:          logger,
	}
}

// Get retrieves the authenticated user's wallet
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	w, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		h.logger.Error("Failed to get wallet", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapWalletToResponse(w))
}

// Deposit credits the authenticated user's wallet
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.movementService.Deposit(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		h.respondMovementError(c, userID, err)
		return
	}

	RespondCreated(c, mapResultToResponse(userID, result))
}

// GetTransactions retrieves a page of the authenticated user's transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	transactions, total, err := h.walletService.GetTransactions(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to get transactions", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, mapTransactionToResponse(tx))
	}

	RespondWithPaginatedData(c, 200, TransactionListResponse{Transactions: responses}, params.Page, params.PerPage, int(total))
}

// GetTransaction retrieves one of the authenticated user's transactions with
// its balance-history audit rows
func (h *WalletHandler) GetTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction id")
		return
	}

	tx, history, err := h.walletService.GetTransactionDetail(c.Request.Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction detail", "transaction_id", transactionID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	detail := TransactionDetailResponse{
		Transaction: mapTransactionToResponse(tx),
		History:     make([]BalanceHistoryResponse, 0, len(history)),
	}
	for _, entry := range history {
		detail.History = append(detail.History, BalanceHistoryResponse{
			UserID:        entry.UserID.String(),
			BalanceBefore: entry.BalanceBefore,
			BalanceAfter:  entry.BalanceAfter,
			CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
		})
	}

	RespondOK(c, detail)
}

// respondMovementError maps movement failures to HTTP statuses. Business rule
// violations get specific statuses; transient store conflicts ask the client
// to retry; everything else is a 500.
func (h *WalletHandler) respondMovementError(c *gin.Context, userID uuid.UUID, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidMovementAmount), errors.Is(err, wallet.ErrInvalidAmount):
		RespondBadRequest(c, "Amount must be positive")
	case errors.Is(err, engine.ErrSelfTransfer):
		RespondBadRequest(c, "Cannot transfer to your own wallet")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		RespondWithError(c, http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Insufficient balance")
	case errors.Is(err, wallet.ErrWalletInactive):
		RespondForbidden(c, "Wallet is not active")
	case errors.Is(err, wallet.ErrCurrencyMismatch):
		RespondConflict(c, "Wallet currencies do not match")
	case errors.Is(err, wallet.ErrWalletNotFound{}):
		RespondNotFound(c, "Wallet not found")
	case engine.IsRetryable(err):
		RespondServiceUnavailable(c, "Wallet is busy, please retry")
	default:
		h.logger.Error("Movement failed", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
	}
}

// mapWalletToResponse maps a wallet entity to a wallet response DTO
func mapWalletToResponse(w *wallet.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		UserID:    w.UserID.String(),
		Balance:   w.Balance,
		Currency:  w.Currency,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(tx *ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: tx.ID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.FromUserID != nil {
		resp.FromUserID = tx.FromUserID.String()
	}
	if tx.ToUserID != nil {
		resp.ToUserID = tx.ToUserID.String()
	}
	if tx.CompletedAt != nil {
		resp.CompletedAt = tx.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// mapResultToResponse maps an engine result to a movement response, picking
// the caller's balance out of the history entries
func mapResultToResponse(userID uuid.UUID, result *engine.Result) MovementResponse {
	resp := MovementResponse{
		Transaction: mapTransactionToResponse(result.Transaction),
	}
	for _, entry := range result.History {
		if entry.UserID == userID {
			resp.Balance = entry.BalanceAfter
			break
		}
	}
	return resp
}
