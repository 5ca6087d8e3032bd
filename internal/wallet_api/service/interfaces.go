package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
	"github.com/paywave-wallet-ledger/internal/domain/wallet"
	"github.com/paywave-wallet-ledger/internal/engine"
)

// WalletService defines the interface for wallet read operations
type WalletService interface {
	// GetWallet retrieves the authenticated user's wallet
	// Returns ErrWalletNotFound if no wallet is provisioned
	GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)

	// GetTransactions retrieves a paginated list of the user's transactions,
	// newest first. Returns transactions, total count, and any error.
	GetTransactions(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)

	// GetTransactionDetail retrieves one transaction plus its balance-history
	// audit rows. Returns ErrTransactionNotFound both when the id is unknown
	// and when the user is not a party to the transaction.
	GetTransactionDetail(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.Transaction, []*ledger.BalanceHistoryEntry, error)
}

// MovementService defines the interface for operations that move money
type MovementService interface {
	// Deposit credits the user's wallet from an external source
	Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*engine.Result, error)

	// Transfer moves money to the user registered under recipientPhone.
	// Returns profile.ErrProfileNotFound when the phone is unknown and
	// engine.ErrSelfTransfer when the phone resolves to the sender.
	Transfer(ctx context.Context, userID uuid.UUID, recipientPhone string, amount int64, description string) (*engine.Result, error)
}
