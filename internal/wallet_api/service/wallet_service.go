package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
	"github.com/paywave-wallet-ledger/internal/domain/wallet"
)

// WalletServiceImpl implements the WalletService interface
type WalletServiceImpl struct {
	walletRepo wallet.Repository
	ledgerRepo ledger.Repository
}

// NewWalletService creates a new wallet service
func NewWalletService(walletRepo wallet.Repository, ledgerRepo ledger.Repository) WalletService {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
	}
}

// GetWallet retrieves the user's wallet
func (s *WalletServiceImpl) GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.walletRepo.GetByUserID(ctx, userID)
}

// GetTransactions retrieves a page of the user's transactions plus the total count
func (s *WalletServiceImpl) GetTransactions(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	transactions, err := s.ledgerRepo.GetTransactionsByUserID(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// GetTransactionDetail retrieves one transaction with its balance-history
// rows. A transaction the user is not a party to is reported as not found so
// transaction ids cannot be probed.
func (s *WalletServiceImpl) GetTransactionDetail(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.Transaction, []*ledger.BalanceHistoryEntry, error) {
	tx, err := s.ledgerRepo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	if !tx.InvolvesUser(userID) {
		return nil, nil, ledger.ErrTransactionNotFound{TransactionID: transactionID}
	}

	history, err := s.ledgerRepo.GetHistoryByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	return tx, history, nil
}
