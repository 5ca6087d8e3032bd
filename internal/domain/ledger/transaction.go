// Package ledger holds the audit trail of the wallet system: immutable
// Transaction records plus one BalanceHistoryEntry per affected wallet.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidParties         = errors.New("transaction parties do not match its type")
)

// TransactionType defines possible transaction operations
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionStatus defines transaction processing states
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one completed movement in the ledger. A DEPOSIT carries only
// ToUserID; a TRANSFER carries both, always distinct. Records are written
// once, after the balance mutation succeeded, and never updated.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	FromUserID  *uuid.UUID        `json:"from_user_id,omitempty"`
	ToUserID    *uuid.UUID        `json:"to_user_id,omitempty"`
	Amount      int64             `json:"amount"` // Stored in cents/minor units
	Currency    string            `json:"currency"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// BalanceHistoryEntry is the per-party audit row of a transaction, recording
// the wallet balance immediately before and after the movement.
type BalanceHistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	UserID        uuid.UUID `json:"user_id"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCompletedTransaction builds a transaction that is already final. The
// party layout is validated against the type before anything is persisted.
func NewCompletedTransaction(txType TransactionType, fromUserID, toUserID *uuid.UUID, amount int64, currency, description string) (*Transaction, error) {
	switch txType {
	case TransactionTypeDeposit:
		if fromUserID != nil || toUserID == nil {
			return nil, ErrInvalidParties
		}
	case TransactionTypeWithdrawal:
		if fromUserID == nil || toUserID != nil {
			return nil, ErrInvalidParties
		}
	case TransactionTypeTransfer:
		if fromUserID == nil || toUserID == nil || *fromUserID == *toUserID {
			return nil, ErrInvalidParties
		}
	default:
		return nil, ErrInvalidTransactionType
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		Currency:    currency,
		Type:        txType,
		Status:      TransactionStatusCompleted,
		Description: description,
		CreatedAt:   now,
		CompletedAt: &now,
	}, nil
}

// InvolvesUser reports whether the user is a party to the transaction
func (t *Transaction) InvolvesUser(userID uuid.UUID) bool {
	if t.FromUserID != nil && *t.FromUserID == userID {
		return true
	}
	return t.ToUserID != nil && *t.ToUserID == userID
}

// NewHistoryEntry records one party's balance change for a transaction
func NewHistoryEntry(transactionID, userID uuid.UUID, balanceBefore, balanceAfter int64) *BalanceHistoryEntry {
	return &BalanceHistoryEntry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		UserID:        userID,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now().UTC(),
	}
}
