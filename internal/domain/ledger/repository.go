package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages transaction and balance-history persistence. Writes
// happen only inside a movement transaction via WithTx; reads serve the
// history API.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateHistoryEntry(ctx context.Context, entry *BalanceHistoryEntry) error
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountTransactionsByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	GetHistoryByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*BalanceHistoryEntry, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing transaction record
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// If the target TransactionID is empty, consider it a match for any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
