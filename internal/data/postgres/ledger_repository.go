package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
	"github.com/paywave-wallet-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so ledger writes commit
// atomically with the balance updates of the same movement.
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateTransaction inserts a transaction record. Records are immutable once
// written; there is no corresponding update operation.
func (r *LedgerRepository) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_user_id, to_user_id, amount, currency, type, status, description, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		tx.ID,
		tx.FromUserID,
		tx.ToUserID,
		tx.Amount,
		tx.Currency,
		tx.Type,
		tx.Status,
		tx.Description,
		tx.CreatedAt,
		tx.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "transaction_id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// CreateHistoryEntry inserts one party's balance-history row
func (r *LedgerRepository) CreateHistoryEntry(ctx context.Context, entry *ledger.BalanceHistoryEntry) error {
	query := `
		INSERT INTO balance_history (id, transaction_id, user_id, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.TransactionID,
		entry.UserID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create balance history entry", "transaction_id", entry.TransactionID.String(), "error", err)
		return fmt.Errorf("failed to create balance history entry: %w", err)
	}

	return nil
}

// GetTransactionByID retrieves a transaction by its ID
func (r *LedgerRepository) GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, amount, currency, type, status, description, created_at, completed_at
		FROM transactions
		WHERE id = $1
	`

	var tx ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.FromUserID,
		&tx.ToUserID,
		&tx.Amount,
		&tx.Currency,
		&tx.Type,
		&tx.Status,
		&tx.Description,
		&tx.CreatedAt,
		&tx.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// GetTransactionsByUserID retrieves transactions where the user is either
// party, newest first, with limit/offset pagination.
func (r *LedgerRepository) GetTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, amount, currency, type, status, description, created_at, completed_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get transactions", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*ledger.Transaction
	for rows.Next() {
		var tx ledger.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.FromUserID,
			&tx.ToUserID,
			&tx.Amount,
			&tx.Currency,
			&tx.Type,
			&tx.Status,
			&tx.Description,
			&tx.CreatedAt,
			&tx.CompletedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return transactions, nil
}

// CountTransactionsByUserID returns the total number of transactions
// involving the user, for pagination metadata.
func (r *LedgerRepository) CountTransactionsByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// GetHistoryByTransactionID retrieves the balance-history rows of one
// transaction in insertion order.
func (r *LedgerRepository) GetHistoryByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*ledger.BalanceHistoryEntry, error) {
	query := `
		SELECT id, transaction_id, user_id, balance_before, balance_after, created_at
		FROM balance_history
		WHERE transaction_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, transactionID)
	if err != nil {
		r.logger.Error("Failed to get balance history", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.BalanceHistoryEntry
	for rows.Next() {
		var entry ledger.BalanceHistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.UserID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan balance history entry", "error", err)
			return nil, fmt.Errorf("failed to scan balance history entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over balance history", "error", err)
		return nil, fmt.Errorf("error iterating over balance history: %w", err)
	}

	return entries, nil
}
