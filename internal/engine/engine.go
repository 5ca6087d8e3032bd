package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
	"github.com/paywave-wallet-ledger/internal/domain/outbox"
	"github.com/paywave-wallet-ledger/internal/domain/wallet"
)

// TxRunner runs a function inside a store transaction, committing on nil and
// rolling back on error or panic.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Applier applies movements. Satisfied by Engine and PooledEngine.
type Applier interface {
	Apply(ctx context.Context, mv Movement) (*Result, error)
}

// Engine applies movements atomically. All writes of one movement share one
// store transaction: wallet rows are locked and mutated, then the transaction
// record, its balance history, and the outbox event are inserted. Either
// everything commits or nothing does.
type Engine struct {
	runner  TxRunner
	wallets wallet.Repository
	records ledger.Repository
	events  outbox.Repository
	timeout time.Duration
	logger  *slog.Logger
}

// NewEngine creates a movement engine. The timeout bounds every movement
// independently of the caller's context.
func NewEngine(
	logger *slog.Logger,
	runner TxRunner,
	wallets wallet.Repository,
	records ledger.Repository,
	events outbox.Repository,
	timeout time.Duration,
) *Engine {
	return &Engine{
		runner:  runner,
		wallets: wallets,
		records: records,
		events:  events,
		timeout: timeout,
		logger:  logger,
	}
}

// Apply executes the movement and returns its committed outcome. A caller
// disconnect never aborts a movement mid-flight: the store transaction runs
// on a detached context bounded only by the engine timeout.
func (e *Engine) Apply(ctx context.Context, mv Movement) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	var result *Result
	err := e.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		r, txErr := e.applyInTx(ctx, tx, mv)
		if txErr != nil {
			return txErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Movement applied",
		"transaction_id", result.Transaction.ID.String(),
		"type", string(mv.Type),
		"amount", mv.Amount,
	)
	return result, nil
}

func (e *Engine) applyInTx(ctx context.Context, tx pgx.Tx, mv Movement) (*Result, error) {
	wallets := e.wallets.WithTx(tx)
	records := e.records.WithTx(tx)
	events := e.events.WithTx(tx)

	switch mv.Type {
	case ledger.TransactionTypeDeposit:
		return e.applyDeposit(ctx, wallets, records, events, mv)
	case ledger.TransactionTypeTransfer:
		return e.applyTransfer(ctx, wallets, records, events, mv)
	default:
		return nil, ledger.ErrInvalidTransactionType
	}
}

func (e *Engine) applyDeposit(
	ctx context.Context,
	wallets wallet.Repository,
	records ledger.Repository,
	events outbox.Repository,
	mv Movement,
) (*Result, error) {
	w, err := wallets.LockForUpdate(ctx, *mv.ToUserID)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, wallet.ErrWalletInactive
	}

	balanceBefore := w.Balance
	if err := w.Credit(mv.Amount); err != nil {
		return nil, err
	}

	record, err := ledger.NewCompletedTransaction(ledger.TransactionTypeDeposit, nil, mv.ToUserID, mv.Amount, w.Currency, mv.Description)
	if err != nil {
		return nil, err
	}

	if err := records.CreateTransaction(ctx, record); err != nil {
		return nil, err
	}

	entry := ledger.NewHistoryEntry(record.ID, w.UserID, balanceBefore, w.Balance)
	if err := records.CreateHistoryEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := wallets.Update(ctx, w); err != nil {
		return nil, err
	}

	if err := e.enqueueEvent(ctx, events, record); err != nil {
		return nil, err
	}

	return &Result{
		Transaction: record,
		History:     []*ledger.BalanceHistoryEntry{entry},
	}, nil
}

func (e *Engine) applyTransfer(
	ctx context.Context,
	wallets wallet.Repository,
	records ledger.Repository,
	events outbox.Repository,
	mv Movement,
) (*Result, error) {
	if *mv.FromUserID == *mv.ToUserID {
		return nil, ErrSelfTransfer
	}

	// Both wallet rows are locked in ascending user id order regardless of
	// transfer direction, so two opposing transfers cannot deadlock.
	locked := make(map[uuid.UUID]*wallet.Wallet, 2)
	for _, userID := range lockOrder(*mv.FromUserID, *mv.ToUserID) {
		w, err := wallets.LockForUpdate(ctx, userID)
		if err != nil {
			return nil, err
		}
		locked[userID] = w
	}

	sender := locked[*mv.FromUserID]
	recipient := locked[*mv.ToUserID]

	if !sender.IsActive || !recipient.IsActive {
		return nil, wallet.ErrWalletInactive
	}
	if sender.Currency != recipient.Currency {
		return nil, wallet.ErrCurrencyMismatch
	}

	senderBefore := sender.Balance
	recipientBefore := recipient.Balance

	if err := sender.Debit(mv.Amount); err != nil {
		return nil, err
	}
	if err := recipient.Credit(mv.Amount); err != nil {
		return nil, err
	}

	record, err := ledger.NewCompletedTransaction(ledger.TransactionTypeTransfer, mv.FromUserID, mv.ToUserID, mv.Amount, sender.Currency, mv.Description)
	if err != nil {
		return nil, err
	}

	if err := records.CreateTransaction(ctx, record); err != nil {
		return nil, err
	}

	// History rows are written sender first, then recipient
	senderEntry := ledger.NewHistoryEntry(record.ID, sender.UserID, senderBefore, sender.Balance)
	if err := records.CreateHistoryEntry(ctx, senderEntry); err != nil {
		return nil, err
	}
	recipientEntry := ledger.NewHistoryEntry(record.ID, recipient.UserID, recipientBefore, recipient.Balance)
	if err := records.CreateHistoryEntry(ctx, recipientEntry); err != nil {
		return nil, err
	}

	if err := wallets.Update(ctx, sender); err != nil {
		return nil, err
	}
	if err := wallets.Update(ctx, recipient); err != nil {
		return nil, err
	}

	if err := e.enqueueEvent(ctx, events, record); err != nil {
		return nil, err
	}

	return &Result{
		Transaction: record,
		History:     []*ledger.BalanceHistoryEntry{senderEntry, recipientEntry},
	}, nil
}

func (e *Engine) enqueueEvent(ctx context.Context, events outbox.Repository, record *ledger.Transaction) error {
	message, err := outbox.NewMessage(record)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return events.Create(ctx, message)
}

// lockOrder returns the two user ids sorted ascending by their byte value
func lockOrder(a, b uuid.UUID) [2]uuid.UUID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return [2]uuid.UUID{a, b}
	}
	return [2]uuid.UUID{b, a}
}
