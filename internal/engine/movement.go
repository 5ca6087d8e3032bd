// Package engine applies wallet movements. A movement is a deposit or a
// transfer; applying one mutates the affected balances and writes the
// transaction, its balance history, and the outbox event in a single store
// transaction, so the ledger can never disagree with the balances.
package engine

import (
	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/ledger"
)

const (
	// Default descriptions used when the caller provides none
	DefaultDepositDescription  = "Wallet deposit"
	DefaultTransferDescription = "Money transfer"
)

// Movement is a validated request to move money. Build one through
// NewDeposit or NewTransfer; the zero value is not usable.
type Movement struct {
	Type        ledger.TransactionType
	FromUserID  *uuid.UUID
	ToUserID    *uuid.UUID
	Amount      int64 // Minor units, always positive
	Description string
}

// NewDeposit builds a movement that credits the user's wallet from an
// external source.
func NewDeposit(userID uuid.UUID, amount int64, description string) (Movement, error) {
	if amount <= 0 {
		return Movement{}, ErrInvalidMovementAmount
	}
	if description == "" {
		description = DefaultDepositDescription
	}

	return Movement{
		Type:        ledger.TransactionTypeDeposit,
		ToUserID:    &userID,
		Amount:      amount,
		Description: description,
	}, nil
}

// NewTransfer builds a movement that debits the sender and credits the
// recipient. Transfers to one's own wallet are rejected here, before any
// locks are taken.
func NewTransfer(fromUserID, toUserID uuid.UUID, amount int64, description string) (Movement, error) {
	if amount <= 0 {
		return Movement{}, ErrInvalidMovementAmount
	}
	if fromUserID == toUserID {
		return Movement{}, ErrSelfTransfer
	}
	if description == "" {
		description = DefaultTransferDescription
	}

	return Movement{
		Type:        ledger.TransactionTypeTransfer,
		FromUserID:  &fromUserID,
		ToUserID:    &toUserID,
		Amount:      amount,
		Description: description,
	}, nil
}

// Result carries the committed outcome of a movement
type Result struct {
	Transaction *ledger.Transaction
	History     []*ledger.BalanceHistoryEntry
}
