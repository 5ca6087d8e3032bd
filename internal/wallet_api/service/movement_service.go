package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/profile"
	"github.com/paywave-wallet-ledger/internal/engine"
)

// MovementServiceImpl implements the MovementService interface. It resolves
// transfer recipients by phone and hands validated movements to the engine.
type MovementServiceImpl struct {
	resolver profile.Resolver
	applier  engine.Applier
	logger   *slog.Logger
}

// NewMovementService creates a new movement service
func NewMovementService(logger *slog.Logger, resolver profile.Resolver, applier engine.Applier) MovementService {
	return &MovementServiceImpl{
		resolver: resolver,
		applier:  applier,
		logger:   logger,
	}
}

// Deposit credits the user's wallet
func (s *MovementServiceImpl) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*engine.Result, error) {
	mv, err := engine.NewDeposit(userID, amount, description)
	if err != nil {
		return nil, err
	}
	return s.applier.Apply(ctx, mv)
}

// Transfer resolves the recipient phone to a user and moves the money. The
// phone lookup happens outside the movement transaction; the engine locks the
// wallets and re-validates everything that matters under the lock.
func (s *MovementServiceImpl) Transfer(ctx context.Context, userID uuid.UUID, recipientPhone string, amount int64, description string) (*engine.Result, error) {
	recipient, err := s.resolver.ResolveByPhone(ctx, recipientPhone)
	if err != nil {
		return nil, err
	}

	mv, err := engine.NewTransfer(userID, recipient.ID, amount, description)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Resolved transfer recipient", "recipient_id", recipient.ID.String())
	return s.applier.Apply(ctx, mv)
}
