package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/paywave-wallet-ledger/internal/domain/profile"
	"github.com/paywave-wallet-ledger/internal/platform/persistence"
)

// ProfileRepository implements the profile.Resolver interface for PostgreSQL
type ProfileRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(logger *slog.Logger, db *persistence.PostgresDB) profile.Resolver {
	return &ProfileRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// ResolveByPhone looks up a profile by its registered phone number
func (r *ProfileRepository) ResolveByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	query := `
		SELECT id, phone, full_name, created_at
		FROM profiles
		WHERE phone = $1
	`

	var p profile.Profile
	err := r.querier.QueryRow(ctx, query, phone).Scan(
		&p.ID,
		&p.Phone,
		&p.FullName,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound{Phone: phone}
		}
		r.logger.Error("Failed to resolve profile by phone", "error", err)
		return nil, fmt.Errorf("failed to resolve profile by phone: %w", err)
	}

	return &p, nil
}
