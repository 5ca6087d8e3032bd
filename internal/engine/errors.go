package engine

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSelfTransfer          = errors.New("cannot transfer to your own wallet")
	ErrInvalidMovementAmount = errors.New("movement amount must be positive")
	ErrEngineClosed          = errors.New("movement engine is shut down")
)

// PostgreSQL error codes that indicate a transient locking conflict. A
// movement failing with one of these left no trace in the store and is safe
// to retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsRetryable reports whether the movement failed due to a transient store
// conflict rather than a business rule.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
