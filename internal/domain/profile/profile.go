// Package profile models the user directory the wallet system resolves
// transfer recipients against. The directory itself is owned by the identity
// platform; this service only reads it.
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is a registered user as seen by the wallet system.
// Phone is stored in canonical E.164 form, the same form the transfer
// endpoint accepts, so recipient lookup is a plain equality match.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Resolver maps a recipient phone number to a user id
type Resolver interface {
	ResolveByPhone(ctx context.Context, phone string) (*Profile, error)
}

// ErrProfileNotFound indicates no user is registered with a phone number
type ErrProfileNotFound struct {
	Phone string
}

func (e ErrProfileNotFound) Error() string {
	return "no profile registered for phone: " + e.Phone
}

// Is implements the errors.Is interface for ErrProfileNotFound
func (e ErrProfileNotFound) Is(target error) bool {
	t, ok := target.(ErrProfileNotFound)
	if !ok {
		return false
	}
	if t.Phone == "" {
		return true
	}
	return e.Phone == t.Phone
}
