// Package auth verifies bearer tokens issued by the identity provider.
// Tokens are HS256 JWTs whose subject carries the user id; this service only
// verifies them and never issues its own.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/config"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrMissingSubject = errors.New("token subject is not a user id")
)

// TokenVerifier extracts the authenticated user id from a bearer token
type TokenVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// JWTVerifier verifies HS256 tokens against a shared secret
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(cfg *config.AuthConfig) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Verify parses and validates the token, returning the user id from its
// subject claim. Signature, expiry, and (when configured) issuer are all
// checked; any failure maps to ErrInvalidToken so callers cannot distinguish
// why a token was rejected.
func (v *JWTVerifier) Verify(tokenString string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrMissingSubject
	}

	return userID, nil
}
