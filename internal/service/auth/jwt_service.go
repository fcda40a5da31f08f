package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the identity and
	// permission flags of claims. IssuedAt, ExpiresAt and ID are assigned by
	// the service; any values set by the caller are ignored.
	GenerateToken(ctx context.Context, claims Claims) (string, error)

	// ValidateToken verifies the signature, algorithm and expiry of tokenString
	// and returns the decoded claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for
	// anything else that fails verification.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the fixed set of facts a token asserts about its bearer.
type Claims struct {
	// Username is carried as the JWT subject.
	Username string `json:"sub"`

	// UserID is the numeric id of the user the token was issued for.
	UserID int64 `json:"id"`

	IsAdmin  bool `json:"is_admin"`
	IsActive bool `json:"is_active"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
