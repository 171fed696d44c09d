package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type discriminators. The reset discriminator exists so that an
// access or refresh token can never be replayed as a reset credential.
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypePasswordReset = "password-reset"
)

// Verification errors. Expiry is distinguished from structural/signature
// failure so callers can report the precise cause.
var (
	// ErrTokenInvalid is returned when the signature or structure is malformed.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims carries the verified payload of a signed token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Type   string
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded tokens.
// Verification is pure and stateless; only the refresh-token ledger adds
// revocation on top of it.
type TokenService interface {
	// GenerateAccessToken signs {sub, email, type:"access"} with a short expiry.
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)

	// GenerateRefreshToken signs {sub, type:"refresh"} with a long expiry.
	// The signed string doubles as the ledger key.
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// GeneratePasswordResetToken signs {sub, type:"password-reset"} with its own short expiry.
	GeneratePasswordResetToken(userID uuid.UUID) (string, error)

	// ValidateToken verifies signature and expiry and returns the claims.
	// Fails with ErrTokenExpired past expiry and ErrTokenInvalid otherwise.
	ValidateToken(tokenString string) (*Claims, error)

	// RefreshTokenDuration returns the configured lifetime of refresh tokens,
	// used by the ledger to stamp row expiry.
	RefreshTokenDuration() time.Duration
}
