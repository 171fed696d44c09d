package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when no usable refresh token matches.
	// Expired and revoked tokens are treated identically to absent ones.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// RefreshTokenRepository is the revocable session ledger. Rows are marked
// revoked rather than deleted so that logout and post-reset containment can
// be audited; expired rows are filtered at read time, never purged eagerly.
type RefreshTokenRepository interface {
	// Create persists a new refresh token, representing a user session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindActiveByToken retrieves the unrevoked row matching the exact token
	// string. Returns ErrRefreshTokenNotFound if the row is absent, revoked,
	// or past its expiry.
	FindActiveByToken(ctx context.Context, token string) (*entity.RefreshToken, error)

	// Revoke marks the single row matching the token string revoked and
	// returns the number of rows affected. Zero means the token never
	// existed or was already revoked.
	Revoke(ctx context.Context, token string) (int64, error)

	// RevokeAllByUserID marks every row for the user revoked, irrespective of
	// prior state or expiry. Used by password-reset completion as a security
	// containment measure.
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error

	// FindByUserID retrieves all usable (unrevoked, unexpired) tokens for a
	// user, newest first. Supports multi-device session listing.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// CountActiveByUserID returns the number of usable sessions for a user.
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes rows whose expiry has passed. Housekeeping only;
	// correctness never depends on it running.
	DeleteExpired(ctx context.Context) error
}
