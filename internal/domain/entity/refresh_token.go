package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a persisted, individually revocable session credential.
// The signed token string itself is the ledger key: it is stored verbatim so
// that logout and post-reset revocation can match on the exact value the
// client presents. Revoked or expired rows are never purged eagerly; they are
// filtered at read time.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

// Usable reports whether the token is still valid at the given instant.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
