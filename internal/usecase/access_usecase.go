package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// AccessUsecase answers authorization questions about a user. A user's
// effective permission set is the union of the role's permissions and any
// direct grants; deactivated users hold no permissions at all.
type AccessUsecase interface {
	// EffectivePermissions returns the deduplicated union of role and direct
	// permissions, ordered by name.
	EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error)

	// HasPermission reports whether the user's effective set covers the
	// resource/action pair.
	HasPermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error)

	// HasAnyRole reports whether the user's role name is in the allow-list.
	HasAnyRole(ctx context.Context, userID uuid.UUID, roleNames ...string) (bool, error)
}
