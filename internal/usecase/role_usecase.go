package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateRoleInput defines the data required to create a role.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput carries partial updates for a role. Nil fields are left untouched.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleUsecase defines administration operations over roles.
type RoleUsecase interface {
	ListRoles(ctx context.Context) ([]*entity.Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error)
	CreateRole(ctx context.Context, input CreateRoleInput) (*entity.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*entity.Role, error)

	// DeleteRole removes a role. It fails while any user still references the
	// role, so assignments must be moved or cleared first.
	DeleteRole(ctx context.Context, id uuid.UUID) error
}
