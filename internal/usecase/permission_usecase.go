package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePermissionInput defines the data required to create a permission.
type CreatePermissionInput struct {
	Name        string
	Description string
	Resource    string
	Action      string
}

// UpdatePermissionInput carries partial updates for a permission. Nil fields
// are left untouched.
type UpdatePermissionInput struct {
	Name        *string
	Description *string
	Resource    *string
	Action      *string
}

// PermissionUsecase defines administration operations over permissions and
// their assignment to roles and individual users.
type PermissionUsecase interface {
	ListPermissions(ctx context.Context) ([]*entity.Permission, error)
	GetPermission(ctx context.Context, id uuid.UUID) (*entity.Permission, error)
	CreatePermission(ctx context.Context, input CreatePermissionInput) (*entity.Permission, error)
	UpdatePermission(ctx context.Context, id uuid.UUID, input UpdatePermissionInput) (*entity.Permission, error)
	DeletePermission(ctx context.Context, id uuid.UUID) error

	GrantToRole(ctx context.Context, roleID, permissionID uuid.UUID) error
	RevokeFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error
	GrantToUser(ctx context.Context, userID, permissionID uuid.UUID) error
	RevokeFromUser(ctx context.Context, userID, permissionID uuid.UUID) error

	ListForRole(ctx context.Context, roleID uuid.UUID) ([]*entity.Permission, error)
	ListDirectForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error)
}
