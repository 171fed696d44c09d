package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for permission persistence.
var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrDuplicatePermission is returned when the unique name constraint rejects a write.
	ErrDuplicatePermission = errors.New("permission name already exists")
	// ErrGrantExists is returned when a role/user already holds the permission.
	// The join tables are unique on their (owner, permission) pair.
	ErrGrantExists = errors.New("permission grant already exists")
	// ErrGrantNotFound is returned when revoking a grant that does not exist.
	ErrGrantNotFound = errors.New("permission grant not found")
)

// PermissionRepository defines operations for permissions and their
// role/user associations. Associations are plain join rows, not inheritance.
type PermissionRepository interface {
	// FindByID retrieves a single permission by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error)

	// FindByName retrieves a single permission by its unique name.
	FindByName(ctx context.Context, name string) (*entity.Permission, error)

	// List retrieves all permissions ordered by name.
	List(ctx context.Context) ([]*entity.Permission, error)

	// Create persists a new permission.
	Create(ctx context.Context, permission *entity.Permission) error

	// Update modifies an existing permission.
	Update(ctx context.Context, permission *entity.Permission) error

	// Delete removes the permission and cascades its join rows.
	Delete(ctx context.Context, id uuid.UUID) error

	// GrantToRole inserts a (roleID, permissionID) join row.
	GrantToRole(ctx context.Context, roleID, permissionID uuid.UUID) error

	// RevokeFromRole deletes the (roleID, permissionID) join row.
	RevokeFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error

	// GrantToUser inserts a (userID, permissionID) join row for a direct grant.
	GrantToUser(ctx context.Context, userID, permissionID uuid.UUID) error

	// RevokeFromUser deletes the (userID, permissionID) join row.
	RevokeFromUser(ctx context.Context, userID, permissionID uuid.UUID) error

	// FindByRoleID retrieves all permissions attached to the role.
	FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]*entity.Permission, error)

	// FindByUserID retrieves the permissions granted directly to the user,
	// excluding those inherited through the role.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error)
}
