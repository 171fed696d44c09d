package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for role persistence.
var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrDuplicateRoleName is returned when the unique role name constraint rejects a write.
	ErrDuplicateRoleName = errors.New("role name already exists")
)

// RoleRepository defines the standard operations for role persistence.
type RoleRepository interface {
	// FindByID retrieves a single role by ID, with its permissions preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Role, error)

	// FindByName retrieves a single role by its unique name.
	FindByName(ctx context.Context, name string) (*entity.Role, error)

	// List retrieves all roles ordered by name.
	List(ctx context.Context) ([]*entity.Role, error)

	// Create persists a new role.
	Create(ctx context.Context, role *entity.Role) error

	// Update modifies an existing role.
	Update(ctx context.Context, role *entity.Role) error

	// Delete removes the role record. Callers must ensure no user still
	// references the role; the foreign key is the final guard.
	Delete(ctx context.Context, id uuid.UUID) error
}
