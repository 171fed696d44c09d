// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when the unique email constraint rejects a write.
// The service layer pre-checks for duplicates, but the constraint is the
// authority: a concurrent insert between check and insert surfaces here.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines the standard operations for user persistence.
// Reads preload the role association so authorization can compare role names
// without a second round trip.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their case-normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List retrieves all users ordered by creation time, newest first.
	List(ctx context.Context) ([]*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the stored password hash for the user.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetActive flips the active flag for the user.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Delete removes the user record.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByRoleID returns how many users reference the given role.
	// Role deletion is blocked while this is non-zero.
	CountByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error)
}
