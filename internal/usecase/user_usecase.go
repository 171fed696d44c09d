package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateUserInput carries partial updates for a user record. Nil fields are
// left untouched.
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Password *string
	RoleID   *uuid.UUID
}

// UserUsecase defines administration operations over user accounts.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]*entity.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*entity.User, error)
	ActivateUser(ctx context.Context, id uuid.UUID) error
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
