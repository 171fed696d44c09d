// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// RoleID is optional; when nil the default role is attached instead.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	RoleID   *uuid.UUID
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the signed refresh token presented by the client.
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token whose session should end.
type LogoutInput struct {
	RefreshToken string
}

// ResetPasswordInput carries a password-reset token and the replacement password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns a fresh access token. The refresh token itself is
// not rotated; it stays valid until logout, reset, or expiry.
type RefreshOutput struct {
	AccessToken string
}

// PasswordResetOutput returns the reset token directly. Without a mail
// transport the token is handed back in the response body.
type PasswordResetOutput struct {
	ResetToken string
}

// SessionsOutput lists a user's usable sessions, newest first.
type SessionsOutput struct {
	Sessions    []*entity.RefreshToken
	ActiveCount int64
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshOutput, error)
	Logout(ctx context.Context, input LogoutInput) error
	RequestPasswordReset(ctx context.Context, email string) (*PasswordResetOutput, error)
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	Sessions(ctx context.Context, userID uuid.UUID) (*SessionsOutput, error)
}
