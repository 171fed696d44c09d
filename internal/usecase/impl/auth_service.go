// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	tokenSvc  service.TokenService
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	txManager repository.TransactionManager,
	tokenSvc service.TokenService,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		txManager: txManager,
		tokenSvc:  tokenSvc,
		hasher:    hasher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizeEmail trims whitespace and lowercases so lookups and the unique
// constraint agree on one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new active account. An explicit role choice must exist;
// without one the default role is attached when present.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Registering new account", slog.String("email", email))

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var user *entity.User

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		roleRepo := repoFactory.RoleRepo()

		// 1. Reject duplicate emails up front; the unique constraint is the
		// backstop for concurrent registrations.
		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return domainerrors.ErrEmailAlreadyRegistered
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		// 2. An explicit role choice must exist. Without one, attach the
		// default role when it exists; a missing default role is tolerated so
		// registration works on a freshly seeded database.
		var roleID *uuid.UUID
		if input.RoleID != nil {
			if _, err := roleRepo.FindByID(ctx, *input.RoleID); err != nil {
				if errors.Is(err, repository.ErrRoleNotFound) {
					return domainerrors.ErrRoleNotFound
				}

				return errors.Wrap(err, "failed to look up role")
			}
			roleID = input.RoleID
		} else if role, err := roleRepo.FindByName(ctx, entity.RoleNameUser); err == nil {
			roleID = &role.ID
		} else if !errors.Is(err, repository.ErrRoleNotFound) {
			return errors.Wrap(err, "failed to look up default role")
		}

		user = &entity.User{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(input.FullName),
			RoleID:       roleID,
			IsActive:     true,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailAlreadyRegistered
			}

			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Account registered", slog.String("email", email), slog.Any("user_id", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// Login verifies credentials and opens a new session. Credential failures are
// indistinguishable between unknown email and wrong password; the account
// state check only runs after the password matched.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)

	var out *usecase.LoginOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		if !user.IsActive {
			return domainerrors.ErrAccountDeactivated
		}

		accessToken, err := srv.tokenSvc.GenerateAccessToken(user.ID, user.Email)
		if err != nil {
			return errors.Wrap(err, "failed to generate access token")
		}

		refreshToken, err := srv.tokenSvc.GenerateRefreshToken(user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to generate refresh token")
		}

		// Each login opens an independent session; concurrent sessions from
		// multiple devices are allowed and uncapped.
		session := &entity.RefreshToken{
			UserID:    user.ID,
			Token:     refreshToken,
			ExpiresAt: time.Now().Add(srv.tokenSvc.RefreshTokenDuration()),
		}
		if err := refreshRepo.Create(ctx, session); err != nil {
			return errors.Wrap(err, "failed to persist session")
		}

		out = &usecase.LoginOutput{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			User:         user,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Login succeeded", slog.Any("user_id", out.User.ID))

	return out, nil
}

// Refresh exchanges a ledgered refresh token for a new access token. The
// refresh token is not rotated. Validity is decided by the ledger alone, so
// revocation takes effect immediately.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	var out *usecase.RefreshOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		session, err := refreshRepo.FindActiveByToken(ctx, input.RefreshToken)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return errors.Wrap(err, "failed to look up refresh token")
		}

		user, err := userRepo.FindByID(ctx, session.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !user.IsActive {
			return domainerrors.ErrAccountDeactivated
		}

		accessToken, err := srv.tokenSvc.GenerateAccessToken(user.ID, user.Email)
		if err != nil {
			return errors.Wrap(err, "failed to generate access token")
		}

		out = &usecase.RefreshOutput{AccessToken: accessToken}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("error", err))

		return nil, err
	}

	return out, nil
}

// Logout revokes the presented refresh token. A token that never existed or
// was already revoked is reported as invalid rather than silently accepted.
func (srv *authService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		affected, err := repoFactory.RefreshTokenRepo().Revoke(ctx, input.RefreshToken)
		if err != nil {
			return errors.Wrap(err, "failed to revoke refresh token")
		}
		if affected == 0 {
			return domainerrors.ErrLogoutTokenInvalid
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Logout failed", slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Logout succeeded")

	return nil
}

// RequestPasswordReset issues a short-lived reset token for the account
// matching the email. The token is returned in the output until a mail
// transport exists to deliver it out of band.
func (srv *authService) RequestPasswordReset(ctx context.Context, email string) (*usecase.PasswordResetOutput, error) {
	email = normalizeEmail(email)

	var out *usecase.PasswordResetOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrEmailNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		resetToken, err := srv.tokenSvc.GeneratePasswordResetToken(user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to generate reset token")
		}

		out = &usecase.PasswordResetOutput{ResetToken: resetToken}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Password reset request failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Password reset token issued", slog.String("email", email))

	return out, nil
}

// ResetPassword validates a reset token, replaces the password, and revokes
// every open session for the user as a containment measure.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	claims, err := srv.tokenSvc.ValidateToken(input.Token)
	if err != nil {
		return domainerrors.ErrResetTokenInvalid
	}
	// A structurally valid token of any other type must not reset passwords.
	if claims.Type != service.TokenTypePasswordReset {
		return domainerrors.ErrResetTokenInvalid
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		user, err := userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrResetTokenInvalid
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		// Old sessions must not survive a password reset.
		if err := refreshRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Password reset completed", slog.Any("user_id", claims.UserID))

	return nil
}

// CurrentUser loads the authenticated user's profile with role and direct
// permissions preloaded.
func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// Sessions lists the caller's usable sessions, newest first. Revoked and
// expired ledger rows are filtered out by the repository.
func (srv *authService) Sessions(ctx context.Context, userID uuid.UUID) (*usecase.SessionsOutput, error) {
	var out *usecase.SessionsOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		sessions, err := refreshRepo.FindByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list sessions")
		}

		count, err := refreshRepo.CountActiveByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count sessions")
		}

		out = &usecase.SessionsOutput{Sessions: sessions, ActiveCount: count}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
