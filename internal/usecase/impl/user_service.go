package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers retrieves all users, newest first.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}
		users = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser retrieves a single user with role and direct permissions preloaded.
func (srv *userService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByID(ctx, id)
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

// UpdateUser applies the non-nil fields of the input to the user record.
// A role change is validated against the roles table before it is written.
func (srv *userService) UpdateUser(ctx context.Context, id uuid.UUID, input usecase.UpdateUserInput) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		roleRepo := repoFactory.RoleRepo()

		found, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FullName != nil {
			found.FullName = strings.TrimSpace(*input.FullName)
		}
		if input.Email != nil {
			found.Email = normalizeEmail(*input.Email)
		}
		if input.Password != nil {
			hashed, err := srv.hasher.Hash(*input.Password)
			if err != nil {
				return errors.Wrap(err, "failed to hash password")
			}
			found.PasswordHash = hashed
		}
		if input.RoleID != nil {
			if _, err := roleRepo.FindByID(ctx, *input.RoleID); err != nil {
				if errors.Is(err, repository.ErrRoleNotFound) {
					return domainerrors.ErrRoleNotFound
				}

				return errors.Wrap(err, "failed to find role")
			}
			found.RoleID = input.RoleID
		}

		if err := userRepo.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailAlreadyRegistered
			}

			return errors.Wrap(err, "failed to update user")
		}
		user = found

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User update failed", slog.Any("user_id", id), slog.Any("error", err))

		return nil, err
	}

	return user, nil
}

// ActivateUser re-enables a deactivated account.
func (srv *userService) ActivateUser(ctx context.Context, id uuid.UUID) error {
	return srv.setActive(ctx, id, true)
}

// DeactivateUser disables an account. Existing sessions are revoked so the
// lockout takes effect at the next refresh rather than only at token expiry.
func (srv *userService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	return srv.setActive(ctx, id, false)
}

func (srv *userService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if user.IsActive == active {
			if active {
				return domainerrors.ErrConflict.WrapMessage("user is already active")
			}

			return domainerrors.ErrConflict.WrapMessage("user is already deactivated")
		}

		if err := userRepo.SetActive(ctx, id, active); err != nil {
			return errors.Wrap(err, "failed to update active flag")
		}

		if !active {
			if err := repoFactory.RefreshTokenRepo().RevokeAllByUserID(ctx, id); err != nil {
				return errors.Wrap(err, "failed to revoke sessions")
			}
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User activation change failed", slog.Any("user_id", id), slog.Bool("active", active), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("User activation changed", slog.Any("user_id", id), slog.Bool("active", active))

	return nil
}

// DeleteUser removes the account; its sessions, direct grants, and role
// reference go with it.
func (srv *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()
		userRepo := repoFactory.UserRepo()

		if err := refreshRepo.RevokeAllByUserID(ctx, id); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		if err := userRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to delete user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User deletion failed", slog.Any("user_id", id), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("User deleted", slog.Any("user_id", id))

	return nil
}
