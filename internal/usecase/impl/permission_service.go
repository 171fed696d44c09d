package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// permissionService implements the PermissionUsecase interface.
type permissionService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewPermissionService is the constructor for permissionService.
func NewPermissionService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.PermissionUsecase {
	return &permissionService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *permissionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPermissions retrieves all permissions ordered by name.
func (srv *permissionService) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	var perms []*entity.Permission

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.PermissionRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list permissions")
		}
		perms = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return perms, nil
}

// GetPermission retrieves a single permission.
func (srv *permissionService) GetPermission(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	var perm *entity.Permission

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.PermissionRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return domainerrors.ErrPermissionNotFound
			}

			return errors.Wrap(err, "failed to find permission")
		}
		perm = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return perm, nil
}

// CreatePermission creates a new permission with a unique name.
func (srv *permissionService) CreatePermission(ctx context.Context, input usecase.CreatePermissionInput) (*entity.Permission, error) {
	perm := &entity.Permission{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Resource:    strings.TrimSpace(input.Resource),
		Action:      strings.TrimSpace(input.Action),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PermissionRepo().Create(ctx, perm); err != nil {
			if errors.Is(err, repository.ErrDuplicatePermission) {
				return domainerrors.ErrPermissionNameTaken
			}

			return errors.Wrap(err, "failed to create permission")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Permission creation failed", slog.String("name", perm.Name), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Permission created", slog.String("name", perm.Name), slog.Any("permission_id", perm.ID))

	return perm, nil
}

// UpdatePermission applies the non-nil fields of the input to the permission.
func (srv *permissionService) UpdatePermission(ctx context.Context, id uuid.UUID, input usecase.UpdatePermissionInput) (*entity.Permission, error) {
	var perm *entity.Permission

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		permRepo := repoFactory.PermissionRepo()

		found, err := permRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return domainerrors.ErrPermissionNotFound
			}

			return errors.Wrap(err, "failed to find permission")
		}

		if input.Name != nil {
			found.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			found.Description = *input.Description
		}
		if input.Resource != nil {
			found.Resource = strings.TrimSpace(*input.Resource)
		}
		if input.Action != nil {
			found.Action = strings.TrimSpace(*input.Action)
		}

		if err := permRepo.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrDuplicatePermission) {
				return domainerrors.ErrPermissionNameTaken
			}

			return errors.Wrap(err, "failed to update permission")
		}
		perm = found

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Permission update failed", slog.Any("permission_id", id), slog.Any("error", err))

		return nil, err
	}

	return perm, nil
}

// DeletePermission removes the permission and all of its grants.
func (srv *permissionService) DeletePermission(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PermissionRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return domainerrors.ErrPermissionNotFound
			}

			return errors.Wrap(err, "failed to delete permission")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Permission deletion failed", slog.Any("permission_id", id), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Permission deleted", slog.Any("permission_id", id))

	return nil
}

// GrantToRole attaches a permission to a role.
func (srv *permissionService) GrantToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.RoleRepo().FindByID(ctx, roleID); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to find role")
		}
		if _, err := repoFactory.PermissionRepo().FindByID(ctx, permissionID); err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return domainerrors.ErrPermissionNotFound
			}

			return errors.Wrap(err, "failed to find permission")
		}

		if err := repoFactory.PermissionRepo().GrantToRole(ctx, roleID, permissionID); err != nil {
			if errors.Is(err, repository.ErrGrantExists) {
				return domainerrors.ErrPermissionAlreadyGranted
			}

			return errors.Wrap(err, "failed to grant permission to role")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role grant failed", slog.Any("role_id", roleID), slog.Any("permission_id", permissionID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Permission granted to role", slog.Any("role_id", roleID), slog.Any("permission_id", permissionID))

	return nil
}

// RevokeFromRole detaches a permission from a role.
func (srv *permissionService) RevokeFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PermissionRepo().RevokeFromRole(ctx, roleID, permissionID); err != nil {
			if errors.Is(err, repository.ErrGrantNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("permission is not granted to role")
			}

			return errors.Wrap(err, "failed to revoke permission from role")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role revoke failed", slog.Any("role_id", roleID), slog.Any("permission_id", permissionID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Permission revoked from role", slog.Any("role_id", roleID), slog.Any("permission_id", permissionID))

	return nil
}

// GrantToUser attaches a permission directly to a user, independent of role.
func (srv *permissionService) GrantToUser(ctx context.Context, userID, permissionID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}
		if _, err := repoFactory.PermissionRepo().FindByID(ctx, permissionID); err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return domainerrors.ErrPermissionNotFound
			}

			return errors.Wrap(err, "failed to find permission")
		}

		if err := repoFactory.PermissionRepo().GrantToUser(ctx, userID, permissionID); err != nil {
			if errors.Is(err, repository.ErrGrantExists) {
				return domainerrors.ErrPermissionAlreadyGranted
			}

			return errors.Wrap(err, "failed to grant permission to user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User grant failed", slog.Any("user_id", userID), slog.Any("permission_id", permissionID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Permission granted to user", slog.Any("user_id", userID), slog.Any("permission_id", permissionID))

	return nil
}

// RevokeFromUser removes a direct grant from a user. Role-derived permissions
// are unaffected; they can only be removed from the role itself.
func (srv *permissionService) RevokeFromUser(ctx context.Context, userID, permissionID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PermissionRepo().RevokeFromUser(ctx, userID, permissionID); err != nil {
			if errors.Is(err, repository.ErrGrantNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("permission is not granted to user")
			}

			return errors.Wrap(err, "failed to revoke permission from user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User revoke failed", slog.Any("user_id", userID), slog.Any("permission_id", permissionID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Permission revoked from user", slog.Any("user_id", userID), slog.Any("permission_id", permissionID))

	return nil
}

// ListForRole retrieves all permissions attached to a role.
func (srv *permissionService) ListForRole(ctx context.Context, roleID uuid.UUID) ([]*entity.Permission, error) {
	var perms []*entity.Permission

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.RoleRepo().FindByID(ctx, roleID); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to find role")
		}

		found, err := repoFactory.PermissionRepo().FindByRoleID(ctx, roleID)
		if err != nil {
			return errors.Wrap(err, "failed to list role permissions")
		}
		perms = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return perms, nil
}

// ListDirectForUser retrieves the permissions granted directly to a user.
func (srv *permissionService) ListDirectForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error) {
	var perms []*entity.Permission

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		found, err := repoFactory.PermissionRepo().FindByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list user permissions")
		}
		perms = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return perms, nil
}
