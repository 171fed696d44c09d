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

// roleService implements the RoleUsecase interface.
type roleService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewRoleService is the constructor for roleService.
func NewRoleService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.RoleUsecase {
	return &roleService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *roleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListRoles retrieves all roles with their permissions.
func (srv *roleService) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	var roles []*entity.Role

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.RoleRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list roles")
		}
		roles = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return roles, nil
}

// GetRole retrieves a single role with its permissions.
func (srv *roleService) GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	var role *entity.Role

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.RoleRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to find role")
		}
		role = found

		return nil
	})

	if err != nil {
		return nil, err
	}

	return role, nil
}

// CreateRole creates a new role with a unique name.
func (srv *roleService) CreateRole(ctx context.Context, input usecase.CreateRoleInput) (*entity.Role, error) {
	role := &entity.Role{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RoleRepo().Create(ctx, role); err != nil {
			if errors.Is(err, repository.ErrDuplicateRoleName) {
				return domainerrors.ErrRoleNameTaken
			}

			return errors.Wrap(err, "failed to create role")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role creation failed", slog.String("name", role.Name), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Role created", slog.String("name", role.Name), slog.Any("role_id", role.ID))

	return role, nil
}

// UpdateRole applies the non-nil fields of the input to the role.
func (srv *roleService) UpdateRole(ctx context.Context, id uuid.UUID, input usecase.UpdateRoleInput) (*entity.Role, error) {
	var role *entity.Role

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		roleRepo := repoFactory.RoleRepo()

		found, err := roleRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to find role")
		}

		if input.Name != nil {
			found.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			found.Description = *input.Description
		}

		if err := roleRepo.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrDuplicateRoleName) {
				return domainerrors.ErrRoleNameTaken
			}

			return errors.Wrap(err, "failed to update role")
		}
		role = found

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role update failed", slog.Any("role_id", id), slog.Any("error", err))

		return nil, err
	}

	return role, nil
}

// DeleteRole removes a role. Deletion is blocked while any user still holds
// the role; the reference count and the delete run in one transaction so a
// concurrent assignment cannot slip between them.
func (srv *roleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		roleRepo := repoFactory.RoleRepo()
		userRepo := repoFactory.UserRepo()

		if _, err := roleRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to find role")
		}

		count, err := userRepo.CountByRoleID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count role assignments")
		}
		if count > 0 {
			return domainerrors.ErrRoleInUse
		}

		if err := roleRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound
			}

			return errors.Wrap(err, "failed to delete role")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role deletion failed", slog.Any("role_id", id), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Role deleted", slog.Any("role_id", id))

	return nil
}
