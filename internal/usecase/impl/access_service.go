package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// accessService implements the AccessUsecase interface.
type accessService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewAccessService is the constructor for accessService.
func NewAccessService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.AccessUsecase {
	return &accessService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *accessService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// EffectivePermissions computes the union of role permissions and direct
// grants, deduplicated by permission ID and ordered by name. A deactivated
// user holds no permissions regardless of what is stored.
func (srv *accessService) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error) {
	user, err := srv.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return []*entity.Permission{}, nil
	}

	seen := make(map[uuid.UUID]struct{})
	perms := make([]*entity.Permission, 0)

	if user.Role != nil {
		for _, perm := range user.Role.Permissions {
			if _, ok := seen[perm.ID]; ok {
				continue
			}
			seen[perm.ID] = struct{}{}
			perms = append(perms, perm)
		}
	}
	for _, perm := range user.Permissions {
		if _, ok := seen[perm.ID]; ok {
			continue
		}
		seen[perm.ID] = struct{}{}
		perms = append(perms, perm)
	}

	sort.Slice(perms, func(i, j int) bool {
		return perms[i].Name < perms[j].Name
	})

	return perms, nil
}

// HasPermission reports whether the user's effective set covers the
// resource/action pair.
func (srv *accessService) HasPermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error) {
	perms, err := srv.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, perm := range perms {
		if perm.Matches(resource, action) {
			return true, nil
		}
	}

	return false, nil
}

// HasAnyRole reports whether the user's role name appears in the allow-list.
// A user without a role matches nothing; deactivated users match nothing.
func (srv *accessService) HasAnyRole(ctx context.Context, userID uuid.UUID, roleNames ...string) (bool, error) {
	user, err := srv.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	if !user.IsActive {
		return false, nil
	}

	roleName := user.RoleName()
	if roleName == "" {
		return false, nil
	}

	for _, name := range roleNames {
		if roleName == name {
			return true, nil
		}
	}

	return false, nil
}

func (srv *accessService) loadUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
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
		srv.log(ctx).Debug("Access lookup failed", slog.Any("user_id", userID), slog.Any("error", err))

		return nil, err
	}

	return user, nil
}
