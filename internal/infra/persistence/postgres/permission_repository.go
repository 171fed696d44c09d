package postgres

import (
	"context"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// permissionRepository implements the domain.PermissionRepository interface.
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository is the constructor for permissionRepository.
func NewPermissionRepository(db *gorm.DB) repository.PermissionRepository {
	return &permissionRepository{db: db}
}

// FindByID retrieves a single permission by ID.
func (repo *permissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	var permM model.PermissionModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&permM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPermissionNotFound
		}

		return nil, errors.Wrap(err, "failed to find permission by id")
	}

	return toPermissionDomain(&permM), nil
}

// FindByName retrieves a single permission by its unique name.
func (repo *permissionRepository) FindByName(ctx context.Context, name string) (*entity.Permission, error) {
	var permM model.PermissionModel

	err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&permM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPermissionNotFound
		}

		return nil, errors.Wrap(err, "failed to find permission by name")
	}

	return toPermissionDomain(&permM), nil
}

// List retrieves all permissions ordered by name.
func (repo *permissionRepository) List(ctx context.Context) ([]*entity.Permission, error) {
	var permModels []*model.PermissionModel

	err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&permModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list permissions")
	}

	return toPermissionDomainSlice(permModels), nil
}

// Create persists a new permission.
func (repo *permissionRepository) Create(ctx context.Context, permission *entity.Permission) error {
	permM := fromPermissionDomain(permission)

	if err := repo.db.WithContext(ctx).Create(permM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePermission
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create permission")
	}

	permission.ID = permM.ID
	permission.CreatedAt = permM.CreatedAt
	permission.UpdatedAt = permM.UpdatedAt

	return nil
}

// Update modifies an existing permission.
func (repo *permissionRepository) Update(ctx context.Context, permission *entity.Permission) error {
	permM := fromPermissionDomain(permission)

	if err := repo.db.WithContext(ctx).Save(permM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePermission
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update permission")
	}

	permission.UpdatedAt = permM.UpdatedAt

	return nil
}

// Delete removes the permission record; join rows cascade away.
func (repo *permissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PermissionModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete permission")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPermissionNotFound
	}

	return nil
}

// GrantToRole inserts a (roleID, permissionID) join row.
func (repo *permissionRepository) GrantToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	grant := &model.RolePermissionModel{
		RoleID:       roleID,
		PermissionID: permissionID,
	}

	if err := repo.db.WithContext(ctx).Create(grant).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrGrantExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPermissionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to grant permission to role")
	}

	return nil
}

// RevokeFromRole deletes the (roleID, permissionID) join row.
func (repo *permissionRepository) RevokeFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&model.RolePermissionModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to revoke permission from role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrGrantNotFound
	}

	return nil
}

// GrantToUser inserts a (userID, permissionID) join row for a direct grant.
func (repo *permissionRepository) GrantToUser(ctx context.Context, userID, permissionID uuid.UUID) error {
	grant := &model.UserPermissionModel{
		UserID:       userID,
		PermissionID: permissionID,
	}

	if err := repo.db.WithContext(ctx).Create(grant).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrGrantExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPermissionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to grant permission to user")
	}

	return nil
}

// RevokeFromUser deletes the (userID, permissionID) join row.
func (repo *permissionRepository) RevokeFromUser(ctx context.Context, userID, permissionID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&model.UserPermissionModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to revoke permission from user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrGrantNotFound
	}

	return nil
}

// FindByRoleID retrieves all permissions attached to the role.
func (repo *permissionRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]*entity.Permission, error) {
	var permModels []*model.PermissionModel

	err := repo.db.WithContext(ctx).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Find(&permModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find permissions by role")
	}

	return toPermissionDomainSlice(permModels), nil
}

// FindByUserID retrieves the permissions granted directly to the user.
func (repo *permissionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Permission, error) {
	var permModels []*model.PermissionModel

	err := repo.db.WithContext(ctx).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.name ASC").
		Find(&permModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find permissions by user")
	}

	return toPermissionDomainSlice(permModels), nil
}

// toPermissionDomain converts a GORM PermissionModel to a domain Permission entity.
func toPermissionDomain(data *model.PermissionModel) *entity.Permission {
	if data == nil {
		return nil
	}

	return &entity.Permission{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Resource:    data.Resource,
		Action:      data.Action,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// toPermissionDomainSlice maps a slice of permission models to domain entities.
func toPermissionDomainSlice(data []*model.PermissionModel) []*entity.Permission {
	perms := make([]*entity.Permission, 0, len(data))
	for _, permM := range data {
		perms = append(perms, toPermissionDomain(permM))
	}

	return perms
}

// fromPermissionDomain converts a domain Permission entity to a GORM PermissionModel.
func fromPermissionDomain(data *entity.Permission) *model.PermissionModel {
	if data == nil {
		return nil
	}

	return &model.PermissionModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Resource:    data.Resource,
		Action:      data.Action,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
