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
	"gorm.io/gorm/clause"
)

// roleRepository implements the domain.RoleRepository interface.
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

// FindByID retrieves a single role by ID with its permissions preloaded.
func (repo *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	var roleM model.RoleModel

	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", id).
		First(&roleM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by id")
	}

	return toRoleDomain(&roleM), nil
}

// FindByName retrieves a single role by its unique name.
func (repo *roleRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	var roleM model.RoleModel

	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&roleM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by name")
	}

	return toRoleDomain(&roleM), nil
}

// List retrieves all roles ordered by name.
func (repo *roleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	var roleModels []*model.RoleModel

	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&roleModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}

	roles := make([]*entity.Role, 0, len(roleModels))
	for _, roleM := range roleModels {
		roles = append(roles, toRoleDomain(roleM))
	}

	return roles, nil
}

// Create persists a new role.
func (repo *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateRoleName
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create role")
	}

	role.ID = roleM.ID
	role.CreatedAt = roleM.CreatedAt
	role.UpdatedAt = roleM.UpdatedAt

	return nil
}

// Update modifies an existing role.
func (repo *roleRepository) Update(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Save(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateRoleName
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update role")
	}

	role.UpdatedAt = roleM.UpdatedAt

	return nil
}

// Delete removes the role record. The service layer checks for referencing
// users first; users.role_id is ON DELETE SET NULL so the constraint never
// fires for that path, and role_permissions rows cascade away.
func (repo *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RoleModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRoleNotFound
	}

	return nil
}

// toRoleDomain converts a GORM RoleModel to a domain Role entity.
func toRoleDomain(data *model.RoleModel) *entity.Role {
	if data == nil {
		return nil
	}

	return &entity.Role{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Permissions: toPermissionDomainSlice(data.Permissions),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromRoleDomain converts a domain Role entity to a GORM RoleModel for persistence.
func fromRoleDomain(data *entity.Role) *model.RoleModel {
	if data == nil {
		return nil
	}

	return &model.RoleModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
