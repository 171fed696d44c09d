package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleModel mirrors the 'roles' table. Role names are unique across the system.
type RoleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);unique;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Permissions []*PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}

// RolePermissionModel mirrors the 'role_permissions' join table. Each pair is unique.
type RolePermissionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoleID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_permissions_pair"`
	PermissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_permissions_pair"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}
