package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string     `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string     `gorm:"column:password;type:varchar(255);not null"`
	FullName     string     `gorm:"type:varchar(255);not null"`
	RoleID       *uuid.UUID `gorm:"type:uuid"`
	IsActive     bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Role        *RoleModel         `gorm:"foreignKey:RoleID"`
	Permissions []*PermissionModel `gorm:"many2many:user_permissions;joinForeignKey:UserID;joinReferences:PermissionID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserPermissionModel mirrors the 'user_permissions' join table. Each pair is unique.
type UserPermissionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_permissions_pair"`
	PermissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_permissions_pair"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserPermissionModel) TableName() string {
	return "user_permissions"
}
