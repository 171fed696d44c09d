package model

import (
	"time"

	"github.com/google/uuid"
)

// PermissionModel mirrors the 'permissions' table. The resource/action pair
// describes what the permission covers; the name is the stable identifier.
type PermissionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);unique;not null"`
	Description string    `gorm:"type:text"`
	Resource    string    `gorm:"type:varchar(100);not null"`
	Action      string    `gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PermissionModel) TableName() string {
	return "permissions"
}
