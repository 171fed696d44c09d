// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RoleNameUser is the role auto-assigned at registration when the caller
// does not specify one. Its absence is tolerated for bootstrap scenarios.
const RoleNameUser = "user"

// RoleNameAdmin gates the management endpoints (users, roles, permissions).
const RoleNameAdmin = "admin"

// Role is a named bundle of permissions assignable to users.
// A role cannot be deleted while any user still references it.
type Role struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"` // Unique.
	Description string        `json:"description,omitempty"`
	Permissions []*Permission `json:"permissions,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
