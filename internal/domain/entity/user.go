// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the central identity record. The password hash never leaves the
// persistence boundary in API responses, hence the json:"-" tag.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"` // Stored case-normalized (lowercase).
	PasswordHash string        `json:"-"`
	FullName     string        `json:"fullName"`
	RoleID       *uuid.UUID    `json:"roleId,omitempty"` // Nullable; a user may exist without a role during bootstrap.
	Role         *Role         `json:"role,omitempty"`
	Permissions  []*Permission `json:"permissions,omitempty"` // Permissions granted directly to this user.
	IsActive     bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// RoleName returns the name of the user's role, or "" when no role is assigned.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}

	return u.Role.Name
}
