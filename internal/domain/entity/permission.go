package entity

import (
	"time"

	"github.com/google/uuid"
)

// Permission is an atomic capability described by a (resource, action) pair,
// e.g. ("users", "delete"). Permissions attach to roles and, for exceptional
// grants, directly to users; the effective set of a principal is the union.
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"` // Unique, conventionally "<resource>:<action>".
	Description string    `json:"description,omitempty"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Matches reports whether the permission covers the given resource/action pair.
func (p *Permission) Matches(resource, action string) bool {
	return p.Resource == resource && p.Action == action
}
