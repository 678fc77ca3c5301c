package services

import "github.com/localnerve/unilib/internal/models"

// Scope is the capability object carried by every core operation. It pins
// the caller's identity and university, making tenant scoping structurally
// unavoidable: a service function without a Scope cannot query tenant data.
type Scope struct {
	UserID       string
	Email        string
	Role         string
	UniversityID string
}

// IsAdmin reports whether the caller holds the Admin role
func (s Scope) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Who returns a display name for activity messages
func (s Scope) Who() string {
	if s.Email != "" {
		return s.Email
	}
	return "A student"
}
