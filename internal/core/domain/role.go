package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin       = "Admin"
	RoleUser        = "User"
	DefaultRoleName = RoleUser
)

var ErrRoleAssignment = errors.New("role assignment failed")

// Role is a named permission class. Name keeps the display form given on
// first creation; uniqueness is enforced on the normalized form.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeRole is the canonical form used for role uniqueness and for
// route-level role comparison.
func NormalizeRole(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
