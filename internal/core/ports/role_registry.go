package ports

import (
	"context"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// RoleRegistry defines role definitions and identity-to-role assignment.
type RoleRegistry interface {
	// EnsureRole has find-or-create semantics: concurrent callers ensuring
	// the same (normalized) name converge on a single canonical Role.
	EnsureRole(ctx context.Context, name string) (*domain.Role, error)
	// AssignRole attaches a role to a user; assigning an already-held role
	// is a no-op success.
	AssignRole(ctx context.Context, userID, roleName string) error
	// RolesOf returns the user's roles ordered by assignment time. The
	// order only decides which role ends up in the token claim.
	RolesOf(ctx context.Context, userID string) ([]domain.Role, error)
}
