package ports

import (
	"context"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// UserService exposes read-only account lookups for administrative routes.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
