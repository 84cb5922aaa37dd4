package ports

import (
	"context"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// CredentialStore defines the interface for durable identity persistence.
// Implementations must enforce username uniqueness at the storage layer
// (under domain.NormalizeUsername) and surface a violation from Create as
// domain.ErrUserExists: a prior Exists check alone cannot close the window
// between check and insert.
type CredentialStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
