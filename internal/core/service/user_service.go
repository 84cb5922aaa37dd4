package service

import (
	"context"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

// UserService serves administrative account lookups.
type UserService struct {
	store ports.CredentialStore
}

func NewUserService(store ports.CredentialStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.store.FindByID(ctx, id)
}

// ListUsers returns all accounts ordered by username.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.List(ctx)
}
