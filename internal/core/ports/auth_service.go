package ports

import (
	"context"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token   string
	User    *domain.User
	Message string
}

type AuthService interface {
	Register(ctx context.Context, username, password, displayName, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
