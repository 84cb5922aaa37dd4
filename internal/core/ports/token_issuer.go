package ports

import (
	"time"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// TokenClaims is the decoded content of a bearer token. Role carries a
// single value: the user's first role by assignment order.
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
}

// TokenIssuer builds and verifies signed, time-bounded bearer tokens.
// Both operations are pure and safe for concurrent use.
type TokenIssuer interface {
	Issue(user *domain.User, roles []domain.Role, now time.Time) (string, error)
	// Decode rejects bad signatures, expired tokens and malformed claims
	// uniformly with domain.ErrInvalidToken.
	Decode(token string, now time.Time) (*TokenClaims, error)
}
