// Package token implements the TokenIssuer port with HS256 JWTs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

// DefaultTTL bounds token lifetime when no explicit TTL is configured.
const DefaultTTL = 2 * time.Hour

// Issuer signs and verifies bearer tokens with a symmetric key. Issue and
// Decode are pure: they depend only on the immutable secret and the time
// passed by the caller.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer fails on an empty secret. Callers treat that as a configuration
// error and refuse to start rather than issue weakly-signed tokens.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token carrying the user's id, username and first role by
// assignment order. A single role claim is all route enforcement gets, even
// for multi-role accounts.
func (i *Issuer) Issue(user *domain.User, roles []domain.Role, now time.Time) (string, error) {
	role := ""
	if len(roles) > 0 {
		role = roles[0].Name
	}

	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     role,
		"exp":      now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Decode validates signature, expiry and claim structure. All failure modes
// collapse into domain.ErrInvalidToken so callers cannot distinguish them.
func (i *Issuer) Decode(token string, now time.Time) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if id == "" || username == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{UserID: id, Username: username, Role: role}, nil
}
