// Package password implements the PasswordHasher port with bcrypt.
//
// bcrypt digests are self-describing: they embed the salt and the cost
// factor, so Verify needs no configuration beyond the digest itself.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. The cost is fixed at
// deployment time; values outside bcrypt's supported range fall back to the
// library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify compares in constant time. A malformed digest is a verification
// failure, never an error.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
