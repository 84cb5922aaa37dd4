package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models a registered account. PasswordHash is produced exclusively by
// the password hasher and never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeUsername is the canonical form used for every uniqueness check and
// lookup: usernames compare case-insensitively with surrounding whitespace
// ignored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
