package ports

import "context"

// LoginThrottle limits repeated failed login attempts per username.
type LoginThrottle interface {
	// Blocked reports whether the account has exhausted its attempt budget.
	Blocked(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt within the current window.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
