// Package bootstrap performs idempotent first-run seeding: the built-in
// roles always exist, and an initial administrator account is created when
// the store is empty and credentials are configured.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

// Seeder provisions roles and the first admin account at startup.
type Seeder struct {
	auth  ports.AuthService
	roles ports.RoleRegistry
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewSeeder(auth ports.AuthService, roles ports.RoleRegistry, store ports.CredentialStore, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, roles: roles, store: store, log: log}
}

// Seed is safe to run on every startup and from multiple instances at once:
// role creation is find-or-create, and a concurrent admin registration
// resolves through the store's uniqueness gate.
func (s *Seeder) Seed(ctx context.Context, adminUsername, adminPassword, adminDisplayName string) error {
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		if _, err := s.roles.EnsureRole(ctx, name); err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}

	if adminPassword == "" {
		s.log.Debug().Msg("no admin password configured, skipping admin seeding")
		return nil
	}

	exists, err := s.store.Exists(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if exists {
		return nil
	}

	_, err = s.auth.Register(ctx, adminUsername, adminPassword, adminDisplayName, domain.RoleAdmin)
	if err != nil {
		// Another instance won the race; its admin is as good as ours.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed admin account: %w", err)
	}

	s.log.Info().Str("username", adminUsername).Msg("seeded initial admin account")
	return nil
}
