package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

const loginSuccessMessage = "user logged in successfully"

// AuthService orchestrates registration and login over the credential
// store, role registry, password hasher and token issuer.
type AuthService struct {
	store    ports.CredentialStore
	roles    ports.RoleRegistry
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the identity collaborators. throttle and audit may be
// nil to disable failed-login limiting and audit recording respectively.
func NewAuthService(
	store ports.CredentialStore,
	roles ports.RoleRegistry,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	throttle ports.LoginThrottle,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		roles:    roles,
		hasher:   hasher,
		issuer:   issuer,
		throttle: throttle,
		audit:    audit,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// record hands an audit event to the sink, if one is configured.
func (s *AuthService) record(username, action, result string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{
		Username: username,
		Action:   action,
		Result:   result,
		At:       s.now(),
	})
}

// Register creates an identity with at least one role and returns the
// profile. The password hash never leaves the domain layer; DTO mapping
// strips it before any response.
func (s *AuthService) Register(ctx context.Context, username, password, displayName, role string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	// Fast path only. The unique index behind Create is what actually
	// closes the check-then-insert race.
	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(username, ports.AuditActionRegister, "duplicate")
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	roleName := strings.TrimSpace(role)
	if roleName == "" {
		roleName = domain.DefaultRoleName
	}
	if _, err := s.roles.EnsureRole(ctx, roleName); err != nil {
		return nil, s.roleFailure(created, roleName, err)
	}
	if err := s.roles.AssignRole(ctx, created.ID, roleName); err != nil {
		return nil, s.roleFailure(created, roleName, err)
	}

	s.record(created.Username, ports.AuditActionRegister, "created")
	return created, nil
}

// roleFailure reports a role bootstrap problem without rolling back the
// created identity: a roleless account beats a half-applied rollback. The
// caller sees a failure and can recover by logging in, not re-registering.
func (s *AuthService) roleFailure(user *domain.User, roleName string, err error) error {
	s.log.Error().
		Err(err).
		Str("user_id", user.ID).
		Str("role", roleName).
		Msg("role bootstrap failed after identity creation")
	return fmt.Errorf("%w: %v", domain.ErrRoleAssignment, err)
}

// Login verifies credentials and returns a signed token with the profile.
// An unknown username and a wrong password produce the same error value, so
// responses cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			return nil, err
		}
		if blocked {
			s.record(username, ports.AuditActionLogin, "throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.rejectLogin(ctx, username)
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.rejectLogin(ctx, username)
	}

	roles, err := s.roles.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user, roles, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	s.record(user.Username, ports.AuditActionLogin, "success")
	return &ports.LoginResult{Token: token, User: user, Message: loginSuccessMessage}, nil
}

func (s *AuthService) rejectLogin(ctx context.Context, username string) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login throttle record failed")
		}
	}
	s.record(username, ports.AuditActionLogin, "rejected")
	return domain.ErrInvalidCredentials
}
