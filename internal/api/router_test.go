package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/service"
	"github.com/gerarics/ecommerce-api/internal/security/password"
	"github.com/gerarics/ecommerce-api/internal/security/token"
)

// memStore and memRoles back the end-to-end tests without a database; both
// enforce the same uniqueness and idempotency contracts as the mongo
// adapters.
type memStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*domain.User)}
}

func (s *memStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[domain.NormalizeUsername(username)]
	return ok, nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[domain.NormalizeUsername(username)]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeUsername(user.Username)
	if _, exists := s.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	s.users[key] = &clone
	out := clone
	return &out, nil
}

type memRoles struct {
	mu          sync.Mutex
	roles       map[string]*domain.Role
	assignments map[string][]string
}

func newMemRoles() *memRoles {
	return &memRoles{
		roles:       make(map[string]*domain.Role),
		assignments: make(map[string][]string),
	}
}

func (r *memRoles) EnsureRole(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeRole(name)
	if role, ok := r.roles[key]; ok {
		return role, nil
	}
	role := &domain.Role{ID: key, Name: name}
	r.roles[key] = role
	return role, nil
}

func (r *memRoles) AssignRole(_ context.Context, userID, roleName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.assignments[userID] {
		if domain.NormalizeRole(name) == domain.NormalizeRole(roleName) {
			return nil
		}
	}
	r.assignments[userID] = append(r.assignments[userID], roleName)
	return nil
}

func (r *memRoles) RolesOf(_ context.Context, userID string) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Role
	for _, name := range r.assignments[userID] {
		if role, ok := r.roles[domain.NormalizeRole(name)]; ok {
			out = append(out, *role)
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()

	issuer, err := token.NewIssuer("test-secret", 2*time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	store := newMemStore()
	roles := newMemRoles()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	authService := service.NewAuthService(store, roles, hasher, issuer, nil, nil, zerolog.Nop())
	userService := service.NewUserService(store)

	e := NewRouter(Deps{
		AuthService: authService,
		UserService: userService,
		TokenIssuer: issuer,
		Log:         zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body map[string]string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return buf.String()
}

func getWithToken(t *testing.T, url, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestEndToEnd_RegisterLoginAdminRoute(t *testing.T) {
	srv := newTestRouter(t)

	// Register an admin account; the response must not leak the password.
	resp := postJSON(t, srv.URL+"/register", map[string]string{
		"username": "alice",
		"password": "Str0ng!pw",
		"role":     "Admin",
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	if strings.Contains(body, "Str0ng!pw") || strings.Contains(body, "password") {
		t.Fatalf("register response leaks credentials: %s", body)
	}

	// Login returns a token whose role claim is Admin.
	resp = postJSON(t, srv.URL+"/login", map[string]string{
		"username": "alice",
		"password": "Str0ng!pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	resp.Body.Close()
	if login.Token == "" {
		t.Fatalf("expected token in login response")
	}

	issuer, _ := token.NewIssuer("test-secret", 2*time.Hour)
	claims, err := issuer.Decode(login.Token, time.Now().UTC())
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if claims.Role != "Admin" {
		t.Fatalf("expected Admin role claim, got %q", claims.Role)
	}

	// The admin-only route accepts the token.
	resp = getWithToken(t, srv.URL+"/users", login.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin route with admin token: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// No Authorization header → 401.
	resp = getWithToken(t, srv.URL+"/users", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("admin route without token: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A User-role token → 403.
	resp = postJSON(t, srv.URL+"/register", map[string]string{
		"username": "bob",
		"password": "pw123456",
	})
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/login", map[string]string{
		"username": "bob",
		"password": "pw123456",
	})
	var bobLogin struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bobLogin); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	resp.Body.Close()

	resp = getWithToken(t, srv.URL+"/users", bobLogin.Token)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin route with user token: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestEndToEnd_InvalidCredentialResponsesAreIdentical(t *testing.T) {
	srv := newTestRouter(t)

	resp := postJSON(t, srv.URL+"/register", map[string]string{
		"username": "carol",
		"password": "goodpass",
	})
	resp.Body.Close()

	wrongPassword := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "carol",
		"password": "badpass",
	})
	unknownUser := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})

	if wrongPassword.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", wrongPassword.StatusCode)
	}
	if unknownUser.StatusCode != wrongPassword.StatusCode {
		t.Fatalf("status codes differ: %d vs %d", wrongPassword.StatusCode, unknownUser.StatusCode)
	}

	// Byte-identical bodies: responses must not reveal whether the
	// username exists.
	wrongBody := readBody(t, wrongPassword)
	unknownBody := readBody(t, unknownUser)
	if wrongBody != unknownBody {
		t.Fatalf("bodies differ:\n%s\n%s", wrongBody, unknownBody)
	}
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	srv := newTestRouter(t)

	resp := postJSON(t, srv.URL+"/register", map[string]string{
		"username": "dave",
		"password": "pw123456",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.StatusCode)
	}

	// Case/whitespace variants collide with the original registration.
	resp = postJSON(t, srv.URL+"/register", map[string]string{
		"username": " DAVE ",
		"password": "other",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", resp.StatusCode)
	}
}

func TestEndToEnd_ProfileRequiresAuth(t *testing.T) {
	srv := newTestRouter(t)

	resp := getWithToken(t, srv.URL+"/profile", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("profile without token: expected 401, got %d", resp.StatusCode)
	}

	reg := postJSON(t, srv.URL+"/register", map[string]string{
		"username": "erin",
		"password": "pw123456",
	})
	reg.Body.Close()
	login := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "erin",
		"password": "pw123456",
	})
	var res struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(login.Body).Decode(&res); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	login.Body.Close()

	resp = getWithToken(t, srv.URL+"/profile", res.Token)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile with token: expected 200, got %d (%s)", resp.StatusCode, body)
	}
	if !strings.Contains(body, "erin") {
		t.Fatalf("profile should contain username: %s", body)
	}
}
