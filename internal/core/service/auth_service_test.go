package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	// Mirrors the UNIQUE constraint on login.
	if _, exists := r.users[user.Login]; exists {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	created.ID = r.nextID
	r.nextID++
	r.users[created.Login] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	u, ok := r.users[login]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, profile domain.Profile) error {
	for _, u := range r.users {
		if u.ID == id {
			u.LastName = profile.LastName
			u.FirstName = profile.FirstName
			u.MiddleName = profile.MiddleName
			u.Email = profile.Email
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// stubLimiter blocks a configured login and records calls.
type stubLimiter struct {
	blocked  string
	failures int
	resets   int
}

func (l *stubLimiter) TooMany(_ context.Context, login string) (bool, error) {
	return login == l.blocked, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func newTestAuthService(repo *stubUserRepo, limiter *stubLimiter) *AuthService {
	issuer := NewTokenIssuer("secret", time.Hour)
	if limiter == nil {
		return NewAuthService(repo, issuer, nil)
	}
	return NewAuthService(repo, issuer, limiter)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	user, err := svc.Register(context.Background(), "alice", "pass123", domain.RoleClient)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "bob", "pass", "manager"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected nothing persisted, got %d users", len(repo.users))
	}
}

func TestAuthService_Register_EmptyCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "", "pass", domain.RoleClient); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "", domain.RoleClient); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_DuplicateLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "bob", "pw1", domain.RoleClient); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pw2", domain.RoleSpecialist); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := newTestAuthService(repo, limiter)

	if _, err := svc.Register(context.Background(), "carol", "s3cret", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Login != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success")
	}

	claims, err := NewTokenIssuer("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %v", claims.Role)
	}
	if claims.Login != "carol" {
		t.Fatalf("expected login carol, got %v", claims.Login)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := newTestAuthService(repo, limiter)

	_, _ = svc.Register(context.Background(), "dave", "goodpass", domain.RoleClient)
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("expected one recorded failure, got %d", limiter.failures)
	}
}

func TestAuthService_Login_UnknownLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	// Unknown login and wrong password are indistinguishable to the caller.
	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{blocked: "dave"}
	svc := newTestAuthService(repo, limiter)

	_, _ = svc.Register(context.Background(), "dave", "goodpass", domain.RoleClient)
	if _, _, err := svc.Login(context.Background(), "dave", "goodpass"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}
