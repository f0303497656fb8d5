package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.UserRepository
	tokens  *TokenIssuer
	limiter ports.LoginLimiter
}

// NewAuthService wires the credential store, the token issuer and an optional
// login limiter (nil disables throttling).
func NewAuthService(repo ports.UserRepository, tokens *TokenIssuer, limiter ports.LoginLimiter) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter}
}

// Register creates a new user account. The password is bcrypt-hashed; the
// plaintext never leaves this function. Login uniqueness is decided by the
// repository's constraint, not by a pre-check.
func (s *AuthService) Register(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	if login == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, user)
}

// Login authenticates the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	if login == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooMany(ctx, login)
		if err == nil && blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Uniform failure for unknown login and wrong password.
			s.recordFailure(ctx, login)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, login)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, login)
	}
	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, login string) {
	if s.limiter != nil {
		_ = s.limiter.RecordFailure(ctx, login)
	}
}
