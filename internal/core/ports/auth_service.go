package ports

import (
	"context"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, login, password string, role domain.Role) (*domain.User, error)
	// Login returns a signed session token and the authenticated user.
	Login(ctx context.Context, login, password string) (string, *domain.User, error)
}

// LoginLimiter throttles brute-force login attempts per login name.
type LoginLimiter interface {
	// TooMany reports whether login has exceeded the failure budget.
	TooMany(ctx context.Context, login string) (bool, error)
	// RecordFailure counts one failed attempt against login.
	RecordFailure(ctx context.Context, login string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, login string) error
}
