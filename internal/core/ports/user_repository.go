package ports

import (
	"context"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Create must rely on the database UNIQUE constraint for login uniqueness and
// translate a constraint violation into domain.ErrUserExists; there is no
// check-then-insert step, so concurrent registrations cannot race.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// UpdateProfile overwrites exactly the four editable profile fields.
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
