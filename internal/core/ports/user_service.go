package ports

import (
	"context"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// UserService covers self-service profile access and the public user listing.
type UserService interface {
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	// UpdateProfile replaces exactly the four editable profile fields of the
	// caller's own record. Login and role are untouchable through this path.
	UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

// CatalogService lists the offered services.
type CatalogService interface {
	List(ctx context.Context, serviceType string) ([]*domain.ServiceEntry, error)
}
