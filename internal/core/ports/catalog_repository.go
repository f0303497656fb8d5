package ports

import (
	"context"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// CatalogRepository lists the offered services.
type CatalogRepository interface {
	// List returns all services, or only those of serviceType when non-empty.
	List(ctx context.Context, serviceType string) ([]*domain.ServiceEntry, error)
}
