package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// CatalogRepository reads the services catalog from Postgres.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) List(ctx context.Context, serviceType string) ([]*domain.ServiceEntry, error) {
	q := `SELECT id, name, type, description, price FROM services`
	var args []any
	if serviceType != "" {
		q += ` WHERE type = $1`
		args = append(args, serviceType)
	}
	q += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*domain.ServiceEntry
	for rows.Next() {
		var s domain.ServiceEntry
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Description, &s.Price); err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}
