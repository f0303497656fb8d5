package ports

import (
	"context"
	"time"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// CreateDealInput carries the client-supplied fields for a new deal.
// The owner is always the authenticated caller, never part of the input.
type CreateDealInput struct {
	Title          string
	ResponsibleID  *int64
	Budget         float64
	Comment        string
	ServiceType    string
	SpecialistType string
	DesiredDate    *time.Time
}

// DealService applies the role-scoped visibility and mutation policy on deals.
type DealService interface {
	// List returns the deals visible to caller, newest first.
	List(ctx context.Context, caller domain.Caller) ([]*domain.Deal, error)
	Create(ctx context.Context, caller domain.Caller, input CreateDealInput) (*domain.Deal, error)
	// Get fetches any deal by id for any authenticated caller.
	Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Deal, error)
	Update(ctx context.Context, caller domain.Caller, id int64, update DealUpdate) (*domain.Deal, error)
	UpdateStage(ctx context.Context, caller domain.Caller, id int64, stage domain.DealStage) (*domain.Deal, error)
}
