package ports

import (
	"context"
	"time"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// ListDealsFilter carries the visibility constraint for listing deals.
// MemberID is enforced by the service layer from the caller's role.
type ListDealsFilter struct {
	// MemberID = 0 means no filter (specialist/admin); non-zero restricts the
	// result to deals where the member is the owner or the responsible.
	MemberID int64
}

// DealUpdate carries the general mutable fields of a deal. Nil pointers leave
// the stored value untouched. ClientID, Stage, CreatedAt, FirstContactAt and
// ReactionTime are deliberately absent: they are never set through this path.
type DealUpdate struct {
	Title          *string
	ResponsibleID  *int64
	Budget         *float64
	Status         *domain.DealStatus
	Comment        *string
	Reason         *string
	Lawyer         *string
	ContractNumber *string
	ServiceType    *string
	SpecialistType *string
	DesiredDate    *time.Time
	NPS            *int
	NPSComment     *string
}

// DealRepository defines persistence operations for deals.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	FindByID(ctx context.Context, id int64) (*domain.Deal, error)
	// List returns deals matching filter, newest first.
	List(ctx context.Context, filter ListDealsFilter) ([]*domain.Deal, error)
	Update(ctx context.Context, id int64, update DealUpdate) error
	// UpdateStage persists the stage and, when provided, the first-contact
	// stamp and reaction time.
	UpdateStage(ctx context.Context, id int64, stage domain.DealStage, firstContactAt *time.Time, reactionTime *int64) error
}
