package handler

import (
	"time"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// createDealRequest deliberately has no client_id field: the owner is always
// the authenticated caller, and a client_id smuggled into the raw payload is
// never read.
type createDealRequest struct {
	Title          string     `json:"title" validate:"required,min=1,max=255"`
	ResponsibleID  *int64     `json:"responsible_id"`
	Budget         float64    `json:"budget" validate:"gte=0"`
	Comment        string     `json:"comment"`
	ServiceType    string     `json:"service_type"`
	SpecialistType string     `json:"specialist_type"`
	DesiredDate    *time.Time `json:"desired_date"`
}

// updateDealRequest carries the general mutable fields. Absent fields keep
// their stored values; stage is only reachable through the stage endpoint.
type updateDealRequest struct {
	Title          *string    `json:"title"`
	ResponsibleID  *int64     `json:"responsible_id"`
	Budget         *float64   `json:"budget"`
	Status         *string    `json:"status"`
	Comment        *string    `json:"comment"`
	Reason         *string    `json:"reason"`
	Lawyer         *string    `json:"lawyer"`
	ContractNumber *string    `json:"contract_number"`
	ServiceType    *string    `json:"service_type"`
	SpecialistType *string    `json:"specialist_type"`
	DesiredDate    *time.Time `json:"desired_date"`
	NPS            *int       `json:"nps" validate:"omitempty,gte=0,lte=10"`
	NPSComment     *string    `json:"nps_comment"`
}

type updateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type dealResponse struct {
	Success bool         `json:"success"`
	Deal    *domain.Deal `json:"deal"`
}

type dealListResponse struct {
	Success bool           `json:"success"`
	Deals   []*domain.Deal `json:"deals"`
}
