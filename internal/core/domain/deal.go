package domain

import (
	"errors"
	"time"
)

// DealStatus is an independent descriptive marker on a deal. The value set is
// closed, but any status may overwrite any other.
type DealStatus string

const (
	StatusNew        DealStatus = "new"
	StatusInProgress DealStatus = "in_progress"
	StatusCompleted  DealStatus = "completed"
	StatusRejected   DealStatus = "rejected"
)

func (s DealStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// DealStage tracks the progress of a deal through the engagement pipeline.
type DealStage string

const (
	StageNew            DealStage = "new"
	StageFirstContact   DealStage = "first_contact"
	StageNegotiation    DealStage = "negotiation"
	StageContractSigned DealStage = "contract_signed"
	StageInWork         DealStage = "in_work"
	StageClosed         DealStage = "closed"
)

// stageTransitions defines the allowed stage machine transitions.
// Every stage may be closed directly; closed is terminal.
var stageTransitions = map[DealStage][]DealStage{
	StageNew:            {StageFirstContact, StageClosed},
	StageFirstContact:   {StageNegotiation, StageClosed},
	StageNegotiation:    {StageContractSigned, StageClosed},
	StageContractSigned: {StageInWork, StageClosed},
	StageInWork:         {StageClosed},
}

func (s DealStage) Valid() bool {
	switch s {
	case StageNew, StageFirstContact, StageNegotiation, StageContractSigned, StageInWork, StageClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from stage s to next is valid.
func (s DealStage) CanTransitionTo(next DealStage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrDealNotFound = errors.New("deal not found")
var ErrInvalidStatus = errors.New("invalid deal status")
var ErrInvalidStage = errors.New("invalid deal stage")
var ErrInvalidTransition = errors.New("invalid stage transition")

// Deal is the core aggregate: a client service request tracked through
// status and stage. ClientID is always the authenticated creator and is never
// taken from a request payload.
type Deal struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	ClientID       int64      `json:"client_id"`
	ResponsibleID  *int64     `json:"responsible_id,omitempty"`
	Budget         float64    `json:"budget"`
	Status         DealStatus `json:"status"`
	Stage          DealStage  `json:"stage"`
	Comment        string     `json:"comment,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Lawyer         string     `json:"lawyer,omitempty"`
	ContractNumber string     `json:"contract_number,omitempty"`
	ServiceType    string     `json:"service_type,omitempty"`
	SpecialistType string     `json:"specialist_type,omitempty"`
	DesiredDate    *time.Time `json:"desired_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	FirstContactAt *time.Time `json:"first_contact_at,omitempty"`
	// ReactionTime is minutes between creation and first contact.
	ReactionTime *int64 `json:"reaction_time,omitempty"`
	NPS          *int   `json:"nps,omitempty"`
	NPSComment   string `json:"nps_comment,omitempty"`
}

// VisibleTo reports whether the deal appears in caller's listing.
// Specialists and admins see every deal; clients only see deals where they
// are the owner or the assigned responsible.
func (d *Deal) VisibleTo(caller Caller) bool {
	if caller.Role == RoleSpecialist || caller.Role == RoleAdmin {
		return true
	}
	if d.ClientID == caller.ID {
		return true
	}
	return d.ResponsibleID != nil && *d.ResponsibleID == caller.ID
}
