package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// DealService applies the role-scoped access policy on deals.
type DealService struct {
	repo   ports.DealRepository
	logger zerolog.Logger
}

func NewDealService(repo ports.DealRepository, logger zerolog.Logger) *DealService {
	return &DealService{repo: repo, logger: logger}
}

// List returns the deals visible to caller, newest first. Clients only see
// deals where they are the owner or the responsible; specialists and admins
// see everything.
func (s *DealService) List(ctx context.Context, caller domain.Caller) ([]*domain.Deal, error) {
	filter := ports.ListDealsFilter{}
	if caller.Role == domain.RoleClient {
		filter.MemberID = caller.ID
	}
	return s.repo.List(ctx, filter)
}

// Create persists a new deal owned by caller. The owner id comes from the
// verified token, never from the payload; responsible_id may be supplied.
func (s *DealService) Create(ctx context.Context, caller domain.Caller, input ports.CreateDealInput) (*domain.Deal, error) {
	deal := &domain.Deal{
		Title:          input.Title,
		ClientID:       caller.ID,
		ResponsibleID:  input.ResponsibleID,
		Budget:         input.Budget,
		Status:         domain.StatusNew,
		Stage:          domain.StageNew,
		Comment:        input.Comment,
		ServiceType:    input.ServiceType,
		SpecialistType: input.SpecialistType,
		DesiredDate:    input.DesiredDate,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, deal)
	if err != nil {
		s.logger.Error().Err(err).Int64("client_id", caller.ID).Msg("failed to create deal")
		return nil, err
	}

	s.logger.Info().Int64("deal_id", created.ID).Int64("client_id", caller.ID).Msg("deal created")
	return created, nil
}

// Get fetches any deal by id. Single-record reads carry no ownership filter;
// the listing endpoint is the only role-scoped view.
func (s *DealService) Get(ctx context.Context, _ domain.Caller, id int64) (*domain.Deal, error) {
	return s.repo.FindByID(ctx, id)
}

// Update mutates the general fields of any deal. Beyond a valid token no
// ownership or role check applies; status values outside the closed set are
// rejected.
func (s *DealService) Update(ctx context.Context, caller domain.Caller, id int64, update ports.DealUpdate) (*domain.Deal, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		s.logger.Error().Err(err).Int64("deal_id", id).Msg("failed to update deal")
		return nil, err
	}

	s.logger.Info().Int64("deal_id", id).Int64("updated_by", caller.ID).Msg("deal updated")
	return s.repo.FindByID(ctx, id)
}

// UpdateStage advances the deal's stage through the validated transition
// table. The first transition out of the initial stage stamps the
// first-contact time and the reaction time in minutes since creation.
func (s *DealService) UpdateStage(ctx context.Context, caller domain.Caller, id int64, stage domain.DealStage) (*domain.Deal, error) {
	if !stage.Valid() {
		return nil, domain.ErrInvalidStage
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if deal.Stage == stage {
		return deal, nil
	}
	if !deal.Stage.CanTransitionTo(stage) {
		return nil, domain.ErrInvalidTransition
	}

	var firstContactAt *time.Time
	var reactionTime *int64
	if deal.Stage == domain.StageNew && deal.FirstContactAt == nil {
		now := time.Now().UTC()
		minutes := int64(now.Sub(deal.CreatedAt) / time.Minute)
		firstContactAt = &now
		reactionTime = &minutes
	}

	if err := s.repo.UpdateStage(ctx, id, stage, firstContactAt, reactionTime); err != nil {
		s.logger.Error().Err(err).Int64("deal_id", id).Msg("failed to update deal stage")
		return nil, err
	}

	s.logger.Info().
		Int64("deal_id", id).
		Int64("updated_by", caller.ID).
		Str("from", string(deal.Stage)).
		Str("to", string(stage)).
		Msg("deal stage changed")

	return s.repo.FindByID(ctx, id)
}
