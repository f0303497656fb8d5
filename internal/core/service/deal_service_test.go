package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubDealRepo struct {
	deals  map[int64]*domain.Deal
	nextID int64
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{deals: make(map[int64]*domain.Deal), nextID: 1}
}

func cloneDeal(d *domain.Deal) *domain.Deal {
	clone := *d
	return &clone
}

func (r *stubDealRepo) Create(_ context.Context, deal *domain.Deal) (*domain.Deal, error) {
	created := cloneDeal(deal)
	created.ID = r.nextID
	r.nextID++
	r.deals[created.ID] = cloneDeal(created)
	return created, nil
}

func (r *stubDealRepo) FindByID(_ context.Context, id int64) (*domain.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return cloneDeal(d), nil
}

// List applies the same member filter and ordering the real Postgres repo uses.
func (r *stubDealRepo) List(_ context.Context, filter ports.ListDealsFilter) ([]*domain.Deal, error) {
	var out []*domain.Deal
	for _, d := range r.deals {
		if filter.MemberID != 0 {
			member := d.ClientID == filter.MemberID ||
				(d.ResponsibleID != nil && *d.ResponsibleID == filter.MemberID)
			if !member {
				continue
			}
		}
		out = append(out, cloneDeal(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubDealRepo) Update(_ context.Context, id int64, update ports.DealUpdate) error {
	d, ok := r.deals[id]
	if !ok {
		return domain.ErrDealNotFound
	}
	if update.Title != nil {
		d.Title = *update.Title
	}
	if update.ResponsibleID != nil {
		d.ResponsibleID = update.ResponsibleID
	}
	if update.Budget != nil {
		d.Budget = *update.Budget
	}
	if update.Status != nil {
		d.Status = *update.Status
	}
	if update.Comment != nil {
		d.Comment = *update.Comment
	}
	if update.Reason != nil {
		d.Reason = *update.Reason
	}
	if update.Lawyer != nil {
		d.Lawyer = *update.Lawyer
	}
	if update.ContractNumber != nil {
		d.ContractNumber = *update.ContractNumber
	}
	if update.ServiceType != nil {
		d.ServiceType = *update.ServiceType
	}
	if update.SpecialistType != nil {
		d.SpecialistType = *update.SpecialistType
	}
	if update.DesiredDate != nil {
		d.DesiredDate = update.DesiredDate
	}
	if update.NPS != nil {
		d.NPS = update.NPS
	}
	if update.NPSComment != nil {
		d.NPSComment = *update.NPSComment
	}
	return nil
}

func (r *stubDealRepo) UpdateStage(_ context.Context, id int64, stage domain.DealStage, firstContactAt *time.Time, reactionTime *int64) error {
	d, ok := r.deals[id]
	if !ok {
		return domain.ErrDealNotFound
	}
	d.Stage = stage
	if firstContactAt != nil {
		d.FirstContactAt = firstContactAt
	}
	if reactionTime != nil {
		d.ReactionTime = reactionTime
	}
	return nil
}

func newTestDealService(repo *stubDealRepo) *DealService {
	return NewDealService(repo, zerolog.Nop())
}

func seedDeal(t *testing.T, repo *stubDealRepo, clientID int64, responsibleID *int64, createdAt time.Time) *domain.Deal {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.Deal{
		Title:         "deal",
		ClientID:      clientID,
		ResponsibleID: responsibleID,
		Status:        domain.StatusNew,
		Stage:         domain.StageNew,
		CreatedAt:     createdAt,
	})
	if err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	return created
}

func int64ptr(v int64) *int64 { return &v }

// ---------------------------------------------------------------------------
// Listing policy
// ---------------------------------------------------------------------------

func TestDealService_List_ClientSeesOnlyOwnDeals(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	now := time.Now().UTC()

	mine := seedDeal(t, repo, 1, nil, now.Add(-2*time.Hour))
	assigned := seedDeal(t, repo, 2, int64ptr(1), now.Add(-1*time.Hour))
	seedDeal(t, repo, 3, int64ptr(4), now)

	deals, err := svc.List(context.Background(), domain.Caller{ID: 1, Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(deals) != 2 {
		t.Fatalf("expected 2 visible deals, got %d", len(deals))
	}
	for _, d := range deals {
		related := d.ClientID == 1 || (d.ResponsibleID != nil && *d.ResponsibleID == 1)
		if !related {
			t.Fatalf("client received unrelated deal %d", d.ID)
		}
	}
	// Newest first.
	if deals[0].ID != assigned.ID || deals[1].ID != mine.ID {
		t.Fatalf("expected newest-first ordering, got %d then %d", deals[0].ID, deals[1].ID)
	}
}

func TestDealService_List_SpecialistAndAdminSeeAll(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	now := time.Now().UTC()

	seedDeal(t, repo, 1, nil, now.Add(-time.Hour))
	seedDeal(t, repo, 2, int64ptr(3), now)

	for _, role := range []domain.Role{domain.RoleSpecialist, domain.RoleAdmin} {
		deals, err := svc.List(context.Background(), domain.Caller{ID: 99, Role: role})
		if err != nil {
			t.Fatalf("List(%s) returned error: %v", role, err)
		}
		if len(deals) != 2 {
			t.Fatalf("expected %s to see all 2 deals, got %d", role, len(deals))
		}
	}
}

// ---------------------------------------------------------------------------
// Creation policy
// ---------------------------------------------------------------------------

func TestDealService_Create_OwnerForcedToCaller(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)

	created, err := svc.Create(context.Background(), domain.Caller{ID: 7, Role: domain.RoleClient}, ports.CreateDealInput{
		Title:  "land dispute",
		Budget: 1500,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ClientID != 7 {
		t.Fatalf("expected client_id 7, got %d", created.ClientID)
	}
	if created.Status != domain.StatusNew || created.Stage != domain.StageNew {
		t.Fatalf("expected new deal in initial status/stage, got %s/%s", created.Status, created.Stage)
	}

	stored, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("stored deal missing: %v", err)
	}
	if stored.ClientID != 7 {
		t.Fatalf("persisted client_id = %d, want 7", stored.ClientID)
	}
}

func TestDealService_Create_ResponsibleMayBeSupplied(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)

	created, err := svc.Create(context.Background(), domain.Caller{ID: 7, Role: domain.RoleClient}, ports.CreateDealInput{
		Title:         "contract review",
		ResponsibleID: int64ptr(12),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ResponsibleID == nil || *created.ResponsibleID != 12 {
		t.Fatalf("expected responsible_id 12, got %v", created.ResponsibleID)
	}
}

// ---------------------------------------------------------------------------
// Updates
// ---------------------------------------------------------------------------

func TestDealService_Update_GeneralFields(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	title := "renamed"
	budget := 9000.0
	status := domain.StatusInProgress
	// Any authenticated caller may update any deal by id.
	updated, err := svc.Update(context.Background(), domain.Caller{ID: 55, Role: domain.RoleClient}, deal.ID, ports.DealUpdate{
		Title:  &title,
		Budget: &budget,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "renamed" || updated.Budget != 9000 || updated.Status != domain.StatusInProgress {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.ClientID != 1 {
		t.Fatalf("owner must not change on update, got %d", updated.ClientID)
	}
}

func TestDealService_Update_RejectsUnknownStatus(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	bad := domain.DealStatus("archived")
	if _, err := svc.Update(context.Background(), domain.Caller{ID: 1}, deal.ID, ports.DealUpdate{Status: &bad}); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDealService_Update_NotFound(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)

	if _, err := svc.Update(context.Background(), domain.Caller{ID: 1}, 404, ports.DealUpdate{}); err != domain.ErrDealNotFound {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Stage machine
// ---------------------------------------------------------------------------

func TestDealService_UpdateStage_ValidTransition(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC().Add(-30*time.Minute))

	updated, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageFirstContact)
	if err != nil {
		t.Fatalf("UpdateStage returned error: %v", err)
	}
	if updated.Stage != domain.StageFirstContact {
		t.Fatalf("expected stage first_contact, got %s", updated.Stage)
	}
	if updated.FirstContactAt == nil {
		t.Fatalf("expected first_contact_at to be stamped")
	}
	if updated.ReactionTime == nil || *updated.ReactionTime < 29 || *updated.ReactionTime > 31 {
		t.Fatalf("expected reaction_time around 30 minutes, got %v", updated.ReactionTime)
	}
}

func TestDealService_UpdateStage_InvalidTransition(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	if _, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageInWork); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDealService_UpdateStage_SameStageIsNoop(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	updated, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageNew)
	if err != nil {
		t.Fatalf("UpdateStage returned error: %v", err)
	}
	if updated.FirstContactAt != nil {
		t.Fatalf("no-op stage set must not stamp first contact")
	}
}

func TestDealService_UpdateStage_UnknownStage(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	if _, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, "paused"); err != domain.ErrInvalidStage {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestDealService_UpdateStage_ClosedIsTerminal(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	if _, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageClosed); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageFirstContact); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition out of closed, got %v", err)
	}
}

func TestDealService_UpdateStage_FirstContactStampedOnce(t *testing.T) {
	repo := newStubDealRepo()
	svc := newTestDealService(repo)
	deal := seedDeal(t, repo, 1, nil, time.Now().UTC())

	first, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageFirstContact)
	if err != nil {
		t.Fatalf("UpdateStage returned error: %v", err)
	}
	second, err := svc.UpdateStage(context.Background(), domain.Caller{ID: 2}, deal.ID, domain.StageNegotiation)
	if err != nil {
		t.Fatalf("UpdateStage returned error: %v", err)
	}
	if second.FirstContactAt == nil || !second.FirstContactAt.Equal(*first.FirstContactAt) {
		t.Fatalf("first_contact_at must not move on later transitions")
	}
}
