package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

const dealColumns = `id, title, client_id, responsible_id, budget, status, stage, comment, reason,
lawyer, contract_number, service_type, specialist_type, desired_date, created_at,
first_contact_at, reaction_time, nps, nps_comment`

// DealRepository provides deal persistence in Postgres.
type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	const q = `
INSERT INTO deals (title, client_id, responsible_id, budget, status, stage, comment,
	service_type, specialist_type, desired_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + dealColumns

	row := r.db.QueryRowContext(ctx, q,
		deal.Title,
		deal.ClientID,
		deal.ResponsibleID,
		deal.Budget,
		string(deal.Status),
		string(deal.Stage),
		deal.Comment,
		deal.ServiceType,
		deal.SpecialistType,
		deal.DesiredDate,
		deal.CreatedAt,
	)
	created, err := scanDeal(row)
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return created, nil
}

func (r *DealRepository) FindByID(ctx context.Context, id int64) (*domain.Deal, error) {
	const q = `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}
	return deal, nil
}

func (r *DealRepository) List(ctx context.Context, filter ports.ListDealsFilter) ([]*domain.Deal, error) {
	q := `SELECT ` + dealColumns + ` FROM deals`
	var args []any
	if filter.MemberID != 0 {
		q += ` WHERE client_id = $1 OR responsible_id = $1`
		args = append(args, filter.MemberID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("list deals: %w", err)
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// Update builds a SET clause from the non-nil fields only; absent fields keep
// their stored values.
func (r *DealRepository) Update(ctx context.Context, id int64, update ports.DealUpdate) error {
	var sets []string
	args := []any{id}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.ResponsibleID != nil {
		set("responsible_id", *update.ResponsibleID)
	}
	if update.Budget != nil {
		set("budget", *update.Budget)
	}
	if update.Status != nil {
		set("status", string(*update.Status))
	}
	if update.Comment != nil {
		set("comment", *update.Comment)
	}
	if update.Reason != nil {
		set("reason", *update.Reason)
	}
	if update.Lawyer != nil {
		set("lawyer", *update.Lawyer)
	}
	if update.ContractNumber != nil {
		set("contract_number", *update.ContractNumber)
	}
	if update.ServiceType != nil {
		set("service_type", *update.ServiceType)
	}
	if update.SpecialistType != nil {
		set("specialist_type", *update.SpecialistType)
	}
	if update.DesiredDate != nil {
		set("desired_date", *update.DesiredDate)
	}
	if update.NPS != nil {
		set("nps", *update.NPS)
	}
	if update.NPSComment != nil {
		set("nps_comment", *update.NPSComment)
	}

	if len(sets) == 0 {
		return nil
	}

	q := `UPDATE deals SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if affected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func (r *DealRepository) UpdateStage(ctx context.Context, id int64, stage domain.DealStage, firstContactAt *time.Time, reactionTime *int64) error {
	const q = `
UPDATE deals SET stage = $2,
	first_contact_at = COALESCE($3, first_contact_at),
	reaction_time    = COALESCE($4, reaction_time)
WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id, string(stage), firstContactAt, reactionTime)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if affected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func scanDeal(row rowScanner) (*domain.Deal, error) {
	var d domain.Deal
	var status, stage string
	var responsibleID sql.NullInt64
	var desiredDate, firstContactAt sql.NullTime
	var reactionTime sql.NullInt64
	var nps sql.NullInt32

	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.ClientID,
		&responsibleID,
		&d.Budget,
		&status,
		&stage,
		&d.Comment,
		&d.Reason,
		&d.Lawyer,
		&d.ContractNumber,
		&d.ServiceType,
		&d.SpecialistType,
		&desiredDate,
		&d.CreatedAt,
		&firstContactAt,
		&reactionTime,
		&nps,
		&d.NPSComment,
	); err != nil {
		return nil, err
	}

	d.Status = domain.DealStatus(status)
	d.Stage = domain.DealStage(stage)
	if responsibleID.Valid {
		d.ResponsibleID = &responsibleID.Int64
	}
	if desiredDate.Valid {
		t := desiredDate.Time
		d.DesiredDate = &t
	}
	if firstContactAt.Valid {
		t := firstContactAt.Time
		d.FirstContactAt = &t
	}
	if reactionTime.Valid {
		d.ReactionTime = &reactionTime.Int64
	}
	if nps.Valid {
		v := int(nps.Int32)
		d.NPS = &v
	}
	return &d, nil
}
