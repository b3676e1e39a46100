package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines lead data access
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Lead, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, notes, reason string) error
	MarkConverted(ctx context.Context, id, institutionID uuid.UUID) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db *sqlx.DB
}

const leadColumns = `
	id, contact_name, contact_email, contact_phone, institution_name,
	institution_type, region, website, message, status, notes,
	rejection_reason, institution_id, ip_address, created_at, updated_at
`

// NewRepository creates lead repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO institution_leads (
			id, contact_name, contact_email, contact_phone, institution_name,
			institution_type, region, website, message, status,
			ip_address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.ContactName, lead.ContactEmail, lead.ContactPhone, lead.InstitutionName,
		lead.InstitutionType, lead.Region, lead.Website, lead.Message, lead.Status,
		lead.IPAddress, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM institution_leads WHERE id = $1`
	var lead Lead
	err := r.db.GetContext(ctx, &lead, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

func (r *repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Lead, int, error) {
	var args []interface{}
	where := ""
	argIdx := 1

	if status != nil {
		where = " WHERE status = $1"
		args = append(args, *status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM institution_leads" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM institution_leads%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	var leads []*Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	return leads, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, notes, reason string) error {
	query := `
		UPDATE institution_leads SET
			status = $2,
			notes = COALESCE(NULLIF($3, ''), notes),
			rejection_reason = NULLIF($4, ''),
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, notes, reason)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return nil
}

// MarkConverted links the lead to its institution.
// Returns ErrAlreadyConverted if another conversion got there first.
func (r *repository) MarkConverted(ctx context.Context, id, institutionID uuid.UUID) error {
	query := `
		UPDATE institution_leads SET
			status = 'converted', institution_id = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'converted'
	`
	result, err := r.db.ExecContext(ctx, query, id, institutionID)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyConverted
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM institution_leads GROUP BY status`

	type row struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	result := make(map[Status]int)
	for _, r := range rows {
		result[r.Status] = r.Count
	}
	return result, nil
}
