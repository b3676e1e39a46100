package institution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Filter represents catalog search filters
type Filter struct {
	Type            *Type
	Region          *string
	District        *string
	Status          *Status
	Verified        *bool
	Query           *string
	MinCompleteness *int
}

// Pagination for listing
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for a 1-based page
func (p *Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Repository defines institution data access
type Repository interface {
	Create(ctx context.Context, inst *Institution) error
	GetByID(ctx context.Context, id uuid.UUID) (*Institution, error)
	GetBySlug(ctx context.Context, slug string) (*Institution, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, inst *Institution) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error
	UpdateMediaKey(ctx context.Context, id uuid.UUID, kind, key string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Institution, int, error)
}

type repository struct {
	db *sqlx.DB
}

const selectColumns = `
	id, slug, type, name_uz, name_ru, name_en, region, district, address,
	phone, email, website, logo_key, cover_key, status, is_verified,
	completeness, created_at, updated_at
`

// NewRepository creates institution repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inst *Institution) error {
	query := `
		INSERT INTO institutions (
			id, slug, type, name_uz, name_ru, name_en, region, district, address,
			phone, email, website, status, is_verified, completeness, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		inst.ID, inst.Slug, inst.Type,
		inst.NameUz, inst.NameRu, inst.NameEn,
		inst.Region, inst.District, inst.Address,
		inst.Phone, inst.Email, inst.Website,
		inst.Status, inst.IsVerified, inst.Completeness,
		inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

func mapDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %w", ErrSlugTaken, err)
	case "22P02", "23514":
		if strings.Contains(strings.ToLower(pqErr.Constraint+pqErr.Message), "type") {
			return fmt.Errorf("%w: %w", ErrInvalidType, err)
		}
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Institution, error) {
	query := `SELECT ` + selectColumns + ` FROM institutions WHERE id = $1`
	var inst Institution
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get institution %s: %w", id, err)
	}
	return &inst, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Institution, error) {
	query := `SELECT ` + selectColumns + ` FROM institutions WHERE slug = $1`
	var inst Institution
	if err := r.db.GetContext(ctx, &inst, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get institution by slug: %w", err)
	}
	return &inst, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM institutions WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, inst *Institution) error {
	query := `
		UPDATE institutions SET
			type = $2, name_uz = $3, name_ru = $4, name_en = $5,
			region = $6, district = $7, address = $8,
			phone = $9, email = $10, website = $11,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		inst.ID, inst.Type,
		inst.NameUz, inst.NameRu, inst.NameEn,
		inst.Region, inst.District, inst.Address,
		inst.Phone, inst.Email, inst.Website,
	)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx, `UPDATE institutions SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repository) UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE institutions SET is_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
	return err
}

func (r *repository) UpdateMediaKey(ctx context.Context, id uuid.UUID, kind, key string) error {
	var column string
	switch kind {
	case "logo":
		column = "logo_key"
	case "cover":
		column = "cover_key"
	default:
		return ErrInvalidMediaKind
	}
	query := fmt.Sprintf(`UPDATE institutions SET %s = $2, updated_at = NOW() WHERE id = $1`, column)
	_, err := r.db.ExecContext(ctx, query, id, key)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInstitutionNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Institution, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}
	if filter.Region != nil && *filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region = $%d", argIndex))
		args = append(args, *filter.Region)
		argIndex++
	}
	if filter.District != nil && *filter.District != "" {
		conditions = append(conditions, fmt.Sprintf("district = $%d", argIndex))
		args = append(args, *filter.District)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("is_verified = $%d", argIndex))
		args = append(args, *filter.Verified)
		argIndex++
	}
	if filter.MinCompleteness != nil {
		conditions = append(conditions, fmt.Sprintf("completeness >= $%d", argIndex))
		args = append(args, *filter.MinCompleteness)
		argIndex++
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name_uz ILIKE $%d OR name_ru ILIKE $%d OR name_en ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+*filter.Query+"%")
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM institutions "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count institutions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM institutions
		%s
		ORDER BY completeness DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, selectColumns, where, argIndex, argIndex+1)
	args = append(args, pagination.Limit, pagination.Offset())

	var items []*Institution
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list institutions: %w", err)
	}

	return items, total, nil
}
