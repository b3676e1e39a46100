package section

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

// Repository is the key-value-per-section store
type Repository interface {
	Get(ctx context.Context, institutionID uuid.UUID, section completeness.Section) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]*Record, error)
	ListAll(ctx context.Context, batchSize int, fn func(batch []*Record) error) error
	UpdateScore(ctx context.Context, institutionID uuid.UUID, section completeness.Section, score int) error
	RefreshOverall(ctx context.Context, institutionID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

const recordColumns = `institution_id, section, data, score, updated_by, updated_at`

// NewRepository creates section repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, institutionID uuid.UUID, section completeness.Section) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM institution_sections WHERE institution_id = $1 AND section = $2`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, institutionID, section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section %s: %w", section, err)
	}
	return &rec, nil
}

func (r *repository) Put(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO institution_sections (institution_id, section, data, score, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (institution_id, section) DO UPDATE SET
			data = EXCLUDED.data,
			score = EXCLUDED.score,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rec.InstitutionID, rec.Section, rec.Data, rec.Score, rec.UpdatedBy,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put section %s: %w", rec.Section, err)
	}
	return nil
}

func (r *repository) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM institution_sections WHERE institution_id = $1`
	var recs []*Record
	if err := r.db.SelectContext(ctx, &recs, query, institutionID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return recs, nil
}

// ListAll walks every stored record in keyset-paginated batches
func (r *repository) ListAll(ctx context.Context, batchSize int, fn func(batch []*Record) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	first := `
		SELECT ` + recordColumns + ` FROM institution_sections
		ORDER BY institution_id, section
		LIMIT $1
	`
	next := `
		SELECT ` + recordColumns + ` FROM institution_sections
		WHERE (institution_id, section) > ($1, $2)
		ORDER BY institution_id, section
		LIMIT $3
	`

	var last *Record
	for {
		var batch []*Record
		var err error
		if last == nil {
			err = r.db.SelectContext(ctx, &batch, first, batchSize)
		} else {
			err = r.db.SelectContext(ctx, &batch, next, last.InstitutionID, last.Section, batchSize)
		}
		if err != nil {
			return fmt.Errorf("list all sections: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			return nil
		}
		last = batch[len(batch)-1]
	}
}

func (r *repository) UpdateScore(ctx context.Context, institutionID uuid.UUID, section completeness.Section, score int) error {
	query := `UPDATE institution_sections SET score = $3 WHERE institution_id = $1 AND section = $2`
	if _, err := r.db.ExecContext(ctx, query, institutionID, section, score); err != nil {
		return fmt.Errorf("update section score: %w", err)
	}
	return nil
}

// RefreshOverall stores the rounded mean of the institution's section scores
// as its completeness and returns it. The institution row stays locked while
// the mean is computed, so the last writer always sees every committed section.
func (r *repository) RefreshOverall(ctx context.Context, institutionID uuid.UUID) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("refresh overall: %w", err)
	}
	defer tx.Rollback()

	var locked int
	err = tx.GetContext(ctx, &locked, `SELECT 1 FROM institutions WHERE id = $1 FOR UPDATE`, institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInstitutionNotFound
		}
		return 0, fmt.Errorf("lock institution: %w", err)
	}

	query := `
		UPDATE institutions SET
			completeness = (
				SELECT COALESCE(ROUND(AVG(score)), 0)::int
				FROM institution_sections WHERE institution_id = $1
			),
			updated_at = NOW()
		WHERE id = $1
		RETURNING completeness
	`
	var overall int
	if err := tx.GetContext(ctx, &overall, query, institutionID); err != nil {
		return 0, fmt.Errorf("update completeness: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("refresh overall: %w", err)
	}
	return overall, nil
}
