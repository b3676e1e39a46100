package dashboard

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumap/edumap-api/internal/domain/institution"
)

// Stats summarizes the catalog for the back-office dashboard
type Stats struct {
	Total           int            `db:"total" json:"total"`
	Published       int            `db:"published" json:"published"`
	Drafts          int            `db:"drafts" json:"drafts"`
	Archived        int            `db:"archived" json:"archived"`
	Verified        int            `db:"verified" json:"verified"`
	ReadyToPublish  int            `db:"ready_to_publish" json:"ready_to_publish"`
	AvgCompleteness float64        `db:"avg_completeness" json:"avg_completeness"`
	ByType          map[string]int `db:"-" json:"by_type"`
	SectionsSaved   int            `db:"-" json:"sections_saved"`
}

type typeCount struct {
	Type  string `db:"type"`
	Count int    `db:"count"`
}

// Service provides dashboard statistics
type Service struct {
	db *sqlx.DB
}

// NewService creates dashboard service
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// GetStats aggregates institution counts and completeness
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByType: map[string]int{}}

	err := s.db.GetContext(ctx, stats, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'published') AS published,
			COUNT(*) FILTER (WHERE status = 'draft') AS drafts,
			COUNT(*) FILTER (WHERE status = 'archived') AS archived,
			COUNT(*) FILTER (WHERE is_verified) AS verified,
			COUNT(*) FILTER (WHERE status = 'draft' AND completeness >= $1) AS ready_to_publish,
			COALESCE(ROUND(AVG(completeness)::numeric, 1), 0) AS avg_completeness
		FROM institutions
	`, institution.MinPublishCompleteness)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	var types []typeCount
	err = s.db.SelectContext(ctx, &types, `
		SELECT type, COUNT(*) AS count FROM institutions GROUP BY type
	`)
	if err != nil {
		return nil, fmt.Errorf("dashboard types: %w", err)
	}
	for _, t := range types {
		stats.ByType[t.Type] = t.Count
	}

	if err := s.db.GetContext(ctx, &stats.SectionsSaved, `SELECT COUNT(*) FROM institution_sections`); err != nil {
		return nil, fmt.Errorf("dashboard sections: %w", err)
	}

	return stats, nil
}
