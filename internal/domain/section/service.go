package section

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/pkg/logger"
	"github.com/edumap/edumap-api/internal/pkg/metrics"
)

const recalcBatchSize = 500

// Institutions is the part of the institution store sections depend on
type Institutions interface {
	GetByID(ctx context.Context, id uuid.UUID) (*institution.Institution, error)
	GetBySlug(ctx context.Context, slug string) (*institution.Institution, error)
}

// Service handles section data and completeness progress
type Service struct {
	repo         Repository
	institutions Institutions
}

// NewService creates section service
func NewService(repo Repository, institutions Institutions) *Service {
	return &Service{repo: repo, institutions: institutions}
}

func (s *Service) requireInstitution(ctx context.Context, id uuid.UUID) (*institution.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstitutionNotFound
	}
	return inst, nil
}

// Get returns the stored record, or an empty record if the section was never saved
func (s *Service) Get(ctx context.Context, institutionID uuid.UUID, section completeness.Section) (*Record, error) {
	if !section.IsValid() {
		return nil, completeness.ErrInvalidSection
	}
	if _, err := s.requireInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	return s.get(ctx, institutionID, section)
}

func (s *Service) get(ctx context.Context, institutionID uuid.UUID, section completeness.Section) (*Record, error) {
	rec, err := s.repo.Get(ctx, institutionID, section)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &Record{
			InstitutionID: institutionID,
			Section:       section,
			Data:          Payload{},
			Score:         completeness.Score(section, completeness.Data{}),
		}
	}
	return rec, nil
}

// GetPublished returns section data of a published institution
func (s *Service) GetPublished(ctx context.Context, slug string, section completeness.Section) (*Record, error) {
	if !section.IsValid() {
		return nil, completeness.ErrInvalidSection
	}
	inst, err := s.institutions.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if inst == nil || !inst.IsPublished() {
		return nil, ErrInstitutionNotFound
	}
	return s.get(ctx, inst.ID, section)
}

// Save scores and stores section data, then refreshes the institution's overall score
func (s *Service) Save(ctx context.Context, adminID, institutionID uuid.UUID, section completeness.Section, data completeness.Data) (*Record, int, error) {
	if !section.IsValid() {
		return nil, 0, completeness.ErrInvalidSection
	}
	if err := ValidatePayload(section, data); err != nil {
		return nil, 0, err
	}
	if _, err := s.requireInstitution(ctx, institutionID); err != nil {
		return nil, 0, err
	}

	if data == nil {
		data = completeness.Data{}
	}

	rec := &Record{
		InstitutionID: institutionID,
		Section:       section,
		Data:          Payload(data),
		Score:         completeness.Score(section, data),
		UpdatedBy:     uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil},
	}

	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, 0, err
	}
	metrics.SectionScore.WithLabelValues(string(section)).Observe(float64(rec.Score))

	overall, err := s.repo.RefreshOverall(ctx, institutionID)
	if err != nil {
		return nil, 0, err
	}

	logger.LogInfo(ctx, "Section saved",
		"institution_id", institutionID.String(),
		"section", string(section),
		"score", rec.Score,
		"overall", overall,
	)

	return rec, overall, nil
}

// Patch applies mutate to a copy of the stored section data and saves the result
func (s *Service) Patch(ctx context.Context, adminID, institutionID uuid.UUID, section completeness.Section, mutate func(completeness.Data)) (*Record, int, error) {
	if !section.IsValid() {
		return nil, 0, completeness.ErrInvalidSection
	}
	if _, err := s.requireInstitution(ctx, institutionID); err != nil {
		return nil, 0, err
	}

	current, err := s.get(ctx, institutionID, section)
	if err != nil {
		return nil, 0, err
	}
	data := make(completeness.Data, len(current.Data)+1)
	for k, v := range current.Data {
		data[k] = v
	}
	mutate(data)

	return s.Save(ctx, adminID, institutionID, section, data)
}

// Progress reports every section of the institution plus the overall score
func (s *Service) Progress(ctx context.Context, institutionID uuid.UUID) (*Progress, error) {
	if _, err := s.requireInstitution(ctx, institutionID); err != nil {
		return nil, err
	}

	recs, err := s.repo.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	stored := make(map[completeness.Section]*Record, len(recs))
	scores := make(map[completeness.Section]int, len(recs))
	for _, r := range recs {
		stored[r.Section] = r
		scores[r.Section] = r.Score
	}

	progress := &Progress{
		InstitutionID: institutionID,
		Overall:       completeness.Overall(scores),
	}

	for _, section := range completeness.AllSections() {
		rec, ok := stored[section]
		if !ok {
			progress.Sections = append(progress.Sections, SectionProgress{
				SectionReport: completeness.Breakdown(section, completeness.Data{}),
			})
			continue
		}

		report := completeness.Breakdown(section, completeness.Data(rec.Data))
		report.Score = rec.Score
		updatedAt := rec.UpdatedAt
		progress.Sections = append(progress.Sections, SectionProgress{
			SectionReport: report,
			Saved:         true,
			UpdatedAt:     &updatedAt,
		})
	}

	return progress, nil
}

// Recalculate re-scores every stored record and refreshes every affected overall score
func (s *Service) Recalculate(ctx context.Context) (*RecalcResult, error) {
	start := time.Now()
	result := &RecalcResult{}
	touched := map[uuid.UUID]struct{}{}

	err := s.repo.ListAll(ctx, recalcBatchSize, func(batch []*Record) error {
		for _, rec := range batch {
			result.Records++
			touched[rec.InstitutionID] = struct{}{}

			score := completeness.Score(rec.Section, completeness.Data(rec.Data))
			if score == rec.Score {
				continue
			}
			if err := s.repo.UpdateScore(ctx, rec.InstitutionID, rec.Section, score); err != nil {
				return err
			}
			result.Changed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for id := range touched {
		if _, err := s.repo.RefreshOverall(ctx, id); err != nil {
			return nil, err
		}
		result.Institutions++
	}

	logger.LogInfo(ctx, "Section scores recalculated",
		"records", result.Records,
		"changed", result.Changed,
		"institutions", result.Institutions,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
