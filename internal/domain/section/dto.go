package section

import (
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

// RecordResponse represents section data in API
type RecordResponse struct {
	InstitutionID    uuid.UUID      `json:"institution_id"`
	Section          string         `json:"section"`
	Data             map[string]any `json:"data"`
	Score            int            `json:"score"`
	MissingRequired  []string       `json:"missing_required"`
	MissingImportant []string       `json:"missing_important"`
	UpdatedAt        *string        `json:"updated_at,omitempty"`
}

// SaveResponse for PUT /admin/institutions/{id}/sections/{section}
type SaveResponse struct {
	Record  *RecordResponse `json:"record"`
	Overall int             `json:"overall"`
}

// RecordResponseFromEntity converts a record to response
func RecordResponseFromEntity(r *Record) *RecordResponse {
	report := completeness.Breakdown(r.Section, completeness.Data(r.Data))
	resp := &RecordResponse{
		InstitutionID:    r.InstitutionID,
		Section:          string(r.Section),
		Data:             r.Data,
		Score:            r.Score,
		MissingRequired:  report.MissingRequired,
		MissingImportant: report.MissingImportant,
	}
	if resp.Data == nil {
		resp.Data = map[string]any{}
	}
	if r.Saved() {
		s := r.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}
