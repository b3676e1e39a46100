package section

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

// Payload is the JSONB field map stored for one section
type Payload map[string]any

// Value implements driver.Valuer
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *Payload) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Payload{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("section payload: unsupported type %T", src)
	}

	out := Payload{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("section payload: %w", err)
	}
	*p = out
	return nil
}

// Record is the stored data of one institution section
type Record struct {
	InstitutionID uuid.UUID            `db:"institution_id"`
	Section       completeness.Section `db:"section"`
	Data          Payload              `db:"data"`
	Score         int                  `db:"score"`
	UpdatedBy     uuid.NullUUID        `db:"updated_by"`
	UpdatedAt     time.Time            `db:"updated_at"`
}

// Saved reports whether the record came from storage
func (r *Record) Saved() bool {
	return !r.UpdatedAt.IsZero()
}

// Progress summarises every section of one institution
type Progress struct {
	InstitutionID uuid.UUID         `json:"institution_id"`
	Overall       int               `json:"overall"`
	Sections      []SectionProgress `json:"sections"`
}

// SectionProgress is one row of the back-office progress panel
type SectionProgress struct {
	completeness.SectionReport
	Saved     bool       `json:"saved"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RecalcResult counts the work done by Recalculate
type RecalcResult struct {
	Records      int `json:"records"`
	Changed      int `json:"changed"`
	Institutions int `json:"institutions"`
}
