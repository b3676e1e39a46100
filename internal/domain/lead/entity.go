package lead

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/institution"
)

// Status of a listing request
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusRejected  Status = "rejected"
)

// IsValid checks the status enum
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusRejected:
		return true
	}
	return false
}

// Lead is a request from an institution to be listed in the catalog
type Lead struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	ContactName     string           `db:"contact_name" json:"contact_name"`
	ContactEmail    string           `db:"contact_email" json:"contact_email"`
	ContactPhone    string           `db:"contact_phone" json:"contact_phone"`
	InstitutionName string           `db:"institution_name" json:"institution_name"`
	InstitutionType institution.Type `db:"institution_type" json:"institution_type"`
	Region          string           `db:"region" json:"region"`
	Website         sql.NullString   `db:"website" json:"website"`
	Message         sql.NullString   `db:"message" json:"message"`
	Status          Status           `db:"status" json:"status"`
	Notes           sql.NullString   `db:"notes" json:"notes"`
	RejectionReason sql.NullString   `db:"rejection_reason" json:"rejection_reason"`
	InstitutionID   uuid.NullUUID    `db:"institution_id" json:"institution_id"`
	IPAddress       sql.NullString   `db:"ip_address" json:"-"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// IsConverted checks if a draft institution was created from the lead
func (l *Lead) IsConverted() bool {
	return l.Status == StatusConverted
}
