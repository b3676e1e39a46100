package institution

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type of educational institution
type Type string

const (
	TypeSchool       Type = "school"
	TypeKindergarten Type = "kindergarten"
	TypeUniversity   Type = "university"
	TypeCourse       Type = "course"
)

// IsValid checks the type against the catalog enum
func (t Type) IsValid() bool {
	switch t {
	case TypeSchool, TypeKindergarten, TypeUniversity, TypeCourse:
		return true
	}
	return false
}

// Status represents catalog visibility
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// MinPublishCompleteness is the overall score required to publish
const MinPublishCompleteness = 40

// Institution represents a catalog entry
type Institution struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Slug         string         `db:"slug" json:"slug"`
	Type         Type           `db:"type" json:"type"`
	NameUz       string         `db:"name_uz" json:"name_uz"`
	NameRu       string         `db:"name_ru" json:"name_ru"`
	NameEn       string         `db:"name_en" json:"name_en"`
	Region       string         `db:"region" json:"region"`
	District     sql.NullString `db:"district" json:"district"`
	Address      sql.NullString `db:"address" json:"address"`
	Phone        sql.NullString `db:"phone" json:"phone"`
	Email        sql.NullString `db:"email" json:"email"`
	Website      sql.NullString `db:"website" json:"website"`
	LogoKey      sql.NullString `db:"logo_key" json:"logo_key"`
	CoverKey     sql.NullString `db:"cover_key" json:"cover_key"`
	Status       Status         `db:"status" json:"status"`
	IsVerified   bool           `db:"is_verified" json:"is_verified"`
	Completeness int            `db:"completeness" json:"completeness"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// IsPublished reports whether the institution is visible in the public catalog
func (i *Institution) IsPublished() bool {
	return i.Status == StatusPublished
}

// CanPublish checks the completeness gate
func (i *Institution) CanPublish() bool {
	return i.Completeness >= MinPublishCompleteness
}

// DisplayName picks the first non-empty name, preferring Uzbek
func (i *Institution) DisplayName() string {
	for _, n := range []string{i.NameUz, i.NameRu, i.NameEn} {
		if n != "" {
			return n
		}
	}
	return i.Slug
}
