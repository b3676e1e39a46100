package institution

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateRequest for POST /admin/institutions
type CreateRequest struct {
	Type     string `json:"type" validate:"required,institution_type"`
	NameUz   string `json:"name_uz" validate:"required,min=2,max=255"`
	NameRu   string `json:"name_ru" validate:"omitempty,max=255"`
	NameEn   string `json:"name_en" validate:"omitempty,max=255"`
	Region   string `json:"region" validate:"required,max=100"`
	District string `json:"district" validate:"omitempty,max=100"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	Phone    string `json:"phone" validate:"omitempty,uz_phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// UpdateRequest for PATCH /admin/institutions/{id}
type UpdateRequest struct {
	Type     *string `json:"type,omitempty" validate:"omitempty,institution_type"`
	NameUz   *string `json:"name_uz,omitempty" validate:"omitempty,min=2,max=255"`
	NameRu   *string `json:"name_ru,omitempty" validate:"omitempty,max=255"`
	NameEn   *string `json:"name_en,omitempty" validate:"omitempty,max=255"`
	Region   *string `json:"region,omitempty" validate:"omitempty,max=100"`
	District *string `json:"district,omitempty" validate:"omitempty,max=100"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,uz_phone"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
}

// VerifyRequest for POST /admin/institutions/{id}/verify
type VerifyRequest struct {
	Verified bool `json:"verified"`
}

// InstitutionResponse represents an institution in API
type InstitutionResponse struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Type         string    `json:"type"`
	NameUz       string    `json:"name_uz"`
	NameRu       string    `json:"name_ru,omitempty"`
	NameEn       string    `json:"name_en,omitempty"`
	Region       string    `json:"region"`
	District     string    `json:"district,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Website      string    `json:"website,omitempty"`
	LogoKey      string    `json:"logo_key,omitempty"`
	CoverKey     string    `json:"cover_key,omitempty"`
	Status       string    `json:"status"`
	IsVerified   bool      `json:"is_verified"`
	Completeness int       `json:"completeness"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// ResponseFromEntity converts entity to response
func ResponseFromEntity(i *Institution) *InstitutionResponse {
	return &InstitutionResponse{
		ID:           i.ID,
		Slug:         i.Slug,
		Type:         string(i.Type),
		NameUz:       i.NameUz,
		NameRu:       i.NameRu,
		NameEn:       i.NameEn,
		Region:       i.Region,
		District:     i.District.String,
		Address:      i.Address.String,
		Phone:        i.Phone.String,
		Email:        i.Email.String,
		Website:      i.Website.String,
		LogoKey:      i.LogoKey.String,
		CoverKey:     i.CoverKey.String,
		Status:       string(i.Status),
		IsVerified:   i.IsVerified,
		Completeness: i.Completeness,
		CreatedAt:    i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    i.UpdatedAt.Format(time.RFC3339),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
