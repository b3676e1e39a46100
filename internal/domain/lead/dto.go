package lead

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest for submitting a listing request
type CreateLeadRequest struct {
	ContactName     string `json:"contact_name" validate:"required,min=2,max=255"`
	ContactEmail    string `json:"contact_email" validate:"required,email"`
	ContactPhone    string `json:"contact_phone" validate:"required,uz_phone"`
	InstitutionName string `json:"institution_name" validate:"required,min=2,max=255"`
	InstitutionType string `json:"institution_type" validate:"required,institution_type"`
	Region          string `json:"region" validate:"required,max=100"`
	Website         string `json:"website,omitempty" validate:"omitempty,url"`
	Message         string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// UpdateStatusRequest for updating lead status
type UpdateStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=new contacted rejected"`
	Notes           string `json:"notes,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// LeadResponse for API responses
type LeadResponse struct {
	ID              uuid.UUID `json:"id"`
	ContactName     string    `json:"contact_name"`
	ContactEmail    string    `json:"contact_email"`
	ContactPhone    string    `json:"contact_phone"`
	InstitutionName string    `json:"institution_name"`
	InstitutionType string    `json:"institution_type"`
	Region          string    `json:"region"`
	Website         string    `json:"website,omitempty"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	InstitutionID   string    `json:"institution_id,omitempty"`
	CreatedAt       string    `json:"created_at"`
}

// ToResponse converts entity to response
func ToResponse(l *Lead) *LeadResponse {
	resp := &LeadResponse{
		ID:              l.ID,
		ContactName:     l.ContactName,
		ContactEmail:    l.ContactEmail,
		ContactPhone:    l.ContactPhone,
		InstitutionName: l.InstitutionName,
		InstitutionType: string(l.InstitutionType),
		Region:          l.Region,
		Website:         l.Website.String,
		Message:         l.Message.String,
		Status:          string(l.Status),
		Notes:           l.Notes.String,
		RejectionReason: l.RejectionReason.String,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if l.InstitutionID.Valid {
		resp.InstitutionID = l.InstitutionID.UUID.String()
	}
	return resp
}

// LeadSubmittedResponse for public lead submission
type LeadSubmittedResponse struct {
	LeadID  uuid.UUID `json:"lead_id"`
	Message string    `json:"message"`
}

// ConvertResponse is returned after a lead becomes a draft institution
type ConvertResponse struct {
	LeadID        uuid.UUID `json:"lead_id"`
	InstitutionID uuid.UUID `json:"institution_id"`
	Slug          string    `json:"slug"`
}
