package lead

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edumap/edumap-api/internal/domain/institution"
)

// Institutions creates catalog entries from converted leads
type Institutions interface {
	Create(ctx context.Context, req *institution.CreateRequest) (*institution.Institution, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles lead business logic
type Service struct {
	repo         Repository
	institutions Institutions
}

// NewService creates lead service
func NewService(repo Repository, institutions Institutions) *Service {
	return &Service{
		repo:         repo,
		institutions: institutions,
	}
}

// SubmitLead stores a new listing request (public endpoint)
func (s *Service) SubmitLead(ctx context.Context, req *CreateLeadRequest, ip string) (*Lead, error) {
	now := time.Now()

	lead := &Lead{
		ID:              uuid.New(),
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		InstitutionName: req.InstitutionName,
		InstitutionType: institution.Type(req.InstitutionType),
		Region:          req.Region,
		Website:         sql.NullString{String: req.Website, Valid: req.Website != ""},
		Message:         sql.NullString{String: req.Message, Valid: req.Message != ""},
		Status:          StatusNew,
		IPAddress:       sql.NullString{String: ip, Valid: ip != ""},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	log.Info().Str("lead_id", lead.ID.String()).Str("institution", lead.InstitutionName).Msg("Listing request submitted")
	return lead, nil
}

// GetByID returns lead by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// ListLeads returns leads with optional status filter
func (s *Service) ListLeads(ctx context.Context, status *Status, limit, offset int) ([]*Lead, int, error) {
	if status != nil && !status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateStatus moves a lead through review. Converted leads are final.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, notes, reason string) error {
	if !status.IsValid() || status == StatusConverted {
		return ErrInvalidStatus
	}

	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lead.IsConverted() {
		return ErrAlreadyConverted
	}

	return s.repo.UpdateStatus(ctx, id, status, notes, reason)
}

// Convert creates a draft institution from the lead
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*institution.Institution, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted() {
		return nil, ErrAlreadyConverted
	}
	if lead.Status == StatusRejected {
		return nil, ErrCannotConvert
	}

	inst, err := s.institutions.Create(ctx, &institution.CreateRequest{
		Type:    string(lead.InstitutionType),
		NameUz:  lead.InstitutionName,
		Region:  lead.Region,
		Phone:   lead.ContactPhone,
		Email:   lead.ContactEmail,
		Website: lead.Website.String,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkConverted(ctx, id, inst.ID); err != nil {
		if delErr := s.institutions.Delete(ctx, inst.ID); delErr != nil {
			log.Warn().Err(delErr).Str("institution_id", inst.ID.String()).Msg("Draft from failed lead conversion not removed")
		}
		return nil, err
	}

	log.Info().
		Str("lead_id", id.String()).
		Str("institution_id", inst.ID.String()).
		Msg("Lead converted to draft institution")

	return inst, nil
}

// GetStats returns lead counts by status
func (s *Service) GetStats(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}
