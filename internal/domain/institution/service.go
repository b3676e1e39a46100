package institution

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles institution business logic
type Service struct {
	repo Repository
}

// NewService creates institution service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a draft institution with a generated unique slug
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Institution, error) {
	t := Type(req.Type)
	if !t.IsValid() {
		return nil, ErrInvalidType
	}

	slug, err := s.uniqueSlug(ctx, slugBase(req.NameEn, req.NameRu, req.NameUz))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inst := &Institution{
		ID:        uuid.New(),
		Slug:      slug,
		Type:      t,
		NameUz:    req.NameUz,
		NameRu:    req.NameRu,
		NameEn:    req.NameEn,
		Region:    req.Region,
		District:  nullString(req.District),
		Address:   nullString(req.Address),
		Phone:     nullString(req.Phone),
		Email:     nullString(req.Email),
		Website:   nullString(req.Website),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(ctx, inst)
	if errors.Is(err, ErrSlugTaken) {
		// Lost a race on the slug, retry once with a suffix
		inst.Slug = withSuffix(slug)
		err = s.repo.Create(ctx, inst)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("institution_id", inst.ID.String()).Str("slug", inst.Slug).Msg("Institution created")
	return inst, nil
}

func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return withSuffix(base), nil
}

func withSuffix(base string) string {
	return base + "-" + uuid.NewString()[:8]
}

// GetByID returns an institution regardless of status
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Institution, error) {
	inst, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstitutionNotFound
	}
	return inst, nil
}

// GetPublished returns a published institution by slug
func (s *Service) GetPublished(ctx context.Context, slug string) (*Institution, error) {
	inst, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if inst == nil || !inst.IsPublished() {
		return nil, ErrInstitutionNotFound
	}
	return inst, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Institution, error) {
	inst, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		t := Type(*req.Type)
		if !t.IsValid() {
			return nil, ErrInvalidType
		}
		inst.Type = t
	}
	if req.NameUz != nil {
		inst.NameUz = *req.NameUz
	}
	if req.NameRu != nil {
		inst.NameRu = *req.NameRu
	}
	if req.NameEn != nil {
		inst.NameEn = *req.NameEn
	}
	if req.Region != nil {
		inst.Region = *req.Region
	}
	if req.District != nil {
		inst.District = nullString(*req.District)
	}
	if req.Address != nil {
		inst.Address = nullString(*req.Address)
	}
	if req.Phone != nil {
		inst.Phone = nullString(*req.Phone)
	}
	if req.Email != nil {
		inst.Email = nullString(*req.Email)
	}
	if req.Website != nil {
		inst.Website = nullString(*req.Website)
	}

	if err := s.repo.Update(ctx, inst); err != nil {
		return nil, err
	}
	inst.UpdatedAt = time.Now()
	return inst, nil
}

// Delete removes an institution and, by cascade, its sections
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Publish makes the institution visible once its profile is complete enough
func (s *Service) Publish(ctx context.Context, id uuid.UUID) (*Institution, error) {
	inst, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inst.CanPublish() {
		return nil, ErrNotReadyToPublish
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusPublished); err != nil {
		return nil, err
	}
	inst.Status = StatusPublished
	return inst, nil
}

// Unpublish returns the institution to draft
func (s *Service) Unpublish(ctx context.Context, id uuid.UUID) (*Institution, error) {
	inst, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusDraft); err != nil {
		return nil, err
	}
	inst.Status = StatusDraft
	return inst, nil
}

// Verify sets the verified badge
func (s *Service) Verify(ctx context.Context, id uuid.UUID, verified bool) (*Institution, error) {
	inst, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	inst.IsVerified = verified
	return inst, nil
}

// ListPublic lists published institutions only
func (s *Service) ListPublic(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Institution, int, error) {
	published := StatusPublished
	filter.Status = &published
	return s.repo.List(ctx, filter, pagination)
}

// ListAdmin lists institutions of any status
func (s *Service) ListAdmin(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Institution, int, error) {
	return s.repo.List(ctx, filter, pagination)
}
