package section

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/pkg/errorhandler"
	"github.com/edumap/edumap-api/internal/pkg/response"
)

// Handler handles section HTTP requests
type Handler struct {
	service *Service
	audit   institution.Auditor
}

// NewHandler creates section handler
func NewHandler(service *Service, audit institution.Auditor) *Handler {
	return &Handler{service: service, audit: audit}
}

// Get handles GET /api/admin/institutions/{id}/sections/{section}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, section, ok := parseParams(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Get(r.Context(), id, section)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, RecordResponseFromEntity(rec))
}

// Put handles PUT /api/admin/institutions/{id}/sections/{section}
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	id, section, ok := parseParams(w, r)
	if !ok {
		return
	}

	var data completeness.Data
	if err := response.DecodeJSON(r.Body, &data); err != nil {
		response.BadRequest(w, "Body must be a JSON object of field values")
		return
	}

	adminID := admin.GetAdminID(r.Context())
	rec, overall, err := h.service.Save(r.Context(), adminID, id, section, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), adminID, "section.update", "institution", id, nil, map[string]any{
		"section": section,
		"score":   rec.Score,
		"overall": overall,
	})

	response.OK(w, &SaveResponse{
		Record:  RecordResponseFromEntity(rec),
		Overall: overall,
	})
}

// Progress handles GET /api/admin/institutions/{id}/progress
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid institution ID")
		return
	}

	progress, err := h.service.Progress(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, progress)
}

// GetPublished handles GET /api/v1/institutions/{slug}/sections/{section}
func (h *Handler) GetPublished(w http.ResponseWriter, r *http.Request) {
	section, err := completeness.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		response.BadRequest(w, "Invalid section")
		return
	}

	rec, err := h.service.GetPublished(r.Context(), chi.URLParam(r, "slug"), section)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, RecordResponseFromEntity(rec))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var payloadErr *PayloadError
	switch {
	case errors.As(err, &payloadErr):
		response.ValidationError(w, payloadErr.Fields)
	case errors.Is(err, ErrInstitutionNotFound):
		response.NotFound(w, "Institution not found")
	case errors.Is(err, completeness.ErrInvalidSection):
		response.BadRequest(w, "Invalid section")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}

func parseParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, completeness.Section, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid institution ID")
		return uuid.Nil, "", false
	}
	section, err := completeness.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		response.BadRequest(w, "Invalid section")
		return uuid.Nil, "", false
	}
	return id, section, true
}
