package institution

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/pkg/errorhandler"
	"github.com/edumap/edumap-api/internal/pkg/response"
	"github.com/edumap/edumap-api/internal/pkg/validator"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Auditor records back-office changes
type Auditor interface {
	LogAction(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValue, newValue interface{})
}

// Handler handles institution HTTP requests
type Handler struct {
	service *Service
	audit   Auditor
}

// NewHandler creates institution handler
func NewHandler(service *Service, audit Auditor) *Handler {
	return &Handler{service: service, audit: audit}
}

// List handles GET /api/v1/institutions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	pagination := parsePagination(r)

	items, total, err := h.service.ListPublic(r.Context(), filter, pagination)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	writeList(w, items, total, pagination)
}

// GetBySlug handles GET /api/v1/institutions/{slug}
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	inst, err := h.service.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(inst))
}

// AdminList handles GET /api/admin/institutions
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	if s := query.Get("status"); s != "" {
		status := Status(s)
		filter.Status = &status
	}
	if mc := query.Get("min_completeness"); mc != "" {
		if v, err := strconv.Atoi(mc); err == nil {
			filter.MinCompleteness = &v
		}
	}
	pagination := parsePagination(r)

	items, total, err := h.service.ListAdmin(r.Context(), filter, pagination)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	writeList(w, items, total, pagination)
}

// AdminGet handles GET /api/admin/institutions/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	inst, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(inst))
}

// Create handles POST /api/admin/institutions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	inst, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "institution.create", "institution", inst.ID, nil, inst)
	response.Created(w, ResponseFromEntity(inst))
}

// Update handles PATCH /api/admin/institutions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	inst, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "institution.update", "institution", id, nil, req)
	response.OK(w, ResponseFromEntity(inst))
}

// Delete handles DELETE /api/admin/institutions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "institution.delete", "institution", id, nil, nil)
	response.NoContent(w)
}

// Publish handles POST /api/admin/institutions/{id}/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "institution.publish", h.service.Publish)
}

// Unpublish handles POST /api/admin/institutions/{id}/unpublish
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "institution.unpublish", h.service.Unpublish)
}

func (h *Handler) statusChange(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, uuid.UUID) (*Institution, error)) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	inst, err := fn(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), action, "institution", id, nil, map[string]string{"status": string(inst.Status)})
	response.OK(w, ResponseFromEntity(inst))
}

// Verify handles POST /api/admin/institutions/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req := VerifyRequest{Verified: true}
	if r.ContentLength > 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}

	inst, err := h.service.Verify(r.Context(), id, req.Verified)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "institution.verify", "institution", id, nil, req)
	response.OK(w, ResponseFromEntity(inst))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInstitutionNotFound):
		response.NotFound(w, "Institution not found")
	case errors.Is(err, ErrInvalidType):
		response.BadRequest(w, "Invalid institution type")
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(w, "Slug already in use")
	case errors.Is(err, ErrNotReadyToPublish):
		response.Error(w, http.StatusUnprocessableEntity, "NOT_READY_TO_PUBLISH",
			"Profile completeness must be at least "+strconv.Itoa(MinPublishCompleteness)+"% to publish")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid institution ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseFilter(w http.ResponseWriter, r *http.Request) (*Filter, bool) {
	filter := &Filter{}
	query := r.URL.Query()

	if t := query.Get("type"); t != "" {
		typ := Type(t)
		if !typ.IsValid() {
			response.BadRequest(w, "Invalid institution type")
			return nil, false
		}
		filter.Type = &typ
	}
	if region := query.Get("region"); region != "" {
		filter.Region = &region
	}
	if district := query.Get("district"); district != "" {
		filter.District = &district
	}
	if q := query.Get("q"); q != "" {
		filter.Query = &q
	}
	if v := query.Get("verified"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Verified = &b
		}
	}

	return filter, true
}

func parsePagination(r *http.Request) *Pagination {
	query := r.URL.Query()
	page := 1
	limit := defaultLimit
	if p := query.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := query.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, maxLimit)
		}
	}
	return &Pagination{Page: page, Limit: limit}
}

func writeList(w http.ResponseWriter, items []*Institution, total int, p *Pagination) {
	out := make([]*InstitutionResponse, len(items))
	for i, inst := range items {
		out[i] = ResponseFromEntity(inst)
	}
	response.WithMeta(w, out, response.NewMeta(total, p.Page, p.Limit))
}
