package lead

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/pkg/errorhandler"
	"github.com/edumap/edumap-api/internal/pkg/response"
	"github.com/edumap/edumap-api/internal/pkg/validator"
)

// Handler handles lead HTTP requests
type Handler struct {
	svc   *Service
	audit institution.Auditor
}

// NewHandler creates lead handler
func NewHandler(svc *Service, audit institution.Auditor) *Handler {
	return &Handler{svc: svc, audit: audit}
}

// SubmitLead handles POST /api/v1/leads (public)
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	lead, err := h.svc.SubmitLead(r.Context(), &req, clientIP(r))
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.Created(w, &LeadSubmittedResponse{
		LeadID:  lead.ID,
		Message: "Thank you! Our team will review the request and contact you.",
	})
}

// List handles GET /api/admin/leads
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	page := 1

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := Status(s)
		status = &st
	}

	leads, total, err := h.svc.ListLeads(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]*LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToResponse(lead)
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// GetByID handles GET /api/admin/leads/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, ToResponse(lead))
}

// UpdateStatus handles PATCH /api/admin/leads/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, Status(req.Status), req.Notes, req.RejectionReason); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "lead.status", "lead", id, nil, req)
	response.OK(w, map[string]string{"status": req.Status})
}

// Convert handles POST /api/admin/leads/{id}/convert
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	inst, err := h.svc.Convert(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), admin.GetAdminID(r.Context()), "lead.convert", "institution", inst.ID, nil, map[string]any{
		"lead_id": id,
		"slug":    inst.Slug,
	})

	response.Created(w, &ConvertResponse{
		LeadID:        id,
		InstitutionID: inst.ID,
		Slug:          inst.Slug,
	})
}

// Stats handles GET /api/admin/leads/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.NotFound(w, "Lead not found")
	case errors.Is(err, ErrAlreadyConverted):
		response.Conflict(w, "Lead is already converted")
	case errors.Is(err, ErrCannotConvert):
		response.BadRequest(w, "Rejected leads cannot be converted")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "Invalid status")
	case errors.Is(err, institution.ErrSlugTaken):
		response.Conflict(w, "Slug already in use")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid lead ID")
		return uuid.Nil, false
	}
	return id, true
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
