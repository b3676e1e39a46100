package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/pkg/errorhandler"
	"github.com/edumap/edumap-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats returns catalog stats
// GET /api/admin/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, stats)
}

// AdminRoutes registers dashboard routes inside the admin group
func (h *Handler) AdminRoutes(r chi.Router) {
	r.With(admin.RequirePermission(admin.PermViewInstitutions)).Get("/dashboard/stats", h.GetStats)
}
