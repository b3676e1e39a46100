package section

import (
	"github.com/go-chi/chi/v5"

	"github.com/edumap/edumap-api/internal/domain/admin"
)

// AdminRoutes registers routes under /institutions/{id}
func (h *Handler) AdminRoutes(r chi.Router) {
	r.With(admin.RequirePermission(admin.PermViewInstitutions)).Get("/progress", h.Progress)
	r.With(admin.RequirePermission(admin.PermViewInstitutions)).Get("/sections/{section}", h.Get)
	r.With(admin.RequirePermission(admin.PermEditInstitutions)).Put("/sections/{section}", h.Put)
}

// PublicRoutes registers routes under /institutions/{slug}
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/sections/{section}", h.GetPublished)
}
