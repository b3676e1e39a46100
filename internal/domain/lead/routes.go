package lead

import (
	"github.com/go-chi/chi/v5"

	"github.com/edumap/edumap-api/internal/domain/admin"
)

// PublicRoutes returns the router mounted at /api/v1/leads
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SubmitLead)
	return r
}

// AdminRoutes registers /leads inside the admin group
func (h *Handler) AdminRoutes(r chi.Router) {
	view := admin.RequirePermission(admin.PermViewInstitutions)
	edit := admin.RequirePermission(admin.PermEditInstitutions)

	r.Route("/leads", func(r chi.Router) {
		r.With(view).Get("/", h.List)
		r.With(view).Get("/stats", h.Stats)

		r.Route("/{id}", func(r chi.Router) {
			r.With(view).Get("/", h.GetByID)
			r.With(edit).Patch("/status", h.UpdateStatus)
			r.With(edit).Post("/convert", h.Convert)
		})
	})
}
