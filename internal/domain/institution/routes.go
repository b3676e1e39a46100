package institution

import (
	"github.com/go-chi/chi/v5"

	"github.com/edumap/edumap-api/internal/domain/admin"
)

// PublicRoutes returns the catalog router. subs are mounted under /{slug}.
func (h *Handler) PublicRoutes(subs ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Route("/{slug}", func(r chi.Router) {
		r.Get("/", h.GetBySlug)
		for _, sub := range subs {
			sub(r)
		}
	})

	return r
}

// AdminRoutes registers back-office routes. subs are mounted under /institutions/{id}.
func (h *Handler) AdminRoutes(subs ...func(chi.Router)) func(chi.Router) {
	view := admin.RequirePermission(admin.PermViewInstitutions)
	edit := admin.RequirePermission(admin.PermEditInstitutions)

	return func(r chi.Router) {
		r.Route("/institutions", func(r chi.Router) {
			r.With(view).Get("/", h.AdminList)
			r.With(edit).Post("/", h.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.With(view).Get("/", h.AdminGet)
				r.With(edit).Patch("/", h.Update)
				r.With(edit).Delete("/", h.Delete)
				r.With(edit).Post("/publish", h.Publish)
				r.With(edit).Post("/unpublish", h.Unpublish)
				r.With(edit).Post("/verify", h.Verify)

				for _, sub := range subs {
					sub(r)
				}
			})
		})
	}
}
