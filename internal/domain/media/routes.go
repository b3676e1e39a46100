package media

import (
	"github.com/go-chi/chi/v5"

	"github.com/edumap/edumap-api/internal/domain/admin"
)

// StorageRoutes returns the router mounted at /api/v1/storage
func (h *Handler) StorageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/batch-urls", h.BatchURLs)
	return r
}

// AdminRoutes registers routes under /institutions/{id}
func (h *Handler) AdminRoutes(r chi.Router) {
	r.With(admin.RequirePermission(admin.PermEditInstitutions)).Post("/media", h.Upload)
}
