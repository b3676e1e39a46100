package media

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/domain/section"
	"github.com/edumap/edumap-api/internal/pkg/errorhandler"
	"github.com/edumap/edumap-api/internal/pkg/response"
	"github.com/edumap/edumap-api/internal/pkg/storage"
)

// MaxUploadSize bounds the multipart body, form overhead included
const MaxUploadSize = 11 << 20

// Handler handles media HTTP requests
type Handler struct {
	service *Service
	audit   institution.Auditor
}

// NewHandler creates media handler
func NewHandler(service *Service, audit institution.Auditor) *Handler {
	return &Handler{service: service, audit: audit}
}

// BatchURLs handles POST /api/v1/storage/batch-urls
func (h *Handler) BatchURLs(w http.ResponseWriter, r *http.Request) {
	var req BatchURLsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if len(req.Keys) == 0 {
		response.OK(w, &BatchURLsResponse{URLs: map[string]string{}})
		return
	}

	urls, err := h.service.BatchURLs(r.Context(), req.Keys)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, &BatchURLsResponse{URLs: urls})
}

// Upload handles POST /api/admin/institutions/{id}/media
// Multipart form: file + kind
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid institution ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	kind := Kind(r.FormValue("kind"))
	if kind == "" {
		kind = KindGallery
	}
	if !kind.IsValid() {
		response.BadRequest(w, "Invalid kind. Must be: logo, cover, or gallery")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	adminID := admin.GetAdminID(r.Context())
	result, err := h.service.Upload(r.Context(), adminID, id, kind, header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.audit.LogAction(r.Context(), adminID, "media.upload", "institution", id, nil, map[string]any{
		"kind": string(kind),
		"key":  result.Key,
	})

	response.Created(w, result)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTooManyKeys):
		response.BadRequest(w, "Too many keys, at most 100 per request")
	case errors.Is(err, ErrEmptyKey):
		response.BadRequest(w, "Keys must not be empty")
	case errors.Is(err, ErrInvalidKind):
		response.BadRequest(w, "Invalid kind")
	case errors.Is(err, ErrInstitutionNotFound), errors.Is(err, institution.ErrInstitutionNotFound), errors.Is(err, section.ErrInstitutionNotFound):
		response.NotFound(w, "Institution not found")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "File exceeds maximum size")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "File type not allowed")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	case errors.Is(err, storage.ErrInvalidKey):
		response.BadRequest(w, "Invalid storage key")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}
