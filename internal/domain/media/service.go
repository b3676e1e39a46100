package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/domain/section"
	"github.com/edumap/edumap-api/internal/pkg/imaging"
	"github.com/edumap/edumap-api/internal/pkg/logger"
	"github.com/edumap/edumap-api/internal/pkg/metrics"
	"github.com/edumap/edumap-api/internal/pkg/storage"
)

const (
	// URLExpiry is the lifetime of a presigned URL
	URLExpiry = time.Hour
	// CacheMargin keeps cached URLs from being served right before they expire
	CacheMargin = 5 * time.Minute
	// MaxBatchKeys caps one BatchURLs request
	MaxBatchKeys = 100

	batchConcurrency = 8
)

// Kind is where an uploaded image is used
type Kind string

const (
	KindLogo    Kind = "logo"
	KindCover   Kind = "cover"
	KindGallery Kind = "gallery"
)

// IsValid checks the kind enum
func (k Kind) IsValid() bool {
	switch k {
	case KindLogo, KindCover, KindGallery:
		return true
	}
	return false
}

// Institutions is the part of the institution store uploads depend on
type Institutions interface {
	GetByID(ctx context.Context, id uuid.UUID) (*institution.Institution, error)
	UpdateMediaKey(ctx context.Context, id uuid.UUID, kind, key string) error
}

// Sections keeps the media section in step with uploads
type Sections interface {
	Patch(ctx context.Context, adminID, institutionID uuid.UUID, name completeness.Section, mutate func(completeness.Data)) (*section.Record, int, error)
}

// Service issues media URLs and stores uploads
type Service struct {
	storage      storage.Storage
	presigner    storage.Presigner
	cache        URLCache
	processor    *imaging.Processor
	institutions Institutions
	sections     Sections
	urlExpiry    time.Duration
}

// NewService creates media service. A non-positive urlExpiry falls back to URLExpiry.
func NewService(store storage.Backend, cache URLCache, processor *imaging.Processor, institutions Institutions, sections Sections, urlExpiry time.Duration) *Service {
	if urlExpiry <= 0 {
		urlExpiry = URLExpiry
	}
	return &Service{
		storage:      store,
		presigner:    store,
		cache:        cache,
		processor:    processor,
		institutions: institutions,
		sections:     sections,
		urlExpiry:    urlExpiry,
	}
}

func (s *Service) cacheTTL() time.Duration {
	return s.urlExpiry - CacheMargin
}

// BatchURLs returns a presigned URL per unique key, serving cache hits first
func (s *Service) BatchURLs(ctx context.Context, keys []string) (map[string]string, error) {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return nil, ErrEmptyKey
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	if len(unique) > MaxBatchKeys {
		return nil, ErrTooManyKeys
	}

	urls := make(map[string]string, len(unique))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for _, key := range unique {
		g.Go(func() error {
			url, err := s.resolveURL(gctx, key)
			if err != nil {
				return err
			}
			mu.Lock()
			urls[key] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// resolveURL serves one key from cache or presigns and caches it
func (s *Service) resolveURL(ctx context.Context, key string) (string, error) {
	cached, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.BatchURLCache.WithLabelValues(metrics.CacheError).Inc()
		logger.LogWarn(ctx, "URL cache read failed", "key", key, "error", err.Error())
	case ok:
		metrics.BatchURLCache.WithLabelValues(metrics.CacheHit).Inc()
		return cached, nil
	default:
		metrics.BatchURLCache.WithLabelValues(metrics.CacheMiss).Inc()
	}

	url, err := s.presigner.PresignGet(ctx, key, s.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	if err := s.cache.Set(ctx, key, url, s.cacheTTL()); err != nil {
		metrics.BatchURLCache.WithLabelValues(metrics.CacheError).Inc()
		logger.LogWarn(ctx, "URL cache write failed", "key", key, "error", err.Error())
	}
	return url, nil
}

// Upload validates, resizes and stores an institution image with its thumbnail,
// then records the key on the institution and in its media section
func (s *Service) Upload(ctx context.Context, adminID, institutionID uuid.UUID, kind Kind, filename string, reader io.Reader) (*UploadResult, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstitutionNotFound
	}

	buf, mimeType, err := storage.ValidateAndBuffer(reader, storage.CategoryImage)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("institutions/%s/%s/%s", institutionID, kind, uuid.NewString())
	result := &UploadResult{Kind: kind}

	processed, err := s.processor.Process(bytes.NewReader(buf.Bytes()))
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		// Stored as-is without a thumbnail (webp)
		ext := storage.GetExtensionForMime(mimeType)
		result.Key = base + ext
		result.ContentType = mimeType
		if err := s.storage.Put(ctx, result.Key, buf, mimeType); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		ext := storage.GetExtensionForMime(processed.ContentType)
		result.Key = base + ext
		result.ThumbKey = base + "_thumb" + ext
		result.ContentType = processed.ContentType
		result.Width = processed.Width
		result.Height = processed.Height

		if err := s.storage.Put(ctx, result.Key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
			return nil, err
		}
		if err := s.storage.Put(ctx, result.ThumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
			_ = s.storage.Delete(ctx, result.Key)
			return nil, err
		}
	}

	result.URL = s.storage.GetURL(result.Key)
	if result.ThumbKey != "" {
		result.ThumbURL = s.storage.GetURL(result.ThumbKey)
	}

	if err := s.link(ctx, adminID, institutionID, kind, result.Key); err != nil {
		s.discard(ctx, result)
		return nil, err
	}

	logger.LogInfo(ctx, "Institution media uploaded",
		"institution_id", institutionID.String(),
		"kind", string(kind),
		"key", result.Key,
		"filename", filename,
	)

	return result, nil
}

func (s *Service) link(ctx context.Context, adminID, institutionID uuid.UUID, kind Kind, key string) error {
	if kind == KindLogo || kind == KindCover {
		if err := s.institutions.UpdateMediaKey(ctx, institutionID, string(kind), key); err != nil {
			return err
		}
	}

	_, _, err := s.sections.Patch(ctx, adminID, institutionID, completeness.SectionMedia, func(data completeness.Data) {
		switch kind {
		case KindLogo:
			data["logo_url"] = key
		case KindCover:
			data["cover_image_url"] = key
		default:
			data["photos"] = appendPhoto(data["photos"], key)
		}
	})
	return err
}

// discard removes the stored objects of a failed upload
func (s *Service) discard(ctx context.Context, result *UploadResult) {
	for _, key := range []string{result.Key, result.ThumbKey} {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.LogWarn(ctx, "Orphaned upload not removed", "key", key, "error", err.Error())
		}
	}
}

func appendPhoto(current any, key string) []any {
	switch photos := current.(type) {
	case []any:
		return append(photos, key)
	case []string:
		out := make([]any, 0, len(photos)+1)
		for _, p := range photos {
			out = append(out, p)
		}
		return append(out, key)
	default:
		return []any{key}
	}
}
