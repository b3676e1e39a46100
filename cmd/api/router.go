package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edumap/edumap-api/internal/config"
	"github.com/edumap/edumap-api/internal/domain/admin"
	"github.com/edumap/edumap-api/internal/domain/dashboard"
	"github.com/edumap/edumap-api/internal/domain/institution"
	"github.com/edumap/edumap-api/internal/domain/lead"
	"github.com/edumap/edumap-api/internal/domain/media"
	"github.com/edumap/edumap-api/internal/domain/section"
	"github.com/edumap/edumap-api/internal/middleware"
	"github.com/edumap/edumap-api/internal/pkg/imaging"
	"github.com/edumap/edumap-api/internal/pkg/response"
	"github.com/edumap/edumap-api/internal/pkg/storage"
)

const version = "1.0.0"

func newRouter(cfg *config.Config, db *sqlx.DB, store storage.Backend, urlCache media.URLCache) http.Handler {
	// ---------- Repositories ----------
	institutionRepo := institution.NewRepository(db)
	sectionRepo := section.NewRepository(db)
	adminRepo := admin.NewRepository(db)
	leadRepo := lead.NewRepository(db)

	// ---------- Services ----------
	adminService := admin.NewService(adminRepo)
	adminJWTService := admin.NewJWTService(cfg.AdminJWTSecret, cfg.AdminJWTTTL)
	institutionService := institution.NewService(institutionRepo)
	sectionService := section.NewService(sectionRepo, institutionRepo)
	leadService := lead.NewService(leadRepo, institutionService)
	dashboardService := dashboard.NewService(db)
	mediaService := media.NewService(store, urlCache, imaging.NewProcessor(imaging.DefaultConfig()), institutionRepo, sectionService, cfg.MediaURLTTL)

	// ---------- Handlers ----------
	adminHandler := admin.NewHandler(adminService, adminJWTService)
	institutionHandler := institution.NewHandler(institutionService, adminService)
	sectionHandler := section.NewHandler(sectionService, adminService)
	mediaHandler := media.NewHandler(mediaService, adminService)
	leadHandler := lead.NewHandler(leadService, adminService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "unavailable"
		}
		response.OK(w, map[string]string{
			"status":   "ok",
			"version":  version,
			"database": dbStatus,
		})
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.StorageDriver == "local" || cfg.StorageDriver == "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.LocalStoragePath)))
		r.Handle("/media/*", fs)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			response.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/institutions", institutionHandler.PublicRoutes(sectionHandler.PublicRoutes))
		r.Mount("/storage", mediaHandler.StorageRoutes())
		r.Mount("/leads", leadHandler.PublicRoutes())
	})

	r.Mount("/api/admin", adminHandler.Routes(
		institutionHandler.AdminRoutes(sectionHandler.AdminRoutes, mediaHandler.AdminRoutes),
		leadHandler.AdminRoutes,
		dashboardHandler.AdminRoutes,
	))

	return r
}
