package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edumap/edumap-api/internal/config"
	"github.com/edumap/edumap-api/internal/domain/media"
	"github.com/edumap/edumap-api/internal/pkg/database"
	"github.com/edumap/edumap-api/internal/pkg/logger"
	"github.com/edumap/edumap-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Msg("Starting EduMap API")

	db, err := database.NewPostgres(cfg.DatabaseURL, database.DefaultPoolOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	store, err := storage.New(cfg.StorageConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Shared cache when Redis is configured, otherwise per-process
	var urlCache media.URLCache
	if redisClient != nil {
		urlCache = media.NewRedisCache(redisClient, "edumap:media:url:")
	} else {
		mem := media.NewMemoryCache()
		go mem.RunJanitor(ctx, 10*time.Minute)
		urlCache = mem
	}

	router := newRouter(cfg, db, store, urlCache)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
