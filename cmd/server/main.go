package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/config"
	"github.com/polarhive/timetable-backend/internal/database"
	"github.com/polarhive/timetable-backend/internal/handler"
	"github.com/polarhive/timetable-backend/internal/logger"
	"github.com/polarhive/timetable-backend/internal/repository"
	"github.com/polarhive/timetable-backend/internal/router"
	"github.com/polarhive/timetable-backend/internal/scraper"
	"github.com/polarhive/timetable-backend/internal/service"
	"github.com/polarhive/timetable-backend/internal/validator"
	"github.com/polarhive/timetable-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Timetable Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	timetableRepo := repository.NewTimetableRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	newPortal := func(username, password string) service.Portal {
		return scraper.NewClient(cfg.PortalBaseURL, username, password, cfg.PortalTimeout, log)
	}
	timetableService := service.NewTimetableService(newPortal, timetableRepo, rdb, cfg.TimetableTTL, log)
	compareService := service.NewCompareService(timetableService, log)
	calendarService := service.NewCalendarService(log)
	subjectService := service.NewSubjectMapService(cfg.MappingURL, rdb, cfg.MappingTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	timetableHandler := handler.NewTimetableHandler(timetableService, compareService, calendarService, subjectService)

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	mappingWorker := worker.NewMappingRefreshWorker(subjectService, cfg.MappingRefresh, log)
	go mappingWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(timetableHandler, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
