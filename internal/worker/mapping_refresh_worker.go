package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/service"
)

// MappingRefreshWorker keeps the subject-code mapping cache warm so request
// paths never pay the upstream fetch.
type MappingRefreshWorker struct {
	subjects *service.SubjectMapService
	interval time.Duration
	log      zerolog.Logger
}

// NewMappingRefreshWorker creates a new MappingRefreshWorker.
func NewMappingRefreshWorker(subjects *service.SubjectMapService, interval time.Duration, log zerolog.Logger) *MappingRefreshWorker {
	return &MappingRefreshWorker{
		subjects: subjects,
		interval: interval,
		log:      log.With().Str("component", "mapping_refresh_worker").Logger(),
	}
}

// Start begins the refresh loop. Call in a goroutine.
func (w *MappingRefreshWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	// Warm the cache immediately; the ticker covers steady state.
	if _, err := w.subjects.Refresh(ctx); err != nil {
		w.log.Warn().Err(err).Msg("Initial mapping refresh failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if _, err := w.subjects.Refresh(ctx); err != nil {
				w.log.Warn().Err(err).Msg("Mapping refresh failed")
			}
		}
	}
}
