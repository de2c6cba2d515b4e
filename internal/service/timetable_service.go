package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/model"
	"github.com/polarhive/timetable-backend/internal/timetable"
)

// Portal is one authenticated scraping session against the academy portal.
type Portal interface {
	Login(ctx context.Context) error
	FetchTimetable(ctx context.Context) (model.RawWeek, error)
	Logout(ctx context.Context)
}

// PortalFactory builds a fresh portal session for one credential pair.
type PortalFactory func(username, password string) Portal

// TimetableStore is the persistence surface the service needs.
type TimetableStore interface {
	Upsert(ctx context.Context, name string, grid model.WeekGrid) error
	GetByName(ctx context.Context, name string) (model.WeekGrid, error)
	List(ctx context.Context) ([]model.StoredTimetable, error)
}

// TimetableService fetches live timetables from the portal, normalizes them,
// and serves the stored collection with a Redis read-through cache.
type TimetableService struct {
	newPortal PortalFactory
	store     TimetableStore
	rdb       *redis.Client
	cacheTTL  time.Duration
	log       zerolog.Logger
}

func NewTimetableService(newPortal PortalFactory, store TimetableStore, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *TimetableService {
	return &TimetableService{
		newPortal: newPortal,
		store:     store,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
		log:       log.With().Str("component", "timetable_service").Logger(),
	}
}

// FetchGrid logs into the portal, scrapes the weekly timetable, and returns
// the normalized grid without persisting anything.
func (s *TimetableService) FetchGrid(ctx context.Context, username, password string) (model.WeekGrid, error) {
	portal := s.newPortal(username, password)
	if err := portal.Login(ctx); err != nil {
		return model.WeekGrid{}, err
	}
	defer portal.Logout(ctx)

	raw, err := portal.FetchTimetable(ctx)
	if err != nil {
		return model.WeekGrid{}, err
	}
	return timetable.Normalize(raw)
}

// FetchAndStore scrapes a live timetable, derives its canonical name, and
// upserts the grid into the store. Cache entries for the name are refreshed.
func (s *TimetableService) FetchAndStore(ctx context.Context, username, password string) (string, model.WeekGrid, error) {
	grid, err := s.FetchGrid(ctx, username, password)
	if err != nil {
		return "", model.WeekGrid{}, err
	}

	name := timetable.DeriveName(username, grid.Meta)
	if err := s.store.Upsert(ctx, name, grid); err != nil {
		return "", model.WeekGrid{}, err
	}
	s.cacheSet(ctx, name, grid)

	s.log.Info().
		Str("name", name).
		Int("days", len(grid.Schedule)).
		Msg("Timetable stored")
	return name, grid, nil
}

// GetStored loads one stored timetable, consulting the cache first.
func (s *TimetableService) GetStored(ctx context.Context, name string) (model.WeekGrid, error) {
	if grid, ok := s.cacheGet(ctx, name); ok {
		return grid, nil
	}

	grid, err := s.store.GetByName(ctx, name)
	if err != nil {
		return model.WeekGrid{}, err
	}
	s.cacheSet(ctx, name, grid)
	return grid, nil
}

// ListStored returns the index of stored timetables.
func (s *TimetableService) ListStored(ctx context.Context) ([]model.StoredTimetable, error) {
	return s.store.List(ctx)
}

func cacheKey(name string) string {
	return "timetable:" + name
}

func (s *TimetableService) cacheGet(ctx context.Context, name string) (model.WeekGrid, bool) {
	if s.rdb == nil {
		return model.WeekGrid{}, false
	}
	data, err := s.rdb.Get(ctx, cacheKey(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn().Err(err).Str("name", name).Msg("Cache read failed")
		}
		return model.WeekGrid{}, false
	}
	var grid model.WeekGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		return model.WeekGrid{}, false
	}
	return grid, true
}

func (s *TimetableService) cacheSet(ctx context.Context, name string, grid model.WeekGrid) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(grid)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(name), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("Cache write failed")
	}
}
