package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/model"
	"github.com/polarhive/timetable-backend/internal/timetable"
)

// CompareService computes free-period overlaps between two timetables,
// either scraped live or loaded from the store.
type CompareService struct {
	timetables *TimetableService
	log        zerolog.Logger
}

func NewCompareService(timetables *TimetableService, log zerolog.Logger) *CompareService {
	return &CompareService{
		timetables: timetables,
		log:        log.With().Str("component", "compare_service").Logger(),
	}
}

// CompareLive scrapes both users' timetables and compares them. Portal
// sessions run sequentially, one credential pair at a time.
func (s *CompareService) CompareLive(ctx context.Context, user1, user2 model.CompareUser) (timetable.ComparisonResult, error) {
	grid1, err := s.timetables.FetchGrid(ctx, user1.Username, user1.Password)
	if err != nil {
		return timetable.ComparisonResult{}, err
	}
	grid2, err := s.timetables.FetchGrid(ctx, user2.Username, user2.Password)
	if err != nil {
		return timetable.ComparisonResult{}, err
	}
	return timetable.Compare(grid1, grid2), nil
}

// CompareStored compares two timetables already in the store.
func (s *CompareService) CompareStored(ctx context.Context, name1, name2 string) (timetable.ComparisonResult, error) {
	grid1, err := s.timetables.GetStored(ctx, name1)
	if err != nil {
		return timetable.ComparisonResult{}, err
	}
	grid2, err := s.timetables.GetStored(ctx, name2)
	if err != nil {
		return timetable.ComparisonResult{}, err
	}
	return timetable.Compare(grid1, grid2), nil
}
