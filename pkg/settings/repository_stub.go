package settings

import (
	"context"

	"github.com/phk910805/overtime-sub000/internal/utils"
)

type stubKey struct {
	orgId int
	month utils.Month
}

type StubRepository struct {
	nextId int
	data   map[stubKey]MonthlySettings
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[stubKey]MonthlySettings{}}
}

func (s *StubRepository) Upsert(ctx context.Context, orgId int, settings MonthlySettings) error {
	key := stubKey{orgId, utils.Month{Year: settings.Year, Month: settings.Month}}
	if existing, ok := s.data[key]; ok {
		settings.ID = existing.ID
	} else {
		s.nextId++
		settings.ID = s.nextId
	}
	s.data[key] = settings
	return nil
}

func (s *StubRepository) Find(ctx context.Context, orgId int, month utils.Month) (MonthlySettings, error) {
	settings, ok := s.data[stubKey{orgId, month}]
	if !ok {
		return MonthlySettings{}, ErrNotFound
	}
	return settings, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[stubKey]MonthlySettings{}
}
