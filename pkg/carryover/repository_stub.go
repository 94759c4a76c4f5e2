package carryover

import (
	"context"
	"errors"

	"github.com/phk910805/overtime-sub000/internal/utils"
)

type stubKey struct {
	orgId      int
	employeeId int
	month      utils.Month
}

type StubRepository struct {
	nextId int
	data   map[stubKey]Record
	// FailUpsert makes the next Upsert return an error, for testing the
	// persistence-failure path.
	FailUpsert bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[stubKey]Record{}}
}

func (s *StubRepository) Find(ctx context.Context, orgId int, employeeId int, month utils.Month) (Record, error) {
	record, ok := s.data[stubKey{orgId, employeeId, month}]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (s *StubRepository) Upsert(ctx context.Context, orgId int, record Record) error {
	if s.FailUpsert {
		return errors.New("stub: upsert failed")
	}
	key := stubKey{orgId, record.EmployeeID, record.Month}
	if existing, ok := s.data[key]; ok {
		record.ID = existing.ID
	} else {
		s.nextId++
		record.ID = s.nextId
	}
	s.data[key] = record
	return nil
}

func (s *StubRepository) GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Record, error) {
	var records []Record
	for key, record := range s.data {
		if key.orgId == orgId && key.month == month {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[stubKey]Record{}
	s.FailUpsert = false
}
