package timeentry

import (
	"context"

	"github.com/phk910805/overtime-sub000/internal/utils"
)

type StubEntryRepo struct {
	nextId int
	orgIds map[int]int
	data   map[int]Entry
}

func NewStubEntryRepo() *StubEntryRepo {
	return &StubEntryRepo{orgIds: map[int]int{}, data: map[int]Entry{}}
}

func (s *StubEntryRepo) StoreEntry(ctx context.Context, orgId int, entry Entry) (Entry, error) {
	s.nextId++
	entry.ID = s.nextId
	s.data[entry.ID] = entry
	s.orgIds[entry.ID] = orgId
	return entry, nil
}

func (s *StubEntryRepo) GetForMonth(ctx context.Context, orgId int, employeeId int, month utils.Month) ([]Entry, error) {
	var entries []Entry
	for id, e := range s.data {
		if s.orgIds[id] == orgId && e.EmployeeID == employeeId && month.Contains(e.Date) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *StubEntryRepo) GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Entry, error) {
	var entries []Entry
	for id, e := range s.data {
		if s.orgIds[id] == orgId && month.Contains(e.Date) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *StubEntryRepo) FindById(ctx context.Context, orgId int, id int) (Entry, error) {
	e, ok := s.data[id]
	if !ok || s.orgIds[id] != orgId {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *StubEntryRepo) UpdateStatus(ctx context.Context, orgId int, id int, status Status) (bool, error) {
	e, ok := s.data[id]
	if !ok || s.orgIds[id] != orgId {
		return false, nil
	}
	e.Status = status
	s.data[id] = e
	return true, nil
}

func (s *StubEntryRepo) Cleanup() {
	s.data = map[int]Entry{}
	s.orgIds = map[int]int{}
}
