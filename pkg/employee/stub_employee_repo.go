package employee

import (
	"context"
)

type StubEmployeeRepo struct {
	nextId int
	data   map[int]Employee
}

func NewStubEmployeeRepo() *StubEmployeeRepo {
	return &StubEmployeeRepo{nextId: 0, data: map[int]Employee{}}
}

func (s *StubEmployeeRepo) Store(ctx context.Context, e Employee) (int, error) {
	s.nextId++
	e.ID = s.nextId
	s.data[e.ID] = e
	return e.ID, nil
}

func (s *StubEmployeeRepo) GetAll(ctx context.Context, orgId int, includeInactive bool) ([]Employee, error) {
	employees := make([]Employee, 0, len(s.data))
	for _, e := range s.data {
		if e.OrgID != orgId {
			continue
		}
		if e.Active || includeInactive {
			employees = append(employees, e)
		}
	}
	return employees, nil
}

func (s *StubEmployeeRepo) FindById(ctx context.Context, orgId int, id int) (Employee, error) {
	e, ok := s.data[id]
	if !ok || e.OrgID != orgId {
		return Employee{}, ErrNoEmployee
	}
	return e, nil
}

func (s *StubEmployeeRepo) FindByUid(ctx context.Context, uid string) (Employee, error) {
	for _, e := range s.data {
		if e.Uid == uid {
			return e, nil
		}
	}
	return Employee{}, ErrNoEmployee
}

func (s *StubEmployeeRepo) Deactivate(ctx context.Context, orgId int, id int) (bool, error) {
	e, ok := s.data[id]
	if !ok || e.OrgID != orgId {
		return false, nil
	}
	e.Active = false
	s.data[id] = e
	return true, nil
}

func (s *StubEmployeeRepo) Cleanup() {
	s.data = map[int]Employee{}
}
