package organization

import "context"

type StubRepository struct {
	nextId int
	data   map[int]Organization
}

func NewStubRepository() *StubRepository {
	return &StubRepository{nextId: 0, data: map[int]Organization{}}
}

func (s *StubRepository) Store(ctx context.Context, org Organization) (int, error) {
	s.nextId++
	org.ID = s.nextId
	s.data[org.ID] = org
	return org.ID, nil
}

func (s *StubRepository) FindById(ctx context.Context, id int) (Organization, error) {
	org, ok := s.data[id]
	if !ok {
		return Organization{}, ErrNotFound
	}
	return org, nil
}

func (s *StubRepository) UpdateStatus(ctx context.Context, id int, status Status) (bool, error) {
	org, ok := s.data[id]
	if !ok {
		return false, nil
	}
	org.Status = status
	s.data[id] = org
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Organization{}
}
