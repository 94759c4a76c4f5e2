package notification

import "context"

type StubRepository struct {
	nextId int
	orgIds map[int]int
	data   map[int]Notification
}

func NewStubRepository() *StubRepository {
	return &StubRepository{orgIds: map[int]int{}, data: map[int]Notification{}}
}

func (s *StubRepository) Store(ctx context.Context, orgId int, n Notification) (int, error) {
	s.nextId++
	n.ID = s.nextId
	s.data[n.ID] = n
	s.orgIds[n.ID] = orgId
	return n.ID, nil
}

func (s *StubRepository) GetForEmployee(ctx context.Context, orgId int, employeeId int, unreadOnly bool) ([]Notification, error) {
	var notifications []Notification
	for id, n := range s.data {
		if s.orgIds[id] != orgId || n.EmployeeID != employeeId {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (s *StubRepository) MarkRead(ctx context.Context, orgId int, employeeId int, id int) (bool, error) {
	n, ok := s.data[id]
	if !ok || s.orgIds[id] != orgId || n.EmployeeID != employeeId {
		return false, nil
	}
	n.Read = true
	s.data[id] = n
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Notification{}
	s.orgIds = map[int]int{}
}
