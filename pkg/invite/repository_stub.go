package invite

import "context"

type StubRepository struct {
	nextId int
	data   map[int]Invite
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]Invite{}}
}

func (s *StubRepository) Store(ctx context.Context, invite Invite) (int, error) {
	s.nextId++
	invite.ID = s.nextId
	s.data[invite.ID] = invite
	return invite.ID, nil
}

func (s *StubRepository) GetAll(ctx context.Context, orgId int) ([]Invite, error) {
	var invites []Invite
	for _, invite := range s.data {
		if invite.OrgID == orgId {
			invites = append(invites, invite)
		}
	}
	return invites, nil
}

func (s *StubRepository) FindByCode(ctx context.Context, code string) (Invite, error) {
	for _, invite := range s.data {
		if invite.Code == code {
			return invite, nil
		}
	}
	return Invite{}, ErrNotFound
}

func (s *StubRepository) MarkUsed(ctx context.Context, id int) (bool, error) {
	invite, ok := s.data[id]
	if !ok || invite.Used {
		return false, nil
	}
	invite.Used = true
	s.data[id] = invite
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Invite{}
}
