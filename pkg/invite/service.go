package invite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	log "github.com/sirupsen/logrus"
)

const inviteValidity = 7 * 24 * time.Hour

type Service interface {
	Create(ctx context.Context, displayName string, role employee.Role) (Invite, error)
	GetAll(ctx context.Context) ([]Invite, error)
	// Accept burns the code and creates the employee it was issued for.
	// It is unauthenticated: the code itself is the credential.
	Accept(ctx context.Context, code string) (employee.Employee, error)
}

type ServiceImpl struct {
	repo         Repository
	employeeRepo employee.EmployeeRepo
	clock        utils.Clock
}

func NewService(repo Repository, employeeRepo employee.EmployeeRepo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, employeeRepo: employeeRepo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, displayName string, role employee.Role) (Invite, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return Invite{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return Invite{}, employee.ErrNotAdmin
	}
	if role != employee.RoleAdmin && role != employee.RoleMember {
		role = employee.RoleMember
	}

	now := s.clock.Now()
	invite := Invite{
		OrgID:       current.OrgID,
		Code:        uuid.NewString(),
		DisplayName: displayName,
		Role:        role,
		CreatedBy:   current.ID,
		ExpiresAt:   now.Add(inviteValidity),
		CreatedAt:   now,
	}
	id, err := s.repo.Store(ctx, invite)
	if err != nil {
		return Invite{}, err
	}
	invite.ID = id
	log.Infof("invite %d created for %q (%s) in org %d", id, displayName, role, current.OrgID)
	return invite, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Invite, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return nil, employee.ErrNotAdmin
	}
	return s.repo.GetAll(ctx, current.OrgID)
}

func (s *ServiceImpl) Accept(ctx context.Context, code string) (employee.Employee, error) {
	invite, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return employee.Employee{}, err
	}
	if invite.Used {
		return employee.Employee{}, ErrUsed
	}
	if s.clock.Now().After(invite.ExpiresAt) {
		return employee.Employee{}, ErrExpired
	}

	// Burn before creating so a concurrent accept of the same code loses
	// on the used=0 guard instead of creating a second employee.
	burned, err := s.repo.MarkUsed(ctx, invite.ID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !burned {
		return employee.Employee{}, ErrUsed
	}

	newEmployee := employee.Employee{
		Uid:         uuid.NewString(),
		OrgID:       invite.OrgID,
		DisplayName: invite.DisplayName,
		Role:        invite.Role,
		Active:      true,
		CreatedAt:   s.clock.Now(),
	}
	id, err := s.employeeRepo.Store(ctx, newEmployee)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("invite burned but employee could not be stored: %w", err)
	}
	newEmployee.ID = id
	log.Infof("invite %d accepted, employee %d joined org %d", invite.ID, id, invite.OrgID)
	return newEmployee, nil
}
