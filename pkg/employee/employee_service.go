package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrNotAdmin = errors.New("operation requires admin role")

type Service interface {
	// GetByUid resolves an employee from its public identifier. Used by the
	// identity middleware, so it is not scoped to the context organization.
	GetByUid(ctx context.Context, uid string) (Employee, error)
	GetAll(ctx context.Context, includeInactive bool) ([]Employee, error)
	Get(ctx context.Context, id int) (Employee, error)
	Create(ctx context.Context, displayName string, role Role) (Employee, error)
	Deactivate(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo EmployeeRepo
}

func NewService(repo EmployeeRepo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (Employee, error) {
	return s.repo.FindByUid(ctx, uid)
}

func (s *ServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]Employee, error) {
	orgId, err := CurrentOrgId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.GetAll(ctx, orgId, includeInactive)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Employee, error) {
	orgId, err := CurrentOrgId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.FindById(ctx, orgId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, displayName string, role Role) (Employee, error) {
	current, err := Current(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return Employee{}, ErrNotAdmin
	}
	if role != RoleAdmin && role != RoleMember {
		role = RoleMember
	}

	e := Employee{
		Uid:         uuid.NewString(),
		OrgID:       current.OrgID,
		DisplayName: displayName,
		Role:        role,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	id, err := s.repo.Store(ctx, e)
	if err != nil {
		return Employee{}, err
	}
	e.ID = id
	return e, nil
}

func (s *ServiceImpl) Deactivate(ctx context.Context, id int) (bool, error) {
	current, err := Current(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return false, ErrNotAdmin
	}

	deactivated, err := s.repo.Deactivate(ctx, current.OrgID, id)
	if err != nil {
		return false, err
	}
	if !deactivated {
		log.Warnf("employee not deactivated, probably because it does not exist (%d) in organization (%d)", id, current.OrgID)
		return false, fmt.Errorf("employee not deactivated")
	}
	return true, nil
}
