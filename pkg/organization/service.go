package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
)

type Service interface {
	// Bootstrap creates a new organization together with its first admin
	// employee. It is the only unauthenticated write in the API.
	Bootstrap(ctx context.Context, orgName string, adminName string) (Organization, employee.Employee, error)
	GetCurrent(ctx context.Context) (Organization, error)
	Get(ctx context.Context, id int) (Organization, error)
}

type ServiceImpl struct {
	repo         Repository
	employeeRepo employee.EmployeeRepo
	trialDays    int
	clock        utils.Clock
}

func NewService(repo Repository, employeeRepo employee.EmployeeRepo, trialDays int, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, employeeRepo: employeeRepo, trialDays: trialDays, clock: clock}
}

func (s *ServiceImpl) Bootstrap(ctx context.Context, orgName string, adminName string) (Organization, employee.Employee, error) {
	now := s.clock.Now()
	org := Organization{
		Uid:         uuid.NewString(),
		Name:        orgName,
		Status:      StatusTrial,
		TrialEndsAt: now.AddDate(0, 0, s.trialDays),
		CreatedAt:   now,
	}
	orgId, err := s.repo.Store(ctx, org)
	if err != nil {
		return Organization{}, employee.Employee{}, err
	}
	org.ID = orgId

	admin := employee.Employee{
		Uid:         uuid.NewString(),
		OrgID:       orgId,
		DisplayName: adminName,
		Role:        employee.RoleAdmin,
		Active:      true,
		CreatedAt:   now,
	}
	adminId, err := s.employeeRepo.Store(ctx, admin)
	if err != nil {
		return Organization{}, employee.Employee{}, fmt.Errorf("organization created but admin could not be stored: %w", err)
	}
	admin.ID = adminId

	return org, admin, nil
}

func (s *ServiceImpl) GetCurrent(ctx context.Context) (Organization, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return Organization{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.FindById(ctx, orgId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Organization, error) {
	return s.repo.FindById(ctx, id)
}

// TrialDaysLeft returns the number of whole days of trial remaining as of now.
// Negative values mean the trial ended that many days ago.
func TrialDaysLeft(org Organization, now time.Time) int {
	return int(org.TrialEndsAt.Sub(now).Hours() / 24)
}
