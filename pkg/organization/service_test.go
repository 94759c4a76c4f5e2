package organization

import (
	"context"
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = &utils.MockClock{FixedNow: time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (*ServiceImpl, *StubRepository, *employee.StubEmployeeRepo, func()) {
	repo := NewStubRepository()
	employeeRepo := employee.NewStubEmployeeRepo()
	service := NewService(repo, employeeRepo, 14, clock)
	return service, repo, employeeRepo, func() {
		t.Log("Teardown after test")
		repo.Cleanup()
		employeeRepo.Cleanup()
	}
}

func TestBootstrap(t *testing.T) {
	service, _, employeeRepo, teardown := setup(t)
	defer teardown()

	org, admin, err := service.Bootstrap(context.Background(), "Acme", "Edna Admin")
	require.NoError(t, err)

	assert.NotEmpty(t, org.Uid)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, StatusTrial, org.Status)
	assert.Equal(t, clock.Now().AddDate(0, 0, 14), org.TrialEndsAt)

	assert.Equal(t, org.ID, admin.OrgID)
	assert.Equal(t, employee.RoleAdmin, admin.Role)
	assert.True(t, admin.Active)

	stored, err := employeeRepo.FindById(context.Background(), org.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edna Admin", stored.DisplayName)
}

func TestGetCurrent(t *testing.T) {
	service, _, _, teardown := setup(t)
	defer teardown()

	org, admin, err := service.Bootstrap(context.Background(), "Acme", "Edna Admin")
	require.NoError(t, err)

	ctx := employee.WithEmployee(context.Background(), admin)
	current, err := service.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, org.ID, current.ID)
	assert.Equal(t, "Acme", current.Name)

	_, err = service.GetCurrent(context.Background())
	assert.Error(t, err)
}

func TestTrialDaysLeft(t *testing.T) {
	org := Organization{TrialEndsAt: clock.Now().AddDate(0, 0, 3)}
	assert.Equal(t, 3, TrialDaysLeft(org, clock.Now()))

	expired := Organization{TrialEndsAt: clock.Now().AddDate(0, 0, -2)}
	assert.Equal(t, -2, TrialDaysLeft(expired, clock.Now()))
}
