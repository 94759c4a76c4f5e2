package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/organization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = &utils.MockClock{FixedNow: time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (*ServiceImpl, *organization.StubRepository, func()) {
	orgRepo := organization.NewStubRepository()
	employeeRepo := employee.NewStubEmployeeRepo()
	orgService := organization.NewService(orgRepo, employeeRepo, 14, clock)
	service := NewService(orgService, orgRepo, clock)
	return service, orgRepo, func() {
		t.Log("Teardown after test")
		orgRepo.Cleanup()
		employeeRepo.Cleanup()
	}
}

func storeOrg(t *testing.T, repo *organization.StubRepository, status organization.Status, trialEndsAt time.Time) context.Context {
	t.Helper()
	orgId, err := repo.Store(context.Background(), organization.Organization{
		Uid:         "org-uid",
		Name:        "Acme",
		Status:      status,
		TrialEndsAt: trialEndsAt,
		CreatedAt:   clock.Now(),
	})
	require.NoError(t, err)
	return employee.WithEmployee(context.Background(), employee.Employee{
		ID: 1, Uid: "admin-uid", OrgID: orgId, DisplayName: "Edna Admin", Role: employee.RoleAdmin, Active: true,
	})
}

func TestCurrent(t *testing.T) {
	t.Run("trial org reports days left", func(t *testing.T) {
		service, orgRepo, teardown := setup(t)
		defer teardown()
		ctx := storeOrg(t, orgRepo, organization.StatusTrial, clock.Now().AddDate(0, 0, 5))

		info, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "trial", info.Status)
		assert.Equal(t, 5, info.DaysLeft)
		assert.True(t, info.Writable)
	})

	t.Run("trial past its end date flips to expired", func(t *testing.T) {
		service, orgRepo, teardown := setup(t)
		defer teardown()
		ctx := storeOrg(t, orgRepo, organization.StatusTrial, clock.Now().AddDate(0, 0, -1))

		info, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "expired", info.Status)
		assert.Equal(t, 0, info.DaysLeft)
		assert.False(t, info.Writable)

		stored, err := orgRepo.FindById(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, organization.StatusExpired, stored.Status)
	})

	t.Run("active org is writable with no trial countdown", func(t *testing.T) {
		service, orgRepo, teardown := setup(t)
		defer teardown()
		ctx := storeOrg(t, orgRepo, organization.StatusActive, clock.Now().AddDate(0, 0, -30))

		info, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "active", info.Status)
		assert.Equal(t, 0, info.DaysLeft)
		assert.True(t, info.Writable)
	})
}

func TestCheckWritable(t *testing.T) {
	t.Run("allows trial org", func(t *testing.T) {
		service, orgRepo, teardown := setup(t)
		defer teardown()
		ctx := storeOrg(t, orgRepo, organization.StatusTrial, clock.Now().AddDate(0, 0, 5))

		assert.NoError(t, service.CheckWritable(ctx))
	})

	t.Run("rejects expired org", func(t *testing.T) {
		service, orgRepo, teardown := setup(t)
		defer teardown()
		ctx := storeOrg(t, orgRepo, organization.StatusExpired, clock.Now().AddDate(0, 0, -30))

		assert.ErrorIs(t, service.CheckWritable(ctx), ErrExpired)
	})
}
