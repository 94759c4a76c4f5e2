package settings

import (
	"context"
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = &utils.MockClock{FixedNow: time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (*ServiceImpl, *StubRepository, *Cache, func()) {
	repo := NewStubRepository()
	cache := NewCache(time.Minute, clock)
	service := NewService(repo, cache, clock)
	return service, repo, cache, func() {
		t.Log("Teardown after test")
		repo.Cleanup()
	}
}

func adminCtx() context.Context {
	return employee.WithEmployee(context.Background(), employee.Employee{
		ID: 1, OrgID: 1, DisplayName: "Edna Admin", Role: employee.RoleAdmin, Active: true,
	})
}

func memberCtx() context.Context {
	return employee.WithEmployee(context.Background(), employee.Employee{
		ID: 2, OrgID: 1, DisplayName: "Mel Member", Role: employee.RoleMember, Active: true,
	})
}

func TestService_Set(t *testing.T) {
	service, _, _, teardown := setup(t)
	defer teardown()

	t.Run("stores valid settings", func(t *testing.T) {
		stored, err := service.Set(adminCtx(), MonthlySettings{
			Year: 2025, Month: time.December, Multiplier: decimal.NewFromFloat(1.5), ApprovalMode: ApprovalManual,
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(1.5).Equal(stored.Multiplier))
		assert.Equal(t, ApprovalManual, stored.ApprovalMode)
	})

	t.Run("rejects multiplier below 1.0", func(t *testing.T) {
		_, err := service.Set(adminCtx(), MonthlySettings{
			Year: 2025, Month: time.December, Multiplier: decimal.NewFromFloat(0.5), ApprovalMode: ApprovalAuto,
		})
		assert.ErrorIs(t, err, ErrMultiplierRange)
	})

	t.Run("rejects multiplier above 3.0", func(t *testing.T) {
		_, err := service.Set(adminCtx(), MonthlySettings{
			Year: 2025, Month: time.December, Multiplier: decimal.NewFromFloat(3.5), ApprovalMode: ApprovalAuto,
		})
		assert.ErrorIs(t, err, ErrMultiplierRange)
	})

	t.Run("rejects unknown approval mode", func(t *testing.T) {
		_, err := service.Set(adminCtx(), MonthlySettings{
			Year: 2025, Month: time.December, Multiplier: decimal.NewFromInt(1), ApprovalMode: "always",
		})
		assert.ErrorIs(t, err, ErrInvalidApproval)
	})

	t.Run("members cannot change settings", func(t *testing.T) {
		_, err := service.Set(memberCtx(), MonthlySettings{
			Year: 2025, Month: time.December, Multiplier: decimal.NewFromInt(1), ApprovalMode: ApprovalAuto,
		})
		assert.ErrorIs(t, err, employee.ErrNotAdmin)
	})
}

func TestService_MultiplierFor_VersionedPerMonth(t *testing.T) {
	service, _, _, teardown := setup(t)
	defer teardown()
	ctx := adminCtx()

	november := utils.Month{Year: 2025, Month: time.November}
	december := utils.Month{Year: 2025, Month: time.December}

	_, err := service.Set(ctx, MonthlySettings{Year: 2025, Month: time.November, Multiplier: decimal.NewFromFloat(1.5), ApprovalMode: ApprovalAuto})
	require.NoError(t, err)

	// changing December's multiplier must not touch November's
	_, err = service.Set(ctx, MonthlySettings{Year: 2025, Month: time.December, Multiplier: decimal.NewFromFloat(2.0), ApprovalMode: ApprovalAuto})
	require.NoError(t, err)

	novMultiplier, err := service.MultiplierFor(ctx, november)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(novMultiplier))

	decMultiplier, err := service.MultiplierFor(ctx, december)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(2.0).Equal(decMultiplier))
}

func TestService_MultiplierFor_DefaultsWhenUnset(t *testing.T) {
	service, _, _, teardown := setup(t)
	defer teardown()

	multiplier, err := service.MultiplierFor(adminCtx(), utils.Month{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.True(t, DefaultMultiplier.Equal(multiplier))

	mode, err := service.ApprovalModeFor(adminCtx(), utils.Month{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, ApprovalAuto, mode)
}

func TestCache(t *testing.T) {
	november := utils.Month{Year: 2025, Month: time.November}
	sample := MonthlySettings{Year: 2025, Month: time.November, Multiplier: decimal.NewFromFloat(1.5)}

	t.Run("hit within ttl", func(t *testing.T) {
		cacheClock := &utils.MockClock{FixedNow: clock.Now()}
		cache := NewCache(time.Minute, cacheClock)
		cache.Put(1, november, sample)

		cached, ok := cache.Get(1, november)
		assert.True(t, ok)
		assert.True(t, sample.Multiplier.Equal(cached.Multiplier))
	})

	t.Run("miss after ttl expiry", func(t *testing.T) {
		cacheClock := &utils.MockClock{FixedNow: clock.Now()}
		cache := NewCache(time.Minute, cacheClock)
		cache.Put(1, november, sample)

		cacheClock.SetNow(cacheClock.Now().Add(2 * time.Minute))
		_, ok := cache.Get(1, november)
		assert.False(t, ok)
	})

	t.Run("invalidate drops only the org's entries", func(t *testing.T) {
		cacheClock := &utils.MockClock{FixedNow: clock.Now()}
		cache := NewCache(time.Minute, cacheClock)
		cache.Put(1, november, sample)
		cache.Put(2, november, sample)

		cache.Invalidate(1)

		_, ok := cache.Get(1, november)
		assert.False(t, ok)
		_, ok = cache.Get(2, november)
		assert.True(t, ok)
	})

	t.Run("service write invalidates cached reads", func(t *testing.T) {
		repo := NewStubRepository()
		cache := NewCache(time.Hour, clock)
		service := NewService(repo, cache, clock)
		ctx := adminCtx()

		_, err := service.Set(ctx, MonthlySettings{Year: 2025, Month: time.November, Multiplier: decimal.NewFromFloat(1.5), ApprovalMode: ApprovalAuto})
		require.NoError(t, err)
		first, err := service.MultiplierFor(ctx, november)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(1.5).Equal(first))

		_, err = service.Set(ctx, MonthlySettings{Year: 2025, Month: time.November, Multiplier: decimal.NewFromFloat(2.0), ApprovalMode: ApprovalAuto})
		require.NoError(t, err)
		second, err := service.MultiplierFor(ctx, november)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(2.0).Equal(second))
	})
}
