package carryover

import (
	"context"
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	november = utils.Month{Year: 2025, Month: time.November}
	december = utils.Month{Year: 2025, Month: time.December}
	// All tests run "during December", so November is the editable past month.
	clock = &utils.MockClock{FixedNow: time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)}
)

func setup(t *testing.T) (*EngineImpl, *StubRepository, *timeentry.StubEntryRepo, *settings.StubRepository, context.Context, func()) {
	carryoverRepo := NewStubRepository()
	entryRepo := timeentry.NewStubEntryRepo()
	settingsRepo := settings.NewStubRepository()
	employeeRepo := employee.NewStubEmployeeRepo()
	bus := event_bus.NewEventBus()

	settingsService := settings.NewService(settingsRepo, settings.NewCache(time.Minute, clock), clock)
	entryService := timeentry.NewEntryService(entryRepo, settingsService, clock, bus)
	employeeService := employee.NewService(employeeRepo)

	engine := NewEngine(carryoverRepo, entryService, settingsService, employeeService, clock, bus)

	ctx := context.Background()
	admin := employee.Employee{
		Uid:         "admin-uid",
		OrgID:       1,
		DisplayName: "Edna Admin",
		Role:        employee.RoleAdmin,
		Active:      true,
	}
	adminId, err := employeeRepo.Store(ctx, admin)
	require.NoError(t, err)
	admin.ID = adminId
	ctx = employee.WithEmployee(ctx, admin)

	return engine, carryoverRepo, entryRepo, settingsRepo, ctx, func() {
		t.Log("Teardown after test")
		carryoverRepo.Cleanup()
		entryRepo.Cleanup()
		settingsRepo.Cleanup()
		employeeRepo.Cleanup()
	}
}

func storeEntry(t *testing.T, repo *timeentry.StubEntryRepo, ctx context.Context, employeeId int, month utils.Month, day int, kind timeentry.Kind, minutes int, createdAt time.Time) {
	t.Helper()
	_, err := repo.StoreEntry(ctx, 1, timeentry.Entry{
		EmployeeID:   employeeId,
		Date:         time.Date(month.Year, month.Month, day, 0, 0, 0, 0, time.UTC),
		Kind:         kind,
		TotalMinutes: minutes,
		Status:       timeentry.StatusApproved,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
}

func setMultiplier(t *testing.T, repo *settings.StubRepository, month utils.Month, multiplier string) {
	t.Helper()
	m, err := decimal.NewFromString(multiplier)
	require.NoError(t, err)
	err = repo.Upsert(context.Background(), 1, settings.MonthlySettings{
		Year:         month.Year,
		Month:        month.Month,
		Multiplier:   m,
		ApprovalMode: settings.ApprovalAuto,
	})
	require.NoError(t, err)
}

func TestEngine_RecalculateIfNeeded_PropagatesDelta(t *testing.T) {
	engine, carryoverRepo, entryRepo, settingsRepo, ctx, teardown := setup(t)
	defer teardown()

	// given: November at multiplier 1.5 with 600 overtime and 120 vacation
	// minutes, a carry-in of +60 into November, and December already opened
	// with a carry-in of 840 (= 60 + 780) and 200 minutes of its own overtime.
	setMultiplier(t, settingsRepo, november, "1.5")
	nov1 := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, nov1)
	storeEntry(t, entryRepo, ctx, 1, november, 12, timeentry.KindVacation, 120, nov1)
	storeEntry(t, entryRepo, ctx, 1, december, 2, timeentry.KindOvertime, 200, clock.Now())

	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: november, CarryoverMinutes: 60, SourceMultiplier: decimal.NewFromInt(1)}))
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: december, CarryoverMinutes: 840, SourceMultiplier: decimal.NewFromFloat(1.5)}))

	// when: the November overtime is corrected from 600 to 500 after December
	// has begun, and recalculation runs.
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 500, nov1.Add(48*time.Hour))
	impact, err := engine.RecalculateIfNeeded(ctx, 1, november)

	// then
	require.NoError(t, err)
	require.NotNil(t, impact)
	assert.True(t, impact.HasImpact)
	assert.Equal(t, "Edna Admin", impact.EmployeeName)
	assert.Equal(t, november, impact.SourceMonth)
	assert.Equal(t, december, impact.TargetMonth)
	assert.Equal(t, 780, impact.OldRemaining)
	assert.Equal(t, 630, impact.NewRemaining)
	assert.Equal(t, 840, impact.OldCarryover)
	assert.Equal(t, 690, impact.NewCarryover)
	assert.Equal(t, 1040, impact.TargetMonthOldRemaining)
	assert.Equal(t, 890, impact.TargetMonthNewRemaining)

	// the delta carries forward exactly one month, unchanged in magnitude
	assert.Equal(t,
		impact.NewRemaining-impact.OldRemaining,
		impact.TargetMonthNewRemaining-impact.TargetMonthOldRemaining,
	)

	// the December record was persisted with the new carry-in
	record, err := carryoverRepo.Find(ctx, 1, 1, december)
	require.NoError(t, err)
	assert.Equal(t, 690, record.CarryoverMinutes)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(record.SourceMultiplier))
}

func TestEngine_RecalculateIfNeeded_IsIdempotent(t *testing.T) {
	engine, carryoverRepo, entryRepo, settingsRepo, ctx, teardown := setup(t)
	defer teardown()

	setMultiplier(t, settingsRepo, november, "1.5")
	nov1 := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, nov1)
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: november, CarryoverMinutes: 60, SourceMultiplier: decimal.NewFromInt(1)}))
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: december, CarryoverMinutes: 840, SourceMultiplier: decimal.NewFromFloat(1.5)}))

	// first call after the edit reports the impact
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 500, nov1.Add(time.Hour))
	first, err := engine.RecalculateIfNeeded(ctx, 1, november)
	require.NoError(t, err)
	require.NotNil(t, first)

	// second call with no intervening edit has converged
	second, err := engine.RecalculateIfNeeded(ctx, 1, november)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestEngine_RecalculateIfNeeded_NoOpWhenBalanceUnchanged(t *testing.T) {
	engine, carryoverRepo, entryRepo, settingsRepo, ctx, teardown := setup(t)
	defer teardown()

	setMultiplier(t, settingsRepo, november, "1.5")
	nov1 := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, nov1)
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: december, CarryoverMinutes: 900, SourceMultiplier: decimal.NewFromFloat(1.5)}))

	// a correction that nets the same total: latest row repeats 600 minutes
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, nov1.Add(time.Hour))

	impact, err := engine.RecalculateIfNeeded(ctx, 1, november)
	require.NoError(t, err)
	assert.Nil(t, impact)

	// and the stored record is untouched
	record, err := carryoverRepo.Find(ctx, 1, 1, december)
	require.NoError(t, err)
	assert.Equal(t, 900, record.CarryoverMinutes)
}

func TestEngine_RecalculateIfNeeded_IgnoresOtherMonths(t *testing.T) {
	engine, _, _, _, ctx, teardown := setup(t)
	defer teardown()

	// editing the current month never touches carryover
	impact, err := engine.RecalculateIfNeeded(ctx, 1, december)
	require.NoError(t, err)
	assert.Nil(t, impact)

	// months older than the previous one are outside the edit window
	impact, err = engine.RecalculateIfNeeded(ctx, 1, utils.Month{Year: 2025, Month: time.September})
	require.NoError(t, err)
	assert.Nil(t, impact)
}

func TestEngine_RecalculateIfNeeded_MaterializesMissingTargetMonth(t *testing.T) {
	engine, carryoverRepo, entryRepo, settingsRepo, ctx, teardown := setup(t)
	defer teardown()

	setMultiplier(t, settingsRepo, november, "1.5")
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC))
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: november, CarryoverMinutes: 60, SourceMultiplier: decimal.NewFromInt(1)}))

	// December has never been opened: the record is created from the fresh
	// balance and there is no impact to report.
	impact, err := engine.RecalculateIfNeeded(ctx, 1, november)
	require.NoError(t, err)
	assert.Nil(t, impact)

	record, err := carryoverRepo.Find(ctx, 1, 1, december)
	require.NoError(t, err)
	assert.Equal(t, 60+900, record.CarryoverMinutes)
}

func TestEngine_RecalculateIfNeeded_PersistenceFailure(t *testing.T) {
	engine, carryoverRepo, entryRepo, settingsRepo, ctx, teardown := setup(t)
	defer teardown()

	setMultiplier(t, settingsRepo, november, "1.5")
	nov1 := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 600, nov1)
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: december, CarryoverMinutes: 840, SourceMultiplier: decimal.NewFromFloat(1.5)}))
	storeEntry(t, entryRepo, ctx, 1, november, 3, timeentry.KindOvertime, 500, nov1.Add(time.Hour))

	carryoverRepo.FailUpsert = true
	impact, err := engine.RecalculateIfNeeded(ctx, 1, november)

	// the failure propagates and no impact claims success
	assert.Error(t, err)
	assert.Nil(t, impact)
}

func TestEngine_CarryInFor_NegativeBalancesAreNotClamped(t *testing.T) {
	engine, carryoverRepo, entryRepo, _, ctx, teardown := setup(t)
	defer teardown()

	// given: November carry-in of -30 and only +10 minutes earned
	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: november, CarryoverMinutes: -30, SourceMultiplier: decimal.NewFromInt(1)}))
	storeEntry(t, entryRepo, ctx, 1, november, 5, timeentry.KindOvertime, 10, time.Date(2025, time.November, 5, 9, 0, 0, 0, time.UTC))

	// when: December is opened for the first time
	carryIn, err := engine.CarryInFor(ctx, 1, december)

	// then: the deficit shrinks but stays owed
	require.NoError(t, err)
	assert.Equal(t, -20, carryIn)

	record, err := carryoverRepo.Find(ctx, 1, 1, december)
	require.NoError(t, err)
	assert.Equal(t, -20, record.CarryoverMinutes)
}

func TestEngine_CarryInFor_ReturnsExistingRecord(t *testing.T) {
	engine, carryoverRepo, _, _, ctx, teardown := setup(t)
	defer teardown()

	require.NoError(t, carryoverRepo.Upsert(ctx, 1, Record{EmployeeID: 1, Month: december, CarryoverMinutes: 480, SourceMultiplier: decimal.NewFromFloat(1.5)}))

	carryIn, err := engine.CarryInFor(ctx, 1, december)
	require.NoError(t, err)
	assert.Equal(t, 480, carryIn)
}
