package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/balance"
	"github.com/phk910805/overtime-sub000/pkg/carryover"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	december = utils.Month{Year: 2025, Month: time.December}
	clock    = &utils.MockClock{FixedNow: time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)}
)

type fixture struct {
	service       *ServiceImpl
	entryRepo     *timeentry.StubEntryRepo
	settingsRepo  *settings.StubRepository
	employeeRepo  *employee.StubEmployeeRepo
	carryoverRepo *carryover.StubRepository
	admin         employee.Employee
	member        employee.Employee
}

func setup(t *testing.T) (*fixture, func()) {
	entryRepo := timeentry.NewStubEntryRepo()
	settingsRepo := settings.NewStubRepository()
	employeeRepo := employee.NewStubEmployeeRepo()
	carryoverRepo := carryover.NewStubRepository()
	bus := event_bus.NewEventBus()

	settingsService := settings.NewService(settingsRepo, settings.NewCache(time.Minute, clock), clock)
	entryService := timeentry.NewEntryService(entryRepo, settingsService, clock, bus)
	employeeService := employee.NewService(employeeRepo)
	engine := carryover.NewEngine(carryoverRepo, entryService, settingsService, employeeService, clock, bus)

	service := NewService(entryService, settingsService, employeeService, engine)

	ctx := context.Background()
	f := &fixture{
		service:       service,
		entryRepo:     entryRepo,
		settingsRepo:  settingsRepo,
		employeeRepo:  employeeRepo,
		carryoverRepo: carryoverRepo,
	}
	f.admin = employee.Employee{Uid: "admin-uid", OrgID: 1, DisplayName: "Edna Admin", Role: employee.RoleAdmin, Active: true}
	adminId, err := employeeRepo.Store(ctx, f.admin)
	require.NoError(t, err)
	f.admin.ID = adminId

	f.member = employee.Employee{Uid: "member-uid", OrgID: 1, DisplayName: "Mel Member", Role: employee.RoleMember, Active: true}
	memberId, err := employeeRepo.Store(ctx, f.member)
	require.NoError(t, err)
	f.member.ID = memberId

	return f, func() {
		t.Log("Teardown after test")
		entryRepo.Cleanup()
		settingsRepo.Cleanup()
		employeeRepo.Cleanup()
		carryoverRepo.Cleanup()
	}
}

func (f *fixture) storeEntry(t *testing.T, employeeId int, day int, kind timeentry.Kind, minutes int) {
	t.Helper()
	_, err := f.entryRepo.StoreEntry(context.Background(), 1, timeentry.Entry{
		EmployeeID:   employeeId,
		Date:         time.Date(2025, time.December, day, 0, 0, 0, 0, time.UTC),
		Kind:         kind,
		TotalMinutes: minutes,
		Status:       timeentry.StatusApproved,
		CreatedAt:    clock.Now(),
	})
	require.NoError(t, err)
}

func TestGetMonthSummary(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	ctx := employee.WithEmployee(context.Background(), f.admin)

	f.storeEntry(t, f.member.ID, 1, timeentry.KindOvertime, 600)
	f.storeEntry(t, f.member.ID, 3, timeentry.KindOvertime, 120)
	f.storeEntry(t, f.member.ID, 3, timeentry.KindVacation, 240)
	require.NoError(t, f.carryoverRepo.Upsert(ctx, 1, carryover.Record{
		EmployeeID:       f.member.ID,
		Month:            december,
		CarryoverMinutes: -30,
		SourceMultiplier: decimal.NewFromInt(1),
	}))

	summary, err := f.service.GetMonthSummary(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, december, summary.Month)
	require.Len(t, summary.Employees, 2)

	var memberRow EmployeeSummary
	for _, row := range summary.Employees {
		if row.EmployeeID == f.member.ID {
			memberRow = row
		}
	}
	assert.Equal(t, "Mel Member", memberRow.EmployeeName)
	assert.Equal(t, 720, memberRow.Stats.TotalOvertime)
	assert.Equal(t, 240, memberRow.Stats.TotalVacation)
	assert.Equal(t, 480, memberRow.Stats.Remaining)
	assert.Equal(t, -30, memberRow.CarryIn)
	assert.Equal(t, 450, memberRow.RunningBalance)

	require.Len(t, memberRow.Days, 31)
	assert.Equal(t, 600, memberRow.Days[0].OvertimeMinutes)
	assert.Equal(t, 120, memberRow.Days[2].OvertimeMinutes)
	assert.Equal(t, 240, memberRow.Days[2].VacationMinutes)
	assert.Equal(t, 0, memberRow.Days[1].OvertimeMinutes)
	assert.Equal(t, time.Date(2025, time.December, 2, 0, 0, 0, 0, time.UTC), memberRow.Days[1].Date)
}

func TestGetMonthSummary_AppliesMultiplier(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	ctx := employee.WithEmployee(context.Background(), f.admin)

	require.NoError(t, f.settingsRepo.Upsert(ctx, 1, settings.MonthlySettings{
		Year: 2025, Month: time.December, Multiplier: decimal.NewFromFloat(1.5), ApprovalMode: settings.ApprovalAuto,
	}))
	f.storeEntry(t, f.member.ID, 5, timeentry.KindOvertime, 100)

	summary, err := f.service.GetMonthSummary(ctx, december)
	require.NoError(t, err)
	for _, row := range summary.Employees {
		if row.EmployeeID == f.member.ID {
			assert.Equal(t, 150, row.Stats.Remaining)
		}
	}
}

func TestGetMonthSummary_MemberSeesOnlySelf(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	ctx := employee.WithEmployee(context.Background(), f.member)

	summary, err := f.service.GetMonthSummary(ctx, december)
	require.NoError(t, err)
	require.Len(t, summary.Employees, 1)
	assert.Equal(t, f.member.ID, summary.Employees[0].EmployeeID)
}

func TestCsvRenderer(t *testing.T) {
	renderer := NewCsvRenderer()
	february := utils.Month{Year: 2026, Month: time.February}
	days := make([]DaySummary, february.Days())
	for i := range days {
		days[i].Date = february.FirstDay().AddDate(0, 0, i)
	}
	days[0].OvertimeMinutes = 90
	days[1].VacationMinutes = 60

	rendered, err := renderer.RenderSummary(MonthSummary{
		Month: february,
		Employees: []EmployeeSummary{{
			EmployeeID:   7,
			EmployeeName: "Mel Member",
			Days:         days,
			Stats:          balance.MonthlyStats{TotalOvertime: 90, TotalVacation: 60, Remaining: 30},
			CarryIn:        15,
			RunningBalance: 45,
		}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(rendered), "\n")
	require.Len(t, lines, 2)
	header := strings.Split(lines[0], ",")
	assert.Equal(t, "Employee", header[0])
	assert.Equal(t, "2026-02-01", header[1])
	assert.Equal(t, "Balance", header[len(header)-1])
	// 1 name column + 28 day columns + 5 totals columns
	assert.Len(t, header, 34)

	row := strings.Split(lines[1], ",")
	assert.Equal(t, "Mel Member", row[0])
	assert.Equal(t, "90", row[1])
	assert.Equal(t, "-60", row[2])
	assert.Equal(t, []string{"90", "60", "30", "15", "45"}, row[len(row)-5:])
}
