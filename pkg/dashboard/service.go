package dashboard

import (
	"context"
	"fmt"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/balance"
	"github.com/phk910805/overtime-sub000/pkg/carryover"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetMonthSummary(ctx context.Context, month utils.Month) (MonthSummary, error)
}

type ServiceImpl struct {
	entryService    timeentry.EntryService
	settingsService settings.Service
	employeeService employee.Service
	carryoverEngine carryover.Engine
}

func NewService(
	entryService timeentry.EntryService,
	settingsService settings.Service,
	employeeService employee.Service,
	carryoverEngine carryover.Engine,
) *ServiceImpl {
	return &ServiceImpl{
		entryService:    entryService,
		settingsService: settingsService,
		employeeService: employeeService,
		carryoverEngine: carryoverEngine,
	}
}

// GetMonthSummary builds the dashboard for one month. Admins see every
// active employee, members only themselves. Balances are always recomputed
// from the resolved time log, never read from a stored aggregate.
func (s *ServiceImpl) GetMonthSummary(ctx context.Context, month utils.Month) (MonthSummary, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	employees, err := s.visibleEmployees(ctx, current)
	if err != nil {
		return MonthSummary{}, err
	}

	entries, err := s.entryService.CurrentEntriesForOrg(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	multiplier, err := s.settingsService.MultiplierFor(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	log.Debugf("Dashboard for %s: %d employees, %d resolved entries", month, len(employees), len(entries))

	summary := MonthSummary{Month: month, Employees: make([]EmployeeSummary, 0, len(employees))}
	for _, emp := range employees {
		stats := balance.Compute(emp.ID, month, entries, multiplier)
		carryIn, err := s.carryoverEngine.CarryInFor(ctx, emp.ID, month)
		if err != nil {
			return MonthSummary{}, err
		}
		summary.Employees = append(summary.Employees, EmployeeSummary{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.DisplayName,
			Days:           daysFor(emp.ID, month, entries),
			Stats:          stats,
			CarryIn:        carryIn,
			RunningBalance: carryIn + stats.Remaining,
		})
	}
	return summary, nil
}

func (s *ServiceImpl) visibleEmployees(ctx context.Context, current employee.Employee) ([]employee.Employee, error) {
	if current.IsAdmin() {
		return s.employeeService.GetAll(ctx, false)
	}
	return []employee.Employee{current}, nil
}

// daysFor fills the full calendar grid for the month, including days with
// no entries.
func daysFor(employeeId int, month utils.Month, entries []timeentry.Entry) []DaySummary {
	days := make([]DaySummary, month.Days())
	first := month.FirstDay()
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i)
	}
	for _, e := range entries {
		if e.EmployeeID != employeeId || !month.Contains(e.Date) {
			continue
		}
		day := &days[e.Date.Day()-1]
		switch e.Kind {
		case timeentry.KindOvertime:
			day.OvertimeMinutes += e.TotalMinutes
		case timeentry.KindVacation:
			day.VacationMinutes += e.TotalMinutes
		}
	}
	return days
}
