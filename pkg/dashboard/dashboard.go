package dashboard

import (
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/balance"
)

// DaySummary is one cell of the calendar grid: the resolved overtime and
// vacation minutes for a single day.
type DaySummary struct {
	Date            time.Time
	OvertimeMinutes int
	VacationMinutes int
}

// EmployeeSummary is one dashboard row. RunningBalance is the carried-in
// balance plus the month's remaining minutes, so it can go negative when an
// employee owes time.
type EmployeeSummary struct {
	EmployeeID     int
	EmployeeName   string
	Days           []DaySummary
	Stats          balance.MonthlyStats
	CarryIn        int
	RunningBalance int
}

type MonthSummary struct {
	Month     utils.Month
	Employees []EmployeeSummary
}
