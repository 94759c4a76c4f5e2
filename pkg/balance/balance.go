package balance

import (
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	"github.com/shopspring/decimal"
)

// MonthlyStats is the derived per-employee aggregate for one month. It is
// never persisted; it is always recomputed from the time log and the month's
// multiplier.
type MonthlyStats struct {
	TotalOvertime int
	TotalVacation int
	// Remaining = round(TotalOvertime × multiplier) − TotalVacation.
	// Rounded to the nearest minute, ties half away from zero.
	Remaining int
}

// Compute aggregates resolved time entries into the month's stats. Entries
// must already be reduced to current values (see timeentry.ResolveCurrent);
// rows for other employees or other months are ignored. A zero or negative
// multiplier falls back to 1.0. Pure: no I/O, no side effects.
func Compute(employeeId int, month utils.Month, entries []timeentry.Entry, multiplier decimal.Decimal) MonthlyStats {
	if multiplier.LessThanOrEqual(decimal.Zero) {
		multiplier = decimal.NewFromInt(1)
	}

	stats := MonthlyStats{}
	for _, e := range entries {
		if e.EmployeeID != employeeId || !month.Contains(e.Date) {
			continue
		}
		switch e.Kind {
		case timeentry.KindOvertime:
			stats.TotalOvertime += e.TotalMinutes
		case timeentry.KindVacation:
			stats.TotalVacation += e.TotalMinutes
		}
	}

	stats.Remaining = int(ApplyMultiplier(stats.TotalOvertime, multiplier)) - stats.TotalVacation
	return stats
}

// ApplyMultiplier multiplies overtime minutes by the month multiplier and
// rounds to the nearest whole minute, ties away from zero. decimal.Round
// implements exactly that rule, which keeps results identical across
// platforms regardless of float representation.
func ApplyMultiplier(overtimeMinutes int, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(int64(overtimeMinutes)).Mul(multiplier).Round(0).IntPart()
}
