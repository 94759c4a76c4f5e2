package balance

import (
	"testing"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var november = utils.Month{Year: 2025, Month: time.November}

func entry(employeeId int, day int, kind timeentry.Kind, minutes int) timeentry.Entry {
	return timeentry.Entry{
		EmployeeID:   employeeId,
		Date:         time.Date(2025, time.November, day, 0, 0, 0, 0, time.UTC),
		Kind:         kind,
		TotalMinutes: minutes,
		Status:       timeentry.StatusApproved,
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		entries    []timeentry.Entry
		multiplier decimal.Decimal
		want       MonthlyStats
	}{
		{
			name: "overtime and vacation with multiplier",
			entries: []timeentry.Entry{
				entry(1, 3, timeentry.KindOvertime, 300),
				entry(1, 4, timeentry.KindOvertime, 300),
				entry(1, 10, timeentry.KindVacation, 120),
			},
			multiplier: decimal.NewFromFloat(1.5),
			want:       MonthlyStats{TotalOvertime: 600, TotalVacation: 120, Remaining: 780},
		},
		{
			name:       "empty entries yields zero stats",
			entries:    nil,
			multiplier: decimal.NewFromFloat(1.5),
			want:       MonthlyStats{},
		},
		{
			name: "vacation is never multiplied",
			entries: []timeentry.Entry{
				entry(1, 5, timeentry.KindVacation, 100),
			},
			multiplier: decimal.NewFromFloat(3.0),
			want:       MonthlyStats{TotalVacation: 100, Remaining: -100},
		},
		{
			name: "other employees are filtered out",
			entries: []timeentry.Entry{
				entry(1, 5, timeentry.KindOvertime, 60),
				entry(2, 5, timeentry.KindOvertime, 600),
			},
			multiplier: decimal.NewFromInt(1),
			want:       MonthlyStats{TotalOvertime: 60, Remaining: 60},
		},
		{
			name: "other months are filtered out",
			entries: []timeentry.Entry{
				entry(1, 5, timeentry.KindOvertime, 60),
				{
					EmployeeID:   1,
					Date:         time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC),
					Kind:         timeentry.KindOvertime,
					TotalMinutes: 600,
				},
			},
			multiplier: decimal.NewFromInt(1),
			want:       MonthlyStats{TotalOvertime: 60, Remaining: 60},
		},
		{
			name: "zero multiplier defaults to 1.0",
			entries: []timeentry.Entry{
				entry(1, 5, timeentry.KindOvertime, 90),
			},
			multiplier: decimal.Decimal{},
			want:       MonthlyStats{TotalOvertime: 90, Remaining: 90},
		},
		{
			name: "zero-minute deletion rows count as nothing",
			entries: []timeentry.Entry{
				entry(1, 5, timeentry.KindOvertime, 0),
				entry(1, 6, timeentry.KindVacation, 0),
			},
			multiplier: decimal.NewFromFloat(1.5),
			want:       MonthlyStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(1, november, tt.entries, tt.multiplier)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The rounding rule is nearest minute with ties away from zero, so e.g.
// 90 × 1.25 = 112.5 rounds up to 113 rather than to even.
func TestApplyMultiplier_Rounding(t *testing.T) {
	tests := []struct {
		minutes    int
		multiplier string
		want       int64
	}{
		{90, "1.25", 113},  // 112.5 rounds away from zero
		{110, "1.25", 138}, // 137.5 rounds away from zero
		{100, "1.333", 133},
		{100, "1.336", 134},
		{600, "1.5", 900},
		{0, "2.0", 0},
	}
	for _, tt := range tests {
		multiplier, err := decimal.NewFromString(tt.multiplier)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, ApplyMultiplier(tt.minutes, multiplier),
			"%d × %s", tt.minutes, tt.multiplier)
	}
}

func TestCompute_MultiplierInvariant(t *testing.T) {
	entries := []timeentry.Entry{
		entry(1, 1, timeentry.KindOvertime, 123),
		entry(1, 2, timeentry.KindOvertime, 456),
		entry(1, 3, timeentry.KindVacation, 78),
	}
	for _, m := range []string{"1.0", "1.25", "1.5", "2.0", "3.0"} {
		multiplier, err := decimal.NewFromString(m)
		assert.NoError(t, err)
		stats := Compute(1, november, entries, multiplier)
		assert.Equal(t, int(ApplyMultiplier(stats.TotalOvertime, multiplier))-stats.TotalVacation, stats.Remaining)
		// changing the multiplier must never change the vacation total
		assert.Equal(t, 78, stats.TotalVacation)
	}
}
