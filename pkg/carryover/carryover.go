package carryover

import (
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/shopspring/decimal"
)

// Record is the remaining-time balance an employee carries into a month.
// One record per (employee, month); negative minutes mean time owed.
// Records are created when a month is first materialized and updated when a
// retroactive edit to the source month changes its ending balance. They are
// never deleted.
type Record struct {
	ID         int
	EmployeeID int
	Month      utils.Month
	// CarryoverMinutes is signed and never clamped at zero.
	CarryoverMinutes int
	// SourceMultiplier is the multiplier that was in effect in the source
	// month when this carryover was computed, retained for audit.
	SourceMultiplier decimal.Decimal
	UpdatedAt        time.Time
}

// Impact is the before/after comparison produced when a retroactive edit
// changed a month's ending balance. It is handed to the UI for the
// confirmation modal and discarded; nothing persists it.
type Impact struct {
	EmployeeName            string      `json:"employeeName"`
	SourceMonth             utils.Month `json:"-"`
	TargetMonth             utils.Month `json:"-"`
	OldRemaining            int         `json:"oldRemaining"`
	NewRemaining            int         `json:"newRemaining"`
	OldCarryover            int         `json:"oldCarryover"`
	NewCarryover            int         `json:"newCarryover"`
	TargetMonthOldRemaining int         `json:"targetMonthOldRemaining"`
	TargetMonthNewRemaining int         `json:"targetMonthNewRemaining"`
	HasImpact               bool        `json:"hasImpact"`
}
