package settings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ApprovalMode string

const (
	ApprovalAuto   ApprovalMode = "auto"
	ApprovalManual ApprovalMode = "manual"
)

var (
	ErrMultiplierRange  = errors.New("multiplier must be between 1.0 and 3.0")
	ErrInvalidApproval  = errors.New("approval mode must be auto or manual")
	ErrNotFound         = errors.New("monthly settings not found")
	multiplierMin       = decimal.NewFromFloat(1.0)
	multiplierMax       = decimal.NewFromFloat(3.0)
	DefaultMultiplier   = decimal.NewFromFloat(1.0)
	DefaultApprovalMode = ApprovalAuto
)

// MonthlySettings is the multiplier and approval mode in effect for one
// calendar month. Settings are versioned per month: writing this month's
// multiplier never changes what past months were computed with.
type MonthlySettings struct {
	ID           int
	Year         int
	Month        time.Month
	Multiplier   decimal.Decimal
	ApprovalMode ApprovalMode
	CreatedAt    time.Time
}

func ValidateMultiplier(m decimal.Decimal) error {
	if m.LessThan(multiplierMin) || m.GreaterThan(multiplierMax) {
		return ErrMultiplierRange
	}
	return nil
}
