package timeentry

import (
	"errors"
	"time"
)

type Kind string

const (
	KindOvertime Kind = "overtime"
	KindVacation Kind = "vacation"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrNegativeMinutes  = errors.New("totalMinutes must not be negative")
	ErrInvalidKind      = errors.New("kind must be overtime or vacation")
	ErrInvalidStatus    = errors.New("status must be approved or rejected")
	ErrEditWindowClosed = errors.New("entries can only be recorded for the current month, or the previous month by an admin")
	ErrNotFound         = errors.New("time entry not found")
)

// Entry is one row of the append-only time log. Rows are never updated in
// place: a correction (or deletion, expressed as TotalMinutes == 0) is a new
// row for the same (EmployeeID, Date, Kind) with a later CreatedAt.
type Entry struct {
	ID           int
	EmployeeID   int
	Date         time.Time
	Kind         Kind
	TotalMinutes int
	Status       Status
	Note         string
	CreatedAt    time.Time
}

func (k Kind) Valid() bool {
	return k == KindOvertime || k == KindVacation
}
