package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Kind string

const (
	KindCarryoverChanged Kind = "carryover_changed"
	KindEntryDecided     Kind = "entry_decided"
)

// Notification is a per-employee inbox item. They are written by event bus
// subscribers, never directly by handlers.
type Notification struct {
	ID         int
	EmployeeID int
	Kind       Kind
	Message    string
	Read       bool
	CreatedAt  time.Time
}
