package event_bus

const (
	// EventCarryoverRecalculated is published after a retroactive edit changed
	// a month's ending balance and the following month's carryover was updated.
	EventCarryoverRecalculated EventType = "carryover.recalculated"

	// EventEntryStatusChanged is published when an admin approves or rejects
	// a submitted time entry.
	EventEntryStatusChanged EventType = "timeentry.status_changed"
)

type CarryoverRecalculated struct {
	EmployeeID   int
	EmployeeName string
	SourceMonth  string
	TargetMonth  string
	DeltaMinutes int
}

type EntryStatusChanged struct {
	EntryID    int
	EmployeeID int
	Date       string
	Kind       string
	Status     string
}
