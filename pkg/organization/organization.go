package organization

import "time"

type Status string

const (
	StatusTrial   Status = "trial"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

type Organization struct {
	ID          int
	Uid         string
	Name        string
	Status      Status
	TrialEndsAt time.Time
	CreatedAt   time.Time
}
