package invite

import (
	"errors"
	"time"

	"github.com/phk910805/overtime-sub000/pkg/employee"
)

var (
	ErrNotFound = errors.New("invite not found")
	ErrExpired  = errors.New("invite has expired")
	ErrUsed     = errors.New("invite was already used")
)

// Invite is a single-use join code for one organization. The role and
// display name of the future employee are fixed at creation time, so
// accepting a code can never escalate beyond what the admin issued.
type Invite struct {
	ID          int
	OrgID       int
	Code        string
	DisplayName string
	Role        employee.Role
	Used        bool
	CreatedBy   int
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
