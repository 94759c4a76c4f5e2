package employee

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Employee struct {
	ID          int
	Uid         string
	OrgID       int
	DisplayName string
	Role        Role
	Active      bool
	CreatedAt   time.Time
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
