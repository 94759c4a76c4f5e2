package employee

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const EmployeeKey contextKey = "employee"

var ErrNoEmployee = errors.New("employee not found")

// CurrentId retrieves the current employee's ID from the context. Returns ErrNoEmployee if not present.
func CurrentId(ctx context.Context) (int, error) {
	e, ok := ctx.Value(EmployeeKey).(Employee)
	if !ok {
		log.Trace("employee not found in context")
		return 0, ErrNoEmployee
	}
	return e.ID, nil
}

// CurrentOrgId retrieves the current employee's organization ID from the context.
func CurrentOrgId(ctx context.Context) (int, error) {
	e, ok := ctx.Value(EmployeeKey).(Employee)
	if !ok {
		log.Trace("employee not found in context")
		return 0, ErrNoEmployee
	}
	return e.OrgID, nil
}

func Current(ctx context.Context) (Employee, error) {
	e, ok := ctx.Value(EmployeeKey).(Employee)
	if !ok {
		log.Trace("employee not found in context")
		return Employee{}, ErrNoEmployee
	}
	return e, nil
}

func WithEmployee(ctx context.Context, e Employee) context.Context {
	return context.WithValue(ctx, EmployeeKey, e)
}
