package notification

import (
	"context"
	"fmt"

	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetMine(ctx context.Context, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

// Subscribe attaches the inbox writers to the bus. Delivery failures are
// logged and swallowed: a lost notification must never fail the write that
// triggered it.
func (s *ServiceImpl) Subscribe(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.CarryoverRecalculated](bus, event_bus.EventCarryoverRecalculated,
		func(e event_bus.EventT[event_bus.CarryoverRecalculated]) error {
			message := fmt.Sprintf("Your %s edit changed the balance carried into %s by %+d minutes",
				e.Data.SourceMonth, e.Data.TargetMonth, e.Data.DeltaMinutes)
			s.store(e.Context(), e.Data.EmployeeID, KindCarryoverChanged, message)
			return nil
		})

	event_bus.SubscribeTyped[event_bus.EntryStatusChanged](bus, event_bus.EventEntryStatusChanged,
		func(e event_bus.EventT[event_bus.EntryStatusChanged]) error {
			message := fmt.Sprintf("Your %s entry for %s was %s",
				e.Data.Kind, e.Data.Date, e.Data.Status)
			s.store(e.Context(), e.Data.EmployeeID, KindEntryDecided, message)
			return nil
		})
}

func (s *ServiceImpl) store(ctx context.Context, employeeId int, kind Kind, message string) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		log.Warnf("notification dropped, no employee in event context: %v", err)
		return
	}
	_, err = s.repo.Store(ctx, orgId, Notification{
		EmployeeID: employeeId,
		Kind:       kind,
		Message:    message,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		log.Warnf("notification could not be stored: %v", err)
	}
}

func (s *ServiceImpl) GetMine(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.GetForEmployee(ctx, current.OrgID, current.ID, unreadOnly)
}

func (s *ServiceImpl) MarkRead(ctx context.Context, id int) error {
	current, err := employee.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current employee: %w", err)
	}
	updated, err := s.repo.MarkRead(ctx, current.OrgID, current.ID, id)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}
