package carryover

import (
	"context"
	"errors"
	"fmt"

	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/balance"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Engine interface {
	// RecalculateIfNeeded recomputes the edited month's ending balance and,
	// when it changed, propagates the delta into the following month's
	// carryover record. Returns nil when nothing changed; callers must not
	// treat nil as an error.
	RecalculateIfNeeded(ctx context.Context, employeeId int, edited utils.Month) (*Impact, error)
	// CarryInFor returns the carryover balance entering the given month,
	// materializing the record from the previous month's ending balance the
	// first time the month is opened.
	CarryInFor(ctx context.Context, employeeId int, month utils.Month) (int, error)
}

type EngineImpl struct {
	repo            Repository
	entryService    timeentry.EntryService
	settingsService settings.Service
	employeeService employee.Service
	clock           utils.Clock
	bus             *event_bus.EventBus
}

func NewEngine(
	repo Repository,
	entryService timeentry.EntryService,
	settingsService settings.Service,
	employeeService employee.Service,
	clock utils.Clock,
	bus *event_bus.EventBus,
) *EngineImpl {
	return &EngineImpl{
		repo:            repo,
		entryService:    entryService,
		settingsService: settingsService,
		employeeService: employeeService,
		clock:           clock,
		bus:             bus,
	}
}

// RecalculateIfNeeded propagates exactly one month forward. Edits to the
// current month never touch carryover (its own carry-out is not finalized
// yet), and the edit window in pkg/timeentry rejects anything older than the
// previous month, so a single hop always reaches every stale record.
func (e *EngineImpl) RecalculateIfNeeded(ctx context.Context, employeeId int, edited utils.Month) (*Impact, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}

	if edited != utils.MonthOf(e.clock.Now()).Prev() {
		log.Debugf("skipping carryover recalculation for %s: not the previous month", edited)
		return nil, nil
	}

	carryIn, err := e.storedCarryIn(ctx, orgId, employeeId, edited)
	if err != nil {
		return nil, err
	}

	newRemaining, multiplier, err := e.monthRemaining(ctx, employeeId, edited)
	if err != nil {
		return nil, err
	}

	target := edited.Next()
	targetRecord, err := e.repo.Find(ctx, orgId, employeeId, target)
	if errors.Is(err, ErrNotFound) {
		// First materialization of the target month. There is no stale
		// prior state, so there is nothing to report.
		record := Record{
			EmployeeID:       employeeId,
			Month:            target,
			CarryoverMinutes: carryIn + newRemaining,
			SourceMultiplier: multiplier,
			UpdatedAt:        e.clock.Now(),
		}
		if err := e.repo.Upsert(ctx, orgId, record); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	oldCarryover := targetRecord.CarryoverMinutes
	oldRemaining := oldCarryover - carryIn
	if newRemaining == oldRemaining {
		return nil, nil
	}

	newCarryover := carryIn + newRemaining
	targetOwnRemaining, _, err := e.monthRemaining(ctx, employeeId, target)
	if err != nil {
		return nil, err
	}

	updated := Record{
		EmployeeID:       employeeId,
		Month:            target,
		CarryoverMinutes: newCarryover,
		SourceMultiplier: multiplier,
		UpdatedAt:        e.clock.Now(),
	}
	if err := e.repo.Upsert(ctx, orgId, updated); err != nil {
		// Persistence failed: no Impact may be returned, the state did not change.
		return nil, err
	}

	emp, err := e.employeeService.Get(ctx, employeeId)
	if err != nil {
		return nil, err
	}

	impact := &Impact{
		EmployeeName:            emp.DisplayName,
		SourceMonth:             edited,
		TargetMonth:             target,
		OldRemaining:            oldRemaining,
		NewRemaining:            newRemaining,
		OldCarryover:            oldCarryover,
		NewCarryover:            newCarryover,
		TargetMonthOldRemaining: oldCarryover + targetOwnRemaining,
		TargetMonthNewRemaining: newCarryover + targetOwnRemaining,
		HasImpact:               true,
	}

	err = e.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventCarryoverRecalculated, event_bus.CarryoverRecalculated{
		EmployeeID:   employeeId,
		EmployeeName: emp.DisplayName,
		SourceMonth:  edited.String(),
		TargetMonth:  target.String(),
		DeltaMinutes: newRemaining - oldRemaining,
	}))
	if err != nil {
		log.Warnf("carryover event delivery failed: %v", err)
	}

	log.Infof("carryover for employee %d recalculated: %s remaining %d -> %d, %s carry-in %d -> %d",
		employeeId, edited, oldRemaining, newRemaining, target, oldCarryover, newCarryover)
	return impact, nil
}

func (e *EngineImpl) CarryInFor(ctx context.Context, employeeId int, month utils.Month) (int, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current employee: %w", err)
	}

	record, err := e.repo.Find(ctx, orgId, employeeId, month)
	if err == nil {
		return record.CarryoverMinutes, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	// Month never opened: roll the previous month's ending balance forward.
	prev := month.Prev()
	prevCarryIn, err := e.storedCarryIn(ctx, orgId, employeeId, prev)
	if err != nil {
		return 0, err
	}
	prevRemaining, multiplier, err := e.monthRemaining(ctx, employeeId, prev)
	if err != nil {
		return 0, err
	}

	materialized := Record{
		EmployeeID:       employeeId,
		Month:            month,
		CarryoverMinutes: prevCarryIn + prevRemaining,
		SourceMultiplier: multiplier,
		UpdatedAt:        e.clock.Now(),
	}
	if err := e.repo.Upsert(ctx, orgId, materialized); err != nil {
		return 0, err
	}
	return materialized.CarryoverMinutes, nil
}

func (e *EngineImpl) storedCarryIn(ctx context.Context, orgId int, employeeId int, month utils.Month) (int, error) {
	record, err := e.repo.Find(ctx, orgId, employeeId, month)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.CarryoverMinutes, nil
}

func (e *EngineImpl) monthRemaining(ctx context.Context, employeeId int, month utils.Month) (int, decimal.Decimal, error) {
	entries, err := e.entryService.CurrentEntries(ctx, employeeId, month)
	if err != nil {
		return 0, decimal.Decimal{}, err
	}
	multiplier, err := e.settingsService.MultiplierFor(ctx, month)
	if err != nil {
		return 0, decimal.Decimal{}, err
	}
	stats := balance.Compute(employeeId, month, entries, multiplier)
	return stats.Remaining, multiplier, nil
}
