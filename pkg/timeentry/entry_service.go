package timeentry

import (
	"context"
	"fmt"
	"time"

	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	log "github.com/sirupsen/logrus"
)

type SubmitRequest struct {
	EmployeeID   int
	Date         time.Time
	Kind         Kind
	TotalMinutes int
	Note         string
}

type EntryService interface {
	// Submit appends a new row to the time log; TotalMinutes 0 records a deletion.
	Submit(ctx context.Context, req SubmitRequest) (Entry, error)
	// GetMonthLog returns the raw append-only log for audit display.
	GetMonthLog(ctx context.Context, employeeId int, month utils.Month) ([]Entry, error)
	// CurrentEntries returns the resolved, approved-only view of a month.
	// This is the only view balance computation is allowed to see.
	CurrentEntries(ctx context.Context, employeeId int, month utils.Month) ([]Entry, error)
	// CurrentEntriesForOrg returns the resolved approved-only view for every
	// employee in the organization.
	CurrentEntriesForOrg(ctx context.Context, month utils.Month) ([]Entry, error)
	SetStatus(ctx context.Context, entryId int, status Status) (Entry, error)
}

type EntryServiceImpl struct {
	repo            EntryRepository
	settingsService settings.Service
	clock           utils.Clock
	bus             *event_bus.EventBus
}

func NewEntryService(repo EntryRepository, settingsService settings.Service, clock utils.Clock, bus *event_bus.EventBus) *EntryServiceImpl {
	return &EntryServiceImpl{repo: repo, settingsService: settingsService, clock: clock, bus: bus}
}

func (s *EntryServiceImpl) Submit(ctx context.Context, req SubmitRequest) (Entry, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	if req.TotalMinutes < 0 {
		return Entry{}, ErrNegativeMinutes
	}
	if !req.Kind.Valid() {
		return Entry{}, ErrInvalidKind
	}
	if req.EmployeeID == 0 {
		req.EmployeeID = current.ID
	}
	if req.EmployeeID != current.ID && !current.IsAdmin() {
		return Entry{}, employee.ErrNotAdmin
	}

	entryMonth := utils.MonthOf(req.Date)
	if err := s.validateEditWindow(entryMonth, current); err != nil {
		return Entry{}, err
	}

	status := StatusApproved
	mode, err := s.settingsService.ApprovalModeFor(ctx, entryMonth)
	if err != nil {
		return Entry{}, err
	}
	// Admin-entered rows skip the approval queue.
	if mode == settings.ApprovalManual && !current.IsAdmin() {
		status = StatusPending
	}

	entry := Entry{
		EmployeeID:   req.EmployeeID,
		Date:         req.Date,
		Kind:         req.Kind,
		TotalMinutes: req.TotalMinutes,
		Status:       status,
		Note:         req.Note,
		CreatedAt:    s.clock.Now(),
	}
	stored, err := s.repo.StoreEntry(ctx, current.OrgID, entry)
	if err != nil {
		return Entry{}, err
	}
	log.Debugf("stored time entry %d: employee=%d date=%s kind=%s minutes=%d status=%s",
		stored.ID, stored.EmployeeID, stored.Date.Format("2006-01-02"), stored.Kind, stored.TotalMinutes, stored.Status)
	return stored, nil
}

// validateEditWindow enforces the edit-permission policy: the current month is
// always writable, the previous month only by admins, anything older never.
// The carryover engine's one-hop propagation relies on this window staying at
// one month back; widening it requires revisiting the engine.
func (s *EntryServiceImpl) validateEditWindow(entryMonth utils.Month, current employee.Employee) error {
	thisMonth := utils.MonthOf(s.clock.Now())
	if entryMonth == thisMonth {
		return nil
	}
	if entryMonth == thisMonth.Prev() && current.IsAdmin() {
		return nil
	}
	return ErrEditWindowClosed
}

func (s *EntryServiceImpl) GetMonthLog(ctx context.Context, employeeId int, month utils.Month) ([]Entry, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	if employeeId != current.ID && !current.IsAdmin() {
		return nil, employee.ErrNotAdmin
	}
	return s.repo.GetForMonth(ctx, current.OrgID, employeeId, month)
}

func (s *EntryServiceImpl) CurrentEntries(ctx context.Context, employeeId int, month utils.Month) ([]Entry, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	entries, err := s.repo.GetForMonth(ctx, orgId, employeeId, month)
	if err != nil {
		return nil, err
	}
	return ResolveCurrent(withoutRejected(entries)), nil
}

func (s *EntryServiceImpl) CurrentEntriesForOrg(ctx context.Context, month utils.Month) ([]Entry, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	entries, err := s.repo.GetAllForMonth(ctx, orgId, month)
	if err != nil {
		return nil, err
	}
	return ResolveCurrent(withoutRejected(entries)), nil
}

func (s *EntryServiceImpl) SetStatus(ctx context.Context, entryId int, status Status) (Entry, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return Entry{}, employee.ErrNotAdmin
	}
	if status != StatusApproved && status != StatusRejected {
		return Entry{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, current.OrgID, entryId, status)
	if err != nil {
		return Entry{}, err
	}
	if !updated {
		return Entry{}, ErrNotFound
	}
	entry, err := s.repo.FindById(ctx, current.OrgID, entryId)
	if err != nil {
		return Entry{}, err
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventEntryStatusChanged, event_bus.EntryStatusChanged{
		EntryID:    entry.ID,
		EmployeeID: entry.EmployeeID,
		Date:       entry.Date.Format("2006-01-02"),
		Kind:       string(entry.Kind),
		Status:     string(entry.Status),
	}))
	if err != nil {
		log.Warnf("entry status event delivery failed: %v", err)
	}

	return entry, nil
}

// withoutRejected drops rejected rows before resolution so that a rejected
// correction can never shadow the previously approved value, and entries
// awaiting approval never count towards balances.
func withoutRejected(entries []Entry) []Entry {
	approved := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status == StatusApproved {
			approved = append(approved, e)
		}
	}
	return approved
}
