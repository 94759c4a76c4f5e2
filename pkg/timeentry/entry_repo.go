package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EntryRepository interface {
	// StoreEntry appends a new row to the time log. Existing rows are never modified.
	StoreEntry(ctx context.Context, orgId int, entry Entry) (Entry, error)
	GetForMonth(ctx context.Context, orgId int, employeeId int, month utils.Month) ([]Entry, error)
	GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Entry, error)
	FindById(ctx context.Context, orgId int, id int) (Entry, error)
	UpdateStatus(ctx context.Context, orgId int, id int, status Status) (bool, error)
}

type EntryRepositoryImpl struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepositoryImpl {
	return &EntryRepositoryImpl{db: db}
}

func (r *EntryRepositoryImpl) StoreEntry(ctx context.Context, orgId int, entry Entry) (Entry, error) {
	query := "INSERT INTO time_entry (org_id, employee_id, entry_date, kind, total_minutes, status, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return Entry{}, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		orgId,
		entry.EmployeeID,
		entry.Date.Format("2006-01-02"),
		string(entry.Kind),
		entry.TotalMinutes,
		string(entry.Status),
		entry.Note,
		entry.CreatedAt.Unix(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Entry{}, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return Entry{}, err
	}

	entry.ID = int(lastInsertID)
	return entry, nil
}

func (r *EntryRepositoryImpl) GetForMonth(ctx context.Context, orgId int, employeeId int, month utils.Month) ([]Entry, error) {
	query := `SELECT id, employee_id, entry_date, kind, total_minutes, status, note, created_at
			  FROM time_entry
			  WHERE org_id = ? AND employee_id = ? AND entry_date >= ? AND entry_date <= ?
			  ORDER BY entry_date, created_at, id`
	return r.queryEntries(ctx, query, orgId, employeeId, monthStart(month), monthEnd(month))
}

func (r *EntryRepositoryImpl) GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Entry, error) {
	query := `SELECT id, employee_id, entry_date, kind, total_minutes, status, note, created_at
			  FROM time_entry
			  WHERE org_id = ? AND entry_date >= ? AND entry_date <= ?
			  ORDER BY employee_id, entry_date, created_at, id`
	return r.queryEntries(ctx, query, orgId, monthStart(month), monthEnd(month))
}

func (r *EntryRepositoryImpl) FindById(ctx context.Context, orgId int, id int) (Entry, error) {
	query := `SELECT id, employee_id, entry_date, kind, total_minutes, status, note, created_at
			  FROM time_entry WHERE org_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, orgId, id)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		err := fmt.Errorf("could not find time entry %d: %w", id, err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *EntryRepositoryImpl) UpdateStatus(ctx context.Context, orgId int, id int, status Status) (bool, error) {
	query := "UPDATE time_entry SET status = ? WHERE org_id = ? AND id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, string(status), orgId, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *EntryRepositoryImpl) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return entries, nil
}

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var entry Entry
	var dateString, kind, status string
	var createdAtUnix int64
	if err := scan(&entry.ID, &entry.EmployeeID, &dateString, &kind, &entry.TotalMinutes, &status, &entry.Note, &createdAtUnix); err != nil {
		return Entry{}, err
	}
	date, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		return Entry{}, fmt.Errorf("could not parse entry date: %w", err)
	}
	entry.Date = date
	entry.Kind = Kind(kind)
	entry.Status = Status(status)
	entry.CreatedAt = time.Unix(createdAtUnix, 0)
	return entry, nil
}

func monthStart(month utils.Month) string {
	return month.FirstDay().Format("2006-01-02")
}

func monthEnd(month utils.Month) string {
	return month.FirstDay().AddDate(0, 1, -1).Format("2006-01-02")
}
