package carryover

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("carryover record not found")

type Repository interface {
	Find(ctx context.Context, orgId int, employeeId int, month utils.Month) (Record, error)
	// Upsert atomically creates or replaces the record for the record's
	// (employee, month) key.
	Upsert(ctx context.Context, orgId int, record Record) error
	GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Record, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Find(ctx context.Context, orgId int, employeeId int, month utils.Month) (Record, error) {
	query := `SELECT id, employee_id, year, month, carryover_minutes, source_multiplier, updated_at
			  FROM carryover_record WHERE org_id = ? AND employee_id = ? AND year = ? AND month = ?`
	row := r.db.QueryRowContext(ctx, query, orgId, employeeId, month.Year, int(month.Month))
	record, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		err := fmt.Errorf("could not find carryover record for employee %d, %s: %w", employeeId, month, err)
		log.Error(err)
		return Record{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, orgId int, record Record) error {
	query := `INSERT INTO carryover_record (org_id, employee_id, year, month, carryover_minutes, source_multiplier, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT (org_id, employee_id, year, month)
			  DO UPDATE SET carryover_minutes = excluded.carryover_minutes,
			                source_multiplier = excluded.source_multiplier,
			                updated_at = excluded.updated_at`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		orgId,
		record.EmployeeID,
		record.Month.Year,
		int(record.Month.Month),
		record.CarryoverMinutes,
		record.SourceMultiplier.String(),
		record.UpdatedAt.Unix(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetAllForMonth(ctx context.Context, orgId int, month utils.Month) ([]Record, error) {
	query := `SELECT id, employee_id, year, month, carryover_minutes, source_multiplier, updated_at
			  FROM carryover_record WHERE org_id = ? AND year = ? AND month = ? ORDER BY employee_id`
	rows, err := r.db.QueryContext(ctx, query, orgId, month.Year, int(month.Month))
	if err != nil {
		err := fmt.Errorf("could not query carryover records: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return records, nil
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var record Record
	var year, monthInt int
	var multiplierString string
	var updatedAtUnix int64
	if err := scan(&record.ID, &record.EmployeeID, &year, &monthInt, &record.CarryoverMinutes, &multiplierString, &updatedAtUnix); err != nil {
		return Record{}, err
	}
	multiplier, err := decimal.NewFromString(multiplierString)
	if err != nil {
		return Record{}, fmt.Errorf("could not parse stored multiplier %q: %w", multiplierString, err)
	}
	record.Month = utils.Month{Year: year, Month: time.Month(monthInt)}
	record.SourceMultiplier = multiplier
	record.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return record, nil
}
