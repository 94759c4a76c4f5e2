package settings

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

type Repository interface {
	// Upsert creates or replaces the settings row for (orgId, month).
	Upsert(ctx context.Context, orgId int, s MonthlySettings) error
	Find(ctx context.Context, orgId int, month utils.Month) (MonthlySettings, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Upsert(ctx context.Context, orgId int, s MonthlySettings) error {
	query := `INSERT INTO monthly_settings (org_id, year, month, multiplier, approval_mode, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT (org_id, year, month)
			  DO UPDATE SET multiplier = excluded.multiplier, approval_mode = excluded.approval_mode`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, orgId, s.Year, int(s.Month), s.Multiplier.String(), string(s.ApprovalMode), s.CreatedAt.Unix())
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Find(ctx context.Context, orgId int, month utils.Month) (MonthlySettings, error) {
	query := "SELECT id, year, month, multiplier, approval_mode, created_at FROM monthly_settings WHERE org_id = ? AND year = ? AND month = ?"
	row := r.db.QueryRowContext(ctx, query, orgId, month.Year, int(month.Month))

	var s MonthlySettings
	var monthInt int
	var multiplierString, approvalMode string
	var createdAtUnix int64
	if err := row.Scan(&s.ID, &s.Year, &monthInt, &multiplierString, &approvalMode, &createdAtUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MonthlySettings{}, ErrNotFound
		}
		err := fmt.Errorf("could not find settings for %s: %w", month, err)
		log.Error(err)
		return MonthlySettings{}, err
	}
	multiplier, err := decimal.NewFromString(multiplierString)
	if err != nil {
		err := fmt.Errorf("could not parse stored multiplier %q: %w", multiplierString, err)
		log.Error(err)
		return MonthlySettings{}, err
	}
	s.Month = time.Month(monthInt)
	s.Multiplier = multiplier
	s.ApprovalMode = ApprovalMode(approvalMode)
	s.CreatedAt = time.Unix(createdAtUnix, 0)
	return s, nil
}
