package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("organization not found")

type Repository interface {
	Store(ctx context.Context, org Organization) (int, error)
	FindById(ctx context.Context, id int) (Organization, error)
	UpdateStatus(ctx context.Context, id int, status Status) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) Store(ctx context.Context, org Organization) (int, error) {
	query := "INSERT INTO organization (uid, name, status, trial_ends_at, created_at) VALUES (?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, org.Uid, org.Name, string(org.Status), org.TrialEndsAt.Unix(), org.CreatedAt.Unix())
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return int(lastInsertID), nil
}

func (r RepositoryImpl) FindById(ctx context.Context, id int) (Organization, error) {
	query := "SELECT id, uid, name, status, trial_ends_at, created_at FROM organization WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)

	var org Organization
	var status string
	var trialEndsAtUnix, createdAtUnix int64
	if err := row.Scan(&org.ID, &org.Uid, &org.Name, &status, &trialEndsAtUnix, &createdAtUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		err := fmt.Errorf("could not find organization %d: %w", id, err)
		log.Error(err)
		return Organization{}, err
	}
	org.Status = Status(status)
	org.TrialEndsAt = time.Unix(trialEndsAtUnix, 0)
	org.CreatedAt = time.Unix(createdAtUnix, 0)
	return org, nil
}

func (r RepositoryImpl) UpdateStatus(ctx context.Context, id int, status Status) (bool, error) {
	query := "UPDATE organization SET status = ? WHERE id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, string(status), id)
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
