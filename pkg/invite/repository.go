package invite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phk910805/overtime-sub000/pkg/employee"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, invite Invite) (int, error)
	GetAll(ctx context.Context, orgId int) ([]Invite, error)
	// FindByCode looks an invite up across organizations: the code is the
	// only credential the joining person has.
	FindByCode(ctx context.Context, code string) (Invite, error)
	MarkUsed(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) Store(ctx context.Context, invite Invite) (int, error) {
	query := "INSERT INTO invite (org_id, code, display_name, role, used, created_by, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		invite.OrgID, invite.Code, invite.DisplayName, string(invite.Role),
		invite.Used, invite.CreatedBy, invite.ExpiresAt.Unix(), invite.CreatedAt.Unix(),
	)
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

func (r RepositoryImpl) GetAll(ctx context.Context, orgId int) ([]Invite, error) {
	query := "SELECT id, org_id, code, display_name, role, used, created_by, expires_at, created_at FROM invite WHERE org_id = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, orgId)
	if err != nil {
		err := fmt.Errorf("could not query invites: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var invites []Invite
	for rows.Next() {
		invite, err := scanInvite(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		invites = append(invites, invite)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return invites, nil
}

func (r RepositoryImpl) FindByCode(ctx context.Context, code string) (Invite, error) {
	query := "SELECT id, org_id, code, display_name, role, used, created_by, expires_at, created_at FROM invite WHERE code = ?"
	row := r.db.QueryRowContext(ctx, query, code)
	invite, err := scanInvite(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invite{}, ErrNotFound
		}
		err := fmt.Errorf("could not find invite: %w", err)
		log.Error(err)
		return Invite{}, err
	}
	return invite, nil
}

func (r RepositoryImpl) MarkUsed(ctx context.Context, id int) (bool, error) {
	query := "UPDATE invite SET used = 1 WHERE id = ? AND used = 0"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()
	result, err := stmt.ExecContext(ctx, id)
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

func scanInvite(scan func(dest ...any) error) (Invite, error) {
	var invite Invite
	var role string
	var expiresAtUnix, createdAtUnix int64
	if err := scan(&invite.ID, &invite.OrgID, &invite.Code, &invite.DisplayName, &role, &invite.Used, &invite.CreatedBy, &expiresAtUnix, &createdAtUnix); err != nil {
		return Invite{}, err
	}
	invite.Role = employee.Role(role)
	invite.ExpiresAt = time.Unix(expiresAtUnix, 0)
	invite.CreatedAt = time.Unix(createdAtUnix, 0)
	return invite, nil
}
