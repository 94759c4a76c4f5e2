package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, orgId int, n Notification) (int, error)
	GetForEmployee(ctx context.Context, orgId int, employeeId int, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, orgId int, employeeId int, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) Store(ctx context.Context, orgId int, n Notification) (int, error) {
	query := "INSERT INTO notification (org_id, employee_id, kind, message, read, created_at) VALUES (?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, orgId, n.EmployeeID, string(n.Kind), n.Message, n.Read, n.CreatedAt.Unix())
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

func (r RepositoryImpl) GetForEmployee(ctx context.Context, orgId int, employeeId int, unreadOnly bool) ([]Notification, error) {
	unreadWhereQuery := ""
	if unreadOnly {
		unreadWhereQuery = "AND read = 0"
	}
	query := fmt.Sprintf(
		"SELECT id, employee_id, kind, message, read, created_at FROM notification WHERE org_id = ? AND employee_id = ? %s ORDER BY created_at DESC, id DESC",
		unreadWhereQuery,
	)
	rows, err := r.db.QueryContext(ctx, query, orgId, employeeId)
	if err != nil {
		err := fmt.Errorf("could not query notifications: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var kind string
		var createdAtUnix int64
		if err := rows.Scan(&n.ID, &n.EmployeeID, &kind, &n.Message, &n.Read, &createdAtUnix); err != nil {
			log.Error(err)
			return nil, err
		}
		n.Kind = Kind(kind)
		n.CreatedAt = time.Unix(createdAtUnix, 0)
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return notifications, nil
}

func (r RepositoryImpl) MarkRead(ctx context.Context, orgId int, employeeId int, id int) (bool, error) {
	query := "UPDATE notification SET read = 1 WHERE org_id = ? AND employee_id = ? AND id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()
	result, err := stmt.ExecContext(ctx, orgId, employeeId, id)
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
