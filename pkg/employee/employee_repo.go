package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type EmployeeRepo interface {
	// Store stores a new Employee to the database
	Store(ctx context.Context, e Employee) (int, error)
	GetAll(ctx context.Context, orgId int, includeInactive bool) ([]Employee, error)
	FindById(ctx context.Context, orgId int, id int) (Employee, error)
	FindByUid(ctx context.Context, uid string) (Employee, error)
	Deactivate(ctx context.Context, orgId int, id int) (bool, error)
}

type EmployeeRepoImpl struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepoImpl {
	return &EmployeeRepoImpl{db: db}
}

func (r EmployeeRepoImpl) Store(ctx context.Context, e Employee) (int, error) {
	query := "INSERT INTO employee (uid, org_id, display_name, role, active, created_at) VALUES (?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, e.Uid, e.OrgID, e.DisplayName, string(e.Role), e.Active, e.CreatedAt.Unix())
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

func (r EmployeeRepoImpl) GetAll(ctx context.Context, orgId int, includeInactive bool) ([]Employee, error) {
	activeWhereQuery := "AND employee.active = 1"
	if includeInactive {
		activeWhereQuery = ""
	}
	query := fmt.Sprintf(
		"SELECT id, uid, org_id, display_name, role, active, created_at FROM employee WHERE org_id = ? %s ORDER BY display_name",
		activeWhereQuery,
	)
	rows, err := r.db.QueryContext(ctx, query, orgId)
	if err != nil {
		err := fmt.Errorf("could not query employees: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return employees, nil
}

func (r EmployeeRepoImpl) FindById(ctx context.Context, orgId int, id int) (Employee, error) {
	query := "SELECT id, uid, org_id, display_name, role, active, created_at FROM employee WHERE org_id = ? AND id = ?"
	row := r.db.QueryRowContext(ctx, query, orgId, id)
	e, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNoEmployee
		}
		err := fmt.Errorf("could not find employee %d: %w", id, err)
		log.Error(err)
		return Employee{}, err
	}
	return e, nil
}

func (r EmployeeRepoImpl) FindByUid(ctx context.Context, uid string) (Employee, error) {
	query := "SELECT id, uid, org_id, display_name, role, active, created_at FROM employee WHERE uid = ?"
	row := r.db.QueryRowContext(ctx, query, uid)
	e, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNoEmployee
		}
		err := fmt.Errorf("could not find employee %s: %w", uid, err)
		log.Error(err)
		return Employee{}, err
	}
	return e, nil
}

func (r EmployeeRepoImpl) Deactivate(ctx context.Context, orgId int, id int) (bool, error) {
	query := "UPDATE employee SET active = 0 WHERE org_id = ? AND id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()
	result, err := stmt.ExecContext(ctx, orgId, id)
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

func scanEmployee(scan func(dest ...any) error) (Employee, error) {
	var e Employee
	var role string
	var createdAtUnix int64
	if err := scan(&e.ID, &e.Uid, &e.OrgID, &e.DisplayName, &role, &e.Active, &createdAtUnix); err != nil {
		return Employee{}, err
	}
	e.Role = Role(role)
	e.CreatedAt = time.Unix(createdAtUnix, 0)
	return e, nil
}
