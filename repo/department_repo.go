package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// DepartmentRepository
// ─────────────────────────────────────────────────────────────────────────────

// DepartmentRepository defines department persistence. Departments are only
// ever inserted; there is no update or delete.
type DepartmentRepository interface {
	Insert(ctx context.Context, params models.CreateDepartmentParams) error
	BatchInsert(ctx context.Context, params []models.CreateDepartmentParams) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Count(ctx context.Context) (int64, error)
}

type departmentRepo struct {
	q db.Querier
}

// NewDepartmentRepo returns a DepartmentRepository backed by q.
// q can be a *db.DB or *db.Tx.
func NewDepartmentRepo(q db.Querier) DepartmentRepository {
	return &departmentRepo{q: q}
}

const (
	sqlInsertDepartment = `
		INSERT INTO department (id, name)
		VALUES (?, ?)`

	sqlGetDepartmentByID = `
		SELECT id, name
		FROM   department
		WHERE  id = ?`

	sqlListDepartments = `
		SELECT id, name
		FROM   department
		ORDER  BY id`

	sqlCountDepartments = `
		SELECT COUNT(*) FROM department`
)

// Insert stores one department. A duplicate id or name fails with
// db.ErrDuplicateKey.
func (r *departmentRepo) Insert(ctx context.Context, params models.CreateDepartmentParams) error {
	if _, err := r.q.Exec(ctx, sqlInsertDepartment, params.ID, params.Name); err != nil {
		return fmt.Errorf("repo/department: %w", err)
	}
	return nil
}

// BatchInsert stores every department through one prepared statement.
// Run it on a *db.Tx to make the batch all-or-nothing. A failing item is
// reported as a *BatchError.
func (r *departmentRepo) BatchInsert(ctx context.Context, params []models.CreateDepartmentParams) error {
	if len(params) == 0 {
		return nil
	}
	stmt, err := r.q.Prepare(ctx, sqlInsertDepartment)
	if err != nil {
		return fmt.Errorf("repo/department: prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range params {
		if _, err := stmt.Exec(ctx, p.ID, p.Name); err != nil {
			return &BatchError{Index: i, Err: fmt.Errorf("repo/department: %w", err)}
		}
	}
	return nil
}

// GetByID returns db.ErrNotFound when no department has the id.
func (r *departmentRepo) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	d := &models.Department{}
	if err := r.q.QueryRow(ctx, sqlGetDepartmentByID, id).Scan(&d.ID, &d.Name); err != nil {
		return nil, fmt.Errorf("repo/department: %w", err)
	}
	return d, nil
}

// List returns every department ordered by id.
func (r *departmentRepo) List(ctx context.Context) ([]*models.Department, error) {
	rows, err := r.q.Query(ctx, sqlListDepartments)
	if err != nil {
		return nil, fmt.Errorf("repo/department: %w", err)
	}
	defer rows.Close()

	var out []*models.Department
	for rows.Next() {
		d := &models.Department{}
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("repo/department: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Count returns the number of stored departments.
func (r *departmentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountDepartments).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/department: %w", err)
	}
	return n, nil
}

var _ DepartmentRepository = (*departmentRepo)(nil)
