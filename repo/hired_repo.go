package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
)

// HiredRepository defines persistence for employee hires.
//
// department_id and job_id are stored as given: the repository never checks
// that the referenced department or job exists.
type HiredRepository interface {
	Insert(ctx context.Context, params models.CreateHiredParams) error
	BatchInsert(ctx context.Context, params []models.CreateHiredParams) error
	GetByID(ctx context.Context, id int64) (*models.Hired, error)
	Count(ctx context.Context) (int64, error)
}

type hiredRepo struct {
	q db.Querier
}

// NewHiredRepo returns a HiredRepository backed by q.
func NewHiredRepo(q db.Querier) HiredRepository {
	return &hiredRepo{q: q}
}

const (
	sqlInsertHired = `
		INSERT INTO hired (id, name, datetime, department_id, job_id)
		VALUES (?, ?, ?, ?, ?)`

	sqlGetHiredByID = `
		SELECT id, name, datetime, department_id, job_id
		FROM   hired
		WHERE  id = ?`

	sqlCountHired = `
		SELECT COUNT(*) FROM hired`
)

func hiredArgs(p models.CreateHiredParams) []any {
	return []any{
		p.ID,
		NullString(p.Name),
		NullString(p.Datetime),
		NullInt64(p.DepartmentID),
		NullInt64(p.JobID),
	}
}

func (r *hiredRepo) Insert(ctx context.Context, params models.CreateHiredParams) error {
	if _, err := r.q.Exec(ctx, sqlInsertHired, hiredArgs(params)...); err != nil {
		return fmt.Errorf("repo/hired: %w", err)
	}
	return nil
}

func (r *hiredRepo) BatchInsert(ctx context.Context, params []models.CreateHiredParams) error {
	if len(params) == 0 {
		return nil
	}
	stmt, err := r.q.Prepare(ctx, sqlInsertHired)
	if err != nil {
		return fmt.Errorf("repo/hired: prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range params {
		if _, err := stmt.Exec(ctx, hiredArgs(p)...); err != nil {
			return &BatchError{Index: i, Err: fmt.Errorf("repo/hired: %w", err)}
		}
	}
	return nil
}

// GetByID returns db.ErrNotFound when no hire has the id.
func (r *hiredRepo) GetByID(ctx context.Context, id int64) (*models.Hired, error) {
	var (
		h             models.Hired
		name, dt      sql.NullString
		deptID, jobID sql.NullInt64
	)
	err := r.q.QueryRow(ctx, sqlGetHiredByID, id).Scan(&h.ID, &name, &dt, &deptID, &jobID)
	if err != nil {
		return nil, fmt.Errorf("repo/hired: %w", err)
	}
	h.Name = StringPtr(name)
	h.Datetime = StringPtr(dt)
	h.DepartmentID = Int64Ptr(deptID)
	h.JobID = Int64Ptr(jobID)
	return &h, nil
}

func (r *hiredRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountHired).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/hired: %w", err)
	}
	return n, nil
}

var _ HiredRepository = (*hiredRepo)(nil)
