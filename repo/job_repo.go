package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
)

// JobRepository defines job persistence.
type JobRepository interface {
	Insert(ctx context.Context, params models.CreateJobParams) error
	BatchInsert(ctx context.Context, params []models.CreateJobParams) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Count(ctx context.Context) (int64, error)
}

type jobRepo struct {
	q db.Querier
}

// NewJobRepo returns a JobRepository backed by q.
func NewJobRepo(q db.Querier) JobRepository {
	return &jobRepo{q: q}
}

const (
	sqlInsertJob = `
		INSERT INTO job (id, name)
		VALUES (?, ?)`

	sqlGetJobByID = `
		SELECT id, name
		FROM   job
		WHERE  id = ?`

	sqlListJobs = `
		SELECT id, name
		FROM   job
		ORDER  BY id`

	sqlCountJobs = `
		SELECT COUNT(*) FROM job`
)

func (r *jobRepo) Insert(ctx context.Context, params models.CreateJobParams) error {
	if _, err := r.q.Exec(ctx, sqlInsertJob, params.ID, params.Name); err != nil {
		return fmt.Errorf("repo/job: %w", err)
	}
	return nil
}

func (r *jobRepo) BatchInsert(ctx context.Context, params []models.CreateJobParams) error {
	if len(params) == 0 {
		return nil
	}
	stmt, err := r.q.Prepare(ctx, sqlInsertJob)
	if err != nil {
		return fmt.Errorf("repo/job: prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range params {
		if _, err := stmt.Exec(ctx, p.ID, p.Name); err != nil {
			return &BatchError{Index: i, Err: fmt.Errorf("repo/job: %w", err)}
		}
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	j := &models.Job{}
	if err := r.q.QueryRow(ctx, sqlGetJobByID, id).Scan(&j.ID, &j.Name); err != nil {
		return nil, fmt.Errorf("repo/job: %w", err)
	}
	return j, nil
}

func (r *jobRepo) List(ctx context.Context) ([]*models.Job, error) {
	rows, err := r.q.Query(ctx, sqlListJobs)
	if err != nil {
		return nil, fmt.Errorf("repo/job: %w", err)
	}
	defer rows.Close()

	var out []*models.Job
	for rows.Next() {
		j := &models.Job{}
		if err := rows.Scan(&j.ID, &j.Name); err != nil {
			return nil, fmt.Errorf("repo/job: scan: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *jobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountJobs).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/job: %w", err)
	}
	return n, nil
}

var _ JobRepository = (*jobRepo)(nil)
