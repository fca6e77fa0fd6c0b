package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
)

// ReportRepository runs the two fixed hiring reports. Both are read-only and
// computed entirely by the database engine.
type ReportRepository interface {
	// EmployeesByJobDepartment counts the hires of year per department and
	// job, split by quarter.
	EmployeesByJobDepartment(ctx context.Context, year string) ([]models.QuarterlyHires, error)

	// DepartmentsAboveMean lists departments whose all-time hire count is
	// above the mean per-department hire count of year.
	DepartmentsAboveMean(ctx context.Context, year string) ([]models.DepartmentHires, error)
}

type reportRepo struct {
	q db.Querier
}

// NewReportRepo returns a ReportRepository backed by q.
func NewReportRepo(q db.Querier) ReportRepository {
	return &reportRepo{q: q}
}

// The queries stick to SUBSTR, CASE and COALESCE so the same text runs on
// MySQL, PostgreSQL and SQLite. datetime is stored verbatim as
// YYYY-MM-DDTHH:MM:SSZ: the year is characters 1-4 and the month 6-7.
const (
	sqlEmployeesByJobDepartment = `
		SELECT d.name                                    AS department,
		       COALESCE(j.name, '')                      AS job,
		       SUM(CASE WHEN q.qtr = 1 THEN 1 ELSE 0 END) AS q1,
		       SUM(CASE WHEN q.qtr = 2 THEN 1 ELSE 0 END) AS q2,
		       SUM(CASE WHEN q.qtr = 3 THEN 1 ELSE 0 END) AS q3,
		       SUM(CASE WHEN q.qtr = 4 THEN 1 ELSE 0 END) AS q4
		FROM (
		    SELECT h.department_id,
		           h.job_id,
		           CASE
		               WHEN SUBSTR(h.datetime, 6, 2) IN ('01', '02', '03') THEN 1
		               WHEN SUBSTR(h.datetime, 6, 2) IN ('04', '05', '06') THEN 2
		               WHEN SUBSTR(h.datetime, 6, 2) IN ('07', '08', '09') THEN 3
		               WHEN SUBSTR(h.datetime, 6, 2) IN ('10', '11', '12') THEN 4
		           END AS qtr
		    FROM   hired h
		    WHERE  SUBSTR(h.datetime, 1, 4) = ?
		) q
		JOIN      department d ON d.id = q.department_id
		LEFT JOIN job j        ON j.id = q.job_id
		GROUP  BY d.name, j.name
		ORDER  BY d.name, COALESCE(j.name, '')`

	// The WHERE on h2 discards departments without hires in the year, so
	// they do not pull the mean down. COUNT(h.id) reports 0 for a
	// department with no hires at all; the threshold is at least 1, so
	// such a department is never returned either way.
	sqlDepartmentsAboveMean = `
		SELECT d.id,
		       d.name      AS department,
		       COUNT(h.id) AS hire_count
		FROM      department d
		LEFT JOIN hired h ON h.department_id = d.id
		GROUP  BY d.id, d.name
		HAVING COUNT(h.id) > (
		    SELECT AVG(c.hire_count)
		    FROM (
		        SELECT   h2.department_id,
		                 COUNT(*) AS hire_count
		        FROM      department d2
		        LEFT JOIN hired h2 ON h2.department_id = d2.id
		        WHERE    SUBSTR(h2.datetime, 1, 4) = ?
		        GROUP BY h2.department_id
		    ) c
		)
		ORDER  BY d.id`
)

func (r *reportRepo) EmployeesByJobDepartment(ctx context.Context, year string) ([]models.QuarterlyHires, error) {
	rows, err := r.q.Query(ctx, sqlEmployeesByJobDepartment, year)
	if err != nil {
		return nil, fmt.Errorf("repo/report: employees by job and department: %w", err)
	}
	defer rows.Close()

	out := make([]models.QuarterlyHires, 0)
	for rows.Next() {
		var q models.QuarterlyHires
		if err := rows.Scan(&q.Department, &q.Job, &q.Q1, &q.Q2, &q.Q3, &q.Q4); err != nil {
			return nil, fmt.Errorf("repo/report: scan: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo/report: %w", err)
	}
	return out, nil
}

func (r *reportRepo) DepartmentsAboveMean(ctx context.Context, year string) ([]models.DepartmentHires, error) {
	rows, err := r.q.Query(ctx, sqlDepartmentsAboveMean, year)
	if err != nil {
		return nil, fmt.Errorf("repo/report: departments above mean: %w", err)
	}
	defer rows.Close()

	out := make([]models.DepartmentHires, 0)
	for rows.Next() {
		var d models.DepartmentHires
		if err := rows.Scan(&d.ID, &d.Department, &d.Hired); err != nil {
			return nil, fmt.Errorf("repo/report: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo/report: %w", err)
	}
	return out, nil
}

var _ ReportRepository = (*reportRepo)(nil)
