package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/models"
	"github.com/Skryldev/hiring-api/repo"
)

// ─────────────────────────────────────────────────────────────────────────────
// EmployeesByJobDepartment
// ─────────────────────────────────────────────────────────────────────────────

func TestReportRepo_EmployeesByJobDepartment_Quarters(t *testing.T) {
	database := newTestDB(t)
	seedDepartments(t, database, "Staff")
	seedJobs(t, database, "Recruiter")
	seedHires(t, database,
		hire(1, "2021-01-15T10:00:00Z", i64p(1), i64p(1)),
		hire(2, "2021-11-02T08:30:00Z", i64p(1), i64p(1)),
	)

	rows, err := repo.NewReportRepo(database).EmployeesByJobDepartment(context.Background(), "2021")
	require.NoError(t, err)
	require.Equal(t, []models.QuarterlyHires{
		{Department: "Staff", Job: "Recruiter", Q1: 1, Q2: 0, Q3: 0, Q4: 1},
	}, rows)
}

func TestReportRepo_EmployeesByJobDepartment_Filters(t *testing.T) {
	database := newTestDB(t)
	seedDepartments(t, database, "Sales", "Legal")
	seedJobs(t, database, "Analyst", "Manager")
	seedHires(t, database,
		hire(1, "2021-05-01T00:00:00Z", i64p(2), i64p(2)),
		hire(2, "2021-06-01T00:00:00Z", i64p(2), i64p(1)),
		hire(3, "2021-08-01T00:00:00Z", i64p(1), nil),      // no job
		hire(4, "2020-02-01T00:00:00Z", i64p(1), i64p(1)),  // other year
		hire(5, "2021-03-01T00:00:00Z", i64p(99), i64p(1)), // unknown department
		hire(6, "2021-09-30T23:59:59Z", i64p(2), i64p(2)),
		hire(7, "2021-07-15T00:00:00Z", i64p(1), i64p(77)), // unknown job
	)

	rows, err := repo.NewReportRepo(database).EmployeesByJobDepartment(context.Background(), "2021")
	require.NoError(t, err)
	assert.Equal(t, []models.QuarterlyHires{
		{Department: "Legal", Job: "Analyst", Q2: 1},
		{Department: "Legal", Job: "Manager", Q2: 1, Q3: 1},
		{Department: "Sales", Job: "", Q3: 2},
	}, rows)
}

func TestReportRepo_EmployeesByJobDepartment_OtherYear(t *testing.T) {
	database := newTestDB(t)
	seedDepartments(t, database, "Sales")
	seedHires(t, database,
		hire(1, "2021-05-01T00:00:00Z", i64p(1), nil),
		hire(2, "2022-12-01T00:00:00Z", i64p(1), nil),
	)

	rows, err := repo.NewReportRepo(database).EmployeesByJobDepartment(context.Background(), "2022")
	require.NoError(t, err)
	assert.Equal(t, []models.QuarterlyHires{{Department: "Sales", Q4: 1}}, rows)
}

func TestReportRepo_EmployeesByJobDepartment_Empty(t *testing.T) {
	rows, err := repo.NewReportRepo(newTestDB(t)).EmployeesByJobDepartment(context.Background(), "2021")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// DepartmentsAboveMean
// ─────────────────────────────────────────────────────────────────────────────

func seedAboveMean(t *testing.T) repo.ReportRepository {
	t.Helper()
	database := newTestDB(t)
	seedDepartments(t, database, "Alpha", "Beta", "Gamma")
	// 2021: Alpha 3, Beta 1, Gamma 0 -> mean over departments with hires = 2.
	// Beta gets one more hire in 2020, reaching the mean but not passing it.
	seedHires(t, database,
		hire(1, "2021-01-01T00:00:00Z", i64p(1), nil),
		hire(2, "2021-02-01T00:00:00Z", i64p(1), nil),
		hire(3, "2021-03-01T00:00:00Z", i64p(1), nil),
		hire(4, "2021-04-01T00:00:00Z", i64p(2), nil),
		hire(5, "2020-04-01T00:00:00Z", i64p(2), nil),
	)
	return repo.NewReportRepo(database)
}

func TestReportRepo_DepartmentsAboveMean(t *testing.T) {
	r := seedAboveMean(t)

	rows, err := r.DepartmentsAboveMean(context.Background(), "2021")
	require.NoError(t, err)
	assert.Equal(t, []models.DepartmentHires{
		{ID: 1, Department: "Alpha", Hired: 3},
	}, rows)
}

func TestReportRepo_DepartmentsAboveMean_NoHiresInYear(t *testing.T) {
	r := seedAboveMean(t)

	rows, err := r.DepartmentsAboveMean(context.Background(), "2019")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReportRepo_Idempotent(t *testing.T) {
	r := seedAboveMean(t)
	ctx := context.Background()

	first, err := r.DepartmentsAboveMean(ctx, "2021")
	require.NoError(t, err)
	second, err := r.DepartmentsAboveMean(ctx, "2021")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	q1, err := r.EmployeesByJobDepartment(ctx, "2021")
	require.NoError(t, err)
	q2, err := r.EmployeesByJobDepartment(ctx, "2021")
	require.NoError(t, err)
	assert.Equal(t, q1, q2)
}
