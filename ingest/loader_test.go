package ingest_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/config"
	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/ingest"
	"github.com/Skryldev/hiring-api/migrations"
	"github.com/Skryldev/hiring-api/repo"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "hiring.db") + "?_busy_timeout=5000"
	require.NoError(t, migrations.Up("sqlite3", dsn, nil))

	database, err := db.Open(db.Config{DSN: dsn, DriverName: "sqlite3"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func countDepartments(t *testing.T, database *db.DB) int64 {
	t.Helper()
	n, err := repo.NewDepartmentRepo(database).Count(context.Background())
	require.NoError(t, err)
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mode
// ─────────────────────────────────────────────────────────────────────────────

func TestLoader_LoadDepartments(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, "", nil)
	assert.Equal(t, config.IngestModeRow, l.Mode())

	res, err := l.LoadDepartments(context.Background(), strings.NewReader("1,Sales\n2,Legal\n3,Support\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, int64(3), countDepartments(t, database))
}

func TestLoader_RowMode_KeepsRowsBeforeDuplicate(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeRow, nil)

	res, err := l.LoadDepartments(context.Background(), strings.NewReader("1,Sales\n2,Legal\n3,Sales\n4,Support\n"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	assert.True(t, db.IsDuplicateKey(err))
	assert.True(t, strings.HasPrefix(err.Error(), "row 3: "), err.Error())
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, int64(2), countDepartments(t, database))
}

func TestLoader_ParseErrorWritesNothing(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeRow, nil)

	res, err := l.LoadDepartments(context.Background(), strings.NewReader("1,Sales\nbad,Legal\n"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Zero(t, res.Inserted)
	assert.Zero(t, countDepartments(t, database))
}

func TestLoader_LoadHired_NullJob(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeRow, nil)

	res, err := l.LoadHired(context.Background(), strings.NewReader(
		"1,Ada,2021-02-01T00:00:00Z,1,\n2,Bob,2021-03-01T00:00:00Z,1,NaN\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	for _, id := range []int64{1, 2} {
		h, err := repo.NewHiredRepo(database).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, h.JobID)
	}
}

func TestLoader_LoadJobs(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeRow, nil)

	res, err := l.LoadJobs(context.Background(), strings.NewReader("1,Analyst\n2,Recruiter\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
}

// ─────────────────────────────────────────────────────────────────────────────
// Atomic mode
// ─────────────────────────────────────────────────────────────────────────────

func TestLoader_AtomicMode_RollsBack(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeAtomic, nil)

	res, err := l.LoadDepartments(context.Background(), strings.NewReader("1,Sales\n2,Legal\n3,Sales\n"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "row 3: "), err.Error())
	assert.Zero(t, res.Inserted)
	assert.Zero(t, countDepartments(t, database))
}

func TestLoader_AtomicMode_Success(t *testing.T) {
	database := newTestDB(t)
	l := ingest.NewLoader(database, config.IngestModeAtomic, nil)

	res, err := l.LoadDepartments(context.Background(), strings.NewReader("1,Sales\n2,Legal\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, int64(2), countDepartments(t, database))
}
