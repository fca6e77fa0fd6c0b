package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/migrations"
	"github.com/Skryldev/hiring-api/models"
	"github.com/Skryldev/hiring-api/repo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

// newTestDB returns a migrated SQLite database in a temp file. A file is used
// instead of :memory: because the migrator runs on its own connection.
func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "hiring.db") + "?_busy_timeout=5000"
	require.NoError(t, migrations.Up("sqlite3", dsn, nil))

	database, err := db.Open(db.Config{
		DSN:        dsn,
		DriverName: "sqlite3",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func strp(s string) *string { return &s }
func i64p(n int64) *int64   { return &n }

func seedDepartments(t *testing.T, database *db.DB, names ...string) {
	t.Helper()
	r := repo.NewDepartmentRepo(database)
	for i, name := range names {
		require.NoError(t, r.Insert(context.Background(), models.CreateDepartmentParams{
			ID:   int64(i + 1),
			Name: name,
		}))
	}
}

func seedJobs(t *testing.T, database *db.DB, names ...string) {
	t.Helper()
	r := repo.NewJobRepo(database)
	for i, name := range names {
		require.NoError(t, r.Insert(context.Background(), models.CreateJobParams{
			ID:   int64(i + 1),
			Name: name,
		}))
	}
}

func hire(id int64, datetime string, deptID, jobID *int64) models.CreateHiredParams {
	return models.CreateHiredParams{
		ID:           id,
		Name:         strp("employee"),
		Datetime:     strp(datetime),
		DepartmentID: deptID,
		JobID:        jobID,
	}
}

func seedHires(t *testing.T, database *db.DB, hires ...models.CreateHiredParams) {
	t.Helper()
	require.NoError(t, repo.NewHiredRepo(database).BatchInsert(context.Background(), hires))
}
