package api_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/api"
	"github.com/Skryldev/hiring-api/config"
	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/ingest"
	"github.com/Skryldev/hiring-api/metrics"
	"github.com/Skryldev/hiring-api/migrations"
	"github.com/Skryldev/hiring-api/repo"
)

type server struct {
	db      *db.DB
	handler http.Handler
}

func newServer(t *testing.T, mode string) *server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dsn := filepath.Join(t.TempDir(), "hiring.db") + "?_busy_timeout=5000"
	require.NoError(t, migrations.Up("sqlite3", dsn, logger))

	m := metrics.New()
	database, err := db.Open(db.Config{
		DSN:        dsn,
		DriverName: "sqlite3",
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{Logger: logger}),
			db.NewMetricsHook(m),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	h := api.NewHandler(
		ingest.NewLoader(database, mode, logger),
		repo.NewReportRepo(database),
		database,
		m,
		logger,
		api.Options{DefaultYear: "2021"},
	)
	return &server{db: database, handler: h.Routes()}
}

func (s *server) upload(t *testing.T, path, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *server) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestE2E_UploadDepartments(t *testing.T) {
	s := newServer(t, config.IngestModeRow)

	rec := s.upload(t, "/upload_departments", "1,Supply Chain\n2,Maintenance\n3,Staff\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"CSV departments uploaded successfully","inserted":3}`, rec.Body.String())
	assert.Equal(t, int64(3), s.count(t, "department"))
}

func TestE2E_NoFileWritesNothing(t *testing.T) {
	s := newServer(t, config.IngestModeRow)

	req := httptest.NewRequest(http.MethodPost, "/upload_departments", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No file"}`, rec.Body.String())
	assert.Zero(t, s.count(t, "department"))
}

func TestE2E_DuplicateKeepsEarlierRows(t *testing.T) {
	s := newServer(t, config.IngestModeRow)

	rec := s.upload(t, "/upload_departments", "1,Sales\n2,Legal\n3,Sales\n")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"conflict"`)
	assert.Contains(t, rec.Body.String(), `"inserted":2`)
	assert.Equal(t, int64(2), s.count(t, "department"))
}

func TestE2E_AtomicDuplicateWritesNothing(t *testing.T) {
	s := newServer(t, config.IngestModeAtomic)

	rec := s.upload(t, "/upload_departments", "1,Sales\n2,Legal\n3,Sales\n")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, s.count(t, "department"))
}

func TestE2E_Reports(t *testing.T) {
	s := newServer(t, config.IngestModeRow)

	require.Equal(t, http.StatusOK, s.upload(t, "/upload_departments", "1,Staff\n2,Legal\n3,Sales\n").Code)
	require.Equal(t, http.StatusOK, s.upload(t, "/upload_jobs", "1,Recruiter\n2,Analyst\n").Code)
	require.Equal(t, http.StatusOK, s.upload(t, "/upload_employees",
		"1,Ann,2021-01-15T10:00:00Z,1,1\n"+
		"2,Ben,2021-11-02T08:30:00Z,1,1\n"+
		"3,Cid,2021-04-20T08:30:00Z,1,\n"+
		"4,Dee,2021-06-20T08:30:00Z,2,2.0\n"+
		"5,Eve,2020-06-20T08:30:00Z,3,NaN\n"+
		"6,Fay,2021-02-20T08:30:00Z,77,1\n").Code)

	for i := 0; i < 2; i++ {
		rec := s.get("/employees_by_job_department")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[
			{"department":"Legal","job":"Analyst","q1":"0","q2":"1","q3":"0","q4":"0"},
			{"department":"Staff","job":"","q1":"0","q2":"1","q3":"0","q4":"0"},
			{"department":"Staff","job":"Recruiter","q1":"1","q2":"0","q3":"0","q4":"1"}
		]`, rec.Body.String())

		// 2021 counts: Staff 3, Legal 1 -> mean 2. The orphan hire joins no
		// department and stays out of the mean.
		rec = s.get("/count_employees_department")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":"1","department":"Staff","hired":"3"}]`, rec.Body.String())
	}

	// 2020 counts: Sales 1 -> mean 1. Staff passes on its all-time count,
	// Sales only reaches the mean.
	rec := s.get("/count_employees_department?year=2020")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"1","department":"Staff","hired":"3"}]`, rec.Body.String())

	rec = s.get("/count_employees_department?year=2019")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestE2E_HealthAndMetrics(t *testing.T) {
	s := newServer(t, config.IngestModeRow)
	assert.Equal(t, http.StatusOK, s.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, s.get("/employees_by_job_department").Code)

	rec := s.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hiring_db_query_duration_seconds")
}
