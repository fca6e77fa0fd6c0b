// Package api is the HTTP surface of the service: three CSV upload
// endpoints, two reports, a health check and the metrics endpoint.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/config"
	"github.com/Skryldev/hiring-api/ingest"
	"github.com/Skryldev/hiring-api/metrics"
	"github.com/Skryldev/hiring-api/models"
	"github.com/Skryldev/hiring-api/repo"
)

// Ingester stores CSV uploads. *ingest.Loader implements it.
type Ingester interface {
	LoadDepartments(ctx context.Context, r io.Reader) (ingest.Result, error)
	LoadJobs(ctx context.Context, r io.Reader) (ingest.Result, error)
	LoadHired(ctx context.Context, r io.Reader) (ingest.Result, error)
}

// Pinger checks store connectivity. *db.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes handler behaviour.
type Options struct {
	// StrictStatus answers 422 for validation errors and 409 for conflicts.
	// When false every failure but a missing file is a 500.
	StrictStatus bool

	// MaxUploadBytes caps upload request bodies. Zero means 32 MiB.
	MaxUploadBytes int64

	// DefaultYear is the report year when the request names none.
	DefaultYear string
}

// Handler serves every endpoint.
type Handler struct {
	ingester Ingester
	reports  repo.ReportRepository
	pinger   Pinger
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options
}

// NewHandler wires the handler. m may be nil, which disables /metrics and
// request instrumentation.
func NewHandler(ing Ingester, reports repo.ReportRepository, pinger Pinger, m *metrics.Metrics, logger *slog.Logger, opts Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.DefaultYear == "" {
		opts.DefaultYear = "2021"
	}
	return &Handler{
		ingester: ing,
		reports:  reports,
		pinger:   pinger,
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Uploads
// ─────────────────────────────────────────────────────────────────────────────

type uploadResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

type uploadErrorResponse struct {
	Error    string      `json:"error"`
	Code     apperr.Code `json:"code"`
	Inserted int         `json:"inserted"`
}

type loadFunc func(ctx context.Context, r io.Reader) (ingest.Result, error)

func (h *Handler) handleUploadDepartments(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "department", "CSV departments uploaded successfully", h.ingester.LoadDepartments)
}

func (h *Handler) handleUploadJobs(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "job", "CSV jobs uploaded successfully", h.ingester.LoadJobs)
}

func (h *Handler) handleUploadEmployees(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "hired", "CSV employees uploaded successfully", h.ingester.LoadHired)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, entity, message string, load loadFunc) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file")
		return
	}

	res, err := load(r.Context(), file)
	if h.metrics != nil {
		h.metrics.AddUploadedRows(entity, res.Inserted)
	}
	if err != nil {
		writeJSON(w, h.statusFor(err), uploadErrorResponse{
			Error:    err.Error(),
			Code:     apperr.CodeOf(err),
			Inserted: res.Inserted,
		})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Message: message, Inserted: res.Inserted})
}

// ─────────────────────────────────────────────────────────────────────────────
// Reports
// ─────────────────────────────────────────────────────────────────────────────

func (h *Handler) handleEmployeesByJobDepartment(w http.ResponseWriter, r *http.Request) {
	year, ok := h.reportYear(w, r)
	if !ok {
		return
	}
	rows, err := h.reports.EmployeesByJobDepartment(r.Context(), year)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	out := make([]models.QuarterlyHiresView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.View())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCountEmployeesDepartment(w http.ResponseWriter, r *http.Request) {
	year, ok := h.reportYear(w, r)
	if !ok {
		return
	}
	rows, err := h.reports.DepartmentsAboveMean(r.Context(), year)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	out := make([]models.DepartmentHiresView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.View())
	}
	writeJSON(w, http.StatusOK, out)
}

// reportYear reads the optional year query parameter. It writes a 400 and
// returns false when the value is not a 4-digit year.
func (h *Handler) reportYear(w http.ResponseWriter, r *http.Request) (string, bool) {
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		return h.opts.DefaultYear, true
	}
	if !config.ValidYear(year) {
		writeError(w, http.StatusBadRequest, "year must be a 4-digit year")
		return "", false
	}
	return year, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────────────────

// statusFor maps an error to a status code. Without strict status every
// failure is a 500, which is what clients of the upload endpoints expect.
func (h *Handler) statusFor(err error) int {
	if !h.opts.StrictStatus {
		return http.StatusInternalServerError
	}
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperr.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code,omitempty"`
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	writeJSON(w, h.statusFor(err), errorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}
