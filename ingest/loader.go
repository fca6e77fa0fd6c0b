package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/config"
	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
	"github.com/Skryldev/hiring-api/repo"
)

// Result reports how many rows an upload wrote. On failure in row mode it
// still counts the rows committed before the failing one.
type Result struct {
	Inserted int
}

// Loader parses CSV uploads and stores them.
//
// In row mode (config.IngestModeRow) every row is its own autocommitted
// INSERT and a failure keeps the rows before it. In atomic mode
// (config.IngestModeAtomic) the upload runs in one transaction.
// Parsing always completes before the first insert, so a malformed line
// anywhere in the file writes nothing.
type Loader struct {
	db     *db.DB
	mode   string
	logger *slog.Logger
}

// NewLoader returns a Loader writing to database. An empty mode means row.
func NewLoader(database *db.DB, mode string, logger *slog.Logger) *Loader {
	if mode == "" {
		mode = config.IngestModeRow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{db: database, mode: mode, logger: logger}
}

// Mode returns the insert mode.
func (l *Loader) Mode() string { return l.mode }

// LoadDepartments stores a departments CSV.
func (l *Loader) LoadDepartments(ctx context.Context, r io.Reader) (Result, error) {
	params, err := ParseDepartments(r)
	if err != nil {
		return Result{}, err
	}
	return store(ctx, l, "department", params,
		func(q db.Querier) inserter[models.CreateDepartmentParams] { return repo.NewDepartmentRepo(q) })
}

// LoadJobs stores a jobs CSV.
func (l *Loader) LoadJobs(ctx context.Context, r io.Reader) (Result, error) {
	params, err := ParseJobs(r)
	if err != nil {
		return Result{}, err
	}
	return store(ctx, l, "job", params,
		func(q db.Querier) inserter[models.CreateJobParams] { return repo.NewJobRepo(q) })
}

// LoadHired stores an employees CSV.
func (l *Loader) LoadHired(ctx context.Context, r io.Reader) (Result, error) {
	params, err := ParseHired(r)
	if err != nil {
		return Result{}, err
	}
	return store(ctx, l, "hired", params,
		func(q db.Querier) inserter[models.CreateHiredParams] { return repo.NewHiredRepo(q) })
}

// inserter is the write side shared by the three repositories.
type inserter[P any] interface {
	Insert(ctx context.Context, params P) error
	BatchInsert(ctx context.Context, params []P) error
}

func store[P any](ctx context.Context, l *Loader, entity string, params []P, newRepo func(db.Querier) inserter[P]) (Result, error) {
	start := time.Now()
	var (
		res Result
		err error
	)
	if l.mode == config.IngestModeAtomic {
		res, err = storeAtomic(ctx, l.db, params, newRepo)
	} else {
		res, err = storeRows(ctx, newRepo(l.db), params)
	}

	attrs := []any{
		"entity", entity,
		"mode", l.mode,
		"rows", len(params),
		"inserted", res.Inserted,
		"duration", time.Since(start),
	}
	if err != nil {
		l.logger.WarnContext(ctx, "csv upload failed", append(attrs, "error", err)...)
		return res, err
	}
	l.logger.InfoContext(ctx, "csv upload stored", attrs...)
	return res, nil
}

// storeRows commits row by row and stops at the first failure.
func storeRows[P any](ctx context.Context, r inserter[P], params []P) (Result, error) {
	for i, p := range params {
		if err := r.Insert(ctx, p); err != nil {
			return Result{Inserted: i}, fmt.Errorf("row %d: %w", i+1, apperr.FromDB(err))
		}
	}
	return Result{Inserted: len(params)}, nil
}

// storeAtomic writes every row in one transaction; nothing persists on
// failure.
func storeAtomic[P any](ctx context.Context, database *db.DB, params []P, newRepo func(db.Querier) inserter[P]) (Result, error) {
	err := database.ExecTx(ctx, func(tx *db.Tx) error {
		return newRepo(tx).BatchInsert(ctx, params)
	})
	if err != nil {
		var be *repo.BatchError
		if errors.As(err, &be) {
			return Result{}, fmt.Errorf("row %d: %w", be.Index+1, apperr.FromDB(be.Err))
		}
		return Result{}, apperr.FromDB(err)
	}
	return Result{Inserted: len(params)}, nil
}
