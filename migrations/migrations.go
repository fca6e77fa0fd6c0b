// Package migrations embeds the schema for every supported SQL dialect and
// applies it with golang-migrate. Each migration file holds exactly one
// statement so no driver needs multi-statement support.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Skryldev/hiring-api/db"
)

//go:embed mysql/*.sql postgres/*.sql sqlite3/*.sql
var files embed.FS

// Open returns a migrator for the database at dsn. It opens its own
// *sql.DB, separate from the application pool, because closing the
// migrator closes the connection it was built on.
//
// The caller must Close the returned migrator.
func Open(driverName, dsn string, logger *slog.Logger) (*migrate.Migrate, error) {
	drv, err := db.LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(files, drv.Dialect())
	if err != nil {
		return nil, fmt.Errorf("migrations: source %s: %w", drv.Dialect(), err)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("migrations: open: %w", err)
	}

	target, err := databaseDriver(driverName, sqlDB)
	if err != nil {
		_ = src.Close()
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrations: database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, target)
	if err != nil {
		_ = src.Close()
		_ = target.Close()
		return nil, fmt.Errorf("migrations: init: %w", err)
	}
	m.Log = NewLogger(logger, false)
	return m, nil
}

// Up applies every pending migration. Running it against an up-to-date
// schema is a no-op.
func Up(driverName, dsn string, logger *slog.Logger) error {
	m, err := Open(driverName, dsn, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}

func databaseDriver(driverName string, sqlDB *sql.DB) (database.Driver, error) {
	switch driverName {
	case "mysql":
		return migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	case "postgres":
		return migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	case "pgx":
		return migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	case "sqlite3":
		return migratesqlite3.WithInstance(sqlDB, &migratesqlite3.Config{})
	}
	return nil, fmt.Errorf("unsupported driver %q", driverName)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger adapts slog to migrate.Logger.
type Logger struct {
	logger  *slog.Logger
	verbose bool
}

// NewLogger returns a migrate.Logger writing through logger, or through
// slog.Default() when logger is nil.
func NewLogger(logger *slog.Logger, verbose bool) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger, verbose: verbose}
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (l *Logger) Verbose() bool { return l.verbose }

var _ migrate.Logger = (*Logger)(nil)
