package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("db: record not found")

	// ErrDuplicateKey is returned on primary key and unique constraint violations.
	ErrDuplicateKey = errors.New("db: duplicate key")

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated.
	ErrForeignKeyViolation = errors.New("db: foreign key violation")

	// ErrNotNullViolation is returned when a required column receives NULL.
	ErrNotNullViolation = errors.New("db: not null violation")

	// ErrDeadlock is returned when the database detects a deadlock or a lock
	// could not be acquired.
	ErrDeadlock = errors.New("db: deadlock detected")

	// ErrTimeout is returned when a statement exceeds its deadline.
	ErrTimeout = errors.New("db: query timeout")

	// ErrCheckViolation is returned when a CHECK constraint is violated.
	ErrCheckViolation = errors.New("db: check constraint violation")

	// ErrConnectionFailed is returned when the driver cannot reach the server.
	ErrConnectionFailed = errors.New("db: connection failed")
)

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool        { return errors.Is(err, ErrDuplicateKey) }
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
func IsNotNullViolation(err error) bool    { return errors.Is(err, ErrNotNullViolation) }
func IsDeadlock(err error) bool            { return errors.Is(err, ErrDeadlock) }
func IsTimeout(err error) bool             { return errors.Is(err, ErrTimeout) }
func IsCheckViolation(err error) bool      { return errors.Is(err, ErrCheckViolation) }
func IsConnectionFailed(err error) bool    { return errors.Is(err, ErrConnectionFailed) }

// ─────────────────────────────────────────────────────────────────────────────
// DBError
// ─────────────────────────────────────────────────────────────────────────────

// DBError pairs a sentinel with the original driver error so callers can use
// errors.Is(err, ErrDuplicateKey) for simple checks or inspect Cause for the
// driver's own message.
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s: %v", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// ─────────────────────────────────────────────────────────────────────────────
// ErrorMapper
// ─────────────────────────────────────────────────────────────────────────────

// ErrorMapper translates raw driver errors into the package's sentinel errors.
type ErrorMapper interface {
	Map(err error) error
}

// ErrorMapperFunc is a convenience adapter from a function to ErrorMapper.
type ErrorMapperFunc func(error) error

func (f ErrorMapperFunc) Map(err error) error { return f(err) }

// DefaultErrorMapper returns a mapper that understands every driver the
// service can run on: MySQL, PostgreSQL through lib/pq or pgx, and SQLite.
func DefaultErrorMapper() ErrorMapper {
	return ErrorMapperFunc(defaultMap)
}

func defaultMap(err error) error {
	if err == nil {
		return nil
	}

	// Already mapped; do not double-wrap.
	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	for _, m := range []func(error) error{
		mapMySQLError,
		mapPQError,
		mapPgxError,
		mapSQLiteError,
		mapConnError,
	} {
		if mapped := m(err); mapped != nil {
			return mapped
		}
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// MySQL
// ─────────────────────────────────────────────────────────────────────────────

func mapMySQLError(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return nil
	}
	switch me.Number {
	case 1062: // ER_DUP_ENTRY
		return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
	case 1452, 1216, 1217, 1451: // ER_NO_REFERENCED_ROW*, ER_ROW_IS_REFERENCED*
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: err}
	case 1048, 1364: // ER_BAD_NULL_ERROR, ER_NO_DEFAULT_FOR_FIELD
		return &DBError{Sentinel: ErrNotNullViolation, Cause: err}
	case 3819: // ER_CHECK_CONSTRAINT_VIOLATED
		return &DBError{Sentinel: ErrCheckViolation, Cause: err}
	case 1213, 1205: // ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return &DBError{Sentinel: ErrDeadlock, Cause: err}
	case 3024: // ER_QUERY_TIMEOUT
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	case 1045, 1040: // ER_ACCESS_DENIED_ERROR, ER_CON_COUNT_ERROR
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL (lib/pq and pgx share SQLSTATE codes)
// ─────────────────────────────────────────────────────────────────────────────

func mapPQError(err error) error {
	var pe *pq.Error
	if !errors.As(err, &pe) {
		return nil
	}
	return mapBySQLState(string(pe.Code), err)
}

func mapPgxError(err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return mapBySQLState(pe.Code, err)
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}

func mapBySQLState(code string, cause error) error {
	switch code {
	case pgerrcode.UniqueViolation:
		return &DBError{Sentinel: ErrDuplicateKey, Cause: cause}
	case pgerrcode.ForeignKeyViolation:
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: cause}
	case pgerrcode.NotNullViolation:
		return &DBError{Sentinel: ErrNotNullViolation, Cause: cause}
	case pgerrcode.CheckViolation:
		return &DBError{Sentinel: ErrCheckViolation, Cause: cause}
	case pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return &DBError{Sentinel: ErrDeadlock, Cause: cause}
	case pgerrcode.QueryCanceled:
		return &DBError{Sentinel: ErrTimeout, Cause: cause}
	}
	if pgerrcode.IsConnectionException(code) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: cause}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite
// ─────────────────────────────────────────────────────────────────────────────

func mapSQLiteError(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return nil
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
	case sqlite3.ErrConstraintForeignKey:
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: err}
	case sqlite3.ErrConstraintNotNull:
		return &DBError{Sentinel: ErrNotNullViolation, Cause: err}
	case sqlite3.ErrConstraintCheck:
		return &DBError{Sentinel: ErrCheckViolation, Cause: err}
	}
	switch se.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return &DBError{Sentinel: ErrDeadlock, Cause: err}
	case sqlite3.ErrCantOpen:
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport-level failures
// ─────────────────────────────────────────────────────────────────────────────

func mapConnError(err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}
