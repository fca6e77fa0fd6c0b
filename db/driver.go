package db

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
)

// ─────────────────────────────────────────────────────────────────────────────
// Driver interface
// ─────────────────────────────────────────────────────────────────────────────

// Driver encapsulates database-specific behaviour:
//   - building a DSN from structured options
//   - the placeholder style statements must be rewritten to
//   - the SQL dialect used to pick a migration set
//
// The database/sql drivers themselves register through blank imports in
// the binaries (see main.go and cmd/migrate).
type Driver interface {
	// Name returns the name passed to sql.Register, e.g. "pgx", "mysql".
	Name() string

	// DSN converts structured options into a driver DSN string.
	DSN(opts DriverOptions) (string, error)

	// BindVar reports the driver's native placeholder style.
	BindVar() BindVar

	// Dialect names the SQL dialect: "mysql", "postgres" or "sqlite3".
	Dialect() string
}

// DriverOptions carries the most common connection parameters in a structured,
// driver-agnostic form. DSN() converts them to the driver's native format.
type DriverOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require", "verify-full", etc.
	// Extra holds driver-specific key/value parameters.
	Extra map[string]string
}

// ─────────────────────────────────────────────────────────────────────────────
// Placeholders
// ─────────────────────────────────────────────────────────────────────────────

// BindVar is a placeholder style.
type BindVar int

const (
	// BindQuestion is "?" (MySQL, SQLite).
	BindQuestion BindVar = iota
	// BindDollar is "$1, $2, ..." (PostgreSQL).
	BindDollar
)

// Rebind rewrites "?" placeholders into the given style. Question marks
// inside single-quoted literals are left alone.
func Rebind(bv BindVar, query string) string {
	if bv != BindDollar || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Driver registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver adds a Driver to the global registry.
// Panics if a driver with the same name is already registered.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Name()]; ok {
		panic(fmt.Sprintf("db: driver %q already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver by name or an error.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("db: driver %q not registered", name)
	}
	return d, nil
}

// Drivers lists the registered driver names in sorted order.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenWithDriver opens a DB using a registered Driver and structured options,
// removing the need for manual DSN construction.
//
//	db, err := db.OpenWithDriver("mysql", db.DriverOptions{
//	    Host: "localhost", Port: 3306,
//	    User: "root", Database: "hiring",
//	}, db.Config{MaxOpenConns: 25})
func OpenWithDriver(driverName string, driverOpts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	dsn, err := drv.DSN(driverOpts)
	if err != nil {
		return nil, fmt.Errorf("db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn
	return Open(cfg)
}

// ─────────────────────────────────────────────────────────────────────────────
// MySQL driver adapter (go-sql-driver/mysql)
// ─────────────────────────────────────────────────────────────────────────────

// MySQLDriver is the built-in go-sql-driver/mysql adapter.
type MySQLDriver struct{}

func (MySQLDriver) Name() string     { return "mysql" }
func (MySQLDriver) BindVar() BindVar { return BindQuestion }
func (MySQLDriver) Dialect() string  { return "mysql" }

func (MySQLDriver) DSN(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("mysql driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 3306
	}
	c := mysql.NewConfig()
	c.User = o.User
	c.Passwd = o.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(o.Host, strconv.Itoa(port))
	c.DBName = o.Database
	if len(o.Extra) > 0 {
		c.Params = make(map[string]string, len(o.Extra))
		for k, v := range o.Extra {
			c.Params[k] = v
		}
	}
	return c.FormatDSN(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL driver adapters (lib/pq and pgx)
// ─────────────────────────────────────────────────────────────────────────────

// PostgresDriver is the built-in lib/pq adapter.
type PostgresDriver struct{}

func (PostgresDriver) Name() string     { return "postgres" }
func (PostgresDriver) BindVar() BindVar { return BindDollar }
func (PostgresDriver) Dialect() string  { return "postgres" }

func (PostgresDriver) DSN(o DriverOptions) (string, error) {
	return postgresURL(o)
}

// PgxDriver is the built-in pgx stdlib adapter.
type PgxDriver struct{}

func (PgxDriver) Name() string     { return "pgx" }
func (PgxDriver) BindVar() BindVar { return BindDollar }
func (PgxDriver) Dialect() string  { return "postgres" }

func (PgxDriver) DSN(o DriverOptions) (string, error) {
	return postgresURL(o)
}

// postgresURL builds a postgres:// URL, which lib/pq and pgx both accept.
func postgresURL(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("postgres driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(port)),
		Path:   "/" + o.Database,
	}
	if o.User != "" {
		u.User = url.UserPassword(o.User, o.Password)
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	for k, v := range o.Extra {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite driver adapter (mattn/go-sqlite3)
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver is the built-in mattn/go-sqlite3 adapter.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string     { return "sqlite3" }
func (SQLiteDriver) BindVar() BindVar { return BindQuestion }
func (SQLiteDriver) Dialect() string  { return "sqlite3" }

func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3 driver: Database (file path) is required")
	}
	if len(o.Extra) == 0 {
		return o.Database, nil
	}
	q := url.Values{}
	for k, v := range o.Extra {
		q.Set(k, v)
	}
	return o.Database + "?" + q.Encode(), nil
}

func init() {
	RegisterDriver(MySQLDriver{})
	RegisterDriver(PostgresDriver{})
	RegisterDriver(PgxDriver{})
	RegisterDriver(SQLiteDriver{})
}
