package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Skryldev/hiring-api/db"
)

// DBConfig contains store configuration. Either DSN is set, or the
// connection is described by Host, Port, User, Password, Name and SSLMode
// and the DSN is built by the driver adapter.
type DBConfig struct {
	Driver   string `env:"DRIVER"   envDefault:"mysql"`
	DSN      string `env:"DSN"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"`
	User     string `env:"USER"     envDefault:"root"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"     envDefault:"hiring"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // postgres only

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"     envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"  envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`

	// QueryTimeout is applied to statements whose context has no deadline.
	// Zero disables it.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"0s"`

	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`
	LogArgs            bool          `env:"LOG_ARGS"             envDefault:"false"`

	// RunMigrationsOnStart controls whether the server applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	ConnectAttempts int           `env:"CONNECT_ATTEMPTS" envDefault:"10"`
	ConnectDelay    time.Duration `env:"CONNECT_DELAY"    envDefault:"2s"`
}

// Sanitize applies guardrails to pool and retry values.
func (d *DBConfig) Sanitize() {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	d.DSN = strings.TrimSpace(d.DSN)
	if d.MaxIdleConns > d.MaxOpenConns && d.MaxOpenConns > 0 {
		d.MaxIdleConns = d.MaxOpenConns
	}
	if d.ConnectAttempts < 1 {
		d.ConnectAttempts = 1
	}
	if d.QueryTimeout < 0 {
		d.QueryTimeout = 0
	}
}

// Validate checks that the driver is registered with the store layer.
func (d *DBConfig) Validate() error {
	if _, err := db.LookupDriver(d.Driver); err != nil {
		return fmt.Errorf("DB_DRIVER: %w (known: %s)", err, strings.Join(db.Drivers(), ", "))
	}
	return nil
}

// DriverOptions returns the structured connection options for the driver
// adapter.
func (d *DBConfig) DriverOptions() db.DriverOptions {
	return db.DriverOptions{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
	}
}

// ResolveDSN returns DSN when set, otherwise builds one from the
// structured options.
func (d *DBConfig) ResolveDSN() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	drv, err := db.LookupDriver(d.Driver)
	if err != nil {
		return "", err
	}
	dsn, err := drv.DSN(d.DriverOptions())
	if err != nil {
		return "", fmt.Errorf("build %s DSN: %w", d.Driver, err)
	}
	return dsn, nil
}

// PoolConfig maps the settings onto db.Config. DSN and hooks are filled in
// by the caller.
func (d *DBConfig) PoolConfig() db.Config {
	return db.Config{
		DriverName:      d.Driver,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		DefaultTimeout:  d.QueryTimeout,
	}
}
