// Package sqlstore persists operations and the level catalog through
// database/sql. MySQL is the production backend; SQLite serves local runs and
// tests. Both share the same queries.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"copilot-ops/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

type Storage struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// New opens the database described by cfg and, when cfg.Migrate is set,
// applies the embedded migrations.
func New(ctx context.Context, cfg config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := NewWithDB(db, cfg.Driver)

	if cfg.Migrate {
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, driver string) *Storage {
	return &Storage{db: db, driver: driver, now: time.Now}
}

// DSN builds the driver-specific connection string.
func DSN(cfg config.Storage) (string, error) {
	switch cfg.Driver {
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = cfg.DBUser
		c.Passwd = cfg.DBPassword
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
		c.DBName = cfg.DBName
		c.ParseTime = true
		// report matched rather than changed rows so an update with
		// identical content is not mistaken for a missing row
		c.ClientFoundRows = true
		return c.FormatDSN(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite: empty path")
		}
		return cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Migrate applies the embedded migrations for the storage's driver.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlstore.Migrate"

	dialect := s.driver
	if dialect == DriverSQLite {
		dialect = "sqlite3"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, s.db, path.Join("migrations", s.driver)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
