package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Supported driver names after normalization.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// DB wraps *sql.DB with the dialect needed to build queries.
type DB struct {
	SQL    *sql.DB
	Driver string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connect opens the database, tunes the pool and verifies connectivity.
func Connect(ctx context.Context, driver, dsn string) (*DB, error) {
	driver = normalizeDriver(driver)
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}

	tunePool(driver, db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}

	if driver == DriverSQLite {
		if err := applySQLitePragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &DB{SQL: db, Driver: driver}, nil
}

// Close closes the underlying pool; safe on nil.
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.SQL == nil {
		return errors.New("storage: DB is nil")
	}
	return d.SQL.PingContext(ctx)
}

// Migrate creates the tables the engine needs if they are missing.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaFor(d.Driver) {
		if _, err := d.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: migrate: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	if d == nil || d.SQL == nil {
		return errors.New("storage: DB is nil")
	}
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			err = fmt.Errorf("storage: commit: %w", e)
		}
	}()
	err = fn(tx)
	return
}

func (d *DB) builder() sq.StatementBuilderType {
	if d.Driver == DriverSQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func tunePool(driver string, db *sql.DB) {
	maxOpen := 20
	maxIdle := 10
	connLife := 45 * time.Minute
	idleLife := 15 * time.Minute

	if driver == DriverSQLite {
		// single writer
		maxOpen = 1
		maxIdle = 1
		connLife = 0
		idleLife = 0
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connLife)
	db.SetConnMaxIdleTime(idleLife)
}

func applySQLitePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("storage: sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func normalizeDriver(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	switch d {
	case "pg", "pgsql", "postgresql":
		return DriverPostgres
	case "sqlite3":
		return DriverSQLite
	default:
		return d
	}
}
