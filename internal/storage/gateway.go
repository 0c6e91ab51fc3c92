// Package storage owns the single MySQL session shared by the registries,
// the participation ledger, and the reporting engine. It exposes three
// primitives (Execute, FetchAll, FetchOne) over parameterized statements
// and bootstraps the schema on first use against a fresh server.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/campuslabs/eventtrack/internal/apperrors"
)

//go:embed schema.sql
var schemaSQL string

// unknownDatabase is the MySQL server error for a missing target database
// (ER_BAD_DB_ERROR). Seeing it on connect triggers schema bootstrap.
const unknownDatabase = 1049

// Config holds the connection settings collected by first-run setup.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Addr returns the host:port pair for the TCP DSN.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Gateway executes parameterized statements against the relational engine.
// The connection is established lazily on first use; a target database that
// does not exist yet is created and its schema applied before the first
// statement runs. Dead connections are repaired by the database/sql pool.
type Gateway struct {
	cfg    Config
	db     *sql.DB
	logger *slog.Logger
}

// New returns a Gateway that will dial the engine on first use.
func New(cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{cfg: cfg, logger: logger}
}

// NewWithDB wraps an already-open handle. Used by tests and by callers that
// manage the connection themselves.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{db: db, logger: logger}
}

// ensure opens the connection if it has not been opened yet. When the
// target database is missing it runs Bootstrap and dials again.
func (g *Gateway) ensure(ctx context.Context) (*sql.DB, error) {
	if g.db != nil {
		return g.db, nil
	}

	db, err := g.open(ctx, g.cfg.Database)
	if err != nil {
		var myErr *mysql.MySQLError
		if !errors.As(err, &myErr) || myErr.Number != unknownDatabase {
			g.logger.Error("connect failed", "addr", g.cfg.Addr(), "error", err)
			return nil, apperrors.Storagef("cannot connect to database")
		}

		g.logger.Info("database missing, bootstrapping schema", "database", g.cfg.Database)
		if err := g.Bootstrap(ctx); err != nil {
			return nil, err
		}
		if db, err = g.open(ctx, g.cfg.Database); err != nil {
			g.logger.Error("connect after bootstrap failed", "error", err)
			return nil, apperrors.Storagef("cannot connect to database")
		}
	}

	g.db = db
	g.logger.Debug("connected", "database", g.cfg.Database)
	return g.db, nil
}

// open dials the server and verifies the connection with a ping.
// An empty dbName connects without selecting a database.
func (g *Gateway) open(ctx context.Context, dbName string) (*sql.DB, error) {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = g.cfg.Addr()
	mc.User = g.cfg.User
	mc.Passwd = g.cfg.Password
	mc.DBName = dbName
	mc.ParseTime = true

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap creates the target database if it does not exist and applies
// the embedded schema. Safe to call more than once; every statement is
// written with IF NOT EXISTS.
func (g *Gateway) Bootstrap(ctx context.Context) error {
	admin, err := g.open(ctx, "")
	if err != nil {
		g.logger.Error("bootstrap connect failed", "addr", g.cfg.Addr(), "error", err)
		return apperrors.Storagef("cannot connect to database server")
	}
	defer func() { _ = admin.Close() }()

	// Identifiers cannot be bound as parameters; the name comes from local
	// configuration, not user input.
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", g.cfg.Database)
	if _, err := admin.ExecContext(ctx, stmt); err != nil {
		g.logger.Error("create database failed", "database", g.cfg.Database, "error", err)
		return apperrors.Storagef("failed to create database %s", g.cfg.Database)
	}

	db, err := g.open(ctx, g.cfg.Database)
	if err != nil {
		g.logger.Error("connect to new database failed", "error", err)
		return apperrors.Storagef("cannot connect to database")
	}
	defer func() { _ = db.Close() }()

	if err := applySchema(ctx, db); err != nil {
		g.logger.Error("apply schema failed", "error", err)
		return apperrors.Storagef("failed to initialize schema")
	}

	g.logger.Info("schema initialized", "database", g.cfg.Database)
	return nil
}

// applySchema executes the embedded schema statement by statement.
func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs a mutating statement with positionally bound parameters.
// Each statement commits on its own; there is no multi-statement
// transaction boundary. The driver error is logged, never returned raw.
func (g *Gateway) Execute(ctx context.Context, query string, args ...any) error {
	db, err := g.ensure(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		g.logger.Error("statement failed", "error", err)
		return apperrors.Storagef("storage operation failed")
	}
	return nil
}

// FetchAll runs a read statement and returns every row. No rows yields an
// empty slice, not an error.
func (g *Gateway) FetchAll(ctx context.Context, query string, args ...any) ([]Record, error) {
	db, err := g.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		g.logger.Error("query failed", "error", err)
		return nil, apperrors.Storagef("storage query failed")
	}
	defer func() { _ = rows.Close() }()

	results, err := scanRecords(rows)
	if err != nil {
		g.logger.Error("scan failed", "error", err)
		return nil, apperrors.Storagef("storage query failed")
	}
	return results, nil
}

// FetchOne runs a read statement expected to match at most one row.
// Absence is reported as (nil, nil) so callers can tell "not found" apart
// from a storage failure.
func (g *Gateway) FetchOne(ctx context.Context, query string, args ...any) (Record, error) {
	results, err := g.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Tx exposes the gateway primitives inside one transaction. All statements
// run on the same connection and commit or roll back together.
type Tx struct {
	tx     *sql.Tx
	logger *slog.Logger
}

// Execute runs a mutating statement within the transaction.
func (t *Tx) Execute(ctx context.Context, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		t.logger.Error("statement failed", "error", err)
		return apperrors.Storagef("storage operation failed")
	}
	return nil
}

// FetchAll runs a read statement within the transaction.
func (t *Tx) FetchAll(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		t.logger.Error("query failed", "error", err)
		return nil, apperrors.Storagef("storage query failed")
	}
	defer func() { _ = rows.Close() }()

	results, err := scanRecords(rows)
	if err != nil {
		t.logger.Error("scan failed", "error", err)
		return nil, apperrors.Storagef("storage query failed")
	}
	return results, nil
}

// FetchOne runs a read statement within the transaction, reporting absence
// as (nil, nil).
func (t *Tx) FetchOne(ctx context.Context, query string, args ...any) (Record, error) {
	results, err := t.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// WithTx runs fn inside a single transaction, committing when fn returns
// nil and rolling back otherwise. Read-then-write operations use this to
// close the race between check and act.
func (g *Gateway) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	db, err := g.ensure(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		g.logger.Error("begin failed", "error", err)
		return apperrors.Storagef("storage operation failed")
	}

	if err := fn(&Tx{tx: tx, logger: g.logger}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		g.logger.Error("commit failed", "error", err)
		return apperrors.Storagef("storage operation failed")
	}
	return nil
}

// Ping verifies the connection, dialing first if necessary.
func (g *Gateway) Ping(ctx context.Context) error {
	db, err := g.ensure(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		g.logger.Error("ping failed", "error", err)
		return apperrors.Storagef("database unreachable")
	}
	return nil
}

// Close releases the underlying connection pool.
func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// scanRecords converts sql.Rows into Records, mirroring column order into
// map keys and leaving driver values untouched apart from []byte, which
// stays as-is for the Record accessors to normalize.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]Record, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(Record, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
