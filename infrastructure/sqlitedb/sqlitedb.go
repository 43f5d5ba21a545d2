// Package sqlitedb opens the SQLite backend used for local development and
// store tests, and maps driver errors onto repository errors.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Set of error variables for CRUD operations.
var (
	ErrNotFound  = repositories.ErrNotFound
	ErrDuplicate = repositories.ErrDuplicate

	// ErrUndefinedTable is shared with the Postgres backend so callers test
	// one value.
	ErrUndefinedTable = postgresdb.ErrUndefinedTable
)

// Options is the environment driven SQLite configuration.
type Options struct {
	Path        string        `env:"SQLITE_PATH" default:"anchorboard.db"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" default:"5s"`
	MaxConns    int           `env:"SQLITE_MAX_CONNS" default:"4"`
}

// NewFromEnv opens the database described by prefixed environment variables.
func NewFromEnv(ctx context.Context, prefix string) (*sql.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sqlite config: %w", err)
	}
	return Open(ctx, cfg)
}

// Open opens the database with foreign keys enforced on every connection.
func Open(ctx context.Context, cfg Options) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every new connection to :memory: is a new, empty database.
	if cfg.Path == MemoryPath || cfg.MaxConns < 1 {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	if err := StatusCheck(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// OpenMemory opens a fresh in-memory database.
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	return Open(ctx, Options{Path: MemoryPath, BusyTimeout: time.Second})
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, db *sql.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// HandleError converts SQLite errors to repository errors.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrError && strings.HasPrefix(sqliteErr.Error(), "no such table") {
		return ErrUndefinedTable
	}
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", ErrDuplicate, constraintDetail(sqliteErr))
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", repositories.ErrNotFound, constraintDetail(sqliteErr))
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %s", repositories.ErrInvalidInput, constraintDetail(sqliteErr))
		}
	}

	return err
}

func constraintDetail(err sqlite3.Error) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, ": "); ok {
		return after
	}
	return msg
}
