package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/schema"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Migrate applies schema/sqlitemigrations with the same checksum bookkeeping
// as the Postgres runner.
func Migrate(ctx context.Context, log *logger.Logger, db *sql.DB) ([]postgresdb.MigrationResult, error) {
	results, err := runMigrations(ctx, db, schema.SQLiteFS, schema.SQLiteDir)
	if err != nil {
		return results, fmt.Errorf("run migrations: %w", err)
	}
	if log != nil {
		for _, r := range results {
			log.InfoContext(ctx, "migration", "version", r.Version, "applied", r.Applied, "checksum", r.Checksum[:8])
		}
	}
	return results, nil
}

func runMigrations(ctx context.Context, db *sql.DB, migrationsFS fs.FS, dir string) ([]postgresdb.MigrationResult, error) {
	const createTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	files, err := postgresdb.MigrationFiles(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("get migration files: %w", err)
	}

	results := make([]postgresdb.MigrationResult, 0, len(files))
	for _, file := range files {
		r, err := applyMigration(ctx, db, migrationsFS, path.Join(dir, file))
		if err != nil {
			return results, fmt.Errorf("apply migration %s: %w", file, err)
		}
		results = append(results, r)
	}
	return results, nil
}

func applyMigration(ctx context.Context, db *sql.DB, migrationsFS fs.FS, filePath string) (postgresdb.MigrationResult, error) {
	version := path.Base(filePath)

	content, err := fs.ReadFile(migrationsFS, filePath)
	if err != nil {
		return postgresdb.MigrationResult{}, fmt.Errorf("read migration file: %w", err)
	}
	result := postgresdb.MigrationResult{Version: version, Checksum: postgresdb.Checksum(content)}

	var existing string
	err = db.QueryRowContext(ctx, "SELECT checksum FROM schema_migrations WHERE version = ?", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != result.Checksum {
			return result, fmt.Errorf("checksum mismatch: migration %s has been modified after being applied (expected: %s, got: %s)",
				version, existing, result.Checksum)
		}
		return result, nil
	case !errors.Is(err, sql.ErrNoRows):
		return result, fmt.Errorf("read applied migration: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return result, fmt.Errorf("execute migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES (?, ?)", version, result.Checksum); err != nil {
		return result, fmt.Errorf("record migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}

	result.Applied = true
	return result, nil
}
