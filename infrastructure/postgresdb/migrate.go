package postgresdb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/anchorboard/schema"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// MigrationResult reports what happened to one migration file.
type MigrationResult struct {
	Version  string
	Checksum string
	Applied  bool
}

// Migrate runs all pending migrations from schema/pgmigrations/*.sql files in
// file name order. Applied versions are recorded with a checksum in
// schema_migrations and an edited migration fails the run. Forward only.
func Migrate(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool) ([]MigrationResult, error) {
	if err := StatusCheck(ctx, pool); err != nil {
		return nil, fmt.Errorf("status check database: %w", err)
	}

	results, err := runMigrations(ctx, pool, schema.PostgresFS, schema.PostgresDir)
	if err != nil {
		return results, fmt.Errorf("run migrations: %w", err)
	}

	for _, r := range results {
		log.InfoContext(ctx, "migration", "version", r.Version, "applied", r.Applied, "checksum", r.Checksum[:8])
	}
	return results, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, migrationsFS fs.FS, migrationsDir string) ([]MigrationResult, error) {
	if err := createMigrationsTable(ctx, pool); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	files, err := MigrationFiles(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("get migration files: %w", err)
	}

	results := make([]MigrationResult, 0, len(files))
	for _, file := range files {
		r, err := applyMigration(ctx, pool, migrationsFS, path.Join(migrationsDir, file))
		if err != nil {
			return results, fmt.Errorf("apply migration %s: %w", file, err)
		}
		results = append(results, r)
	}

	return results, nil
}

func createMigrationsTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// MigrationFiles returns the sorted .sql file names under dir.
func MigrationFiles(migrationsFS fs.FS, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(migrationsFS, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".sql") {
			files = append(files, path.Base(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Checksum is the hex sha256 recorded for a migration body.
func Checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, migrationsFS fs.FS, filePath string) (MigrationResult, error) {
	version := path.Base(filePath)

	content, err := fs.ReadFile(migrationsFS, filePath)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read migration file: %w", err)
	}
	checksum := Checksum(content)
	result := MigrationResult{Version: version, Checksum: checksum}

	var existingChecksum string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existingChecksum)
	switch {
	case err == nil:
		if existingChecksum != checksum {
			return result, fmt.Errorf("checksum mismatch: migration %s has been modified after being applied (expected: %s, got: %s)",
				version, existingChecksum, checksum)
		}
		return result, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return result, fmt.Errorf("read applied migration: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return result, fmt.Errorf("execute migration: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", version, checksum); err != nil {
		return result, fmt.Errorf("record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}

	result.Applied = true
	return result, nil
}
