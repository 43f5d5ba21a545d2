// Package schemamigrationsrepo reports which embedded migrations a database
// has applied.
package schemamigrationsrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Storer reads the migration bookkeeping table.
type Storer interface {
	List(ctx context.Context) ([]SchemaMigration, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// List returns the applied migrations. A database that was never migrated
// has none.
func (r *Repository) List(ctx context.Context) ([]SchemaMigration, error) {
	applied, err := r.storer.List(ctx)
	if err != nil {
		if errors.Is(err, postgresdb.ErrUndefinedTable) {
			return []SchemaMigration{}, nil
		}
		return nil, repositories.Persistence("list migrations", err)
	}
	return applied, nil
}

// Status compares the .sql files under dir with what the database recorded.
func (r *Repository) Status(ctx context.Context, migrationsFS fs.FS, dir string) ([]MigrationStatus, error) {
	applied, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	byVersion := make(map[string]SchemaMigration, len(applied))
	for _, m := range applied {
		byVersion[m.Version] = m
	}

	files, err := postgresdb.MigrationFiles(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("list migration files: %w", err)
	}

	out := make([]MigrationStatus, 0, len(files))
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, path.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("read migration file: %w", err)
		}
		st := MigrationStatus{Version: file, State: StatePending, Checksum: postgresdb.Checksum(content)}
		if m, ok := byVersion[file]; ok {
			at := m.AppliedAt
			st.AppliedAt = &at
			st.State = StateApplied
			if m.Checksum != st.Checksum {
				st.State = StateModified
			}
			delete(byVersion, file)
		}
		out = append(out, st)
	}

	for _, m := range byVersion {
		at := m.AppliedAt
		out = append(out, MigrationStatus{Version: m.Version, State: StateUnknown, Checksum: m.Checksum, AppliedAt: &at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	return out, nil
}
