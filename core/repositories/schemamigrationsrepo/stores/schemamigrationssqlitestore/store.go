package schemamigrationssqlitestore

import (
	"context"
	"database/sql"

	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type Store struct {
	log *logger.Logger
	db  *sql.DB
}

func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	const q = `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, sqlitedb.HandleError(err)
	}
	defer rows.Close()

	out := []schemamigrationsrepo.SchemaMigration{}
	for rows.Next() {
		var m schemamigrationsrepo.SchemaMigration
		if err := rows.Scan(&m.Version, &m.Checksum, &m.AppliedAt); err != nil {
			return nil, sqlitedb.HandleError(err)
		}
		out = append(out, m)
	}
	return out, sqlitedb.HandleError(rows.Err())
}
