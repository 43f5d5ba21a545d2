package schemamigrationspgxstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	const q = `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[schemamigrationsrepo.SchemaMigration])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return out, nil
}
