// Package config assembles the dependencies the HTTP API is built from.
package config

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/jrazmi/anchorboard/core/dashboard"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo/stores/repospgxstore"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo/stores/repossqlitestore"
	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo/stores/schemamigrationspgxstore"
	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo/stores/schemamigrationssqlitestore"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo/stores/usersessionspgxstore"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo/stores/usersessionssqlitestore"
	"github.com/jrazmi/anchorboard/core/settings"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/schema"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/jrazmi/anchorboard/sdk/telemetry"
)

// site wide globals.
const (
	ApiRoute = "/api/v1"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects the storage backend.
type Options struct {
	Driver        string `env:"DB_DRIVER" default:"sqlite"`
	MigrateOnBoot bool   `env:"MIGRATE_ON_BOOT" default:"true"`
}

// Repositories are the stores every bridge reads from.
type Repositories struct {
	Tasks    *tasksrepo.Repository
	Repos    *reposrepo.Repository
	Sessions *usersessionsrepo.Repository
}

// Anchorboard is the overall configuration for the API process.
type Anchorboard struct {
	Build     string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry
	Driver    string

	Repositories Repositories
	Dashboard    *dashboard.Service
	Settings     settings.Store
	GitHub       *githubapi.Client

	StatusCheck func(ctx context.Context) error
}

func NewPostgresRepositories(log *logger.Logger, pool *postgresdb.Pool) Repositories {
	return Repositories{
		Tasks:    tasksrepo.NewRepository(log, taskspgxstore.NewStore(log, pool)),
		Repos:    reposrepo.NewRepository(log, repospgxstore.NewStore(log, pool)),
		Sessions: usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pool)),
	}
}

func NewSQLiteRepositories(log *logger.Logger, db *sql.DB) Repositories {
	return Repositories{
		Tasks:    tasksrepo.NewRepository(log, taskssqlitestore.NewStore(log, db)),
		Repos:    reposrepo.NewRepository(log, repossqlitestore.NewStore(log, db)),
		Sessions: usersessionsrepo.NewRepository(log, usersessionssqlitestore.NewStore(log, db)),
	}
}

// Backend is an opened database with its repositories.
type Backend struct {
	Driver       string
	Repositories Repositories
	Migrations   *schemamigrationsrepo.Repository

	// MigrationsFS and MigrationsDir locate the embedded files for Driver.
	MigrationsFS  fs.FS
	MigrationsDir string

	Migrate     func(ctx context.Context) ([]postgresdb.MigrationResult, error)
	StatusCheck func(ctx context.Context) error
	Close       func()
}

// OpenBackend connects to the configured driver and optionally migrates it.
func OpenBackend(ctx context.Context, log *logger.Logger, prefix string, opts Options) (Backend, error) {
	var b Backend

	switch opts.Driver {
	case DriverPostgres:
		pool, err := postgresdb.NewFromEnv(prefix, postgresdb.WithLogger(log))
		if err != nil {
			return Backend{}, fmt.Errorf("configuring postgres support: %w", err)
		}
		b = Backend{
			Driver:        DriverPostgres,
			Repositories:  NewPostgresRepositories(log, pool),
			Migrations:    schemamigrationsrepo.NewRepository(log, schemamigrationspgxstore.NewStore(log, pool)),
			MigrationsFS:  schema.PostgresFS,
			MigrationsDir: schema.PostgresDir,
			Migrate: func(ctx context.Context) ([]postgresdb.MigrationResult, error) {
				return postgresdb.Migrate(ctx, log, pool)
			},
			StatusCheck: func(ctx context.Context) error {
				return postgresdb.StatusCheck(ctx, pool)
			},
			Close: pool.Close,
		}

	case DriverSQLite:
		db, err := sqlitedb.NewFromEnv(ctx, prefix)
		if err != nil {
			return Backend{}, fmt.Errorf("configuring sqlite support: %w", err)
		}
		b = Backend{
			Driver:        DriverSQLite,
			Repositories:  NewSQLiteRepositories(log, db),
			Migrations:    schemamigrationsrepo.NewRepository(log, schemamigrationssqlitestore.NewStore(log, db)),
			MigrationsFS:  schema.SQLiteFS,
			MigrationsDir: schema.SQLiteDir,
			Migrate: func(ctx context.Context) ([]postgresdb.MigrationResult, error) {
				return sqlitedb.Migrate(ctx, log, db)
			},
			StatusCheck: func(ctx context.Context) error {
				return sqlitedb.StatusCheck(ctx, db)
			},
			Close: func() { db.Close() },
		}

	default:
		return Backend{}, fmt.Errorf("unknown database driver %q", opts.Driver)
	}

	if opts.MigrateOnBoot {
		if _, err := b.Migrate(ctx); err != nil {
			b.Close()
			return Backend{}, fmt.Errorf("migrating %s: %w", b.Driver, err)
		}
	}
	return b, nil
}
