// Package schema contains the embedded migration files for both backends.
package schema

import "embed"

const (
	PostgresDir = "pgmigrations"
	SQLiteDir   = "sqlitemigrations"
)

// PostgresFS contains the SQL migration files for PostgreSQL.
//
//go:embed pgmigrations/*.sql
var PostgresFS embed.FS

// SQLiteFS contains the SQL migration files for SQLite.
//
//go:embed sqlitemigrations/*.sql
var SQLiteFS embed.FS
