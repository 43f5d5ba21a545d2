package schemamigrationsrepo

import "time"

// SchemaMigration is one row of schema_migrations.
type SchemaMigration struct {
	Version   string    `db:"version" json:"version"`
	Checksum  string    `db:"checksum" json:"checksum"`
	AppliedAt time.Time `db:"applied_at" json:"appliedAt"`
}

type State string

const (
	StateApplied  State = "applied"
	StatePending  State = "pending"
	StateModified State = "modified"
	// StateUnknown marks a recorded version with no file on disk.
	StateUnknown State = "unknown"
)

// MigrationStatus compares an embedded migration file with the database.
type MigrationStatus struct {
	Version   string     `json:"version"`
	State     State      `json:"state"`
	Checksum  string     `json:"checksum"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}
