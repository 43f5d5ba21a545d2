package postgresdb

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrazmi/anchorboard/core/repositories"
)

func TestHandlePgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, repositories.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "repositories_user_id_github_id_key"}, repositories.ErrDuplicate},
		{"foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), repositories.ErrNotFound},
		{"check", &pgconn.PgError{Code: "23514"}, repositories.ErrInvalidInput},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, ErrUndefinedTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandlePgError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if HandlePgError(nil) != nil {
		t.Error("Expected nil for nil error")
	}
	other := errors.New("boom")
	if HandlePgError(other) != other {
		t.Error("Expected unknown errors to pass through")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	good := map[string]string{
		"created_at":   `"created_at"`,
		"t.updated_at": `"t"."updated_at"`,
	}
	for in, want := range good {
		got, err := QuoteIdentifier(in)
		if err != nil {
			t.Fatalf("QuoteIdentifier(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}

	for _, bad := range []string{"a;drop", "a.b.c", "1abc", `x"y`, ""} {
		if _, err := QuoteIdentifier(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestAddOrderAndLimit(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("SELECT * FROM tasks")
	args := pgx.NamedArgs{}

	if err := AddOrderByClause(&buf, "t.updated_at", "t.id", DESC); err != nil {
		t.Fatalf("AddOrderByClause failed: %v", err)
	}
	AddLimitClause(10, args, &buf)
	AddLimitClause(0, args, &buf)

	want := `SELECT * FROM tasks ORDER BY "t"."updated_at" DESC, "t"."id" DESC LIMIT @limit`
	if buf.String() != want {
		t.Errorf("Expected %s, got %s", want, buf.String())
	}
	if args["limit"] != 10 {
		t.Errorf("Expected limit arg 10, got %v", args["limit"])
	}

	if err := AddOrderByClause(&buf, "id", "id", "SIDEWAYS"); err == nil {
		t.Error("Expected error for invalid direction")
	}
}

func TestPrettyPrintSQL(t *testing.T) {
	in := "SELECT *\n\tFROM tasks\n\tWHERE (user_id = @user_id)\n"
	if got, want := prettyPrintSQL(in), "SELECT * FROM tasks WHERE(user_id = @user_id)"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_more.sql": {Data: []byte("b")},
		"m/001_init.sql": {Data: []byte("a")},
		"m/README.md":    {Data: []byte("c")},
	}

	files, err := MigrationFiles(fsys, "m")
	if err != nil {
		t.Fatalf("MigrationFiles failed: %v", err)
	}
	if diff := cmp.Diff([]string{"001_init.sql", "002_more.sql"}, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if len(Checksum([]byte("a"))) != 64 {
		t.Error("Expected 64 character checksum")
	}
}
