package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	root := NewRootCmd(logger.NewNop(), "TOOLING", "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestTreeRendersListing(t *testing.T) {
	listing := `{"sha":"abc","truncated":false,"tree":[
		{"path":"src/main.go","type":"blob","sha":"1"},
		{"path":"README.md","type":"blob","sha":"2"},
		{"path":"src","type":"tree","sha":"3"},
		{"path":"lib/util.go","type":"blob","sha":"4"}
	]}`
	file := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(file, []byte(listing), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out, errOut, err := execute(t, "", "tree", file)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}

	want := "lib/ (synthesized)\n  util.go\nsrc/\n  main.go\nREADME.md\n"
	if out != want {
		t.Errorf("Expected output %q, got %q", want, out)
	}
	if !strings.Contains(errOut, "synthesized directories: lib") {
		t.Errorf("Expected synthesized warning, got %q", errOut)
	}
}

func TestTreeReadsStdinArray(t *testing.T) {
	out, errOut, err := execute(t, `[{"path":"a.txt","type":"blob"}]`, "tree", "-", "--json")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if !strings.Contains(out, `"name": "a.txt"`) {
		t.Errorf("Expected JSON node for a.txt, got %q", out)
	}
	if errOut != "" {
		t.Errorf("Expected no warnings, got %q", errOut)
	}
}

func TestTreeRejectsGarbage(t *testing.T) {
	if _, _, err := execute(t, "not json", "tree", "-"); err == nil {
		t.Fatal("Expected decode error, got nil")
	}
}

var tokenLine = regexp.MustCompile(`token: (\S+)`)
var sessionLine = regexp.MustCompile(`session (\S+) for`)

func TestMigrateAndSessions(t *testing.T) {
	t.Setenv("TOOLING_DB_DRIVER", "sqlite")
	t.Setenv("TOOLING_SQLITE_PATH", filepath.Join(t.TempDir(), "tooling.db"))

	out, _, err := execute(t, "", "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status failed: %v", err)
	}
	if !strings.Contains(out, "PENDING") {
		t.Errorf("Expected pending migrations before migrate, got %q", out)
	}

	out, _, err = execute(t, "", "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "APPLIED") {
		t.Errorf("Expected applied migrations, got %q", out)
	}

	out, _, err = execute(t, "", "migrate")
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if !strings.Contains(out, "0 of") {
		t.Errorf("Expected nothing applied on rerun, got %q", out)
	}

	out, _, err = execute(t, "", "session", "create", "--user", "u1", "--provider-token", "gho_x", "--ttl", "1h")
	if err != nil {
		t.Fatalf("session create failed: %v", err)
	}
	if m := tokenLine.FindStringSubmatch(out); m == nil || m[1] == "" {
		t.Fatalf("Expected a token in %q", out)
	}
	m := sessionLine.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("Expected a session id in %q", out)
	}

	if _, _, err := execute(t, "", "session", "revoke", m[1]); err != nil {
		t.Fatalf("session revoke failed: %v", err)
	}
	if _, _, err := execute(t, "", "session", "revoke", m[1]); err == nil {
		t.Error("Expected error revoking a missing session, got nil")
	}

	out, _, err = execute(t, "", "session", "prune")
	if err != nil {
		t.Fatalf("session prune failed: %v", err)
	}
	if !strings.Contains(out, "pruned 0") {
		t.Errorf("Expected nothing to prune, got %q", out)
	}
}

func TestSessionCreateRequiresUser(t *testing.T) {
	if _, _, err := execute(t, "", "session", "create"); err == nil {
		t.Fatal("Expected missing flag error, got nil")
	}
}
