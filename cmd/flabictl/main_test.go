package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLLintCommand(t *testing.T) {
	root := newRootCommand(newViper())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"sqllint", filepath.Join("..", "..", "internal", "sqlinline")})
	if err := root.Execute(); err != nil {
		t.Fatalf("sqllint: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "sql markers ok") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSQLLintCommandReportsViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\nconst QBroken = `select 1`\n"
	if err := os.WriteFile(filepath.Join(dir, "q.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	root := newRootCommand(newViper())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"sqllint", dir})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected violations, output %q", out.String())
	}
	if !strings.Contains(out.String(), "QBroken") {
		t.Fatalf("violation not reported: %q", out.String())
	}
}

func TestAdminAddAgainstSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flabi.db")

	run := func(args ...string) (string, error) {
		root := newRootCommand(newViper())
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--store-driver", "sqlite", "--sqlite-path", path}, args...))
		err := root.Execute()
		return out.String(), err
	}

	if _, err := run("migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	out, err := run("admin", "add", "--email", "Admin@Flabi.ch", "--password", "long-enough")
	if err != nil {
		t.Fatalf("admin add: %v", err)
	}
	if !strings.Contains(out, "admin admin@flabi.ch saved") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := run("admin", "add", "--email", "x@flabi.ch", "--password", "short"); err == nil {
		t.Fatal("short password must be rejected")
	}
}

func TestStoreConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://flabi@localhost/flabi")
	t.Setenv("STORE_DRIVER", "SQLite")
	v := newViper()
	newRootCommand(v)
	cfg := storeConfig(v)
	if cfg.DatabaseURL != "postgres://flabi@localhost/flabi" || cfg.StoreDriver != "sqlite" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
