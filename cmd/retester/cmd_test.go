package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCmd runs the root command with args and returns its standard
// output, standard error and error.
func executeCmd(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig writes a settings file that keeps the history database
// inside a temporary directory and returns its path.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, ".retester")
	content := "db_dir: " + filepath.Join(dir, "data") + "\n" + extra
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func mustContain(t *testing.T, got string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}
