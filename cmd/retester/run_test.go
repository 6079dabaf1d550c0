package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/retester/internal/config"
	"github.com/nao1215/retester/internal/model"
)

func decodeOutput(t *testing.T, s string) *model.TestOutput {
	t.Helper()

	var out model.TestOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("failed to decode JSON output: %v\n%s", err, s)
	}
	return &out
}

func testResults(out *model.TestOutput) []bool {
	if out.Evaluation == nil {
		return nil
	}
	got := make([]bool, len(out.Evaluation.Samples))
	for i, s := range out.Evaluation.Samples {
		got[i] = s.Test
	}
	return got
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes an HTML report by default", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "<", "<x>")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mustContain(t, stdout,
			`<table class="table table-bordered table-striped" style="width:auto;">`,
			"<td>&lt;x&gt;</td>",
		)
	})

	t.Run("evaluates samples in order", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--json", "a", "a", "b", "aa")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := decodeOutput(t, stdout)
		if !out.Success {
			t.Fatalf("expected success, got %q", out.Message)
		}
		if diff := cmp.Diff([]bool{true, false, true}, testResults(out)); diff != "" {
			t.Errorf("test results mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("passes replacement and flags", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--json",
			"-f", "g", "-r", "$2 $1", `(\w+) (\w+)`, "hello world")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := decodeOutput(t, stdout)
		if out.Evaluation.Flags != "g" {
			t.Errorf("expected flags g, got %q", out.Evaluation.Flags)
		}
		if got := out.Evaluation.Samples[0].Replace; got != "world hello" {
			t.Errorf("expected swapped words, got %q", got)
		}
	})

	t.Run("reads samples from a file and standard input", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "samples.txt", "a1\r\nbb\n\n22\n")
		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--json", "-i", path, `\d`, "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := decodeOutput(t, stdout)
		inputs := make([]string, len(out.Evaluation.Samples))
		for i, s := range out.Evaluation.Samples {
			inputs[i] = s.Input
		}
		if diff := cmp.Diff([]string{"3", "a1", "bb", "22"}, inputs); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}

		stdout, _, err = executeCmd(t, strings.NewReader("x\ny\n"), "run", "--no-history", "--json", "-i", "-", "y")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]bool{false, true}, testResults(decodeOutput(t, stdout))); diff != "" {
			t.Errorf("stdin results mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCmd(t, nil, "run", "--no-history", "-i", "/nonexistent/samples.txt", "a")
		if err == nil || !strings.Contains(err.Error(), "input file not found") {
			t.Errorf("expected input file error, got %v", err)
		}
	})

	t.Run("compile failure still writes the partial report", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "(", "a")
		if !errors.Is(err, errTestFailed) {
			t.Fatalf("expected errTestFailed, got %v", err)
		}
		mustContain(t, stdout,
			`<p class="alert alert-danger">Unable to create RegExp object: `,
			"<td>(</td>",
		)
	})

	t.Run("writes to an output file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "report.md")
		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--markdown", "-o", path, "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		mustContain(t, string(content), "# Regex Test Report")
	})

	t.Run("standalone HTML document", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--standalone", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mustContain(t, stdout, "<!DOCTYPE html>", "</html>")
	})

	t.Run("text output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCmd(t, nil, "run", "--no-history", "--text", "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mustContain(t, stdout, "REGEX TEST REPORT", "Status:      OK")
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCmd(t, nil, "run", "--no-history", "--json", "--text", "a")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCmd(t, nil, "run", "-c", "/nonexistent/.retester", "a")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("config file sets the format", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "format: json\nhistory: false\n")
		stdout, _, err := executeCmd(t, nil, "run", "-c", cfgPath, "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decodeOutput(t, stdout).Success {
			t.Error("expected success")
		}

		// A format flag replaces the configured format.
		stdout, _, err = executeCmd(t, nil, "run", "-c", cfgPath, "--text", "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mustContain(t, stdout, "REGEX TEST REPORT")
	})

	t.Run("requires a pattern argument", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeCmd(t, nil, "run"); err == nil {
			t.Error("expected error without arguments")
		}
	})
}

func TestRunCmdLogging(t *testing.T) {
	t.Parallel()

	t.Run("verbose JSON logs go to standard error", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := executeCmd(t, nil, "run", "--no-history", "-v", "--log-json", "--json", "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decodeOutput(t, stdout).Success {
			t.Error("expected success")
		}
		mustContain(t, stderr, `"msg":"evaluated sample"`, `"row":1`)
	})

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := executeCmd(t, nil, "run", "--no-history", "a", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stderr != "" {
			t.Errorf("expected no logs, got %q", stderr)
		}
	})
}
