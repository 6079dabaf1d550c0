package main

import (
	"testing"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := executeCmd(t, nil, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustContain(t, stdout, "retester version ", "commit: ", "built: ")
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if getVersion() == "" {
		t.Error("expected non-empty version")
	}
	if getCommit() == "" {
		t.Error("expected non-empty commit")
	}
	if getDate() == "" {
		t.Error("expected non-empty date")
	}
}
