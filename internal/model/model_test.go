package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTestRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("nil request is rejected", func(t *testing.T) {
		t.Parallel()

		var r *TestRequest
		if err := r.Validate(); !errors.Is(err, ErrNoPattern) {
			t.Errorf("expected ErrNoPattern, got %v", err)
		}
	})

	t.Run("empty pattern is rejected regardless of other fields", func(t *testing.T) {
		t.Parallel()

		r := &TestRequest{Replacement: "x", Flags: []string{"g"}, Samples: []string{"a"}}
		if err := r.Validate(); !errors.Is(err, ErrNoPattern) {
			t.Errorf("expected ErrNoPattern, got %v", err)
		}
	})

	t.Run("empty samples are accepted", func(t *testing.T) {
		t.Parallel()

		r := &TestRequest{Pattern: "a"}
		if err := r.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("message is the user-facing text", func(t *testing.T) {
		t.Parallel()

		if ErrNoPattern.Error() != "No regex to test!" {
			t.Errorf("got %q", ErrNoPattern.Error())
		}
	})
}

func TestTestRequestFlagString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		flags    []string
		expected string
	}{
		{"nil flags", nil, ""},
		{"single flag", []string{"g"}, "g"},
		{"order is kept", []string{"i", "g"}, "ig"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := &TestRequest{Pattern: "a", Flags: tc.flags}
			if got := r.FlagString(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestTestRequestEvaluated(t *testing.T) {
	t.Parallel()

	r := &TestRequest{Pattern: "a", Samples: []string{"a", "", "b", ""}}
	if got := r.Evaluated(); got != 2 {
		t.Errorf("got %d, expected 2", got)
	}
}

func TestFailureKindString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     FailureKind
		expected string
	}{
		{FailureNone, "none"},
		{FailureValidation, "validation"},
		{FailureCompile, "compile"},
		{FailureEvaluation, "evaluation"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.kind.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.kind.String(), tc.expected)
			}
		})
	}
}

func TestTestOutputJSON(t *testing.T) {
	t.Parallel()

	t.Run("validation failure only has success and message", func(t *testing.T) {
		t.Parallel()

		out := NewFailure(FailureValidation, ErrNoPattern.Error(), "", nil)
		data, err := json.Marshal(out)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		got := string(data)
		want := `{"success":false,"message":"No regex to test!","kind":"validation"}`
		if got != want {
			t.Errorf("got %s, expected %s", got, want)
		}
	})

	t.Run("success omits message", func(t *testing.T) {
		t.Parallel()

		out := NewSuccess("<table></table>", nil)
		data, err := json.Marshal(out)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "message") {
			t.Errorf("unexpected message field in %s", data)
		}
		if !out.Success {
			t.Error("expected Success to be true")
		}
	})
}

func TestCaptureDisplay(t *testing.T) {
	t.Parallel()

	if got := (Capture{Null: true}).Display(); got != "(null)" {
		t.Errorf("null capture: got %q", got)
	}
	if got := (Capture{}).Display(); got != "" {
		t.Errorf("empty capture: got %q", got)
	}
	if got := (Capture{Value: "x"}).Display(); got != "x" {
		t.Errorf("value capture: got %q", got)
	}
}

func TestEvaluationMatchCount(t *testing.T) {
	t.Parallel()

	e := &Evaluation{Samples: []SampleResult{
		{Matches: []MatchResult{{}, {}}},
		{Matches: nil},
		{Matches: []MatchResult{{}}},
	}}
	if got := e.MatchCount(); got != 3 {
		t.Errorf("got %d, expected 3", got)
	}
}
