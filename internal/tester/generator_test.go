package tester

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/report"
)

// newTestGenerator returns a Generator that discards its logs.
func newTestGenerator(opts ...Option) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

// splitValues flattens split captures, "<null>" for null entries.
func splitValues(captures []model.Capture) []string {
	out := make([]string, len(captures))
	for i, c := range captures {
		if c.Null {
			out[i] = "<null>"
			continue
		}
		out[i] = c.Value
	}
	return out
}

func TestGeneratorValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  *model.TestRequest
	}{
		{"nil request", nil},
		{"empty pattern", &model.TestRequest{}},
		{"empty pattern with everything else set", &model.TestRequest{
			Replacement: "x",
			Flags:       []string{"g"},
			Samples:     []string{"a"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := newTestGenerator().Run(tc.req)
			want := &model.TestOutput{
				Success: false,
				Message: "No regex to test!",
				Kind:    model.FailureValidation,
			}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratorCompileFailure(t *testing.T) {
	t.Parallel()

	t.Run("unbalanced group keeps the header", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern:     "(<",
			Replacement: "&",
			Samples:     []string{"a"},
		})

		if out.Success {
			t.Fatal("expected failure")
		}
		if out.Kind != model.FailureCompile {
			t.Errorf("expected compile failure, got %s", out.Kind)
		}
		if !strings.HasPrefix(out.Message, "Unable to create RegExp object: ") || len(out.Message) <= len("Unable to create RegExp object: ") {
			t.Errorf("unexpected message %q", out.Message)
		}
		if !strings.Contains(out.Report, "<td>(&lt;</td>") {
			t.Errorf("expected escaped pattern in header:\n%s", out.Report)
		}
		if !strings.Contains(out.Report, "<td>&amp;</td>") {
			t.Errorf("expected escaped replacement in header:\n%s", out.Report)
		}
		if strings.Contains(out.Report, "<thead>") {
			t.Error("expected header only, found results table")
		}
		if out.Evaluation != nil {
			t.Error("expected no evaluation")
		}
	})

	t.Run("invalid flags fail to compile", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "a",
			Flags:   []string{"g", "g"},
		})

		if out.Kind != model.FailureCompile {
			t.Fatalf("expected compile failure, got %+v", out)
		}
		if !strings.Contains(out.Message, "invalid flags supplied to RegExp constructor 'gg'") {
			t.Errorf("unexpected message %q", out.Message)
		}
		if !strings.Contains(out.Report, "<td>gg</td>") {
			t.Errorf("expected flags in header:\n%s", out.Report)
		}
	})
}

func TestGeneratorSamples(t *testing.T) {
	t.Parallel()

	t.Run("test and split without flags", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "a",
			Samples: []string{"a", "b", "aa"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}

		samples := out.Evaluation.Samples
		var tests []bool
		for _, s := range samples {
			tests = append(tests, s.Test)
		}
		if diff := cmp.Diff([]bool{true, false, true}, tests); diff != "" {
			t.Errorf("test results mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"", "", ""}, splitValues(samples[2].Split)); diff != "" {
			t.Errorf("split mismatch (-want +got):\n%s", diff)
		}
		if samples[1].Matches != nil {
			t.Errorf("expected nil matches for 'b', got %v", samples[1].Matches)
		}
		if len(samples[2].Matches) != 1 {
			t.Errorf("expected a single exec result without g, got %d", len(samples[2].Matches))
		}
		if samples[2].ReplaceAllError == "" {
			t.Error("expected replaceAll error without g")
		}
	})

	t.Run("global exec walks every match", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern:     "a",
			Replacement: "b",
			Flags:       []string{"g"},
			Samples:     []string{"aa"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}

		want := []model.MatchResult{
			{Index: 0, Captures: []model.Capture{{Value: "a"}}, LastIndex: 1},
			{Index: 1, Captures: []model.Capture{{Value: "a"}}, LastIndex: 2},
		}
		got := out.Evaluation.Samples[0]
		if diff := cmp.Diff(want, got.Matches); diff != "" {
			t.Errorf("matches mismatch (-want +got):\n%s", diff)
		}
		if got.Replace != "bb" || got.ReplaceAll != "bb" {
			t.Errorf("expected 'bb' for both replacements, got %q and %q", got.Replace, got.ReplaceAll)
		}
		if !strings.Contains(out.Report, `style="text-align:right;">regex.exec()</td>`) {
			t.Error("expected continuation row for the second match")
		}
	})

	t.Run("zero-length global matches terminate", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "x*",
			Flags:   []string{"g"},
			Samples: []string{"ab"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}
		if n := len(out.Evaluation.Samples[0].Matches); n != 3 {
			t.Errorf("expected 3 empty matches, got %d", n)
		}
	})

	t.Run("non-participating groups are null", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "(a)|(b)",
			Samples: []string{"b"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}

		want := []model.Capture{{Value: "b"}, {Null: true}, {Value: "b"}}
		if diff := cmp.Diff(want, out.Evaluation.Samples[0].Matches[0].Captures); diff != "" {
			t.Errorf("captures mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(out.Report, "[0]: b<br/>[1]: <i>(null)</i><br/>[2]: b<br/>") {
			t.Errorf("expected null marker in report:\n%s", out.Report)
		}
	})

	t.Run("empty samples are skipped but keep their row number", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "a",
			Samples: []string{"", "a", "", "b"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}

		var rows []int
		for _, s := range out.Evaluation.Samples {
			rows = append(rows, s.Row)
		}
		if diff := cmp.Diff([]int{2, 4}, rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replaceAll error stays in its cell", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern:     "a",
			Replacement: "b",
			Samples:     []string{"aa", "ca"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}
		if n := strings.Count(out.Report, "<td><i>replaceAll must be called with a global RegExp</i></td>"); n != 2 {
			t.Errorf("expected inline error in both rows, found %d", n)
		}
		if out.Evaluation.Samples[1].Replace != "cb" {
			t.Errorf("expected replace column to be unaffected, got %q", out.Evaluation.Samples[1].Replace)
		}
	})
}

func TestGeneratorReport(t *testing.T) {
	t.Parallel()

	t.Run("no samples render the placeholder once", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{Pattern: "a", Samples: nil})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}
		if n := strings.Count(out.Report, report.NoInputsText); n != 1 {
			t.Errorf("expected placeholder once, found %d times", n)
		}
	})

	t.Run("only empty samples render the placeholder", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{Pattern: "a", Samples: []string{"", ""}})
		if !strings.Contains(out.Report, report.NoInputsText) {
			t.Error("expected placeholder")
		}
	})

	t.Run("sample text is escaped", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern:     "<",
			Replacement: "&",
			Samples:     []string{"<x>"},
		})
		if !out.Success {
			t.Fatalf("unexpected failure: %s", out.Message)
		}
		if strings.Contains(out.Report, "<td><x></td>") {
			t.Error("found unescaped sample in report")
		}
		if !strings.Contains(out.Report, "<td>&lt;x&gt;</td>") {
			t.Errorf("expected escaped sample:\n%s", out.Report)
		}
		if !strings.Contains(out.Report, "<td>&amp;x&gt;</td>") {
			t.Errorf("expected escaped replace result:\n%s", out.Report)
		}
	})

	t.Run("identical requests give identical reports", func(t *testing.T) {
		t.Parallel()

		req := &model.TestRequest{
			Pattern:     `(\w+)@(\w+)\.com`,
			Replacement: "$2 at $1",
			Flags:       []string{"g", "i"},
			Samples:     []string{"a@b.com c@d.com", "", "none"},
		}
		g := newTestGenerator()
		first, second := g.Run(req), g.Run(req)
		if first.Report != second.Report {
			t.Error("reports differ between runs")
		}
	})

	t.Run("report matches the rendered evaluation", func(t *testing.T) {
		t.Parallel()

		out := newTestGenerator().Run(&model.TestRequest{
			Pattern: "b",
			Flags:   []string{"g"},
			Samples: []string{"abc", "bb"},
		})
		if out.Report != report.RenderHTML(out.Evaluation) {
			t.Error("report differs from RenderHTML of its evaluation")
		}
	})
}

func TestGeneratorEvaluationFailure(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context keeps the partial report", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out := newTestGenerator().RunContext(ctx, &model.TestRequest{
			Pattern: "a",
			Samples: []string{"a"},
		})
		if out.Kind != model.FailureEvaluation {
			t.Fatalf("expected evaluation failure, got %+v", out)
		}
		if out.Message != "Unable to run tests: context canceled" {
			t.Errorf("unexpected message %q", out.Message)
		}
		if !strings.Contains(out.Report, "<thead>") || strings.Contains(out.Report, "</tbody>") {
			t.Errorf("expected an open results table:\n%s", out.Report)
		}
		if out.Evaluation == nil || len(out.Evaluation.Samples) != 0 {
			t.Errorf("expected empty partial evaluation, got %+v", out.Evaluation)
		}
	})

	t.Run("match timeout aborts the report", func(t *testing.T) {
		t.Parallel()

		g := newTestGenerator(WithMatchTimeout(10 * time.Millisecond))
		out := g.Run(&model.TestRequest{
			Pattern: "(a+)+$",
			Samples: []string{"ok", strings.Repeat("a", 40) + "!"},
		})
		if out.Kind != model.FailureEvaluation {
			t.Fatalf("expected evaluation failure, got %+v", out)
		}
		if !strings.Contains(out.Message, "match timeout") {
			t.Errorf("unexpected message %q", out.Message)
		}
		if len(out.Evaluation.Samples) != 1 {
			t.Errorf("expected the first sample to be kept, got %d", len(out.Evaluation.Samples))
		}
		if !strings.Contains(out.Report, "<td>ok</td>") {
			t.Error("expected the first row in the partial report")
		}
	})
}
