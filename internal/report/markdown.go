package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/retester/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for pasting into issues and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(out *model.TestOutput) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Regex Test Report")
	md.PlainText("")

	w.writeStatus(md, out)

	if out.Evaluation != nil {
		w.writeHeader(md, out.Evaluation)
		w.writeResults(md, out.Evaluation)
		w.writeMatches(md, out.Evaluation)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeStatus writes an alert describing success or failure.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, out *model.TestOutput) {
	switch {
	case out.Success:
		md.Tip("All samples were evaluated.")
	case out.Kind == model.FailureEvaluation:
		md.Warningf("Evaluation stopped early: %s", out.Message)
	default:
		md.Caution(out.Message)
	}
	md.PlainText("")
}

// writeHeader writes the pattern, replacement and flags.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, eval *model.Evaluation) {
	flags := eval.Flags
	if flags == "" {
		flags = "*(none)*"
	} else {
		flags = cellText(flags)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Regular Expression", cellText(eval.Pattern)},
			{"Replacement", cellText(eval.Replacement)},
			{"Options", flags},
		},
	})
	md.PlainText("")
}

// writeResults writes one table row per sample plus a pie chart of matched
// and unmatched samples.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, eval *model.Evaluation) {
	md.H2("Results")
	md.PlainText("")

	if len(eval.Samples) == 0 {
		md.PlainText(NoInputsText)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(eval.Samples))
	matched := 0
	for i, s := range eval.Samples {
		if s.Test {
			matched++
		}
		replaceAll := cellText(s.ReplaceAll)
		if s.ReplaceAllError != "" {
			replaceAll = "*" + cellText(s.ReplaceAllError) + "*"
		}
		rows[i] = []string{
			strconv.Itoa(s.Row),
			cellText(s.Input),
			strconv.FormatBool(s.Test),
			cellText(s.Replace),
			replaceAll,
			captureList(s.Split),
			strconv.Itoa(len(s.Matches)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Test", "Input", "test()", "replace()", "replaceAll()", "split()", "Matches"},
		Rows:   rows,
		Alignment: []markdown.TableAlignment{
			markdown.AlignCenter,
			markdown.AlignDefault,
			markdown.AlignCenter,
		},
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Samples Matched"),
		piechart.WithShowData(true),
	)
	if matched > 0 {
		chart.LabelAndIntValue("Matched", uint64(matched))
	}
	if unmatched := len(eval.Samples) - matched; unmatched > 0 {
		chart.LabelAndIntValue("Not matched", uint64(unmatched))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeMatches writes the exec sequence of every sample that matched.
func (w *MarkdownWriter) writeMatches(md *markdown.Markdown, eval *model.Evaluation) {
	if eval.MatchCount() == 0 {
		return
	}

	md.H2("Matches")
	md.PlainText("")

	for _, s := range eval.Samples {
		if len(s.Matches) == 0 {
			continue
		}

		md.H3f("Test %d", s.Row)
		md.PlainText("")

		rows := make([][]string, len(s.Matches))
		for i, m := range s.Matches {
			rows[i] = []string{
				strconv.Itoa(m.Index),
				captureList(m.Captures),
				strconv.Itoa(m.LastIndex),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"index", "captures", "lastIndex"},
			Rows:   rows,
			Alignment: []markdown.TableAlignment{
				markdown.AlignRight,
				markdown.AlignDefault,
				markdown.AlignRight,
			},
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [retester](https://github.com/nao1215/retester)*")
}

// markdownCell makes text safe inside a table cell.
var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// cellText escapes HTML and table syntax in s.
func cellText(s string) string {
	if s == "" {
		return ""
	}
	return markdownCell.Replace(Escape(s))
}

// captureList renders captures as "[i]: value" joined with line breaks.
func captureList(items []model.Capture) string {
	parts := make([]string, len(items))
	for i, c := range items {
		value := cellText(c.Value)
		if c.Null {
			value = "*(null)*"
		}
		parts[i] = "[" + strconv.Itoa(i) + "]: " + value
	}
	return strings.Join(parts, "<br>")
}
