package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/retester/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ruleWidth is the width of the horizontal rules between sections.
const ruleWidth = 70

// defaultCellWidth is the widest a table cell may render before it is
// truncated.
const defaultCellWidth = 24

// SimpleWriter outputs human-readable text reports.
// Columns are aligned by display width, so wide characters in samples do
// not break the layout.
type SimpleWriter struct {
	baseWriter

	// verbose adds the exec sequence of every sample.
	verbose bool

	// cellWidth caps the display width of table cells.
	cellWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the captures of every match.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithCellWidth sets the maximum display width of a table cell.
// Values below 4 are ignored.
func WithCellWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if width >= 4 {
			w.cellWidth = width
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		cellWidth:  defaultCellWidth,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(out *model.TestOutput) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "regex test report")

	if !out.Success {
		sb.WriteString(fmt.Sprintf("Status:      FAILED (%s)\n", out.Kind))
		sb.WriteString(fmt.Sprintf("Message:     %s\n\n", out.Message))
	} else {
		sb.WriteString("Status:      OK\n\n")
	}

	if eval := out.Evaluation; eval != nil {
		flags := eval.Flags
		if flags == "" {
			flags = "(none)"
		}
		sb.WriteString(fmt.Sprintf("Pattern:     %s\n", eval.Pattern))
		sb.WriteString(fmt.Sprintf("Replacement: %s\n", eval.Replacement))
		sb.WriteString(fmt.Sprintf("Options:     %s\n\n", flags))

		w.writeResults(&sb, eval)
		if w.verbose {
			w.writeMatches(&sb, eval)
		}
	}

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.writeString(sb.String())
}

// writeResults writes the sample table.
func (w *SimpleWriter) writeResults(sb *strings.Builder, eval *model.Evaluation) {
	writeSection(sb, "results")

	if len(eval.Samples) == 0 {
		sb.WriteString("  " + NoInputsText + "\n\n")
		return
	}

	header := []string{"#", "Input", "test", "replace", "replaceAll", "matches"}
	rows := make([][]string, len(eval.Samples))
	for i, s := range eval.Samples {
		replaceAll := s.ReplaceAll
		if s.ReplaceAllError != "" {
			replaceAll = "ERROR: " + s.ReplaceAllError
		}
		rows[i] = []string{
			strconv.Itoa(s.Row),
			s.Input,
			strconv.FormatBool(s.Test),
			s.Replace,
			replaceAll,
			strconv.Itoa(len(s.Matches)),
		}
	}

	writeTable(sb, header, rows, w.cellWidth)
	sb.WriteString("\n")
}

// writeMatches writes split results and the exec sequence of each sample.
func (w *SimpleWriter) writeMatches(sb *strings.Builder, eval *model.Evaluation) {
	writeSection(sb, "matches")

	for _, s := range eval.Samples {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", s.Row, s.Input))
		sb.WriteString("  split: " + joinCaptures(s.Split) + "\n")
		if len(s.Matches) == 0 {
			sb.WriteString("  exec:  (null)\n\n")
			continue
		}
		for _, m := range s.Matches {
			sb.WriteString(fmt.Sprintf("  exec:  index=%d lastIndex=%d %s\n",
				m.Index, m.LastIndex, joinCaptures(m.Captures)))
		}
		sb.WriteString("\n")
	}
}

// WriteOutline writes a parsed HTML report as aligned text.
func (w *SimpleWriter) WriteOutline(o *Outline) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "regex test report")
	for _, row := range o.Header {
		sb.WriteString(runewidth.FillRight(row[0]+":", 20))
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	writeSection(&sb, "results")
	if len(o.Rows) == 0 {
		sb.WriteString("  (no results table)\n\n")
	} else {
		writeTable(&sb, o.Columns, o.Rows, w.cellWidth)
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.writeString(sb.String())
}

// titleCaser upper-cases section titles.
var titleCaser = cases.Upper(language.English)

func writeTitle(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	text := titleCaser.String(title)
	pad := (ruleWidth - runewidth.StringWidth(text)) / 2
	if pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(text)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(titleCaser.String(title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeTable writes rows under header with columns padded to the widest
// cell, measured in display width and capped at maxWidth.
func writeTable(sb *strings.Builder, header []string, rows [][]string, maxWidth int) {
	widths := make([]int, len(header))
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if cw := min(runewidth.StringWidth(flatten(c)), maxWidth); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	line := func(cells []string) {
		sb.WriteString(" ")
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = runewidth.Truncate(flatten(cells[i]), widths[i], "…")
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	line(header)
	sb.WriteString(" ")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		line(row)
	}
}

var flattener = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\t", `\t`)

// flatten keeps a cell on one line.
func flatten(s string) string {
	return flattener.Replace(s)
}

func joinCaptures(items []model.Capture) string {
	parts := make([]string, len(items))
	for i, c := range items {
		value := strconv.Quote(c.Value)
		if c.Null {
			value = "(null)"
		}
		parts[i] = "[" + strconv.Itoa(i) + "]=" + value
	}
	return strings.Join(parts, " ")
}
