package report

import (
	"strconv"
	"strings"

	"github.com/nao1215/retester/internal/model"
)

// Column headers of the results table, in order.
var resultColumns = []string{
	"Test",
	"Input",
	"regex.test()",
	"input.replace()",
	"input.replaceAll()",
	"input.split()[]",
	"regex.exec().index",
	"regex.exec()[]",
	"regex.lastIndex",
}

// Number of columns before the exec cells; continuation rows span them.
const leadingColumns = 6

// Marker rendered for null captures and samples without a match.
const nullMarker = "<i>(null)</i>"

// NoInputsText is the placeholder shown when no sample was evaluated.
const NoInputsText = "(no inputs to test)"

// HTMLBuilder assembles the HTML report piece by piece.
// String may be called at any point and returns what has been written so
// far, which is how partial reports are produced on failure.
//
// The zero value is ready to use. An HTMLBuilder must not be copied after
// first use.
type HTMLBuilder struct {
	sb   strings.Builder
	rows int
}

// NewHTMLBuilder returns an empty builder.
func NewHTMLBuilder() *HTMLBuilder {
	return &HTMLBuilder{}
}

// WriteHeader renders the table that echoes the pattern, the replacement
// and the flags. Empty flags render as "(none)".
func (b *HTMLBuilder) WriteHeader(pattern, replacement, flags string) {
	b.sb.WriteString(`<table class="table table-bordered table-striped" style="width:auto;">` + "\n")
	b.headerRow("Regular Expression", Escape(pattern))
	b.headerRow("Replacement", Escape(replacement))
	if flags == "" {
		b.headerRow("Options", "<i>(none)</i>")
	} else {
		b.headerRow("Options", Escape(flags))
	}
	b.sb.WriteString("</table>\n")
}

func (b *HTMLBuilder) headerRow(label, value string) {
	b.sb.WriteString("\t<tr>\n")
	b.sb.WriteString("\t\t<td>" + label + "</td>\n")
	b.sb.WriteString("\t\t<td>" + value + "</td>\n")
	b.sb.WriteString("\t</tr>\n")
}

// BeginResults opens the results table and writes its column headers.
func (b *HTMLBuilder) BeginResults() {
	b.sb.WriteString(`<table class="table table-bordered table-striped">` + "\n")
	b.sb.WriteString("\t<thead>\n")
	b.sb.WriteString("\t\t<tr>\n")
	for i, col := range resultColumns {
		if i == 0 {
			b.sb.WriteString("\t\t\t" + `<th style="text-align:center;">` + col + "</th>\n")
			continue
		}
		b.sb.WriteString("\t\t\t<th>" + col + "</th>\n")
	}
	b.sb.WriteString("\t\t</tr>\n")
	b.sb.WriteString("\t</thead>\n")
	b.sb.WriteString("\t<tbody>\n")
}

// WriteSample renders the rows of one evaluated sample. The first row holds
// the sample cells and the first match; each further match gets its own
// row whose leading cells collapse into a "regex.exec()" label.
func (b *HTMLBuilder) WriteSample(res *model.SampleResult) {
	b.sb.WriteString("\t\t<tr>\n")
	b.cell(`<td style="text-align:center;">`, strconv.Itoa(res.Row))
	b.cell("<td>", Escape(res.Input))
	b.cell("<td>", strconv.FormatBool(res.Test))
	b.cell("<td>", Escape(res.Replace))
	if res.ReplaceAllError != "" {
		b.cell("<td>", "<i>"+Escape(res.ReplaceAllError)+"</i>")
	} else {
		b.cell("<td>", Escape(res.ReplaceAll))
	}
	b.cell("<td>", indexedList(res.Split))

	if len(res.Matches) == 0 {
		b.cell(`<td colspan="6">`, nullMarker)
	}
	for i := range res.Matches {
		m := &res.Matches[i]
		if i > 0 {
			b.sb.WriteString("\t\t</tr>\n")
			b.sb.WriteString("\t\t<tr>\n")
			b.cell(`<td colspan="`+strconv.Itoa(leadingColumns)+`" style="text-align:right;">`, "regex.exec()")
		}
		b.cell("<td>", strconv.Itoa(m.Index))
		b.cell("<td>", indexedList(m.Captures))
		b.cell("<td>", strconv.Itoa(m.LastIndex))
	}

	b.sb.WriteString("\t\t</tr>\n")
	b.rows++
}

// EndResults writes the placeholder row if no sample was rendered, then
// closes the results table.
func (b *HTMLBuilder) EndResults() {
	if b.rows == 0 {
		b.sb.WriteString("\t\t<tr>\n")
		b.cell(`<td colspan="`+strconv.Itoa(len(resultColumns))+`">`, "<i>"+NoInputsText+"</i>")
		b.sb.WriteString("\t\t</tr>\n")
	}
	b.sb.WriteString("\t</tbody>\n")
	b.sb.WriteString("</table>\n")
}

// Rows returns the number of samples rendered so far.
func (b *HTMLBuilder) Rows() int {
	return b.rows
}

// String returns the report built so far.
func (b *HTMLBuilder) String() string {
	return b.sb.String()
}

func (b *HTMLBuilder) cell(open, content string) {
	b.sb.WriteString("\t\t\t")
	b.sb.WriteString(open)
	b.sb.WriteString(content)
	b.sb.WriteString("</td>\n")
}

// indexedList renders captures as "[i]: value<br/>" lines.
func indexedList(items []model.Capture) string {
	var sb strings.Builder
	for i, c := range items {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("]: ")
		if c.Null {
			sb.WriteString(nullMarker)
		} else {
			sb.WriteString(Escape(c.Value))
		}
		sb.WriteString("<br/>")
	}
	return sb.String()
}

// RenderHTML renders a complete report from an evaluation.
func RenderHTML(eval *model.Evaluation) string {
	b := NewHTMLBuilder()
	b.WriteHeader(eval.Pattern, eval.Replacement, eval.Flags)
	b.BeginResults()
	for i := range eval.Samples {
		b.WriteSample(&eval.Samples[i])
	}
	b.EndResults()
	return b.String()
}
