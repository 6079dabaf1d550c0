package report

import (
	"io"
	"strings"

	"github.com/nao1215/retester/internal/model"
)

// HTMLWriter outputs the generated HTML report.
// A failed output writes its message as a paragraph followed by the
// partial report, if any.
type HTMLWriter struct {
	baseWriter

	// standalone wraps the report in a complete HTML document.
	standalone bool

	// title is the document title used in standalone mode.
	title string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithStandalone wraps the report fragment in a complete HTML document
// with the given title, suitable for opening directly in a browser.
func WithStandalone(title string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.standalone = true
		w.title = title
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		title:      "Regex Test Results",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report.
func (w *HTMLWriter) Write(out *model.TestOutput) (int, error) {
	var sb strings.Builder

	if w.standalone {
		sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
		sb.WriteString(`<meta charset="utf-8">` + "\n")
		sb.WriteString("<title>" + Escape(w.title) + "</title>\n")
		sb.WriteString("</head>\n<body>\n")
	}

	if !out.Success {
		sb.WriteString(`<p class="alert alert-danger">` + Escape(out.Message) + "</p>\n")
	}
	sb.WriteString(out.Report)

	if w.standalone {
		sb.WriteString("</body>\n</html>\n")
	}

	return w.writeString(sb.String())
}
