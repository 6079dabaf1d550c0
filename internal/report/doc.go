// Package report renders regex test results.
//
// The HTML report is the primary output. HTMLBuilder assembles it
// incrementally so that a failure part way through still leaves a usable
// partial report. Escape makes every user supplied string safe to embed.
//
// Writers put a model.TestOutput on an io.Writer in one of several formats:
//   - HTMLWriter: The report exactly as generated
//   - JSONWriter: Structured output for tool integration
//   - MarkdownWriter: Tables for sharing in issues and documentation
//   - SimpleWriter: Aligned plain text for terminal display
//
// ParseOutline reads an HTML report back into rows of cell text, so stored
// reports can be shown as text without re-running them.
package report
