package report

import "strings"

// htmlEscaper substitutes the five characters that are unsafe in markup.
// strings.Replacer makes one pass over the input, so the entities it emits
// are never escaped a second time.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape returns s with & < > " ' replaced by entity references.
// The empty string maps to the empty string.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}
