package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Content prepares user-authored text for storage. The text is kept verbatim apart from
// surrounding whitespace and NUL bytes, which postgres text columns reject. Escaping is
// left to whoever renders it.
func Content(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
}

// PlainText strips every tag and returns unescaped text, for search documents and other
// text-only sinks.
func PlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
