package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

// SanitizeTitle turns a title into the path segment used in sketch permalinks.
func SanitizeTitle(title string) string {

	s := slug.Make(title)
	if s == "" {
		return "untitled"
	}

	return s
}

// SplitTags accepts tags separated by commas, semicolons, hashes or whitespace.
func SplitTags(s string) []string {

	tags := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '#' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	if tags == nil {
		return []string{}
	}

	return tags
}

// Shorten truncates s to n runes, ending with an ellipsis when cut.
func Shorten(s string, n int) string {

	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	if n <= 3 {
		return string(runes[:max(n, 0)])
	}

	return string(runes[:n-3]) + "..."
}

var sourceEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	" ", "&nbsp;",
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
	"\t", "&nbsp;&nbsp;&nbsp;&nbsp;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeSource renders sketch source code for display inside an HTML page.
func EscapeSource(src string) string {
	return sourceEscaper.Replace(strings.TrimSpace(src))
}

var (
	anyTag     = regexp.MustCompile(`(?is)<.+?>`)
	allowedTag = regexp.MustCompile(`(?is)^(</?b>|</?i>|</?p.*?>|<a\s*href\s*=\s*"\s*https?://www\.sketchpatch\.net/.*?>|</a>|</?ol>|</?ul>|<li>|</?em>|<br>|<hr>|</?tt>|</?strong>|</?blockquote.*?>|</?h[1-6]>)$`)
)

// StripHTML removes every tag outside the small set allowed in descriptions and comments.
func StripHTML(content string) string {

	return anyTag.ReplaceAllStringFunc(content, func(tag string) string {
		if allowedTag.MatchString(tag) {
			return tag
		}
		return ""
	})
}
