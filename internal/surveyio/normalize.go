package surveyio

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\ufeff"

// NormalizeText trims surrounding whitespace, applies NFC, and folds
// typographic quotes to their ASCII forms so labels such as "don’t_know"
// match the classification tables.
func NormalizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	out, _, err := transform.String(transform.Chain(norm.NFC, runes.Map(foldQuote)), trimmed)
	if err != nil {
		return trimmed
	}
	return out
}

func foldQuote(r rune) rune {
	switch r {
	case '\u2018', '\u2019', '\u02bc', '\u2032':
		return '\''
	case '\u201c', '\u201d':
		return '"'
	default:
		return r
	}
}
