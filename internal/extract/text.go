// Package extract normalizes raw tier payloads (API JSON fragments, HTML
// pages, PDF bytes, PubMed plain text) into plain-text document fields.
package extract

import (
	"errors"
	"html"
	"regexp"
	"strings"
)

// ErrNoDocumentPointer indicates that a mirror or publisher page contained
// none of the known document-pointer embedding patterns. It is a tier-local
// failure: the cascade proceeds to the next tier.
var ErrNoDocumentPointer = errors.New("could not extract document location")

var (
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// NormalizeWhitespace collapses all runs of whitespace to single spaces and
// trims the result. Validation and caching both operate on this form.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripMarkup removes XML/HTML tags and unescapes entities. CrossRef and
// Unpaywall deliver abstracts wrapped in JATS markup ("<jats:p>...").
func StripMarkup(s string) string {
	return NormalizeWhitespace(html.UnescapeString(tagPattern.ReplaceAllString(s, " ")))
}

// FirstYear returns the first plausible publication year in s, or 0.
func FirstYear(s string) int {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0
	}
	year := 0
	for _, c := range m {
		year = year*10 + int(c-'0')
	}
	return year
}
