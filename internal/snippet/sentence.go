package snippet

import (
	"regexp"
	"strings"
	"unicode"
)

// Sentence is one candidate segment of a source document, with its rune
// span in the normalized source.
type Sentence struct {
	Text  string
	Start int
	End   int
	Index int // position among all segmented sentences
	Total int
}

// protectedAbbrevs are terms whose trailing period must not end a
// sentence. "sp." and "et al." appear constantly in taxonomy abstracts.
var protectedAbbrevs = []string{
	"sp.", "spp.", "nov.", "et al.", "e.g.", "i.e.", "cf.", "ca.", "Fig.", "fig.",
}

const protectMark = '\x01'

// Segment splits whitespace-normalized text into sentences, breaking on
// sentence-ending punctuation followed by a capital letter, with known
// abbreviations protected from false breaks.
func Segment(source string) []Sentence {
	runes := []rune(protect(source))

	var sentences []Sentence
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Look past the punctuation run for " <capital>".
		j := i + 1
		for j < len(runes) && isTerminal(runes[j]) {
			j++
		}
		if j >= len(runes) || runes[j] != ' ' {
			continue
		}
		k := j
		for k < len(runes) && runes[k] == ' ' {
			k++
		}
		if k >= len(runes) || !unicode.IsUpper(runes[k]) {
			continue
		}
		sentences = appendSentence(sentences, runes, start, j)
		start = k
		i = k - 1
	}
	sentences = appendSentence(sentences, runes, start, len(runes))

	for i := range sentences {
		sentences[i].Index = i
		sentences[i].Total = len(sentences)
	}
	return sentences
}

func appendSentence(sentences []Sentence, runes []rune, start, end int) []Sentence {
	text := strings.TrimSpace(unprotect(string(runes[start:end])))
	if text == "" {
		return sentences
	}
	return append(sentences, Sentence{Text: text, Start: start, End: end})
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func protect(s string) string {
	for _, abbr := range protectedAbbrevs {
		marked := strings.ReplaceAll(abbr, ".", string(protectMark))
		s = strings.ReplaceAll(s, abbr, marked)
	}
	return s
}

func unprotect(s string) string {
	return strings.ReplaceAll(s, string(protectMark), ".")
}

// Candidate filters, ported from the curation tooling: author and
// affiliation lines, copyright boilerplate, bare citation years, email
// addresses, and id prefixes are never evidence snippets.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^author information:`),
	regexp.MustCompile(`(?i)^(copyright|published by|all rights reserved)`),
	regexp.MustCompile(`^\(\d+\)`),
	regexp.MustCompile(`[A-Z][a-z]+ [A-Z]{1,4}\(\d+\)`),
	regexp.MustCompile(`@`),
	regexp.MustCompile(`^\d{4}\b`),
	regexp.MustCompile(`(?i)^(doi|pmid|pmcid):`),
	regexp.MustCompile(`\bet al\b`),
}

const (
	minCandidateLen = 50
	maxCandidateLen = 500
)

// usable reports whether a sentence survives the candidate filters.
func usable(s Sentence) bool {
	if n := len(s.Text); n < minCandidateLen || n > maxCandidateLen {
		return false
	}
	for _, p := range excludePatterns {
		if p.MatchString(s.Text) {
			return false
		}
	}
	return true
}
