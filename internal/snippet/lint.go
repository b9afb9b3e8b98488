package snippet

import (
	"regexp"
	"strings"
)

// Shape checks catch snippets that are malformed regardless of what the
// source document says: citation headers pasted as evidence, fragments too
// short to verify, and text that reads as a summary rather than a quote.
var (
	citationPrefixPattern = regexp.MustCompile(`^\d+\.\s+[A-Z][\w\s]+\.\s+(19|20)\d{2}`)
	paraphrasePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^the (study|paper|article|authors?) (shows?|found|demonstrates?|reports?|suggests?)`),
		regexp.MustCompile(`(?i)^(this|the) (study|paper|article) `),
		regexp.MustCompile(`(?i)^according to (the|this) `),
		regexp.MustCompile(`(?i)^(in summary|overall|taken together),`),
		regexp.MustCompile(`(?i)plays? a key role`),
		regexp.MustCompile(`(?i)has been shown to`),
	}
)

const minSnippetLen = 10

// Lint returns shape diagnostics for a snippet. An empty result means the
// snippet is well formed; it says nothing about whether the source
// actually contains it.
func Lint(snippet string) []string {
	var diags []string
	s := strings.TrimSpace(snippet)

	if s == "" {
		return []string{"snippet is empty"}
	}
	if len(s) < minSnippetLen {
		diags = append(diags, "snippet too short to verify")
	}
	if citationPrefixPattern.MatchString(s) {
		diags = append(diags, "snippet begins with a journal citation header")
	}
	for _, p := range paraphrasePatterns {
		if p.MatchString(s) {
			diags = append(diags, "snippet reads as a paraphrase, not a quotation")
			break
		}
	}
	return diags
}
