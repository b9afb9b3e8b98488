package extract

import (
	"regexp"
	"strings"
)

// PubMedDocument holds the fields parsed from an E-utilities efetch
// response in rettype=abstract / retmode=text form.
type PubMedDocument struct {
	Title    string
	Abstract string
	Authors  []string
	Year     int
	Journal  string
}

var (
	// journalLinePattern matches the leading citation line, e.g.
	// "1. Appl Environ Microbiol. 2020 Aug 18;86(17):e01390-20."
	journalLinePattern = regexp.MustCompile(`^\d+\.\s+(.+?)\.\s+(19|20)\d{2}`)

	// authorLinePattern matches author paragraphs like "Smith AB(1), Li Q(2)."
	authorLinePattern = regexp.MustCompile(`^[A-Z][\p{L}'-]+\s+[A-Z]{1,3}\(\d+\)`)

	trailerPrefixes = []string{
		"DOI:", "PMID:", "PMCID:", "Copyright", "©", "Published by",
		"Conflict of interest", "All rights reserved",
	}
)

// ParsePubMedText parses the plain-text efetch abstract format into its
// component fields. The format is paragraph-oriented: citation line, title,
// author list, "Author information:" block, abstract paragraphs, then
// copyright/id trailers.
func ParsePubMedText(text string) PubMedDocument {
	var doc PubMedDocument

	var abstractParts []string
	seen := 0

	for _, para := range splitParagraphs(text) {
		flat := NormalizeWhitespace(para)
		if flat == "" {
			continue
		}
		seen++

		switch {
		case doc.Journal == "" && journalLinePattern.MatchString(flat):
			m := journalLinePattern.FindStringSubmatch(flat)
			doc.Journal = m[1]
			doc.Year = FirstYear(flat)
		case doc.Title == "" && seen <= 3 && !isPubMedMetadata(flat):
			doc.Title = strings.TrimSuffix(flat, ".")
		case authorLinePattern.MatchString(flat):
			doc.Authors = parseAuthorLine(flat)
		case strings.HasPrefix(flat, "Author information:"):
			// Affiliation block, never abstract content.
		case isTrailer(flat):
			// Ids and boilerplate follow the abstract; stop collecting.
		default:
			abstractParts = append(abstractParts, flat)
		}
	}

	doc.Abstract = strings.Join(abstractParts, " ")
	return doc
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n\n")
}

func isTrailer(flat string) bool {
	for _, prefix := range trailerPrefixes {
		if strings.HasPrefix(flat, prefix) {
			return true
		}
	}
	return false
}

func isPubMedMetadata(flat string) bool {
	return authorLinePattern.MatchString(flat) ||
		strings.HasPrefix(flat, "Author information:") ||
		isTrailer(flat)
}

// parseAuthorLine splits "Smith AB(1), Li Q(2)." into bare names with the
// affiliation markers removed.
func parseAuthorLine(line string) []string {
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	marker := regexp.MustCompile(`\(\d+\)(\(\d+\))*`)
	line = marker.ReplaceAllString(line, "")

	var authors []string
	for _, part := range strings.Split(line, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
