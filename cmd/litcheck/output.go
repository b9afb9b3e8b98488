package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/culturebot/litcheck/internal/curator"
	"github.com/culturebot/litcheck/internal/paper"
)

// Title truncation length for human-readable listings.
const titleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// reportError outputs an error in the appropriate format (human or JSON).
func reportError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
}

// exitWithError reports an error and exits immediately. Only for use
// before the cache is opened; afterwards, return an exitStatus so
// deferred cleanup runs.
func exitWithError(code int, format string, args ...interface{}) {
	reportError(format, args...)
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// printRecordHuman prints a resolved paper record.
func printRecordHuman(rec *paper.Record) {
	if rec.Failed() {
		outputHuman("%s: unresolved (all tiers failed)\n", rec.Canonical)
		return
	}
	outputHuman("%s [via %s]\n", rec.Canonical, rec.ResolvedTier)
	if rec.Title != "" {
		outputHuman("  %s\n", truncateString(rec.Title, titleMaxLen))
	}
	if len(rec.Authors) > 0 {
		outputHuman("  %s\n", formatAuthorsShort(rec.Authors, 3))
	}
	if rec.Journal != "" || rec.Year != 0 {
		outputHuman("  %s (%d)\n", rec.Journal, rec.Year)
	}
	if rec.Abstract != "" {
		outputHuman("  abstract: %d chars\n", len(rec.Abstract))
	}
	if rec.FullText != "" {
		outputHuman("  full text: %d chars\n", len(rec.FullText))
	}
}

// printResultHuman prints one curation result.
func printResultHuman(res curator.Result) {
	outputHuman("%s: %s", res.Reference, res.State)
	if res.Corrected {
		outputHuman(" (corrected to %s)", res.Canonical)
	}
	outputHuman("\n")

	if res.Evidence != nil {
		outputHuman("  verdict: %s (confidence %.1f)\n", res.Evidence.Verdict, res.Evidence.Confidence)
		for _, d := range res.Evidence.Diagnostics {
			outputHuman("  - %s\n", d)
		}
	}
	for i, s := range res.Suggestions {
		outputHuman("  %d. [%.1f %s] %s\n", i+1, s.Score, s.Confidence, truncateString(s.Text, titleMaxLen))
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats authors with "et al." beyond maxCount.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a)
	}
	return strings.Join(names, ", ")
}
