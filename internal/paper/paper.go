// Package paper defines the core domain types for resolved literature
// and snippet evidence.
package paper

import "time"

// Record is the resolved representation of one bibliographic reference.
// A Record with neither abstract nor full text is a resolution failure,
// which is distinct from a reference that was never attempted (those have
// no Record at all).
type Record struct {
	Canonical string   `json:"canonical"`
	Title     string   `json:"title,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`
	Year      int      `json:"year,omitempty"`
	Journal   string   `json:"journal,omitempty"`
	Authors   []string `json:"authors,omitempty"`

	// FullText is the whitespace-normalized body blob, populated only when
	// full text was requested and a tier could supply it.
	FullText string `json:"full_text,omitempty"`

	// ResolvedTier names the cascade tier that produced this record.
	// Empty for a failure record.
	ResolvedTier string    `json:"resolved_tier,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`

	// FullTextAttempted marks that a full-text resolution already walked
	// the cascade for this reference, whether or not body text was found.
	// Later full-text requests treat such a record as a cache hit.
	FullTextAttempted bool `json:"full_text_attempted,omitempty"`

	// RawBody carries the fetched source document bytes (PDF or article
	// XML) from the tier that produced them to the body cache. Never
	// serialized with the record.
	RawBody []byte `json:"-"`
}

// Failed reports whether this record is a resolution failure.
func (r *Record) Failed() bool {
	return r.Abstract == "" && r.FullText == ""
}

// HasUsableContent reports whether the record satisfies a resolution
// request. Body content is required only when full text was requested.
func (r *Record) HasUsableContent(wantFullText bool) bool {
	if wantFullText {
		return r.FullText != ""
	}
	return r.Abstract != ""
}

// Verdict classifies a snippet's support in its cited source.
type Verdict string

const (
	VerdictValid        Verdict = "VALID"
	VerdictInvalid      Verdict = "INVALID"
	VerdictUnverifiable Verdict = "UNVERIFIABLE"
)

// SnippetEvidence is the claim under test: a quoted snippet attributed to
// a reference, with optional topic context used only to bias suggestion
// scoring, never validation.
type SnippetEvidence struct {
	Snippet string  `json:"snippet"`
	Topic   string  `json:"topic,omitempty"`
	Verdict Verdict `json:"verdict"`

	// Diagnostics carries human-readable findings (shape lint, similarity
	// ratio, which source the snippet matched).
	Diagnostics []string `json:"diagnostics,omitempty"`

	// Confidence is the curation confidence in the verdict: 1.0 for an
	// abstract match, 0.8 for a full-text match, lower when only a
	// replacement suggestion exists.
	Confidence float64 `json:"confidence"`
}

// ConfidenceTier classifies a suggestion's relevance score.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "HIGH"
	ConfidenceMedium ConfidenceTier = "MEDIUM"
	ConfidenceLow    ConfidenceTier = "LOW"
)

// Suggestion is a candidate replacement snippet drawn from the source
// document. Suggestions are request-scoped and never persisted.
type Suggestion struct {
	Text       string         `json:"text"`
	Span       [2]int         `json:"span"` // [start, end) rune offsets in the source text
	Score      float64        `json:"score"`
	Confidence ConfidenceTier `json:"confidence"`
}

// TierForScore maps a relevance score to its confidence tier.
func TierForScore(score float64) ConfidenceTier {
	switch {
	case score >= 5.0:
		return ConfidenceHigh
	case score >= 2.0:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
