// Package curator ties reference normalization, the fetch cascade, the
// paper cache, snippet validation, and suggestion scoring into one
// pipeline. Each evidence item moves through a fixed sequence of states;
// the final state and verdict are what callers act on.
package curator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/culturebot/litcheck/internal/cache"
	"github.com/culturebot/litcheck/internal/extract"
	"github.com/culturebot/litcheck/internal/fetch"
	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
	"github.com/culturebot/litcheck/internal/snippet"
)

// State is the position of an item in the curation pipeline.
type State string

const (
	StateUnresolved   State = "UNRESOLVED"
	StateFetching     State = "FETCHING"
	StateResolved     State = "RESOLVED"
	StateFetchFailed  State = "FETCH_FAILED"
	StateBadReference State = "BAD_REFERENCE"
	StateValidating   State = "VALIDATING"
	StateValid        State = "VALID"
	StateInvalid      State = "INVALID"
	StateSuggesting   State = "SUGGESTING"
	StateSuggested    State = "SUGGESTED"
	StateNoSuggestion State = "NO_SUGGESTION"
)

// Verdict confidence levels. An abstract match is trusted most; full text
// extraction is noisier; a bare suggestion means the claimed snippet was
// not found at all.
const (
	ConfidenceAbstractMatch  = 1.0
	ConfidenceFullTextMatch  = 0.8
	ConfidenceSuggestionOnly = 0.5
	ConfidenceNoEvidence     = 0.3
)

// Item is one piece of evidence to check: a reference id and the snippet
// attributed to it. Topic and Roles bias suggestion scoring only.
type Item struct {
	Reference string   `json:"reference" yaml:"reference"`
	Snippet   string   `json:"snippet" yaml:"snippet"`
	Topic     string   `json:"topic,omitempty" yaml:"topic,omitempty"`
	Roles     []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Result is the outcome of processing one item.
type Result struct {
	Reference string `json:"reference"`
	Canonical string `json:"canonical,omitempty"`

	// Corrected is set when the reference id was a recognized-but-malformed
	// variant that normalization repaired.
	Corrected bool `json:"corrected,omitempty"`

	State    State                  `json:"state"`
	Record   *paper.Record          `json:"record,omitempty"`
	Evidence *paper.SnippetEvidence `json:"evidence,omitempty"`

	Suggestions []paper.Suggestion `json:"suggestions,omitempty"`
}

// Curator runs the pipeline. Construct with New.
type Curator struct {
	cache    *cache.Store
	resolver *fetch.Resolver
	scorer   *snippet.Scorer
	log      *zap.Logger

	// BatchDelay is the pause between items in ProcessBatch. Endpoints
	// tolerate slow sequential clients better than bursts.
	BatchDelay time.Duration
}

// New creates a Curator. A nil logger disables logging.
func New(store *cache.Store, resolver *fetch.Resolver, log *zap.Logger) *Curator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Curator{
		cache:    store,
		resolver: resolver,
		scorer:   snippet.NewScorer(),
		log:      log,
	}
}

// Resolve returns the paper record for a reference, consulting the cache
// first. A cache hit, including a cached failure, never touches the
// network; once a full-text walk has been attempted for a reference, the
// cascade is never walked for it again. The resolved record (or failure)
// is cached before returning, along with the raw source body when the
// tier produced one.
func (c *Curator) Resolve(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	cached, err := c.cache.Get(ref.Canonical)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		if cached.Failed() || !wantFullText || cached.FullText != "" || cached.FullTextAttempted {
			c.log.Debug("cache hit", zap.String("ref", ref.Canonical))
			return cached, nil
		}
		// Full text wanted but the cached record has none: a stored body
		// can be re-extracted without touching the network.
		if text, ok := c.textFromStoredBody(ref.Canonical); ok {
			cached.FullText = text
			cached.FullTextAttempted = true
			if err := c.cache.Put(cached); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	rec := c.resolver.Resolve(ctx, ref, wantFullText)
	if wantFullText && ctx.Err() == nil {
		rec.FullTextAttempted = true
	}

	if cached != nil && rec.Failed() {
		// Keep the cached copy, but remember the full-text attempt so the
		// cascade is not walked again for this reference.
		cached.FullTextAttempted = cached.FullTextAttempted || rec.FullTextAttempted
		if err := c.cache.Put(cached); err != nil {
			return nil, err
		}
		return cached, nil
	}

	backfillMetadata(rec, cached)
	if err := c.cache.Put(rec); err != nil {
		return nil, err
	}
	if len(rec.RawBody) > 0 {
		if err := c.cache.PutBody(ref.Canonical, rec.RawBody); err != nil {
			c.log.Warn("storing raw body", zap.String("ref", ref.Canonical), zap.Error(err))
		}
	}
	return rec, nil
}

// textFromStoredBody re-extracts full text from a previously cached raw
// body, PDF or markup.
func (c *Curator) textFromStoredBody(canonical string) (string, bool) {
	body, err := c.cache.GetBody(canonical)
	if err != nil || len(body) == 0 {
		return "", false
	}
	var text string
	if extract.LooksLikePDF(body) {
		if text, err = extract.PDFText(body, 0); err != nil {
			return "", false
		}
	} else {
		text = extract.StripMarkup(string(body))
	}
	if text == "" {
		return "", false
	}
	c.log.Debug("full text revived from stored body", zap.String("ref", canonical))
	return text, true
}

// backfillMetadata fills fields the new fetch did not produce from the
// previously cached copy.
func backfillMetadata(rec, cached *paper.Record) {
	if cached == nil {
		return
	}
	if rec.Title == "" {
		rec.Title = cached.Title
	}
	if rec.Abstract == "" {
		rec.Abstract = cached.Abstract
	}
	if rec.Journal == "" {
		rec.Journal = cached.Journal
	}
	if rec.Year == 0 {
		rec.Year = cached.Year
	}
	if len(rec.Authors) == 0 {
		rec.Authors = cached.Authors
	}
}

// Retry drops the cached record for a reference so the next resolution
// walks the cascade again. This is the only way a cached failure is
// retried.
func (c *Curator) Retry(canonical string) error {
	return c.cache.Invalidate(canonical)
}

// Process runs one item through the full pipeline.
func (c *Curator) Process(ctx context.Context, item Item) Result {
	res := Result{Reference: item.Reference, State: StateUnresolved}

	ref, err := refid.Parse(item.Reference)
	if err != nil {
		res.State = StateBadReference
		res.Evidence = &paper.SnippetEvidence{
			Snippet:     item.Snippet,
			Topic:       item.Topic,
			Verdict:     paper.VerdictUnverifiable,
			Diagnostics: []string{fmt.Sprintf("unparseable reference id %q", item.Reference)},
		}
		return res
	}
	res.Canonical = ref.Canonical
	res.Corrected = ref.Corrected()

	res.State = StateFetching
	rec, err := c.Resolve(ctx, ref, false)
	if err != nil {
		c.log.Error("cache failure", zap.String("ref", ref.Canonical), zap.Error(err))
		res.State = StateFetchFailed
		res.Evidence = unverifiable(item, "cache error: "+err.Error())
		return res
	}
	res.Record = rec
	if rec.Failed() {
		res.State = StateFetchFailed
		res.Evidence = unverifiable(item, "no tier could resolve the reference")
		return res
	}
	res.State = StateResolved

	res.State = StateValidating
	ev := &paper.SnippetEvidence{Snippet: item.Snippet, Topic: item.Topic}
	ev.Diagnostics = snippet.Lint(item.Snippet)

	if valid, ratio := snippet.Validate(item.Snippet, rec.Abstract); valid {
		ev.Verdict = paper.VerdictValid
		ev.Confidence = ConfidenceAbstractMatch
		ev.Diagnostics = append(ev.Diagnostics, fmt.Sprintf("matched abstract (similarity %.2f)", ratio))
		res.State = StateValid
		res.Evidence = ev
		return res
	}

	// Second chance: the snippet may quote the body rather than the
	// abstract. Full text is only fetched when validation needs it.
	if rec.FullText == "" {
		if full, err := c.Resolve(ctx, ref, true); err == nil && full.FullText != "" {
			rec = full
			res.Record = rec
		}
	}
	if rec.FullText != "" {
		if valid, ratio := snippet.Validate(item.Snippet, rec.FullText); valid {
			ev.Verdict = paper.VerdictValid
			ev.Confidence = ConfidenceFullTextMatch
			ev.Diagnostics = append(ev.Diagnostics, fmt.Sprintf("matched full text (similarity %.2f)", ratio))
			res.State = StateValid
			res.Evidence = ev
			return res
		}
	}

	ev.Verdict = paper.VerdictInvalid
	res.State = StateSuggesting

	source := rec.FullText
	if source == "" {
		source = rec.Abstract
	}
	q := snippet.Query{
		Topic:    item.Topic,
		Keywords: snippet.ContextKeywords(item.Roles, item.Snippet),
	}
	res.Suggestions = c.scorer.Suggest(source, q, item.Snippet)

	if len(res.Suggestions) > 0 {
		ev.Confidence = ConfidenceSuggestionOnly
		ev.Diagnostics = append(ev.Diagnostics, "snippet not found; replacements suggested")
		res.State = StateSuggested
	} else {
		ev.Confidence = ConfidenceNoEvidence
		ev.Diagnostics = append(ev.Diagnostics, "snippet not found and no replacement candidate scored")
		res.State = StateNoSuggestion
	}
	res.Evidence = ev
	return res
}

// ProcessBatch runs items sequentially with BatchDelay between them.
// Cancellation between items returns the results accumulated so far.
func (c *Curator) ProcessBatch(ctx context.Context, items []Item) []Result {
	results := make([]Result, 0, len(items))
	for i, item := range items {
		if i > 0 && c.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(c.BatchDelay):
			}
		}
		if ctx.Err() != nil {
			return results
		}
		results = append(results, c.Process(ctx, item))
	}
	return results
}

func unverifiable(item Item, diag string) *paper.SnippetEvidence {
	return &paper.SnippetEvidence{
		Snippet:     item.Snippet,
		Topic:       item.Topic,
		Verdict:     paper.VerdictUnverifiable,
		Diagnostics: []string{diag},
	}
}
