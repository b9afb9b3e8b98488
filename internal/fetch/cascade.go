package fetch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// Tier is one rung of the fetch cascade. A tier that cannot serve a
// reference kind returns ErrTierUnavailable; any other error means the
// tier was tried and failed.
type Tier interface {
	Name() string
	Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error)
}

// Resolver walks tiers in order until one produces usable content.
type Resolver struct {
	Tiers []Tier
	Log   *zap.Logger
}

// NewResolver builds a resolver with the standard tier order: publisher
// sites, PubMed/PMC, Unpaywall, Semantic Scholar, configured mirrors,
// then web search as the last resort.
func NewResolver(client *Client, log *zap.Logger, mirrorHosts []string) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	tiers := []Tier{
		NewPublisherTier(client),
		NewPMCTier(client),
		NewUnpaywallTier(client),
		NewS2Tier(client),
	}
	if len(mirrorHosts) > 0 {
		tiers = append(tiers, NewMirrorTier(client, mirrorHosts))
	}
	tiers = append(tiers, NewWebSearchTier(client))
	return &Resolver{Tiers: tiers, Log: log}
}

// Resolve walks the cascade for one reference. Tier failures are absorbed
// and logged; they never propagate to the caller. When every tier fails,
// the result is a failure record, which callers cache like any other so
// the dead reference is not refetched on every run. When full text was
// requested but only metadata could be found, the partial record from the
// earliest tier is returned.
func (r *Resolver) Resolve(ctx context.Context, ref refid.Reference, wantFullText bool) *paper.Record {
	var partial *paper.Record
	partialTier := ""

	for _, tier := range r.Tiers {
		if ctx.Err() != nil {
			break
		}

		rec, err := tier.Fetch(ctx, ref, wantFullText)
		if err != nil {
			if errors.Is(err, ErrTierUnavailable) {
				continue
			}
			te := &TierError{Tier: tier.Name(), Err: err}
			r.Log.Warn("fetch tier failed",
				zap.String("ref", ref.Canonical),
				zap.String("tier", tier.Name()),
				zap.Error(te))
			continue
		}
		if rec == nil || rec.Failed() {
			continue
		}

		if rec.HasUsableContent(wantFullText) {
			return r.finish(rec, ref, tier.Name())
		}
		if partial == nil {
			partial = rec
			partialTier = tier.Name()
		}
	}

	if partial != nil {
		return r.finish(partial, ref, partialTier)
	}

	r.Log.Warn("all fetch tiers exhausted", zap.String("ref", ref.Canonical))
	return &paper.Record{Canonical: ref.Canonical, FetchedAt: time.Now()}
}

func (r *Resolver) finish(rec *paper.Record, ref refid.Reference, tier string) *paper.Record {
	rec.Canonical = ref.Canonical
	rec.ResolvedTier = tier
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now()
	}
	return rec
}
