package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/culturebot/litcheck/internal/extract"
	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// DefaultPublisherTemplates maps DOI prefixes to article page URL
// templates. Only publishers whose pages reliably carry Highwire meta
// tags are listed; everything else falls through to later tiers.
var DefaultPublisherTemplates = map[string]string{
	"10.1128": "https://journals.asm.org/doi/%s",
	"10.1371": "https://journals.plos.org/plosone/article?id=%s",
	"10.3389": "https://www.frontiersin.org/articles/%s/full",
	"10.3390": "https://www.mdpi.com/%s",
	"10.1038": "https://www.nature.com/articles/%s",
	"10.1126": "https://www.science.org/doi/%s",
	"10.1016": "https://www.sciencedirect.com/science/article/doi/%s",
}

// PublisherTier fetches article pages directly from known publisher
// sites, keyed by DOI prefix.
type PublisherTier struct {
	client    *Client
	Templates map[string]string
}

func NewPublisherTier(client *Client) *PublisherTier {
	return &PublisherTier{client: client, Templates: DefaultPublisherTemplates}
}

func (t *PublisherTier) Name() string { return "publisher" }

func (t *PublisherTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	doi := ref.DOI()
	if doi == "" {
		return nil, ErrTierUnavailable
	}
	prefix, _, ok := strings.Cut(doi, "/")
	if !ok {
		return nil, ErrTierUnavailable
	}
	tmpl, ok := t.Templates[prefix]
	if !ok {
		return nil, ErrTierUnavailable
	}

	pageURL := fmt.Sprintf(tmpl, doiPathComponent(prefix, doi))
	body, err := t.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	rec := &paper.Record{FetchedAt: time.Now()}

	// Some publishers serve the PDF straight from the article URL.
	if extract.LooksLikePDF(body) {
		text, err := extract.PDFText(body, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		rec.FullText = text
		rec.RawBody = body
		return rec, nil
	}

	page := string(body)
	meta := extract.ParseHTMLMeta(page)
	rec.Title = meta.Title
	rec.Abstract = meta.Abstract
	rec.Authors = meta.Authors
	rec.Year = meta.Year
	rec.Journal = meta.Journal

	if wantFullText {
		if text, raw, err := t.fullTextFromPage(ctx, page, pageURL); err == nil {
			rec.FullText = text
			rec.RawBody = raw
		}
	}

	if rec.Failed() {
		return nil, fmt.Errorf("%w: no metadata on publisher page", ErrInvalidResponse)
	}
	return rec, nil
}

func (t *PublisherTier) fullTextFromPage(ctx context.Context, page, pageURL string) (string, []byte, error) {
	ptr, err := extract.ExtractDocPointer(page, pageURL)
	if err != nil {
		return "", nil, err
	}
	body, err := t.client.Get(ctx, ptr)
	if err != nil {
		return "", nil, err
	}
	if !extract.LooksLikePDF(body) {
		return "", nil, fmt.Errorf("%w: pointer target is not a PDF", ErrInvalidResponse)
	}
	text, err := extract.PDFText(body, 0)
	if err != nil {
		return "", nil, err
	}
	return text, body, nil
}

// doiPathComponent adapts the DOI for publishers that key article URLs on
// the registrant-local suffix rather than the full DOI.
func doiPathComponent(prefix, doi string) string {
	if prefix == "10.1038" {
		return strings.TrimPrefix(doi, "10.1038/")
	}
	return doi
}
