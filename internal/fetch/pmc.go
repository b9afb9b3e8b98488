package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/culturebot/litcheck/internal/extract"
	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// Default endpoints for the PubMed/PMC tier.
const (
	DefaultEutilsBase    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultEuropePMCBase = "https://www.ebi.ac.uk/europepmc/webservices/rest"
)

// PMCTier resolves PMIDs through NCBI efetch and PMC accessions through
// the Europe PMC full-text service.
type PMCTier struct {
	client        *Client
	EutilsBase    string
	EuropePMCBase string
}

func NewPMCTier(client *Client) *PMCTier {
	return &PMCTier{
		client:        client,
		EutilsBase:    DefaultEutilsBase,
		EuropePMCBase: DefaultEuropePMCBase,
	}
}

func (t *PMCTier) Name() string { return "pmc" }

func (t *PMCTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	switch ref.Kind {
	case refid.KindPMID:
		return t.fetchPubMed(ctx, ref.PMID(), wantFullText)
	case refid.KindPMCID:
		return t.fetchEuropePMC(ctx, ref.PMCID())
	default:
		return nil, ErrTierUnavailable
	}
}

// fetchPubMed pulls the abstract view via efetch in text mode, which is
// stable and parseable without an XML schema.
func (t *PMCTier) fetchPubMed(ctx context.Context, pmid string, wantFullText bool) (*paper.Record, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", pmid)
	q.Set("rettype", "abstract")
	q.Set("retmode", "text")
	if t.client.ncbiAPIKey != "" {
		q.Set("api_key", t.client.ncbiAPIKey)
	}
	if t.client.contactEmail != "" {
		q.Set("email", t.client.contactEmail)
	}

	body, err := t.client.Get(ctx, t.EutilsBase+"/efetch.fcgi?"+q.Encode())
	if err != nil {
		return nil, err
	}

	doc := extract.ParsePubMedText(string(body))
	if doc.Abstract == "" && doc.Title == "" {
		return nil, fmt.Errorf("%w: efetch returned no article", ErrNotFound)
	}

	return &paper.Record{
		Title:     doc.Title,
		Abstract:  doc.Abstract,
		Authors:   doc.Authors,
		Year:      doc.Year,
		Journal:   doc.Journal,
		FetchedAt: time.Now(),
	}, nil
}

// fetchEuropePMC pulls the full-text XML for a PMC accession and strips it
// to plain text. Abstract-only requests are served from the same body.
func (t *PMCTier) fetchEuropePMC(ctx context.Context, pmcid string) (*paper.Record, error) {
	body, err := t.client.Get(ctx, fmt.Sprintf("%s/%s/fullTextXML", t.EuropePMCBase, pmcid))
	if err != nil {
		return nil, err
	}

	text := extract.StripMarkup(string(body))
	if text == "" {
		return nil, fmt.Errorf("%w: empty full text", ErrInvalidResponse)
	}

	return &paper.Record{
		Abstract:  leadingExcerpt(text),
		FullText:  text,
		Year:      extract.FirstYear(text),
		FetchedAt: time.Now(),
		RawBody:   body,
	}, nil
}

// leadingExcerpt returns the opening of a full-text body, used as a stand-in
// abstract when a tier only yields the complete document.
func leadingExcerpt(text string) string {
	const n = 1500
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
