package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/culturebot/litcheck/internal/extract"
	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// DefaultUnpaywallBase is the Unpaywall REST API root.
const DefaultUnpaywallBase = "https://api.unpaywall.org/v2"

// UnpaywallTier resolves DOIs through Unpaywall: bibliographic metadata
// always, plus an open-access PDF location when one exists.
type UnpaywallTier struct {
	client *Client
	Base   string
}

func NewUnpaywallTier(client *Client) *UnpaywallTier {
	return &UnpaywallTier{client: client, Base: DefaultUnpaywallBase}
}

func (t *UnpaywallTier) Name() string { return "unpaywall" }

type unpaywallResponse struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	JournalName string `json:"journal_name"`
	ZAuthors    []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"z_authors"`
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
	Abstract string `json:"abstract"`
}

func (t *UnpaywallTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	doi := ref.DOI()
	if doi == "" {
		return nil, ErrTierUnavailable
	}

	email := t.client.contactEmail
	if email == "" {
		// Unpaywall requires an email parameter.
		email = "anonymous@example.org"
	}
	reqURL := fmt.Sprintf("%s/%s?email=%s", t.Base, url.PathEscape(doi), url.QueryEscape(email))

	body, err := t.client.Get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp unpaywallResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Title == "" {
		return nil, ErrNotFound
	}

	rec := &paper.Record{
		Title:     resp.Title,
		Abstract:  extract.StripMarkup(resp.Abstract),
		Year:      resp.Year,
		Journal:   resp.JournalName,
		FetchedAt: time.Now(),
	}
	for _, a := range resp.ZAuthors {
		name := a.Family
		if a.Given != "" {
			name = a.Given + " " + a.Family
		}
		rec.Authors = append(rec.Authors, name)
	}

	if wantFullText && resp.BestOALocation != nil && resp.BestOALocation.URLForPDF != "" {
		if text, raw, err := t.fetchPDF(ctx, resp.BestOALocation.URLForPDF); err == nil {
			rec.FullText = text
			rec.RawBody = raw
		}
	}
	return rec, nil
}

func (t *UnpaywallTier) fetchPDF(ctx context.Context, pdfURL string) (string, []byte, error) {
	body, err := t.client.Get(ctx, pdfURL)
	if err != nil {
		return "", nil, err
	}
	if !extract.LooksLikePDF(body) {
		return "", nil, fmt.Errorf("%w: OA location is not a PDF", ErrInvalidResponse)
	}
	text, err := extract.PDFText(body, 0)
	if err != nil {
		return "", nil, err
	}
	return text, body, nil
}
