package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// DefaultS2Base is the Semantic Scholar Graph API root.
const DefaultS2Base = "https://api.semanticscholar.org/graph/v1"

const s2Fields = "title,abstract,year,venue,authors"

// S2Tier resolves DOIs and PMIDs through the Semantic Scholar Graph API.
// Metadata only; S2 does not serve full text.
type S2Tier struct {
	client *Client
	Base   string
}

func NewS2Tier(client *Client) *S2Tier {
	return &S2Tier{client: client, Base: DefaultS2Base}
}

func (t *S2Tier) Name() string { return "s2" }

type s2Response struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Year     int    `json:"year"`
	Venue    string `json:"venue"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (t *S2Tier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	var paperID string
	switch {
	case ref.DOI() != "":
		paperID = "DOI:" + ref.DOI()
	case ref.PMID() != "":
		paperID = "PMID:" + ref.PMID()
	default:
		return nil, ErrTierUnavailable
	}

	reqURL := fmt.Sprintf("%s/paper/%s?fields=%s", t.Base, url.PathEscape(paperID), s2Fields)
	body, err := t.client.Get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp s2Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Title == "" && resp.Abstract == "" {
		return nil, ErrNotFound
	}

	rec := &paper.Record{
		Title:     resp.Title,
		Abstract:  resp.Abstract,
		Year:      resp.Year,
		Journal:   resp.Venue,
		FetchedAt: time.Now(),
	}
	for _, a := range resp.Authors {
		rec.Authors = append(rec.Authors, a.Name)
	}
	return rec, nil
}
