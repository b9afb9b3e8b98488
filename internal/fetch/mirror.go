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

// MirrorTier fetches full text from configured mirror hosts. Mirrors key
// on DOI and serve an HTML wrapper page that embeds the document through
// one of the recognized pointer patterns. The host list comes entirely
// from configuration; nothing is built in.
type MirrorTier struct {
	client *Client
	Hosts  []string
}

func NewMirrorTier(client *Client, hosts []string) *MirrorTier {
	return &MirrorTier{client: client, Hosts: hosts}
}

func (t *MirrorTier) Name() string { return "mirror" }

func (t *MirrorTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	doi := ref.DOI()
	if doi == "" || len(t.Hosts) == 0 {
		return nil, ErrTierUnavailable
	}

	var lastErr error
	for _, host := range t.Hosts {
		rec, err := t.fetchFromHost(ctx, host, doi)
		if err != nil {
			lastErr = err
			continue
		}
		return rec, nil
	}
	return nil, fmt.Errorf("all mirrors failed: %w", lastErr)
}

func (t *MirrorTier) fetchFromHost(ctx context.Context, host, doi string) (*paper.Record, error) {
	pageURL := hostURL(host) + "/" + doi
	body, err := t.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	// Some mirrors serve the PDF directly, others a wrapper page.
	if !extract.LooksLikePDF(body) {
		ptr, err := extract.ExtractDocPointer(string(body), pageURL)
		if err != nil {
			return nil, err
		}
		body, err = t.client.Get(ctx, ptr)
		if err != nil {
			return nil, err
		}
		if !extract.LooksLikePDF(body) {
			return nil, fmt.Errorf("%w: pointer target is not a PDF", ErrInvalidResponse)
		}
	}

	text, err := extract.PDFText(body, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: PDF yielded no text", ErrInvalidResponse)
	}

	return &paper.Record{
		FullText:  text,
		Year:      extract.FirstYear(text),
		FetchedAt: time.Now(),
		RawBody:   body,
	}, nil
}

func hostURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimSuffix(host, "/")
	}
	return "https://" + strings.TrimSuffix(host, "/")
}
