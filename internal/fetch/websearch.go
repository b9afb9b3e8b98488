package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/culturebot/litcheck/internal/extract"
	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

// DefaultSearchBase is the HTML (no-JS) search endpoint used by the last
// resort tier.
const DefaultSearchBase = "https://html.duckduckgo.com/html/"

// maxSearchResults bounds how many result pages the tier will try.
const maxSearchResults = 3

// WebSearchTier is the last resort: search the open web for the reference
// id and harvest citation metadata from whichever result page carries it.
// Low fidelity; anything it finds is metadata only.
type WebSearchTier struct {
	client *Client
	Base   string
}

func NewWebSearchTier(client *Client) *WebSearchTier {
	return &WebSearchTier{client: client, Base: DefaultSearchBase}
}

func (t *WebSearchTier) Name() string { return "websearch" }

func (t *WebSearchTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	query := searchQuery(ref)
	if query == "" {
		return nil, ErrTierUnavailable
	}

	body, err := t.client.Get(ctx, t.Base+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	links := resultLinks(string(body), t.Base)
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: no search results", ErrNotFound)
	}
	if len(links) > maxSearchResults {
		links = links[:maxSearchResults]
	}

	var lastErr error = ErrNotFound
	for _, link := range links {
		page, err := t.client.Get(ctx, link)
		if err != nil {
			lastErr = err
			continue
		}
		meta := extract.ParseHTMLMeta(string(page))
		if meta.Abstract == "" {
			continue
		}
		return &paper.Record{
			Title:     meta.Title,
			Abstract:  meta.Abstract,
			Authors:   meta.Authors,
			Year:      meta.Year,
			Journal:   meta.Journal,
			FetchedAt: time.Now(),
		}, nil
	}
	return nil, fmt.Errorf("no result page carried metadata: %w", lastErr)
}

// searchQuery quotes the identifier most likely to appear verbatim on a
// page about the paper.
func searchQuery(ref refid.Reference) string {
	switch {
	case ref.DOI() != "":
		return `"` + ref.DOI() + `"`
	case ref.PMID() != "":
		return `"PMID: ` + ref.PMID() + `"`
	case ref.PMCID() != "":
		return `"` + ref.PMCID() + `"`
	default:
		return ""
	}
}

// resultLinks extracts outbound result anchors from the search page,
// skipping links back into the search engine itself.
func resultLinks(page, base string) []string {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}
	searchHost := ""
	if u, err := url.Parse(base); err == nil {
		searchHost = u.Host
	}

	var links []string
	seen := make(map[string]bool)
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				u, err := url.Parse(strings.TrimSpace(a.Val))
				if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
					continue
				}
				if u.Host == "" || u.Host == searchHost {
					continue
				}
				link := u.String()
				if !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return links
}
