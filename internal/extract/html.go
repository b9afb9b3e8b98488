package extract

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// HTMLMeta holds document metadata harvested from a publisher or mirror
// page's head section.
type HTMLMeta struct {
	Title    string
	Abstract string
	Authors  []string
	Year     int
	Journal  string
}

// ParseHTMLMeta extracts citation metadata from Highwire/Dublin Core meta
// tags, falling back to og:description for the abstract and <title> for
// the title.
func ParseHTMLMeta(page string) HTMLMeta {
	var meta HTMLMeta
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return meta
	}

	var ogDescription, docTitle string
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "title":
			if n.FirstChild != nil && docTitle == "" {
				docTitle = NormalizeWhitespace(n.FirstChild.Data)
			}
		case "meta":
			name := strings.ToLower(attr(n, "name"))
			if name == "" {
				name = strings.ToLower(attr(n, "property"))
			}
			content := strings.TrimSpace(attr(n, "content"))
			if content == "" {
				return
			}
			switch name {
			case "citation_title", "dc.title":
				if meta.Title == "" {
					meta.Title = content
				}
			case "citation_abstract", "dc.description", "description":
				if meta.Abstract == "" {
					meta.Abstract = StripMarkup(content)
				}
			case "og:description":
				ogDescription = StripMarkup(content)
			case "citation_author", "dc.creator":
				meta.Authors = append(meta.Authors, content)
			case "citation_journal_title":
				if meta.Journal == "" {
					meta.Journal = content
				}
			case "citation_publication_date", "citation_date", "dc.date":
				if meta.Year == 0 {
					meta.Year = FirstYear(content)
				}
			}
		}
	})

	if meta.Abstract == "" {
		meta.Abstract = ogDescription
	}
	if meta.Title == "" {
		meta.Title = docTitle
	}
	return meta
}

// ExtractDocPointer finds the embedded document location in a mirror page.
// Four embedding patterns are recognized: an <object> element's data
// attribute, an anchor's href, an <embed>'s src, and an <iframe>'s src.
// Each candidate is resolved against the page base URL, so
// protocol-relative ("//host/path") and root-relative ("/path") pointers
// come back absolute. Returns ErrNoDocumentPointer when no pattern matches.
func ExtractDocPointer(page, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}

	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing mirror page: %w", err)
	}

	var found string
	walk(root, func(n *html.Node) {
		if found != "" || n.Type != html.ElementNode {
			return
		}
		var candidate string
		switch n.Data {
		case "object":
			candidate = attr(n, "data")
		case "a":
			href := attr(n, "href")
			if looksLikeDocument(href) {
				candidate = href
			}
		case "embed":
			candidate = attr(n, "src")
		case "iframe":
			candidate = attr(n, "src")
		}
		if candidate == "" {
			return
		}
		resolved, err := base.Parse(strings.TrimSpace(candidate))
		if err != nil {
			return
		}
		found = resolved.String()
	})

	if found == "" {
		return "", ErrNoDocumentPointer
	}
	return found, nil
}

// looksLikeDocument reports whether an anchor target plausibly points at a
// document rather than site navigation. Anchors are the noisiest of the
// four patterns, so only .pdf targets are trusted.
func looksLikeDocument(href string) bool {
	href = strings.ToLower(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return strings.HasSuffix(href, ".pdf")
}

// walk applies fn to every node in depth-first document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
