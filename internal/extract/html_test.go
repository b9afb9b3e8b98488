package extract

import (
	"errors"
	"testing"
)

func TestExtractDocPointerPatterns(t *testing.T) {
	const base = "https://mirror.example.se"

	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "object data attribute",
			page: `<html><body>
				<object id="pdf" data="https://twin.mirror.example.se/12345/article.pdf"
					type="application/pdf" width="100%" height="100%"></object>
				</body></html>`,
			want: "https://twin.mirror.example.se/12345/article.pdf",
		},
		{
			name: "anchor href protocol-relative",
			page: `<html><body>
				<a href="//mirror.example.se/downloads/2023-01-15/abc/article.pdf">Download PDF</a>
				</body></html>`,
			want: "https://mirror.example.se/downloads/2023-01-15/abc/article.pdf",
		},
		{
			name: "embed src root-relative",
			page: `<html><body>
				<embed src="/downloads/article.pdf" type="application/pdf">
				</body></html>`,
			want: "https://mirror.example.se/downloads/article.pdf",
		},
		{
			name: "iframe src absolute",
			page: `<html><body>
				<iframe src="https://mirror.example.st/pdf/article.pdf"></iframe>
				</body></html>`,
			want: "https://mirror.example.st/pdf/article.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDocPointer(tt.page, base)
			if err != nil {
				t.Fatalf("ExtractDocPointer() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractDocPointer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDocPointerNoneFound(t *testing.T) {
	page := `<html><body>
		<a href="/about">About</a>
		<a href="/faq.html">FAQ</a>
		<p>Nothing embedded here.</p>
		</body></html>`

	_, err := ExtractDocPointer(page, "https://mirror.example.se")
	if !errors.Is(err, ErrNoDocumentPointer) {
		t.Fatalf("error = %v, want ErrNoDocumentPointer", err)
	}
}

func TestExtractDocPointerIgnoresNavigationAnchors(t *testing.T) {
	// An anchor that is not a .pdf must not win over a later iframe.
	page := `<html><body>
		<a href="/signup">Sign up</a>
		<iframe src="/fulltext/article.pdf"></iframe>
		</body></html>`

	got, err := ExtractDocPointer(page, "https://mirror.example.se")
	if err != nil {
		t.Fatalf("ExtractDocPointer() error = %v", err)
	}
	if want := "https://mirror.example.se/fulltext/article.pdf"; got != want {
		t.Errorf("ExtractDocPointer() = %q, want %q", got, want)
	}
}

func TestParseHTMLMeta(t *testing.T) {
	page := `<html><head>
		<title>Fallback Page Title</title>
		<meta name="citation_title" content="Iron oxidation in acidic biofilms">
		<meta name="citation_author" content="Garcia, M">
		<meta name="citation_author" content="Chen, L">
		<meta name="citation_journal_title" content="Appl Environ Microbiol">
		<meta name="citation_publication_date" content="2020/08/18">
		<meta name="citation_abstract" content="<p>We observed that iron oxidation proceeds rapidly.</p>">
		</head><body></body></html>`

	meta := ParseHTMLMeta(page)

	if meta.Title != "Iron oxidation in acidic biofilms" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Abstract != "We observed that iron oxidation proceeds rapidly." {
		t.Errorf("Abstract = %q", meta.Abstract)
	}
	if len(meta.Authors) != 2 || meta.Authors[0] != "Garcia, M" {
		t.Errorf("Authors = %v", meta.Authors)
	}
	if meta.Year != 2020 {
		t.Errorf("Year = %d, want 2020", meta.Year)
	}
	if meta.Journal != "Appl Environ Microbiol" {
		t.Errorf("Journal = %q", meta.Journal)
	}
}

func TestParseHTMLMetaFallbacks(t *testing.T) {
	page := `<html><head>
		<title>Only a page title</title>
		<meta property="og:description" content="An og description abstract.">
		</head><body></body></html>`

	meta := ParseHTMLMeta(page)
	if meta.Title != "Only a page title" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Abstract != "An og description abstract." {
		t.Errorf("Abstract = %q", meta.Abstract)
	}
}
