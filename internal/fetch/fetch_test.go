package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

func testClient() *Client {
	return NewClient(WithTimeout(5 * time.Second))
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusForbidden, ErrBlocked},
		{http.StatusInternalServerError, ErrInvalidResponse},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := testClient().Get(context.Background(), srv.URL)
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestClientSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := testClient().Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != DefaultUserAgent {
		t.Errorf("User-Agent = %q", got)
	}
}

const publisherPage = `<html><head>
<meta name="citation_title" content="Dissimilatory iron reduction in sediments">
<meta name="citation_abstract" content="Geobacter sulfurreducens reduced 87% of available ferric iron.">
<meta name="citation_author" content="Garcia MB">
<meta name="citation_journal_title" content="Appl Environ Microbiol">
<meta name="citation_publication_date" content="2020/08/18">
</head><body>article</body></html>`

func TestPublisherTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, publisherPage)
	}))
	defer srv.Close()

	tier := NewPublisherTier(testClient())
	tier.Templates = map[string]string{"10.1128": srv.URL + "/doi/%s"}

	ref := refid.MustParse("doi:10.1128/AEM.01390-20")
	rec, err := tier.Fetch(context.Background(), ref, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Title != "Dissimilatory iron reduction in sediments" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Abstract == "" || rec.Year != 2020 || rec.Journal != "Appl Environ Microbiol" {
		t.Errorf("record = %+v", rec)
	}
}

func TestPublisherTierSkipsUnknownPrefix(t *testing.T) {
	tier := NewPublisherTier(testClient())
	ref := refid.MustParse("doi:10.9999/unknown.123")
	if _, err := tier.Fetch(context.Background(), ref, false); !errors.Is(err, ErrTierUnavailable) {
		t.Errorf("err = %v, want ErrTierUnavailable", err)
	}
	if _, err := tier.Fetch(context.Background(), refid.MustParse("PMID:123"), false); !errors.Is(err, ErrTierUnavailable) {
		t.Errorf("non-DOI err = %v, want ErrTierUnavailable", err)
	}
}

const efetchText = `1. Appl Environ Microbiol. 2020 Aug 18;86(17):e01390-20. doi: 10.1128/AEM.01390-20.

Dissimilatory iron reduction by Geobacter sulfurreducens in acidic mine
drainage sediments.

Garcia MB(1), Chen L(2).

Author information:
(1)Department of Microbiology, Example University.
(2)Institute for Mine Water Research.

Geobacter sulfurreducens reduced 87% of available ferric iron within 14 days.

DOI: 10.1128/AEM.01390-20
PMID: 32753581 [Indexed for MEDLINE]`

func TestPMCTierPubMed(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, efetchText)
	}))
	defer srv.Close()

	client := NewClient(WithTimeout(5*time.Second), WithNCBIAPIKey("key123"))
	tier := NewPMCTier(client)
	tier.EutilsBase = srv.URL

	rec, err := tier.Fetch(context.Background(), refid.MustParse("PMID:32753581"), false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/efetch.fcgi" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "id=32753581") || !strings.Contains(gotQuery, "api_key=key123") {
		t.Errorf("query = %q", gotQuery)
	}
	if rec.Journal != "Appl Environ Microbiol" || rec.Year != 2020 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Abstract == "" {
		t.Error("abstract empty")
	}
}

func TestPMCTierEuropePMC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<article><title>Iron reduction</title><p>Geobacter sulfurreducens reduced ferric iron in 2020 experiments.</p></article>`)
	}))
	defer srv.Close()

	tier := NewPMCTier(testClient())
	tier.EuropePMCBase = srv.URL

	rec, err := tier.Fetch(context.Background(), refid.MustParse("PMC7440796"), true)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.FullText == "" || !strings.Contains(rec.FullText, "Geobacter sulfurreducens") {
		t.Errorf("FullText = %q", rec.FullText)
	}
	if !rec.HasUsableContent(true) {
		t.Error("full-text record not usable for full-text request")
	}
}

func TestUnpaywallTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Iron reduction","year":2020,"journal_name":"AEM",
			"z_authors":[{"given":"Maria","family":"Garcia"}],
			"best_oa_location":{"url_for_pdf":""}}`)
	}))
	defer srv.Close()

	client := NewClient(WithTimeout(5*time.Second), WithContactEmail("curator@example.org"))
	tier := NewUnpaywallTier(client)
	tier.Base = srv.URL

	rec, err := tier.Fetch(context.Background(), refid.MustParse("doi:10.1016/j.watres.2020.115001"), false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Title != "Iron reduction" || rec.Year != 2020 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "Maria Garcia" {
		t.Errorf("Authors = %v", rec.Authors)
	}
}

func TestUnpaywallTierNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":true}`)
	}))
	defer srv.Close()

	tier := NewUnpaywallTier(testClient())
	tier.Base = srv.URL
	if _, err := tier.Fetch(context.Background(), refid.MustParse("doi:10.1/x"), false); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestS2Tier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Iron reduction","abstract":"Geobacter reduced iron.","year":2020,
			"venue":"AEM","authors":[{"name":"M. Garcia"},{"name":"L. Chen"}]}`)
	}))
	defer srv.Close()

	tier := NewS2Tier(testClient())
	tier.Base = srv.URL

	rec, err := tier.Fetch(context.Background(), refid.MustParse("PMID:32753581"), false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Abstract != "Geobacter reduced iron." || len(rec.Authors) != 2 {
		t.Errorf("record = %+v", rec)
	}
}

func TestMirrorTierRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/paper.pdf" {
			fmt.Fprint(w, "<html>not a pdf</html>")
			return
		}
		fmt.Fprintf(w, `<html><body><iframe src="/paper.pdf"></iframe></body></html>`)
	}))
	defer srv.Close()

	tier := NewMirrorTier(testClient(), []string{srv.URL})
	if _, err := tier.Fetch(context.Background(), refid.MustParse("doi:10.1128/AEM.01390-20"), true); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestMirrorTierUnavailableWithoutDOI(t *testing.T) {
	tier := NewMirrorTier(testClient(), []string{"mirror.example.se"})
	if _, err := tier.Fetch(context.Background(), refid.MustParse("PMID:123"), true); !errors.Is(err, ErrTierUnavailable) {
		t.Errorf("err = %v, want ErrTierUnavailable", err)
	}
}

// fakeTier drives cascade tests without network.
type fakeTier struct {
	name string
	rec  *paper.Record
	err  error
}

func (f *fakeTier) Name() string { return f.name }
func (f *fakeTier) Fetch(ctx context.Context, ref refid.Reference, wantFullText bool) (*paper.Record, error) {
	return f.rec, f.err
}

func TestResolveFirstUsableTierWins(t *testing.T) {
	r := &Resolver{
		Log: zap.NewNop(),
		Tiers: []Tier{
			&fakeTier{name: "publisher", err: ErrBlocked},
			&fakeTier{name: "pmc", rec: &paper.Record{Abstract: "found it"}},
			&fakeTier{name: "s2", rec: &paper.Record{Abstract: "should not be reached"}},
		},
	}

	ref := refid.MustParse("PMID:123")
	rec := r.Resolve(context.Background(), ref, false)
	if rec.Failed() {
		t.Fatal("resolution failed")
	}
	if rec.ResolvedTier != "pmc" {
		t.Errorf("ResolvedTier = %q, want pmc", rec.ResolvedTier)
	}
	if rec.Canonical != ref.Canonical {
		t.Errorf("Canonical = %q", rec.Canonical)
	}
	if rec.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestResolveExhaustionYieldsFailureRecord(t *testing.T) {
	r := &Resolver{
		Log: zap.NewNop(),
		Tiers: []Tier{
			&fakeTier{name: "publisher", err: ErrNotFound},
			&fakeTier{name: "s2", err: ErrNetworkError},
		},
	}

	rec := r.Resolve(context.Background(), refid.MustParse("doi:10.1/gone"), false)
	if rec == nil {
		t.Fatal("Resolve returned nil")
	}
	if !rec.Failed() {
		t.Errorf("expected failure record, got %+v", rec)
	}
	if rec.Canonical != "doi:10.1/gone" {
		t.Errorf("Canonical = %q", rec.Canonical)
	}
}

func TestResolvePartialMetadataWhenFullTextMissing(t *testing.T) {
	r := &Resolver{
		Log: zap.NewNop(),
		Tiers: []Tier{
			&fakeTier{name: "unpaywall", rec: &paper.Record{Title: "t", Abstract: "metadata only"}},
			&fakeTier{name: "mirror", err: ErrNetworkError},
		},
	}

	rec := r.Resolve(context.Background(), refid.MustParse("doi:10.1/partial"), true)
	if rec.Failed() {
		t.Fatal("partial metadata lost")
	}
	if rec.FullText != "" {
		t.Errorf("unexpected full text %q", rec.FullText)
	}
	if rec.ResolvedTier != "unpaywall" {
		t.Errorf("ResolvedTier = %q", rec.ResolvedTier)
	}
}

func TestResolveSkipsUnavailableTiersSilently(t *testing.T) {
	r := &Resolver{
		Log: zap.NewNop(),
		Tiers: []Tier{
			&fakeTier{name: "publisher", err: ErrTierUnavailable},
			&fakeTier{name: "pmc", rec: &paper.Record{Abstract: "ok"}},
		},
	}
	rec := r.Resolve(context.Background(), refid.MustParse("PMID:5"), false)
	if rec.ResolvedTier != "pmc" {
		t.Errorf("ResolvedTier = %q", rec.ResolvedTier)
	}
}
