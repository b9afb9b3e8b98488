// Package refid normalizes bibliographic citation strings into canonical
// reference identities.
package refid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a reference identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindPMID
	KindDOI
	KindPMCID
	KindBioProject
)

func (k Kind) String() string {
	switch k {
	case KindPMID:
		return "pmid"
	case KindDOI:
		return "doi"
	case KindPMCID:
		return "pmcid"
	case KindBioProject:
		return "bioproject"
	default:
		return "unknown"
	}
}

// ErrInvalidReferenceFormat indicates a citation string whose shape is not
// recognized. Recognized-but-malformed variants are auto-corrected and do
// not produce this error.
var ErrInvalidReferenceFormat = errors.New("invalid reference format")

// Reference is a normalized citation identity. Immutable once constructed.
type Reference struct {
	Raw       string
	Kind      Kind
	Canonical string
}

var (
	pmidPattern       = regexp.MustCompile(`^(?i:pmid):\s*(\d+)$`)
	bareDigitsPattern = regexp.MustCompile(`^\d+$`)
	pmcPattern        = regexp.MustCompile(`^(?:(?i:pmid):)?(PMC\d+)$`)
	doiPattern        = regexp.MustCompile(`^10\.\d+/\S+$`)
	doiPrefixPattern  = regexp.MustCompile(`^(?i:doi):\s*(10\.\d+/\S+)$`)
	bioprojectPattern = regexp.MustCompile(`^(?:(?i:bioproject):\s*)?(PRJ(?:NA|EB|DB)\d+)$`)
)

// Parse classifies a citation string and returns its canonical Reference.
// Canonical forms follow the knowledge-base schema: "PMID:123",
// "doi:10.x/y", "PMID:PMC123", "bioproject:PRJNA123". Parsing is pure and
// idempotent: parsing an already-canonical string returns it unchanged.
func Parse(raw string) (Reference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrInvalidReferenceFormat)
	}

	// PMC ids before plain PMIDs: "PMID:PMC123" must keep its PMC identity.
	if m := pmcPattern.FindStringSubmatch(trimmed); m != nil {
		return Reference{Raw: raw, Kind: KindPMCID, Canonical: "PMID:" + m[1]}, nil
	}

	if m := pmidPattern.FindStringSubmatch(trimmed); m != nil {
		return Reference{Raw: raw, Kind: KindPMID, Canonical: "PMID:" + m[1]}, nil
	}
	if bareDigitsPattern.MatchString(trimmed) {
		return Reference{Raw: raw, Kind: KindPMID, Canonical: "PMID:" + trimmed}, nil
	}

	if doi, ok := extractDOI(trimmed); ok {
		return Reference{Raw: raw, Kind: KindDOI, Canonical: "doi:" + doi}, nil
	}

	if m := bioprojectPattern.FindStringSubmatch(trimmed); m != nil {
		return Reference{Raw: raw, Kind: KindBioProject, Canonical: "bioproject:" + m[1]}, nil
	}

	return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReferenceFormat, raw)
}

// MustParse is a test helper that panics on an unparseable reference.
func MustParse(raw string) Reference {
	ref, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ref
}

// extractDOI pulls a DOI out of the accepted DOI spellings: "doi:10.x/y"
// (any case), a doi.org URL, or a bare "10.x/y" string.
func extractDOI(s string) (string, bool) {
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	if m := doiPrefixPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if doiPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

// PMID returns the numeric PubMed id for a PMID-kind reference, or "" for
// other kinds.
func (r Reference) PMID() string {
	if r.Kind != KindPMID {
		return ""
	}
	return strings.TrimPrefix(r.Canonical, "PMID:")
}

// DOI returns the bare DOI for a DOI-kind reference, or "".
func (r Reference) DOI() string {
	if r.Kind != KindDOI {
		return ""
	}
	return strings.TrimPrefix(r.Canonical, "doi:")
}

// PMCID returns the PMC accession (e.g. "PMC123") for a PMC-kind
// reference, or "".
func (r Reference) PMCID() string {
	if r.Kind != KindPMCID {
		return ""
	}
	return strings.TrimPrefix(r.Canonical, "PMID:")
}

// Corrected reports whether parsing changed the input, i.e. the raw string
// was a recognized-but-malformed variant.
func (r Reference) Corrected() bool {
	return strings.TrimSpace(r.Raw) != r.Canonical
}
