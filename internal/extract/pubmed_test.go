package extract

import (
	"strings"
	"testing"
)

const samplePubMedText = `1. Appl Environ Microbiol. 2020 Aug 18;86(17):e01390-20. doi: 10.1128/AEM.01390-20.

Dissimilatory iron reduction by Geobacter sulfurreducens in acidic mine
drainage sediments.

Garcia MB(1), Chen L(2), Wakelin SA(1)(3).

Author information:
(1)Department of Microbiology, Example University.
(2)Institute for Mine Water Research.
(3)Soil Biology Group.

Acid mine drainage sediments host diverse iron-cycling communities. Geobacter
sulfurreducens reduced 87% of available ferric iron within 14 days at pH 4.5.

Community profiling demonstrated that sulfate reducers were enriched in deeper
sediment layers.

Copyright © 2020 American Society for Microbiology.

DOI: 10.1128/AEM.01390-20
PMCID: PMC7440796
PMID: 32753581 [Indexed for MEDLINE]`

func TestParsePubMedText(t *testing.T) {
	doc := ParsePubMedText(samplePubMedText)

	if doc.Journal != "Appl Environ Microbiol" {
		t.Errorf("Journal = %q", doc.Journal)
	}
	if doc.Year != 2020 {
		t.Errorf("Year = %d, want 2020", doc.Year)
	}
	if want := "Dissimilatory iron reduction by Geobacter sulfurreducens in acidic mine drainage sediments"; doc.Title != want {
		t.Errorf("Title = %q, want %q", doc.Title, want)
	}
	if len(doc.Authors) != 3 {
		t.Fatalf("Authors = %v, want 3 entries", doc.Authors)
	}
	if doc.Authors[0] != "Garcia MB" || doc.Authors[2] != "Wakelin SA" {
		t.Errorf("Authors = %v", doc.Authors)
	}

	if !strings.Contains(doc.Abstract, "reduced 87% of available ferric iron") {
		t.Errorf("Abstract missing first paragraph: %q", doc.Abstract)
	}
	if !strings.Contains(doc.Abstract, "sulfate reducers were enriched") {
		t.Errorf("Abstract missing second paragraph: %q", doc.Abstract)
	}
	if strings.Contains(doc.Abstract, "Copyright") {
		t.Errorf("Abstract contains copyright trailer: %q", doc.Abstract)
	}
	if strings.Contains(doc.Abstract, "Department of Microbiology") {
		t.Errorf("Abstract contains affiliation block: %q", doc.Abstract)
	}
	if strings.Contains(doc.Abstract, "PMID") {
		t.Errorf("Abstract contains id trailer: %q", doc.Abstract)
	}
}

func TestParsePubMedTextEmpty(t *testing.T) {
	doc := ParsePubMedText("")
	if doc.Abstract != "" || doc.Title != "" {
		t.Errorf("empty input should produce empty document, got %+v", doc)
	}
}
