package snippet

import "testing"

func TestSegmentBasic(t *testing.T) {
	got := Segment("First sentence here. Second one follows! Third ends it?")
	if len(got) != 3 {
		t.Fatalf("Segment returned %d sentences: %v", len(got), got)
	}
	if got[0].Text != "First sentence here." {
		t.Errorf("first = %q", got[0].Text)
	}
	if got[1].Index != 1 || got[1].Total != 3 {
		t.Errorf("second Index/Total = %d/%d", got[1].Index, got[1].Total)
	}
}

func TestSegmentProtectsAbbreviations(t *testing.T) {
	got := Segment("Clostridium sp. strain X degraded cellulose. Growth was reported by Smith et al. in two media.")
	if len(got) != 2 {
		t.Fatalf("abbreviation split the text into %d sentences: %v", len(got), got)
	}
	if got[0].Text != "Clostridium sp. strain X degraded cellulose." {
		t.Errorf("first = %q", got[0].Text)
	}
}

func TestSegmentNoFalseBreakOnLowercase(t *testing.T) {
	got := Segment("The culture grew at 37 deg. overnight before sampling.")
	if len(got) != 1 {
		t.Errorf("lowercase continuation split into %d sentences: %v", len(got), got)
	}
}

func TestUsableFilters(t *testing.T) {
	long := "Geobacter sulfurreducens reduced ferric iron in the enrichment cultures over two weeks."
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain result sentence", long, true},
		{"too short", "Iron was reduced.", false},
		{"author information", "Author information: (1)Department of Microbiology, Example University, Somewhere.", false},
		{"copyright", "Copyright 2020 American Society for Microbiology, all uses require permission.", false},
		{"email address", "Correspondence should be sent to the lead author at lab@example.edu for details.", false},
		{"citation year prefix", "2020 Aug 18;86(17):e01390-20 published online ahead of print in the journal.", false},
		{"et al reference", "These findings extend the earlier model proposed by Lovley et al in prior work.", false},
	}
	for _, tt := range tests {
		s := Sentence{Text: tt.text, Total: 5, Index: 2}
		if got := usable(s); got != tt.want {
			t.Errorf("%s: usable = %v, want %v", tt.name, got, tt.want)
		}
	}
}
