package snippet

import (
	"regexp"
	"strings"
)

// roleKeywords maps curated ecological roles to the terms that usually
// surface in the sentences supporting them.
var roleKeywords = map[string][]string{
	"PRIMARY_DEGRADER": {"degrad", "hydroly", "breakdown", "depolymer"},
	"PRODUCER":         {"produc", "synthes", "generat", "yield"},
	"CONSUMER":         {"consum", "utiliz", "uptake", "assimilat"},
	"CROSS_FEEDER":     {"cross-feed", "exchange", "syntroph", "mutualis"},
}

// metabolicTerms are domain terms worth matching regardless of role.
var metabolicTerms = []string{
	"ferment", "metaboli", "substrate", "pathway", "enzyme",
	"anaerob", "aerob", "growth", "culture", "isolat",
}

var wordPattern = regexp.MustCompile(`[a-z]+`)

// stopWords are frequent snippet words that carry no discriminating power.
var stopWords = map[string]bool{
	"about": true, "after": true, "against": true, "among": true,
	"because": true, "before": true, "between": true, "could": true,
	"during": true, "their": true, "there": true, "these": true,
	"those": true, "through": true, "under": true, "which": true,
	"while": true, "within": true, "would": true, "respectively": true,
}

const maxSnippetKeywords = 8

// ContextKeywords derives scoring keywords from the curated context: the
// assigned ecological roles, the general metabolic vocabulary, and the
// first salient words of the snippet under review. Duplicates are removed,
// order is preserved.
func ContextKeywords(roles []string, current string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}

	for _, role := range roles {
		for _, kw := range roleKeywords[strings.ToUpper(strings.TrimSpace(role))] {
			add(kw)
		}
	}
	for _, kw := range metabolicTerms {
		add(kw)
	}

	// Salient snippet words anchor suggestions near the claim being checked.
	taken := 0
	for _, w := range wordPattern.FindAllString(strings.ToLower(current), -1) {
		if taken >= maxSnippetKeywords {
			break
		}
		if len(w) < 5 || stopWords[w] {
			continue
		}
		if !seen[w] {
			add(w)
			taken++
		}
	}
	return out
}
