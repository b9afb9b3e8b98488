package snippet

import (
	"regexp"
	"sort"
	"strings"

	"github.com/culturebot/litcheck/internal/paper"
)

// Query carries the context that biases suggestion scoring: the topic
// string (typically an organism binomial) and derived context keywords.
// Scoring context never influences validation.
type Query struct {
	Topic    string
	Keywords []string
}

// Feature scores one aspect of a candidate sentence. Features are
// additive; swapping the feature set swaps the relevance model without
// touching cascade or cache logic.
type Feature func(s Sentence, lower string, q Query) float64

// Scorer ranks candidate sentences with a configurable feature set.
type Scorer struct {
	Features []Feature
}

// NewScorer returns a Scorer with the default feature set.
func NewScorer() *Scorer {
	return &Scorer{Features: DefaultFeatures()}
}

// Heuristic weights carried over from the previous curation tooling.
// Tunable constants, preserved as the current behavioral contract.
const (
	topicFullWeight      = 5.0
	topicGenusWeight     = 2.0
	topicSpeciesWeight   = 1.0
	keywordWeight        = 1.0
	numericWeight        = 0.5
	interiorWeight       = 0.3
	resultVerbWeight     = 0.5
	metaCommentaryWeight = -1.0
)

var (
	percentPattern       = regexp.MustCompile(`\d+\.?\d*\s*%`)
	concentrationPattern = regexp.MustCompile(`\d+\.?\d*\s*(mM|µM|uM|mg/L|g/L|pH)`)
)

// resultVerbs mark sentences reporting findings rather than framing.
var resultVerbs = []string{
	"showed", "demonstrated", "observed", "found", "indicated",
	"revealed", "exhibited", "contained", "produced", "reduced",
	"oxidized", "catalyzed", "dominated", "enriched",
}

// metaCommentaryTerms mark generic framing sentences.
var metaCommentaryTerms = []string{
	"paper", "study", "review", "article", "here we", "in this",
}

// DefaultFeatures returns the standard relevance feature set.
func DefaultFeatures() []Feature {
	return []Feature{
		topicMatch,
		keywordMatch,
		numericData,
		interiorPosition,
		resultVerb,
		metaCommentary,
	}
}

// topicMatch scores the full topic string, falling back to genus and
// species-epithet partial matches for binomial topics.
func topicMatch(s Sentence, lower string, q Query) float64 {
	topic := strings.ToLower(strings.TrimSpace(q.Topic))
	if topic == "" {
		return 0
	}
	if strings.Contains(lower, topic) {
		return topicFullWeight
	}
	var score float64
	parts := strings.Fields(topic)
	if len(parts) > 0 && strings.Contains(lower, parts[0]) {
		score += topicGenusWeight
	}
	if len(parts) > 1 && strings.Contains(lower, parts[1]) {
		score += topicSpeciesWeight
	}
	return score
}

func keywordMatch(s Sentence, lower string, q Query) float64 {
	var score float64
	for _, kw := range q.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			score += keywordWeight
		}
	}
	return score
}

// numericData favors sentences carrying measurements: percentages and
// concentration/pH-style expressions score independently.
func numericData(s Sentence, lower string, q Query) float64 {
	var score float64
	if percentPattern.MatchString(s.Text) {
		score += numericWeight
	}
	if concentrationPattern.MatchString(s.Text) {
		score += numericWeight
	}
	return score
}

// interiorPosition favors sentences that are neither the first (title-like)
// nor the last (generic) in the document.
func interiorPosition(s Sentence, lower string, q Query) float64 {
	if s.Index > 0 && s.Index < s.Total-1 {
		return interiorWeight
	}
	return 0
}

func resultVerb(s Sentence, lower string, q Query) float64 {
	for _, verb := range resultVerbs {
		if strings.Contains(lower, verb) {
			return resultVerbWeight
		}
	}
	return 0
}

func metaCommentary(s Sentence, lower string, q Query) float64 {
	for _, term := range metaCommentaryTerms {
		if strings.Contains(lower, term) {
			return metaCommentaryWeight
		}
	}
	return 0
}

// MaxSuggestions bounds how many ranked candidates Suggest returns.
const MaxSuggestions = 3

// Suggest segments the source, filters candidates, scores them with the
// scorer's feature set, and returns the top candidates ranked by
// descending score. The current (invalid) snippet is never proposed as
// its own replacement. An empty result is a normal outcome, not an error.
func (sc *Scorer) Suggest(source string, q Query, current string) []paper.Suggestion {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	currentNorm := Normalize(current)

	var scored []paper.Suggestion
	for _, s := range Segment(strings.Join(strings.Fields(source), " ")) {
		if !usable(s) {
			continue
		}
		if currentNorm != "" && Normalize(s.Text) == currentNorm {
			continue
		}
		lower := strings.ToLower(s.Text)
		var score float64
		for _, f := range sc.Features {
			score += f(s, lower, q)
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, paper.Suggestion{
			Text:       s.Text,
			Span:       [2]int{s.Start, s.End},
			Score:      score,
			Confidence: paper.TierForScore(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > MaxSuggestions {
		scored = scored[:MaxSuggestions]
	}
	return scored
}
