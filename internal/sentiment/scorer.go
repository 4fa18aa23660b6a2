// Package sentiment scores the emotional polarity of call transcripts.
package sentiment

import "strings"

// Scorer returns a polarity score in [-1, 1] for a text. Implementations
// never fail; unintelligible input scores neutral 0.
type Scorer interface {
	Score(text string) float64
}

var _ Scorer = (*LexiconScorer)(nil)

// LexiconScorer is a bag-of-words scorer counting positive and negative
// markers: score = (pos - neg) / (pos + neg) when either occurs, else 0.
type LexiconScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var (
	defaultPositive = []string{"happy", "great", "excellent", "good", "thanks", "helpful"}
	defaultNegative = []string{"bad", "poor", "terrible", "unhappy", "frustrated", "angry"}
)

// NewLexiconScorer creates a scorer with the default marker lists.
func NewLexiconScorer() *LexiconScorer {
	s := &LexiconScorer{
		positive: make(map[string]struct{}, len(defaultPositive)),
		negative: make(map[string]struct{}, len(defaultNegative)),
	}
	for _, w := range defaultPositive {
		s.positive[w] = struct{}{}
	}
	for _, w := range defaultNegative {
		s.negative[w] = struct{}{}
	}
	return s
}

// Score returns the polarity of text in [-1, 1].
func (s *LexiconScorer) Score(text string) float64 {
	var pos, neg int
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:'\"")
		if _, ok := s.positive[w]; ok {
			pos++
		}
		if _, ok := s.negative[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// Label maps a score to positive, neutral or negative.
func Label(score float64) string {
	switch {
	case score >= 0.05:
		return "positive"
	case score <= -0.05:
		return "negative"
	default:
		return "neutral"
	}
}
