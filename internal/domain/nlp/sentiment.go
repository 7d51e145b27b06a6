package nlp

import (
	"context"
	"math"
	"strings"
)

// compoundAlpha is the normalization constant mapping summed valences into
// [-1,1], matching the usual VADER transform s / sqrt(s^2 + alpha).
const compoundAlpha = 15.0

// LexiconScorer implements Sentimenter against the embedded polarity lexicon.
// Unit valences per hit, with single-token negation flipping the sign of the
// following word.
type LexiconScorer struct{}

// NewLexiconScorer creates the default sentiment scorer.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// Score computes a positivity/negativity/neutrality split and a signed
// compound polarity for text. Empty text scores fully neutral.
func (s *LexiconScorer) Score(_ context.Context, text string) (Sentiment, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Sentiment{Neutral: 1}, nil
	}

	var posHits, negHits int
	var valence float64
	negated := false
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if _, ok := negations[lower]; ok {
			negated = true
			continue
		}

		v := 0.0
		if _, ok := positiveWords[lower]; ok {
			v = 1
		} else if _, ok := negativeWords[lower]; ok {
			v = -1
		}
		if negated {
			v = -v
			negated = false
		}

		switch {
		case v > 0:
			posHits++
		case v < 0:
			negHits++
		}
		valence += v
	}

	total := float64(len(tokens))
	pos := float64(posHits) / total
	neg := float64(negHits) / total

	return Sentiment{
		Positive: pos,
		Negative: neg,
		Neutral:  1 - pos - neg,
		Compound: valence / math.Sqrt(valence*valence+compoundAlpha),
	}, nil
}
