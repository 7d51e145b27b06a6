// Package nlp defines the pluggable linguistic capabilities consumed by
// feature extraction: part-of-speech annotation and sentiment scoring.
// Both are injected interfaces so callers can swap in a real annotator or a
// deterministic stub; the package ships dependency-free heuristic defaults.
package nlp

import (
	"context"
	"strings"
	"unicode"
)

// Tag is a coarse part-of-speech category.
type Tag string

// Part-of-speech categories tracked by the feature schema.
const (
	TagNoun      Tag = "noun"
	TagVerb      Tag = "verb"
	TagAdjective Tag = "adjective"
	TagAdverb    Tag = "adverb"
	TagPronoun   Tag = "pronoun"
	TagOther     Tag = "other"
)

// Annotation describes one token of annotated text.
type Annotation struct {
	Token  string
	Tag    Tag
	Entity bool
}

// Tagger annotates text with per-token part-of-speech and named-entity flags.
type Tagger interface {
	Annotate(ctx context.Context, text string) ([]Annotation, error)
}

// Sentiment is a positivity/negativity/neutrality split plus an overall
// polarity. Positive, Negative and Neutral are proportions in [0,1] summing
// to 1 for non-empty text; Compound is a signed polarity in [-1,1].
type Sentiment struct {
	Positive float64
	Negative float64
	Neutral  float64
	Compound float64
}

// Sentimenter scores the sentiment of a text.
type Sentimenter interface {
	Score(ctx context.Context, text string) (Sentiment, error)
}

// Tokenize splits text into word tokens on non-letter/digit boundaries,
// keeping in-word apostrophes. Shared by the default capabilities so their
// token counts line up.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
