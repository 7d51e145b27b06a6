package nlp

import (
	"context"
	"strings"
	"unicode"
)

// HeuristicTagger implements Tagger with lexicon lookups plus suffix rules.
// It is intentionally crude: the feature schema only consumes coarse category
// counts, and determinism matters more than per-token accuracy here. Swap in
// a real annotator through the Tagger interface when one is available.
type HeuristicTagger struct{}

// NewHeuristicTagger creates the default part-of-speech tagger.
func NewHeuristicTagger() *HeuristicTagger {
	return &HeuristicTagger{}
}

// Annotate tags each token of text. It never fails; the error return exists
// for the Tagger contract so external annotators can surface outages.
func (t *HeuristicTagger) Annotate(_ context.Context, text string) ([]Annotation, error) {
	var anns []Annotation
	for _, sentence := range splitSentences(text) {
		for i, tok := range Tokenize(sentence) {
			lower := strings.ToLower(tok)
			anns = append(anns, Annotation{
				Token:  tok,
				Tag:    classify(lower),
				Entity: isEntity(tok, lower, i == 0),
			})
		}
	}
	return anns, nil
}

// splitSentences cuts text on runs of terminal punctuation.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// classify picks a coarse category for a lowercased token.
func classify(lower string) Tag {
	if _, ok := pronouns[lower]; ok {
		return TagPronoun
	}
	if _, ok := commonVerbs[lower]; ok {
		return TagVerb
	}
	if _, ok := commonAdjectives[lower]; ok {
		return TagAdjective
	}

	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 3:
		return TagAdverb
	case hasAnySuffix(lower, "ing", "ize", "ise", "ify") && len(lower) > 4:
		return TagVerb
	case hasAnySuffix(lower, "ous", "ful", "ive", "able", "ible", "ical", "less", "ish") && len(lower) > 4:
		return TagAdjective
	case hasAnySuffix(lower, "tion", "sion", "ment", "ness", "ity", "ance", "ence", "ism", "ist", "er", "or") && len(lower) > 3:
		return TagNoun
	case len(lower) > 2 && unicode.IsLetter(rune(lower[0])):
		// Bare alphabetic tokens default to noun, matching how coarse
		// content-word counts are consumed downstream.
		return TagNoun
	default:
		return TagOther
	}
}

// isEntity flags capitalized tokens that are not sentence-initial and not
// stopwords as named-entity mentions.
func isEntity(tok, lower string, sentenceStart bool) bool {
	if sentenceStart || len(tok) < 2 {
		return false
	}
	first := []rune(tok)[0]
	if !unicode.IsUpper(first) {
		return false
	}
	_, stop := Stopwords[lower]
	return !stop
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
