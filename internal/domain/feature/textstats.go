package feature

import (
	"strings"
	"unicode"

	"github.com/mindora/acumen/internal/domain/nlp"
)

// Tokenization for the statistics below:
// words = whitespace-separated fields, tokens = nlp.Tokenize word tokens,
// sentences = non-empty runs split on terminal punctuation (. ! ?),
// paragraphs = non-empty blocks split on blank lines. All counts derive from
// these four views so every feature is independently reproducible.

// textStats bundles the deterministic surface counts of one text.
type textStats struct {
	words     []string
	tokens    []string
	sentences []string

	charCount        int
	paragraphCount   int
	syllableCount    int
	polysyllables    int
	difficultWords   int
	punctuationCount int
	uppercaseCount   int
	digitCount       int
	longWords        int
	maxWordLen       int
	capitalizedWords int
	alphaTokens      int
	stopTokens       int
	uniqueAlphaWords int
}

const longWordLength = 7 // characters; words at or above count as long

func analyze(text string) textStats {
	st := textStats{
		words:     strings.Fields(text),
		tokens:    nlp.Tokenize(text),
		sentences: splitSentences(text),
	}

	st.charCount = len([]rune(text))
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			st.paragraphCount++
		}
	}

	for _, r := range text {
		switch {
		case strings.ContainsRune(".,;:!?", r):
			st.punctuationCount++
		case unicode.IsUpper(r):
			st.uppercaseCount++
		case unicode.IsDigit(r):
			st.digitCount++
		}
	}

	for _, w := range st.words {
		rl := len([]rune(w))
		if rl >= longWordLength {
			st.longWords++
		}
		if rl > st.maxWordLen {
			st.maxWordLen = rl
		}
		if r := []rune(w)[0]; unicode.IsUpper(r) {
			st.capitalizedWords++
		}
	}

	unique := make(map[string]struct{})
	for _, tok := range st.tokens {
		lower := strings.ToLower(tok)
		syl := syllables(lower)
		st.syllableCount += syl

		_, stop := nlp.Stopwords[lower]
		if stop {
			st.stopTokens++
		}
		if syl >= 3 {
			st.polysyllables++
			if !stop {
				st.difficultWords++
			}
		}
		if isAlpha(tok) {
			st.alphaTokens++
			unique[lower] = struct{}{}
		}
	}
	st.uniqueAlphaWords = len(unique)

	return st
}

// splitSentences cuts text on terminal punctuation runs, dropping empties.
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

// syllables estimates the syllable count of a lowercased word with the
// vowel-group heuristic: each maximal run of [aeiouy] counts once, a silent
// trailing "e" (not "le") is dropped, and every word has at least one.
func syllables(lower string) int {
	count := 0
	prevVowel := false
	for _, r := range lower {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if count > 1 && strings.HasSuffix(lower, "e") && !strings.HasSuffix(lower, "le") {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Readability formulas, computed from the counts above. Zero-denominator
// inputs yield zero rather than NaN so empty text stays a valid vector.

func (st textStats) wordsPerSentence() float64 {
	if len(st.sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range st.sentences {
		total += len(strings.Fields(s))
	}
	return float64(total) / float64(len(st.sentences))
}

func (st textStats) syllablesPerWord() float64 {
	if len(st.tokens) == 0 {
		return 0
	}
	return float64(st.syllableCount) / float64(len(st.tokens))
}

func (st textStats) avgWordLength() float64 {
	if len(st.words) == 0 {
		return 0
	}
	total := 0
	for _, w := range st.words {
		total += len([]rune(w))
	}
	return float64(total) / float64(len(st.words))
}

func (st textStats) fleschReadingEase() float64 {
	if len(st.words) == 0 || len(st.sentences) == 0 {
		return 0
	}
	return 206.835 - 1.015*st.wordsPerSentence() - 84.6*st.syllablesPerWord()
}

func (st textStats) fleschKincaidGrade() float64 {
	if len(st.words) == 0 || len(st.sentences) == 0 {
		return 0
	}
	return 0.39*st.wordsPerSentence() + 11.8*st.syllablesPerWord() - 15.59
}

func (st textStats) gunningFog() float64 {
	if len(st.tokens) == 0 || len(st.sentences) == 0 {
		return 0
	}
	complexRatio := float64(st.polysyllables) / float64(len(st.tokens))
	return 0.4 * (st.wordsPerSentence() + 100*complexRatio)
}

func (st textStats) automatedReadabilityIndex() float64 {
	if len(st.words) == 0 || len(st.sentences) == 0 {
		return 0
	}
	letters := 0
	for _, w := range st.words {
		letters += len([]rune(w))
	}
	charsPerWord := float64(letters) / float64(len(st.words))
	return 4.71*charsPerWord + 0.5*st.wordsPerSentence() - 21.43
}

// jaccard computes the overlap of two lowercased whitespace token sets.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}
