package feature

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mindora/acumen/internal/domain/nlp"
	"github.com/mindora/acumen/pkg/metrics"
)

// Question type labels recognized by the question schema one-hots.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeShortAnswer    = "short_answer"
	TypeEssay          = "essay"
)

var questionWords = []string{"what", "when", "where", "who", "why", "how", "which", "whom", "whose"}

// Input carries one extraction request. Text is the subject of extraction;
// the remaining fields are optional context consumed per mode.
type Input struct {
	Mode Mode
	Text string

	// Question mode context.
	QuestionType string

	// Answer mode context.
	Question  string
	Reference string
	TimeTaken float64
}

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithTagger sets the part-of-speech annotator capability.
func WithTagger(t nlp.Tagger) Option {
	return func(e *Extractor) {
		if t != nil {
			e.tagger = t
		}
	}
}

// WithSentimenter sets the sentiment scorer capability.
func WithSentimenter(s nlp.Sentimenter) Option {
	return func(e *Extractor) {
		if s != nil {
			e.sentimenter = s
		}
	}
}

// WithCacheSize bounds the vector cache. Zero or negative disables caching.
func WithCacheSize(size int) Option {
	return func(e *Extractor) {
		e.cacheSize = size
	}
}

// Extractor computes fixed-schema feature vectors from text. It is stateless
// apart from its read-through vector cache and safe for concurrent use.
type Extractor struct {
	tagger      nlp.Tagger
	sentimenter nlp.Sentimenter
	cacheSize   int
	cache       *vectorCache
}

// New creates an Extractor with the default heuristic capabilities.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		tagger:      nlp.NewHeuristicTagger(),
		sentimenter: nlp.NewLexiconScorer(),
		cacheSize:   10_000,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = newVectorCache(e.cacheSize)
	return e
}

// Extract produces the full feature vector for in. Empty or whitespace-only
// text yields a complete zero-valued vector, never an error; only an unknown
// mode is rejected. Identical inputs always produce identical vectors.
func (e *Extractor) Extract(ctx context.Context, in Input) (Vector, error) {
	names := Names(in.Mode)
	if names == nil {
		return Vector{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}

	key := cacheKey(in)
	if v, ok := e.cache.get(key); ok {
		metrics.RecordVectorCacheHit()
		return v, nil
	}
	metrics.RecordVectorCacheMiss()

	values, err := e.compute(ctx, in, names)
	if err != nil {
		return Vector{}, err
	}

	v := Vector{Mode: in.Mode, SchemaVersion: SchemaVersion(in.Mode), Values: values}
	e.cache.put(key, v)
	metrics.RecordExtraction(string(in.Mode))
	return v, nil
}

// CacheLen reports the number of cached vectors.
func (e *Extractor) CacheLen() int {
	return e.cache.size()
}

// compute fills the feature map and assembles it in schema order, so every
// declared name is present even when a family contributes nothing.
func (e *Extractor) compute(ctx context.Context, in Input, names []string) ([]float64, error) {
	f := make(map[string]float64, len(names))

	st := analyze(in.Text)
	e.surfaceFeatures(f, st)

	if err := e.linguisticFeatures(ctx, in.Text, f); err != nil {
		return nil, err
	}

	switch in.Mode {
	case ModeQuestion:
		questionFeatures(f, in, st)
	case ModeAnswer:
		answerFeatures(f, in, st)
	}

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = f[name]
	}
	return values, nil
}

func (e *Extractor) surfaceFeatures(f map[string]float64, st textStats) {
	f["char_count"] = float64(st.charCount)
	f["word_count"] = float64(len(st.words))
	f["sentence_count"] = float64(len(st.sentences))
	f["paragraph_count"] = float64(st.paragraphCount)
	f["avg_word_length"] = st.avgWordLength()
	f["avg_sentence_length"] = st.wordsPerSentence()
	f["flesch_reading_ease"] = st.fleschReadingEase()
	f["flesch_kincaid_grade"] = st.fleschKincaidGrade()
	f["gunning_fog"] = st.gunningFog()
	f["automated_readability_index"] = st.automatedReadabilityIndex()
	f["syllable_count"] = float64(st.syllableCount)
	f["avg_syllables_per_word"] = st.syllablesPerWord()
	f["polysyllable_count"] = float64(st.polysyllables)
	f["difficult_word_count"] = float64(st.difficultWords)
	f["punctuation_count"] = float64(st.punctuationCount)
	f["digit_count"] = float64(st.digitCount)
	f["long_word_count"] = float64(st.longWords)
	f["max_word_length"] = float64(st.maxWordLen)
	f["capitalized_word_count"] = float64(st.capitalizedWords)
	f["token_count"] = float64(len(st.tokens))

	if st.charCount > 0 {
		f["uppercase_ratio"] = float64(st.uppercaseCount) / float64(st.charCount)
	}
	if len(st.tokens) > 0 {
		f["unique_word_ratio"] = float64(st.uniqueAlphaWords) / float64(len(st.tokens))
		f["stopword_ratio"] = float64(st.stopTokens) / float64(len(st.tokens))
		f["alpha_token_ratio"] = float64(st.alphaTokens) / float64(len(st.tokens))
	}
}

// linguisticFeatures consumes the injected capabilities. Empty text skips
// both calls: the zero defaults already satisfy the schema.
func (e *Extractor) linguisticFeatures(ctx context.Context, text string, f map[string]float64) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	anns, err := e.tagger.Annotate(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: annotate: %w", ErrUpstream, err)
	}
	for _, a := range anns {
		switch a.Tag {
		case nlp.TagNoun:
			f["noun_count"]++
		case nlp.TagVerb:
			f["verb_count"]++
		case nlp.TagAdjective:
			f["adj_count"]++
		case nlp.TagAdverb:
			f["adv_count"]++
		case nlp.TagPronoun:
			f["pronoun_count"]++
		}
		if a.Entity {
			f["entity_count"]++
		}
	}

	sent, err := e.sentimenter.Score(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: sentiment: %w", ErrUpstream, err)
	}
	f["sentiment_positive"] = sent.Positive
	f["sentiment_negative"] = sent.Negative
	f["sentiment_neutral"] = sent.Neutral
	f["sentiment_compound"] = sent.Compound

	return nil
}

func questionFeatures(f map[string]float64, in Input, st textStats) {
	lowerTokens := make(map[string]int)
	for _, tok := range st.tokens {
		lowerTokens[strings.ToLower(tok)]++
	}

	count := 0
	for _, qw := range questionWords {
		count += lowerTokens[qw]
	}
	f["question_word_count"] = float64(count)

	if strings.Contains(in.Text, "?") {
		f["has_question_mark"] = 1
	}
	if len(st.tokens) > 0 {
		first := strings.ToLower(st.tokens[0])
		for _, qw := range questionWords {
			if first == qw {
				f["starts_with_question_word"] = 1
				break
			}
		}
	}
	if st.digitCount > 0 {
		f["has_numerals"] = 1
	}
	if hasBulletList(in.Text) {
		f["has_bullet_list"] = 1
	}

	switch in.QuestionType {
	case TypeMultipleChoice:
		f["is_multiple_choice"] = 1
	case TypeShortAnswer:
		f["is_short_answer"] = 1
	case TypeEssay:
		f["is_essay"] = 1
	}
}

func answerFeatures(f map[string]float64, in Input, st textStats) {
	if in.Reference != "" {
		f["reference_similarity"] = jaccard(in.Text, in.Reference)
		refWords := len(strings.Fields(in.Reference))
		if refWords > 0 {
			f["length_ratio"] = float64(len(st.words)) / float64(refWords)
		}
	}
	if in.Question != "" {
		f["question_overlap"] = jaccard(in.Text, in.Question)
	}

	trimmed := strings.TrimSpace(in.Text)
	if trimmed != "" {
		if r := []rune(trimmed)[0]; unicode.IsUpper(r) {
			f["starts_with_capital"] = 1
		}
		if strings.HasSuffix(trimmed, ".") {
			f["ends_with_period"] = 1
		}
	}
	if st.digitCount > 0 {
		f["contains_numbers"] = 1
	}
	if in.TimeTaken > 0 {
		f["time_taken"] = in.TimeTaken
	}
}

// hasBulletList reports whether any line opens with a list marker.
func hasBulletList(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") || strings.HasPrefix(t, "• ") {
			return true
		}
		// Numbered markers: "1." or "1)".
		if i := strings.IndexAny(t, ".)"); i > 0 {
			if _, err := strconv.Atoi(t[:i]); err == nil {
				return true
			}
		}
	}
	return false
}

// cacheKey serializes the full input; any field can change the vector.
func cacheKey(in Input) string {
	return strings.Join([]string{
		string(in.Mode),
		in.Text,
		in.QuestionType,
		in.Question,
		in.Reference,
		strconv.FormatFloat(in.TimeTaken, 'g', -1, 64),
	}, "\x1f")
}
