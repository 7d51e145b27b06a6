// Package feature turns raw text into fixed-schema numeric vectors for model
// training and serving.
package feature

// Mode selects which feature schema an extraction produces.
type Mode string

// Extraction modes.
const (
	ModeQuestion Mode = "question"
	ModeAnswer   Mode = "answer"
)

// Schema versions. A version names an exact ordered key set; renaming or
// reordering entries requires a bump plus a model migration, since artifacts
// trained on one version are refused vectors of another.
const (
	QuestionSchemaVersion = "question/v1"
	AnswerSchemaVersion   = "answer/v1"
)

// baseNames is the text-statistics core shared by both schemas, in order.
var baseNames = []string{
	"char_count",
	"word_count",
	"sentence_count",
	"paragraph_count",
	"avg_word_length",
	"avg_sentence_length",
	"flesch_reading_ease",
	"flesch_kincaid_grade",
	"gunning_fog",
	"automated_readability_index",
	"syllable_count",
	"avg_syllables_per_word",
	"polysyllable_count",
	"difficult_word_count",
	"unique_word_ratio",
	"stopword_ratio",
	"punctuation_count",
	"uppercase_ratio",
	"digit_count",
	"long_word_count",
	"max_word_length",
	"capitalized_word_count",
	"alpha_token_ratio",
	"token_count",
	"sentiment_positive",
	"sentiment_negative",
	"sentiment_neutral",
	"sentiment_compound",
	"noun_count",
	"verb_count",
	"adj_count",
	"adv_count",
	"pronoun_count",
	"entity_count",
}

var questionNames = append(append([]string{}, baseNames...),
	"question_word_count",
	"has_question_mark",
	"starts_with_question_word",
	"has_numerals",
	"has_bullet_list",
	"is_multiple_choice",
	"is_short_answer",
	"is_essay",
)

var answerNames = append(append([]string{}, baseNames...),
	"reference_similarity",
	"question_overlap",
	"starts_with_capital",
	"ends_with_period",
	"contains_numbers",
	"length_ratio",
	"time_taken",
)

// Names returns the ordered feature names of a mode's schema. The returned
// slice is shared; callers must not mutate it.
func Names(mode Mode) []string {
	switch mode {
	case ModeQuestion:
		return questionNames
	case ModeAnswer:
		return answerNames
	default:
		return nil
	}
}

// SchemaVersion returns the schema version string of a mode.
func SchemaVersion(mode Mode) string {
	switch mode {
	case ModeQuestion:
		return QuestionSchemaVersion
	case ModeAnswer:
		return AnswerSchemaVersion
	default:
		return ""
	}
}

// Vector is one extracted feature vector: an ordered, fixed-schema list of
// named float64 values. Every declared name is always present.
type Vector struct {
	Mode          Mode      `json:"mode"`
	SchemaVersion string    `json:"schema_version"`
	Values        []float64 `json:"values"`
}

// Get returns the value of a named feature.
func (v Vector) Get(name string) (float64, bool) {
	names := Names(v.Mode)
	for i, n := range names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Named returns the vector as a name -> value map.
func (v Vector) Named() map[string]float64 {
	names := Names(v.Mode)
	out := make(map[string]float64, len(names))
	for i, n := range names {
		out[n] = v.Values[i]
	}
	return out
}

// clone returns an independent copy so cached vectors stay immutable.
func (v Vector) clone() Vector {
	values := make([]float64, len(v.Values))
	copy(values, v.Values)
	return Vector{Mode: v.Mode, SchemaVersion: v.SchemaVersion, Values: values}
}
