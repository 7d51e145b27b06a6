// Package perf derives question difficulty from accumulated attempt
// statistics. It is the ground-truth proxy for difficulty and the label
// source for classifier retraining; no trained model is involved.
package perf

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Difficulty is a calculated difficulty label.
type Difficulty string

// Difficulty labels, ordered easy to hard.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Attempt is one student's single scored submission against one question.
// Immutable once created; validation happens at aggregation time.
type Attempt struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"question_id"`
	StudentID   string    `json:"student_id"`
	ScoreRatio  float64   `json:"score_ratio"` // earned/max, in [0,1]
	TimeTaken   float64   `json:"time_taken"`  // seconds, non-negative
	AnswerText  string    `json:"answer_text"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Thresholds holds the banding policy of the difficulty algorithm.
// Penalty bands are exclusive: the higher applicable band wins, penalties
// are never summed. An additive reading is equally defensible, so changing
// this policy needs product sign-off.
type Thresholds struct {
	PassRatio float64 // score ratio counted as a pass

	SlowTime     float64 // seconds; above this the small time penalty applies
	VerySlowTime float64 // seconds; above this the large time penalty applies
	SlowPenalty  float64
	VerySlowPenalty float64

	HighVariance      float64 // above this the small confusion penalty applies
	VeryHighVariance  float64 // above this the large confusion penalty applies
	ConfusionPenalty  float64
	HighConfusionPenalty float64

	EasyRate   float64 // adjusted rate at or above maps to easy
	MediumRate float64 // adjusted rate at or above maps to medium

	FullConfidenceStudents int // distinct students for confidence 1.0
}

// DefaultThresholds returns the standard banding policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PassRatio:            0.6,
		SlowTime:             120,
		VerySlowTime:         300,
		SlowPenalty:          0.1,
		VerySlowPenalty:      0.2,
		HighVariance:         0.2,
		VeryHighVariance:     0.3,
		ConfusionPenalty:     0.10,
		HighConfusionPenalty: 0.15,
		EasyRate:             0.8,
		MediumRate:           0.5,
		FullConfidenceStudents: 50,
	}
}

// Metrics carries the derived statistics behind a summary.
type Metrics struct {
	SuccessRate      float64 `json:"success_rate"`
	AdjustedRate     float64 `json:"adjusted_rate"`
	TimePenalty      float64 `json:"time_penalty"`
	ConfusionPenalty float64 `json:"confusion_penalty"`

	AvgScore      float64 `json:"avg_score"`
	MedianScore   float64 `json:"median_score"`
	MinScore      float64 `json:"min_score"`
	MaxScore      float64 `json:"max_score"`
	ScoreVariance float64 `json:"score_variance"` // population variance
	ScoreStdDev   float64 `json:"score_std_dev"`

	AvgTime    float64 `json:"avg_time"`
	TimeStdDev float64 `json:"time_std_dev"`
}

// Summary is the recomputable result of aggregating one question's attempts.
type Summary struct {
	QuestionID     string     `json:"question_id"`
	Difficulty     Difficulty `json:"difficulty"`
	Confidence     float64    `json:"confidence"`
	SampleSize     int        `json:"sample_size"`
	UniqueStudents int        `json:"unique_students"`
	Metrics        Metrics    `json:"metrics"`
	Insights       []string   `json:"insights,omitempty"`
}

// Aggregator computes difficulty summaries under a fixed threshold policy.
type Aggregator struct {
	thresholds Thresholds
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithThresholds overrides the banding policy.
func WithThresholds(t Thresholds) Option {
	return func(a *Aggregator) {
		a.thresholds = t
	}
}

// New creates an Aggregator with the default policy.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes the difficulty summary for one question's attempts.
// The result is invariant to attempt ordering. Fewer than minAttempts
// records yields ErrNotEnoughData; a record violating its invariants yields
// ErrInvalidInput. minAttempts below 1 falls back to 1.
func (a *Aggregator) Aggregate(questionID string, attempts []Attempt, minAttempts int) (Summary, error) {
	if minAttempts < 1 {
		minAttempts = 1
	}
	if len(attempts) < minAttempts {
		return Summary{}, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughData, len(attempts), minAttempts)
	}

	scores := make([]float64, len(attempts))
	times := make([]float64, len(attempts))
	students := make(map[string]struct{}, len(attempts))
	passes := 0
	for i, at := range attempts {
		if at.ScoreRatio < 0 || at.ScoreRatio > 1 {
			return Summary{}, fmt.Errorf("%w: score ratio %v outside [0,1]", ErrInvalidInput, at.ScoreRatio)
		}
		if at.TimeTaken < 0 {
			return Summary{}, fmt.Errorf("%w: negative time taken %v", ErrInvalidInput, at.TimeTaken)
		}
		scores[i] = at.ScoreRatio
		times[i] = at.TimeTaken
		students[at.StudentID] = struct{}{}
		if at.ScoreRatio >= a.thresholds.PassRatio {
			passes++
		}
	}

	m := Metrics{
		SuccessRate:   float64(passes) / float64(len(attempts)),
		AvgScore:      mean(scores),
		MedianScore:   median(scores),
		MinScore:      minOf(scores),
		MaxScore:      maxOf(scores),
		ScoreVariance: popVariance(scores),
		AvgTime:       mean(times),
	}
	m.ScoreStdDev = math.Sqrt(m.ScoreVariance)
	m.TimeStdDev = math.Sqrt(popVariance(times))

	// Exclusive bands: the larger applicable penalty wins.
	switch {
	case m.AvgTime > a.thresholds.VerySlowTime:
		m.TimePenalty = a.thresholds.VerySlowPenalty
	case m.AvgTime > a.thresholds.SlowTime:
		m.TimePenalty = a.thresholds.SlowPenalty
	}
	switch {
	case m.ScoreVariance > a.thresholds.VeryHighVariance:
		m.ConfusionPenalty = a.thresholds.HighConfusionPenalty
	case m.ScoreVariance > a.thresholds.HighVariance:
		m.ConfusionPenalty = a.thresholds.ConfusionPenalty
	}

	m.AdjustedRate = clamp(m.SuccessRate-m.TimePenalty-m.ConfusionPenalty, 0, 1)

	var difficulty Difficulty
	switch {
	case m.AdjustedRate >= a.thresholds.EasyRate:
		difficulty = Easy
	case m.AdjustedRate >= a.thresholds.MediumRate:
		difficulty = Medium
	default:
		difficulty = Hard
	}

	// Confidence grows with distinct students, not raw attempts, to resist
	// single-student spam.
	confidence := math.Min(1, float64(len(students))/float64(a.thresholds.FullConfidenceStudents))

	s := Summary{
		QuestionID:     questionID,
		Difficulty:     difficulty,
		Confidence:     confidence,
		SampleSize:     len(attempts),
		UniqueStudents: len(students),
		Metrics:        m,
	}
	s.Insights = insights(s)
	return s, nil
}

// Disagreement reports whether a model-predicted label contradicts the
// calculated one. A mismatch flags content for review; it is never an error.
func Disagreement(s Summary, predicted Difficulty) bool {
	return predicted != "" && predicted != s.Difficulty
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// popVariance is the population variance (divides by n, not n-1).
func popVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	total := 0.0
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	return total / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
