// Package seed generates synthetic questions and student attempts for
// populating a fresh installation and exercising the training pipeline.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mindora/acumen/internal/domain/perf"
	"github.com/mindora/acumen/pkg/logger"
)

// Recorder receives generated attempts. Satisfied by the attempt stores.
type Recorder interface {
	Record(ctx context.Context, a perf.Attempt) error
}

// Question is one synthetic question with its expected difficulty level.
type Question struct {
	ID        string
	Text      string
	Type      string
	Subject   string
	Reference string
	Level     string
}

// Attempt count and timing bands per difficulty level.
const (
	minStudents = 8
	maxStudents = 15

	easyTimeMin   = 30
	easyTimeMax   = 120
	mediumTimeMin = 120
	mediumTimeMax = 300
	hardTimeMin   = 300
	hardTimeMax   = 900
)

// catalog spans the three difficulty levels so aggregation and difficulty
// training both see all classes.
var catalog = []Question{
	{Text: "What is 2 + 2?", Type: "multiple_choice", Subject: "Mathematics", Reference: "4", Level: "easy"},
	{Text: "What color is the sky?", Type: "short_answer", Subject: "Science", Reference: "Blue", Level: "easy"},
	{Text: "How many days are in a week?", Type: "short_answer", Subject: "General", Reference: "7", Level: "easy"},
	{Text: "What is the capital of the USA?", Type: "multiple_choice", Subject: "Geography", Reference: "Washington D.C.", Level: "easy"},
	{Text: "What sound does a dog make?", Type: "short_answer", Subject: "General", Reference: "Bark", Level: "easy"},
	{Text: "Explain the water cycle in 2-3 sentences.", Type: "short_answer", Subject: "Science", Reference: "Water evaporates from oceans, condenses into clouds, and falls as precipitation.", Level: "medium"},
	{Text: "What is 15 x 12?", Type: "short_answer", Subject: "Mathematics", Reference: "180", Level: "medium"},
	{Text: "Name three countries in Europe.", Type: "short_answer", Subject: "Geography", Reference: "France, Germany, Italy", Level: "medium"},
	{Text: "What is photosynthesis?", Type: "short_answer", Subject: "Biology", Reference: "The process plants use to make food from sunlight", Level: "medium"},
	{Text: "Who wrote Romeo and Juliet?", Type: "short_answer", Subject: "Literature", Reference: "William Shakespeare", Level: "medium"},
	{Text: "Derive the quadratic formula and explain each step.", Type: "essay", Subject: "Mathematics", Reference: "x = (-b + sqrt(b^2-4ac))/(2a), derived from completing the square of the general quadratic equation.", Level: "hard"},
	{Text: "Analyze the causes and effects of World War I.", Type: "essay", Subject: "History", Reference: "Multiple causes including imperialism, alliances, and nationalism led to a global conflict with lasting political consequences.", Level: "hard"},
	{Text: "Explain quantum entanglement in detail.", Type: "essay", Subject: "Physics", Reference: "Quantum entanglement is a phenomenon where particles become correlated so that measuring one instantly constrains the other.", Level: "hard"},
	{Text: "Compare and contrast capitalism and socialism.", Type: "essay", Subject: "Economics", Reference: "Capitalism emphasizes private ownership while socialism emphasizes collective ownership of the means of production.", Level: "hard"},
	{Text: "Discuss the impact of climate change on biodiversity.", Type: "essay", Subject: "Environmental Science", Reference: "Climate change affects biodiversity through habitat loss, species migration, and disrupted food chains.", Level: "hard"},
}

// Generator produces deterministic synthetic data for a given seed.
type Generator struct {
	rng    *rand.Rand
	now    time.Time
	logger logger.Logger
}

// New creates a generator. The same seed yields the same attempts apart from
// the uuid identifiers.
func New(seedValue int64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seedValue)),
		now:    time.Now().UTC(),
		logger: logger.Get().Named("seed"),
	}
}

// Questions returns the catalog with fresh ids assigned.
func (g *Generator) Questions() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog)
	for i := range out {
		out[i].ID = uuid.New().String()
	}
	return out
}

// Attempts generates between 8 and 15 student attempts for a question, with
// answer quality and timing drawn from bands matching its difficulty level.
func (g *Generator) Attempts(q Question) []perf.Attempt {
	n := minStudents + g.rng.Intn(maxStudents-minStudents+1)
	out := make([]perf.Attempt, 0, n)
	for i := 0; i < n; i++ {
		answer, ratio := g.answer(q)
		out = append(out, perf.Attempt{
			ID:          uuid.New().String(),
			QuestionID:  q.ID,
			StudentID:   fmt.Sprintf("student_%04d", 1000+g.rng.Intn(9000)),
			ScoreRatio:  ratio,
			TimeTaken:   g.timeTaken(q.Level),
			AnswerText:  answer,
			SubmittedAt: g.now.AddDate(0, 0, -(1 + g.rng.Intn(30))),
		})
	}
	return out
}

// Populate writes the full catalog's attempts into the recorder.
func (g *Generator) Populate(ctx context.Context, rec Recorder) ([]Question, int, error) {
	questions := g.Questions()
	total := 0
	for _, q := range questions {
		for _, a := range g.Attempts(q) {
			if err := rec.Record(ctx, a); err != nil {
				return nil, total, fmt.Errorf("seed question %s: %w", q.ID, err)
			}
			total++
		}
	}
	g.logger.Info(ctx, "seeded synthetic attempts",
		logger.Int("questions", len(questions)),
		logger.Int("attempts", total),
	)
	return questions, total, nil
}

func (g *Generator) timeTaken(level string) float64 {
	switch level {
	case "easy":
		return float64(easyTimeMin + g.rng.Intn(easyTimeMax-easyTimeMin+1))
	case "medium":
		return float64(mediumTimeMin + g.rng.Intn(mediumTimeMax-mediumTimeMin+1))
	default:
		return float64(hardTimeMin + g.rng.Intn(hardTimeMax-hardTimeMin+1))
	}
}

// answer returns a synthetic answer text and score ratio. Easy questions are
// mostly answered well, hard questions mostly poorly, matching the grade
// distribution the aggregator expects to observe in real cohorts.
func (g *Generator) answer(q Question) (string, float64) {
	switch q.Level {
	case "easy":
		if g.rng.Float64() < 0.8 {
			return g.pick(
				q.Reference,
				"The answer is "+q.Reference,
				"I think it's "+q.Reference,
			), g.ratio(80, 100)
		}
		return g.pick("I don't know", "Not sure", "Maybe something else"), g.ratio(0, 40)

	case "medium":
		if g.rng.Float64() < 0.6 {
			if g.rng.Float64() < 0.7 {
				return g.pick(
					q.Reference,
					q.Reference+". This is because of what we covered in class.",
					"I believe "+q.Reference+" is the correct answer.",
				), g.ratio(70, 95)
			}
			return g.pick(
				"Something related to "+firstWord(q.Reference),
				"I'm not entirely sure but it involves "+firstWord(q.Reference),
			), g.ratio(40, 70)
		}
		return g.pick("I don't know", "This is confusing", "Need more time"), g.ratio(0, 30)

	default: // hard
		r := g.rng.Float64()
		switch {
		case r < 0.3:
			return g.pick(
				q.Reference+" Additionally, this concept involves multiple interacting factors.",
				"This is a complex topic. "+q.Reference,
				"From my understanding, "+q.Reference,
			), g.ratio(75, 100)
		case r < 0.65:
			return g.pick(
				"I think "+firstWord(q.Reference)+" matters here but I'm not sure about the details.",
				"This is partially related to what we studied in class.",
				"I remember something about this but need to think more.",
			), g.ratio(40, 75)
		default:
			return g.pick(
				"This question is too difficult for me",
				"I need more study time for this topic",
				"Can we review this in class?",
			), g.ratio(0, 40)
		}
	}
}

func (g *Generator) pick(options ...string) string {
	return options[g.rng.Intn(len(options))]
}

// ratio draws a percentage in [lo, hi] and scales it to [0, 1].
func (g *Generator) ratio(lo, hi int) float64 {
	return float64(lo+g.rng.Intn(hi-lo+1)) / 100
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
