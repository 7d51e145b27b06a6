package feature_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/internal/domain/nlp"
)

type failingTagger struct{}

func (failingTagger) Annotate(context.Context, string) ([]nlp.Annotation, error) {
	return nil, errors.New("annotator offline")
}

func TestExtractor_Schema(t *testing.T) {
	convey.Convey("Given a feature extractor", t, func() {
		ex := feature.New()
		ctx := context.Background()

		convey.Convey("When extracting question features", func() {
			vec, err := ex.Extract(ctx, feature.Input{
				Mode:         feature.ModeQuestion,
				Text:         "What is photosynthesis? Explain how plants convert sunlight.",
				QuestionType: "short_answer",
			})

			convey.Convey("Then the vector carries the full question schema", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(vec.SchemaVersion, convey.ShouldEqual, feature.QuestionSchemaVersion)
				convey.So(len(vec.Values), convey.ShouldEqual, len(feature.Names(feature.ModeQuestion)))
				convey.So(len(feature.Names(feature.ModeQuestion)), convey.ShouldEqual, 42)
			})

			convey.Convey("Then question cues are detected", func() {
				convey.So(err, convey.ShouldBeNil)
				mark, ok := vec.Get("has_question_mark")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(mark, convey.ShouldEqual, 1)
				starts, _ := vec.Get("starts_with_question_word")
				convey.So(starts, convey.ShouldEqual, 1)
				short, _ := vec.Get("is_short_answer")
				convey.So(short, convey.ShouldEqual, 1)
				essay, _ := vec.Get("is_essay")
				convey.So(essay, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When extracting answer features", func() {
			vec, err := ex.Extract(ctx, feature.Input{
				Mode:      feature.ModeAnswer,
				Text:      "Plants convert sunlight into food through photosynthesis.",
				Question:  "What is photosynthesis?",
				Reference: "The process plants use to make food from sunlight",
				TimeTaken: 95,
			})

			convey.Convey("Then the vector carries the full answer schema", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(vec.SchemaVersion, convey.ShouldEqual, feature.AnswerSchemaVersion)
				convey.So(len(vec.Values), convey.ShouldEqual, len(feature.Names(feature.ModeAnswer)))
				convey.So(len(feature.Names(feature.ModeAnswer)), convey.ShouldEqual, 41)
			})

			convey.Convey("Then answer context features are populated", func() {
				convey.So(err, convey.ShouldBeNil)
				taken, _ := vec.Get("time_taken")
				convey.So(taken, convey.ShouldEqual, 95)
				similarity, _ := vec.Get("reference_similarity")
				convey.So(similarity, convey.ShouldBeGreaterThan, 0)
				overlap, _ := vec.Get("question_overlap")
				convey.So(overlap, convey.ShouldBeGreaterThan, 0)
				capital, _ := vec.Get("starts_with_capital")
				convey.So(capital, convey.ShouldEqual, 1)
				period, _ := vec.Get("ends_with_period")
				convey.So(period, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When extracting from the empty string", func() {
			vec, err := ex.Extract(ctx, feature.Input{Mode: feature.ModeQuestion, Text: ""})

			convey.Convey("Then every schema key is still present, valued zero or default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(vec.Values), convey.ShouldEqual, len(feature.Names(feature.ModeQuestion)))
				count, ok := vec.Get("word_count")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(count, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When extracting the same input twice", func() {
			in := feature.Input{
				Mode:         feature.ModeQuestion,
				Text:         "Derive the quadratic formula and explain each step.",
				QuestionType: "essay",
			}
			first, err1 := ex.Extract(ctx, in)
			second, err2 := ex.Extract(ctx, in)

			convey.Convey("Then the vectors are identical", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(second, convey.ShouldResemble, first)
			})
		})

		convey.Convey("When the mode is unknown", func() {
			_, err := ex.Extract(ctx, feature.Input{Mode: "paragraph", Text: "text"})

			convey.Convey("Then extraction rejects the input", func() {
				convey.So(err, convey.ShouldWrap, feature.ErrInvalidInput)
			})
		})

		convey.Convey("When the annotator capability fails", func() {
			failing := feature.New(feature.WithTagger(failingTagger{}))
			_, err := failing.Extract(ctx, feature.Input{Mode: feature.ModeQuestion, Text: "What is entropy?"})

			convey.Convey("Then the failure surfaces as an upstream error", func() {
				convey.So(err, convey.ShouldWrap, feature.ErrUpstream)
			})
		})
	})
}

func TestExtractor_Cache(t *testing.T) {
	convey.Convey("Given an extractor with a two-entry cache", t, func() {
		ex := feature.New(feature.WithCacheSize(2))
		ctx := context.Background()

		inputs := []feature.Input{
			{Mode: feature.ModeQuestion, Text: "What is 2 + 2?"},
			{Mode: feature.ModeQuestion, Text: "What color is the sky?"},
			{Mode: feature.ModeQuestion, Text: "How many days are in a week?"},
		}

		convey.Convey("When extracting more distinct inputs than the bound", func() {
			for _, in := range inputs {
				_, err := ex.Extract(ctx, in)
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then the cache never exceeds its bound", func() {
				convey.So(ex.CacheLen(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the same text is extracted in both modes", func() {
			q, err1 := ex.Extract(ctx, feature.Input{Mode: feature.ModeQuestion, Text: "Name three countries."})
			a, err2 := ex.Extract(ctx, feature.Input{Mode: feature.ModeAnswer, Text: "Name three countries."})

			convey.Convey("Then the cache keeps the modes apart", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(q.SchemaVersion, convey.ShouldNotEqual, a.SchemaVersion)
			})
		})
	})
}

func TestReadability(t *testing.T) {
	convey.Convey("Given texts of different complexity", t, func() {
		ex := feature.New()
		ctx := context.Background()

		simple, err1 := ex.Extract(ctx, feature.Input{Mode: feature.ModeQuestion, Text: "The cat sat on the mat."})
		dense, err2 := ex.Extract(ctx, feature.Input{
			Mode: feature.ModeQuestion,
			Text: "Photosynthetic organisms synthesize carbohydrates utilizing electromagnetic radiation absorbed through chlorophyll molecules.",
		})
		convey.So(err1, convey.ShouldBeNil)
		convey.So(err2, convey.ShouldBeNil)

		convey.Convey("Then reading ease favors the simple text", func() {
			simpleEase, _ := simple.Get("flesch_reading_ease")
			denseEase, _ := dense.Get("flesch_reading_ease")
			convey.So(simpleEase, convey.ShouldBeGreaterThan, denseEase)
		})

		convey.Convey("Then grade level favors the dense text", func() {
			simpleGrade, _ := simple.Get("flesch_kincaid_grade")
			denseGrade, _ := dense.Get("flesch_kincaid_grade")
			convey.So(denseGrade, convey.ShouldBeGreaterThan, simpleGrade)
		})
	})
}
