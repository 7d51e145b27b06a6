package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mindora/acumen/internal/adapters/artifact"
	"github.com/mindora/acumen/internal/domain/estimator"
	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/internal/registry"
)

type failingStore struct{}

func (failingStore) Save(context.Context, *registry.Artifact) (string, error) {
	return "", errors.New("disk full")
}

func (failingStore) Load(context.Context, registry.Role) (*registry.Artifact, error) {
	return nil, registry.ErrArtifactNotFound
}

func (failingStore) History(context.Context, registry.Role) ([]*registry.Artifact, error) {
	return nil, nil
}

// difficultyExamples returns separable two-class training data.
func difficultyExamples(n int) []estimator.Example {
	out := make([]estimator.Example, 0, 2*n)
	for i := 0; i < n; i++ {
		jitter := float64(i) * 0.01
		out = append(out, estimator.Example{Features: []float64{1 + jitter, 0}, Label: "easy"})
		out = append(out, estimator.Example{Features: []float64{-1 - jitter, 0}, Label: "hard"})
	}
	return out
}

func scoreExamples(n int) []estimator.Example {
	out := make([]estimator.Example, n)
	for i := range out {
		x := float64(i) / float64(n)
		out[i] = estimator.Example{Features: []float64{x, 1 - x}, Target: x}
	}
	return out
}

func questionVector(values ...float64) feature.Vector {
	return feature.Vector{
		Mode:          feature.ModeQuestion,
		SchemaVersion: feature.QuestionSchemaVersion,
		Values:        values,
	}
}

func answerVector(values ...float64) feature.Vector {
	return feature.Vector{
		Mode:          feature.ModeAnswer,
		SchemaVersion: feature.AnswerSchemaVersion,
		Values:        values,
	}
}

func TestRegistry_Train(t *testing.T) {
	convey.Convey("Given a registry over an in-memory store", t, func() {
		store := artifact.NewMemoryStore()
		reg := registry.New(store)
		ctx := context.Background()

		convey.Convey("When training below the sample floor", func() {
			_, err := reg.Train(ctx, registry.RoleDifficulty, difficultyExamples(2), 10)

			convey.Convey("Then training reports insufficient data", func() {
				convey.So(err, convey.ShouldWrap, registry.ErrInsufficientData)
			})

			convey.Convey("Then nothing was persisted", func() {
				_, loadErr := store.Load(ctx, registry.RoleDifficulty)
				convey.So(loadErr, convey.ShouldWrap, registry.ErrArtifactNotFound)
			})
		})

		convey.Convey("When training the difficulty classifier with enough examples", func() {
			report, err := reg.Train(ctx, registry.RoleDifficulty, difficultyExamples(10), 10)

			convey.Convey("Then the report carries valid metrics", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report.Examples, convey.ShouldEqual, 20)
				convey.So(report.TrainSize+report.EvalSize, convey.ShouldEqual, 20)
				convey.So(report.Metrics.Accuracy, convey.ShouldBeBetweenOrEqual, 0, 1)
				convey.So(report.Metrics.F1, convey.ShouldBeBetweenOrEqual, 0, 1)
			})

			convey.Convey("Then the artifact was persisted and activated", func() {
				convey.So(err, convey.ShouldBeNil)
				saved, loadErr := store.Load(ctx, registry.RoleDifficulty)
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(saved.ID, convey.ShouldEqual, report.ArtifactID)
				convey.So(saved.SchemaVersion, convey.ShouldEqual, feature.QuestionSchemaVersion)
			})

			convey.Convey("Then a subsequent predict serves the new artifact", func() {
				convey.So(err, convey.ShouldBeNil)
				pred, predErr := reg.Predict(ctx, registry.RoleDifficulty, questionVector(1, 0))
				convey.So(predErr, convey.ShouldBeNil)
				convey.So(pred.ArtifactID, convey.ShouldEqual, report.ArtifactID)
				convey.So(pred.Label, convey.ShouldEqual, "easy")
			})

			convey.Convey("Then retraining swaps to a fresh artifact", func() {
				convey.So(err, convey.ShouldBeNil)
				second, trainErr := reg.Train(ctx, registry.RoleDifficulty, difficultyExamples(10), 10)
				convey.So(trainErr, convey.ShouldBeNil)
				convey.So(second.ArtifactID, convey.ShouldNotEqual, report.ArtifactID)

				history, histErr := store.History(ctx, registry.RoleDifficulty)
				convey.So(histErr, convey.ShouldBeNil)
				convey.So(len(history), convey.ShouldEqual, 2)

				pred, predErr := reg.Predict(ctx, registry.RoleDifficulty, questionVector(1, 0))
				convey.So(predErr, convey.ShouldBeNil)
				convey.So(pred.ArtifactID, convey.ShouldEqual, second.ArtifactID)
			})
		})

		convey.Convey("When training the score regressor", func() {
			report, err := reg.Train(ctx, registry.RoleScore, scoreExamples(30), 0)

			convey.Convey("Then the report carries regression metrics", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report.Metrics.MAE, convey.ShouldBeGreaterThanOrEqualTo, 0)
				convey.So(report.Metrics.R2, convey.ShouldBeLessThanOrEqualTo, 1)
			})

			convey.Convey("Then predictions stay within the unit interval", func() {
				convey.So(err, convey.ShouldBeNil)
				pred, predErr := reg.Predict(ctx, registry.RoleScore, answerVector(0.7, 0.3))
				convey.So(predErr, convey.ShouldBeNil)
				convey.So(pred.Value, convey.ShouldBeBetweenOrEqual, 0, 1)
				convey.So(pred.Confidence, convey.ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		convey.Convey("When training the comprehension clusterer", func() {
			reg := registry.New(store, registry.WithClusterCount(2))
			examples := make([]estimator.Example, 0, 24)
			for i := 0; i < 12; i++ {
				jitter := float64(i) * 0.01
				examples = append(examples, estimator.Example{Features: []float64{5 + jitter, 5}})
				examples = append(examples, estimator.Example{Features: []float64{-5 - jitter, -5}})
			}
			report, err := reg.Train(ctx, registry.RoleComprehension, examples, 0)

			convey.Convey("Then cohesion is reported over the full set", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report.TrainSize, convey.ShouldEqual, 24)
				convey.So(report.EvalSize, convey.ShouldEqual, 0)
				convey.So(report.Metrics.Cohesion, convey.ShouldBeGreaterThanOrEqualTo, 0)
			})

			convey.Convey("Then predictions assign a cluster with distances", func() {
				convey.So(err, convey.ShouldBeNil)
				pred, predErr := reg.Predict(ctx, registry.RoleComprehension, answerVector(5, 5))
				convey.So(predErr, convey.ShouldBeNil)
				convey.So(len(pred.Distances), convey.ShouldEqual, 2)
				convey.So(pred.Confidence, convey.ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		convey.Convey("When the store rejects the save", func() {
			reg := registry.New(failingStore{})
			_, err := reg.Train(ctx, registry.RoleDifficulty, difficultyExamples(10), 10)

			convey.Convey("Then training surfaces an upstream failure", func() {
				convey.So(err, convey.ShouldWrap, registry.ErrUpstream)
			})

			convey.Convey("Then no artifact was activated", func() {
				_, predErr := reg.Predict(ctx, registry.RoleDifficulty, questionVector(1, 0))
				convey.So(predErr, convey.ShouldWrap, registry.ErrModelNotAvailable)
			})
		})

		convey.Convey("When training an unknown role", func() {
			_, err := reg.Train(ctx, registry.Role("sentiment"), difficultyExamples(10), 10)
			convey.So(err, convey.ShouldWrap, registry.ErrInvalidInput)
		})
	})
}

func TestRegistry_Predict(t *testing.T) {
	convey.Convey("Given a registry with no trained models", t, func() {
		reg := registry.New(artifact.NewMemoryStore())
		ctx := context.Background()

		convey.Convey("Then predicting any role reports model not available", func() {
			for _, role := range registry.Roles() {
				_, err := reg.Predict(ctx, role, questionVector(1, 0))
				convey.So(err, convey.ShouldWrap, registry.ErrModelNotAvailable)
			}
		})
	})

	convey.Convey("Given a trained difficulty classifier", t, func() {
		reg := registry.New(artifact.NewMemoryStore())
		ctx := context.Background()
		_, err := reg.Train(ctx, registry.RoleDifficulty, difficultyExamples(10), 10)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When predicting with an answer-schema vector", func() {
			_, err := reg.Predict(ctx, registry.RoleDifficulty, answerVector(1, 0))

			convey.Convey("Then the schema mismatch is a hard failure", func() {
				convey.So(err, convey.ShouldWrap, registry.ErrModelNotAvailable)
			})
		})

		convey.Convey("When predicting with a matching vector", func() {
			pred, err := reg.Predict(ctx, registry.RoleDifficulty, questionVector(-1, 0))

			convey.Convey("Then probabilities cover both classes and sum to one", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pred.Label, convey.ShouldEqual, "hard")
				sum := 0.0
				for _, p := range pred.Probabilities {
					sum += p
				}
				convey.So(sum, convey.ShouldAlmostEqual, 1)
				convey.So(pred.Confidence, convey.ShouldAlmostEqual, pred.Probabilities["hard"])
			})
		})
	})
}

func TestRegistry_LoadActive(t *testing.T) {
	convey.Convey("Given artifacts persisted by an earlier registry", t, func() {
		store := artifact.NewMemoryStore()
		ctx := context.Background()

		first := registry.New(store)
		report, err := first.Train(ctx, registry.RoleDifficulty, difficultyExamples(10), 10)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a fresh registry hydrates from the store", func() {
			second := registry.New(store)
			convey.So(second.LoadActive(ctx), convey.ShouldBeNil)

			convey.Convey("Then it serves the persisted artifact", func() {
				pred, predErr := second.Predict(ctx, registry.RoleDifficulty, questionVector(1, 0))
				convey.So(predErr, convey.ShouldBeNil)
				convey.So(pred.ArtifactID, convey.ShouldEqual, report.ArtifactID)
			})

			convey.Convey("Then untrained roles remain unavailable", func() {
				_, predErr := second.Predict(ctx, registry.RoleScore, answerVector(1, 0))
				convey.So(predErr, convey.ShouldWrap, registry.ErrModelNotAvailable)
			})
		})
	})
}
