// Package app wires the inference components into a single service: stores,
// feature extraction, the model registry, performance aggregation, and the
// batch orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mindora/acumen/internal/adapters/artifact"
	"github.com/mindora/acumen/internal/adapters/attempts"
	"github.com/mindora/acumen/internal/batch"
	"github.com/mindora/acumen/internal/config"
	"github.com/mindora/acumen/internal/domain/estimator"
	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/internal/domain/perf"
	"github.com/mindora/acumen/internal/registry"
	"github.com/mindora/acumen/internal/seed"
	"github.com/mindora/acumen/pkg/logger"
	"github.com/mindora/acumen/pkg/metrics"
)

// Question carries the text context needed to build question-mode training
// examples for attempts already in the store.
type Question struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Reference string `json:"reference,omitempty"`
}

// ReviewFlag marks a question whose observed difficulty disagrees with the
// model's prediction. Flagged questions are review candidates, not errors.
type ReviewFlag struct {
	QuestionID string          `json:"question_id"`
	Observed   perf.Difficulty `json:"observed"`
	Predicted  string          `json:"predicted"`
	Confidence float64         `json:"confidence"`
}

// RoleStatus describes one role's active artifact, if any.
type RoleStatus struct {
	Role       registry.Role     `json:"role"`
	Trained    bool              `json:"trained"`
	ArtifactID string            `json:"artifact_id,omitempty"`
	Examples   int               `json:"examples,omitempty"`
	Metrics    *registry.Metrics `json:"metrics,omitempty"`
}

// Service implements the inference API on top of the wired components.
type Service struct {
	mu sync.Mutex

	cfg *config.Config

	artifacts registry.Store
	attempts  attempts.Store

	extractor    *feature.Extractor
	aggregator   *perf.Aggregator
	registry     *registry.Registry
	orchestrator *batch.Orchestrator

	// closers collects stores the service opened itself.
	closers []func() error

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifactStore injects an artifact store, bypassing the bbolt file the
// config names. Used by tests and embedders.
func WithArtifactStore(s registry.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.artifacts = s
		}
	}
}

// WithAttemptStore injects an attempt store, bypassing the sqlite file the
// config names.
func WithAttemptStore(s attempts.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.attempts = s
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service from configuration. Call Start before use.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the stores, builds the pipeline, and hydrates active models.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	if s.artifacts == nil {
		store, err := artifact.NewBoltStore(s.cfg.ArtifactPath)
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		s.artifacts = store
		s.closers = append(s.closers, store.Close)
	}
	if s.attempts == nil {
		store, err := attempts.NewSQLiteStore(s.cfg.AttemptDBPath)
		if err != nil {
			return fmt.Errorf("open attempt store: %w", err)
		}
		s.attempts = store
		s.closers = append(s.closers, store.Close)
	}

	s.extractor = feature.New(
		feature.WithCacheSize(s.cfg.VectorCacheSize),
	)

	thresholds := perf.DefaultThresholds()
	thresholds.PassRatio = s.cfg.PassThreshold
	s.aggregator = perf.New(perf.WithThresholds(thresholds))

	s.registry = registry.New(s.artifacts,
		registry.WithClusterCount(s.cfg.ClusterCount),
		registry.WithMinSamples(registry.RoleDifficulty, s.cfg.MinTrainingSamples),
		registry.WithMinSamples(registry.RoleScore, s.cfg.MinTrainingSamples),
		registry.WithMinSamples(registry.RoleComprehension, s.cfg.MinClusteringSamples),
		registry.WithLogger(s.logger.Named("registry")),
	)
	if err := s.registry.LoadActive(ctx); err != nil {
		return fmt.Errorf("load active models: %w", err)
	}

	s.orchestrator = batch.New(s.handleBatchItem,
		batch.WithWorkerCount(s.cfg.BatchWorkerCount),
		batch.WithLogger(s.logger.Named("batch")),
	)

	s.started = true
	s.logger.Info(ctx, "inference service started",
		logger.Int("batchWorkers", s.cfg.BatchWorkerCount),
		logger.Int("vectorCacheSize", s.cfg.VectorCacheSize),
		logger.Int("clusterCount", s.cfg.ClusterCount),
	)
	return nil
}

// Stop closes the stores the service opened.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	for _, close := range s.closers {
		if err := close(); err != nil {
			s.logger.Warn(context.Background(), "close store", logger.Error(err))
		}
	}
	s.closers = nil
	s.started = false
	s.logger.Info(context.Background(), "inference service stopped")
}

// ExtractFeatures computes the feature vector for one input.
func (s *Service) ExtractFeatures(ctx context.Context, in feature.Input) (feature.Vector, error) {
	return s.extractor.Extract(ctx, in)
}

// Train fits and activates a model for role from prepared examples.
func (s *Service) Train(ctx context.Context, role registry.Role, examples []estimator.Example) (*registry.TrainingReport, error) {
	return s.registry.Train(ctx, role, examples, 0)
}

// Predict extracts features for the input and serves the role's active model.
// The extraction mode is fixed by the role.
func (s *Service) Predict(ctx context.Context, role registry.Role, in feature.Input) (*registry.Prediction, error) {
	switch role {
	case registry.RoleDifficulty:
		in.Mode = feature.ModeQuestion
	case registry.RoleScore, registry.RoleComprehension:
		in.Mode = feature.ModeAnswer
	default:
		return nil, fmt.Errorf("%w: unknown role %q", registry.ErrInvalidInput, role)
	}

	vec, err := s.extractor.Extract(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.registry.Predict(ctx, role, vec)
}

// RecordAttempt appends one attempt to the store.
func (s *Service) RecordAttempt(ctx context.Context, a perf.Attempt) error {
	return s.attempts.Record(ctx, a)
}

// AggregatePerformance recomputes the difficulty summary for a question from
// its stored attempts.
func (s *Service) AggregatePerformance(ctx context.Context, questionID string) (perf.Summary, error) {
	records, err := s.attempts.ByQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, attempts.ErrNotFound) {
			return perf.Summary{}, fmt.Errorf("%w: question %s has no attempts", perf.ErrNotEnoughData, questionID)
		}
		return perf.Summary{}, err
	}
	summary, err := s.aggregator.Aggregate(questionID, records, s.cfg.MinAttempts)
	if err != nil {
		return perf.Summary{}, err
	}
	metrics.RecordAggregation()
	return summary, nil
}

// RunBatch applies op over items with the bounded worker pool.
func (s *Service) RunBatch(ctx context.Context, op batch.Op, items []batch.Item) (*batch.Report, error) {
	return s.orchestrator.Run(ctx, op, items)
}

func (s *Service) handleBatchItem(ctx context.Context, op batch.Op, item batch.Item) (any, error) {
	switch op {
	case batch.OpExtract:
		return s.ExtractFeatures(ctx, item.Input)
	case batch.OpPredictDifficulty:
		return s.Predict(ctx, registry.RoleDifficulty, item.Input)
	case batch.OpPredictScore:
		return s.Predict(ctx, registry.RoleScore, item.Input)
	default:
		return nil, batch.ErrUnknownOp
	}
}

// TrainFromAttempts builds training sets from the attempt store and trains
// all three roles. Difficulty labels come from aggregating each question's
// attempts; score targets are the recorded score ratios; comprehension
// clusters the answer vectors unlabeled. Questions without enough attempts
// for a difficulty label are skipped, not failed.
func (s *Service) TrainFromAttempts(ctx context.Context, questions []Question) (map[registry.Role]*registry.TrainingReport, error) {
	var (
		difficulty []estimator.Example
		score      []estimator.Example
		answers    []estimator.Example
	)

	for _, q := range questions {
		records, err := s.attempts.ByQuestion(ctx, q.ID)
		if err != nil {
			if errors.Is(err, attempts.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("fetch attempts for %s: %w", q.ID, err)
		}

		summary, err := s.aggregator.Aggregate(q.ID, records, s.cfg.MinAttempts)
		if err == nil {
			vec, exErr := s.extractor.Extract(ctx, feature.Input{
				Mode:         feature.ModeQuestion,
				Text:         q.Text,
				QuestionType: q.Type,
			})
			if exErr != nil {
				return nil, fmt.Errorf("extract question %s: %w", q.ID, exErr)
			}
			difficulty = append(difficulty, estimator.Example{
				Features: vec.Values,
				Label:    string(summary.Difficulty),
			})
		} else if !errors.Is(err, perf.ErrNotEnoughData) {
			return nil, fmt.Errorf("aggregate question %s: %w", q.ID, err)
		}

		for _, rec := range records {
			vec, exErr := s.extractor.Extract(ctx, feature.Input{
				Mode:      feature.ModeAnswer,
				Text:      rec.AnswerText,
				Question:  q.Text,
				Reference: q.Reference,
				TimeTaken: rec.TimeTaken,
			})
			if exErr != nil {
				return nil, fmt.Errorf("extract answer %s: %w", rec.ID, exErr)
			}
			score = append(score, estimator.Example{Features: vec.Values, Target: rec.ScoreRatio})
			answers = append(answers, estimator.Example{Features: vec.Values})
		}
	}

	sets := map[registry.Role][]estimator.Example{
		registry.RoleDifficulty:    difficulty,
		registry.RoleScore:         score,
		registry.RoleComprehension: answers,
	}

	reports := make(map[registry.Role]*registry.TrainingReport, len(sets))
	var errs []error
	for _, role := range registry.Roles() {
		report, err := s.registry.Train(ctx, role, sets[role], 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("train %s: %w", role, err))
			continue
		}
		reports[role] = report
	}
	return reports, errors.Join(errs...)
}

// SeedData populates the attempt store with synthetic questions and attempts
// and returns the question catalog for later training.
func (s *Service) SeedData(ctx context.Context, seedValue int64) ([]Question, int, error) {
	gen := seed.New(seedValue)
	seeded, total, err := gen.Populate(ctx, s.attempts)
	if err != nil {
		return nil, total, err
	}
	questions := make([]Question, len(seeded))
	for i, q := range seeded {
		questions[i] = Question{ID: q.ID, Text: q.Text, Type: q.Type, Reference: q.Reference}
	}
	return questions, total, nil
}

// ReviewFlags compares each question's aggregated difficulty against the
// active classifier's prediction and returns the disagreements.
func (s *Service) ReviewFlags(ctx context.Context, questions []Question) ([]ReviewFlag, error) {
	var flags []ReviewFlag
	for _, q := range questions {
		summary, err := s.AggregatePerformance(ctx, q.ID)
		if err != nil {
			if errors.Is(err, perf.ErrNotEnoughData) {
				continue
			}
			return nil, err
		}

		pred, err := s.Predict(ctx, registry.RoleDifficulty, feature.Input{
			Text:         q.Text,
			QuestionType: q.Type,
		})
		if err != nil {
			return nil, err
		}

		if perf.Disagreement(summary, perf.Difficulty(pred.Label)) {
			flags = append(flags, ReviewFlag{
				QuestionID: q.ID,
				Observed:   summary.Difficulty,
				Predicted:  pred.Label,
				Confidence: pred.Confidence,
			})
		}
	}
	return flags, nil
}

// Stats reports the active artifact of every role.
func (s *Service) Stats(_ context.Context) []RoleStatus {
	out := make([]RoleStatus, 0, len(registry.Roles()))
	for _, role := range registry.Roles() {
		status := RoleStatus{Role: role}
		if a := s.registry.Active(role); a != nil {
			status.Trained = true
			status.ArtifactID = a.ID
			status.Examples = a.Examples
			metrics := a.Metrics
			status.Metrics = &metrics
		}
		out = append(out, status)
	}
	return out
}
