package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mindora/acumen/internal/domain/estimator"
	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/pkg/logger"
	"github.com/mindora/acumen/pkg/metrics"
)

// Default training sample floors, caller-overridable per call.
const (
	DefaultMinSamples           = 10
	DefaultMinClusteringSamples = 20
	DefaultClusterCount         = 5
)

// active is the decoded, read-only servable state for one role. Predictions
// read it through an atomic pointer; a training swap replaces the whole
// struct, so in-flight reads keep serving the artifact they started with.
type active struct {
	artifact   *Artifact
	scaler     *estimator.Scaler
	classifier *estimator.SoftmaxClassifier
	regressor  *estimator.RidgeRegressor
	kmeans     *estimator.KMeans
}

// Registry manages training, persistence and serving for the three roles.
// Predict is safe for unbounded concurrency; Train is serialized per role.
type Registry struct {
	store        Store
	clusterCount int
	minSamples   map[Role]int
	logger       logger.Logger

	trainMu map[Role]*sync.Mutex
	served  map[Role]*atomic.Pointer[active]
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithClusterCount sets K for the comprehension clusterer.
func WithClusterCount(k int) Option {
	return func(r *Registry) {
		if k >= estimator.MinClusters && k <= estimator.MaxClusters {
			r.clusterCount = k
		}
	}
}

// WithMinSamples overrides the default sample floor for a role.
func WithMinSamples(role Role, n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.minSamples[role] = n
		}
	}
}

// WithLogger sets a custom logger for the registry.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Registry backed by the given artifact store.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store:        store,
		clusterCount: DefaultClusterCount,
		minSamples: map[Role]int{
			RoleDifficulty:    DefaultMinSamples,
			RoleScore:         DefaultMinSamples,
			RoleComprehension: DefaultMinClusteringSamples,
		},
		trainMu: make(map[Role]*sync.Mutex),
		served:  make(map[Role]*atomic.Pointer[active]),
	}
	for _, role := range Roles() {
		r.trainMu[role] = &sync.Mutex{}
		r.served[role] = &atomic.Pointer[active]{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadActive hydrates the active pointers from the store. A role with no
// persisted artifact is left unserved; that is not an error at load time.
func (r *Registry) LoadActive(ctx context.Context) error {
	for _, role := range Roles() {
		artifact, err := r.store.Load(ctx, role)
		if err != nil {
			if errors.Is(err, ErrArtifactNotFound) {
				continue
			}
			return fmt.Errorf("%w: load %s: %w", ErrUpstream, role, err)
		}
		a, err := decode(artifact)
		if err != nil {
			return fmt.Errorf("decode %s artifact %s: %w", role, artifact.ID, err)
		}
		r.served[role].Store(a)
		if r.logger != nil {
			r.logger.Info(ctx, "loaded active artifact",
				logger.String("role", string(role)),
				logger.String("artifactID", artifact.ID),
			)
		}
	}
	return nil
}

// Train fits a new model for role, evaluates it on a held-out partition,
// persists the artifact and atomically swaps the active pointer. Nothing is
// persisted or swapped on any failure. minSamples <= 0 uses the role default.
func (r *Registry) Train(ctx context.Context, role Role, examples []estimator.Example, minSamples int) (*TrainingReport, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if minSamples <= 0 {
		minSamples = r.minSamples[role]
	}
	if len(examples) < minSamples {
		metrics.RecordTrainingError(string(role))
		return nil, fmt.Errorf("%w: role %s has %d examples, need %d", ErrInsufficientData, role, len(examples), minSamples)
	}

	// Exclusive per role from fit through swap; other roles train freely
	// and predictions are never blocked.
	mu := r.trainMu[role]
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()

	train, eval := estimator.Split(examples)
	scaler := estimator.FitScaler(estimator.Features(train))

	a := &active{scaler: scaler}
	trainSize, evalSize := len(train), len(eval)
	var m Metrics
	var hyper map[string]float64
	var err error
	switch role {
	case RoleDifficulty:
		m, hyper, err = r.fitClassifier(a, scaler, train, eval)
	case RoleScore:
		m, hyper, err = r.fitRegressor(a, scaler, train, eval)
	case RoleComprehension:
		// Unsupervised: no held-out partition, cohesion scores the full set.
		m, hyper, err = r.fitClusterer(a, scaler, examples)
		trainSize, evalSize = len(examples), 0
	}
	if err != nil {
		metrics.RecordTrainingError(string(role))
		return nil, err
	}

	blob, err := json.Marshal(payload{
		Scaler:     a.scaler,
		Classifier: a.classifier,
		Regressor:  a.regressor,
		KMeans:     a.kmeans,
	})
	if err != nil {
		metrics.RecordTrainingError(string(role))
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	artifact := &Artifact{
		ID:              uuid.New().String(),
		Role:            role,
		SchemaVersion:   role.SchemaVersion(),
		TrainedAt:       time.Now().UTC(),
		Examples:        len(examples),
		Hyperparameters: hyper,
		Metrics:         m,
		Payload:         blob,
	}

	if _, err := r.store.Save(ctx, artifact); err != nil {
		metrics.RecordTrainingError(string(role))
		return nil, fmt.Errorf("%w: save %s artifact: %w", ErrUpstream, role, err)
	}

	// Single atomic swap; concurrent predictions that already loaded the
	// previous artifact finish against it.
	a.artifact = artifact
	r.served[role].Store(a)

	elapsed := time.Since(start)
	metrics.RecordTraining(string(role))
	metrics.RecordTrainingLatency(string(role), float64(elapsed.Milliseconds()))
	metrics.UpdateTrainingExamples(string(role), len(examples))
	if r.logger != nil {
		r.logger.Info(ctx, "trained model",
			logger.String("role", string(role)),
			logger.String("artifactID", artifact.ID),
			logger.Int("examples", len(examples)),
			logger.Duration("duration", elapsed),
		)
	}

	return &TrainingReport{
		Role:       role,
		ArtifactID: artifact.ID,
		Examples:   len(examples),
		TrainSize:  trainSize,
		EvalSize:   evalSize,
		Metrics:    m,
		TrainedAt:  artifact.TrainedAt,
		Duration:   elapsed,
	}, nil
}

// Predict serves one inference for role. Fails with ErrModelNotAvailable
// when no active artifact exists or the vector's schema version does not
// match the artifact's; a mismatch is a hard failure, never silently mapped.
func (r *Registry) Predict(ctx context.Context, role Role, vector feature.Vector) (*Prediction, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	a := r.served[role].Load()
	if a == nil {
		metrics.RecordPredictionError(string(role))
		return nil, fmt.Errorf("%w: no active artifact for role %s", ErrModelNotAvailable, role)
	}
	if vector.SchemaVersion != a.artifact.SchemaVersion {
		metrics.RecordPredictionError(string(role))
		return nil, fmt.Errorf("%w: schema mismatch: artifact %s has %q, vector has %q",
			ErrModelNotAvailable, a.artifact.ID, a.artifact.SchemaVersion, vector.SchemaVersion)
	}

	start := time.Now()
	x := a.scaler.Transform(vector.Values)
	p := &Prediction{Role: role, ArtifactID: a.artifact.ID}

	switch role {
	case RoleDifficulty:
		label, probs := a.classifier.Predict(x)
		p.Label = label
		p.Probabilities = probs
		p.Confidence = probs[label]
	case RoleScore:
		p.Value = a.regressor.Predict(x)
		// Regression has no class distribution; report confidence from the
		// artifact's held-out error instead.
		p.Confidence = math.Max(0, math.Min(1, 1-a.artifact.Metrics.MAE))
	case RoleComprehension:
		cluster, dist, all := a.kmeans.Assign(x)
		p.Cluster = cluster
		p.Distances = all
		p.Confidence = estimator.Confidence(dist)
	}

	metrics.RecordPrediction(string(role))
	metrics.RecordPredictionLatency(string(role), float64(time.Since(start).Milliseconds()))
	return p, nil
}

// Active returns the active artifact metadata for a role, or nil.
func (r *Registry) Active(role Role) *Artifact {
	if !role.Valid() {
		return nil
	}
	if a := r.served[role].Load(); a != nil {
		return a.artifact
	}
	return nil
}

// fitClassifier trains and evaluates the difficulty classifier.
func (r *Registry) fitClassifier(a *active, scaler *estimator.Scaler, train, eval []estimator.Example) (Metrics, map[string]float64, error) {
	labels := make([]string, len(train))
	for i, ex := range train {
		labels[i] = ex.Label
	}
	clf, err := estimator.FitClassifier(scaler.TransformAll(estimator.Features(train)), labels)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	a.classifier = clf

	predicted := make([]string, len(eval))
	actual := make([]string, len(eval))
	for i, ex := range eval {
		predicted[i], _ = clf.Predict(scaler.Transform(ex.Features))
		actual[i] = ex.Label
	}
	precision, recall, f1 := estimator.MacroPRF(predicted, actual)
	m := Metrics{
		Accuracy:  estimator.Accuracy(predicted, actual),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
	return m, map[string]float64{"classes": float64(len(clf.Classes))}, nil
}

// fitRegressor trains and evaluates the score regressor.
func (r *Registry) fitRegressor(a *active, scaler *estimator.Scaler, train, eval []estimator.Example) (Metrics, map[string]float64, error) {
	targets := make([]float64, len(train))
	for i, ex := range train {
		targets[i] = ex.Target
	}
	reg, err := estimator.FitRegressor(scaler.TransformAll(estimator.Features(train)), targets)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	a.regressor = reg

	predicted := make([]float64, len(eval))
	actual := make([]float64, len(eval))
	for i, ex := range eval {
		predicted[i] = reg.Predict(scaler.Transform(ex.Features))
		actual[i] = ex.Target
	}
	m := Metrics{
		R2:  estimator.RSquared(predicted, actual),
		MAE: estimator.MeanAbsoluteError(predicted, actual),
	}
	return m, map[string]float64{"weights": float64(len(reg.Weights))}, nil
}

// fitClusterer trains and scores the comprehension clusterer. Clustering is
// unsupervised, so the full example set is used and cohesion replaces a
// held-out evaluation.
func (r *Registry) fitClusterer(a *active, scaler *estimator.Scaler, examples []estimator.Example) (Metrics, map[string]float64, error) {
	rows := scaler.TransformAll(estimator.Features(examples))
	km, err := estimator.FitKMeans(rows, r.clusterCount)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	a.kmeans = km

	m := Metrics{Cohesion: estimator.Cohesion(km, rows)}
	return m, map[string]float64{"k": float64(km.K)}, nil
}

// decode rebuilds servable state from a persisted artifact.
func decode(artifact *Artifact) (*active, error) {
	var p payload
	if err := json.Unmarshal(artifact.Payload, &p); err != nil {
		return nil, err
	}
	if p.Scaler == nil {
		return nil, fmt.Errorf("artifact %s has no scaler", artifact.ID)
	}
	return &active{
		artifact:   artifact,
		scaler:     p.Scaler,
		classifier: p.Classifier,
		regressor:  p.Regressor,
		kmeans:     p.KMeans,
	}, nil
}
