// Package registry owns the lifecycle of the three served models:
// train, evaluate, persist, load, serve.
package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mindora/acumen/internal/domain/estimator"
	"github.com/mindora/acumen/internal/domain/feature"
)

// Role names one of the three served model roles.
type Role string

// Model roles.
const (
	RoleDifficulty    Role = "difficulty"
	RoleScore         Role = "score"
	RoleComprehension Role = "comprehension"
)

// Roles lists every role in a stable order.
func Roles() []Role {
	return []Role{RoleDifficulty, RoleScore, RoleComprehension}
}

// SchemaVersion returns the feature schema a role's models consume.
// The difficulty classifier reads question vectors; the score regressor and
// comprehension clusterer read answer vectors.
func (r Role) SchemaVersion() string {
	switch r {
	case RoleDifficulty:
		return feature.QuestionSchemaVersion
	case RoleScore, RoleComprehension:
		return feature.AnswerSchemaVersion
	default:
		return ""
	}
}

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	return r.SchemaVersion() != ""
}

// Metrics holds the evaluation results of one training run. Only the fields
// relevant to the role are populated. R2 may be negative for models worse
// than the mean predictor.
type Metrics struct {
	Accuracy  float64 `json:"accuracy,omitempty"`
	Precision float64 `json:"precision,omitempty"`
	Recall    float64 `json:"recall,omitempty"`
	F1        float64 `json:"f1,omitempty"`

	R2  float64 `json:"r2,omitempty"`
	MAE float64 `json:"mae,omitempty"`

	Cohesion float64 `json:"cohesion,omitempty"`
}

// Artifact is one trained, versioned estimator plus its metadata. Immutable
// once persisted; retraining produces a new artifact that atomically
// replaces the active pointer for its role.
type Artifact struct {
	ID              string             `json:"id"`
	Role            Role               `json:"role"`
	SchemaVersion   string             `json:"schema_version"`
	TrainedAt       time.Time          `json:"trained_at"`
	Examples        int                `json:"examples"`
	Hyperparameters map[string]float64 `json:"hyperparameters"`
	Metrics         Metrics            `json:"metrics"`
	Payload         json.RawMessage    `json:"payload"` // serialized estimator + scaler
}

// payload is the serialized estimator state inside an artifact.
type payload struct {
	Scaler     *estimator.Scaler            `json:"scaler"`
	Classifier *estimator.SoftmaxClassifier `json:"classifier,omitempty"`
	Regressor  *estimator.RidgeRegressor    `json:"regressor,omitempty"`
	KMeans     *estimator.KMeans            `json:"kmeans,omitempty"`
}

// Store persists artifacts. Implementations are external collaborators;
// failures surface to the caller untouched, retry policy lives with them.
type Store interface {
	// Save persists a new artifact and marks it active for its role.
	Save(ctx context.Context, artifact *Artifact) (string, error)

	// Load returns the active artifact for a role.
	// Returns ErrArtifactNotFound if the role has never been trained.
	Load(ctx context.Context, role Role) (*Artifact, error)

	// History returns every persisted artifact for a role, oldest first.
	History(ctx context.Context, role Role) ([]*Artifact, error)
}

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	Role       Role          `json:"role"`
	ArtifactID string        `json:"artifact_id"`
	Examples   int           `json:"examples"`
	TrainSize  int           `json:"train_size"`
	EvalSize   int           `json:"eval_size"`
	Metrics    Metrics       `json:"metrics"`
	TrainedAt  time.Time     `json:"trained_at"`
	Duration   time.Duration `json:"duration"`
}

// Prediction is one served inference. Fields are populated per role:
// difficulty fills Label/Probabilities, score fills Value, comprehension
// fills Cluster/Distances. Confidence is always set.
type Prediction struct {
	Role          Role               `json:"role"`
	ArtifactID    string             `json:"artifact_id"`
	Label         string             `json:"label,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Value         float64            `json:"value,omitempty"`
	Cluster       int                `json:"cluster,omitempty"`
	Distances     []float64          `json:"distances,omitempty"`
	Confidence    float64            `json:"confidence"`
}
