package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	// ErrInsufficientData marks a training request below the sample floor.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrModelNotAvailable marks a predict request with no servable model:
	// no active artifact, or a feature schema version mismatch.
	ErrModelNotAvailable = errors.New("model not available")

	// ErrArtifactNotFound is returned by stores when a role has no artifact.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrUpstream marks an artifact store failure. The registry never
	// retries and never persists partial state.
	ErrUpstream = errors.New("artifact store failed")

	// ErrInvalidInput marks malformed training or prediction input.
	ErrInvalidInput = errors.New("invalid registry input")
)
