package batch

import "errors"

var (
	// ErrEmptyBatch marks a run with no items. Structural, not per-item.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrUnknownOp marks an operation the orchestrator cannot route.
	ErrUnknownOp = errors.New("unknown batch operation")
)
