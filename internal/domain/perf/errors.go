package perf

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrNotEnoughData marks an aggregation request below the attempt floor.
	ErrNotEnoughData = errors.New("not enough attempts to aggregate")

	// ErrInvalidInput marks attempt records violating their invariants
	// (score ratio outside [0,1], negative time taken).
	ErrInvalidInput = errors.New("invalid attempt record")
)
