package feature

import "errors"

// Sentinel kinds for extraction errors.
var (
	// ErrInvalidInput marks structurally malformed extraction input, such as
	// an unknown mode. Malformed-but-typed text is never an error.
	ErrInvalidInput = errors.New("invalid extraction input")

	// ErrUpstream marks a failure in an injected capability (annotator or
	// sentiment scorer). The extractor never retries; callers own policy.
	ErrUpstream = errors.New("upstream capability failed")
)
