// Package attempts stores student question attempts, the raw material for
// performance aggregation and difficulty training.
package attempts

import (
	"context"
	"errors"

	"github.com/mindora/acumen/internal/domain/perf"
)

// ErrNotFound is returned when a question has no recorded attempts.
var ErrNotFound = errors.New("no attempts recorded")

// Store persists attempts and serves them back grouped by question.
type Store interface {
	// Record appends one attempt.
	Record(ctx context.Context, a perf.Attempt) error

	// ByQuestion returns every attempt for a question in submission order.
	// Returns ErrNotFound when none exist.
	ByQuestion(ctx context.Context, questionID string) ([]perf.Attempt, error)

	// Questions lists the distinct question ids with at least one attempt.
	Questions(ctx context.Context) ([]string, error)
}
