package batch

import "github.com/mindora/acumen/pkg/logger"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
