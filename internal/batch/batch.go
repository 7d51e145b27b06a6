// Package batch applies extraction and prediction over item collections with
// a bounded worker pool. Results preserve input order and one item's failure
// never aborts the rest.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/pkg/logger"
	"github.com/mindora/acumen/pkg/metrics"
)

// Op names a batch operation.
type Op string

// Supported operations.
const (
	OpExtract           Op = "extract"
	OpPredictDifficulty Op = "predict_difficulty"
	OpPredictScore      Op = "predict_score"
)

// Valid reports whether op names a supported operation.
func (op Op) Valid() bool {
	switch op {
	case OpExtract, OpPredictDifficulty, OpPredictScore:
		return true
	}
	return false
}

// Item is one unit of batch work. ID is caller-assigned and echoed back in
// the matching result.
type Item struct {
	ID    string        `json:"id"`
	Input feature.Input `json:"input"`
}

// Handler executes one operation on one item. The orchestrator treats it as
// opaque; routing by op lives with the caller.
type Handler func(ctx context.Context, op Op, item Item) (any, error)

// Result is the outcome of one item, at the same index as its input.
type Result struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Output any    `json:"output,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Report summarizes a completed batch run.
type Report struct {
	Op        Op            `json:"op"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []Result      `json:"results"`
	Duration  time.Duration `json:"duration"`
}

// Orchestrator fans items out over a fixed pool of workers.
type Orchestrator struct {
	handler Handler
	workers int
	logger  logger.Logger
}

// New creates an orchestrator with configuration options.
func New(handler Handler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		handler: handler,
		workers: runtime.NumCPU(),
		logger:  logger.Get().Named("batch"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// Run executes op over items. The result slice preserves input order.
// Per-item failures are recorded in the report and the batch continues.
// Cancelling ctx stops dispatch; in-flight items complete and report their
// outcomes, undispatched items fail with the context error.
func (o *Orchestrator) Run(ctx context.Context, op Op, items []Item) (*Report, error) {
	if !op.Valid() {
		return nil, ErrUnknownOp
	}
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	start := time.Now()
	results := make([]Result, len(items))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = o.runOne(ctx, op, items[i])
			}
		}()
	}

dispatch:
	for i := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	// Items never dispatched carry the cancellation as their failure.
	if err := ctx.Err(); err != nil {
		for i := range results {
			if !results[i].OK && results[i].Err == "" {
				results[i] = Result{ID: items[i].ID, Err: err.Error()}
			}
		}
	}

	report := &Report{
		Op:       op,
		Total:    len(items),
		Results:  results,
		Duration: time.Since(start),
	}
	for _, r := range results {
		if r.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	metrics.RecordBatchDuration(float64(report.Duration.Milliseconds()))
	o.logger.Info(ctx, "batch complete",
		logger.String("op", string(op)),
		logger.Int("total", report.Total),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("failed", report.Failed),
		logger.Duration("duration", report.Duration),
	)
	return report, nil
}

func (o *Orchestrator) runOne(ctx context.Context, op Op, item Item) Result {
	out, err := o.handler(ctx, op, item)
	if err != nil {
		metrics.RecordBatchItem("failed")
		o.logger.Debug(ctx, "batch item failed",
			logger.String("op", string(op)),
			logger.String("item", item.ID),
			logger.Error(err),
		)
		return Result{ID: item.ID, Err: err.Error()}
	}
	metrics.RecordBatchItem("succeeded")
	return Result{ID: item.ID, OK: true, Output: out}
}
