package tester

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/retester/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of requests a BatchRunner evaluates at
// once when no WithConcurrency option is given.
const DefaultConcurrency = 4

// BatchRunner evaluates many requests concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchRunner struct {
	// generator produces each output. It is shared since it is stateless.
	generator *Generator

	// concurrency is the maximum number of concurrent requests.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent requests.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchRunner creates a BatchRunner that evaluates with generator.
// A nil generator is replaced by New().
func NewBatchRunner(generator *Generator, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		generator:   generator,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.generator == nil {
		b.generator = New()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// RunBatch evaluates reqs and returns their outputs in the same order.
//
// A failed request does not stop the others; its failure is in its output.
// The error is non-nil only when ctx is cancelled, in which case outputs
// of requests that never started are nil.
func (b *BatchRunner) RunBatch(ctx context.Context, reqs []*model.TestRequest) ([]*model.TestOutput, error) {
	outputs := make([]*model.TestOutput, len(reqs))

	err := b.RunBatchWithCallback(ctx, reqs, func(out *model.TestOutput, index int) {
		// Each index is written by exactly one goroutine.
		outputs[index] = out
	})

	return outputs, err
}

// RunBatchWithCallback evaluates reqs and calls callback for each output.
// This is useful for streaming results.
//
// The callback is called from the goroutine that finished the request, so
// it must be safe for concurrent use if it touches shared state.
func (b *BatchRunner) RunBatchWithCallback(
	ctx context.Context,
	reqs []*model.TestRequest,
	callback func(out *model.TestOutput, index int),
) error {
	b.logger.Info("starting batch",
		"total_requests", len(reqs),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			out := b.generator.RunContext(ctx, req)
			if !out.Success {
				b.logger.Warn("request failed",
					"index", i+1,
					"name", requestName(req),
					"kind", out.Kind.String(),
					"message", out.Message,
				)
			}

			callback(out, i)
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch complete",
		"total_requests", len(reqs),
		"elapsed", time.Since(startTime),
	)

	return err
}

func requestName(req *model.TestRequest) string {
	if req == nil {
		return ""
	}
	return req.Name
}
