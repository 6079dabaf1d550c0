package tester

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/retester/internal/engine"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/report"
)

// Message prefixes of compile and evaluation failures.
const (
	compileFailurePrefix    = "Unable to create RegExp object: "
	evaluationFailurePrefix = "Unable to run tests: "
)

// Generator turns requests into reports.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	// logger is used for structured logging during generation.
	logger *slog.Logger

	// matchTimeout bounds each match attempt. Zero means no limit.
	matchTimeout time.Duration
}

// Option is a function that configures a Generator.
type Option func(*Generator)

// WithLogger sets a custom logger.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithMatchTimeout limits how long a single match attempt may run.
// A pattern that backtracks past the limit fails the request with an
// evaluation failure instead of hanging.
func WithMatchTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.matchTimeout = d
	}
}

// New creates a Generator with the given options.
func New(opts ...Option) *Generator {
	g := &Generator{}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Run generates the report for req.
func (g *Generator) Run(req *model.TestRequest) *model.TestOutput {
	return g.RunContext(context.Background(), req)
}

// RunContext generates the report for req, checking ctx between samples.
// Cancellation ends the request with an evaluation failure that keeps the
// rows rendered so far.
func (g *Generator) RunContext(ctx context.Context, req *model.TestRequest) (out *model.TestOutput) {
	if err := req.Validate(); err != nil {
		g.logger.Debug("rejected request", "reason", err)
		return model.NewFailure(model.FailureValidation, err.Error(), "", nil)
	}

	flags := req.FlagString()
	html := report.NewHTMLBuilder()
	html.WriteHeader(req.Pattern, req.Replacement, flags)

	re, err := engine.Compile(req.Pattern, flags, engine.WithMatchTimeout(g.matchTimeout))
	if err != nil {
		g.logger.Debug("pattern did not compile",
			"pattern", req.Pattern,
			"flags", flags,
			"error", err,
		)
		return model.NewFailure(model.FailureCompile, compileFailurePrefix+err.Error(), html.String(), nil)
	}

	eval := &model.Evaluation{
		Pattern:     req.Pattern,
		Replacement: req.Replacement,
		Flags:       flags,
		Samples:     make([]model.SampleResult, 0, len(req.Samples)),
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("report generation panicked",
				"pattern", req.Pattern,
				"panic", r,
			)
			out = model.NewFailure(model.FailureEvaluation,
				fmt.Sprintf("%s%v", evaluationFailurePrefix, r), html.String(), eval)
		}
	}()

	html.BeginResults()

	for i, sample := range req.Samples {
		if sample == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return g.evaluationFailure(req, err, html, eval)
		}

		res, err := evaluateSample(re, req.Replacement, sample, i+1)
		if err != nil {
			return g.evaluationFailure(req, err, html, eval)
		}

		eval.Samples = append(eval.Samples, *res)
		html.WriteSample(res)

		g.logger.Debug("evaluated sample",
			"row", res.Row,
			"test", res.Test,
			"matches", len(res.Matches),
		)
	}

	html.EndResults()

	return model.NewSuccess(html.String(), eval)
}

func (g *Generator) evaluationFailure(req *model.TestRequest, err error, html *report.HTMLBuilder, eval *model.Evaluation) *model.TestOutput {
	g.logger.Warn("evaluation failed",
		"pattern", req.Pattern,
		"rows_rendered", html.Rows(),
		"error", err,
	)
	return model.NewFailure(model.FailureEvaluation, evaluationFailurePrefix+err.Error(), html.String(), eval)
}
