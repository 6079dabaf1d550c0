package main

import (
	"fmt"
	"io"

	"github.com/nao1215/retester/internal/config"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/report"
	"github.com/nao1215/retester/internal/tester"
	"github.com/spf13/cobra"
)

// NewSuiteCmd creates the suite command.
func NewSuiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite FILE",
		Short: "Run every case of a YAML suite file",
		Long: `Suite evaluates every case of a YAML suite file concurrently and writes
the outputs in the order the cases appear in the file.

Suite file example:
  name: email addresses
  cases:
    - name: swap user and domain
      pattern: '(\w+)@(\w+)\.com'
      replacement: '$2 at $1'
      flags: gi
      samples:
        - alice@example.com
        - no address here
    - pattern: '^\S+$'
      flags: [m]
      samples: ["one", "two words"]

The command exits with status 1 if any case fails.

Examples:
  # Run a suite with the default concurrency
  retester suite regexes.yaml

  # Run 8 cases at a time and write Markdown
  retester suite -b 8 --markdown regexes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runSuiteCmd,
	}

	cmd.Flags().IntP("batch", "b", config.DefaultConcurrency,
		"Number of cases evaluated at once")
	addFormatFlags(cmd)

	return cmd
}

// runSuiteCmd executes the suite command.
func runSuiteCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("batch") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("batch"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	suite, err := config.LoadSuiteFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load suite %s: %w", args[0], err)
	}
	reqs := suite.Requests()

	logger := setupLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	runner := tester.NewBatchRunner(
		tester.New(
			tester.WithLogger(logger),
			tester.WithMatchTimeout(cfg.MatchTimeout),
		),
		tester.WithConcurrency(cfg.Concurrency),
		tester.WithBatchLogger(logger),
	)

	outs, err := runner.RunBatch(ctx, reqs)
	if err != nil {
		return fmt.Errorf("suite interrupted: %w", err)
	}

	w, closeFn, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	failed, err := writeSuite(w, cfg, reqs, outs)
	if err != nil {
		_ = closeFn() //nolint:errcheck // The write error is more useful
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}

	for i, out := range outs {
		saveRun(ctx, store, reqs[i], out, logger)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d cases failed", errTestFailed, failed, len(outs))
	}
	return nil
}

// writeSuite writes every output preceded by its case name and returns the
// number of failed outputs.
func writeSuite(w io.Writer, cfg *config.Config, reqs []*model.TestRequest, outs []*model.TestOutput) (int, error) {
	writer := newWriter(cfg, w)
	failed := 0

	for i, out := range outs {
		if !out.Success {
			failed++
		}
		if err := writeCaseTitle(w, cfg.Format(), reqs[i].Name); err != nil {
			return failed, err
		}
		if _, err := writer.Write(out); err != nil {
			return failed, fmt.Errorf("failed to write report for %s: %w", reqs[i].Name, err)
		}
	}
	return failed, nil
}

// writeCaseTitle writes a heading naming a suite case in the given format.
func writeCaseTitle(w io.Writer, format, name string) error {
	var err error
	switch format {
	case config.FormatJSON:
		// JSON documents are written back to back in case order.
	case config.FormatMarkdown:
		_, err = fmt.Fprintf(w, "## Case: %s\n\n", name)
	case config.FormatText:
		_, err = fmt.Fprintf(w, "=== %s ===\n", name)
	default:
		_, err = fmt.Fprintf(w, "<h2>%s</h2>\n", report.Escape(name))
	}
	return err
}
