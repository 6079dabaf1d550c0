package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/retester/internal/config"
	"github.com/nao1215/retester/internal/history"
	"github.com/nao1215/retester/internal/log"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/report"
	"github.com/spf13/cobra"
)

// errTestFailed is returned when a request produced a failed output.
// The report is still written before it is returned.
var errTestFailed = errors.New("regex test failed")

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds a Config from defaults and the settings file.
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise the file is optional.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if flag := cmd.Flags().Lookup("config"); flag != nil {
		cfg.ConfigFilePath = flag.Value.String()
	}

	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// applyFormatFlags overrides the configured format when any of --json,
// --markdown or --text was given on the command line.
func applyFormatFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := false
	for _, name := range []string{"json", "markdown", "text"} {
		if cmd.Flags().Changed(name) {
			changed = true
		}
	}
	if !changed {
		return nil
	}

	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.TextReport, err = cmd.Flags().GetBool("text"); err != nil {
		return err
	}
	return nil
}

// addFormatFlags registers the output format flags shared by run and suite.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown and --text)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json and --text)")
	cmd.Flags().Bool("text", false,
		"Output plain text tables (mutually exclusive with --json and --markdown)")
	cmd.Flags().Bool("standalone", false,
		"Wrap the HTML report in a complete HTML document")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultMatchTimeout,
		"Maximum time a single match may take")
	cmd.Flags().Bool("no-history", false,
		"Do not store the run in the history database")
}

// applyOutputFlags copies the shared output flags into cfg.
// Flags left at their defaults keep the values from the settings file.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) error {
	if err := applyFormatFlags(cmd, cfg); err != nil {
		return err
	}

	var err error
	if cfg.Standalone, err = cmd.Flags().GetBool("standalone"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.MatchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return err
	}
	if noHistory {
		cfg.History = false
	}
	return nil
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch cfg.Format() {
	case config.FormatJSON:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(w)
	case config.FormatText:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	default:
		var opts []report.HTMLWriterOption
		if cfg.Standalone {
			opts = append(opts, report.WithStandalone("Regex Test Results"))
		}
		return report.NewHTMLWriter(w, opts...)
	}
}

// openOutput returns the report destination: the configured report file,
// or the command's standard output. The returned function closes the file.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Samples may hold pasted secrets, so the report is owner-readable only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// setupLogger creates a structured logger that writes to the command's
// standard error, as text or, with --log-json, as JSON lines.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if flag := cmd.Flags().Lookup("log-json"); flag != nil && flag.Value.String() == "true" {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// openHistory opens the history database when history is enabled.
// It returns nil when history is disabled.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History {
		return nil, nil
	}
	store, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}

// saveRun stores a run in the history database if one is open.
// A failure to save is logged and does not fail the command.
func saveRun(ctx context.Context, store *history.Store, req *model.TestRequest, out *model.TestOutput, logger *slog.Logger) {
	if store == nil {
		return
	}
	id, err := store.Save(ctx, req, out)
	if err != nil {
		logger.Error("failed to save run", "pattern", req.Pattern, "error", err)
		return
	}
	logger.Debug("run saved to history", "id", id, "pattern", req.Pattern)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// failureError describes a failed output for the exit status.
func failureError(out *model.TestOutput) error {
	return fmt.Errorf("%w (%s): %s", errTestFailed, out.Kind, out.Message)
}
