package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/retester/internal/config"
	"github.com/nao1215/retester/internal/history"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/report"
	"github.com/nao1215/retester/internal/tester"
	"github.com/spf13/cobra"
)

// patternColumnWidth is the display width of the pattern column in --list.
const patternColumnWidth = 32

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, re-run or clear stored runs",
		Long: `History works with the runs stored by 'retester run' and 'retester suite'.

Without flags it lists the most recent runs.

Examples:
  # List the 20 most recent runs
  retester history --list

  # Show the report of run 5 as HTML
  retester history --show 5

  # Show run 5 as a plain text table parsed from its HTML report
  retester history --show 5 --text

  # Evaluate the request of run 5 again and store the new result
  retester history --rerun 5

  # Delete every stored run
  retester history --clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recent runs")
	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs listed (0 lists every run)")
	cmd.Flags().Int64P("show", "s", 0,
		"Show the stored output of the run with this ID")
	cmd.Flags().Int64P("rerun", "r", 0,
		"Evaluate the request of the run with this ID again")
	cmd.Flags().Bool("clear", false,
		"Delete every stored run")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (with --show or --rerun)")
	cmd.Flags().Bool("text", false,
		"Output plain text tables (with --show or --rerun)")
	cmd.MarkFlagsMutuallyExclusive("list", "show", "rerun", "clear")
	cmd.MarkFlagsMutuallyExclusive("json", "text")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DBDir == "" {
		return config.ErrNoDBDir
	}

	store, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}
	if clearAll {
		removed, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d runs from %s\n", removed, store.Path())
		return nil
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	textOutput, err := cmd.Flags().GetBool("text")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	if showID != 0 {
		run, err := store.Get(ctx, showID)
		if err != nil {
			return err
		}
		return showRun(out, run, jsonOutput, textOutput)
	}

	rerunID, err := cmd.Flags().GetInt64("rerun")
	if err != nil {
		return err
	}
	if rerunID != 0 {
		if jsonOutput || textOutput {
			cfg.JSONReport, cfg.MarkdownReport, cfg.TextReport = jsonOutput, false, textOutput
		}
		return rerun(ctx, cmd, cfg, store, rerunID)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return listRuns(ctx, out, store, limit)
}

// listRuns prints a table of the most recent runs.
func listRuns(ctx context.Context, w io.Writer, store *history.Store, limit int) error {
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored yet.")
		fmt.Fprintln(w, "\nUse 'retester run' to test a regular expression.")
		return nil
	}

	fmt.Fprintf(w, "Recent runs (%d):\n\n", len(runs))
	fmt.Fprintf(w, "  %-6s  %-19s  %-10s  %-7s  %s\n", "ID", "Date", "Status", "Samples", "Pattern")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60+patternColumnWidth-20))

	for _, run := range runs {
		fmt.Fprintf(w, "  %-6d  %-19s  %-10s  %-7d  %s\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			runStatus(run),
			run.SampleCount,
			runewidth.Truncate(strings.ReplaceAll(run.Pattern, "\n", " "), patternColumnWidth, "…"),
		)
	}

	fmt.Fprintln(w, "\nUse 'retester history --show <id>' to see a stored report.")
	return nil
}

// runStatus returns "ok" for a successful run and the failure kind otherwise.
func runStatus(run history.Summary) string {
	if run.Success {
		return "ok"
	}
	return run.Kind.String()
}

// showRun writes a stored output. The text form is rebuilt from the HTML
// report, so it shows exactly what the report showed.
func showRun(w io.Writer, run *history.Run, jsonOutput, textOutput bool) error {
	switch {
	case jsonOutput:
		_, err := report.NewJSONWriter(w, report.WithPrettyPrint()).Write(run.Output)
		return err
	case textOutput:
		return showOutline(w, run.Output)
	default:
		_, err := report.NewHTMLWriter(w).Write(run.Output)
		return err
	}
}

// showOutline parses the stored HTML report and prints it as text tables.
func showOutline(w io.Writer, out *model.TestOutput) error {
	if !out.Success {
		fmt.Fprintf(w, "FAILED (%s): %s\n\n", out.Kind, out.Message)
	}
	if out.Report == "" {
		return nil
	}

	outline, err := report.ParseOutline(strings.NewReader(out.Report))
	if err != nil {
		return fmt.Errorf("failed to parse stored report: %w", err)
	}
	_, err = report.NewSimpleWriter(w).WriteOutline(outline)
	return err
}

// rerun evaluates a stored request again, writes the new output and stores it.
func rerun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, store *history.Store, id int64) error {
	run, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	gen := tester.New(
		tester.WithLogger(logger),
		tester.WithMatchTimeout(cfg.MatchTimeout),
	)
	out := gen.RunContext(ctx, run.Request)

	if run.Output != nil && out.Report != run.Output.Report {
		logger.Warn("report differs from the stored run", "id", id)
	}

	if err := writeOutput(cmd, cfg, out); err != nil {
		return err
	}
	if cfg.History {
		saveRun(ctx, store, run.Request, out, logger)
	}

	if !out.Success {
		return failureError(out)
	}
	return nil
}
