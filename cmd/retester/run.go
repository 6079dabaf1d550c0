package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/retester/internal/config"
	"github.com/nao1215/retester/internal/model"
	"github.com/nao1215/retester/internal/tester"
	"github.com/spf13/cobra"
)

// maxSampleLine is the longest sample line accepted from --input.
const maxSampleLine = 1024 * 1024

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PATTERN [SAMPLE...]",
		Short: "Test a regular expression against sample strings",
		Long: `Run evaluates PATTERN against every SAMPLE and writes a report.

For each sample the report shows:
- Whether the pattern matches (test)
- The result of replace and replaceAll with the replacement string
- The result of split
- Every match found by repeated exec, with its captured groups

Empty samples are skipped. The command exits with status 1 when the
pattern cannot be compiled or the evaluation fails; the partial report
is still written.

Examples:
  # Test a pattern against two samples
  retester run 'a+' aaa bbb

  # Swap two words, replacing every match
  retester run -f g -r '$2 $1' '(\w+) (\w+)' 'hello world'

  # Read samples from a file, one per line
  retester run -i samples.txt '\d{4}-\d{2}-\d{2}'

  # Read samples from standard input and print a text table
  cat access.log | retester run -i - --text 'GET (\S+)'

  # Write a standalone HTML page
  retester run --standalone -o report.html 'x*' xxx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("replacement", "r", "",
		"Replacement string ($1, $<name>, $&, $`, $' and $$ are expanded)")
	cmd.Flags().StringP("flags", "f", "",
		"Regular expression flags (any of d, g, i, m, s, u, y)")
	cmd.Flags().StringP("input", "i", "",
		"Read additional samples from a file, one per line (- for standard input)")
	addFormatFlags(cmd)

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

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

	gen := tester.New(
		tester.WithLogger(logger),
		tester.WithMatchTimeout(cfg.MatchTimeout),
	)
	out := gen.RunContext(ctx, req)

	if err := writeOutput(cmd, cfg, out); err != nil {
		return err
	}
	saveRun(ctx, store, req, out, logger)

	if !out.Success {
		return failureError(out)
	}
	return nil
}

// buildRequest creates a TestRequest from the command flags and arguments.
func buildRequest(cmd *cobra.Command, args []string) (*model.TestRequest, error) {
	replacement, err := cmd.Flags().GetString("replacement")
	if err != nil {
		return nil, err
	}
	flags, err := cmd.Flags().GetString("flags")
	if err != nil {
		return nil, err
	}
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return nil, err
	}

	samples := append([]string{}, args[1:]...)
	if input != "" {
		lines, err := readSamples(cmd, input)
		if err != nil {
			return nil, err
		}
		samples = append(samples, lines...)
	}

	return &model.TestRequest{
		Pattern:     args[0],
		Replacement: replacement,
		Flags:       strings.Split(flags, ""),
		Samples:     samples,
	}, nil
}

// readSamples reads one sample per line from path, or from the command's
// standard input when path is "-".
func readSamples(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("input file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var samples []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSampleLine)
	for scanner.Scan() {
		samples = append(samples, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return samples, nil
}

// writeOutput writes one output to the configured destination.
func writeOutput(cmd *cobra.Command, cfg *config.Config, out *model.TestOutput) error {
	w, closeFn, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}

	if _, err := newWriter(cfg, w).Write(out); err != nil {
		_ = closeFn() //nolint:errcheck // The write error is more useful
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeFn()
}
