package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for retester.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retester",
		Short: "Regular expression diagnostic report generator",
		Long: `retester evaluates a regular expression, a replacement string and optional
flags against a list of sample strings.

For every sample it reports whether the pattern matches, what replace,
replaceAll and split produce, and every match found by repeated exec with
its captured groups. The default output is an HTML table; JSON, Markdown
and plain text are also available.

Runs are stored in a local history database so they can be shown again
or re-evaluated later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to standard error as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .retester in current or home directory)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewSuiteCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
