package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMatchTimeout bounds a single match attempt. It is far above
	// what any reasonable pattern needs and stops catastrophic backtracking
	// from hanging the command.
	DefaultMatchTimeout = 5 * time.Second

	// DefaultConcurrency is the number of suite cases evaluated at once.
	DefaultConcurrency = 4

	// DefaultHistoryLimit is the number of runs listed by "history --list".
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "retester"
)

// Config holds the options of a retester invocation.
// It is populated from defaults, then the settings file, then CLI flags.
type Config struct {
	// MatchTimeout bounds each match attempt. Must be positive.
	MatchTimeout time.Duration

	// Concurrency is the number of suite cases evaluated at once.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the settings file.
	// If empty, .retester is searched in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// JSONReport writes JSON instead of HTML.
	// At most one of JSONReport, MarkdownReport and TextReport may be set.
	JSONReport bool

	// MarkdownReport writes Markdown instead of HTML.
	MarkdownReport bool

	// TextReport writes aligned plain text instead of HTML.
	TextReport bool

	// ReportFile is the output file path. Empty means stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Standalone wraps HTML output in a complete document.
	Standalone bool

	// History saves every run to the history database.
	History bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/retester on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MatchTimeout: DefaultMatchTimeout,
		Concurrency:  DefaultConcurrency,
		History:      true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for retester.
// On Linux: ~/.local/share/retester
// On macOS: ~/Library/Application Support/retester
// On Windows: %LOCALAPPDATA%\retester
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for retester.
// On Linux: ~/.config/retester
// On macOS: ~/Library/Application Support/retester
// On Windows: %APPDATA%\retester
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Format returns the selected output format name.
func (c *Config) Format() string {
	switch {
	case c.JSONReport:
		return FormatJSON
	case c.MarkdownReport:
		return FormatMarkdown
	case c.TextReport:
		return FormatText
	default:
		return FormatHTML
	}
}

// SetFormat selects an output format by name, clearing the others.
func (c *Config) SetFormat(format string) error {
	switch format {
	case FormatHTML, "":
		c.JSONReport, c.MarkdownReport, c.TextReport = false, false, false
	case FormatJSON:
		c.JSONReport, c.MarkdownReport, c.TextReport = true, false, false
	case FormatMarkdown:
		c.JSONReport, c.MarkdownReport, c.TextReport = false, true, false
	case FormatText:
		c.JSONReport, c.MarkdownReport, c.TextReport = false, false, true
	default:
		return ErrUnknownReportFormat
	}
	return nil
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.MatchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.TextReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.History && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
