package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the file loaders so
// callers can use errors.Is().
var (
	// ErrInvalidTimeout is returned when the match timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid match timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --text is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --text")

	// ErrUnknownReportFormat is returned for a format name other than
	// html, json, markdown or text.
	ErrUnknownReportFormat = errors.New("unknown report format: must be html, json, markdown or text")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history is enabled but no database directory is set")

	// ErrConfigNotFound is returned when the settings file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrSuiteNotFound is returned when the suite file does not exist.
	ErrSuiteNotFound = errors.New("suite file not found")

	// ErrEmptySuite is returned when a suite file has no cases.
	ErrEmptySuite = errors.New("suite has no cases")
)
