// Package model defines the data structures shared by retester packages.
//
// This package contains the following main types:
//   - TestRequest: A pattern, replacement, flags and samples to evaluate
//   - TestOutput: The result of one request, either a report or a failure
//   - Evaluation: The structured per-sample results a report is rendered from
//   - FailureKind: Which stage of report generation failed
//
// Multiple packages (tester, report, history, cmd) use these types, so they
// live here to avoid import cycles. Every type serializes to JSON for the
// --json output and for the history database.
package model
