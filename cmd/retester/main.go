// Package main provides the entry point for the retester CLI.
//
// retester evaluates a regular expression against sample strings and writes
// a report of what test, replace, replaceAll, split and exec produce for
// each sample.
//
// Usage:
//
//	retester run PATTERN [SAMPLE...]
//	retester suite FILE
//	retester history --list
//
// See --help for all available options.
package main

// main is the entry point for retester.
func main() {
	Execute()
}
