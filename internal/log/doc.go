// Package log provides the slog setup shared by retester commands.
//
// Patterns and samples are user input, and users tend to paste real log
// lines and HTTP headers into a regex tester. The Handler therefore
// sanitizes every record before it reaches the underlying slog handler:
//   - Attributes whose key names a secret (token, password, cookie, ...)
//     are replaced with MaskValue
//   - String values that look like credentials (JWTs, bearer tokens,
//     private key blocks) are replaced with MaskValue
//   - Long string values are cut to MaxValueLength runes
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("evaluated sample", "input", sample)
package log
