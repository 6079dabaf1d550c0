package engine

import (
	"errors"
	"fmt"
)

// ErrNonGlobalReplaceAll is returned by ReplaceAll when the pattern was
// compiled without the g flag.
var ErrNonGlobalReplaceAll = errors.New("replaceAll must be called with a global RegExp")

// FlagError is returned when a flags string contains an unknown flag,
// repeats a flag, or combines flags that exclude each other.
type FlagError struct {
	// Flags is the rejected flags string as given by the caller.
	Flags string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return fmt.Sprintf("invalid flags supplied to RegExp constructor '%s'", e.Flags)
}

// CompileError is returned when regexp2 rejects the pattern.
type CompileError struct {
	Pattern string
	Flags   string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid regular expression: /%s/%s: %v", e.Pattern, e.Flags, e.Err)
}

// Unwrap returns the underlying regexp2 parse error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
