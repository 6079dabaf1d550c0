package model

import (
	"errors"
	"strings"
)

// ErrNoPattern is returned by TestRequest.Validate when the pattern is empty.
// Its text is the message shown to the user.
var ErrNoPattern = errors.New("No regex to test!") //nolint:staticcheck // user-facing message

// TestRequest is the input of one report generation.
type TestRequest struct {
	// Name is an optional label, e.g. the case name in a suite file.
	// It does not appear in the HTML report.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Pattern is the regular expression source text.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Replacement is the replace template. $1, $& and friends are expanded.
	Replacement string `json:"replacement" yaml:"replacement"`

	// Flags holds single-character flag tokens such as "g" and "i".
	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Samples are the inputs to test, in order. Empty entries are skipped
	// but still consume a row number.
	Samples []string `json:"samples" yaml:"samples"`
}

// FlagString joins Flags into the flags string passed to the engine.
func (r *TestRequest) FlagString() string {
	return strings.Join(r.Flags, "")
}

// Validate checks that the request has something to test.
// A nil request is invalid. Empty samples are accepted.
func (r *TestRequest) Validate() error {
	if r == nil || r.Pattern == "" {
		return ErrNoPattern
	}
	return nil
}

// Evaluated returns how many samples are non-empty and will get a row.
func (r *TestRequest) Evaluated() int {
	n := 0
	for _, s := range r.Samples {
		if s != "" {
			n++
		}
	}
	return n
}
