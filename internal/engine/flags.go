package engine

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Flags holds parsed RegExp flags.
type Flags struct {
	HasIndices  bool // d
	Global      bool // g
	IgnoreCase  bool // i
	Multiline   bool // m
	DotAll      bool // s
	Unicode     bool // u
	UnicodeSets bool // v
	Sticky      bool // y
}

// ParseFlags parses a flags string such as "gi".
// Each flag may appear at most once, and u and v are mutually exclusive.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	seen := make(map[rune]bool, len(s))

	for _, c := range s {
		if seen[c] {
			return Flags{}, &FlagError{Flags: s}
		}
		seen[c] = true

		switch c {
		case 'd':
			f.HasIndices = true
		case 'g':
			f.Global = true
		case 'i':
			f.IgnoreCase = true
		case 'm':
			f.Multiline = true
		case 's':
			f.DotAll = true
		case 'u':
			f.Unicode = true
		case 'v':
			f.UnicodeSets = true
		case 'y':
			f.Sticky = true
		default:
			return Flags{}, &FlagError{Flags: s}
		}
	}

	if f.Unicode && f.UnicodeSets {
		return Flags{}, &FlagError{Flags: s}
	}

	return f, nil
}

// String returns the flags in canonical "dgimsuvy" order.
func (f Flags) String() string {
	var sb strings.Builder
	for _, flag := range []struct {
		set  bool
		char byte
	}{
		{f.HasIndices, 'd'},
		{f.Global, 'g'},
		{f.IgnoreCase, 'i'},
		{f.Multiline, 'm'},
		{f.DotAll, 's'},
		{f.Unicode, 'u'},
		{f.UnicodeSets, 'v'},
		{f.Sticky, 'y'},
	} {
		if flag.set {
			sb.WriteByte(flag.char)
		}
	}
	return sb.String()
}

// advancesCursor reports whether exec reads and updates lastIndex.
func (f Flags) advancesCursor() bool {
	return f.Global || f.Sticky
}

// options maps the flags onto regexp2 options.
// g and y are cursor semantics implemented by Regex; d has no engine effect.
func (f Flags) options() regexp2.RegexOptions {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if f.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	if f.Multiline {
		opts |= regexp2.Multiline
	}
	if f.DotAll {
		opts |= regexp2.Singleline
	}
	if f.Unicode || f.UnicodeSets {
		opts |= regexp2.Unicode
	}
	return opts
}
