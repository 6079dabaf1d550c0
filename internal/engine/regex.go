package engine

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
)

// Group is one element of an exec result or of a split result.
type Group struct {
	// Name is the group name for named groups, empty otherwise.
	Name string

	// Value is the captured text. It is empty when Matched is false.
	Value string

	// Matched is false for optional groups that did not participate in the
	// match (JavaScript undefined).
	Matched bool
}

// Match is the result of one exec call.
type Match struct {
	// Index is the rune offset where the match starts.
	Index int

	// End is the rune offset just past the match.
	End int

	// Groups holds the full match at index 0 followed by every capture group.
	Groups []Group

	// LastIndex is the cursor value the engine leaves behind after this
	// match. It only moves for global or sticky patterns.
	LastIndex int
}

// Empty reports whether the match has zero length.
func (m *Match) Empty() bool {
	return m.Index == m.End
}

// Option configures Compile.
type Option func(*compileOptions)

type compileOptions struct {
	matchTimeout time.Duration
}

// WithMatchTimeout limits how long a single match attempt may run.
// Zero or a negative duration leaves regexp2's default (no timeout).
func WithMatchTimeout(d time.Duration) Option {
	return func(o *compileOptions) {
		o.matchTimeout = d
	}
}

// Regex is a compiled pattern together with its flags.
// It is immutable and safe for concurrent use.
type Regex struct {
	re     *regexp2.Regexp
	source string
	flags  Flags

	// named is true when the pattern declares at least one named group,
	// which enables $<name> in replacement templates.
	named bool

	// order is the positional group order, set for patterns with named groups.
	order []string
}

// Compile parses flags and compiles pattern with regexp2 in ECMAScript mode.
func Compile(pattern, flags string, opts ...Option) (*Regex, error) {
	co := compileOptions{}
	for _, opt := range opts {
		opt(&co)
	}

	f, err := ParseFlags(flags)
	if err != nil {
		return nil, err
	}

	re, err := regexp2.Compile(pattern, f.options())
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Flags: flags, Err: err}
	}
	if co.matchTimeout > 0 {
		re.MatchTimeout = co.matchTimeout
	}

	r := &Regex{
		re:     re,
		source: pattern,
		flags:  f,
	}
	for _, name := range re.GetGroupNames() {
		if !isGroupNumber(name) {
			r.named = true
			break
		}
	}
	if r.named {
		r.order = captureOrder(pattern)
	}

	return r, nil
}

// Source returns the pattern text.
func (r *Regex) Source() string {
	return r.source
}

// Flags returns the parsed flags.
func (r *Regex) Flags() Flags {
	return r.flags
}

// String returns the pattern in /source/flags literal form.
func (r *Regex) String() string {
	return "/" + r.source + "/" + r.flags.String()
}

// Test reports whether exec from a fresh cursor finds a match.
func (r *Regex) Test(s string) (bool, error) {
	m, err := r.exec([]rune(s), 0)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// Exec performs a single exec starting at lastIndex.
// Patterns without g or y ignore lastIndex and always search from 0, and
// leave it unchanged in the result. Exec returns nil when nothing matches.
func (r *Regex) Exec(s string, lastIndex int) (*Match, error) {
	return r.exec([]rune(s), lastIndex)
}

// ExecAll repeats exec from cursor 0 until it stops matching.
//
// After a zero-length match of a global or sticky pattern the next search
// starts one rune past the reported lastIndex; otherwise the cursor would
// never move. A pattern without g or y does not move its cursor at all, so
// its sequence holds at most one match.
func (r *Regex) ExecAll(s string) ([]Match, error) {
	return r.execAll([]rune(s))
}

func (r *Regex) execAll(text []rune) ([]Match, error) {
	var matches []Match
	cursor := 0

	for {
		m, err := r.exec(text, cursor)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return matches, nil
		}
		matches = append(matches, *m)

		if !r.flags.advancesCursor() {
			return matches, nil
		}
		cursor = m.LastIndex
		if m.Empty() {
			cursor++
		}
	}
}

// exec implements RegExp exec over a rune slice.
func (r *Regex) exec(text []rune, lastIndex int) (*Match, error) {
	from := lastIndex
	if !r.flags.advancesCursor() {
		from = 0
	}
	if from < 0 || from > len(text) {
		return nil, nil
	}

	m, err := r.search(text, from)
	if err != nil || m == nil {
		return nil, err
	}
	if r.flags.Sticky && m.Index != from {
		return nil, nil
	}

	result := r.convert(m)
	if r.flags.advancesCursor() {
		result.LastIndex = result.End
	} else {
		result.LastIndex = lastIndex
	}
	return result, nil
}

// search finds the leftmost match at or after from, ignoring the sticky flag.
func (r *Regex) search(text []rune, from int) (*regexp2.Match, error) {
	if from > len(text) {
		return nil, nil
	}
	return r.re.FindRunesMatchStartingAt(text, from)
}

// convert copies a regexp2 match into a Match.
func (r *Regex) convert(m *regexp2.Match) *Match {
	groups := r.groupsOf(m)
	result := &Match{
		Index:  m.Index,
		End:    m.Index + m.Length,
		Groups: make([]Group, len(groups)),
	}
	for i, g := range groups {
		result.Groups[i] = toGroup(g, i == 0)
	}
	return result
}

// group returns the capture named name and whether the pattern defines it.
func (m *Match) group(name string) (Group, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

func toGroup(g regexp2.Group, whole bool) Group {
	name := g.Name
	if isGroupNumber(name) {
		name = ""
	}
	if !whole && len(g.Captures) == 0 {
		return Group{Name: name}
	}
	return Group{Name: name, Value: g.String(), Matched: true}
}

func isGroupNumber(name string) bool {
	_, err := strconv.Atoi(name)
	return err == nil
}
