package model

// Evaluation is the structured form of a report.
type Evaluation struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`

	// Flags is the joined flags string, empty when no flags were given.
	Flags string `json:"flags"`

	// Samples holds one result per non-empty sample, in input order.
	Samples []SampleResult `json:"samples"`
}

// SampleResult holds everything reported for one sample.
type SampleResult struct {
	// Row is the 1-based position of the sample in the request, counting
	// skipped empty samples.
	Row int `json:"row"`

	Input      string `json:"input"`
	Test       bool   `json:"test"`
	Replace    string `json:"replace"`
	ReplaceAll string `json:"replace_all"`

	// ReplaceAllError is set instead of ReplaceAll when replaceAll failed
	// for this sample, e.g. because the pattern is not global.
	ReplaceAllError string `json:"replace_all_error,omitempty"`

	Split []Capture `json:"split"`

	// Matches is the exec sequence. It is nil when the sample has no match.
	Matches []MatchResult `json:"matches"`
}

// MatchResult is one step of the exec sequence.
type MatchResult struct {
	// Index is the offset where the match starts, counted in code points.
	Index int `json:"index"`

	// Captures holds the whole match at 0 followed by every group.
	Captures []Capture `json:"captures"`

	// LastIndex is the engine cursor after this match.
	LastIndex int `json:"last_index"`
}

// Capture is a captured group or a split element.
type Capture struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`

	// Null marks a group that did not participate in the match. Its Value is
	// empty but it is rendered differently from an empty capture.
	Null bool `json:"null,omitempty"`
}

// Display returns the value, or "(null)" for a null capture.
func (c Capture) Display() string {
	if c.Null {
		return "(null)"
	}
	return c.Value
}

// MatchCount returns the number of exec matches over all samples.
func (e *Evaluation) MatchCount() int {
	n := 0
	for _, s := range e.Samples {
		n += len(s.Matches)
	}
	return n
}
