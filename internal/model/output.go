package model

// FailureKind names the stage at which report generation failed.
type FailureKind string

const (
	// FailureNone is the kind of a successful output.
	FailureNone FailureKind = ""

	// FailureValidation means the request had no pattern. No report is produced.
	FailureValidation FailureKind = "validation"

	// FailureCompile means the pattern or flags were rejected by the engine.
	// The report holds the header table only.
	FailureCompile FailureKind = "compile"

	// FailureEvaluation means evaluating the samples failed part way.
	// The report holds everything rendered before the failure.
	FailureEvaluation FailureKind = "evaluation"
)

// String returns the kind, or "none" for a successful output.
func (k FailureKind) String() string {
	if k == FailureNone {
		return "none"
	}
	return string(k)
}

// TestOutput is the result of one request.
// Exactly one of a successful report or a failure message is meaningful:
// Success is true and Message is empty, or Success is false and Message
// explains why. A failed output may still carry a partial Report.
type TestOutput struct {
	Success bool        `json:"success"`
	Report  string      `json:"report,omitempty"`
	Message string      `json:"message,omitempty"`
	Kind    FailureKind `json:"kind,omitempty"`

	// Evaluation holds the structured results the report was rendered from.
	// On failure it holds whatever was evaluated before the failure, and it
	// is nil when nothing was compiled.
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// NewSuccess returns a successful output.
func NewSuccess(report string, eval *Evaluation) *TestOutput {
	return &TestOutput{
		Success:    true,
		Report:     report,
		Evaluation: eval,
	}
}

// NewFailure returns a failed output with an optional partial report.
func NewFailure(kind FailureKind, message, partial string, eval *Evaluation) *TestOutput {
	return &TestOutput{
		Kind:       kind,
		Message:    message,
		Report:     partial,
		Evaluation: eval,
	}
}
