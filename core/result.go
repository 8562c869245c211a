package core

import "time"

// Verdict is the terminal judgment category of a scenario run.
type Verdict string

const (
	// VerdictSuccess marks a run where all evaluated criteria were met.
	VerdictSuccess Verdict = "success"
	// VerdictFailure marks a run that failed a criterion, hit the turn
	// limit, or was failed by the script or an error.
	VerdictFailure Verdict = "failure"
	// VerdictInconclusive marks a run the judge could not decide.
	VerdictInconclusive Verdict = "inconclusive"
)

// Result is the terminal artifact of a scenario run. It is created exactly
// once, at the moment the scenario concludes (by script directive, judge
// verdict, max-turns exhaustion, or an uncaught error), and is the only
// artifact that outlives execution.
type Result struct {
	Success       bool          `json:"success"`
	Verdict       Verdict       `json:"verdict"`
	Messages      []Message     `json:"messages"`
	Reasoning     string        `json:"reasoning,omitempty"`
	MetCriteria   []string      `json:"met_criteria,omitempty"`
	UnmetCriteria []string      `json:"unmet_criteria,omitempty"`
	Error         string        `json:"error,omitempty"`
	TotalTime     time.Duration `json:"total_time,omitempty"`
	AgentTime     time.Duration `json:"agent_time,omitempty"`
}

// NewSuccessResult creates a successful verdict with the given reasoning.
func NewSuccessResult(reasoning string) *Result {
	return &Result{Success: true, Verdict: VerdictSuccess, Reasoning: reasoning}
}

// NewFailureResult creates a failed verdict with the given reasoning.
func NewFailureResult(reasoning string) *Result {
	return &Result{Success: false, Verdict: VerdictFailure, Reasoning: reasoning}
}
