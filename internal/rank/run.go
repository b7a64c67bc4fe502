package rank

import "fmt"

// Verdict is the raw judge verdict carried by a run. The engine only cares
// whether a verdict is accepted, pending, or anything else (a failed
// attempt); the raw string is preserved for display.
type Verdict string

const (
	VerdictAccepted            Verdict = "accepted"
	VerdictPending             Verdict = "pending"
	VerdictWrongAnswer         Verdict = "wrong_answer"
	VerdictTimeLimitExceeded   Verdict = "time_limit_exceeded"
	VerdictMemoryLimitExceeded Verdict = "memory_limit_exceeded"
	VerdictRuntimeError        Verdict = "runtime_error"
	VerdictCompileError        Verdict = "compile_error"
	VerdictPresentationError   Verdict = "presentation_error"
	VerdictSystemError         Verdict = "system_error"
	VerdictSkipped             Verdict = "skipped"
)

func (v Verdict) Accepted() bool { return v == VerdictAccepted }
func (v Verdict) Pending() bool  { return v == VerdictPending }

// Failed reports whether the verdict counts as a wrong attempt.
func (v Verdict) Failed() bool { return !v.Accepted() && !v.Pending() }

// ProblemType selects the ranking policy applied to a problem.
type ProblemType string

const (
	TypeICPC         ProblemType = "icpc"
	TypeSpecialJudge ProblemType = "special_judge"
	TypeDualTask     ProblemType = "dual_task"
)

// DualTaskDetails carries the two sub-results of a dual_task run. The edit
// distance is measured upstream against the reference source; its bonus
// arrives pre-computed as Task2Score.
type DualTaskDetails struct {
	Task1Score   int  `json:"task1_score"`
	Task2Score   int  `json:"task2_score"`
	EditDistance *int `json:"edit_distance"`
}

// Run is one graded submission event. ID is the strictly increasing
// submission sequence number (arrival order, not wall clock) and Time is in
// contest-relative seconds. Runs are immutable once ingested.
type Run struct {
	ID              int64            `json:"id"`
	TeamID          string           `json:"team_id"`
	ProblemID       string           `json:"problem_id"`
	Time            int64            `json:"time"`
	Result          Verdict          `json:"result"`
	Score           *int             `json:"score,omitempty"`
	ProblemType     ProblemType      `json:"problem_type,omitempty"`
	DualTaskDetails *DualTaskDetails `json:"dual_task_details,omitempty"`
}

// masked returns the freeze-window copy of a run: the attempt stays visible
// as pending but leaks neither its outcome nor its points.
func (r Run) masked() Run {
	m := r
	m.Result = VerdictPending
	m.Score = nil
	if r.DualTaskDetails != nil {
		m.DualTaskDetails = &DualTaskDetails{}
	}
	return m
}

// Team is roster data, immutable for the engine's purposes.
type Team struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
}

// Problem is roster data supplied at engine construction. Label is the
// scoreboard column header; roster order is display order.
type Problem struct {
	ID    string      `yaml:"id" json:"id"`
	Label string      `yaml:"label" json:"label"`
	Title string      `yaml:"title" json:"title"`
	Type  ProblemType `yaml:"type" json:"type"`
}

// ContractError reports a run that breaks the run data contract, e.g. a
// dual_task run without its details. It signals an upstream bug, so
// ingestion fails fast instead of silently dropping the run.
type ContractError struct {
	RunID  int64
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("run %d breaks the run data contract: %s", e.RunID, e.Reason)
}
