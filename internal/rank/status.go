package rank

import "sort"

// TeamProblemStatus owns the run history for one (team, problem) pair.
// Runs are append-only and every quantity is derived on read, so replaying
// the same run log always reproduces the same state.
type TeamProblemStatus struct {
	problem Problem
	policy  rankingPolicy
	runs    []Run
}

func NewTeamProblemStatus(problem Problem) *TeamProblemStatus {
	return &TeamProblemStatus{problem: problem, policy: policyFor(problem.Type)}
}

// AddRun appends a run and restores id order. The sort is stable: a run
// revealed after the freeze must stay behind its masked twin with the same
// id so the true result wins on read.
func (s *TeamProblemStatus) AddRun(r Run) {
	s.runs = append(s.runs, r)
	sort.SliceStable(s.runs, func(i, j int) bool { return s.runs[i].ID < s.runs[j].ID })
}

func (s *TeamProblemStatus) Problem() Problem { return s.problem }

func (s *TeamProblemStatus) Runs() []Run { return s.runs }

func (s *TeamProblemStatus) Accepted() bool { return s.policy.accepted(s.runs) }

// Pending reports whether the team is still waiting on this problem: the
// net prefix ends in a pending run.
func (s *TeamProblemStatus) Pending() bool {
	net := netRuns(s.runs)
	return len(net) > 0 && net[len(net)-1].Result.Pending()
}

func (s *TeamProblemStatus) FailedAttempts() int { return failedAttempts(s.runs) }

// SolvedTime is policy-defined: the acceptance time for ICPC problems, the
// best-result lock-in time for dual-task ones. ok is false when the team
// has nothing on the clock yet.
func (s *TeamProblemStatus) SolvedTime() (int64, bool) { return s.policy.effectiveTime(s.runs) }

func (s *TeamProblemStatus) Penalty() int64 { return s.policy.penaltyContribution(s.runs) }

func (s *TeamProblemStatus) BestScore() int { return s.policy.bestScore(s.runs) }

// TeamStatus aggregates one team's per-problem statuses. Rank is pure
// output: it is overwritten on every ranking pass and never drives one.
type TeamStatus struct {
	team     Team
	problems map[string]*TeamProblemStatus
	Rank     int
}

func NewTeamStatus(team Team) *TeamStatus {
	return &TeamStatus{team: team, problems: make(map[string]*TeamProblemStatus)}
}

func (s *TeamStatus) Team() Team { return s.team }

// Problem returns the status cell for one problem, nil if the team has no
// runs there yet.
func (s *TeamStatus) Problem(id string) *TeamProblemStatus { return s.problems[id] }

func (s *TeamStatus) addRun(p Problem, r Run) {
	cell, ok := s.problems[p.ID]
	if !ok {
		cell = NewTeamProblemStatus(p)
		s.problems[p.ID] = cell
	}
	cell.AddRun(r)
}

func (s *TeamStatus) TotalSolved() int {
	n := 0
	for _, cell := range s.problems {
		if cell.Accepted() {
			n++
		}
	}
	return n
}

func (s *TeamStatus) TotalPenalty() int64 {
	var sum int64
	for _, cell := range s.problems {
		sum += cell.Penalty()
	}
	return sum
}

// LastSolvedTime is the latest solved time across problems, 0 when the
// team has nothing on the clock.
func (s *TeamStatus) LastSolvedTime() int64 {
	var last int64
	for _, cell := range s.problems {
		if t, ok := cell.SolvedTime(); ok && t > last {
			last = t
		}
	}
	return last
}

func (s *TeamStatus) TotalScore() int {
	total := 0
	for _, cell := range s.problems {
		total += cell.BestScore()
	}
	return total
}
