package rank

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Engine ingests runs for one contest and produces the ranked team list.
// It holds no lock of its own: callers serialize mutation (one writer per
// contest instance) and read the snapshots RankedTeams builds.
type Engine struct {
	teams        map[string]*TeamStatus
	teamOrder    []Team
	problems     map[string]Problem
	problemOrder []Problem
	scoreMode    bool
}

// NewEngine builds an engine from the rosters. A contest containing any
// dual_task problem ranks by points instead of solved count and penalty.
func NewEngine(teams []Team, problems []Problem) *Engine {
	e := &Engine{
		teams:    make(map[string]*TeamStatus, len(teams)),
		problems: make(map[string]Problem, len(problems)),
	}
	for _, t := range teams {
		if _, exists := e.teams[t.ID]; exists {
			zap.S().Warnf("duplicate team id %s in roster, keeping the first", t.ID)
			continue
		}
		e.teams[t.ID] = NewTeamStatus(t)
		e.teamOrder = append(e.teamOrder, t)
	}
	for _, p := range problems {
		if p.Type == "" {
			p.Type = TypeICPC
		}
		if _, exists := e.problems[p.ID]; exists {
			zap.S().Warnf("duplicate problem id %s in roster, keeping the first", p.ID)
			continue
		}
		e.problems[p.ID] = p
		e.problemOrder = append(e.problemOrder, p)
		if p.Type == TypeDualTask {
			e.scoreMode = true
		}
	}
	return e
}

// ScoreMode reports whether the contest ranks by points.
func (e *Engine) ScoreMode() bool { return e.scoreMode }

// Problems returns the problem roster in display order.
func (e *Engine) Problems() []Problem { return e.problemOrder }

// Teams returns the team roster in its original order.
func (e *Engine) Teams() []Team { return e.teamOrder }

// Team returns the live status for one team, nil if not in the roster.
func (e *Engine) Team(id string) *TeamStatus { return e.teams[id] }

// AddRun routes a run to its owning statuses. Runs for teams or problems
// missing from the roster are dropped, not rejected: the stream may get
// slightly ahead of roster updates and the scoreboard must stay up. A run
// that breaks the data contract returns a *ContractError.
func (e *Engine) AddRun(r Run) error {
	p, ok := e.problems[r.ProblemID]
	if !ok {
		zap.S().Debugf("dropping run %d for unknown problem %s", r.ID, r.ProblemID)
		return nil
	}
	status, ok := e.teams[r.TeamID]
	if !ok {
		zap.S().Debugf("dropping run %d for unknown team %s", r.ID, r.TeamID)
		return nil
	}
	if err := checkContract(r, p); err != nil {
		return err
	}
	status.addRun(p, r)
	return nil
}

// checkContract enforces the run data contract: dual-task details appear on
// dual_task runs and nowhere else, and a run's declared type may not
// contradict the roster.
func checkContract(r Run, p Problem) error {
	if r.ProblemType != "" && r.ProblemType != p.Type {
		return &ContractError{
			RunID:  r.ID,
			Reason: fmt.Sprintf("declared type %s but roster says %s", r.ProblemType, p.Type),
		}
	}
	if p.Type == TypeDualTask && r.DualTaskDetails == nil {
		return &ContractError{RunID: r.ID, Reason: "dual_task run without details"}
	}
	if p.Type != TypeDualTask && r.DualTaskDetails != nil {
		return &ContractError{RunID: r.ID, Reason: "details on a non dual_task run"}
	}
	return nil
}

func (e *Engine) inRoster(r Run) bool {
	_, pok := e.problems[r.ProblemID]
	_, tok := e.teams[r.TeamID]
	return pok && tok
}

// ProblemCell is one (team, problem) entry of a scoreboard row.
type ProblemCell struct {
	ProblemID      string `json:"problem_id"`
	Accepted       bool   `json:"accepted"`
	Pending        bool   `json:"pending"`
	FailedAttempts int    `json:"failed_attempts"`
	BestScore      int    `json:"best_score"`
	SolvedTime     *int64 `json:"solved_time,omitempty"`
	Hidden         bool   `json:"hidden,omitempty"`
}

// RankedTeam is one scoreboard row.
type RankedTeam struct {
	TeamID         string        `json:"team_id"`
	Name           string        `json:"name"`
	Group          string        `json:"group,omitempty"`
	Rank           int           `json:"rank"`
	TotalSolved    int           `json:"total_solved"`
	TotalPenalty   int64         `json:"total_penalty"`
	TotalScore     int           `json:"total_score"`
	LastSolvedTime int64         `json:"last_solved_time"`
	Problems       []ProblemCell `json:"problems"`
}

// RankedTeams recomputes the full ordering and returns the scoreboard.
// Every roster team appears, runs or not. The sort is total (team id
// decides after the mode's keys), so any replay of the same run log yields
// the same list. Each pass also rewrites every TeamStatus.Rank.
func (e *Engine) RankedTeams() []RankedTeam {
	rows := make([]RankedTeam, 0, len(e.teamOrder))
	for _, t := range e.teamOrder {
		rows = append(rows, e.row(e.teams[t.ID]))
	}

	if e.scoreMode {
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
			if a.LastSolvedTime != b.LastSolvedTime {
				return a.LastSolvedTime < b.LastSolvedTime
			}
			return a.TeamID < b.TeamID
		})
	} else {
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if a.TotalSolved != b.TotalSolved {
				return a.TotalSolved > b.TotalSolved
			}
			if a.TotalPenalty != b.TotalPenalty {
				return a.TotalPenalty < b.TotalPenalty
			}
			if a.LastSolvedTime != b.LastSolvedTime {
				return a.LastSolvedTime < b.LastSolvedTime
			}
			return a.TeamID < b.TeamID
		})
	}

	for i := range rows {
		switch {
		case i == 0:
			rows[i].Rank = 1
		case e.tied(rows[i-1], rows[i]):
			rows[i].Rank = rows[i-1].Rank
		default:
			rows[i].Rank = i + 1
		}
		e.teams[rows[i].TeamID].Rank = rows[i].Rank
	}
	return rows
}

// tied decides whether two adjacent rows share a rank. The predicate
// follows the active mode: score totals for point-ranked contests, the
// solved/penalty pair otherwise.
func (e *Engine) tied(a, b RankedTeam) bool {
	if e.scoreMode {
		return a.TotalScore == b.TotalScore
	}
	return a.TotalSolved == b.TotalSolved && a.TotalPenalty == b.TotalPenalty
}

func (e *Engine) row(s *TeamStatus) RankedTeam {
	row := RankedTeam{
		TeamID:         s.team.ID,
		Name:           s.team.Name,
		Group:          s.team.Group,
		TotalSolved:    s.TotalSolved(),
		TotalPenalty:   s.TotalPenalty(),
		TotalScore:     s.TotalScore(),
		LastSolvedTime: s.LastSolvedTime(),
		Problems:       make([]ProblemCell, 0, len(e.problemOrder)),
	}
	for _, p := range e.problemOrder {
		cell := ProblemCell{ProblemID: p.ID}
		if st := s.problems[p.ID]; st != nil {
			cell.Accepted = st.Accepted()
			cell.Pending = st.Pending()
			cell.FailedAttempts = st.FailedAttempts()
			cell.BestScore = st.BestScore()
			if t, ok := st.SolvedTime(); ok {
				cell.SolvedTime = &t
			}
		}
		row.Problems = append(row.Problems, cell)
	}
	return row
}
