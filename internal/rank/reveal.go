package rank

import (
	"sort"

	"go.uber.org/zap"
)

// StepKind names what a single Advance call did.
type StepKind string

const (
	// StepFocused moved the spotlight to the worst not yet finalized team.
	StepFocused StepKind = "focused"
	// StepRevealed replaced the masked runs of one cell with the truth.
	StepRevealed StepKind = "revealed"
	// StepFinalized locked the focused team at its current rank.
	StepFinalized StepKind = "finalized"
	// StepDone means the ceremony is over and Advance is a no-op.
	StepDone StepKind = "done"
)

// Step is the outcome of one Advance call, shipped to clients so the
// presentation layer can animate it.
type Step struct {
	Kind      StepKind `json:"kind"`
	TeamID    string   `json:"team_id,omitempty"`
	ProblemID string   `json:"problem_id,omitempty"`
}

// HiddenCell identifies one still-masked (team, problem) cell.
type HiddenCell struct {
	TeamID    string `json:"team_id"`
	ProblemID string `json:"problem_id"`
}

// RevealController drives the award ceremony. It owns an engine that was
// fed the truth for pre-freeze runs and masked placeholders for frozen
// ones, plus the withheld originals keyed by team and problem. Advance
// works bottom-up: focus the worst open team, reveal its cells one by one,
// finalize it, move on.
type RevealController struct {
	engine    *Engine
	freeze    int64
	hidden    map[string]map[string][]Run
	finalized map[string]bool
	focus     string
}

// NewRevealController partitions the run log at freezeTime and builds the
// frozen scoreboard. Runs at or past the freeze enter the engine masked
// (pending, no score) and their originals are kept for reveal. Runs outside
// the roster fall through to the engine's usual drop path.
func NewRevealController(engine *Engine, runs []Run, freezeTime int64) *RevealController {
	c := &RevealController{
		engine:    engine,
		freeze:    freezeTime,
		hidden:    make(map[string]map[string][]Run),
		finalized: make(map[string]bool),
	}
	ordered := make([]Run, len(runs))
	copy(ordered, runs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, r := range ordered {
		if r.Time < freezeTime || !engine.inRoster(r) {
			c.feed(r)
			continue
		}
		c.feed(r.masked())
		byProblem := c.hidden[r.TeamID]
		if byProblem == nil {
			byProblem = make(map[string][]Run)
			c.hidden[r.TeamID] = byProblem
		}
		byProblem[r.ProblemID] = append(byProblem[r.ProblemID], r)
	}
	return c
}

func (c *RevealController) feed(r Run) {
	if err := c.engine.AddRun(r); err != nil {
		zap.S().Warnf("ceremony skipping run %d: %v", r.ID, err)
	}
}

// Engine returns the controller's frozen-then-revealing engine.
func (c *RevealController) Engine() *Engine { return c.engine }

// FreezeTime returns the partition point the controller was built with.
func (c *RevealController) FreezeTime() int64 { return c.freeze }

// Focused returns the team currently under the spotlight.
func (c *RevealController) Focused() (string, bool) {
	return c.focus, c.focus != ""
}

// IsFinalized reports whether a team's rank has been locked.
func (c *RevealController) IsFinalized(teamID string) bool {
	return c.finalized[teamID]
}

// Done reports whether every roster team has been finalized.
func (c *RevealController) Done() bool {
	return c.focus == "" && len(c.finalized) == len(c.engine.Teams())
}

// Advance performs exactly one ceremony step and reports what it did.
//
// With a focused team holding hidden cells, it reveals that team's first
// hidden problem in roster order. With a focused team fully revealed, it
// finalizes the team and drops the focus. With no focus it picks the
// lowest-ranked team not yet finalized. Once all teams are finalized every
// further call returns a done step and changes nothing.
func (c *RevealController) Advance() Step {
	if c.focus != "" {
		if p, ok := c.nextHiddenProblem(c.focus); ok {
			c.reveal(c.focus, p)
			return Step{Kind: StepRevealed, TeamID: c.focus, ProblemID: p}
		}
		team := c.focus
		c.finalized[team] = true
		c.focus = ""
		zap.S().Infof("ceremony finalized team %s", team)
		return Step{Kind: StepFinalized, TeamID: team}
	}

	rows := c.engine.RankedTeams()
	for i := len(rows) - 1; i >= 0; i-- {
		if c.finalized[rows[i].TeamID] {
			continue
		}
		c.focus = rows[i].TeamID
		return Step{Kind: StepFocused, TeamID: c.focus}
	}
	return Step{Kind: StepDone}
}

// nextHiddenProblem returns the focused team's first hidden problem in
// roster order.
func (c *RevealController) nextHiddenProblem(teamID string) (string, bool) {
	byProblem := c.hidden[teamID]
	if len(byProblem) == 0 {
		return "", false
	}
	for _, p := range c.engine.Problems() {
		if len(byProblem[p.ID]) > 0 {
			return p.ID, true
		}
	}
	return "", false
}

// reveal feeds the withheld originals of one cell back into the engine in
// submission-time order. The masked placeholders stay behind them in each
// status, so derived state resolves to the truth.
func (c *RevealController) reveal(teamID, problemID string) {
	runs := c.hidden[teamID][problemID]
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Time < runs[j].Time })
	for _, r := range runs {
		c.feed(r)
	}
	delete(c.hidden[teamID], problemID)
	if len(c.hidden[teamID]) == 0 {
		delete(c.hidden, teamID)
	}
	zap.S().Infof("ceremony revealed %s for team %s (%d runs)", problemID, teamID, len(runs))
}

// HiddenCells lists every still-masked cell in roster order, for the
// scoreboard's hidden-run indicators.
func (c *RevealController) HiddenCells() []HiddenCell {
	cells := make([]HiddenCell, 0)
	for _, t := range c.engine.Teams() {
		byProblem := c.hidden[t.ID]
		if len(byProblem) == 0 {
			continue
		}
		for _, p := range c.engine.Problems() {
			if len(byProblem[p.ID]) > 0 {
				cells = append(cells, HiddenCell{TeamID: t.ID, ProblemID: p.ID})
			}
		}
	}
	return cells
}

// FinalizedTeams lists locked teams in roster order.
func (c *RevealController) FinalizedTeams() []string {
	ids := make([]string, 0, len(c.finalized))
	for _, t := range c.engine.Teams() {
		if c.finalized[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
