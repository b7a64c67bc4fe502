package rank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aojudge/ranklist/internal/rank"
)

func TestCeremonyWalk(t *testing.T) {
	e := rank.NewEngine(
		[]rank.Team{{ID: "t1"}, {ID: "t2"}},
		[]rank.Problem{icpcProblem("A")},
	)
	runs := []rank.Run{
		newRun(1, "t1", "A", 20, rank.VerdictAccepted),
		newRun(2, "t2", "A", 110, rank.VerdictAccepted),
	}
	c := rank.NewRevealController(e, runs, 100)

	// The frozen board shows t2's attempt as pending, not as a solve.
	rows := e.RankedTeams()
	require.Len(t, rows, 2)
	assert.Equal(t, "t2", rows[1].TeamID)
	assert.True(t, rows[1].Problems[0].Pending)
	assert.Equal(t, []rank.HiddenCell{{TeamID: "t2", ProblemID: "A"}}, c.HiddenCells())

	step := c.Advance()
	assert.Equal(t, rank.Step{Kind: rank.StepFocused, TeamID: "t2"}, step)
	focused, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, "t2", focused)

	step = c.Advance()
	assert.Equal(t, rank.Step{Kind: rank.StepRevealed, TeamID: "t2", ProblemID: "A"}, step)
	assert.Empty(t, c.HiddenCells())
	rows = e.RankedTeams()
	assert.True(t, rows[1].Problems[0].Accepted)
	assert.Equal(t, int64(110), rows[1].TotalPenalty)

	step = c.Advance()
	assert.Equal(t, rank.Step{Kind: rank.StepFinalized, TeamID: "t2"}, step)
	_, ok = c.Focused()
	assert.False(t, ok)
	assert.True(t, c.IsFinalized("t2"))
	assert.False(t, c.Done())

	// The remaining team has nothing hidden: focus, then finalize.
	assert.Equal(t, rank.Step{Kind: rank.StepFocused, TeamID: "t1"}, c.Advance())
	assert.Equal(t, rank.Step{Kind: rank.StepFinalized, TeamID: "t1"}, c.Advance())
	assert.True(t, c.Done())
	assert.Equal(t, []string{"t1", "t2"}, c.FinalizedTeams())

	// Advancing past the end changes nothing.
	assert.Equal(t, rank.Step{Kind: rank.StepDone}, c.Advance())
	assert.Equal(t, rank.Step{Kind: rank.StepDone}, c.Advance())
	assert.True(t, c.Done())
}

func TestCeremonyRevealCanReorder(t *testing.T) {
	e := rank.NewEngine(
		[]rank.Team{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
		[]rank.Problem{icpcProblem("A"), icpcProblem("B")},
	)
	runs := []rank.Run{
		newRun(1, "t1", "A", 20, rank.VerdictAccepted),
		newRun(2, "t2", "A", 30, rank.VerdictAccepted),
		newRun(3, "t3", "A", 40, rank.VerdictWrongAnswer),
		newRun(4, "t3", "A", 120, rank.VerdictAccepted),
		newRun(5, "t3", "B", 130, rank.VerdictAccepted),
		newRun(6, "t2", "B", 110, rank.VerdictAccepted),
	}
	c := rank.NewRevealController(e, runs, 100)

	want := []rank.Step{
		{Kind: rank.StepFocused, TeamID: "t3"},
		{Kind: rank.StepRevealed, TeamID: "t3", ProblemID: "A"},
		{Kind: rank.StepRevealed, TeamID: "t3", ProblemID: "B"},
		{Kind: rank.StepFinalized, TeamID: "t3"},
		{Kind: rank.StepFocused, TeamID: "t2"},
		{Kind: rank.StepRevealed, TeamID: "t2", ProblemID: "B"},
		{Kind: rank.StepFinalized, TeamID: "t2"},
		{Kind: rank.StepFocused, TeamID: "t1"},
		{Kind: rank.StepFinalized, TeamID: "t1"},
		{Kind: rank.StepDone},
	}
	for i, w := range want {
		require.Equal(t, w, c.Advance(), "step %d", i)
	}
	require.True(t, c.Done())

	rows := e.RankedTeams()
	require.Len(t, rows, 3)
	assert.Equal(t, "t2", rows[0].TeamID)
	assert.Equal(t, "t3", rows[1].TeamID)
	assert.Equal(t, "t1", rows[2].TeamID)
	assert.Equal(t, 2, rows[0].TotalSolved)
	assert.Equal(t, int64(140), rows[0].TotalPenalty)
	assert.Equal(t, int64(270), rows[1].TotalPenalty)
}

func TestCeremonyMatchesUnfrozenBoard(t *testing.T) {
	teams := []rank.Team{{ID: "t1"}, {ID: "t2"}}
	problems := []rank.Problem{icpcProblem("A"), icpcProblem("B")}
	runs := []rank.Run{
		newRun(1, "t1", "A", 20, rank.VerdictWrongAnswer),
		newRun(2, "t1", "A", 105, rank.VerdictAccepted),
		newRun(3, "t2", "A", 50, rank.VerdictAccepted),
		newRun(4, "t1", "B", 115, rank.VerdictWrongAnswer),
		newRun(5, "t2", "B", 118, rank.VerdictAccepted),
	}

	plain := rank.NewEngine(teams, problems)
	for _, r := range runs {
		require.NoError(t, plain.AddRun(r))
	}
	want := plain.RankedTeams()

	c := rank.NewRevealController(rank.NewEngine(teams, problems), runs, 100)
	for !c.Done() {
		c.Advance()
	}
	require.Equal(t, want, c.Engine().RankedTeams())
}

func TestCeremonyMasksDualTaskScores(t *testing.T) {
	e := rank.NewEngine(
		[]rank.Team{{ID: "t1"}, {ID: "t2"}},
		[]rank.Problem{dualProblem("G")},
	)
	runs := []rank.Run{
		newDualRun(1, "t2", "G", 50, 10, 0, nil),
		newDualRun(2, "t1", "G", 120, 30, 0, nil),
	}
	c := rank.NewRevealController(e, runs, 100)

	rows := e.RankedTeams()
	require.Len(t, rows, 2)
	assert.Equal(t, "t2", rows[0].TeamID)
	assert.Equal(t, 10, rows[0].TotalScore)
	assert.Equal(t, "t1", rows[1].TeamID)
	assert.Zero(t, rows[1].TotalScore)
	assert.True(t, rows[1].Problems[0].Pending)

	for !c.Done() {
		c.Advance()
	}
	rows = e.RankedTeams()
	assert.Equal(t, "t1", rows[0].TeamID)
	assert.Equal(t, 30, rows[0].TotalScore)
}

func TestCeremonyWithNothingHidden(t *testing.T) {
	e := rank.NewEngine(
		[]rank.Team{{ID: "t1"}, {ID: "t2"}},
		[]rank.Problem{icpcProblem("A")},
	)
	runs := []rank.Run{newRun(1, "t1", "A", 10, rank.VerdictAccepted)}
	c := rank.NewRevealController(e, runs, 100)
	assert.Empty(t, c.HiddenCells())

	var kinds []rank.StepKind
	for !c.Done() {
		kinds = append(kinds, c.Advance().Kind)
	}
	assert.Equal(t, []rank.StepKind{
		rank.StepFocused, rank.StepFinalized,
		rank.StepFocused, rank.StepFinalized,
	}, kinds)
}
