package models

import (
	"time"

	"github.com/aojudge/ranklist/internal/rank"
)

// RunRecord is one graded run in the append-only run log. The run id is the
// primary key, so a redelivered run collapses into the existing row.
// Dual-task sub-results are flattened into nullable columns and reassembled
// on read.
type RunRecord struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	TeamID    string `gorm:"index" json:"team_id"`
	ProblemID string `gorm:"index" json:"problem_id"`

	Time        int64  `json:"time"`
	Result      string `json:"result"`
	Score       *int   `json:"score"`
	ProblemType string `json:"problem_type"`

	Task1Score   *int `json:"task1_score"`
	Task2Score   *int `json:"task2_score"`
	EditDistance *int `json:"edit_distance"`
}

// FromRun flattens a run into its log row.
func FromRun(r rank.Run) RunRecord {
	rec := RunRecord{
		ID:          r.ID,
		TeamID:      r.TeamID,
		ProblemID:   r.ProblemID,
		Time:        r.Time,
		Result:      string(r.Result),
		Score:       r.Score,
		ProblemType: string(r.ProblemType),
	}
	if d := r.DualTaskDetails; d != nil {
		t1, t2 := d.Task1Score, d.Task2Score
		rec.Task1Score = &t1
		rec.Task2Score = &t2
		rec.EditDistance = d.EditDistance
	}
	return rec
}

// Run rebuilds the in-memory run from a log row.
func (rec RunRecord) Run() rank.Run {
	r := rank.Run{
		ID:          rec.ID,
		TeamID:      rec.TeamID,
		ProblemID:   rec.ProblemID,
		Time:        rec.Time,
		Result:      rank.Verdict(rec.Result),
		Score:       rec.Score,
		ProblemType: rank.ProblemType(rec.ProblemType),
	}
	if rec.Task1Score != nil || rec.Task2Score != nil || rec.EditDistance != nil {
		d := &rank.DualTaskDetails{EditDistance: rec.EditDistance}
		if rec.Task1Score != nil {
			d.Task1Score = *rec.Task1Score
		}
		if rec.Task2Score != nil {
			d.Task2Score = *rec.Task2Score
		}
		r.DualTaskDetails = d
	}
	return r
}

// Operator is a ceremony/scoreboard administrator account.
type Operator struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
}
