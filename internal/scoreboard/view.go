package scoreboard

import (
	"time"

	"github.com/aojudge/ranklist/internal/rank"
)

// View is one self-contained snapshot of the board, served over the REST
// API and pushed over the websocket stream. While an award ceremony runs it
// shows the ceremony board, otherwise the live one.
type View struct {
	ContestID   string            `json:"contest_id"`
	ContestName string            `json:"contest_name"`
	Mode        string            `json:"mode"`
	Frozen      bool              `json:"frozen"`
	Problems    []rank.Problem    `json:"problems"`
	Teams       []rank.RankedTeam `json:"teams"`
	Ceremony    *CeremonyView     `json:"ceremony,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// CeremonyView describes the state of the running award ceremony.
type CeremonyView struct {
	ID             string            `json:"id"`
	FreezeTime     int64             `json:"freeze_time"`
	FocusedTeamID  string            `json:"focused_team_id,omitempty"`
	FinalizedTeams []string          `json:"finalized_teams"`
	HiddenCells    []rank.HiddenCell `json:"hidden_cells"`
	Done           bool              `json:"done"`
	LastStep       *rank.Step        `json:"last_step,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
}

// markHidden flags the still-masked cells so the UI can render "?" instead
// of a pending marker.
func markHidden(rows []rank.RankedTeam, cells []rank.HiddenCell) {
	hidden := make(map[rank.HiddenCell]bool, len(cells))
	for _, c := range cells {
		hidden[c] = true
	}
	for i := range rows {
		for j := range rows[i].Problems {
			cell := rank.HiddenCell{TeamID: rows[i].TeamID, ProblemID: rows[i].Problems[j].ProblemID}
			if hidden[cell] {
				rows[i].Problems[j].Hidden = true
			}
		}
	}
}
