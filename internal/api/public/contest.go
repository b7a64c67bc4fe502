package public

import (
	"net/http"

	"github.com/aojudge/ranklist/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getContest(c *gin.Context) {
	count, err := h.svc.RunCount()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	// Copy so the team roster is not duplicated here; it has its own
	// endpoint.
	contest := *h.svc.Contest()
	contest.Teams = nil
	util.Success(c, gin.H{
		"contest":   contest,
		"run_count": count,
	}, "Contest found")
}

func (h *Handler) getTeams(c *gin.Context) {
	util.Success(c, h.svc.Contest().Teams, "Teams retrieved successfully")
}

func (h *Handler) getProblems(c *gin.Context) {
	util.Success(c, h.svc.Contest().Problems, "Problems retrieved successfully")
}

func (h *Handler) getScoreboard(c *gin.Context) {
	util.Success(c, h.svc.Scoreboard(), "Scoreboard retrieved successfully")
}

func (h *Handler) getCeremony(c *gin.Context) {
	view, ok := h.svc.Ceremony()
	if !ok {
		util.Error(c, http.StatusNotFound, "no ceremony is running")
		return
	}
	util.Success(c, view, "Ceremony retrieved successfully")
}
