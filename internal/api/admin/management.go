package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aojudge/ranklist/internal/database"
	"github.com/aojudge/ranklist/internal/rank"
	"github.com/aojudge/ranklist/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rebuild replays the whole run log into a fresh board. The escape
// hatch after a roster hot-fix or a bad manual ingest.
func (h *Handler) rebuild(c *gin.Context) {
	view, err := h.svc.Rebuild()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, fmt.Errorf("failed to rebuild scoreboard: %w", err))
		return
	}

	zap.S().Infof("operator %s triggered a scoreboard rebuild", c.GetString("operatorID"))
	util.Success(c, view, "Rebuild successful")
}

func (h *Handler) listRuns(c *gin.Context) {
	runs, err := database.ListRuns(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, runs, "Runs retrieved successfully")
}

// ingestRun feeds a single run into the board by hand, for corrections
// when the judge stream is down.
func (h *Handler) ingestRun(c *gin.Context) {
	var run rank.Run
	if err := c.ShouldBindJSON(&run); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if run.ID == 0 {
		util.Error(c, http.StatusBadRequest, "run id is required")
		return
	}

	if err := h.svc.Ingest(run); err != nil {
		var cerr *rank.ContractError
		if errors.As(err, &cerr) {
			util.Error(c, http.StatusUnprocessableEntity, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("operator %s ingested run %d by hand", c.GetString("operatorID"), run.ID)
	util.Success(c, nil, "Run recorded")
}
