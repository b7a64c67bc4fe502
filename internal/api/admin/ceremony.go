package admin

import (
	"errors"
	"net/http"

	"github.com/aojudge/ranklist/internal/scoreboard"
	"github.com/aojudge/ranklist/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) getCeremony(c *gin.Context) {
	view, ok := h.svc.Ceremony()
	if !ok {
		util.Error(c, http.StatusNotFound, "no ceremony is running")
		return
	}
	util.Success(c, view, "Ceremony retrieved successfully")
}

func (h *Handler) startCeremony(c *gin.Context) {
	// The body is optional. Without a freeze_time the roster's freeze
	// offset is used.
	var req struct {
		FreezeTime int64 `json:"freeze_time"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, err)
			return
		}
	}

	view, err := h.svc.StartCeremony(req.FreezeTime)
	if err != nil {
		if errors.Is(err, scoreboard.ErrCeremonyRunning) {
			util.Error(c, http.StatusConflict, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("operator %s started the award ceremony", c.GetString("operatorID"))
	util.Success(c, view, "Ceremony started")
}

func (h *Handler) advanceCeremony(c *gin.Context) {
	step, view, err := h.svc.AdvanceCeremony()
	if err != nil {
		if errors.Is(err, scoreboard.ErrNoCeremony) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, gin.H{
		"step":       step,
		"scoreboard": view,
	}, "Ceremony advanced")
}

func (h *Handler) stopCeremony(c *gin.Context) {
	view, err := h.svc.StopCeremony()
	if err != nil {
		if errors.Is(err, scoreboard.ErrNoCeremony) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("operator %s stopped the award ceremony", c.GetString("operatorID"))
	util.Success(c, view, "Ceremony stopped")
}
