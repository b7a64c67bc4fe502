package public

import (
	"net/http"

	"github.com/aojudge/ranklist/internal/scoreboard"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleScoreboardWs streams scoreboard snapshots to the client. The
// broker replays the latest snapshot on subscribe, so a fresh client
// sees the current board before any live update arrives.
func (h *Handler) handleScoreboardWs(c *gin.Context) {
	msgChan, unsubscribe := h.broker.Subscribe(scoreboard.Topic)
	defer unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	go func() {
		defer conn.Close()
		for msg := range msgChan {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				break
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.S().Infof("websocket unexpected close error: %v", err)
			}
			break
		}
	}
	zap.S().Debugf("scoreboard websocket connection closed")
}
