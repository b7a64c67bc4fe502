package public

import (
	"github.com/aojudge/ranklist/internal/api"
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/pubsub"
	"github.com/aojudge/ranklist/internal/scoreboard"
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the public Gin engine.
func NewRouter(cfg *config.Config, svc *scoreboard.Service, broker *pubsub.Broker) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, svc, broker)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/contest", h.getContest)
		v1.GET("/teams", h.getTeams)
		v1.GET("/problems", h.getProblems)
		v1.GET("/scoreboard", h.getScoreboard)
		v1.GET("/ceremony", h.getCeremony)

		// Websocket pushing scoreboard snapshots
		v1.GET("/ws/scoreboard", h.handleScoreboardWs)
	}

	return r
}
