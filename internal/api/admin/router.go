package admin

import (
	"github.com/aojudge/ranklist/internal/api"
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/scoreboard"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter creates and configures the operator Gin engine. It is meant
// to be served on a separate listener from the public API, and every
// route except login additionally requires a Bearer JWT.
func NewRouter(cfg *config.Config, db *gorm.DB, svc *scoreboard.Service) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, svc)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.login)

		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			// Award ceremony control
			ceremony := authed.Group("/ceremony")
			{
				ceremony.GET("", h.getCeremony)
				ceremony.POST("", h.startCeremony)
				ceremony.POST("/advance", h.advanceCeremony)
				ceremony.DELETE("", h.stopCeremony)
			}

			// Run log
			runs := authed.Group("/runs")
			{
				runs.GET("", h.listRuns)
				runs.POST("", h.ingestRun)
			}

			// Management
			authed.POST("/rebuild", h.rebuild)
			authed.POST("/operators", h.createOperator)
		}
	}

	return r
}
