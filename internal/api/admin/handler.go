package admin

import (
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/scoreboard"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the operator API handlers.
type Handler struct {
	cfg *config.Config
	db  *gorm.DB
	svc *scoreboard.Service
}

// NewHandler creates a new operator handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, svc *scoreboard.Service) *Handler {
	return &Handler{
		cfg: cfg,
		db:  db,
		svc: svc,
	}
}
