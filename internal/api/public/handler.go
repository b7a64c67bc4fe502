package public

import (
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/pubsub"
	"github.com/aojudge/ranklist/internal/scoreboard"
)

// Handler holds all dependencies for the public API handlers.
type Handler struct {
	cfg    *config.Config
	svc    *scoreboard.Service
	broker *pubsub.Broker
}

// NewHandler creates a new public handler with its dependencies.
func NewHandler(cfg *config.Config, svc *scoreboard.Service, broker *pubsub.Broker) *Handler {
	return &Handler{
		cfg:    cfg,
		svc:    svc,
		broker: broker,
	}
}
