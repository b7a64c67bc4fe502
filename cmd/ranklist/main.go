package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aojudge/ranklist/internal/api/admin"
	"github.com/aojudge/ranklist/internal/api/public"
	"github.com/aojudge/ranklist/internal/auth"
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/database"
	"github.com/aojudge/ranklist/internal/database/models"
	"github.com/aojudge/ranklist/internal/pubsub"
	"github.com/aojudge/ranklist/internal/roster"
	"github.com/aojudge/ranklist/internal/scoreboard"
	"github.com/aojudge/ranklist/internal/stream"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "AOJ Ranklist %s - Contest Scoreboard and Award Ceremony\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	if err := bootstrapOperator(cfg, db); err != nil {
		zap.S().Fatalf("failed to bootstrap operator account: %v", err)
	}

	// contest roster
	contest, err := roster.Load(cfg.ContestDir)
	if err != nil {
		zap.S().Fatalf("failed to load contest roster: %v", err)
	}
	zap.S().Infof("loaded contest '%s' with %d problems and %d teams",
		contest.ID, len(contest.Problems), len(contest.Teams))

	// scoreboard service, replays the stored run log on boot
	broker := pubsub.GetBroker()
	svc, err := scoreboard.New(db, broker, contest)
	if err != nil {
		zap.S().Fatalf("failed to build scoreboard: %v", err)
	}

	// judge stream
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var consumer *stream.Consumer
	if cfg.Stream.Enabled {
		consumer, err = stream.NewConsumer(cfg.Stream.Addr, cfg.Stream.Password, cfg.Stream.DB, cfg.Stream.Channels, svc)
		if err != nil {
			zap.S().Fatalf("failed to connect to judge stream: %v", err)
		}
		go func() {
			if err := consumer.Run(ctx); err != nil {
				zap.S().Errorf("judge stream consumer stopped: %v", err)
			}
		}()
	} else {
		zap.S().Warn("judge stream disabled, runs arrive only through the operator API")
	}

	// API routers
	publicEngine := public.NewRouter(cfg, svc, broker)
	adminEngine := admin.NewRouter(cfg, db, svc)

	// start servers
	go func() {
		zap.S().Infof("starting public server at %s", cfg.Listen)
		if err := publicEngine.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start public server: %v", err)
		}
	}()

	if cfg.Admin.Enabled {
		go func() {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			if err := adminEngine.Run(cfg.Admin.Listen); err != nil {
				zap.S().Fatalf("failed to start admin server: %v", err)
			}
		}()
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")

	cancel()
	if consumer != nil {
		consumer.Close()
	}
	svc.Close()
}

// bootstrapOperator creates the configured initial operator when the
// operator table is empty, so a fresh deployment can log in.
func bootstrapOperator(cfg *config.Config, db *gorm.DB) error {
	count, err := database.CountOperators(db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.Admin.InitialUsername == "" || cfg.Admin.InitialPassword == "" {
		zap.S().Warn("no operators exist and no initial credentials are configured, the operator API will reject every login")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.InitialPassword)
	if err != nil {
		return err
	}
	op := models.Operator{
		ID:           uuid.NewString(),
		Username:     cfg.Admin.InitialUsername,
		PasswordHash: hash,
	}
	if err := database.CreateOperator(db, &op); err != nil {
		return err
	}

	zap.S().Infof("created initial operator '%s'", op.Username)
	return nil
}
