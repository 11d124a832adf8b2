// Package main provides the game server binary: Telnet frontend, combat
// round engine, and PostgreSQL-backed character persistence.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/config"
	"github.com/ellyseum/LEmud-sub002/internal/frontend"
	"github.com/ellyseum/LEmud-sub002/internal/frontend/telnet"
	"github.com/ellyseum/LEmud-sub002/internal/game/command"
	"github.com/ellyseum/LEmud-sub002/internal/game/dice"
	"github.com/ellyseum/LEmud-sub002/internal/game/monster"
	"github.com/ellyseum/LEmud-sub002/internal/game/world"
	"github.com/ellyseum/LEmud-sub002/internal/gameserver"
	"github.com/ellyseum/LEmud-sub002/internal/observability"
	"github.com/ellyseum/LEmud-sub002/internal/server"
	"github.com/ellyseum/LEmud-sub002/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	zonesDir := flag.String("zones", "content/zones", "path to zone YAML files directory")
	monstersDir := flag.String("monsters", "content/monsters", "path to monster template YAML directory")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger)

	// Load world
	zoneStart := time.Now()
	zones, err := world.LoadZonesFromDir(*zonesDir)
	if err != nil {
		logger.Fatal("loading zones", zap.Error(err))
	}
	worldMgr, err := world.NewManager(zones)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	if err := worldMgr.ValidateExits(); err != nil {
		logger.Fatal("validating exits", zap.Error(err))
	}
	if cfg.Server.StartRoom != "" {
		if err := worldMgr.SetStartRoom(cfg.Server.StartRoom); err != nil {
			logger.Fatal("overriding start room", zap.Error(err))
		}
	}
	logger.Info("world loaded",
		zap.Int("zones", worldMgr.ZoneCount()),
		zap.Int("rooms", worldMgr.RoomCount()),
		zap.Duration("elapsed", time.Since(zoneStart)),
	)

	// Load monster templates
	templates, err := monster.NewTemplateStore(*monstersDir, cfg.Game.TemplateCacheTTL)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}
	logger.Info("monster templates loaded", zap.Int("count", len(templates.All())))

	// Connect to PostgreSQL for character persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	charRepo := postgres.NewCharacterRepository(pool.DB())

	// Assemble the game backend and its Telnet surface
	game := gameserver.NewGame(cfg.Game, worldMgr, templates, charRepo, src, logger)
	handler := frontend.NewSessionHandler(game, command.DefaultRegistry(), logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	gameCtx, gameCancel := context.WithCancel(ctx)
	gameDone := make(chan struct{})
	lifecycle.Add("game", &server.FuncService{
		StartFn: func() error {
			defer close(gameDone)
			game.Run(gameCtx)
			return nil
		},
		StopFn: func() {
			gameCancel()
			<-gameDone
		},
	})

	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	healthQuit := make(chan struct{})
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-healthQuit:
					return nil
				case <-ticker.C:
					if err := pool.Health(ctx, 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() {
			close(healthQuit)
			pool.Close()
		},
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
