package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/and0p/chaos-core/internal/accounts"
	"github.com/and0p/chaos-core/internal/apiserver"
	"github.com/and0p/chaos-core/internal/authn"
	"github.com/and0p/chaos-core/internal/cache"
	"github.com/and0p/chaos-core/internal/config"
	"github.com/and0p/chaos-core/internal/eventbus"
	"github.com/and0p/chaos-core/internal/game"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/observability"
	"github.com/and0p/chaos-core/internal/snapshotstore"
)

// tickInterval is the fixed wall-clock period between Game.Tick calls.
const tickInterval = 50 * time.Millisecond

func main() {
	if err := logging.InitLogger(); err != nil {
		log.Fatalf("logging init: %v", err)
	}
	defer logging.CloseLogger()

	logging.LogInfo("chaos-core server starting")

	shutdownTel, err := observability.InitTelemetry(context.Background(), "chaos_core_game")
	if err != nil {
		logging.LogWarn("telemetry init failed, continuing without tracing: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		logging.LogWarn("config load failed, using defaults: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())

	bus := setupEventBus(cfg)
	accountsRepo := setupAccounts(cfg)
	defer accountsRepo.Close()

	var snapshots *snapshotstore.Store
	if dataPath := os.Getenv("GAME_SNAPSHOT_PATH"); dataPath != "" {
		snapshots, err = snapshotstore.Open(dataPath)
		if err != nil {
			logging.LogWarn("snapshotstore open failed, diagnostics snapshots disabled: %v", err)
		} else {
			defer snapshots.Close()
		}
	}

	hotCache := setupCache(cfg)
	if hotCache != nil {
		defer hotCache.Close()
	}

	g := game.New(game.Config{
		Game:          cfg.Game,
		Authenticator: authn.New(),
		Accounts:      accountsRepo,
		Snapshots:     snapshots,
		Cache:         hotCache,
	})

	api := apiserver.New(apiserver.Config{Addr: restAddr, Game: g})
	api.Start()

	go eventbus.NewMetricsExporter(bus).StartHTTP(metricsAddr)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	tickDone := make(chan struct{})
	go runTickLoop(g, ticker, tickDone)

	logging.LogInfo("chaos-core server ready: rest=%s metrics=%s", restAddr, metricsAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.LogInfo("received signal %v, shutting down", sig)

	close(tickDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		logging.LogError("apiserver shutdown: %v", err)
	}
	if shutdownTel != nil {
		if err := shutdownTel(context.Background()); err != nil {
			logging.LogError("telemetry shutdown: %v", err)
		}
	}

	logging.LogInfo("chaos-core server stopped")
}

// runTickLoop drains the action queue to a fixed point once per tick until
// done is closed.
func runTickLoop(g *game.Game, ticker *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			g.Tick()
		case <-done:
			return
		}
	}
}

// setupEventBus wires the cross-process broadcast transport: JetStream when
// a URL is configured, an in-memory bus otherwise (single-process runs,
// tests).
func setupEventBus(cfg *config.Config) eventbus.EventBus {
	if cfg.EventBus.URL == "" {
		bus := eventbus.NewMemoryBus(1024)
		eventbus.Init(bus)
		return bus
	}

	retention := time.Duration(cfg.EventBus.Retention) * time.Hour
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	stream := cfg.EventBus.Stream
	if stream == "" {
		stream = "EVENTS"
	}

	bus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, stream, retention)
	if err != nil {
		logging.LogWarn("jetstream bus init failed, falling back to in-memory bus: %v", err)
		memBus := eventbus.NewMemoryBus(1024)
		eventbus.Init(memBus)
		return memBus
	}
	eventbus.Init(bus)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.LogWarn("eventbus logging listener failed to start: %v", err)
	}
	return bus
}

// setupAccounts picks the profile-directory backing store: MongoDB when a
// URI is explicitly configured, an in-memory repository otherwise.
func setupAccounts(cfg *config.Config) accounts.Repository {
	if cfg.Accounts.MongoURI == "" {
		return accounts.NewMemoryRepository()
	}
	repo, err := accounts.NewMongoRepository(context.Background(), accounts.MongoConfig{
		URI:      cfg.Accounts.GetMongoURI(),
		Database: cfg.Accounts.MongoDB,
	})
	if err != nil {
		logging.LogWarn("mongo accounts repository init failed, falling back to memory: %v", err)
		return accounts.NewMemoryRepository()
	}
	return repo
}

// setupCache wires the hot snapshot cache when a cache URL is configured,
// leaving Game.cache nil (fully functional, just uncached) otherwise.
func setupCache(cfg *config.Config) cache.Repo {
	if cfg.Cache.URL == "" {
		return nil
	}
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return cache.NewRedisCache(cfg.Cache.URL, "", 0, ttl, nil)
}
