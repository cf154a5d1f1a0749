// Package apiserver implements the read-only debug/admin HTTP surface
// that sits alongside the game singleton's tick loop: viewer snapshot
// lookup, game stats, and health/process stats. It never
// touches mid-tick state — every handler either reads a Snapshot already
// produced at a tick boundary or goes through a queue the tick loop drains
// itself, preserving spec.md §5's "no operation suspends mid-pipeline"
// guarantee.
package apiserver

import (
	"context"
	"net/http"
	"time"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GameView is the minimal read surface apiserver needs from the game
// singleton, kept narrow and duck-typed to avoid an import cycle between
// internal/game and internal/apiserver.
type GameView interface {
	// SerializeForScope returns the latest serialized snapshot bytes for
	// viewerID, or an error if the viewer is unknown.
	SerializeForScope(viewerID string) ([]byte, error)

	// Stats returns a point-in-time summary for /api/stats.
	Stats() Stats
}

// Stats is the point-in-time summary GameView.Stats returns.
type Stats struct {
	ConnectedPlayers int    `json:"connected_players"`
	Worlds           int    `json:"worlds"`
	Entities         int    `json:"entities"`
	TickCount        uint64 `json:"tick_count"`
}

// Server is the debug/admin HTTP surface.
type Server struct {
	router *gin.Engine
	game   GameView
	health *healthReporter
	addr   string
	http   *http.Server
}

// Config configures a Server.
type Config struct {
	Addr string // e.g. ":8088"
	Game GameView
}

// New builds a Server with observability middleware wired in, mirroring
// the ambient logging/metrics/tracing stack the rest of the module uses.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(newRequestLogger().handler())
	router.Use(otelgin.Middleware("chaos_core_api"))
	router.Use(newRequestMetrics().handler())
	router.Use(corsHeaders)

	s := &Server{
		router: router,
		game:   cfg.Game,
		health: newHealthReporter(),
		addr:   cfg.Addr,
	}
	s.setupRoutes()
	return s
}

func corsHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/stats", s.handleStats)
	api.GET("/snapshot/:viewerID", s.handleSnapshot)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.health.Report())
}

func (s *Server) handleStats(c *gin.Context) {
	if s.game == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game not attached"})
		return
	}
	c.JSON(http.StatusOK, s.game.Stats())
}

func (s *Server) handleSnapshot(c *gin.Context) {
	if s.game == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game not attached"})
		return
	}
	viewerID := c.Param("viewerID")
	data, err := s.game.SerializeForScope(viewerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Start runs the HTTP server in a background goroutine, matching the
// module's non-blocking side-adapter idiom (internal/metrics.StartHTTP,
// internal/eventbus's dispatch loop).
func (s *Server) Start() {
	s.http = &http.Server{Addr: s.addr, Handler: s.router}
	go func() {
		logging.LogInfo("apiserver: listening on %s", s.addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.LogError("apiserver: listen: %v", err)
		}
	}()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
