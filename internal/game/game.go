// Package game implements the Game root container: the one process-wide
// singleton (spec.md §5) that owns the shared component.Registry, every
// World/Player/Team/Entity collection, the per-tick action queue, and the
// translation from a finished Action into per-player delivery
// (spec.md §4.6's queue_for_broadcast).
package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/and0p/chaos-core/internal/ability"
	"github.com/and0p/chaos-core/internal/accounts"
	"github.com/and0p/chaos-core/internal/action"
	"github.com/and0p/chaos-core/internal/apiserver"
	"github.com/and0p/chaos-core/internal/authn"
	"github.com/and0p/chaos-core/internal/cache"
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/config"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/event"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/metrics"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/and0p/chaos-core/internal/snapshotstore"
	"github.com/and0p/chaos-core/internal/team"
	"github.com/and0p/chaos-core/internal/world"
)

// instantiated guards spec.md §5's "Game is the only process-wide
// singleton" invariant: a second non-debug construction is a fatal
// programmer error, not a recoverable one.
var instantiated int32

// Config wires every optional collaborator a Game may use. Only Game is
// required; every other field falls back to an in-memory/default
// implementation so tests can construct a Game with zero external
// dependencies.
type Config struct {
	Game          config.GameConfig
	Registry      *component.Registry    // defaults to a fresh Registry
	Abilities     *ability.Registry      // defaults to an empty Registry
	Authenticator *authn.Authenticator   // defaults to authn.New()
	Accounts      accounts.Repository    // defaults to accounts.NewMemoryRepository()
	Snapshots     *snapshotstore.Store   // optional, diagnostics only
	Cache         cache.Repo             // optional hot cache

	// AllowMultipleInstances bypasses the singleton guard, for tests that
	// construct more than one Game in the same process.
	AllowMultipleInstances bool
}

// Game is the root container every World/Player/Team/Entity ultimately
// resolves its "game" scope to.
type Game struct {
	mu sync.RWMutex // guards worlds/players/teams/entities/clientPlayers only; the pipeline itself does not lock

	config   config.GameConfig
	registry *component.Registry
	catalog  *component.Catalog
	queue    *event.ActionQueue

	abilities *ability.Registry

	authenticator *authn.Authenticator
	accountsRepo  accounts.Repository
	snapshots     *snapshotstore.Store
	cache         cache.Repo

	worlds        map[string]*world.World
	players       map[string]*player.Player
	teams         map[string]*team.Team
	entities      map[string]*entity.Entity
	clientPlayers map[string]string // client_id -> player_id, for CAST's ownership check

	tickCount uint64
}

// New constructs the game singleton. Outside of tests (AllowMultipleInstances),
// calling New a second time in one process is an invariant violation and
// panics rather than returning a degraded instance.
func New(cfg Config) *Game {
	if !cfg.AllowMultipleInstances && !atomic.CompareAndSwapInt32(&instantiated, 0, 1) {
		logging.LogError("game: New called a second time in this process")
		panic("game: Game must be constructed exactly once per process (spec.md §5)")
	}

	registry := cfg.Registry
	if registry == nil {
		registry = component.NewRegistry()
	}
	abilities := cfg.Abilities
	if abilities == nil {
		abilities = ability.NewRegistry()
	}
	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = authn.New()
	}
	accountsRepo := cfg.Accounts
	if accountsRepo == nil {
		accountsRepo = accounts.NewMemoryRepository()
	}

	g := &Game{
		config:        cfg.Game,
		registry:      registry,
		queue:         event.NewActionQueue(),
		abilities:     abilities,
		authenticator: authenticator,
		accountsRepo:  accountsRepo,
		snapshots:     cfg.Snapshots,
		cache:         cfg.Cache,
		worlds:        make(map[string]*world.World),
		players:       make(map[string]*player.Player),
		teams:         make(map[string]*team.Team),
		entities:      make(map[string]*entity.Entity),
		clientPlayers: make(map[string]string),
	}
	g.catalog = component.NewCatalog(g.Ref(), registry, func() component.Container { return g })
	registry.Register(g)
	return g
}

// --- component.Container ---

func (g *Game) Ref() container.Ref  { return container.GameRef }
func (g *Game) IsPublished() bool   { return true }
func (g *Game) Catalog() *component.Catalog { return g.catalog }

// GetContainerByScope always fails: the game singleton has no outward
// scope to subscribe at (validTargetScopes[KindGame] is empty, spec.md
// §4.1).
func (g *Game) GetContainerByScope(container.Kind) (container.Ref, bool) {
	return container.Ref{}, false
}

func (g *Game) Sense(a component.Action) component.SenseResult { return g.catalog.Sense(a) }
func (g *Game) Modify(a component.Action)                      { g.catalog.Modify(a) }
func (g *Game) React(a component.Action)                       { g.catalog.React(a) }

// Registry returns the shared component registry, for content/bootstrap
// code that needs to build containers/actions directly against it.
func (g *Game) Registry() *component.Registry { return g.registry }

// Queue returns the per-tick action queue content can enqueue additional
// work onto (e.g. an ability cast producing more than one action).
func (g *Game) Queue() *event.ActionQueue { return g.queue }

// Abilities returns the name-keyed ability registry.
func (g *Game) Abilities() *ability.Registry { return g.abilities }

// --- Collections ---

// CreateWorld creates and registers a new world under id.
func (g *Game) CreateWorld(id string) *world.World {
	g.mu.Lock()
	defer g.mu.Unlock()
	w := world.New(id, g.registry)
	g.worlds[id] = w
	return w
}

// CreateTeam creates and registers a new team under id.
func (g *Game) CreateTeam(id string) *team.Team {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := team.New(id, g.registry)
	g.teams[id] = t
	return t
}

// CreateEntity creates and registers a new entity with the given display
// name.
func (g *Game) CreateEntity(name string) *entity.Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	e := entity.New(name, g.registry)
	g.entities[e.ID()] = e
	return e
}

// Player looks up a connected player by id.
func (g *Game) Player(id string) (*player.Player, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.players[id]
	return p, ok
}

// World looks up a world by id.
func (g *Game) World(id string) (*world.World, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w, ok := g.worlds[id]
	return w, ok
}

// Team looks up a team by id.
func (g *Game) Team(id string) (*team.Team, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.teams[id]
	return t, ok
}

// Entity looks up an entity by id.
func (g *Game) Entity(id string) (*entity.Entity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entities[id]
	return e, ok
}

// JoinTeam assigns playerID to teamID and wires the player's sensed-entity
// rollup as a child of the team's, so the team's SensedEntities reflects
// every member's perception (spec.md §4.6's team perception grouping).
func (g *Game) JoinTeam(playerID, teamID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("game: unknown player %q", playerID)
	}
	t, ok := g.teams[teamID]
	if !ok {
		return fmt.Errorf("game: unknown team %q", teamID)
	}
	p.TeamID = teamID
	t.AddMember(playerID)
	t.RollUpPlayer(p.SensedEntities)
	return nil
}

// resolveEntity resolves id against the registry rather than Game's own
// entities map, since an entity's identity is established at
// entity.New/registry.Register time regardless of which package created
// it (content may construct entities directly against Registry()).
func (g *Game) resolveEntity(id string) (*entity.Entity, bool) {
	c, ok := g.registry.Resolve(container.Ref{Kind: container.KindEntity, ID: id})
	if !ok {
		return nil, false
	}
	e, ok := c.(*entity.Entity)
	return e, ok
}

// --- Execution ---

// Execute runs v through the action pipeline as a fresh top-level action,
// with this Game wired in as both the registry owner and the broadcaster.
func (g *Game) Execute(v action.Variant, force bool) bool {
	return action.Execute(v, g.registry, g, g.config.GetListenDistance(), force)
}

// Tick drains the action queue to a fixed point: every action run may
// enqueue more (e.g. an ability's cast producing a multi-action Event),
// and those are picked up by the next Drain rather than interleaved mid-
// batch (spec.md §5).
func (g *Game) Tick() {
	start := time.Now()
	ran := 0
	for {
		batch := g.queue.Drain()
		if len(batch) == 0 {
			break
		}
		for _, a := range batch {
			v, ok := a.(action.Variant)
			if !ok {
				logging.LogError("game: queued action %T does not implement action.Variant", a)
				continue
			}
			g.Execute(v, false)
			ran++
		}
	}
	g.tickCount++
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	logging.LogTick(int(g.tickCount), ran, float64(time.Since(start).Microseconds())/1000)
}

// TickCount returns how many ticks have run so far.
func (g *Game) TickCount() uint64 { return atomic.LoadUint64(&g.tickCount) }

// --- apiserver.GameView ---

// Stats returns a point-in-time summary for the debug/admin REST surface.
func (g *Game) Stats() apiserver.Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return apiserver.Stats{
		ConnectedPlayers: len(g.players),
		Worlds:           len(g.worlds),
		Entities:         len(g.entities),
		TickCount:        g.TickCount(),
	}
}

func snapshotCacheKey(viewerID string) string { return "snapshot:" + viewerID }

// SerializeForScope builds (or serves from the hot cache) the client-facing
// snapshot for viewerID, optionally persisting it to snapshotstore for
// diagnostics. Neither cache nor store is ever read back to reconstruct
// authoritative state (spec.md's Non-goals).
func (g *Game) SerializeForScope(viewerID string) ([]byte, error) {
	g.mu.RLock()
	p, ok := g.players[viewerID]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game: unknown viewer %q", viewerID)
	}

	ctx := context.Background()
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, snapshotCacheKey(viewerID)); err == nil {
			return cached, nil
		} else if !cache.IsCacheMiss(err) {
			logging.LogWarn("game: snapshot cache get for %s: %v", viewerID, err)
		}
	}

	data, err := g.buildSnapshot(p)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, snapshotCacheKey(viewerID), data, 0); err != nil {
			logging.LogWarn("game: snapshot cache set for %s: %v", viewerID, err)
		}
	}
	if g.snapshots != nil {
		if err := g.snapshots.Put(viewerID, data); err != nil {
			logging.LogWarn("game: snapshot persist for %s: %v", viewerID, err)
		}
	}
	return data, nil
}

// InvalidateSnapshot drops viewerID's hot cache entry, e.g. after an
// action whose visibility changes affect what that viewer can see.
func (g *Game) InvalidateSnapshot(viewerID string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Invalidate(context.Background(), snapshotCacheKey(viewerID)); err != nil {
		logging.LogWarn("game: snapshot cache invalidate for %s: %v", viewerID, err)
	}
}
