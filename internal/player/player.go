// Package player implements the Player container: one connected client's
// ownership set, sensed-entity rollup, and per-world view scopes.
package player

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/nestedmap"
	"github.com/and0p/chaos-core/internal/visibility"
)

// Player is one connected client.
type Player struct {
	id string

	OwnedEntities  *nestedmap.NestedMap[*entity.Entity]
	SensedEntities *nestedmap.NestedMap[*entity.Entity]

	TeamID string

	scopes map[string]*visibility.Scope // world id -> view scope

	outgoing []component.Action // queued for this player's next broadcast flush

	registry *component.Registry
	catalog  *component.Catalog
}

// New creates a player registered under id.
func New(id string, registry *component.Registry) *Player {
	p := &Player{
		id:             id,
		OwnedEntities:  nestedmap.New[*entity.Entity](id, "player-owned"),
		SensedEntities: nestedmap.New[*entity.Entity](id, "player-sensed"),
		scopes:         make(map[string]*visibility.Scope),
		registry:       registry,
	}
	p.catalog = component.NewCatalog(p.Ref(), registry, func() component.Container { return p })
	registry.Register(p)
	return p
}

func (p *Player) ID() string { return p.id }

func (p *Player) Ref() container.Ref { return container.Ref{Kind: container.KindPlayer, ID: p.id} }

func (p *Player) IsPublished() bool { return true }

func (p *Player) Catalog() *component.Catalog { return p.catalog }

// GetContainerByScope resolves "team" (if the player belongs to one) and
// "game" (always); a player has no world scope of its own.
func (p *Player) GetContainerByScope(scope container.Kind) (container.Ref, bool) {
	switch scope {
	case container.KindTeam:
		if p.TeamID == "" {
			return container.Ref{}, false
		}
		return container.Ref{Kind: container.KindTeam, ID: p.TeamID}, true
	case container.KindGame:
		return container.GameRef, true
	default:
		return container.Ref{}, false
	}
}

func (p *Player) Sense(a component.Action) component.SenseResult { return p.catalog.Sense(a) }
func (p *Player) Modify(a component.Action)                      { p.catalog.Modify(a) }
func (p *Player) React(a component.Action)                       { p.catalog.React(a) }

// ScopeFor returns (creating if necessary) this player's view scope in
// worldID.
func (p *Player) ScopeFor(worldID string) *visibility.Scope {
	s, ok := p.scopes[worldID]
	if !ok {
		s = visibility.New()
		p.scopes[worldID] = s
	}
	return s
}

// OwnEntity adds e to the owned set, rolling it into SensedEntities too
// (an owned entity is always considered sensed), and returns the resulting
// NestedChanges (spec.md §4.4 OwnEntityAction). e's own SensedEntities node
// is wired as a child of the player's, so anything e senses (e.g. via an
// Eyes-style sensor) rolls up to the player without a further explicit
// action (spec.md §4.2's entity -> player -> team rollup chain).
func (p *Player) OwnEntity(e *entity.Entity) nestedmap.Changes {
	changes := p.OwnedEntities.Add(e.ID(), e)
	changes.Merge(p.SensedEntities.Add(e.ID(), e))
	e.SensedEntities.AddParent(p.SensedEntities)
	return changes
}

// DisownEntity removes e from the owned set.
func (p *Player) DisownEntity(e *entity.Entity) nestedmap.Changes {
	return p.OwnedEntities.Remove(e.ID())
}

// Enqueue appends an action to this player's outgoing broadcast queue.
func (p *Player) Enqueue(a component.Action) {
	p.outgoing = append(p.outgoing, a)
}

// Flush drains and returns this player's queued outgoing actions.
func (p *Player) Flush() []component.Action {
	out := p.outgoing
	p.outgoing = nil
	return out
}
