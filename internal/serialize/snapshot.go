// Package serialize implements the client-facing wire format: entity/
// player/team/world snapshots (spec.md §6 "Serialized snapshot") and the
// serialized Action envelope broadcast over ACTION messages, with an
// optional zstd compression wrapper matching the teacher's
// internal/protocol/serializer.go idiom (minus the protobuf framing — see
// DESIGN.md's dropped-dependency note).
package serialize

import (
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/and0p/chaos-core/internal/team"
	"github.com/and0p/chaos-core/internal/world"
)

// ComponentSnapshot is the wire shape of one broadcast-flagged component.
type ComponentSnapshot struct {
	ID string `json:"id"`
}

// EntitySnapshot is what a client receives for one entity it owns or
// senses: only components whose Broadcast flag is set are included.
type EntitySnapshot struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Tags       []string            `json:"tags,omitempty"`
	Published  bool                `json:"published"`
	WorldID    string              `json:"world_id,omitempty"`
	PositionX  int                 `json:"x"`
	PositionY  int                 `json:"y"`
	Properties map[string]float64  `json:"properties,omitempty"`
	Slots      map[string]string   `json:"slots,omitempty"`
	Components []ComponentSnapshot `json:"components,omitempty"`
}

// Entity builds the client-facing snapshot of e, filtering its catalog to
// broadcast-flagged components only (spec.md §6).
func Entity(e *entity.Entity) EntitySnapshot {
	tags := make([]string, 0, len(e.Tags))
	for t := range e.Tags {
		tags = append(tags, t)
	}

	props := make(map[string]float64, len(e.Properties))
	for name, p := range e.Properties {
		props[name] = p.Current()
	}

	slots := make(map[string]string, len(e.Slots))
	for name, occupant := range e.Slots {
		slots[name] = occupant
	}

	var comps []ComponentSnapshot
	for _, c := range e.Catalog().All() {
		if c.Broadcast {
			comps = append(comps, ComponentSnapshot{ID: c.ID})
		}
	}

	return EntitySnapshot{
		ID:         e.ID(),
		Name:       e.Name,
		Tags:       tags,
		Published:  e.Published,
		WorldID:    e.WorldID,
		PositionX:  e.Position.X,
		PositionY:  e.Position.Y,
		Properties: props,
		Slots:      slots,
		Components: comps,
	}
}

// PlayerSnapshot is what a client receives describing a player it can see
// (itself, or a teammate under team perception grouping).
type PlayerSnapshot struct {
	ID             string   `json:"id"`
	TeamID         string   `json:"team_id,omitempty"`
	OwnedEntities  []string `json:"owned_entities,omitempty"`
	SensedEntities []string `json:"sensed_entities,omitempty"`
}

// Player builds the client-facing snapshot of p.
func Player(p *player.Player) PlayerSnapshot {
	owned := make([]string, 0)
	for id := range p.OwnedEntities.All() {
		owned = append(owned, id)
	}
	sensed := make([]string, 0)
	for id := range p.SensedEntities.All() {
		sensed = append(sensed, id)
	}
	return PlayerSnapshot{ID: p.ID(), TeamID: p.TeamID, OwnedEntities: owned, SensedEntities: sensed}
}

// TeamSnapshot is what a client receives describing a team it belongs to.
type TeamSnapshot struct {
	ID      string   `json:"id"`
	Members []string `json:"members,omitempty"`
}

// Team builds the client-facing snapshot of t.
func Team(t *team.Team) TeamSnapshot {
	members := make([]string, len(t.Members))
	copy(members, t.Members)
	return TeamSnapshot{ID: t.ID(), Members: members}
}

// WorldSnapshot is what a client receives describing a world it has any
// Scope on.
type WorldSnapshot struct {
	ID        string   `json:"id"`
	Published []string `json:"published,omitempty"`
}

// World builds the client-facing snapshot of w.
func World(w *world.World) WorldSnapshot {
	return WorldSnapshot{ID: w.ID(), Published: w.Published()}
}

// GameSnapshot is the top-level structure Game.serialize_for_scope returns
// (spec.md §6): every world the viewer has a Scope on, and every entity it
// senses or owns.
type GameSnapshot struct {
	ID      string           `json:"id"`
	Players []PlayerSnapshot `json:"players,omitempty"`
	Teams   []TeamSnapshot   `json:"teams,omitempty"`
	Worlds  []WorldSnapshot  `json:"worlds,omitempty"`
	Entities []EntitySnapshot `json:"entities,omitempty"`
}
