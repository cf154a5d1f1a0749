// Package team implements the Team container: a named grouping of players
// whose sensed-entity sets roll up together when perception_grouping is
// team-scoped (spec.md §4.6).
package team

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/nestedmap"
)

// Team is a named grouping of players.
type Team struct {
	id string

	Members        []string // player ids, insertion order
	SensedEntities *nestedmap.NestedMap[*entity.Entity]

	registry *component.Registry
	catalog  *component.Catalog
}

// New creates a team registered under id.
func New(id string, registry *component.Registry) *Team {
	t := &Team{
		id:             id,
		SensedEntities: nestedmap.New[*entity.Entity](id, "team-sensed"),
		registry:       registry,
	}
	t.catalog = component.NewCatalog(t.Ref(), registry, func() component.Container { return t })
	registry.Register(t)
	return t
}

func (t *Team) ID() string { return t.id }

func (t *Team) Ref() container.Ref { return container.Ref{Kind: container.KindTeam, ID: t.id} }

func (t *Team) IsPublished() bool { return true }

func (t *Team) Catalog() *component.Catalog { return t.catalog }

// GetContainerByScope resolves only "game" — a team has no further outward
// scope to subscribe at.
func (t *Team) GetContainerByScope(scope container.Kind) (container.Ref, bool) {
	if scope == container.KindGame {
		return container.GameRef, true
	}
	return container.Ref{}, false
}

func (t *Team) Sense(a component.Action) component.SenseResult { return t.catalog.Sense(a) }
func (t *Team) Modify(a component.Action)                      { t.catalog.Modify(a) }
func (t *Team) React(a component.Action)                       { t.catalog.React(a) }

// AddMember appends playerID to the roster if not already present.
func (t *Team) AddMember(playerID string) {
	for _, id := range t.Members {
		if id == playerID {
			return
		}
	}
	t.Members = append(t.Members, playerID)
}

// RemoveMember drops playerID from the roster.
func (t *Team) RemoveMember(playerID string) {
	for i, id := range t.Members {
		if id == playerID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

// RollUpPlayer wires playerSensed (a Player's SensedEntities node) as a
// child of this team's rollup, so the team's SensedEntities reflects every
// member's perception.
func (t *Team) RollUpPlayer(playerSensed *nestedmap.NestedMap[*entity.Entity]) bool {
	return playerSensed.AddParent(t.SensedEntities)
}
