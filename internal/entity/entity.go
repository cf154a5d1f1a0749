// Package entity implements the Entity container: the attach/detach,
// slots, ability-grants and ownership state every in-world actor carries.
package entity

import (
	"fmt"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/nestedmap"
	"github.com/and0p/chaos-core/internal/property"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/google/uuid"
)

// Grant records who/what gave an entity an ability: granted_by and using
// are component ids (empty string if not applicable).
type Grant struct {
	Ability   string
	GrantedBy string
	Using     string
}

// Entity is one actor in the simulation.
type Entity struct {
	id         string
	Name       string
	Tags       map[string]struct{}
	Published  bool
	Active     bool
	Omnipotent bool

	Properties map[string]*property.Property
	Abilities  map[string][]Grant

	Owners []string // player ids; first is the primary owner for scope resolution
	Teams  *nestedmap.NestedMap[string]

	SensedEntities *nestedmap.NestedMap[*Entity]

	Slots map[string]string // slot name -> occupant entity id, "" if empty

	WorldID  string
	Position vec.Vector

	registry *component.Registry
	catalog  *component.Catalog
}

// New creates an unpublished entity with a fresh id.
func New(name string, registry *component.Registry) *Entity {
	id := uuid.NewString()
	e := &Entity{
		id:             id,
		Name:           name,
		Tags:           make(map[string]struct{}),
		Active:         true,
		Properties:     make(map[string]*property.Property),
		Abilities:      make(map[string][]Grant),
		Teams:          nestedmap.New[string](id, "entity-teams"),
		SensedEntities: nestedmap.New[*Entity](id, "entity"),
		Slots:          make(map[string]string),
		registry:       registry,
	}
	e.catalog = component.NewCatalog(e.Ref(), registry, func() component.Container { return e })
	registry.Register(e)
	return e
}

func (e *Entity) ID() string { return e.id }

func (e *Entity) Ref() container.Ref { return container.Ref{Kind: container.KindEntity, ID: e.id} }

func (e *Entity) IsPublished() bool { return e.Published }

func (e *Entity) Catalog() *component.Catalog { return e.catalog }

// GetContainerByScope resolves the single outward scope target for this
// entity: its world, its primary owner, a team from its own Teams rollup,
// or the game singleton. Per spec.md §4.1 an entity may subscribe outward
// to any of these; with multiple owners the first-added owner is used as
// "the" player scope target (the Subscription model holds one `to` ref).
// The team scope resolves only when the entity has at least one owner; if
// Teams holds several ids, which one is returned is not defined.
func (e *Entity) GetContainerByScope(scope container.Kind) (container.Ref, bool) {
	switch scope {
	case container.KindWorld:
		if e.WorldID == "" {
			return container.Ref{}, false
		}
		return container.Ref{Kind: container.KindWorld, ID: e.WorldID}, true
	case container.KindPlayer:
		if len(e.Owners) == 0 {
			return container.Ref{}, false
		}
		return container.Ref{Kind: container.KindPlayer, ID: e.Owners[0]}, true
	case container.KindTeam:
		if len(e.Owners) == 0 {
			return container.Ref{}, false
		}
		teamIDs := e.Teams.All()
		for id := range teamIDs {
			return container.Ref{Kind: container.KindTeam, ID: id}, true
		}
		return container.Ref{}, false
	case container.KindGame:
		return container.GameRef, true
	default:
		return container.Ref{}, false
	}
}

func (e *Entity) Sense(a component.Action) component.SenseResult { return e.catalog.Sense(a) }
func (e *Entity) Modify(a component.Action)                      { e.catalog.Modify(a) }
func (e *Entity) React(a component.Action)                       { e.catalog.React(a) }

// AddOwner records a player as owning this entity (first owner is primary).
func (e *Entity) AddOwner(playerID string) {
	for _, id := range e.Owners {
		if id == playerID {
			return
		}
	}
	e.Owners = append(e.Owners, playerID)
}

// RemoveOwner drops a player from the owner list.
func (e *Entity) RemoveOwner(playerID string) {
	for i, id := range e.Owners {
		if id == playerID {
			e.Owners = append(e.Owners[:i], e.Owners[i+1:]...)
			return
		}
	}
}

// AddProperty creates a named property if it does not exist yet, returning
// false (soft refusal, not an error) if it already does.
func (e *Entity) AddProperty(name string, base, min, max float64) bool {
	if _, exists := e.Properties[name]; exists {
		return false
	}
	e.Properties[name] = property.New(e.id, name, base, min, max)
	return true
}

// RemoveProperty deletes a named property, returning false if it did not
// exist.
func (e *Entity) RemoveProperty(name string) bool {
	if _, exists := e.Properties[name]; !exists {
		return false
	}
	delete(e.Properties, name)
	return true
}

// AddSlot declares an empty equipment slot, returning false if it already
// exists.
func (e *Entity) AddSlot(name string) bool {
	if _, exists := e.Slots[name]; exists {
		return false
	}
	e.Slots[name] = ""
	return true
}

// RemoveSlot deletes a slot, returning false if it did not exist.
func (e *Entity) RemoveSlot(name string) bool {
	if _, exists := e.Slots[name]; !exists {
		return false
	}
	delete(e.Slots, name)
	return true
}

// Equip places itemID into slot, succeeding only if the slot exists and is
// empty (spec.md §4.4 EquipItemAction).
func (e *Entity) Equip(slot, itemID string) bool {
	occupant, exists := e.Slots[slot]
	if !exists || occupant != "" {
		return false
	}
	e.Slots[slot] = itemID
	return true
}

// Unequip empties a slot, returning the previous occupant (or "" if it was
// already empty / does not exist).
func (e *Entity) Unequip(slot string) string {
	occupant, exists := e.Slots[slot]
	if !exists {
		return ""
	}
	e.Slots[slot] = ""
	return occupant
}

// LearnAbility appends a Grant, keyed by (ability, granted_by, using);
// re-learning the identical grant is a soft no-op.
func (e *Entity) LearnAbility(g Grant) bool {
	for _, existing := range e.Abilities[g.Ability] {
		if existing == g {
			return false
		}
	}
	e.Abilities[g.Ability] = append(e.Abilities[g.Ability], g)
	return true
}

// ForgetAbility removes a matching Grant, returning false if none matched.
func (e *Entity) ForgetAbility(g Grant) bool {
	grants := e.Abilities[g.Ability]
	for i, existing := range grants {
		if existing == g {
			e.Abilities[g.Ability] = append(grants[:i], grants[i+1:]...)
			if len(e.Abilities[g.Ability]) == 0 {
				delete(e.Abilities, g.Ability)
			}
			return true
		}
	}
	return false
}

// HasAbility reports whether any Grant exists for the named ability.
func (e *Entity) HasAbility(name string) bool {
	return len(e.Abilities[name]) > 0
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%s %q @ %v)", e.id, e.Name, e.Position)
}
