// Package ability implements content-defined abilities: named casts that
// turn (caster, args) into an ordered Event of actions queued for the next
// tick rather than executed inline (spec.md §4.5).
package ability

import (
	"fmt"

	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/event"
)

// CastArgs carries the optional context a cast may use: which component
// granted the ability, which component it's being cast through, the
// target entity, and freeform parameters content defines.
type CastArgs struct {
	Using     string // component id
	GrantedBy string // component id
	Target    *entity.Entity
	Params    map[string]any
}

// CastFunc builds the Event an ability's cast produces. It must not
// execute anything itself — abilities only ever enqueue.
type CastFunc func(caster *entity.Entity, args CastArgs) (*event.Event, error)

// Ability is a named, content-defined capability a Grant lets an entity
// invoke.
type Ability struct {
	Name string
	cast CastFunc
}

// New creates an ability backed by cast.
func New(name string, cast CastFunc) *Ability {
	return &Ability{Name: name, cast: cast}
}

// Cast invokes the ability's cast function, returning the Event it
// produced for the caller to hand to the game's action queue.
func (a *Ability) Cast(caster *entity.Entity, args CastArgs) (*event.Event, error) {
	if !caster.HasAbility(a.Name) {
		return nil, fmt.Errorf("ability: %s does not know %q", caster.Name, a.Name)
	}
	if a.cast == nil {
		return event.NewEvent(), nil
	}
	return a.cast(caster, args)
}

// Registry is a simple name-keyed lookup of known abilities, owned by the
// game singleton.
type Registry struct {
	byName map[string]*Ability
}

// NewRegistry creates an empty ability registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Ability)}
}

// Register adds or replaces an ability under its name.
func (r *Registry) Register(a *Ability) {
	r.byName[a.Name] = a
}

// Get looks up an ability by name.
func (r *Registry) Get(name string) (*Ability, bool) {
	a, ok := r.byName[name]
	return a, ok
}
