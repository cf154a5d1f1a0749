package component

import "github.com/and0p/chaos-core/internal/container"

// Container is the capability set every scope root (Entity, World, Player,
// Team, Game) implements.
type Container interface {
	Ref() container.Ref
	IsPublished() bool
	// GetContainerByScope resolves the container reachable from this one at
	// the given capability scope — e.g. an Entity's "world" scope resolves
	// to its owning World, a Player's "team" scope to its Team if any.
	GetContainerByScope(scope container.Kind) (container.Ref, bool)
	Catalog() *Catalog

	Sense(a Action) SenseResult
	Modify(a Action)
	React(a Action)
}

// Registry resolves Refs to live Containers. Game owns the single
// process-wide Registry and every container registers itself on creation.
type Registry struct {
	byKind map[container.Kind]map[string]Container
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[container.Kind]map[string]Container)}
}

// Register adds or replaces the container under its own Ref.
func (r *Registry) Register(c Container) {
	ref := c.Ref()
	m, ok := r.byKind[ref.Kind]
	if !ok {
		m = make(map[string]Container)
		r.byKind[ref.Kind] = m
	}
	m[ref.ID] = c
}

// Unregister removes a container from the registry.
func (r *Registry) Unregister(ref container.Ref) {
	if m, ok := r.byKind[ref.Kind]; ok {
		delete(m, ref.ID)
	}
}

// Resolve looks up the live container for ref.
func (r *Registry) Resolve(ref container.Ref) (Container, bool) {
	m, ok := r.byKind[ref.Kind]
	if !ok {
		return nil, false
	}
	c, ok := m[ref.ID]
	return c, ok
}
