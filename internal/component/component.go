// Package component implements the pluggable-behavior model: a Component
// attaches to exactly one container and may act as a sensor, a modifier,
// and/or a reacter; the ComponentCatalog mediates which components hear
// which actions, including across container scopes (an entity's aura
// listening at world scope, a world rule listening at game scope, etc).
//
// Capability is duck-typed the way spec.md's design notes ask for: a
// Component is a single value whose IsSensor/IsModifier/IsReacter flags
// are derived from which optional handler fields are set, rather than a
// class hierarchy.
package component

import "github.com/and0p/chaos-core/internal/container"

// SenseResult is what a sensor records about an action: either a structured
// observation or a plain boolean ("the caster observed itself", per
// spec.md §4.3 step 4 — the caster is inserted last with value true).
type SenseResult struct {
	Observed bool
	Info     map[string]any
}

// Action is the minimal surface a Component's handlers need from the
// pipeline. The concrete type lives in package action; this interface lets
// component stay independent of it and avoids an import cycle (action
// depends on component and on entity/world/player/team, not the reverse).
type Action interface {
	ID() string
	Tags() map[string]struct{}
	Caster() (container.Ref, bool)
	Target() (container.Ref, bool)
	Using() (container.Ref, bool)
	Public() bool
	Permit(priority int, by container.Ref, message string)
	Deny(priority int, by container.Ref, message string)
	Nested() int
}

// SenseFunc, ModifyFunc and ReactFunc are the per-role handlers a Component
// may implement. self is passed in so one handler can be shared by
// multiple attached Components (e.g. a stock "Eyes" sensor).
type SenseFunc func(self *Component, a Action) SenseResult
type ModifyFunc func(self *Component, a Action)
type ReactFunc func(self *Component, a Action)

// Scope declares, per role, the container Kind this component wants to
// subscribe its handler at (e.g. a modifier wanting to hear every action
// in its world sets Modifier = container.KindWorld). A role with a handler
// but no declared scope subscribes locally, on the component's own
// container.
type Scope struct {
	Sensor   container.Kind
	Modifier container.Kind
	Reacter  container.Kind

	HasSensor   bool
	HasModifier bool
	HasReacter  bool
}

// Component is a pluggable behavior attached to exactly one container.
type Component struct {
	ID        string
	ParentRef container.Ref
	Scope     Scope
	Broadcast bool // whether this component is included in client snapshots

	onSense  SenseFunc
	onModify ModifyFunc
	onReact  ReactFunc
}

// New creates a detached component (ParentRef is set by Catalog.AddComponent).
func New(id string, scope Scope) *Component {
	return &Component{ID: id, Scope: scope}
}

// WithSense attaches a sensor handler and returns c for chaining.
func (c *Component) WithSense(f SenseFunc) *Component { c.onSense = f; return c }

// WithModify attaches a modifier handler and returns c for chaining.
func (c *Component) WithModify(f ModifyFunc) *Component { c.onModify = f; return c }

// WithReact attaches a reacter handler and returns c for chaining.
func (c *Component) WithReact(f ReactFunc) *Component { c.onReact = f; return c }

func (c *Component) IsSensor() bool   { return c.onSense != nil }
func (c *Component) IsModifier() bool { return c.onModify != nil }
func (c *Component) IsReacter() bool  { return c.onReact != nil }

// Sense, Modify and React invoke the corresponding handler if present; they
// are no-ops otherwise, so the catalog can call them uniformly.
func (c *Component) Sense(a Action) SenseResult {
	if c.onSense == nil {
		return SenseResult{}
	}
	return c.onSense(c, a)
}

func (c *Component) Modify(a Action) {
	if c.onModify != nil {
		c.onModify(c, a)
	}
}

func (c *Component) React(a Action) {
	if c.onReact != nil {
		c.onReact(c, a)
	}
}
