package component

import (
	"fmt"

	"github.com/and0p/chaos-core/internal/container"
)

// Subscription is a non-owning back-reference: "our component c is
// listening to container To, under role Role, having declared target
// scope Scope". Stored by (container_id, role) rather than a live handle,
// per spec.md §9's cyclic-graph strategy.
type Subscription struct {
	Component *Component
	To        container.Ref
	Role      container.Role
	Scope     container.Kind
}

// validTargetScopes enumerates, for each parent Kind, which scopes a
// component attached there may subscribe outward to (spec.md §4.1).
var validTargetScopes = map[container.Kind]map[container.Kind]bool{
	container.KindEntity: {container.KindWorld: true, container.KindPlayer: true, container.KindTeam: true, container.KindGame: true},
	container.KindWorld:  {container.KindGame: true},
	container.KindPlayer: {container.KindTeam: true, container.KindGame: true},
	container.KindTeam:   {container.KindGame: true},
	container.KindGame:   {},
}

// Catalog is the per-container subscription-graph structure: components it
// owns (all), components elsewhere listening to it (subscribers, one map
// per role), and its own components' outgoing subscriptions elsewhere
// (subscriptions, one map per target scope).
type Catalog struct {
	parentRef   container.Ref
	parentScope container.Kind
	registry    *Registry
	parent      func() Container // resolves to the owning container lazily, to avoid a construction-order cycle

	all *orderedMap[*Component]

	subscribers map[container.Role]*orderedMap[*Component]

	subscriptions map[container.Kind]*orderedMap[*Subscription]
}

// NewCatalog creates a catalog for a container identified by ref, backed
// by the shared registry. parent is called lazily (after the owning
// container has registered itself) whenever the catalog needs to ask its
// parent for IsPublished()/GetContainerByScope().
func NewCatalog(ref container.Ref, registry *Registry, parent func() Container) *Catalog {
	return &Catalog{
		parentRef:   ref,
		parentScope: ref.Kind,
		registry:    registry,
		parent:      parent,
		all:         newOrderedMap[*Component](),
		subscribers: map[container.Role]*orderedMap[*Component]{
			container.RoleSensor:   newOrderedMap[*Component](),
			container.RoleModifier: newOrderedMap[*Component](),
			container.RoleReacter:  newOrderedMap[*Component](),
		},
		subscriptions: make(map[container.Kind]*orderedMap[*Subscription]),
	}
}

// ParentRef returns the Ref of the container this catalog belongs to.
func (cat *Catalog) ParentRef() container.Ref { return cat.parentRef }

// All returns every component owned by this catalog, in attach order.
func (cat *Catalog) All() []*Component { return cat.all.Values() }

// Subscribers returns the components elsewhere listening to this container
// under the given role, in subscribe order.
func (cat *Catalog) Subscribers(role container.Role) []*Component {
	return cat.subscribers[role].Values()
}

// roleScope reads the scope a component declared for a role, if any.
func roleScope(c *Component, role container.Role) (container.Kind, bool) {
	switch role {
	case container.RoleSensor:
		return c.Scope.Sensor, c.Scope.HasSensor
	case container.RoleModifier:
		return c.Scope.Modifier, c.Scope.HasModifier
	case container.RoleReacter:
		return c.Scope.Reacter, c.Scope.HasReacter
	}
	return 0, false
}

func rolesOf(c *Component) []container.Role {
	var roles []container.Role
	if c.IsSensor() {
		roles = append(roles, container.RoleSensor)
	}
	if c.IsModifier() {
		roles = append(roles, container.RoleModifier)
	}
	if c.IsReacter() {
		roles = append(roles, container.RoleReacter)
	}
	return roles
}

// AddComponent inserts c into all and wires its subscriptions per role.
// Returns an error if c.ID is already present (duplicate id is a failure,
// not an invariant violation).
func (cat *Catalog) AddComponent(c *Component) error {
	if _, exists := cat.all.Get(c.ID); exists {
		return fmt.Errorf("component: duplicate id %q in catalog %v", c.ID, cat.parentRef)
	}
	c.ParentRef = cat.parentRef
	cat.all.Set(c.ID, c)

	for _, role := range rolesOf(c) {
		cat.subscribeRole(c, role)
	}
	return nil
}

// subscribeRole wires a single role subscription for c, falling back to a
// local subscriber entry when the declared scope is invalid or the parent
// is not published.
func (cat *Catalog) subscribeRole(c *Component, role container.Role) {
	scope, has := roleScope(c, role)
	if !has || !validTargetScopes[cat.parentScope][scope] || !cat.parent().IsPublished() {
		cat.subscribers[role].Set(c.ID, c)
		return
	}

	targetRef, ok := cat.parent().GetContainerByScope(scope)
	if !ok {
		cat.subscribers[role].Set(c.ID, c)
		return
	}
	target, ok := cat.registry.Resolve(targetRef)
	if !ok {
		cat.subscribers[role].Set(c.ID, c)
		return
	}

	target.Catalog().addSubscriber(c, role)

	m, ok := cat.subscriptions[scope]
	if !ok {
		m = newOrderedMap[*Subscription]()
		cat.subscriptions[scope] = m
	}
	m.Set(c.ID, &Subscription{Component: c, To: targetRef, Role: role, Scope: scope})
}

// addSubscriber records an external component listening to this catalog's
// container under role. Called by the subscribing catalog, never directly.
func (cat *Catalog) addSubscriber(c *Component, role container.Role) {
	cat.subscribers[role].Set(c.ID, c)
}

// RemoveSubscriber drops an external component's subscription to this
// container under role. Called by the unsubscribing catalog.
func (cat *Catalog) RemoveSubscriber(componentID string, role container.Role) {
	cat.subscribers[role].Delete(componentID)
}

// RemoveComponent removes c from all and tears down every subscription it
// held, in both directions.
func (cat *Catalog) RemoveComponent(c *Component) {
	cat.all.Delete(c.ID)
	for _, m := range cat.subscriptions {
		sub, ok := m.Get(c.ID)
		if !ok {
			continue
		}
		if target, ok := cat.registry.Resolve(sub.To); ok {
			target.Catalog().RemoveSubscriber(c.ID, sub.Role)
		}
		m.Delete(c.ID)
	}
	for _, role := range rolesOf(c) {
		cat.subscribers[role].Delete(c.ID)
	}
}

// SubscribeToAll clears and rebuilds every outgoing subscription of every
// owned component. Used when the parent container transitions to
// published, so components that fell back to local-only subscription can
// now wire outward.
func (cat *Catalog) SubscribeToAll() {
	cat.clearOutgoing()
	for _, c := range cat.all.Values() {
		for _, role := range rolesOf(c) {
			cat.subscribeRole(c, role)
		}
	}
}

// UnsubscribeFromAll tears down every outgoing subscription and falls the
// components back to local-only subscription. Used on unpublish.
func (cat *Catalog) UnsubscribeFromAll() {
	cat.clearOutgoing()
	for _, c := range cat.all.Values() {
		for _, role := range rolesOf(c) {
			cat.subscribers[role].Set(c.ID, c)
		}
	}
}

func (cat *Catalog) clearOutgoing() {
	for scope, m := range cat.subscriptions {
		for _, sub := range m.Values() {
			if target, ok := cat.registry.Resolve(sub.To); ok {
				target.Catalog().RemoveSubscriber(sub.Component.ID, sub.Role)
			}
		}
		delete(cat.subscriptions, scope)
	}
	for _, role := range []container.Role{container.RoleSensor, container.RoleModifier, container.RoleReacter} {
		for _, c := range cat.all.Values() {
			cat.subscribers[role].Delete(c.ID)
		}
	}
}

// Unload symmetrically removes every subscription (in both directions)
// and clears all, per the spec.md §9 treatment of the stubbed
// ComponentCatalog.unload()/detach().
func (cat *Catalog) Unload() {
	cat.clearOutgoing()
	for _, c := range cat.all.Values() {
		cat.all.Delete(c.ID)
	}
}

// Sense, Modify and React fan out to the subscribers of the matching role,
// in subscribe order, tolerating an individual handler failure by
// recovering and letting the remaining listeners still run (spec.md §7:
// "a rogue component may not crash the tick").
func (cat *Catalog) Sense(a Action) SenseResult {
	var result SenseResult
	for _, c := range cat.subscribers[container.RoleSensor].Values() {
		func() {
			defer recoverInto(c.ID)
			r := c.Sense(a)
			if r.Observed {
				result = r
			}
		}()
	}
	return result
}

func (cat *Catalog) Modify(a Action) {
	for _, c := range cat.subscribers[container.RoleModifier].Values() {
		func() {
			defer recoverInto(c.ID)
			c.Modify(a)
		}()
	}
}

func (cat *Catalog) React(a Action) {
	for _, c := range cat.subscribers[container.RoleReacter].Values() {
		func() {
			defer recoverInto(c.ID)
			c.React(a)
		}()
	}
}

// recoverInto swallows a panicking handler; hook for logging is wired in
// by the action package (ListenerPanicHandler), kept nil-safe here so
// component stays independent of the logging package.
var ListenerPanicHandler func(componentID string, recovered any)

func recoverInto(componentID string) {
	if r := recover(); r != nil && ListenerPanicHandler != nil {
		ListenerPanicHandler(componentID, r)
	}
}
