package component

import (
	"testing"

	"github.com/and0p/chaos-core/internal/container"
)

// fakeContainer is a minimal Container for catalog tests: it has a fixed
// published flag and a fixed map of reachable scopes.
type fakeContainer struct {
	ref       container.Ref
	published bool
	reachable map[container.Kind]container.Ref
	catalog   *Catalog
}

func newFakeContainer(reg *Registry, ref container.Ref) *fakeContainer {
	fc := &fakeContainer{ref: ref, reachable: make(map[container.Kind]container.Ref)}
	fc.catalog = NewCatalog(ref, reg, func() Container { return fc })
	reg.Register(fc)
	return fc
}

func (f *fakeContainer) Ref() container.Ref { return f.ref }
func (f *fakeContainer) IsPublished() bool  { return f.published }
func (f *fakeContainer) GetContainerByScope(scope container.Kind) (container.Ref, bool) {
	r, ok := f.reachable[scope]
	return r, ok
}
func (f *fakeContainer) Catalog() *Catalog { return f.catalog }
func (f *fakeContainer) Sense(a Action) SenseResult { return f.catalog.Sense(a) }
func (f *fakeContainer) Modify(a Action)             { f.catalog.Modify(a) }
func (f *fakeContainer) React(a Action)              { f.catalog.React(a) }

type fakeAction struct{ id string }

func (a *fakeAction) ID() string                                         { return a.id }
func (a *fakeAction) Tags() map[string]struct{}                          { return nil }
func (a *fakeAction) Caster() (container.Ref, bool)                      { return container.Ref{}, false }
func (a *fakeAction) Target() (container.Ref, bool)                      { return container.Ref{}, false }
func (a *fakeAction) Using() (container.Ref, bool)                       { return container.Ref{}, false }
func (a *fakeAction) Public() bool                                       { return true }
func (a *fakeAction) Permit(priority int, by container.Ref, message string) {}
func (a *fakeAction) Deny(priority int, by container.Ref, message string)   {}
func (a *fakeAction) Nested() int                                        { return 0 }

func TestAddComponentWiresRemoteSubscriptionWhenPublished(t *testing.T) {
	reg := NewRegistry()
	worldRef := container.Ref{Kind: container.KindWorld, ID: "w1"}
	world := newFakeContainer(reg, worldRef)
	world.published = true

	entRef := container.Ref{Kind: container.KindEntity, ID: "e1"}
	ent := newFakeContainer(reg, entRef)
	ent.published = true
	ent.reachable[container.KindWorld] = worldRef

	aura := New("aura", Scope{Modifier: container.KindWorld, HasModifier: true}).
		WithModify(func(self *Component, a Action) {})

	if err := ent.catalog.AddComponent(aura); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	if len(world.catalog.Subscribers(container.RoleModifier)) != 1 {
		t.Fatal("expected aura to be subscribed at world scope")
	}
	if len(ent.catalog.Subscribers(container.RoleModifier)) != 0 {
		t.Fatal("expected no local fallback once wired remotely")
	}
}

func TestAddComponentFallsBackLocallyWhenUnpublished(t *testing.T) {
	reg := NewRegistry()
	worldRef := container.Ref{Kind: container.KindWorld, ID: "w1"}
	world := newFakeContainer(reg, worldRef)
	world.published = true

	entRef := container.Ref{Kind: container.KindEntity, ID: "e1"}
	ent := newFakeContainer(reg, entRef)
	ent.published = false // not yet published
	ent.reachable[container.KindWorld] = worldRef

	sensor := New("eyes", Scope{Modifier: container.KindWorld, HasModifier: true}).
		WithModify(func(self *Component, a Action) {})
	ent.catalog.AddComponent(sensor)

	if len(world.catalog.Subscribers(container.RoleModifier)) != 0 {
		t.Fatal("expected no remote subscription while unpublished")
	}
	if len(ent.catalog.Subscribers(container.RoleModifier)) != 1 {
		t.Fatal("expected local fallback subscriber")
	}

	// Now publish and rebuild.
	ent.published = true
	ent.catalog.SubscribeToAll()

	if len(world.catalog.Subscribers(container.RoleModifier)) != 1 {
		t.Fatal("expected SubscribeToAll to wire the remote subscription")
	}
	if len(ent.catalog.Subscribers(container.RoleModifier)) != 0 {
		t.Fatal("expected local fallback cleared after rewiring")
	}
}

func TestInvalidTargetScopeFallsBackLocally(t *testing.T) {
	reg := NewRegistry()
	gameRef := container.Ref{Kind: container.KindGame, ID: "g"}
	game := newFakeContainer(reg, gameRef)
	game.published = true

	c := New("bad", Scope{Modifier: container.KindWorld, HasModifier: true}).
		WithModify(func(self *Component, a Action) {})
	game.catalog.AddComponent(c) // game -> world is not a valid target scope

	if len(game.catalog.Subscribers(container.RoleModifier)) != 1 {
		t.Fatal("expected invalid target scope to fall back locally")
	}
}

func TestRemoveComponentTearsDownBothSides(t *testing.T) {
	reg := NewRegistry()
	worldRef := container.Ref{Kind: container.KindWorld, ID: "w1"}
	world := newFakeContainer(reg, worldRef)
	world.published = true

	entRef := container.Ref{Kind: container.KindEntity, ID: "e1"}
	ent := newFakeContainer(reg, entRef)
	ent.published = true
	ent.reachable[container.KindWorld] = worldRef

	aura := New("aura", Scope{Modifier: container.KindWorld, HasModifier: true}).
		WithModify(func(self *Component, a Action) {})
	ent.catalog.AddComponent(aura)
	ent.catalog.RemoveComponent(aura)

	if len(world.catalog.Subscribers(container.RoleModifier)) != 0 {
		t.Fatal("expected remote subscriber removed")
	}
}

func TestModifyFansOutToSubscribers(t *testing.T) {
	reg := NewRegistry()
	worldRef := container.Ref{Kind: container.KindWorld, ID: "w1"}
	world := newFakeContainer(reg, worldRef)
	world.published = true

	entRef := container.Ref{Kind: container.KindEntity, ID: "e1"}
	ent := newFakeContainer(reg, entRef)
	ent.published = true
	ent.reachable[container.KindWorld] = worldRef

	called := false
	aura := New("aura", Scope{Modifier: container.KindWorld, HasModifier: true}).
		WithModify(func(self *Component, a Action) { called = true })
	ent.catalog.AddComponent(aura)

	world.Modify(&fakeAction{id: "a1"})
	if !called {
		t.Fatal("expected aura.Modify to be invoked via world catalog fan-out")
	}
}
