package action

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/world"
)

func TestPermitDenySamePriorityDenyIsSticky(t *testing.T) {
	a := NewAction(nil, nil, true)
	a.Permit(1, container.Ref{}, "ok")
	a.Deny(1, container.Ref{}, "no")
	a.Permit(1, container.Ref{}, "ok again")

	a.decidePermission()
	if a.Permitted() {
		t.Fatal("expected deny to stick at equal priority even after a later allow")
	}
}

func TestHigherPriorityWins(t *testing.T) {
	a := NewAction(nil, nil, true)
	a.Deny(0, container.Ref{}, "base deny")
	a.Permit(5, container.Ref{}, "override")

	a.decidePermission()
	if !a.Permitted() {
		t.Fatal("expected higher priority allow to win")
	}
}

func TestDefaultPermissionIsAllow(t *testing.T) {
	a := NewAction(nil, nil, true)
	a.decidePermission()
	if !a.Permitted() {
		t.Fatal("expected default permission to be allow")
	}
}

func TestUnpublishedFastPathSkipsCollectListeners(t *testing.T) {
	reg := component.NewRegistry()
	target := entity.New("goblin", reg)
	// target.Published stays false.

	attach := NewAttachComponentAction(target, component.New("c1", component.Scope{}))
	Execute(attach, reg, nil, 8, false)

	if _, ok := target.Properties["unused"]; ok {
		t.Fatal("sanity check artifact")
	}
	if len(target.Catalog().All()) != 1 {
		t.Fatal("expected component to be attached via the unpublished fast path")
	}
}

func TestPublishThenMoveReindexes(t *testing.T) {
	reg := component.NewRegistry()
	w := world.New("w1", reg)
	e := entity.New("goblin", reg)

	pub := NewPublishEntityAction(e, w, vec.Vector{X: 0, Y: 0})
	if !Execute(pub, reg, nil, 8, false) {
		t.Fatal("expected publish to apply")
	}
	if !e.Published || e.WorldID != "w1" {
		t.Fatal("expected entity published into w1")
	}

	found := w.EntitiesWithin(vec.Vector{X: 0, Y: 0}, 0)
	if len(found) != 1 || found[0].ID != e.ID() {
		t.Fatalf("expected entity indexed at origin, got %v", found)
	}

	move := NewMoveAction(e, w, vec.Vector{X: 50, Y: 50}, 8, nil)
	if !Execute(move, reg, nil, 8, false) {
		t.Fatal("expected move to apply")
	}
	if e.Position != (vec.Vector{X: 50, Y: 50}) {
		t.Fatalf("expected entity repositioned, got %v", e.Position)
	}

	foundOld := w.EntitiesWithin(vec.Vector{X: 0, Y: 0}, 0)
	if len(foundOld) != 0 {
		t.Fatal("expected entity no longer indexed at old position")
	}
	foundNew := w.EntitiesWithin(vec.Vector{X: 50, Y: 50}, 0)
	if len(foundNew) != 1 {
		t.Fatal("expected entity indexed at new position")
	}
}

func TestCollectListenersIncludesNearbyEntitiesAndGame(t *testing.T) {
	reg := component.NewRegistry()
	w := world.New("w1", reg)

	caster := entity.New("caster", reg)
	Execute(NewPublishEntityAction(caster, w, vec.Vector{X: 0, Y: 0}), reg, nil, 8, false)

	neighbor := entity.New("neighbor", reg)
	Execute(NewPublishEntityAction(neighbor, w, vec.Vector{X: 1, Y: 1}), reg, nil, 8, false)

	farAway := entity.New("far", reg)
	Execute(NewPublishEntityAction(farAway, w, vec.Vector{X: 500, Y: 500}), reg, nil, 8, false)

	a := NewAction(caster, nil, true)
	a.collectListeners(reg, 8)

	seen := make(map[container.Ref]bool)
	for _, l := range a.listeners {
		seen[l.Ref()] = true
	}
	if !seen[caster.Ref()] {
		t.Fatal("expected caster to be its own listener")
	}
	if !seen[neighbor.Ref()] {
		t.Fatal("expected nearby neighbor to be collected")
	}
	if seen[farAway.Ref()] {
		t.Fatal("expected far entity to be excluded")
	}
	if !seen[w.Ref()] {
		t.Fatal("expected caster's world to be collected")
	}
}

func TestNestedRecursionCapsAtMaxDepth(t *testing.T) {
	reg := component.NewRegistry()
	target := entity.New("goblin", reg)

	parent := NewAction(nil, target, true)
	parent.nested = maxNested - 1

	child := NewAttachComponentAction(target, component.New("c1", component.Scope{}))
	ok := parent.Recurse(child, reg, nil, 8)
	if ok {
		t.Fatal("expected recursion at the nesting cap to fail silently")
	}
}
