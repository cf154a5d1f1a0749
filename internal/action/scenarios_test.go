package action

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/property"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/world"
)

// TestAuraModifierDeniesAction: a warded entity's own modifier component
// vetoes any property adjustment aimed at it, regardless of priority 0's
// default allow.
func TestAuraModifierDeniesAction(t *testing.T) {
	reg := component.NewRegistry()
	target := entity.New("golem", reg)
	target.AddProperty("health", 50, 0, 100)

	ward := component.New("ward", component.Scope{}).WithModify(func(self *component.Component, a component.Action) {
		a.Deny(1, self.ParentRef, "warded")
	})
	if err := target.Catalog().AddComponent(ward); err != nil {
		t.Fatal(err)
	}

	mod := property.Modification{Kind: property.Adjustment, Amount: -10, Source: "test"}
	if Execute(NewPropertyAdjustmentAction(target, "health", mod), reg, nil, 8, false) {
		t.Fatal("expected the ward to deny the adjustment")
	}
	if got := target.Properties["health"].Current(); got != 50 {
		t.Fatalf("expected health unchanged at 50, got %v", got)
	}
}

// TestSenseEntityActionGrantsVisibility: sensing an entity adds it to the
// using entity's rollup and reports a visibility gain.
func TestSenseEntityActionGrantsVisibility(t *testing.T) {
	reg := component.NewRegistry()
	w := world.New("w1", reg)

	watcher := entity.New("watcher", reg)
	Execute(NewPublishEntityAction(watcher, w, vec.Vector{}), reg, nil, 8, false)

	spotted := entity.New("spotted", reg)
	Execute(NewPublishEntityAction(spotted, w, vec.Vector{X: 2, Y: 2}), reg, nil, 8, false)

	sense := NewSenseEntityAction(watcher, watcher, spotted)
	if !Execute(sense, reg, nil, 8, false) {
		t.Fatal("expected the sense to apply")
	}
	if !watcher.SensedEntities.Contains(spotted.ID()) {
		t.Fatal("expected watcher to now sense spotted")
	}
	vc, ok := sense.VisibilityChanges()
	if !ok || vc.Kind != VisibilityAdd {
		t.Fatal("expected a recorded visibility gain")
	}
}

// TestEquipBlockedByMissingOrOccupiedSlot: equip fails both when the slot
// was never declared and when it's already occupied; it only succeeds into
// a declared, empty slot.
func TestEquipBlockedByMissingOrOccupiedSlot(t *testing.T) {
	reg := component.NewRegistry()
	hero := entity.New("hero", reg)
	sword := entity.New("sword", reg)

	if Execute(NewEquipItemAction(hero, "weapon", sword), reg, nil, 8, false) {
		t.Fatal("expected equip into an undeclared slot to fail")
	}

	if !Execute(NewAddSlotAction(hero, "weapon"), reg, nil, 8, false) {
		t.Fatal("expected the slot to be added")
	}
	if !Execute(NewEquipItemAction(hero, "weapon", sword), reg, nil, 8, false) {
		t.Fatal("expected equip into the now-declared empty slot to succeed")
	}

	shield := entity.New("shield", reg)
	if Execute(NewEquipItemAction(hero, "weapon", shield), reg, nil, 8, false) {
		t.Fatal("expected equip into an already-occupied slot to fail")
	}
	if hero.Slots["weapon"] != sword.ID() {
		t.Fatal("expected the original occupant to remain equipped")
	}
}

// TestCounterChainTerminatesAtNestingCap: a reacter that re-triggers itself
// on every reaction is cut off by the nesting cap rather than looping the
// process forever.
func TestCounterChainTerminatesAtNestingCap(t *testing.T) {
	reg := component.NewRegistry()
	mirror := entity.New("mirror", reg)

	reactions := 0
	counter := component.New("counter", component.Scope{})
	counter.WithReact(func(self *component.Component, a component.Action) {
		reactions++
		base, ok := a.(*Action)
		if !ok {
			return
		}
		child := NewCustomAction(nil, mirror, "counter", nil, func(c *CustomAction) bool { return true })
		base.Recurse(child, reg, nil, 8)
	})
	if err := mirror.Catalog().AddComponent(counter); err != nil {
		t.Fatal(err)
	}

	top := NewCustomAction(nil, mirror, "counter", nil, func(c *CustomAction) bool { return true })
	Execute(top, reg, nil, 8, false)

	if reactions != maxNested {
		t.Fatalf("expected the chain to react exactly maxNested (%d) times, got %d", maxNested, reactions)
	}
}
