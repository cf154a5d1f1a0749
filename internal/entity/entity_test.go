package entity

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
)

func TestNewRegistersAndSatisfiesContainer(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	var _ component.Container = e

	got, ok := reg.Resolve(e.Ref())
	if !ok || got != component.Container(e) {
		t.Fatal("expected entity to be registered under its own ref")
	}
}

func TestGetContainerByScopeGame(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	ref, ok := e.GetContainerByScope(container.KindGame)
	if !ok || ref != container.GameRef {
		t.Fatalf("expected game scope to resolve to the fixed GameRef, got %v, %v", ref, ok)
	}
}

func TestGetContainerByScopeWorldUnsetWhenNotInWorld(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	if _, ok := e.GetContainerByScope(container.KindWorld); ok {
		t.Fatal("expected no world scope target before entity joins a world")
	}

	e.WorldID = "w1"
	ref, ok := e.GetContainerByScope(container.KindWorld)
	if !ok || ref.Kind != container.KindWorld || ref.ID != "w1" {
		t.Fatalf("expected world scope to resolve to w1, got %v, %v", ref, ok)
	}
}

func TestGetContainerByScopePlayerUsesFirstOwner(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	if _, ok := e.GetContainerByScope(container.KindPlayer); ok {
		t.Fatal("expected no player scope target with no owners")
	}

	e.AddOwner("p1")
	e.AddOwner("p2")
	ref, ok := e.GetContainerByScope(container.KindPlayer)
	if !ok || ref.ID != "p1" {
		t.Fatalf("expected primary owner p1, got %v, %v", ref, ok)
	}
}

func TestAddOwnerIsIdempotentAndOrdered(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	e.AddOwner("p1")
	e.AddOwner("p1")
	e.AddOwner("p2")

	if len(e.Owners) != 2 || e.Owners[0] != "p1" || e.Owners[1] != "p2" {
		t.Fatalf("unexpected owners: %v", e.Owners)
	}

	e.RemoveOwner("p1")
	if len(e.Owners) != 1 || e.Owners[0] != "p2" {
		t.Fatalf("unexpected owners after removal: %v", e.Owners)
	}
}

func TestPropertyLifecycle(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	if !e.AddProperty("HP", 10, 0, 20) {
		t.Fatal("expected first AddProperty to succeed")
	}
	if e.AddProperty("HP", 5, 0, 10) {
		t.Fatal("expected duplicate AddProperty to fail")
	}
	if e.Properties["HP"].Current() != 10 {
		t.Fatalf("expected base HP 10, got %v", e.Properties["HP"].Current())
	}
	if !e.RemoveProperty("HP") {
		t.Fatal("expected RemoveProperty to succeed")
	}
	if e.RemoveProperty("HP") {
		t.Fatal("expected second RemoveProperty to fail")
	}
}

func TestSlotEquipUnequip(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	if !e.AddSlot("weapon") {
		t.Fatal("expected AddSlot to succeed")
	}
	if e.AddSlot("weapon") {
		t.Fatal("expected duplicate AddSlot to fail")
	}

	if !e.Equip("weapon", "sword-1") {
		t.Fatal("expected Equip into empty slot to succeed")
	}
	if e.Equip("weapon", "sword-2") {
		t.Fatal("expected Equip into occupied slot to fail")
	}
	if e.Equip("shield", "shield-1") {
		t.Fatal("expected Equip into nonexistent slot to fail")
	}

	prev := e.Unequip("weapon")
	if prev != "sword-1" {
		t.Fatalf("expected unequip to return sword-1, got %q", prev)
	}
	if e.Slots["weapon"] != "" {
		t.Fatal("expected slot empty after unequip")
	}
}

func TestAbilityGrants(t *testing.T) {
	reg := component.NewRegistry()
	e := New("goblin", reg)

	g := Grant{Ability: "fireball", GrantedBy: "scroll-1"}
	if !e.LearnAbility(g) {
		t.Fatal("expected first LearnAbility to succeed")
	}
	if e.LearnAbility(g) {
		t.Fatal("expected duplicate grant to be a no-op")
	}
	if !e.HasAbility("fireball") {
		t.Fatal("expected HasAbility to be true")
	}
	if !e.ForgetAbility(g) {
		t.Fatal("expected ForgetAbility to succeed")
	}
	if e.HasAbility("fireball") {
		t.Fatal("expected HasAbility to be false after forgetting only grant")
	}
}

func TestSensedEntitiesRollup(t *testing.T) {
	reg := component.NewRegistry()
	observer := New("observer", reg)
	target := New("target", reg)

	observer.SensedEntities.Add(target.ID(), target)
	if !observer.SensedEntities.Contains(target.ID()) {
		t.Fatal("expected observer to sense target")
	}
}
