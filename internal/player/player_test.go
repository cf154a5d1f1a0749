package player

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
)

func TestOwnEntityRollsIntoSensed(t *testing.T) {
	reg := component.NewRegistry()
	p := New("p1", reg)
	e := entity.New("goblin", reg)

	changes := p.OwnEntity(e)
	if changes.Empty() {
		t.Fatal("expected non-empty changes from first ownership")
	}
	if !p.OwnedEntities.Contains(e.ID()) {
		t.Fatal("expected entity in owned set")
	}
	if !p.SensedEntities.Contains(e.ID()) {
		t.Fatal("expected owned entity to also be sensed")
	}
}

func TestGetContainerByScopeNoTeamByDefault(t *testing.T) {
	reg := component.NewRegistry()
	p := New("p1", reg)

	if _, ok := p.GetContainerByScope(container.KindTeam); ok {
		t.Fatal("expected no team scope before joining one")
	}
	p.TeamID = "t1"
	ref, ok := p.GetContainerByScope(container.KindTeam)
	if !ok || ref.ID != "t1" {
		t.Fatalf("expected team scope t1, got %v, %v", ref, ok)
	}
}

func TestScopeForCreatesOncePerWorld(t *testing.T) {
	reg := component.NewRegistry()
	p := New("p1", reg)

	s1 := p.ScopeFor("w1")
	s2 := p.ScopeFor("w1")
	if s1 != s2 {
		t.Fatal("expected the same scope instance for repeated calls on the same world")
	}
}

func TestEnqueueFlush(t *testing.T) {
	reg := component.NewRegistry()
	p := New("p1", reg)

	p.Enqueue(nil)
	p.Enqueue(nil)
	if len(p.Flush()) != 2 {
		t.Fatal("expected 2 queued actions")
	}
	if len(p.Flush()) != 0 {
		t.Fatal("expected queue empty after flush")
	}
}
