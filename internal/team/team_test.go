package team

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/player"
)

func TestAddRemoveMemberIsOrderedAndDeduped(t *testing.T) {
	reg := component.NewRegistry()
	tm := New("t1", reg)

	tm.AddMember("p1")
	tm.AddMember("p2")
	tm.AddMember("p1")

	if len(tm.Members) != 2 || tm.Members[0] != "p1" || tm.Members[1] != "p2" {
		t.Fatalf("unexpected members: %v", tm.Members)
	}

	tm.RemoveMember("p1")
	if len(tm.Members) != 1 || tm.Members[0] != "p2" {
		t.Fatalf("unexpected members after removal: %v", tm.Members)
	}
}

func TestRollUpPlayerAggregatesSensedEntities(t *testing.T) {
	reg := component.NewRegistry()
	tm := New("t1", reg)
	p := player.New("p1", reg)
	e := entity.New("goblin", reg)

	tm.RollUpPlayer(p.SensedEntities)
	p.OwnEntity(e)

	if !tm.SensedEntities.Contains(e.ID()) {
		t.Fatal("expected team rollup to see player's sensed entity")
	}
}
