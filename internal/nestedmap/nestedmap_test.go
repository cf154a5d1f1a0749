package nestedmap

import "testing"

func TestAddRollsUpToParent(t *testing.T) {
	child := New[string]("child", "entity")
	parent := New[string]("parent", "player")
	child.AddParent(parent)

	changes := child.Add("e1", "zombie")
	if !parent.Contains("e1") {
		t.Fatal("expected parent to contain rolled-up id")
	}
	if _, ok := changes["entity"]["child"]["e1"]; !ok {
		t.Error("expected change recorded at child")
	}
	if _, ok := changes["player"]["parent"]["e1"]; !ok {
		t.Error("expected change recorded at parent")
	}
}

func TestRemoveOnlyWhenNoChildStillContains(t *testing.T) {
	childA := New[string]("a", "entity")
	childB := New[string]("b", "entity")
	parent := New[string]("parent", "player")
	childA.AddParent(parent)
	childB.AddParent(parent)

	childA.Add("e1", "x")
	childB.Add("e1", "x")

	changes := childA.Remove("e1")
	if !parent.Contains("e1") {
		t.Fatal("parent should still contain e1 via childB")
	}
	if _, ok := changes["player"]["parent"]["e1"]; ok {
		t.Error("parent should not be reported as changed while childB still holds e1")
	}

	changes = childB.Remove("e1")
	if parent.Contains("e1") {
		t.Fatal("parent should no longer contain e1")
	}
	if _, ok := changes["player"]["parent"]["e1"]; !ok {
		t.Error("expected parent removal to be reported once the last child drops it")
	}
}

func TestThreeLevelRollup(t *testing.T) {
	entity := New[int]("e1", "entity")
	player := New[int]("p1", "player")
	team := New[int]("t1", "team")
	entity.AddParent(player)
	player.AddParent(team)

	entity.Add("zombie1", 1)
	if !team.Contains("zombie1") {
		t.Fatal("expected team to roll up through player")
	}

	entity.Remove("zombie1")
	if team.Contains("zombie1") {
		t.Fatal("expected team rollup to clear once source entity drops it")
	}
}

func TestCycleRejected(t *testing.T) {
	a := New[int]("a", "s")
	b := New[int]("b", "s")
	if !a.AddParent(b) {
		t.Fatal("expected a->b to be accepted")
	}
	if b.AddParent(a) {
		t.Fatal("expected b->a to be rejected as a cycle")
	}
}

func TestBackfillOnAddParent(t *testing.T) {
	child := New[int]("c", "entity")
	child.Add("x", 1)

	parent := New[int]("p", "player")
	child.AddParent(parent)

	if !parent.Contains("x") {
		t.Error("expected AddParent to backfill existing members")
	}
}
