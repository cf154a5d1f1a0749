package event

import (
	"testing"

	"github.com/and0p/chaos-core/internal/container"
)

type stubAction struct{ id string }

func (a *stubAction) ID() string                                           { return a.id }
func (a *stubAction) Tags() map[string]struct{}                            { return nil }
func (a *stubAction) Caster() (container.Ref, bool)                        { return container.Ref{}, false }
func (a *stubAction) Target() (container.Ref, bool)                        { return container.Ref{}, false }
func (a *stubAction) Using() (container.Ref, bool)                         { return container.Ref{}, false }
func (a *stubAction) Public() bool                                         { return true }
func (a *stubAction) Permit(priority int, by container.Ref, message string) {}
func (a *stubAction) Deny(priority int, by container.Ref, message string)   {}
func (a *stubAction) Nested() int                                          { return 0 }

func TestQueueFIFOOrder(t *testing.T) {
	q := NewActionQueue()
	q.Enqueue(NewEvent(&stubAction{id: "a"}, &stubAction{id: "b"}))
	q.EnqueueOne(&stubAction{id: "c"})

	if q.Len() != 3 {
		t.Fatalf("expected 3 queued, got %d", q.Len())
	}

	first, ok := q.Pop()
	if !ok || first.ID() != "a" {
		t.Fatalf("expected a first, got %v, %v", first, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", q.Len())
	}
}

func TestDrainEmptiesQueueInOrder(t *testing.T) {
	q := NewActionQueue()
	q.EnqueueOne(&stubAction{id: "x"})
	q.EnqueueOne(&stubAction{id: "y"})

	drained := q.Drain()
	if len(drained) != 2 || drained[0].ID() != "x" || drained[1].ID() != "y" {
		t.Fatalf("unexpected drain result: %v", drained)
	}
	if q.Len() != 0 {
		t.Fatal("expected queue empty after drain")
	}
}

func TestDrainThenEnqueueDuringProcessingIsPickedUpNextDrain(t *testing.T) {
	q := NewActionQueue()
	q.EnqueueOne(&stubAction{id: "gen0"})

	gen0 := q.Drain()
	if len(gen0) != 1 {
		t.Fatalf("expected 1 action in generation 0, got %d", len(gen0))
	}

	q.EnqueueOne(&stubAction{id: "gen1"})
	gen1 := q.Drain()
	if len(gen1) != 1 || gen1[0].ID() != "gen1" {
		t.Fatalf("expected generation 1 to contain only gen1, got %v", gen1)
	}
}
