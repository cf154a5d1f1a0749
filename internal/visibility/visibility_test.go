package visibility

import (
	"testing"

	"github.com/and0p/chaos-core/internal/vec"
)

func TestAddViewerActivatesSquareOnce(t *testing.T) {
	s := New()
	change := s.AddViewer("v1", vec.Vector{X: 0, Y: 0}, 1)

	if len(change.Added) != 9 {
		t.Fatalf("expected 3x3=9 chunks newly activated, got %d", len(change.Added))
	}
	if !s.IsActive(vec.Vector{X: 0, Y: 0}) {
		t.Fatal("expected origin chunk active")
	}
}

func TestSecondViewerOverlapProducesNoNewActivation(t *testing.T) {
	s := New()
	s.AddViewer("v1", vec.Vector{X: 0, Y: 0}, 1)
	change := s.AddViewer("v2", vec.Vector{X: 0, Y: 0}, 1)

	if len(change.Added) != 0 {
		t.Fatalf("expected no newly-activated chunks for fully overlapping viewer, got %v", change.Added)
	}
}

func TestRemoveViewerOnlyDeactivatesWhenLastViewerLeaves(t *testing.T) {
	s := New()
	s.AddViewer("v1", vec.Vector{X: 0, Y: 0}, 0)
	s.AddViewer("v2", vec.Vector{X: 0, Y: 0}, 0)

	change := s.RemoveViewer("v1", vec.Vector{X: 0, Y: 0}, 0)
	if len(change.Removed) != 0 {
		t.Fatal("expected chunk to remain active while v2 still watches it")
	}

	change = s.RemoveViewer("v2", vec.Vector{X: 0, Y: 0}, 0)
	if len(change.Removed) != 1 {
		t.Fatal("expected chunk to deactivate once last viewer leaves")
	}
	if s.IsActive(vec.Vector{X: 0, Y: 0}) {
		t.Fatal("expected chunk inactive after last viewer left")
	}
}

func TestRemoveViewerEntirelyReleasesAllHeldChunks(t *testing.T) {
	s := New()
	s.AddViewer("v1", vec.Vector{X: 0, Y: 0}, 2)

	change := s.RemoveViewerEntirely("v1")
	if len(change.Removed) != 25 {
		t.Fatalf("expected 5x5=25 chunks released, got %d", len(change.Removed))
	}
}
