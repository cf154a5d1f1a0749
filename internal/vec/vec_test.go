package vec

import "testing"

func TestToChunkSpace(t *testing.T) {
	cases := []struct {
		in, want Vector
	}{
		{Vector{0, 0}, Vector{0, 0}},
		{Vector{15, 15}, Vector{0, 0}},
		{Vector{16, 0}, Vector{1, 0}},
		{Vector{-1, 0}, Vector{-1, 0}},
		{Vector{-16, 0}, Vector{-1, 0}},
		{Vector{-17, 0}, Vector{-2, 0}},
	}
	for _, c := range cases {
		got := c.in.ToChunkSpace()
		if got != c.want {
			t.Errorf("ToChunkSpace(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSameChunk(t *testing.T) {
	if !(Vector{0, 0}).SameChunk(Vector{15, 15}) {
		t.Error("expected (0,0) and (15,15) to share a chunk")
	}
	if (Vector{0, 0}).SameChunk(Vector{16, 0}) {
		t.Error("expected (0,0) and (16,0) to be in different chunks")
	}
}

func TestChebyshevDistance(t *testing.T) {
	if d := (Vector{0, 0}).ChebyshevDistance(Vector{3, 7}); d != 7 {
		t.Errorf("ChebyshevDistance = %d, want 7", d)
	}
}

func TestChunkOutOfBoundsPanics(t *testing.T) {
	c := NewChunk[int](Vector{0, 0})
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on out-of-bounds access")
		}
	}()
	c.Get(Vector{-1, 0})
}

func TestChunkOutOfBoundsHighPanics(t *testing.T) {
	c := NewChunk[int](Vector{0, 0})
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on out-of-bounds access")
		}
	}()
	c.Get(Vector{16, 0})
}

func TestLayerGetSetTile(t *testing.T) {
	l := NewLayer[int](-1)

	if v := l.GetTile(Vector{5, 5}); v != -1 {
		t.Errorf("expected unset tile to yield fill default -1, got %d", v)
	}

	l.SetTile(Vector{5, 5}, 42)
	if v := l.GetTile(Vector{5, 5}); v != 42 {
		t.Errorf("GetTile = %d, want 42", v)
	}

	// A tile in a different, still-unallocated chunk stays at the default.
	if v := l.GetTile(Vector{50, 50}); v != -1 {
		t.Errorf("expected unrelated chunk to remain unset, got %d", v)
	}
}

func TestLayerChunkKeying(t *testing.T) {
	l := NewLayer[int](0)
	l.SetTile(Vector{20, 3}, 7)
	c, ok := l.Chunk(Vector{1, 0})
	if !ok {
		t.Fatal("expected chunk (1,0) to be allocated")
	}
	if got := c.Get(Vector{4, 3}); got != 7 {
		t.Errorf("local coordinate mismatch: got %d, want 7", got)
	}
}
