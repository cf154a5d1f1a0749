// Package visibility tracks, per (viewer, world), which chunks are in
// view and reference-counts chunk activity across every viewer sharing a
// world, so the world knows when a chunk has no one left watching it.
package visibility

import "github.com/and0p/chaos-core/internal/vec"

// Change describes chunks that flipped from unwatched to watched (or back)
// as a result of one AddViewer/RemoveViewer call.
type Change struct {
	Added   []vec.Vector // chunk coordinates
	Removed []vec.Vector
}

func (c Change) Empty() bool { return len(c.Added) == 0 && len(c.Removed) == 0 }

// Scope is the per-world chunk-viewer bookkeeping. A chunk is active iff
// chunkViewers[chunk] is non-empty; AddViewer/RemoveViewer must be paired
// on every code path that publishes/moves/unpublishes a viewer (spec.md
// §5's resource-scoping rule).
type Scope struct {
	active       map[string]struct{}            // chunk key -> present (derived, kept for O(1) membership)
	chunkViewers map[string]map[string]struct{} // chunk key -> viewer ids
	viewerChunks map[string]map[string]struct{} // viewer id -> chunk keys currently held, for RemoveViewer without a position
}

// New creates an empty Scope.
func New() *Scope {
	return &Scope{
		active:       make(map[string]struct{}),
		chunkViewers: make(map[string]map[string]struct{}),
		viewerChunks: make(map[string]map[string]struct{}),
	}
}

// IsActive reports whether at least one viewer currently has chunk in view.
func (s *Scope) IsActive(chunk vec.Vector) bool {
	_, ok := s.active[chunk.ChunkKey()]
	return ok
}

// AddViewer grants viewerID view of the Chebyshev square of the given
// radius centered on chunk (in chunk-space), returning the chunks that
// newly became active as a result.
func (s *Scope) AddViewer(viewerID string, center vec.Vector, radius int) Change {
	var change Change
	held := s.viewerChunks[viewerID]
	if held == nil {
		held = make(map[string]struct{})
		s.viewerChunks[viewerID] = held
	}
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			chunk := vec.Vector{X: center.X + dx, Y: center.Y + dy}
			key := chunk.ChunkKey()
			if _, already := held[key]; already {
				continue
			}
			held[key] = struct{}{}
			s.addChunkViewer(key, viewerID, chunk, &change)
		}
	}
	return change
}

// RemoveViewer revokes viewerID's view of the Chebyshev square of the given
// radius centered on chunk, returning chunks that became inactive.
func (s *Scope) RemoveViewer(viewerID string, center vec.Vector, radius int) Change {
	var change Change
	held := s.viewerChunks[viewerID]
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			chunk := vec.Vector{X: center.X + dx, Y: center.Y + dy}
			key := chunk.ChunkKey()
			if held != nil {
				delete(held, key)
			}
			s.removeChunkViewer(key, viewerID, chunk, &change)
		}
	}
	return change
}

// RemoveViewerEntirely drops every chunk viewerID currently holds (e.g. on
// unpublish/disconnect), returning the chunks that became inactive.
func (s *Scope) RemoveViewerEntirely(viewerID string) Change {
	var change Change
	held := s.viewerChunks[viewerID]
	for key := range held {
		chunk := chunkFromKey(key)
		s.removeChunkViewer(key, viewerID, chunk, &change)
	}
	delete(s.viewerChunks, viewerID)
	return change
}

func (s *Scope) addChunkViewer(key, viewerID string, chunk vec.Vector, change *Change) {
	viewers, ok := s.chunkViewers[key]
	if !ok {
		viewers = make(map[string]struct{})
		s.chunkViewers[key] = viewers
	}
	wasActive := len(viewers) > 0
	viewers[viewerID] = struct{}{}
	if !wasActive {
		s.active[key] = struct{}{}
		change.Added = append(change.Added, chunk)
	}
}

func (s *Scope) removeChunkViewer(key, viewerID string, chunk vec.Vector, change *Change) {
	viewers, ok := s.chunkViewers[key]
	if !ok {
		return
	}
	delete(viewers, viewerID)
	if len(viewers) == 0 {
		delete(s.chunkViewers, key)
		delete(s.active, key)
		change.Removed = append(change.Removed, chunk)
	}
}

// chunkFromKey parses a ChunkKey back into its Vector. Only ever called on
// keys this package itself produced.
func chunkFromKey(key string) vec.Vector {
	var x, y int
	for i := 0; i < len(key); i++ {
		if key[i] == ',' {
			x = atoi(key[:i])
			y = atoi(key[i+1:])
			break
		}
	}
	return vec.Vector{X: x, Y: y}
}

func atoi(s string) int {
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	n := 0
	for ; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
