// Package world implements the spatial container entities publish into: a
// sparse chunked position index used to answer "who is within radius r of
// this point" without scanning every entity, mirroring the teacher's
// chunked terrain layers with tile content stripped out.
package world

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/visibility"
)

// World is a single simulation region: an ordered set of published entity
// ids plus a chunked spatial index for radius queries.
type World struct {
	id string

	registry *component.Registry
	catalog  *component.Catalog

	published []string // entity ids, insertion order
	index     map[string]*orderedSet // chunk key -> entity ids in that chunk, insertion order

	positions map[string]vec.Vector // entity id -> last known position, for removal

	views *visibility.Scope // chunk activity, reference-counted across every viewer of this world
}

// New creates an empty world registered under id.
func New(id string, registry *component.Registry) *World {
	w := &World{
		id:        id,
		registry:  registry,
		index:     make(map[string]*orderedSet),
		positions: make(map[string]vec.Vector),
		views:     visibility.New(),
	}
	w.catalog = component.NewCatalog(w.Ref(), registry, func() component.Container { return w })
	registry.Register(w)
	return w
}

func (w *World) ID() string { return w.id }

func (w *World) Ref() container.Ref { return container.Ref{Kind: container.KindWorld, ID: w.id} }

// IsPublished is always true for a world: it is itself the publication
// boundary, not a thing that gets published into another container.
func (w *World) IsPublished() bool { return true }

func (w *World) Catalog() *component.Catalog { return w.catalog }

// GetContainerByScope resolves "game" (the only outward scope a world may
// subscribe at, per spec.md §4.1) and nothing else.
func (w *World) GetContainerByScope(scope container.Kind) (container.Ref, bool) {
	if scope == container.KindGame {
		return container.GameRef, true
	}
	return container.Ref{}, false
}

func (w *World) Sense(a component.Action) component.SenseResult { return w.catalog.Sense(a) }
func (w *World) Modify(a component.Action)                      { w.catalog.Modify(a) }
func (w *World) React(a component.Action)                       { w.catalog.React(a) }

// IndexEntity records entityID as present at pos, adding it to the chunk's
// bucket. Call once on publish and again on every position change (after
// first calling RemoveEntity for the old position).
func (w *World) IndexEntity(entityID string, pos vec.Vector) {
	key := pos.ToChunkSpace().ChunkKey()
	bucket, ok := w.index[key]
	if !ok {
		bucket = newOrderedSet()
		w.index[key] = bucket
	}
	bucket.Add(entityID)
	w.positions[entityID] = pos
}

// RemoveEntity drops entityID from its last known chunk bucket.
func (w *World) RemoveEntity(entityID string) {
	pos, ok := w.positions[entityID]
	if !ok {
		return
	}
	if bucket, ok := w.index[pos.ToChunkSpace().ChunkKey()]; ok {
		bucket.Delete(entityID)
	}
	delete(w.positions, entityID)
}

// AddPublished appends entityID to the published set if not already
// present.
func (w *World) AddPublished(entityID string) {
	for _, id := range w.published {
		if id == entityID {
			return
		}
	}
	w.published = append(w.published, entityID)
}

// RemovePublished drops entityID from the published set.
func (w *World) RemovePublished(entityID string) {
	for i, id := range w.published {
		if id == entityID {
			w.published = append(w.published[:i], w.published[i+1:]...)
			return
		}
	}
}

// Published returns every published entity id, in publish order.
func (w *World) Published() []string {
	out := make([]string, len(w.published))
	copy(out, w.published)
	return out
}

// AddView acquires a chunk-activity reference for viewerID over the
// Chebyshev square of the given radius centered on chunkOrigin
// (chunk-space coordinates). Chunk load/unload is the only public
// operation touching activity state (spec.md §5's resource-scoping rule);
// every AddView must be paired with a RemoveView on the same viewerID.
func (w *World) AddView(viewerID string, chunkOrigin vec.Vector, radius int) visibility.Change {
	return w.views.AddViewer(viewerID, chunkOrigin, radius)
}

// RemoveView releases every chunk-activity reference viewerID currently
// holds in this world.
func (w *World) RemoveView(viewerID string) visibility.Change {
	return w.views.RemoveViewerEntirely(viewerID)
}

// IsChunkActive reports whether at least one viewer currently has chunk in
// view.
func (w *World) IsChunkActive(chunk vec.Vector) bool {
	return w.views.IsActive(chunk)
}

// EntitiesWithin returns every indexed entity id within Chebyshev radius of
// pos (inclusive), excluding none — callers filter out caster/target
// themselves. Chunks are scanned in a fixed dx/dy order and each chunk's
// bucket in insertion order, so the result is deterministic given the
// state of the world (spec.md §5's ordering guarantee — collectListeners
// depends on it).
func (w *World) EntitiesWithin(pos vec.Vector, radius int) []container.Ref {
	var out []container.Ref
	chunkRadius := (radius >> 4) + 1
	origin := pos.ToChunkSpace()
	for dx := -chunkRadius; dx <= chunkRadius; dx++ {
		for dy := -chunkRadius; dy <= chunkRadius; dy++ {
			cp := vec.Vector{X: origin.X + dx, Y: origin.Y + dy}
			bucket, ok := w.index[cp.ChunkKey()]
			if !ok {
				continue
			}
			for _, entityID := range bucket.Keys() {
				entPos, ok := w.positions[entityID]
				if !ok || entPos.ChebyshevDistance(pos) > radius {
					continue
				}
				out = append(out, container.Ref{Kind: container.KindEntity, ID: entityID})
			}
		}
	}
	return out
}
