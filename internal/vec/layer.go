package vec

// Layer is a sparse mapping from chunk key to Chunk[T], with a fill
// default returned for tiles whose chunk was never allocated.
type Layer[T any] struct {
	chunks map[string]*Chunk[T]
	fill   T
}

// NewLayer creates an empty layer; fill is returned by GetTile for any
// tile whose chunk has not been created yet.
func NewLayer[T any](fill T) *Layer[T] {
	return &Layer[T]{chunks: make(map[string]*Chunk[T]), fill: fill}
}

// Chunk returns the chunk at the given chunk-space coordinates, or nil if
// it has not been allocated.
func (l *Layer[T]) Chunk(chunkCoords Vector) (*Chunk[T], bool) {
	c, ok := l.chunks[chunkCoords.ChunkKey()]
	return c, ok
}

// EnsureChunk returns the chunk at chunkCoords, allocating it (filled with
// the layer's default) if it does not exist yet.
func (l *Layer[T]) EnsureChunk(chunkCoords Vector) *Chunk[T] {
	key := chunkCoords.ChunkKey()
	c, ok := l.chunks[key]
	if !ok {
		c = NewChunk[T](chunkCoords)
		var row [ChunkWidth][ChunkWidth]T
		for x := range row {
			for y := range row[x] {
				row[x][y] = l.fill
			}
		}
		c.tiles = row
		l.chunks[key] = c
	}
	return c
}

// GetTile reads the tile at absolute coordinates pos, returning the
// layer's fill default if the containing chunk is unset — never panics.
func (l *Layer[T]) GetTile(pos Vector) T {
	chunkCoords := pos.ToChunkSpace()
	c, ok := l.chunks[chunkCoords.ChunkKey()]
	if !ok {
		return l.fill
	}
	return c.Get(pos.LocalInChunk())
}

// SetTile writes the tile at absolute coordinates pos, allocating its
// chunk on demand.
func (l *Layer[T]) SetTile(pos Vector, v T) {
	chunkCoords := pos.ToChunkSpace()
	c := l.EnsureChunk(chunkCoords)
	c.Set(pos.LocalInChunk(), v)
}

// Chunks returns every currently-allocated chunk, for iteration (e.g. spatial
// queries over a bounded region).
func (l *Layer[T]) Chunks() map[string]*Chunk[T] {
	return l.chunks
}
