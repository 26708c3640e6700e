// Package worldmap holds the chunk / world-map data model (spec.md's C2
// and C3): a Chunk's incremental construction phases and the WorldMap
// that owns all chunks plus the tile->chunk spatial index.
//
// WorldMap is exclusively owned by the control thread (spec.md section
// 5); the locking here exists to let a renderer read state synchronously
// after a tick without racing the next tick's mutation, the same
// discipline the teacher's ChunkManager applies to its chunk map
// (generation/manager.go in the retrieved reference).
package worldmap

import (
	"sync"

	"hexworld/hexmath"
)

// WorldMap owns all chunks keyed by chunk-center hex, and a spatial
// index mapping any tile hex to the center of the chunk that owns it.
type WorldMap struct {
	mu         sync.RWMutex
	chunks     map[hexmath.Axial]*Chunk
	tileIndex  map[hexmath.Axial]hexmath.Axial
	chunkRadius int
}

// New creates an empty WorldMap for chunks of the given radius. The
// radius is a world-wide constant per session (spec.md Non-goals).
func New(chunkRadius int) *WorldMap {
	return &WorldMap{
		chunks:      make(map[hexmath.Axial]*Chunk),
		tileIndex:   make(map[hexmath.Axial]hexmath.Axial),
		chunkRadius: chunkRadius,
	}
}

// ChunkRadius returns the world-wide chunk radius this map was
// constructed with.
func (w *WorldMap) ChunkRadius() int {
	return w.chunkRadius
}

// Get returns the chunk centered at center, or nil if none is present.
func (w *WorldMap) Get(center hexmath.Axial) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[center]
}

// AddPlaceholder inserts chunk into the map, keyed by its Center. If a
// chunk already exists at that center, it is left untouched and this is
// a no-op (the first observer wins, matching spec.md's "first observer
// wins" rule for placeholders).
func (w *WorldMap) AddPlaceholder(chunk *Chunk) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.chunks[chunk.Center]; exists {
		return
	}
	w.chunks[chunk.Center] = chunk
}

// IndexIfAbsent publishes hex -> center into the tile index only if no
// entry exists yet for hex (first-writer-wins on shared boundary hexes,
// invariant I2). It implements Chunk.TileIndexer.
func (w *WorldMap) IndexIfAbsent(hex, center hexmath.Axial) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.tileIndex[hex]; exists {
		return
	}
	w.tileIndex[hex] = center
}

// ChunkForTileFast resolves the chunk owning tileHex in O(1) via the
// tile index, then verifies distance(tileHex, chunk.Center) <= R. If the
// verification fails the stale entry is deleted and (nil, false) is
// returned (spec.md's IndexStale handling: evict silently, caller falls
// back to ChunkForTileScan).
func (w *WorldMap) ChunkForTileFast(tileHex hexmath.Axial) (*Chunk, bool) {
	w.mu.RLock()
	center, indexed := w.tileIndex[tileHex]
	var chunk *Chunk
	if indexed {
		chunk = w.chunks[center]
	}
	w.mu.RUnlock()

	if !indexed || chunk == nil {
		return nil, false
	}
	if hexmath.Distance(tileHex, chunk.Center) > chunk.Radius {
		w.mu.Lock()
		if c, ok := w.tileIndex[tileHex]; ok && c == center {
			delete(w.tileIndex, tileHex)
		}
		w.mu.Unlock()
		return nil, false
	}
	return chunk, true
}

// ChunkForTileScan is the fallback linear scan used when the index is
// cold. Ties (several chunks containing the same tile hex) are broken by
// smaller cube distance from tileHex to the candidate's center; an exact
// chunk-center match wins outright.
func (w *WorldMap) ChunkForTileScan(tileHex hexmath.Axial) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var best *Chunk
	bestDist := -1

	for center, chunk := range w.chunks {
		if center == tileHex {
			return chunk, true
		}
		if hexmath.Distance(tileHex, center) > chunk.Radius {
			continue
		}
		d := hexmath.Distance(tileHex, center)
		if best == nil || d < bestDist {
			best = chunk
			bestDist = d
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// Remove deletes the chunk centered at center along with every tile
// index entry it owns, atomically with respect to other WorldMap
// operations. This is the only way a chunk is destroyed; the
// player-facing world never drops chunks silently.
func (w *WorldMap) Remove(center hexmath.Axial) {
	w.mu.Lock()
	defer w.mu.Unlock()

	chunk, exists := w.chunks[center]
	if !exists {
		return
	}

	for _, t := range chunk.Tiles {
		if owner, ok := w.tileIndex[t.Hex]; ok && owner == center {
			delete(w.tileIndex, t.Hex)
		}
	}
	delete(w.chunks, center)
}

// EnabledChunks returns a snapshot slice of every present chunk whose
// Enabled flag is set, safe to iterate even if chunks are added/removed
// concurrently afterward (the teacher's GameState.GetAllPlayers applies
// the same "copy out under the lock" idiom).
func (w *WorldMap) EnabledChunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// AllChunks returns a snapshot of every present chunk, enabled or not.
func (w *WorldMap) AllChunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// Count returns the number of present chunks.
func (w *WorldMap) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}
