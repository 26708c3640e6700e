package worldmap

import (
	"hexworld/hexmath"
	"hexworld/renderer"
)

// Chunk is a hexagonal patch of tiles, radius Radius rings, centered on
// a fixed packing lattice. Construction is split into three incremental
// phases (grid, neighbors, index) each driven externally by the
// generation queue so no single call blocks the render loop.
type Chunk struct {
	Center      hexmath.Axial
	Radius      int
	CenterWorld [2]float64 // cached (x, z)

	Tiles     []Tile
	Neighbors [6]hexmath.Axial

	Enabled bool

	// TilesGenerated is monotonic: once true, tile kinds are immutable
	// except through LayoutGenerator's force-recompute mode.
	TilesGenerated bool

	// Initialized is true once Tiles and Neighbors are fully populated
	// and every tile has been offered to the index (it is set when the
	// index phase, which runs after the grid and neighbors phases,
	// completes).
	Initialized bool

	// gridCursor/indexCursor record batch progress for the grid and
	// index phases, so the queue can resume a chunk's construction
	// across multiple frame-budget windows.
	gridCursor  int
	indexCursor int
	gridHexes   []hexmath.Axial // full ring/grid enumeration, computed once
}

// NewPlaceholder constructs an empty, uninitialized chunk at center with
// the given radius and hex size, caching its Cartesian center position.
// This is what GenerationQueue.Enqueue installs into WorldMap immediately
// so concurrent proximity checks observe it before generation starts
// (spec.md invariant I5).
func NewPlaceholder(center hexmath.Axial, radius int, hexSize float64) *Chunk {
	x, z := hexmath.HexToWorld(center, hexSize)
	return &Chunk{
		Center:      center,
		Radius:      radius,
		CenterWorld: [2]float64{x, z},
		Enabled:     true,
	}
}

// GridBatchSize and IndexBatchSize are the batch sizes spec.md section
// 4.2 specifies for the grid and index phases.
const (
	GridBatchSize  = 150
	IndexBatchSize = 200
)

// StepGrid enumerates rings 0..Radius around Center in batches of
// GridBatchSize, appending each hex as a tile with nil kind and enabled
// set. It returns true once every tile has been appended.
func (c *Chunk) StepGrid() (done bool) {
	if c.gridHexes == nil {
		c.gridHexes = hexmath.Grid(c.Center, c.Radius)
		c.Tiles = make([]Tile, 0, len(c.gridHexes))
	}

	end := c.gridCursor + GridBatchSize
	if end > len(c.gridHexes) {
		end = len(c.gridHexes)
	}

	for _, h := range c.gridHexes[c.gridCursor:end] {
		c.Tiles = append(c.Tiles, Tile{Hex: h, Enabled: true})
	}
	c.gridCursor = end

	return c.gridCursor >= len(c.gridHexes)
}

// StepNeighbors computes the six packing neighbor centers once. This
// step is atomic: the work is tiny enough that splitting it across
// frames would add overhead without benefit.
func (c *Chunk) StepNeighbors() {
	c.Neighbors = hexmath.PackingNeighbors(c.Center, c.Radius)
}

// StepIndex publishes each tile's hex into the world map's tile index in
// batches of IndexBatchSize, first-writer-wins on shared boundary hexes
// (spec.md invariant I2). It returns true once every tile has been
// offered to the index.
func (c *Chunk) StepIndex(index TileIndexer) (done bool) {
	end := c.indexCursor + IndexBatchSize
	if end > len(c.Tiles) {
		end = len(c.Tiles)
	}

	for _, t := range c.Tiles[c.indexCursor:end] {
		index.IndexIfAbsent(t.Hex, c.Center)
	}
	c.indexCursor = end

	done = c.indexCursor >= len(c.Tiles)
	if done {
		c.Initialized = true
	}
	return done
}

// TileIndexer is the minimal surface StepIndex needs from WorldMap,
// kept narrow so Chunk does not depend on the concrete WorldMap type.
type TileIndexer interface {
	IndexIfAbsent(hex, center hexmath.Axial)
}

// HasAllKindsAssigned returns true iff every tile's kind has been set.
func (c *Chunk) HasAllKindsAssigned() bool {
	for i := range c.Tiles {
		if !c.Tiles[i].HasKind() {
			return false
		}
	}
	return true
}

// SetTileKind assigns kind to the tile at hex. It is legal only while
// TilesGenerated is false, or from within a LayoutGenerator run that
// includes this chunk (idempotent writes are permitted in both cases).
// It is a no-op if hex is not one of this chunk's tiles.
func (c *Chunk) SetTileKind(hex hexmath.Axial, kind TileKind) {
	for i := range c.Tiles {
		if c.Tiles[i].Hex == hex {
			k := kind
			c.Tiles[i].Kind = &k
			return
		}
	}
}

// MarkGenerated flags the chunk as generated. Callers must only invoke
// this once every tile in the chunk has a kind assigned (invariant I3).
func (c *Chunk) MarkGenerated() {
	c.TilesGenerated = true
}

// ClearGenerated resets TilesGenerated so force-recompute can run A..F
// again; it does not touch tile kinds itself, LayoutGenerator overwrites
// them during the rerun.
func (c *Chunk) ClearGenerated() {
	c.TilesGenerated = false
}

// SetEnabled mirrors b onto every tile and asks r to toggle each tile's
// instance handle, matching spec.md section 4.2.
func (c *Chunk) SetEnabled(b bool, r renderer.Renderer) {
	c.Enabled = b
	for i := range c.Tiles {
		c.Tiles[i].Enabled = b
		if r != nil && c.Tiles[i].InstanceHandle != nil {
			r.SetEnabled(c.Tiles[i].InstanceHandle, b)
		}
	}
}
