package worldmap

import (
	"testing"

	"hexworld/hexmath"
)

// fakeIndexer lets chunk_test drive StepIndex without a full WorldMap.
type fakeIndexer struct {
	entries map[hexmath.Axial]hexmath.Axial
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{entries: make(map[hexmath.Axial]hexmath.Axial)}
}

func (f *fakeIndexer) IndexIfAbsent(hex, center hexmath.Axial) {
	if _, exists := f.entries[hex]; exists {
		return
	}
	f.entries[hex] = center
}

// driveToInitialized runs a chunk's grid, neighbors, and index phases to
// completion, as GenerationQueue would across however many frames it
// takes.
func driveToInitialized(t *testing.T, c *Chunk, idx *fakeIndexer) {
	t.Helper()
	for !c.StepGrid() {
	}
	c.StepNeighbors()
	for !c.StepIndex(idx) {
	}
}

// TestNewPlaceholder_StartsUninitialized verifies a freshly constructed
// placeholder has no tiles yet and is not initialized.
func TestNewPlaceholder_StartsUninitialized(t *testing.T) {
	// Arrange & Act
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 2, 6.666666)

	// Assert
	if c.Initialized {
		t.Error("NewPlaceholder() chunk is already initialized")
	}
	if len(c.Tiles) != 0 {
		t.Errorf("NewPlaceholder() has %d tiles, want 0", len(c.Tiles))
	}
	if c.TilesGenerated {
		t.Error("NewPlaceholder() chunk is already marked generated")
	}
}

// TestStepGrid_TileCountMatchesInvariant checks |chunk.tiles| ==
// 3R(R+1)+1 after the grid phase completes, for several radii
// (spec.md section 8's first quantified invariant).
func TestStepGrid_TileCountMatchesInvariant(t *testing.T) {
	for radius := 0; radius <= 4; radius++ {
		// Arrange
		c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, radius, 1.0)

		// Act
		for !c.StepGrid() {
		}

		// Assert
		want := hexmath.TileCount(radius)
		if len(c.Tiles) != want {
			t.Errorf("radius %d: StepGrid produced %d tiles, want %d", radius, len(c.Tiles), want)
		}
		for _, tile := range c.Tiles {
			if d := hexmath.Distance(tile.Hex, c.Center); d > radius {
				t.Errorf("radius %d: tile %v at distance %d > %d", radius, tile.Hex, d, radius)
			}
			if tile.HasKind() {
				t.Errorf("radius %d: tile %v already has a kind before generation", radius, tile.Hex)
			}
			if !tile.Enabled {
				t.Errorf("radius %d: tile %v not enabled after grid phase", radius, tile.Hex)
			}
		}
	}
}

// TestStepGrid_BatchesAcrossCalls checks that a chunk large enough to
// need multiple batches actually yields partial progress (the grid
// cursor advances by at most GridBatchSize per call).
func TestStepGrid_BatchesAcrossCalls(t *testing.T) {
	// Arrange: radius 10 has 331 tiles, comfortably more than one batch
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 10, 1.0)

	// Act
	done := c.StepGrid()

	// Assert
	if done {
		t.Fatal("StepGrid() completed in a single call for a 331-tile chunk; batching is broken")
	}
	if len(c.Tiles) != GridBatchSize {
		t.Errorf("after one StepGrid() call, len(Tiles) = %d, want %d", len(c.Tiles), GridBatchSize)
	}
}

// TestStepNeighbors_SixDistinctAtExpectedDistance checks the neighbors
// phase populates six packing-neighbor centers at the expected distance.
func TestStepNeighbors_SixDistinctAtExpectedDistance(t *testing.T) {
	// Arrange
	const radius = 3
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, radius, 1.0)

	// Act
	c.StepNeighbors()

	// Assert
	seen := make(map[hexmath.Axial]bool, 6)
	for _, n := range c.Neighbors {
		if d := hexmath.Distance(n, c.Center); d != 2*radius+1 {
			t.Errorf("neighbor %v at distance %d, want %d", n, d, 2*radius+1)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Errorf("got %d distinct neighbors, want 6", len(seen))
	}
}

// TestStepIndex_FirstWriterWins checks that once a hex is indexed, a
// second chunk whose tiles overlap it does not change ownership
// (the first-writer-wins law of spec.md section 8).
func TestStepIndex_FirstWriterWins(t *testing.T) {
	// Arrange
	idx := newFakeIndexer()
	first := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 1, 1.0)
	second := NewPlaceholder(hexmath.Axial{Q: 1, R: 0}, 1, 1.0)

	driveToInitialized(t, first, idx)
	ownerBefore := make(map[hexmath.Axial]hexmath.Axial, len(idx.entries))
	for k, v := range idx.entries {
		ownerBefore[k] = v
	}

	// Act: second chunk's tiles overlap first's boundary
	driveToInitialized(t, second, idx)

	// Assert: every hex first already owned is unchanged
	for hex, owner := range ownerBefore {
		if idx.entries[hex] != owner {
			t.Errorf("ownership of %v changed from %v to %v after second chunk indexed", hex, owner, idx.entries[hex])
		}
	}
}

// TestSetTileKind_IdempotentBeforeGeneration verifies writing the same
// kind twice before TilesGenerated is set is harmless.
func TestSetTileKind_IdempotentBeforeGeneration(t *testing.T) {
	// Arrange
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 1, 1.0)
	for !c.StepGrid() {
	}
	target := c.Tiles[0].Hex

	// Act
	c.SetTileKind(target, Forest)
	c.SetTileKind(target, Forest)

	// Assert
	if c.Tiles[0].Kind == nil || *c.Tiles[0].Kind != Forest {
		t.Errorf("tile kind = %v, want Forest", c.Tiles[0].Kind)
	}
}

// TestHasAllKindsAssigned_FalseUntilEveryTileSet checks the readiness
// predicate tracks partial assignment correctly.
func TestHasAllKindsAssigned_FalseUntilEveryTileSet(t *testing.T) {
	// Arrange
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 1, 1.0)
	for !c.StepGrid() {
	}

	// Act & Assert: nothing assigned yet
	if c.HasAllKindsAssigned() {
		t.Fatal("HasAllKindsAssigned() true before any kind assigned")
	}

	for _, tile := range c.Tiles {
		c.SetTileKind(tile.Hex, Grass)
	}

	if !c.HasAllKindsAssigned() {
		t.Error("HasAllKindsAssigned() false after every tile assigned")
	}
}

// TestSetEnabled_MirrorsFlagOntoEveryTile checks SetEnabled(false)
// disables every tile, and a subsequent SetEnabled(true) re-enables them.
func TestSetEnabled_MirrorsFlagOntoEveryTile(t *testing.T) {
	// Arrange
	c := NewPlaceholder(hexmath.Axial{Q: 0, R: 0}, 1, 1.0)
	for !c.StepGrid() {
	}

	// Act
	c.SetEnabled(false, nil)

	// Assert
	for _, tile := range c.Tiles {
		if tile.Enabled {
			t.Errorf("tile %v still enabled after SetEnabled(false)", tile.Hex)
		}
	}
	if c.Enabled {
		t.Error("chunk still enabled after SetEnabled(false)")
	}

	// Act again
	c.SetEnabled(true, nil)

	// Assert
	for _, tile := range c.Tiles {
		if !tile.Enabled {
			t.Errorf("tile %v still disabled after SetEnabled(true)", tile.Hex)
		}
	}
}
