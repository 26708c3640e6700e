package engine

import (
	"errors"
	"testing"

	"hexworld/renderer"
)

// fakeAvatar is a stationary or scripted AvatarSource test double.
type fakeAvatar struct {
	x, z float64
}

func (a *fakeAvatar) Position() (float64, float64) { return a.x, a.z }

// TestNew_RejectsBadConfig verifies construction returns a BadConfigError
// for an out-of-range field instead of panicking or silently clamping.
func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(nil, WithQueueFrameBudgetMS(0))
	if err == nil {
		t.Fatal("New with QueueFrameBudgetMS=0 should fail validation")
	}
	var badConfig *BadConfigError
	if !errors.As(err, &badConfig) {
		t.Errorf("error = %v, want *BadConfigError", err)
	}
}

// TestNew_DefaultConfigConstructsSuccessfully verifies the documented
// defaults pass validation.
func TestNew_DefaultConfigConstructsSuccessfully(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if e.HexSize() != 1.0 {
		t.Errorf("HexSize() = %v, want 1.0 (ModelDepth 3 / 3)", e.HexSize())
	}
}

// TestTick_EventuallyGeneratesOriginChunk drives Tick repeatedly with a
// stationary avatar and expects the origin chunk to eventually finish
// generation and have every tile committed.
func TestTick_EventuallyGeneratesOriginChunk(t *testing.T) {
	e, err := New(nil, WithChunkRings(2), WithQueueFrameBudgetMS(1_000_000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	avatar := &fakeAvatar{}

	for i := 0; i < 2000; i++ {
		e.Tick(avatar)
	}

	chunks := e.EnabledChunks()
	if len(chunks) == 0 {
		t.Fatal("expected at least the origin chunk to be enabled")
	}
	found := false
	for _, c := range chunks {
		if !c.TilesGenerated {
			continue
		}
		found = true
		for _, tile := range e.Tiles(c) {
			if !tile.HasKind() {
				t.Errorf("tile %v has no kind after generation", tile.Hex)
			}
		}
	}
	if !found {
		t.Error("no chunk finished generation within 2000 ticks")
	}
}

// TestTick_SignalsRenderChangedAtLeastOnce verifies RenderChanged fires
// as state moves from nothing-enabled to the origin chunk resolving.
func TestTick_SignalsRenderChangedAtLeastOnce(t *testing.T) {
	e, err := New(nil, WithChunkRings(1), WithQueueFrameBudgetMS(1_000_000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	avatar := &fakeAvatar{}

	signaled := false
	for i := 0; i < 500; i++ {
		e.Tick(avatar)
		select {
		case <-e.RenderChanged():
			signaled = true
		default:
		}
		if signaled {
			break
		}
	}
	if !signaled {
		t.Error("RenderChanged never fired")
	}
}

// TestTileWorldPosition_OriginHexIsWorldOrigin verifies the pull-style
// accessor maps the (0,0) hex to the Cartesian origin regardless of hex
// size.
func TestTileWorldPosition_OriginHexIsWorldOrigin(t *testing.T) {
	e, err := New(nil, WithHexSize(2.5), WithQueueFrameBudgetMS(1_000_000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	avatar := &fakeAvatar{}
	for i := 0; i < 50; i++ {
		e.Tick(avatar)
	}
	chunks := e.EnabledChunks()
	if len(chunks) == 0 {
		t.Fatal("expected the origin chunk to be present")
	}
	for _, c := range chunks {
		for _, tile := range e.Tiles(c) {
			if tile.Hex.Q == 0 && tile.Hex.R == 0 {
				x, z := e.TileWorldPosition(tile)
				if x != 0 || z != 0 {
					t.Errorf("TileWorldPosition(origin hex) = (%v, %v), want (0, 0)", x, z)
				}
				return
			}
		}
	}
	t.Fatal("origin chunk has no (0,0) tile")
}

// TestRegister_ForwardsToFloatingOrigin verifies Register is reachable
// through the Engine without panicking when no renderer is attached.
func TestRegister_ForwardsToFloatingOrigin(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var h renderer.Handle = "test-handle"
	e.Register(h, 10, 20)
}

// TestAvatarTrueHex_TracksStationaryOrigin verifies a stationary avatar
// at the renderer-space origin resolves to true hex (0,0).
func TestAvatarTrueHex_TracksStationaryOrigin(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.Tick(&fakeAvatar{})
	if got := e.AvatarTrueHex(); got.Q != 0 || got.R != 0 {
		t.Errorf("AvatarTrueHex() = %v, want (0,0)", got)
	}
}
