// Package engine wires every other package into the single object a
// host application constructs and ticks: WorldMap, GenerationQueue,
// ProximityController, FloatingOrigin, and LayoutGenerator, all owned
// by the one control thread that calls Tick (spec.md section 5).
package engine

import (
	"context"
	"log"
	"time"

	"hexworld/constraints"
	"hexworld/floatorigin"
	"hexworld/genqueue"
	"hexworld/hexmath"
	"hexworld/layout"
	"hexworld/proximity"
	"hexworld/renderer"
	"hexworld/worldmap"
)

// DefaultTickRate is the frame rate Run uses when constructed with
// RunOptions' zero value, matching the teacher's 20Hz game loop
// (server/game/ticker.go's TickRate).
const DefaultTickRate = 20

// RunOptions configures Run's ticker loop.
type RunOptions struct {
	// TickRateHz is the number of Ticks per second. Zero means
	// DefaultTickRate.
	TickRateHz int

	// AfterTick, if set, is called once per tick after Tick returns, for
	// a host that wants to push a render sync or debug snapshot without
	// its own separate ticker.
	AfterTick func(*Engine)
}

// AvatarSource is the read-only accessor the host provides for the
// avatar/input layer (spec.md section 6): renderer-space local
// position, updated however the host's input layer sees fit.
type AvatarSource interface {
	Position() (localX, localZ float64)
}

// Backend is the full surface a rendering backend must implement: the
// mesh-instance lifecycle (renderer.Renderer) plus the scene-position
// bookkeeping FloatingOrigin rebases against (renderer.SceneRegistrar).
// A nil Backend is valid for headless use; Tick simply skips mesh/scene
// callbacks.
type Backend interface {
	renderer.Renderer
	renderer.SceneRegistrar
}

// Engine is the constructed, instance-scoped object spec.md section 9
// requires in place of any global mutable state.
type Engine struct {
	cfg Config

	worldMap   *worldmap.WorldMap
	queue      *genqueue.GenerationQueue
	proximity  *proximity.Controller
	origin     *floatorigin.FloatingOrigin
	generator  *layout.Generator
	constraints constraints.LayoutConstraints

	backend Backend

	renderChanged chan struct{}

	originHex hexmath.Axial // last-known true hex of the avatar, for AvatarTrueHex
}

// New constructs an Engine from DefaultConfig with opts applied on top
// of it, and backend, the rendering backend. backend may be nil for
// headless use (tests, the hexworldd demo).
func New(backend Backend, opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hexSize := cfg.resolvedHexSize()

	e := &Engine{
		cfg:        cfg,
		worldMap:   worldmap.New(cfg.ChunkRings),
		queue:      genqueue.New(time.Duration(cfg.QueueFrameBudgetMS)*time.Millisecond, genqueue.WithClock(RealClock{}), genqueue.WithLogger(StdLogger{})),
		proximity: proximity.New(cfg.ChunkRings, hexSize,
			proximity.WithCheckIntervalFrames(cfg.CheckIntervalFrames),
			proximity.WithBorderCheckIntervalFrames(cfg.BorderCheckIntervalFrames),
			proximity.WithDisableRadiusChunks(cfg.DisableRadiusChunks),
			proximity.WithPreloadRadiusChunks(cfg.PreloadRadiusChunks),
			proximity.WithLogger(StdLogger{}),
		),
		origin: floatorigin.New(cfg.FloatingOriginThreshold, hexSize),
		generator: layout.New(cfg.LayoutSeed,
			layout.WithSeedCounts(cfg.VoronoiSeedsForest, cfg.VoronoiSeedsWater, cfg.VoronoiSeedsGrass),
			layout.WithRoadRatios(cfg.RoadDensityRatio, cfg.RoadSeedRatio),
			layout.WithDensityRatios(cfg.BuildingDensityRatioSparse, cfg.BuildingDensityRatioMedium, cfg.BuildingDensityRatioDense),
			layout.WithLogger(StdLogger{}),
		),
		constraints:   constraints.Default(),
		backend:       backend,
		renderChanged: make(chan struct{}, 1),
	}

	origin := hexmath.Axial{Q: 0, R: 0}
	e.queue.Enqueue(origin, cfg.ChunkRings, hexSize, 100, e.worldMap)

	return e, nil
}

// HexSize returns the resolved hex size this Engine was constructed
// with.
func (e *Engine) HexSize() float64 {
	return e.cfg.resolvedHexSize()
}

// ChunkRadius returns the world-wide chunk radius.
func (e *Engine) ChunkRadius() int {
	return e.cfg.ChunkRings
}

// SetLayoutConstraints installs the constraints the next LayoutGenerator
// pass will use; typically the result of constraints.Parse.
func (e *Engine) SetLayoutConstraints(c constraints.LayoutConstraints) {
	e.constraints = c
}

// Tick advances the engine by exactly one frame. Per spec.md section 5's
// ordering guarantees: the avatar position is read first, proximity runs
// next, the generation queue processes at most one frame-budget window,
// any chunks that finished generation this tick are laid out, and
// RenderChanged fires last if anything observable changed.
func (e *Engine) Tick(avatar AvatarSource) {
	localX, localZ := avatar.Position()

	rebased := e.origin.Tick(localX, localZ, e.backend)

	trueHex := e.origin.TrueHex(localX, localZ)
	e.originHex = trueHex

	// trueWorldX mirrors TrueHex's x-inversion convention (spec.md
	// section 4.6 / section 9): both feed ProximityController's P1/P3,
	// which must agree on handedness or P3 preloads the mirror-image
	// neighbor along x.
	offsetX, offsetZ := hexmath.HexToWorld(e.origin.WorldHexOffset(), e.HexSize())
	trueWorldX := offsetX - localX
	trueWorldZ := offsetZ + localZ

	result := e.proximity.Tick(trueHex, trueWorldX, trueWorldZ, e.worldMap, e.queue)

	e.queue.ProcessOneFrame(e.worldMap)

	generated := e.runPendingLayout()

	if rebased || result.Changed || generated {
		e.signalChanged()
	}
}

// Run blocks, calling Tick at opts.TickRateHz until ctx is canceled.
// Unlike the teacher's StartGameTicker, which launches its own goroutine
// internally, Run is caller-owned: the single control thread spec.md
// section 5 requires is whichever goroutine calls Run, typically main.
func (e *Engine) Run(ctx context.Context, avatar AvatarSource, opts RunOptions) {
	rate := opts.TickRateHz
	if rate <= 0 {
		rate = DefaultTickRate
	}
	log.Printf("engine: run starting at %d Hz", rate)

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("engine: run stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			e.Tick(avatar)
			if opts.AfterTick != nil {
				opts.AfterTick(e)
			}
		}
	}
}

// runPendingLayout runs LayoutGenerator over every enabled chunk that is
// fully initialized but not yet tiles_generated, implementing spec.md
// section 2's "on completion, invokes LayoutGenerator over all enabled
// chunks" data flow without needing same-frame completion signaling from
// GenerationQueue.
func (e *Engine) runPendingLayout() bool {
	var pending []*worldmap.Chunk
	for _, c := range e.worldMap.EnabledChunks() {
		if c.Initialized && !c.TilesGenerated {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return false
	}
	if err := e.generator.Run(e.worldMap, pending, e.constraints, false); err != nil {
		return false
	}
	return true
}

func (e *Engine) signalChanged() {
	select {
	case e.renderChanged <- struct{}{}:
	default:
	}
}

// RenderChanged fires whenever a Tick observably changed state the
// renderer should re-sync against.
func (e *Engine) RenderChanged() <-chan struct{} {
	return e.renderChanged
}

// EnabledChunks returns every chunk currently enabled, for the renderer
// to sync mesh instances against (spec.md section 6, pull-style
// interface).
func (e *Engine) EnabledChunks() []*worldmap.Chunk {
	return e.worldMap.EnabledChunks()
}

// Tiles returns chunk's tiles.
func (e *Engine) Tiles(chunk *worldmap.Chunk) []worldmap.Tile {
	return chunk.Tiles
}

// TileWorldPosition returns tile's Cartesian world position at this
// Engine's hex size.
func (e *Engine) TileWorldPosition(tile worldmap.Tile) (x, z float64) {
	return hexmath.HexToWorld(tile.Hex, e.HexSize())
}

// AvatarTrueHex returns the avatar's true hex as of the most recent
// Tick, for callers (such as the inspector feed) that want to report it
// without recomputing FloatingOrigin's conversion themselves.
func (e *Engine) AvatarTrueHex() hexmath.Axial {
	return e.originHex
}

// WorldHexOffset returns the floating origin's accumulated offset, part
// of the avatar/input layer's read-only accessor contract.
func (e *Engine) WorldHexOffset() hexmath.Axial {
	return e.origin.WorldHexOffset()
}

// Register forwards to FloatingOrigin.Register, recording a renderer
// scene position so future rebases shift it.
func (e *Engine) Register(h renderer.Handle, worldX, worldZ float64) {
	e.origin.Register(h, worldX, worldZ)
}

// Clear rejects every in-flight generation task and empties the queue;
// it does not touch WorldMap.
func (e *Engine) Clear() {
	e.queue.Clear()
}
