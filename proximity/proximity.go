// Package proximity implements ProximityController (spec.md's C5): each
// tick, given the avatar's current tile, it decides which chunks to
// enqueue, enable, or disable. It is grounded on the teacher's
// generation.ChunkManager GenerateAheadForPlayer/CleanupBehind pair
// (preload-ahead, cleanup-behind), generalized from a 1D chunk line to
// the hex packing lattice.
//
// ProximityController holds no lock: spec.md section 5 mandates that the
// control thread is the sole mutator of WorldMap and GenerationQueue,
// and Tick is only ever called from that thread.
package proximity

import (
	"hexworld/genqueue"
	"hexworld/hexmath"
	"hexworld/worldmap"
)

// Default cadence and radius constants, named directly after spec.md
// section 6's configuration keys.
const (
	DefaultCheckIntervalFrames       = 20
	DefaultBorderCheckIntervalFrames = 5
	DefaultDisableRadiusChunks       = 4
	DefaultPreloadRadiusChunks       = 2.5

	preloadPriority = 100
)

// Logger is the minimal structured-logging sink a ProximityController is
// constructed with. A nil Logger is replaced by a no-op at construction.
type Logger interface {
	Debug(msg string, kv ...any)
	Warn(msg string, kv ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Controller implements the per-tick proximity policy described in
// spec.md section 4.5.
type Controller struct {
	chunkRadius int
	hexSize     float64

	checkIntervalFrames       int
	borderCheckIntervalFrames int
	disableRadiusChunks       int
	preloadRadiusChunks       float64

	log Logger

	frame int

	curCenter   hexmath.Axial
	haveCur     bool
	cacheCenter hexmath.Axial
	cacheCount  int
	cacheValid  bool
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithLogger overrides the logging sink.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithCheckIntervalFrames overrides the relaxed check cadence.
func WithCheckIntervalFrames(n int) Option {
	return func(c *Controller) { c.checkIntervalFrames = n }
}

// WithBorderCheckIntervalFrames overrides the tight, near-border cadence.
func WithBorderCheckIntervalFrames(n int) Option {
	return func(c *Controller) { c.borderCheckIntervalFrames = n }
}

// WithDisableRadiusChunks overrides the disable-distance multiplier k in
// `k*R`.
func WithDisableRadiusChunks(k int) Option {
	return func(c *Controller) { c.disableRadiusChunks = k }
}

// WithPreloadRadiusChunks overrides the preload-distance multiplier k in
// `k*R*hexSize*1.5`.
func WithPreloadRadiusChunks(k float64) Option {
	return func(c *Controller) { c.preloadRadiusChunks = k }
}

// New constructs a Controller for chunks of the given radius and hex
// size.
func New(chunkRadius int, hexSize float64, opts ...Option) *Controller {
	c := &Controller{
		chunkRadius:               chunkRadius,
		hexSize:                   hexSize,
		checkIntervalFrames:       DefaultCheckIntervalFrames,
		borderCheckIntervalFrames: DefaultBorderCheckIntervalFrames,
		disableRadiusChunks:       DefaultDisableRadiusChunks,
		preloadRadiusChunks:       DefaultPreloadRadiusChunks,
		log:                       nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	return c
}

// nearBorder reports whether the avatar sits close enough to its current
// chunk's boundary that a crossing could be imminent next frame,
// tightening the check cadence per spec.md section 4.5's cadence rule.
// The boundary band is the outer 20% of the chunk's world radius.
func (c *Controller) nearBorder(avatarWorldX, avatarWorldZ float64, cur *worldmap.Chunk) bool {
	dx := avatarWorldX - cur.CenterWorld[0]
	dz := avatarWorldZ - cur.CenterWorld[1]
	dist := hexmath.Hypot(dx, dz)
	chunkWorldRadius := float64(c.chunkRadius) * c.hexSize * 1.5
	return dist >= 0.8*chunkWorldRadius
}

// due reports whether this frame is a scheduled proximity check, given
// the tightened cadence when near a border.
func (c *Controller) due(tight bool) bool {
	interval := c.checkIntervalFrames
	if tight {
		interval = c.borderCheckIntervalFrames
	}
	if interval <= 0 {
		return true
	}
	return c.frame%interval == 0
}

// Result reports what changed during a Tick, so the caller knows whether
// to ask the renderer to re-sync (spec.md's P4).
type Result struct {
	Changed        bool
	CurrentChanged bool
	CurrentCenter  hexmath.Axial
}

// Tick runs one proximity evaluation pass. avatarTrueHex is the avatar's
// true world hex (post floating-origin); avatarWorldX/Z are its world
// position in the same true-hex frame (the frame HexToWorld maps chunk
// centers into), used for the border-band check and the Euclidean
// preload threshold. gq is used to enqueue preload work; wm is consulted and
// mutated (enable/disable flags) directly.
func (c *Controller) Tick(avatarTrueHex hexmath.Axial, avatarWorldX, avatarWorldZ float64, wm *worldmap.WorldMap, gq *genqueue.GenerationQueue) Result {
	c.frame++

	tight := c.haveCur
	if tight {
		if cur, ok := wm.ChunkForTileFast(avatarTrueHex); ok {
			tight = c.nearBorder(avatarWorldX, avatarWorldZ, cur)
		}
	}
	if !c.due(tight) {
		return Result{}
	}

	result := Result{}

	// P1: resolve current chunk.
	curChunk, ok := wm.ChunkForTileFast(avatarTrueHex)
	if !ok {
		curChunk, ok = wm.ChunkForTileScan(avatarTrueHex)
	}
	if !ok {
		// No chunk claims this hex yet; nothing more to do until one is
		// enqueued by the caller for the very first chunk.
		return result
	}

	if !c.haveCur || curChunk.Center != c.curCenter {
		c.log.Debug("current chunk changed", "from", c.curCenter, "to", curChunk.Center)
		c.curCenter = curChunk.Center
		c.haveCur = true
		c.cacheValid = false
		result.CurrentChanged = true
		result.Changed = true
	}
	result.CurrentCenter = c.curCenter

	// P2: disable distant chunks, enable ones back in range.
	if c.disablePass(curChunk, wm) {
		result.Changed = true
	}

	// P3: preload the nearest neighbor of the current chunk.
	if c.preloadPass(curChunk, avatarWorldX, avatarWorldZ, wm, gq) {
		result.Changed = true
	}

	return result
}

func (c *Controller) disablePass(cur *worldmap.Chunk, wm *worldmap.WorldMap) bool {
	all := wm.AllChunks()
	if c.cacheValid && c.cacheCenter == cur.Center && c.cacheCount == len(all) {
		return false
	}

	maxDist := c.disableRadiusChunks * c.chunkRadius
	changed := false
	for _, chunk := range all {
		d := hexmath.Distance(chunk.Center, cur.Center)
		shouldDisable := d > maxDist
		if shouldDisable && chunk.Enabled {
			chunk.SetEnabled(false, nil)
			changed = true
		} else if !shouldDisable && !chunk.Enabled {
			chunk.SetEnabled(true, nil)
			changed = true
		}
	}

	c.cacheCenter = cur.Center
	c.cacheCount = len(all)
	c.cacheValid = true
	return changed
}

func (c *Controller) preloadPass(cur *worldmap.Chunk, avatarWorldX, avatarWorldZ float64, wm *worldmap.WorldMap, gq *genqueue.GenerationQueue) bool {
	neighbors := hexmath.PackingNeighbors(cur.Center, c.chunkRadius)

	var nearest hexmath.Axial
	bestDist := -1.0
	haveNearest := false
	for _, n := range neighbors {
		wx, wz := hexmath.HexToWorld(n, c.hexSize)
		d := hexmath.Hypot(avatarWorldX-wx, avatarWorldZ-wz)
		if !haveNearest || d < bestDist {
			nearest, bestDist, haveNearest = n, d, true
		}
	}
	if !haveNearest {
		return false
	}

	threshold := c.preloadRadiusChunks * float64(c.chunkRadius) * c.hexSize * 1.5
	if bestDist >= threshold {
		return false
	}

	existing := wm.Get(nearest)
	if existing == nil {
		gq.Enqueue(nearest, c.chunkRadius, c.hexSize, preloadPriority, wm)
		c.log.Debug("preloading neighbor chunk", "center", nearest)
		return true
	}
	if !existing.Initialized {
		gq.Enqueue(nearest, c.chunkRadius, c.hexSize, preloadPriority, wm)
		return false
	}
	if !existing.Enabled {
		existing.SetEnabled(true, nil)
		c.log.Debug("re-enabling preloaded neighbor", "center", nearest)
		return true
	}
	return false
}
