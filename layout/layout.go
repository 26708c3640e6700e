// Package layout implements LayoutGenerator (spec.md's C7): Voronoi
// biome assignment, a growing-tree road network with hex-A* pathing,
// building placement, and fill, committed back onto the chunks that
// contributed the generation union.
package layout

import (
	"math/rand"

	"golang.org/x/sync/errgroup"

	"hexworld/constraints"
	"hexworld/hexmath"
	"hexworld/worldmap"
)

// Default seed counts and ratios, named after spec.md section 6's
// configuration keys.
const (
	DefaultForestSeeds = 4
	DefaultWaterSeeds  = 3
	DefaultGrassSeeds  = 6

	DefaultRoadDensityRatio = 0.10
	DefaultRoadSeedRatio    = 0.25
)

// Logger is the minimal structured-logging sink a Generator is
// constructed with.
type Logger interface {
	Debug(msg string, kv ...any)
	Warn(msg string, kv ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Generator runs the layout pipeline over a union of chunks. A
// Generator is constructed with a PRNG seed so a given seed reproduces
// the same layout deterministically (spec.md section 6, "Persisted
// state").
type Generator struct {
	rng *rand.Rand

	forestSeeds, waterSeeds, grassSeeds int
	roadDensityRatio, roadSeedRatio     float64
	densityRatios                      map[constraints.BuildingDensity]float64

	log Logger
}

// Option configures a Generator at construction.
type Option func(*Generator)

// WithLogger overrides the logging sink.
func WithLogger(l Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithSeedCounts overrides the Voronoi seed counts per biome.
func WithSeedCounts(forest, water, grass int) Option {
	return func(g *Generator) { g.forestSeeds, g.waterSeeds, g.grassSeeds = forest, water, grass }
}

// WithRoadRatios overrides the road density and seed ratios.
func WithRoadRatios(density, seed float64) Option {
	return func(g *Generator) { g.roadDensityRatio, g.roadSeedRatio = density, seed }
}

// WithDensityRatios overrides the building_density_ratio[density] table
// of spec.md section 6 (defaults are constraints.DensityRatio's
// 0.05/0.10/0.15).
func WithDensityRatios(sparse, medium, dense float64) Option {
	return func(g *Generator) {
		g.densityRatios = map[constraints.BuildingDensity]float64{
			constraints.Sparse: sparse,
			constraints.Medium: medium,
			constraints.Dense:  dense,
		}
	}
}

// New constructs a Generator seeded from seed, so repeated runs against
// the same union with the same seed reproduce the same layout.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng:              rand.New(rand.NewSource(seed)),
		forestSeeds:      DefaultForestSeeds,
		waterSeeds:       DefaultWaterSeeds,
		grassSeeds:       DefaultGrassSeeds,
		roadDensityRatio: DefaultRoadDensityRatio,
		roadSeedRatio:    DefaultRoadSeedRatio,
		densityRatios: map[constraints.BuildingDensity]float64{
			constraints.Sparse: constraints.DensityRatio(constraints.Sparse),
			constraints.Medium: constraints.DensityRatio(constraints.Medium),
			constraints.Dense:  constraints.DensityRatio(constraints.Dense),
		},
		log: nopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes Steps A-F over the union of hexes belonging to chunks,
// skipping any chunk whose TilesGenerated is already true unless force
// is set (force-recompute mode, spec.md section 4.7). On success every
// targeted chunk has TilesGenerated = true and every tile committed. On
// ErrNoPassableHexes the run is a complete no-op: no chunk is touched.
func (g *Generator) Run(wm *worldmap.WorldMap, chunks []*worldmap.Chunk, constraints_ constraints.LayoutConstraints, force bool) error {
	targets := chunks
	if !force {
		targets = nil
		for _, c := range chunks {
			if !c.TilesGenerated {
				targets = append(targets, c)
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	union := unionHexes(targets)

	// Step A: Voronoi biomes.
	kinds := assignVoronoiBiomes(g.rng, union, g.forestSeeds, g.waterSeeds, g.grassSeeds)

	// Step B: passable terrain.
	passableSet := make(map[hexmath.Axial]bool, len(union))
	for _, h := range union {
		k := kinds[h]
		if k == worldmap.Grass || k == worldmap.Forest {
			passableSet[h] = true
		}
	}
	if len(passableSet) == 0 {
		return ErrNoPassableHexes
	}

	// Step C: road network.
	network, dropped, err := growRoadNetwork(g.rng, passableSet, g.roadDensityRatio, g.roadSeedRatio)
	if err != nil {
		return err
	}
	if dropped > 0 {
		g.log.Warn("road seed path failed, seed dropped", "dropped", dropped)
	}
	roadSet := make(map[hexmath.Axial]bool, len(network))
	for _, h := range network {
		roadSet[h] = true
		kinds[h] = worldmap.Road
	}

	// Step D: buildings.
	occupied := make(map[hexmath.Axial]bool, len(roadSet))
	for h := range roadSet {
		occupied[h] = true
	}
	densityRatio := g.densityRatios[constraints_.BuildingDensity]
	buildings := placeBuildings(g.rng, passableSet, roadSet, occupied, densityRatio)
	for _, h := range buildings {
		kinds[h] = worldmap.Building
	}

	// Step E: fill. Every hex in the union already carries a kind from
	// Step A's total Voronoi assignment; this is a safety net for any
	// hex that somehow reached here without one (see DESIGN.md for why
	// this does not overwrite Step A's Forest/Water biome cells).
	for _, h := range union {
		if _, ok := kinds[h]; !ok {
			kinds[h] = worldmap.Grass
		}
	}

	// Step F: commit, one goroutine per chunk (each touches only its own
	// Tiles slice, so this is safe without additional locking).
	var eg errgroup.Group
	for _, c := range targets {
		c := c
		eg.Go(func() error {
			commitChunk(c, kinds)
			return nil
		})
	}
	_ = eg.Wait()

	return nil
}

func unionHexes(chunks []*worldmap.Chunk) []hexmath.Axial {
	seen := map[hexmath.Axial]bool{}
	var union []hexmath.Axial
	for _, c := range chunks {
		for _, t := range c.Tiles {
			if seen[t.Hex] {
				continue
			}
			seen[t.Hex] = true
			union = append(union, t.Hex)
		}
	}
	return union
}

func commitChunk(c *worldmap.Chunk, kinds map[hexmath.Axial]worldmap.TileKind) {
	for i := range c.Tiles {
		if k, ok := kinds[c.Tiles[i].Hex]; ok {
			kind := k
			c.Tiles[i].Kind = &kind
		}
	}
	c.MarkGenerated()
}
