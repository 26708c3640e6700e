package worldmap

import (
	"hexworld/hexmath"
	"hexworld/renderer"
)

// TileKind is a closed tagged variant of the terrain a tile can carry.
// There are exactly five kinds; no open extension point is provided on
// purpose (spec.md section 9, "Polymorphism").
type TileKind int

const (
	Grass TileKind = iota
	Building
	Road
	Forest
	Water
)

// String renders a TileKind for logs and tests.
func (k TileKind) String() string {
	switch k {
	case Grass:
		return "Grass"
	case Building:
		return "Building"
	case Road:
		return "Road"
	case Forest:
		return "Forest"
	case Water:
		return "Water"
	default:
		return "Unknown"
	}
}

// Tile is one hex within a Chunk. Hex is always a true world coordinate,
// never chunk-local.
type Tile struct {
	Hex            hexmath.Axial
	Kind           *TileKind
	Enabled        bool
	InstanceHandle renderer.Handle
}

// HasKind reports whether the tile's kind has been assigned.
func (t *Tile) HasKind() bool {
	return t.Kind != nil
}
