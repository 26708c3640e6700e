// Package hexmath implements the axial/cube hex coordinate algebra that
// every other package in this module builds on: world<->hex conversion,
// distance, ring enumeration, and the fixed chunk-packing geometry.
package hexmath

import "math"

// Axial is a world hex coordinate in axial form. The implied cube
// component is S = -Q - R; it is never stored, only derived when needed.
type Axial struct {
	Q, R int
}

// Add returns the axial sum of a and b.
func (a Axial) Add(b Axial) Axial {
	return Axial{Q: a.Q + b.Q, R: a.R + b.R}
}

// Sub returns a minus b.
func (a Axial) Sub(b Axial) Axial {
	return Axial{Q: a.Q - b.Q, R: a.R - b.R}
}

// Scale returns a scaled by k.
func (a Axial) Scale(k int) Axial {
	return Axial{Q: a.Q * k, R: a.R * k}
}

// S returns the implied cube S coordinate, -Q-R.
func (a Axial) S() int {
	return -a.Q - a.R
}

// rotateCW rotates a cube-ish axial offset 60 degrees clockwise:
// (q, r) -> (q+r, -q). Used both to pre-align the chunk-packing base
// offset and to emit its six packing neighbors.
func rotateCW(a Axial) Axial {
	return Axial{Q: a.Q + a.R, R: -a.Q}
}

// Distance returns the cube distance between two axial hexes.
func Distance(a, b Axial) int {
	dq := absInt(a.Q - b.Q)
	dr := absInt(a.R - b.R)
	ds := absInt(a.S() - b.S())
	return maxInt(dq, maxInt(dr, ds))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Directions are the six cube unit step vectors, in the fixed order used
// for ring walking: index 0 is (+1,0,-1) and so on around the hex.
var Directions = [6]Axial{
	{Q: 1, R: 0},  // (+1, 0, -1)
	{Q: 1, R: -1}, // (+1,-1, 0)
	{Q: 0, R: -1}, // ( 0,-1,+1)
	{Q: -1, R: 0}, // (-1, 0,+1)
	{Q: -1, R: 1}, // (-1,+1, 0)
	{Q: 0, R: 1},  // ( 0,+1,-1)
}

const sqrt3 = 1.7320508075688772

// HexToWorld converts a pointy-top axial hex to Cartesian (x, z) world
// coordinates at the given hex size (center-to-vertex distance).
func HexToWorld(h Axial, size float64) (x, z float64) {
	x = size * (sqrt3*float64(h.Q) + (sqrt3/2)*float64(h.R))
	z = size * (1.5) * float64(h.R)
	return x, z
}

// WorldToHex converts Cartesian (x, z) world coordinates to the nearest
// axial hex at the given hex size, using cube rounding: round each
// fractional cube component independently, then reset whichever of the
// three has the largest rounding error so q+r+s=0 holds exactly.
func WorldToHex(x, z float64, size float64) Axial {
	qf := (sqrt3/3*x - z/3) / size
	rf := (2.0 / 3.0 * z) / size
	sf := -qf - rf

	q := math.Round(qf)
	r := math.Round(rf)
	s := math.Round(sf)

	dq := math.Abs(q - qf)
	dr := math.Abs(r - rf)
	ds := math.Abs(s - sf)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	default:
		s = -q - r
	}
	_ = s

	return Axial{Q: int(q), R: int(r)}
}

// Neighbors returns the six hexes adjacent to h, in Directions order.
func Neighbors(h Axial) [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = h.Add(d)
	}
	return out
}

// Hypot returns the Euclidean distance between two Cartesian world
// points, a small convenience so callers comparing world positions don't
// need their own "math" import just for this.
func Hypot(dx, dz float64) float64 {
	return math.Hypot(dx, dz)
}

// Ring returns the hexes at exact cube distance radius from center, in
// walk order (six sides, radius steps per side). Ring(center, 0) is
// just {center}.
func Ring(center Axial, radius int) []Axial {
	if radius == 0 {
		return []Axial{center}
	}

	hexes := make([]Axial, 0, 6*radius)
	cur := center.Add(Directions[4].Scale(radius))

	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			hexes = append(hexes, cur)
			cur = cur.Add(Directions[side])
		}
	}

	return hexes
}

// Grid returns the union of rings 0..radius around center: the full set
// of hexes belonging to a chunk of that radius. Total count is
// 3*radius*(radius+1) + 1.
func Grid(center Axial, radius int) []Axial {
	hexes := make([]Axial, 0, TileCount(radius))
	for r := 0; r <= radius; r++ {
		hexes = append(hexes, Ring(center, r)...)
	}
	return hexes
}

// TileCount returns 3*radius*(radius+1)+1, the number of hexes in a
// chunk grid of the given radius.
func TileCount(radius int) int {
	return 3*radius*(radius+1) + 1
}

// PackingNeighbors returns the six chunk-center coordinates of the
// packing neighbors of a chunk of the given radius centered at center.
//
// The base offset is (1,0) for radius 0, else (radius, radius+1); it is
// pre-rotated by four clockwise 60-degree rotations to align with the
// pointy-top packing orientation spec.md describes, then six successive
// clockwise rotations (starting from the pre-rotated base itself) emit
// the six neighbor offsets. This produces exactly six centers at cube
// distance 2*radius+1 (or 1 when radius=0); see hexmath_test.go for the
// worked validation against the radius=2 reference set.
func PackingNeighbors(center Axial, radius int) [6]Axial {
	var base Axial
	if radius == 0 {
		base = Axial{Q: 1, R: 0}
	} else {
		base = Axial{Q: radius, R: radius + 1}
	}

	aligned := base
	for i := 0; i < 4; i++ {
		aligned = rotateCW(aligned)
	}

	var neighbors [6]Axial
	offset := aligned
	for side := 0; side < 6; side++ {
		neighbors[side] = center.Add(offset)
		offset = rotateCW(offset)
	}

	return neighbors
}
