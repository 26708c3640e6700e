package layout

import "errors"

// ErrNoPassableHexes is returned by Run when the generation union has no
// Grass or Forest hex at all, so Step C cannot place even one road seed.
// The run is a complete no-op: every targeted chunk stays ungenerated
// (spec.md section 7, GenerationFatal).
var ErrNoPassableHexes = errors.New("layout: no passable hexes in generation union")
