// Package floatorigin implements the floating-origin rebasing technique
// (spec.md's C6): it keeps the avatar's local coordinates bounded near
// zero so float precision holds indefinitely far from the nominal
// origin, by periodically folding distance traveled into an accumulated
// hex offset and shifting every registered scene position by the same
// amount.
package floatorigin

import (
	"math"

	"hexworld/hexmath"
	"hexworld/renderer"
)

// DefaultThreshold is the default world distance before rebasing
// (spec.md section 6, floating_origin_threshold).
const DefaultThreshold = 1000.0

// FloatingOrigin tracks the renderer-space origin and the accumulated
// true-hex offset it represents.
type FloatingOrigin struct {
	threshold float64
	hexSize   float64

	originWorld   [2]float64 // (x, z)
	worldHexOffset hexmath.Axial

	registered map[renderer.Handle][2]float64
}

// New constructs a FloatingOrigin with the given rebase threshold and
// hex size. originWorld and worldHexOffset both start at zero.
func New(threshold, hexSize float64) *FloatingOrigin {
	return &FloatingOrigin{
		threshold:  threshold,
		hexSize:    hexSize,
		registered: make(map[renderer.Handle][2]float64),
	}
}

// WorldHexOffset returns the accumulated hex offset folded in by past
// rebases.
func (f *FloatingOrigin) WorldHexOffset() hexmath.Axial {
	return f.worldHexOffset
}

// OriginWorld returns the current renderer-space origin position.
func (f *FloatingOrigin) OriginWorld() (x, z float64) {
	return f.originWorld[0], f.originWorld[1]
}

// Register records that the renderer has a scene position (mesh,
// positional light) under handle at the given world position, so a
// future rebase knows to shift it. This is the core's side of the
// renderer's register_scene_mesh call (spec.md section 6).
func (f *FloatingOrigin) Register(h renderer.Handle, worldX, worldZ float64) {
	f.registered[h] = [2]float64{worldX, worldZ}
}

// TrueHex returns the avatar's true world hex given its renderer-space
// local position, per spec.md section 4.6: world_to_hex(-local_x,
// local_z, s) + world_hex_offset. The x inversion is a deliberate
// convention matching the renderer's coordinate system and must not be
// "corrected" away.
func (f *FloatingOrigin) TrueHex(localX, localZ float64) hexmath.Axial {
	local := hexmath.WorldToHex(-localX, localZ, f.hexSize)
	return local.Add(f.worldHexOffset)
}

// Mover is the minimal surface Tick needs to shift registered scene
// positions during a rebase; renderer.SceneRegistrar implements it.
type Mover interface {
	MoveSceneMesh(h renderer.Handle, dx, dz float64)
}

// Tick checks whether the avatar (at renderer-space avatarWorld) has
// drifted more than the configured threshold from the current origin,
// and if so performs one rebase: computes the offset, folds it into
// worldHexOffset, shifts every position mover knows about by the same
// amount, and resets originWorld to the avatar's position. It returns
// true iff a rebase occurred.
func (f *FloatingOrigin) Tick(avatarWorldX, avatarWorldZ float64, mover Mover) bool {
	dx := avatarWorldX - f.originWorld[0]
	dz := avatarWorldZ - f.originWorld[1]

	if math.Hypot(dx, dz) <= f.threshold {
		return false
	}

	delta := hexmath.WorldToHex(dx, dz, f.hexSize)
	f.worldHexOffset = f.worldHexOffset.Add(delta)

	for h, pos := range f.registered {
		if mover != nil {
			mover.MoveSceneMesh(h, -dx, -dz)
		}
		f.registered[h] = [2]float64{pos[0] - dx, pos[1] - dz}
	}

	f.originWorld = [2]float64{avatarWorldX, avatarWorldZ}
	return true
}
