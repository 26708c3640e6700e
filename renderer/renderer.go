// Package renderer declares the interfaces the core expects from an
// external rendering backend. It contains no mesh, camera, or asset
// code: spec.md treats the 3D renderer as an external collaborator
// described only by its named interfaces.
package renderer

import "hexworld/hexmath"

// Handle is an opaque render-instance handle owned by the renderer. The
// core only stores and clears it on a Tile; it never inspects or
// dereferences the value.
type Handle interface{}

// Renderer is implemented once per rendering backend. The core calls it
// to keep mesh instances in sync with tile state; it never calls back
// into the core from these methods.
type Renderer interface {
	// CreateInstance asks the renderer to instantiate a mesh for a tile
	// at the given world position and returns the handle that will be
	// stored on the tile.
	CreateInstance(hex hexmath.Axial, worldX, worldZ float64) Handle

	// MoveInstance repositions an existing instance.
	MoveInstance(h Handle, worldX, worldZ float64)

	// SetEnabled toggles visibility/activity of an instance.
	SetEnabled(h Handle, enabled bool)

	// DisposeInstance releases an instance; the core clears its stored
	// handle immediately afterward and never uses it again.
	DisposeInstance(h Handle)
}

// SceneRegistrar is implemented by the renderer side of FloatingOrigin
// rebasing: it registers scene-graph positions (meshes, positional
// lights) that must be shifted whenever the origin rebases.
type SceneRegistrar interface {
	// RegisterSceneMesh records a scene position under handle so that a
	// later rebase can move it.
	RegisterSceneMesh(h Handle, worldX, worldZ float64)

	// MoveSceneMesh shifts a previously registered position by delta.
	MoveSceneMesh(h Handle, dx, dz float64)
}
