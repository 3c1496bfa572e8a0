package gather

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the projection from camera space to clip space.
type Camera struct {
	Proj mgl32.Mat4
}

// ActiveCamera names the entity rendering uses when present.
type ActiveCamera struct {
	Entity EntityId
}

func Orthographic(left, right, bottom, top, near, far float32) Camera {
	return Camera{Proj: mgl32.Ortho(left, right, bottom, top, near, far)}
}

// Perspective takes the vertical field of view in radians.
func Perspective(aspect, fovy, near, far float32) Camera {
	return Camera{Proj: mgl32.Perspective(fovy, aspect, near, far)}
}

// Standard2D is an orthographic camera one world unit per pixel, centred
// on the origin.
func Standard2D(width, height float32) Camera {
	return Orthographic(-width/2, width/2, -height/2, height/2, 0.125, 2000)
}

// Standard3D is a 60 degree perspective camera for the given viewport.
func Standard3D(width, height float32) Camera {
	return Perspective(width/height, math.Pi/3, 0.1, 2000)
}

// DefaultCamera is used when the world has no camera at all.
func DefaultCamera() Camera {
	return Orthographic(-1, 1, -1, 1, 0.1, 2000)
}
