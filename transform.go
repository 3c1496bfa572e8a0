package gather

import (
	"github.com/gekko3d/gather/num"
)

// Transform places an entity in its parent's space. N is the precision the
// host stores world state in; it is narrowed to float32 only when packed for
// the GPU.
//
// The zero value has zero scale and is not invertible; use NewTransform.
type Transform[N num.Real] struct {
	Translation num.Vec3[N]
	Rotation    num.Quat[N]
	Scale       num.Vec3[N]

	global    num.Mat4[N]
	hasGlobal bool
}

func NewTransform[N num.Real]() Transform[N] {
	return Transform[N]{
		Rotation: num.QuatIdent[N](),
		Scale:    num.Vec3[N]{1, 1, 1},
	}
}

// IdentityTransform is a transform at the origin with no rotation or scale.
func IdentityTransform[N num.Real]() Transform[N] {
	t := NewTransform[N]()
	t.SetGlobalMatrix(num.Ident4[N]())
	return t
}

func (t Transform[N]) WithTranslation(x, y, z N) Transform[N] {
	t.Translation = num.Vec3[N]{x, y, z}
	t.hasGlobal = false
	return t
}

func (t Transform[N]) WithRotation(q num.Quat[N]) Transform[N] {
	t.Rotation = q
	t.hasGlobal = false
	return t
}

func (t Transform[N]) WithScale(x, y, z N) Transform[N] {
	t.Scale = num.Vec3[N]{x, y, z}
	t.hasGlobal = false
	return t
}

func (t Transform[N]) LocalMatrix() num.Mat4[N] {
	return num.Compose(t.Translation, t.Rotation, t.Scale)
}

// GlobalMatrix is the world-space matrix cached by TransformHierarchySystem.
// Before the hierarchy has run, the local matrix is the world matrix.
func (t *Transform[N]) GlobalMatrix() num.Mat4[N] {
	if !t.hasGlobal {
		return t.LocalMatrix()
	}
	return t.global
}

// SetGlobalMatrix overrides the cached world-space matrix.
func (t *Transform[N]) SetGlobalMatrix(m num.Mat4[N]) {
	t.global = m
	t.hasGlobal = true
}

// Parent makes an entity's Transform relative to another entity's.
type Parent struct {
	Entity EntityId
}

// Name labels entities spawned from scene files.
type Name struct {
	Value string
}
