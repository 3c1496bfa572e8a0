// Package pod holds plain GPU value types and the std140 uniform buffer
// layout they are uploaded with.
package pod

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is three tightly packed 32-bit floats.
type Vec3 [3]float32

// Mat4 is a column-major 4x4 matrix of 32-bit floats.
type Mat4 [16]float32

func Vec3From(v mgl32.Vec3) Vec3 { return Vec3(v) }
func Mat4From(m mgl32.Mat4) Mat4 { return Mat4(m) }

// Std140Mat4 is a mat4 as std140 sees it: four vec4 columns, each
// starting on a 16 byte boundary.
type Std140Mat4 [4][4]float32

func (m Mat4) Std140() Std140Mat4 {
	var out Std140Mat4
	for c := 0; c < 4; c++ {
		copy(out[c][:], m[c*4:c*4+4])
	}
	return out
}

// ViewArgs is the projection and view pair shaders consume.
type ViewArgs struct {
	Proj Mat4
	View Mat4
}

// Std140ViewArgs mirrors
//
//	layout(std140) uniform ViewArgs {
//	    mat4 proj;
//	    mat4 view;
//	};
type Std140ViewArgs struct {
	Proj Std140Mat4
	View Std140Mat4
}

func (a ViewArgs) Std140() Std140ViewArgs {
	return Std140ViewArgs{
		Proj: a.Proj.Std140(),
		View: a.View.Std140(),
	}
}

// ViewArgsLayout is the std140 block layout of Std140ViewArgs.
func ViewArgsLayout() *Std140Layout {
	return NewStd140Layout().
		Field("proj", KindMat4).
		Field("view", KindMat4)
}

// Bytes serializes a using ViewArgsLayout.
func (a Std140ViewArgs) Bytes() []byte {
	w := NewStd140Writer(ViewArgsLayout())
	w.Mat4("proj", a.Proj)
	w.Mat4("view", a.View)
	return w.Bytes()
}
