package num

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Real is the scalar precision world state is stored in.
type Real interface {
	~float32 | ~float64
}

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("matrix is singular")

// Vec3 is a generic 3-component vector.
type Vec3[N Real] [3]N

// Quat is a generic quaternion, W first.
type Quat[N Real] struct {
	W N
	V Vec3[N]
}

// Mat4 is a generic column-major 4x4 matrix, same layout as mgl32.Mat4.
type Mat4[N Real] [16]N

func Ident4[N Real]() Mat4[N] {
	return Mat4[N]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func QuatIdent[N Real]() Quat[N] {
	return Quat[N]{W: 1}
}

// At returns the element at row, col.
func (m Mat4[N]) At(row, col int) N {
	return m[col*4+row]
}

// Col3 returns the first three rows of column i.
func (m Mat4[N]) Col3(i int) Vec3[N] {
	return Vec3[N]{m[i*4], m[i*4+1], m[i*4+2]}
}

func (m Mat4[N]) Mul4(o Mat4[N]) Mat4[N] {
	return mat4From64[N](m.widen().Mul4(o.widen()))
}

func (m Mat4[N]) Det() N {
	return N(m.widen().Det())
}

// Inverse returns the inverse of m, or ErrSingular when the determinant is
// zero or the inverse is not representable in N. Any non-zero determinant
// inverts, however small; there is no epsilon cut-off.
func (m Mat4[N]) Inverse() (Mat4[N], error) {
	w := m.widen()

	var cof mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			c := minor3(w, row, col)
			if (row+col)%2 == 1 {
				c = -c
			}
			cof[col*4+row] = c
		}
	}
	det := w[0]*cof[0] + w[4]*cof[4] + w[8]*cof[8] + w[12]*cof[12]
	if det == 0 {
		return Mat4[N]{}, ErrSingular
	}

	// adj(m) is the transpose of the cofactor matrix.
	var inv Mat4[N]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			v := N(cof[row*4+col] / det)
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return Mat4[N]{}, ErrSingular
			}
			inv[col*4+row] = v
		}
	}
	return inv, nil
}

// minor3 is the determinant of w without the given row and column.
func minor3(w mgl64.Mat4, row, col int) float64 {
	var s mgl64.Mat3
	i := 0
	for c := 0; c < 4; c++ {
		if c == col {
			continue
		}
		for r := 0; r < 4; r++ {
			if r == row {
				continue
			}
			s[i] = w[c*4+r]
			i++
		}
	}
	return s.Det()
}

// Compose builds translate * rotate * scale.
func Compose[N Real](translation Vec3[N], rotation Quat[N], scale Vec3[N]) Mat4[N] {
	t := mgl64.Translate3D(float64(translation[0]), float64(translation[1]), float64(translation[2]))
	r := mgl64.Quat{
		W: float64(rotation.W),
		V: mgl64.Vec3{float64(rotation.V[0]), float64(rotation.V[1]), float64(rotation.V[2])},
	}.Mat4()
	s := mgl64.Scale3D(float64(scale[0]), float64(scale[1]), float64(scale[2]))
	return mat4From64[N](t.Mul4(r).Mul4(s))
}

// QuatRotate returns a rotation of angle radians around axis.
func QuatRotate[N Real](angle N, axis Vec3[N]) Quat[N] {
	q := mgl64.QuatRotate(float64(angle), mgl64.Vec3{float64(axis[0]), float64(axis[1]), float64(axis[2])})
	return Quat[N]{W: N(q.W), V: Vec3[N]{N(q.V[0]), N(q.V[1]), N(q.V[2])}}
}

func (q Quat[N]) Mul(o Quat[N]) Quat[N] {
	r := q.widen().Mul(o.widen()).Normalize()
	return Quat[N]{W: N(r.W), V: Vec3[N]{N(r.V[0]), N(r.V[1]), N(r.V[2])}}
}

func (q Quat[N]) Rotate(v Vec3[N]) Vec3[N] {
	r := q.widen().Rotate(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
	return Vec3[N]{N(r[0]), N(r[1]), N(r[2])}
}

func (q Quat[N]) widen() mgl64.Quat {
	return mgl64.Quat{W: float64(q.W), V: mgl64.Vec3{float64(q.V[0]), float64(q.V[1]), float64(q.V[2])}}
}

// Widening to float64 is exact for both precisions, so all arithmetic runs
// through mgl64 and narrows back once.
func (m Mat4[N]) widen() mgl64.Mat4 {
	var w mgl64.Mat4
	for i, v := range m {
		w[i] = float64(v)
	}
	return w
}

func mat4From64[N Real](w mgl64.Mat4) Mat4[N] {
	var m Mat4[N]
	for i, v := range w {
		m[i] = N(v)
	}
	return m
}

// Mat4To32 narrows m to 32-bit floats with round-to-nearest.
func Mat4To32[N Real](m Mat4[N]) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Vec3To32 narrows v to 32-bit floats with round-to-nearest.
func Vec3To32[N Real](v Vec3[N]) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
