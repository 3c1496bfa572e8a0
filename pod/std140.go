package pod

import (
	"encoding/binary"
	"fmt"
	"math"
)

type Kind int

const (
	KindFloat Kind = iota
	KindVec2
	KindVec3
	KindVec4
	KindMat4
)

// align and size in bytes under std140.
func (k Kind) std140() (align, size int) {
	switch k {
	case KindFloat:
		return 4, 4
	case KindVec2:
		return 8, 8
	case KindVec3:
		return 16, 12
	case KindVec4:
		return 16, 16
	case KindMat4:
		// array of four vec4 columns, stride 16
		return 16, 64
	default:
		panic(fmt.Sprintf("unknown std140 kind %d", k))
	}
}

type Std140Field struct {
	Name   string
	Kind   Kind
	Offset int
	Size   int
}

// Std140Layout places uniform block members per the std140 rules.
type Std140Layout struct {
	fields []Std140Field
	end    int
}

func NewStd140Layout() *Std140Layout {
	return &Std140Layout{}
}

func (l *Std140Layout) Field(name string, kind Kind) *Std140Layout {
	if _, ok := l.Lookup(name); ok {
		panic(fmt.Sprintf("std140 field %q declared twice", name))
	}
	align, size := kind.std140()
	offset := alignUp(l.end, align)
	l.fields = append(l.fields, Std140Field{Name: name, Kind: kind, Offset: offset, Size: size})
	l.end = offset + size
	return l
}

func (l *Std140Layout) Fields() []Std140Field {
	return append([]Std140Field(nil), l.fields...)
}

func (l *Std140Layout) Lookup(name string) (Std140Field, bool) {
	for _, f := range l.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Std140Field{}, false
}

// Size is the block size, rounded up to the 16 byte struct alignment.
func (l *Std140Layout) Size() int {
	return alignUp(l.end, 16)
}

func alignUp(v, align int) int {
	return (v + align - 1) / align * align
}

// Std140Writer fills a little-endian byte buffer laid out by a Std140Layout.
// Padding bytes stay zero.
type Std140Writer struct {
	layout *Std140Layout
	buf    []byte
}

func NewStd140Writer(layout *Std140Layout) *Std140Writer {
	return &Std140Writer{
		layout: layout,
		buf:    make([]byte, layout.Size()),
	}
}

func (w *Std140Writer) field(name string, kind Kind) int {
	f, ok := w.layout.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("std140 field %q not in layout", name))
	}
	if f.Kind != kind {
		panic(fmt.Sprintf("std140 field %q has kind %d, wrote %d", name, f.Kind, kind))
	}
	return f.Offset
}

func (w *Std140Writer) putFloats(offset int, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(w.buf[offset+i*4:], math.Float32bits(v))
	}
}

func (w *Std140Writer) Float(name string, v float32) {
	w.putFloats(w.field(name, KindFloat), v)
}

func (w *Std140Writer) Vec2(name string, v [2]float32) {
	w.putFloats(w.field(name, KindVec2), v[:]...)
}

func (w *Std140Writer) Vec3(name string, v Vec3) {
	w.putFloats(w.field(name, KindVec3), v[:]...)
}

func (w *Std140Writer) Vec4(name string, v [4]float32) {
	w.putFloats(w.field(name, KindVec4), v[:]...)
}

func (w *Std140Writer) Mat4(name string, m Std140Mat4) {
	offset := w.field(name, KindMat4)
	for c := 0; c < 4; c++ {
		w.putFloats(offset+c*16, m[c][:]...)
	}
}

func (w *Std140Writer) Bytes() []byte {
	return w.buf
}

// ReadFloat decodes the float32 at byte offset of a serialized block.
func ReadFloat(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}
