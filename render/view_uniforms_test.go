package render

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gather"
	"github.com/gekko3d/gather/pod"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	desc *wgpu.BufferDescriptor
	err  error
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.desc = desc
	if d.err != nil {
		return nil, d.err
	}
	return &wgpu.Buffer{}, nil
}

type write struct {
	buffer *wgpu.Buffer
	offset uint64
	data   []byte
}

type fakeQueue struct {
	writes []write
	err    error
}

func (q *fakeQueue) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	if q.err != nil {
		return q.err
	}
	q.writes = append(q.writes, write{buffer: buffer, offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func TestViewUniformsLayout(t *testing.T) {
	layout := ViewUniformsLayout()
	want := map[string]int{"proj": 0, "view": 64, "camera_position": 128, "ambient_color": 144}
	for name, offset := range want {
		f, ok := layout.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, offset, f.Offset, name)
		assert.Zero(t, f.Offset%16, "%s must start on a 16 byte boundary", name)
	}
	assert.Equal(t, 160, layout.Size())
}

func TestNewViewUniforms(t *testing.T) {
	dev := &fakeDevice{}
	u, err := NewViewUniforms[float64](dev)
	require.NoError(t, err)
	require.NotNil(t, u.Buffer)

	assert.Equal(t, uint64(160), dev.desc.Size)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, dev.desc.Usage)

	_, err = NewViewUniforms[float64](&fakeDevice{err: errors.New("out of memory")})
	assert.Error(t, err)
}

func TestViewUniforms_Prepare(t *testing.T) {
	w := gather.NewWorld()
	tr := gather.NewTransform[float64]().WithTranslation(1, 2, 3)
	cam := w.Spawn(gather.Standard3D(1280, 720), &tr)
	w.AddResources(&gather.ActiveCamera{Entity: cam}, gather.NewAmbientColor(0.25, 0.5, 0.75, 1))

	u, err := NewViewUniforms[float64](&fakeDevice{})
	require.NoError(t, err)

	q := &fakeQueue{}
	require.NoError(t, u.Prepare(w, q))
	require.Len(t, q.writes, 1)

	got := q.writes[0]
	assert.Same(t, u.Buffer, got.buffer)
	assert.Zero(t, got.offset)
	require.Len(t, got.data, 160)

	res, err := gather.GatherCamera[float64](w)
	require.NoError(t, err)
	assert.Equal(t, res.ProjView.Bytes(), got.data[:128])

	assert.Equal(t, pod.Vec3{1, 2, 3}, pod.Vec3{
		pod.ReadFloat(got.data, 128), pod.ReadFloat(got.data, 132), pod.ReadFloat(got.data, 136),
	})
	assert.Equal(t, pod.Vec3{0.25, 0.5, 0.75}, pod.Vec3{
		pod.ReadFloat(got.data, 144), pod.ReadFloat(got.data, 148), pod.ReadFloat(got.data, 152),
	})
	assert.Equal(t, make([]byte, 4), got.data[140:144])

	// view translation is the negated camera position
	assert.Equal(t, float32(-1), pod.ReadFloat(got.data, 64+48))
	assert.Equal(t, float32(-2), pod.ReadFloat(got.data, 64+52))
	assert.Equal(t, float32(-3), pod.ReadFloat(got.data, 64+56))
}

func TestViewUniforms_EmptyWorldUsesDefaults(t *testing.T) {
	u, err := NewViewUniforms[float32](&fakeDevice{})
	require.NoError(t, err)

	data, err := u.Pack(gather.NewWorld())
	require.NoError(t, err)

	proj := gather.DefaultCamera().Proj
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			assert.Equal(t, proj.At(row, col), pod.ReadFloat(data, col*16+row*4))
			assert.Equal(t, mgl32.Ident4().At(row, col), pod.ReadFloat(data, 64+col*16+row*4))
		}
	}
	assert.Equal(t, make([]byte, 32), data[128:160])
}

func TestViewUniforms_SingularTransformAbortsFrame(t *testing.T) {
	w := gather.NewWorld()
	tr := gather.NewTransform[float64]().WithScale(1, 0, 1)
	w.Spawn(gather.Standard3D(800, 600), &tr)

	u, err := NewViewUniforms[float64](&fakeDevice{})
	require.NoError(t, err)

	q := &fakeQueue{}
	err = u.Prepare(w, q)
	assert.ErrorIs(t, err, gather.ErrSingularCameraTransform)
	assert.Empty(t, q.writes, "nothing is uploaded for an aborted frame")

	assert.Panics(t, func() { u.MustPrepare(w, q) })
}

func TestViewUniforms_QueueError(t *testing.T) {
	u, err := NewViewUniforms[float64](&fakeDevice{})
	require.NoError(t, err)

	boom := errors.New("device lost")
	err = u.Prepare(gather.NewWorld(), &fakeQueue{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestViewUniforms_GatherThenEncodeMatchesPack(t *testing.T) {
	w := gather.NewWorld()
	tr := gather.NewTransform[float32]().WithTranslation(4, 5, 6)
	w.Spawn(gather.Standard2D(640, 480), &tr)
	w.AddResources(gather.NewAmbientColor(0.1, 0.2, 0.3, 1))

	var u ViewUniforms[float32]
	f, err := u.Gather(w)
	require.NoError(t, err)
	assert.Equal(t, gather.CameraFromQuery, f.Camera.Source)
	assert.Equal(t, pod.Vec3{4, 5, 6}, f.Camera.CameraPosition)
	assert.Equal(t, pod.Vec3{0.1, 0.2, 0.3}, f.Ambient)

	packed, err := u.Pack(w)
	require.NoError(t, err)
	assert.Equal(t, packed, u.Encode(f))
}
