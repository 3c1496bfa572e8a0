// Package render uploads gathered per-frame view state to GPU uniform
// buffers.
package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gather"
	"github.com/gekko3d/gather/num"
	"github.com/gekko3d/gather/pod"
)

// BufferCreator is satisfied by *wgpu.Device.
type BufferCreator interface {
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

// BufferWriter is satisfied by *wgpu.Queue.
type BufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// ViewUniformsLayout is the shader-side block
//
//	struct ViewUniforms {
//	    proj: mat4x4<f32>,            // 0
//	    view: mat4x4<f32>,            // 64
//	    camera_position: vec3<f32>,   // 128
//	    ambient_color: vec3<f32>,     // 144
//	}                                 // 160 bytes
func ViewUniformsLayout() *pod.Std140Layout {
	return pod.ViewArgsLayout().
		Field("camera_position", pod.KindVec3).
		Field("ambient_color", pod.KindVec3)
}

// ViewUniforms owns the per-frame view uniform buffer for a world whose
// transforms use precision N.
type ViewUniforms[N num.Real] struct {
	Buffer *wgpu.Buffer
	layout *pod.Std140Layout

	camera  gather.CameraGatherer[N]
	ambient gather.AmbientGatherer
}

func NewViewUniforms[N num.Real](device BufferCreator) (*ViewUniforms[N], error) {
	layout := ViewUniformsLayout()
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ViewUniforms",
		Size:  uint64(layout.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create view uniform buffer: %w", err)
	}
	return &ViewUniforms[N]{Buffer: buf, layout: layout}, nil
}

// Frame is one frame's gathered view state before serialization.
type Frame struct {
	Camera  gather.CameraGatherResult
	Ambient pod.Vec3
}

// Gather reads the camera and ambient light from w.
func (u *ViewUniforms[N]) Gather(w gather.WorldReader) (Frame, error) {
	cam, err := u.camera.Gather(w)
	if err != nil {
		return Frame{}, err
	}
	if cam.Source != gather.CameraFromActive {
		gather.LoggerOf(w).Debugf("view uniforms: using %v camera (entity %v)", cam.Source, cam.Entity)
	}
	return Frame{Camera: cam, Ambient: u.ambient.Gather(w)}, nil
}

// Encode serializes f into the ViewUniformsLayout block.
func (u *ViewUniforms[N]) Encode(f Frame) []byte {
	layout := u.layout
	if layout == nil {
		layout = ViewUniformsLayout()
	}
	out := pod.NewStd140Writer(layout)
	out.Mat4("proj", f.Camera.ProjView.Proj)
	out.Mat4("view", f.Camera.ProjView.View)
	out.Vec3("camera_position", f.Camera.CameraPosition)
	out.Vec3("ambient_color", f.Ambient)
	return out.Bytes()
}

// Pack gathers the camera and ambient light from w and serializes them.
func (u *ViewUniforms[N]) Pack(w gather.WorldReader) ([]byte, error) {
	f, err := u.Gather(w)
	if err != nil {
		return nil, err
	}
	return u.Encode(f), nil
}

// Prepare packs the frame's view state and writes it to the buffer. A
// singular camera transform aborts the frame with an error wrapping
// gather.ErrSingularCameraTransform; nothing is written.
func (u *ViewUniforms[N]) Prepare(w gather.WorldReader, queue BufferWriter) error {
	data, err := u.Pack(w)
	if err != nil {
		return fmt.Errorf("prepare view uniforms: %w", err)
	}
	if err := queue.WriteBuffer(u.Buffer, 0, data); err != nil {
		return fmt.Errorf("write view uniforms: %w", err)
	}
	return nil
}

func (u *ViewUniforms[N]) MustPrepare(w gather.WorldReader, queue BufferWriter) {
	if err := u.Prepare(w, queue); err != nil {
		panic(err)
	}
}

func (u *ViewUniforms[N]) Release() {
	if u.Buffer != nil {
		u.Buffer.Release()
		u.Buffer = nil
	}
}
