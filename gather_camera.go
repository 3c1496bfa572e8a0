package gather

import (
	"errors"
	"fmt"

	"github.com/gekko3d/gather/num"
	"github.com/gekko3d/gather/pod"
)

// ErrSingularCameraTransform means the selected camera's world transform has
// no inverse, so no view matrix exists for it.
var ErrSingularCameraTransform = errors.New("camera transform is not invertible")

// CameraSource records which rule picked the camera.
type CameraSource int

const (
	// CameraFromActive is the entity named by the ActiveCamera resource.
	CameraFromActive CameraSource = iota
	// CameraFromQuery is the lowest-id entity with Camera and Transform.
	CameraFromQuery
	// CameraFromDefault is DefaultCamera at the origin.
	CameraFromDefault
)

func (s CameraSource) String() string {
	switch s {
	case CameraFromActive:
		return "active"
	case CameraFromQuery:
		return "query"
	case CameraFromDefault:
		return "default"
	default:
		return fmt.Sprintf("CameraSource(%d)", int(s))
	}
}

type CameraGatherResult struct {
	CameraPosition pod.Vec3
	ProjView       pod.Std140ViewArgs

	Source CameraSource
	// Entity is the selected camera entity; zero for CameraFromDefault.
	Entity EntityId
}

// CameraGatherer gathers camera state for worlds storing transforms in
// precision N.
type CameraGatherer[N num.Real] struct{}

func (CameraGatherer[N]) Gather(r WorldReader) (CameraGatherResult, error) {
	return GatherCamera[N](r)
}

func (CameraGatherer[N]) MustGather(r WorldReader) CameraGatherResult {
	return MustGatherCamera[N](r)
}

// GatherCamera picks the camera to render with and packs its projection and
// view matrices for upload. The pick is, in order: the ActiveCamera entity if
// it has a Camera (identity transform when it has no Transform), the
// lowest-id entity with both Camera and Transform[N], then DefaultCamera at
// the origin.
//
// The only failure is a non-invertible camera transform.
func GatherCamera[N num.Real](r WorldReader) (CameraGatherResult, error) {
	camera, transform, source, entity := selectCamera[N](r)

	global := transform.GlobalMatrix()
	inv, err := global.Inverse()
	if err != nil {
		return CameraGatherResult{}, fmt.Errorf("%w: entity %v (%v): %w", ErrSingularCameraTransform, entity, source, err)
	}

	view := num.Mat4To32(inv)
	return CameraGatherResult{
		CameraPosition: pod.Vec3From(num.Vec3To32(global.Col3(3))),
		ProjView: pod.ViewArgs{
			Proj: pod.Mat4From(camera.Proj),
			View: pod.Mat4From(view),
		}.Std140(),
		Source: source,
		Entity: entity,
	}, nil
}

// MustGatherCamera is GatherCamera that panics on a singular transform.
func MustGatherCamera[N num.Real](r WorldReader) CameraGatherResult {
	res, err := GatherCamera[N](r)
	if err != nil {
		panic(err)
	}
	return res
}

// selectCamera returns copies, so results never alias world storage.
func selectCamera[N num.Real](r WorldReader) (Camera, Transform[N], CameraSource, EntityId) {
	if active, ok := GetResource[ActiveCamera](r); ok {
		if camera, ok := GetComponent[Camera](r, active.Entity); ok {
			if tr, ok := GetComponent[Transform[N]](r, active.Entity); ok {
				return *camera, *tr, CameraFromActive, active.Entity
			}
			return *camera, IdentityTransform[N](), CameraFromActive, active.Entity
		}
	}

	if eid, camera, tr, ok := MakeQuery2[Camera, Transform[N]](r).First(); ok {
		return *camera, *tr, CameraFromQuery, eid
	}

	return DefaultCamera(), IdentityTransform[N](), CameraFromDefault, 0
}
