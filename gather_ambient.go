package gather

import (
	"github.com/gekko3d/gather/pod"
)

type AmbientGatherer struct{}

func (AmbientGatherer) Gather(r WorldReader) pod.Vec3 {
	return GatherAmbient(r)
}

// GatherAmbient returns the AmbientColor resource's RGB, or black when the
// world has none. Alpha is dropped; channels are not clamped.
func GatherAmbient(r WorldReader) pod.Vec3 {
	ambient, ok := GetResource[AmbientColor](r)
	if !ok {
		return pod.Vec3{0, 0, 0}
	}
	c := ambient.Color
	return pod.Vec3{float32(c.R), float32(c.G), float32(c.B)}
}
