package gather

import (
	"testing"

	"github.com/gekko3d/gather/pod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherAmbient(t *testing.T) {
	w := NewWorld()
	assert.Equal(t, pod.Vec3{0, 0, 0}, GatherAmbient(w))

	w.AddResources(NewAmbientColor(0.2, 0.4, 0.6, 1.0))
	assert.Equal(t, pod.Vec3{0.2, 0.4, 0.6}, AmbientGatherer{}.Gather(w))
}

func TestGatherAmbient_NoClamping(t *testing.T) {
	w := NewWorld()
	w.AddResources(NewAmbientColor(1.5, -0.25, 0, 0))
	assert.Equal(t, pod.Vec3{1.5, -0.25, 0}, GatherAmbient(w))
}

func TestParseAmbientColor(t *testing.T) {
	c, err := ParseAmbientColor("#336699")
	require.NoError(t, err)

	got := ambientOf(c)
	assert.InDelta(t, 0.2, got[0], 1e-6)
	assert.InDelta(t, 0.4, got[1], 1e-6)
	assert.InDelta(t, 0.6, got[2], 1e-6)

	_, err = ParseAmbientColor("not-a-colour")
	assert.Error(t, err)
}

func ambientOf(c *AmbientColor) pod.Vec3 {
	w := NewWorld()
	w.AddResources(c)
	return GatherAmbient(w)
}
