package polygonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoyannk/voxels/internal/cellcache"
)

func TestGenerateTransitionFace_FlatBoundaryProducesSurface(t *testing.T) {
	g := planarGrid(t, 8)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	mesh := GenerateTransitionFace(cache, mc, 0, 0, 0, 0, 16, FaceZPos)
	require.NotEmpty(t, mesh.Indices, "a block whose regular mesh crosses the plane must also produce a transition face")
	assert.Zero(t, len(mesh.Indices)%3)
}

func TestGenerateTransitionFace_UniformBlockProducesNoGeometry(t *testing.T) {
	g := planarGrid(t, 0) // fully outside, no crossing anywhere
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	mesh := GenerateTransitionFace(cache, mc, 0, 0, 0, 0, 16, FaceZPos)
	assert.Empty(t, mesh.Indices)
}
