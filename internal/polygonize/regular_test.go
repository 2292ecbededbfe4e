package polygonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoyannk/voxels/internal/cellcache"
	"github.com/stoyannk/voxels/internal/gridstore"
)

// planarGrid returns a 16^3 grid with a single flat boundary: every voxel
// with x < splitX is "inside" (negative distance), every voxel at or past
// splitX is "outside" (positive), so the block contains exactly one
// continuous sheet of surface, crossing halfway between x=splitX-1 and
// x=splitX (the samples there are -2 and +2).
func planarGrid(t *testing.T, splitX int) *gridstore.Grid {
	t.Helper()
	g, err := gridstore.NewEmpty(16, 16, 16)
	require.NoError(t, err)
	raw := make([]int8, gridstore.BlockSampleCount)
	for z := 0; z < 16; z++ {
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				v := int8(2)
				if x < splitX {
					v = -2
				}
				raw[gridstore.VoxelIDInBlock(x, y, z)] = v
			}
		}
	}
	g.Block(0, 0, 0).SetDistances(raw)
	return g
}

func TestPolygonizeBlock_FlatBoundaryProducesSurface(t *testing.T) {
	g := planarGrid(t, 8)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	mesh, stats := PolygonizeBlock(cache, mc, 0, 0, 0, 0, 16)
	require.NotEmpty(t, mesh.Indices, "a grid with a sign-crossing plane must produce triangles")
	assert.Zero(t, len(mesh.Indices)%3, "indices must form whole triangles")
	assert.Positive(t, stats.NonTrivialCells)
	assert.Equal(t, 16*16*16-stats.NonTrivialCells, stats.TrivialCells)

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 7.5, v.Pos[0], 1e-3, "every surface vertex must sit on the x=7.5 crossing plane")
	}
}

func TestPolygonizeBlock_ReusesVerticesAcrossAdjacentCells(t *testing.T) {
	g := planarGrid(t, 8)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	mesh, _ := PolygonizeBlock(cache, mc, 0, 0, 0, 0, 16)
	// A flat 16x16 crossing plane has at most (16+1)*(16+1) distinct grid
	// points on it; without reuse, each of the ~16*16*2 triangles would
	// mint its own 3 vertices (thousands). Reuse must keep the count near
	// the distinct-point bound instead.
	assert.LessOrEqual(t, len(mesh.Vertices), 17*17, "shared edges across adjacent cells must be deduplicated")
}

func TestPolygonizeBlock_UniformBlockProducesNoGeometry(t *testing.T) {
	g := planarGrid(t, 0) // splitX=0: every voxel is outside, no crossing
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	mesh, stats := PolygonizeBlock(cache, mc, 0, 0, 0, 0, 16)
	assert.Empty(t, mesh.Indices)
	assert.Empty(t, mesh.Vertices)
	assert.Equal(t, 16*16*16, stats.TrivialCells)
}
