package polygonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoyannk/voxels/internal/cellcache"
	"github.com/stoyannk/voxels/internal/gridstore"
)

func newTestGrid(t *testing.T) *gridstore.Grid {
	t.Helper()
	g, err := gridstore.NewEmpty(16, 16, 16)
	require.NoError(t, err)
	return g
}

func setMaterial(t *testing.T, g *gridstore.Grid, x, y, z int, id, blend uint8) {
	t.Helper()
	b := g.Block(0, 0, 0)
	mat := b.Materials()
	bl := b.Blends()
	idx := gridstore.VoxelIDInBlock(x, y, z)
	mat[idx] = id
	bl[idx] = blend
	b.SetMaterials(mat)
	b.SetBlends(bl)
}

func TestMaterialCache_Level0IsDirectLookup(t *testing.T) {
	g := newTestGrid(t)
	setMaterial(t, g, 3, 4, 5, 7, 42)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	info := mc.Resolve(cache, 0, 3, 4, 5)
	assert.Equal(t, uint8(7), info.ID)
	assert.Equal(t, uint8(42), info.Blend)
}

func TestMaterialCache_Level1MajorityVoteAndBlendAverage(t *testing.T) {
	g := newTestGrid(t)
	// 8 children of the level-1 corner at (0,0,0): 6 say material 3, 2 say
	// material 9, blend values chosen so the average over all 8 is exact.
	coords := [8][3]int{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	ids := [8]uint8{3, 3, 3, 3, 3, 3, 9, 9}
	blends := [8]uint8{8, 8, 8, 8, 8, 8, 8, 8}
	for i, c := range coords {
		setMaterial(t, g, c[0], c[1], c[2], ids[i], blends[i])
	}
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	info := mc.Resolve(cache, 1, 0, 0, 0)
	assert.Equal(t, uint8(3), info.ID, "majority material must win the histogram vote")
	assert.Equal(t, uint8(8), info.Blend)
}

func TestMaterialCache_IgnoresEmptyMaterialInVote(t *testing.T) {
	g := newTestGrid(t)
	// Every voxel in the grid starts at EmptyMaterialID; mark just one
	// child non-empty so the histogram has exactly one candidate.
	setMaterial(t, g, 0, 0, 0, 5, 20)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	info := mc.Resolve(cache, 1, 0, 0, 0)
	assert.Equal(t, uint8(5), info.ID, "the lone non-empty child must win even though 7 siblings are empty")
}

func TestMaterialCache_ApproxSizeBytesGrowsWithResolvedLevels(t *testing.T) {
	g := newTestGrid(t)
	setMaterial(t, g, 0, 0, 0, 5, 20)
	cache := cellcache.New(g)
	mc := NewMaterialCache()

	assert.Equal(t, 0, mc.ApproxSizeBytes(), "a fresh cache has resolved nothing yet")
	mc.Resolve(cache, 1, 0, 0, 0)
	assert.Greater(t, mc.ApproxSizeBytes(), 0, "resolving a level>=1 corner populates the cache")
}
