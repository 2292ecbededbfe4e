package polygonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoyannk/voxels/internal/gridstore"
)

func TestLevelCount(t *testing.T) {
	assert.Equal(t, 0, LevelCount(0))
	assert.Equal(t, 1, LevelCount(1))
	assert.Equal(t, 3, LevelCount(4)) // log2(4)+1
	assert.Equal(t, 6, LevelCount(32))
}

func TestAreBlockAndNeighborsEmpty_AllEmptyGrid(t *testing.T) {
	g, err := gridstore.NewEmpty(48, 48, 48) // 3x3x3 blocks, every block starts empty
	require.NoError(t, err)
	assert.True(t, AreBlockAndNeighborsEmpty(g, 1, 1, 1), "interior block with all-empty neighbors is empty")
}

func TestAreBlockAndNeighborsEmpty_NonEmptyNeighborBreaksIt(t *testing.T) {
	g, err := gridstore.NewEmpty(48, 48, 48)
	require.NoError(t, err)
	raw := make([]int8, gridstore.BlockSampleCount)
	for i := range raw {
		raw[i] = -1
	}
	g.Block(0, 1, 1).SetDistances(raw) // a neighbor of block (1,1,1), now non-empty
	assert.False(t, AreBlockAndNeighborsEmpty(g, 1, 1, 1))
}

func TestGenerateBlockListForLevel_CoarserLevelsHaveFewerBlocks(t *testing.T) {
	g, err := gridstore.NewEmpty(64, 64, 64) // 4x4x4 level-0 blocks
	require.NoError(t, err)

	level0 := GenerateBlockListForLevel(g, 0)
	level1 := GenerateBlockListForLevel(g, 1)
	level2 := GenerateBlockListForLevel(g, 2)

	assert.Len(t, level0, 4*4*4)
	assert.Len(t, level1, 2*2*2)
	assert.Len(t, level2, 1)
}

func TestRunLevel_SkipsIsolatedEmptyBlocksAtLevelZero(t *testing.T) {
	g, err := gridstore.NewEmpty(32, 32, 32) // 2x2x2 blocks, all empty
	require.NoError(t, err)
	mc := NewMaterialCache()

	results, err := RunLevel(g, mc, 0, gridstore.BlockExtent, 2)
	require.NoError(t, err)
	assert.Empty(t, results, "an entirely empty grid must produce no geometry at any level")
}

// diagonalGrid32 builds a 32^3 grid (2x2x2 level-0 blocks) split by the
// plane x+y+z == threshold: negative on one side, positive on the other,
// matching the original library's diagonal-plane regression scenario.
func diagonalGrid32(t *testing.T, threshold int) *gridstore.Grid {
	t.Helper()
	g, err := gridstore.NewEmpty(32, 32, 32)
	require.NoError(t, err)
	for bz := 0; bz < 2; bz++ {
		for by := 0; by < 2; by++ {
			for bx := 0; bx < 2; bx++ {
				raw := make([]int8, gridstore.BlockSampleCount)
				for z := 0; z < 16; z++ {
					for y := 0; y < 16; y++ {
						for x := 0; x < 16; x++ {
							gx, gy, gz := bx*16+x, by*16+y, bz*16+z
							v := int8(2)
							if gx+gy+gz < threshold {
								v = -2
							}
							raw[gridstore.VoxelIDInBlock(x, y, z)] = v
						}
					}
				}
				g.Block(bx, by, bz).SetDistances(raw)
			}
		}
	}
	return g
}

// E2E-3: a diagonal plane through a 32^3, 2x2x2-block grid. The plane
// passes through the grid center and crosses the interior of seven level-0
// blocks, so their regular meshes are non-empty; block (1,1,1) only touches
// it at its minimum corner, whose sample (x+y+z == 48) is non-negative like
// the rest of that block, so it yields no geometry. Transition meshes, which only ever
// sit on a block's outer grid-boundary faces, appear solely on the faces
// the plane actually intersects.
func TestRunLevel_DiagonalPlaneProducesBoundaryTransitionsWhereItCrossesThem(t *testing.T) {
	g := diagonalGrid32(t, 48)
	mc := NewMaterialCache()

	results, err := RunLevel(g, mc, 0, gridstore.BlockExtent, 2)
	require.NoError(t, err)
	require.Len(t, results, 7, "the diagonal plane crosses the interior of every level-0 block except (1,1,1)")

	sawTransition := false
	for _, r := range results {
		require.NotEmpty(t, r.Mesh.Indices)
		for f := Face(0); f < 6; f++ {
			if !r.HasTransitionFace[f] {
				continue
			}
			require.True(t, isOuterBoundaryFace(g, r.Coord, 0, f),
				"a transition face must sit on the grid's outer boundary")
			require.NotEmpty(t, r.TransitionMeshes[f].Indices)
			sawTransition = true
		}
	}
	assert.True(t, sawTransition, "the plane must cross at least one outer boundary face")
}

func TestRunLevel_ProducesGeometryForACrossingBlock(t *testing.T) {
	g, err := gridstore.NewEmpty(32, 32, 32) // 2x2x2 blocks
	require.NoError(t, err)
	raw := make([]int8, gridstore.BlockSampleCount)
	for z := 0; z < 16; z++ {
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				v := int8(2)
				if x < 8 {
					v = -2
				}
				raw[gridstore.VoxelIDInBlock(x, y, z)] = v
			}
		}
	}
	g.Block(0, 0, 0).SetDistances(raw)
	mc := NewMaterialCache()

	results, err := RunLevel(g, mc, 0, gridstore.BlockExtent, 2)
	require.NoError(t, err)
	require.Len(t, results, 1, "only the crossing block should produce a result")
	assert.NotEmpty(t, results[0].Mesh.Indices)
}
