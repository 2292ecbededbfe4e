package cellcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	blocksX, blocksY, blocksZ int
	ext                       int
	fetches                   int
}

func newFakeSource(bx, by, bz int) *fakeSource {
	return &fakeSource{blocksX: bx, blocksY: by, blocksZ: bz, ext: 16}
}

func (f *fakeSource) BlockExtentsVoxels() int { return f.ext }
func (f *fakeSource) Dimensions() (int, int, int) { return f.blocksX, f.blocksY, f.blocksZ }

func (f *fakeSource) BlockDistances(bx, by, bz int) []int8 {
	f.fetches++
	out := make([]int8, f.ext*f.ext*f.ext)
	for i := range out {
		out[i] = int8(bx + by + bz)
	}
	return out
}

func (f *fakeSource) BlockMaterialBlend(bx, by, bz int) ([]uint8, []uint8) {
	mat := make([]uint8, f.ext*f.ext*f.ext)
	for i := range mat {
		mat[i] = uint8(bx)
	}
	return mat, make([]uint8, f.ext*f.ext*f.ext)
}

func TestGetGridValue_CachesWithinCapacity(t *testing.T) {
	src := newFakeSource(4, 4, 4)
	c := New(src)

	v := c.GetGridValue(0, 17, 1, 1) // block (1,0,0)
	assert.Equal(t, int8(1), v)
	assert.Equal(t, 1, src.fetches)

	// Same block again should hit the cache, not re-fetch.
	_ = c.GetGridValue(0, 18, 2, 1)
	assert.Equal(t, 1, src.fetches)
}

func TestCalculateNeededCoords_ClampsOutOfRange(t *testing.T) {
	src := newFakeSource(2, 2, 2)
	c := New(src)

	bx, by, bz, _, _, _ := c.CalculateNeededCoords(0, -5, -5, -5)
	assert.Equal(t, 0, bx)
	assert.Equal(t, 0, by)
	assert.Equal(t, 0, bz)

	bx, by, bz, _, _, _ = c.CalculateNeededCoords(0, 1000, 1000, 1000)
	assert.Equal(t, 1, bx)
	assert.Equal(t, 1, by)
	assert.Equal(t, 1, bz)
}
