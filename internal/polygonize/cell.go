package polygonize

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/casetables"
	"github.com/stoyannk/voxels/internal/cellcache"
)

// CornerSample is one cube corner's sampled state, positioned in internal
// (Z-up) world-voxel space at the cell's LOD.
type CornerSample struct {
	Pos      mgl32.Vec3
	Distance int8
	Material MaterialInfo
}

// Cell is the 8-corner cube a single case-code lookup resolves, at a given
// LOD level and base voxel coordinate.
type Cell struct {
	Level   int
	Base    [3]int
	Stride  int
	Corners [8]CornerSample
	Code    uint8
}

// BuildCell samples the 8 corners of the cube whose minimum corner is at
// voxel coordinate (baseX,baseY,baseZ) and whose edge length is 2^level
// voxels.
func BuildCell(cache *cellcache.Cache, mc *MaterialCache, level, baseX, baseY, baseZ int) *Cell {
	stride := 1 << uint(level)
	c := &Cell{Level: level, Base: [3]int{baseX, baseY, baseZ}, Stride: stride}
	for i := 0; i < 8; i++ {
		cx, cy, cz := casetables.CornerCoord(i)
		gx, gy, gz := baseX+cx*stride, baseY+cy*stride, baseZ+cz*stride
		dist := cache.GetGridValue(level, gx, gy, gz)
		mat := mc.Resolve(cache, level, gx, gy, gz)
		c.Corners[i] = CornerSample{
			Pos:      mgl32.Vec3{float32(gx), float32(gy), float32(gz)},
			Distance: dist,
			Material: mat,
		}
		if dist < 0 {
			c.Code |= 1 << uint(i)
		}
	}
	return c
}

// IsTrivial reports whether the cell's case code implies no surface
// crossing (all corners share a sign).
func (c *Cell) IsTrivial() bool { return c.Code == 0x00 || c.Code == 0xFF }
