// Package cellcache implements the per-worker block cache the polygonizer
// uses to resolve point queries against the compressed grid without
// re-decompressing a block on every corner lookup. Each polygonization
// goroutine owns one Cache; caches are never shared across goroutines,
// matching the original library's thread-id-keyed GridBlocksCache registry.
package cellcache

import "github.com/stoyannk/voxels/internal/gridstore"

// distanceSlots/materialSlots mirror the original's fixed 8-way
// direct-mapped cache depth: enough to hold a cell's worth of neighboring
// blocks without growing unbounded per worker.
const (
	distanceSlots = 8
	materialSlots = 8
)

// Source is the subset of gridstore.Grid the cache needs; accepting an
// interface keeps cellcache independent of gridstore's concrete Grid type
// for testing.
type Source interface {
	BlockExtentsVoxels() int
	Dimensions() (blocksX, blocksY, blocksZ int)
	BlockDistances(bx, by, bz int) []int8
	BlockMaterialBlend(bx, by, bz int) (material, blend []uint8)
}

type distanceEntry struct {
	valid          bool
	level, blockID int
	data           []int8
}

type materialEntry struct {
	valid   bool
	blockID int
	mat     []uint8
	blend   []uint8
}

// Cache is a single worker's direct-mapped view over Source.
type Cache struct {
	src Source

	distSlots [distanceSlots]distanceEntry
	distNext  int

	matSlots [materialSlots]materialEntry
	matNext  int
}

// New returns a fresh cache over src. Callers should create one Cache per
// polygonization worker goroutine and never share it.
func New(src Source) *Cache {
	return &Cache{src: src}
}

func blockID(bx, by, bz, blocksX, blocksY int) int {
	return bx + by*blocksX + bz*blocksX*blocksY
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CalculateNeededCoords maps a global voxel coordinate to the block it
// lives in and its offset within that block, after clamping the coordinate
// to the grid's valid voxel range (a query past the last voxel reads the
// last voxel). The clamp applies unconditionally, including to coordinates
// that are already interior to the grid — this matches the original's
// neighbor-lookup behavior used by the 27-cell emptiness check, which the
// specification preserves as-is rather than special-casing interior
// coordinates. level does not change the mapping: every level addresses
// the same stored voxels.
func (c *Cache) CalculateNeededCoords(level, gx, gy, gz int) (bx, by, bz, lx, ly, lz int) {
	blocksX, blocksY, blocksZ := c.src.Dimensions()
	ext := c.src.BlockExtentsVoxels()

	gx = clamp(gx, 0, blocksX*ext-1)
	gy = clamp(gy, 0, blocksY*ext-1)
	gz = clamp(gz, 0, blocksZ*ext-1)

	bx, lx = gx/ext, gx%ext
	by, ly = gy/ext, gy%ext
	bz, lz = gz/ext, gz%ext
	return
}

// GetGridValue returns the distance sample at global voxel coordinates
// (gx,gy,gz); level only keys the cache slot. The request is served from
// the cache's round-robin distance slots, falling back to the underlying
// Source on a miss.
func (c *Cache) GetGridValue(level, gx, gy, gz int) int8 {
	blocksX, blocksY, _ := c.src.Dimensions()
	bx, by, bz, lx, ly, lz := c.CalculateNeededCoords(level, gx, gy, gz)
	id := blockID(bx, by, bz, blocksX, blocksY)

	for i := range c.distSlots {
		s := &c.distSlots[i]
		if s.valid && s.level == level && s.blockID == id {
			return s.data[gridstore.VoxelIDInBlock(lx, ly, lz)]
		}
	}

	data := c.src.BlockDistances(bx, by, bz)
	slot := &c.distSlots[c.distNext]
	c.distNext = (c.distNext + 1) % distanceSlots
	slot.valid = true
	slot.level = level
	slot.blockID = id
	slot.data = data
	return data[gridstore.VoxelIDInBlock(lx, ly, lz)]
}

// GetMaterialGridValue returns the (material, blend) pair at level-0 global
// coordinates (gx,gy,gz), servicing the request from the cache's
// round-robin material slots.
func (c *Cache) GetMaterialGridValue(gx, gy, gz int) (uint8, uint8) {
	blocksX, blocksY, _ := c.src.Dimensions()
	bx, by, bz, lx, ly, lz := c.CalculateNeededCoords(0, gx, gy, gz)
	id := blockID(bx, by, bz, blocksX, blocksY)

	for i := range c.matSlots {
		s := &c.matSlots[i]
		if s.valid && s.blockID == id {
			idx := gridstore.VoxelIDInBlock(lx, ly, lz)
			return s.mat[idx], s.blend[idx]
		}
	}

	mat, blend := c.src.BlockMaterialBlend(bx, by, bz)
	slot := &c.matSlots[c.matNext]
	c.matNext = (c.matNext + 1) % materialSlots
	slot.valid = true
	slot.blockID = id
	slot.mat = mat
	slot.blend = blend
	idx := gridstore.VoxelIDInBlock(lx, ly, lz)
	return mat[idx], blend[idx]
}
