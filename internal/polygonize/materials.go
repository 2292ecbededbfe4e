package polygonize

import (
	"sync"

	"github.com/stoyannk/voxels/internal/cellcache"
)

// EmptyMaterialID mirrors gridstore.EmptyMaterial without importing
// gridstore, since polygonize only needs the sentinel value.
const EmptyMaterialID uint8 = 255

// MaterialInfo is a resolved (material id, blend) pair attached to a cell
// corner or output vertex.
type MaterialInfo struct {
	ID    uint8
	Blend uint8
}

type materialKey struct {
	level, x, y, z int
}

// MaterialCache resolves a corner's material at any LOD level: level 0 is a
// direct grid lookup, level>=1 is a cached majority-vote histogram over the
// 8 level-(n-1) children at that corner, matching the original library's
// two-tier (direct + histogram) material resolution.
type MaterialCache struct {
	mu       sync.Mutex
	resolved map[materialKey]MaterialInfo
}

// NewMaterialCache returns an empty cache. Execute creates a fresh one on
// every call and keeps it on the returned PolygonMap for size accounting;
// a later Execute call, incremental or not, does not reuse it.
func NewMaterialCache() *MaterialCache {
	return &MaterialCache{resolved: make(map[materialKey]MaterialInfo)}
}

func (mc *MaterialCache) Resolve(cache *cellcache.Cache, level, gx, gy, gz int) MaterialInfo {
	if level == 0 {
		mat, blend := cache.GetMaterialGridValue(gx, gy, gz)
		return MaterialInfo{ID: mat, Blend: blend}
	}

	key := materialKey{level, gx, gy, gz}
	mc.mu.Lock()
	if v, ok := mc.resolved[key]; ok {
		mc.mu.Unlock()
		return v
	}
	mc.mu.Unlock()

	childStride := 1 << uint(level-1)
	counts := make(map[uint8]int, 2)
	blendSum, blendCount := 0, 0
	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				child := mc.Resolve(cache, level-1, gx+dx*childStride, gy+dy*childStride, gz+dz*childStride)
				if child.ID != EmptyMaterialID {
					counts[child.ID]++
					blendSum += int(child.Blend)
					blendCount++
				}
			}
		}
	}

	result := MaterialInfo{ID: EmptyMaterialID}
	bestCount := -1
	for id, n := range counts {
		if n > bestCount || (n == bestCount && id < result.ID) {
			result.ID, bestCount = id, n
		}
	}
	if blendCount > 0 {
		result.Blend = uint8(blendSum / blendCount)
	}

	mc.mu.Lock()
	mc.resolved[key] = result
	mc.mu.Unlock()
	return result
}

// ApproxSizeBytes estimates the cache's memory use: one materialKey (4
// ints) plus one MaterialInfo (2 bytes) per resolved entry.
func (mc *MaterialCache) ApproxSizeBytes() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	const entrySize = 8*4 + 2
	return len(mc.resolved) * entrySize
}
