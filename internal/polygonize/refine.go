package polygonize

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/cellcache"
)

// refineAcrossLODChain corrects for "surface shifting": a vertex
// interpolated at a coarse LOD level sits on the plane the coarse samples
// imply, which can visibly diverge from where the finer grid actually
// crosses zero. Starting from the coarse edge (a,b) with distances
// (da,db), this walks the LOD chain down to level 0, narrowing toward
// whichever half contains the finer sign change, then recomputes t from
// the final pair of sampled values — matching the original library's
// FindBestVertexInLODChain.
func refineAcrossLODChain(cache *cellcache.Cache, level int, a, b mgl32.Vec3, da, db int8) mgl32.Vec3 {
	if level == 0 {
		return lerpPos(a, b, interpT(da, db))
	}

	signOf := func(v int8) int {
		if v < 0 {
			return -1
		}
		return 1
	}
	wantSign := signOf(da)

	for l := level - 1; l >= 0; l-- {
		mid := a.Add(b.Sub(a).Mul(0.5))
		gx, gy, gz := int(mid[0]+0.5), int(mid[1]+0.5), int(mid[2]+0.5)
		v := cache.GetGridValue(l, gx, gy, gz)
		if signOf(v) == wantSign {
			a, da = mid, v
		} else {
			b, db = mid, v
		}
	}
	return lerpPos(a, b, interpT(da, db))
}
