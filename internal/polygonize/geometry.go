package polygonize

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// fixedPointScale is the denominator for the 8.8 fixed-point interpolation
// parameter t (0..256) and the 1/256-voxel position quantization the
// specification requires of all output vertex positions.
const fixedPointScale = 256

// interpT computes the 8.8 fixed-point crossing parameter between two
// signed distance samples: 0 means "at a", fixedPointScale means "at b".
func interpT(da, db int8) float32 {
	if da == db {
		return fixedPointScale / 2
	}
	return fixedPointScale * float32(da) / (float32(da) - float32(db))
}

// quantize rounds v to the nearest 1/256 voxel, matching the
// specification's output position quantization.
func quantize(v float32) float32 {
	return float32(math.Round(float64(v)*fixedPointScale)) / fixedPointScale
}

func quantizeVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{quantize(v[0]), quantize(v[1]), quantize(v[2])}
}

// lerpPos interpolates between corner positions a and b using an 8.8
// fixed-point parameter t in [0,256], then quantizes the result.
func lerpPos(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	frac := t / fixedPointScale
	return quantizeVec(a.Add(b.Sub(a).Mul(frac)))
}

// calcNormal estimates the surface normal at a cell via a central
// difference of its corner distances along each axis, then normalizes the
// result (falling back to +Z when the gradient is degenerate).
func calcNormal(c *Cell) mgl32.Vec3 {
	d := func(i int) float32 { return float32(c.Corners[i].Distance) }
	gx := (d(1) - d(0)) + (d(3) - d(2)) + (d(5) - d(4)) + (d(7) - d(6))
	gy := (d(2) - d(0)) + (d(3) - d(1)) + (d(6) - d(4)) + (d(7) - d(5))
	gz := (d(4) - d(0)) + (d(5) - d(1)) + (d(6) - d(2)) + (d(7) - d(3))
	n := mgl32.Vec3{gx, gy, gz}
	return normalizeFixZero(n)
}

// normalizeFixZero normalizes n, or returns +Z when n is (near) the zero
// vector, matching the original library's normalizeFixZero fallback for
// degenerate gradients.
func normalizeFixZero(n mgl32.Vec3) mgl32.Vec3 {
	lenSq := n.Dot(n)
	if lenSq < 1e-12 {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Mul(1 / float32(math.Sqrt(float64(lenSq))))
}

// isDegenerate reports whether the triangle (a,b,c) has near-zero area,
// via the squared length of its edge cross product against a fixed 1e-12
// threshold. Matches the original library's regular-mesh degenerate filter;
// the specification does not apply this filter to transition-mesh indices,
// and neither does this package (see transition.go).
func isDegenerate(a, b, c mgl32.Vec3) bool {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	cr := e1.Cross(e2)
	return cr.Dot(cr) < 1e-12
}

// edgeKey canonically identifies a grid edge by its two endpoint world
// coordinates (order-independent), so any two cells that compute the same
// geometric edge land on the same cache key regardless of which cell's
// local corner order produced it.
type edgeKey struct {
	a, b [3]int32
}

func makeEdgeKey(a, b mgl32.Vec3) edgeKey {
	pa := [3]int32{int32(a[0]), int32(a[1]), int32(a[2])}
	pb := [3]int32{int32(b[0]), int32(b[1]), int32(b[2])}
	if vecLess(pb, pa) {
		pa, pb = pb, pa
	}
	return edgeKey{a: pa, b: pb}
}

func vecLess(a, b [3]int32) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// accumulateTransitionDelta returns the inward shift applied to a
// boundary-adjacent vertex's secondary position, matching the original's
// TRANSITION_CELL_COEFF of 0.25 block-interior nudge used to keep regular
// and transition meshes from visibly separating at LOD boundaries.
const transitionCellCoeff = 0.25

func accumulateTransitionDelta(pos mgl32.Vec3, inward mgl32.Vec3, stride int) mgl32.Vec3 {
	return quantizeVec(pos.Add(inward.Mul(transitionCellCoeff * float32(stride))))
}
