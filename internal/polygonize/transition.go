package polygonize

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/casetables"
	"github.com/stoyannk/voxels/internal/cellcache"
)

// Face identifies one of a block's six sides, in the original library's
// internal enumeration order.
type Face int

const (
	FaceXPos Face = iota
	FaceXNeg
	FaceYPos
	FaceYNeg
	FaceZPos
	FaceZNeg
)

var faceAxis = [6]struct {
	fixed, u, v int
	atMax       bool
	inward      mgl32.Vec3
}{
	FaceXPos: {fixed: 0, u: 1, v: 2, atMax: true, inward: mgl32.Vec3{-1, 0, 0}},
	FaceXNeg: {fixed: 0, u: 1, v: 2, atMax: false, inward: mgl32.Vec3{1, 0, 0}},
	FaceYPos: {fixed: 1, u: 0, v: 2, atMax: true, inward: mgl32.Vec3{0, -1, 0}},
	FaceYNeg: {fixed: 1, u: 0, v: 2, atMax: false, inward: mgl32.Vec3{0, 1, 0}},
	FaceZPos: {fixed: 2, u: 0, v: 1, atMax: true, inward: mgl32.Vec3{0, 0, -1}},
	FaceZNeg: {fixed: 2, u: 0, v: 1, atMax: false, inward: mgl32.Vec3{0, 0, 1}},
}

// negFace and posFace map an axis (0=X,1=Y,2=Z, internal Z-up convention)
// to the Face on its negative and positive side — shared with regular.go's
// boundary-vertex adjacency computation.
var negFace = [3]Face{FaceXNeg, FaceYNeg, FaceZNeg}
var posFace = [3]Face{FaceXPos, FaceYPos, FaceZPos}

// externalFaceBit maps this package's internal (Z-up) Face enumeration to
// the wire format's external adjacency-mask bit. The wire format is Y-up
// while this package is Z-up, so external Y/Z map to this package's Z/Y —
// not a plain low-half/high-half swap.
var externalFaceBit = [6]uint32{
	FaceXPos: 2,
	FaceXNeg: 5,
	FaceYPos: 0,
	FaceYNeg: 3,
	FaceZPos: 1,
	FaceZNeg: 4,
}

// transitionDupOf mirrors the generated table's slot layout: slots 9-12
// duplicate front corners 0, 2, 6 and 8.
var transitionDupOf = [4]int{0, 2, 6, 8}

// GenerateTransitionFace polygonizes the stitching mesh between this
// block's own (finer) resolution and a coarser neighbor across face.
//
// Each transition cell samples a 3x3 grid of front corners (this block's
// own resolution) plus four low-resolution slots that duplicate front
// corners 0, 2, 6 and 8 — this codebase's grid has no independently
// aggregated coarser sample for these corners to diverge from, so "low
// resolution" here means "this corner, as seen from the coarser
// neighbor's side", not a differently-valued sample (see DESIGN.md). The
// 9-bit case code is built only from the 9 front corners via the published
// per-corner coefficients; the duplicate slots exist purely so the
// generated transition table's topology can flag which vertices sit
// against the coarser neighbor. Those vertices keep an exact on-plane
// primary position (satisfying the face-plane invariant) and carry the
// TRANSITION_CELL_COEFF inward nudge on their secondary position instead,
// matching how regular.go already treats its own boundary vertices.
func GenerateTransitionFace(cache *cellcache.Cache, mc *MaterialCache, level int, blockBaseX, blockBaseY, blockBaseZ, cellsPerSide int, face Face) *Mesh {
	mesh := &Mesh{}
	reuse := make(map[edgeKey]uint32)
	stride := 1 << uint(level)
	ax := faceAxis[face]

	base := [3]int{blockBaseX, blockBaseY, blockBaseZ}
	fixedCoord := base[ax.fixed]
	if ax.atMax {
		fixedCoord += cellsPerSide * stride
	}

	sampleFront := func(u, v int) CornerSample {
		coord := [3]int{}
		coord[ax.fixed] = fixedCoord
		coord[ax.u] = base[ax.u] + u*stride
		coord[ax.v] = base[ax.v] + v*stride
		dist := cache.GetGridValue(level, coord[0], coord[1], coord[2])
		mat := mc.Resolve(cache, level, coord[0], coord[1], coord[2])
		return CornerSample{
			Pos:      mgl32.Vec3{float32(coord[0]), float32(coord[1]), float32(coord[2])},
			Distance: dist,
			Material: mat,
		}
	}

	cellsPerAxis := cellsPerSide / 2
	for tv := 0; tv < cellsPerAxis; tv++ {
		for tu := 0; tu < cellsPerAxis; tu++ {
			baseU, baseV := tu*2, tv*2
			var front [9]CornerSample
			for j := 0; j <= 2; j++ {
				for i := 0; i <= 2; i++ {
					front[j*3+i] = sampleFront(baseU+i, baseV+j)
				}
			}
			polygonizeTransitionCell(mesh, reuse, stride, ax.inward, face, front)
		}
	}
	return mesh
}

// slotSample resolves one of the transition cell's 13 sample slots: 0-8 are
// the front corners directly, 9-12 duplicate front corner 0, 2, 6 or 8.
func slotSample(front [9]CornerSample, slot int) CornerSample {
	if slot < 9 {
		return front[slot]
	}
	return front[transitionDupOf[slot-9]]
}

// polygonizeTransitionCell builds one 9-bit-case transition cell from a 3x3
// front sample patch, looks up its triangulation via the generated
// transition table, and appends resolved vertices and triangles to mesh.
func polygonizeTransitionCell(mesh *Mesh, reuse map[edgeKey]uint32, stride int, inward mgl32.Vec3, face Face, front [9]CornerSample) {
	var code uint16
	for i := 0; i < 9; i++ {
		if front[i].Distance < 0 {
			code |= casetables.TransitionCornerCoeff[i]
		}
	}
	if code == 0 || code == 511 {
		return
	}

	data := casetables.TransitionCell(code)
	vertIdx := make([]uint32, len(data.VertexEdges))
	for i, pair := range data.VertexEdges {
		vertIdx[i] = resolveTransitionVertex(mesh, reuse, stride, inward, face, front, pair[0], pair[1])
	}

	// Transition-mesh indices are not passed through the degenerate-
	// triangle filter: the specification preserves this asymmetry from
	// the original library, which applies the area-epsilon filter only to
	// the regular mesh. Per-face winding follows the alternating
	// reverseWinding pattern (0,1,0,1,0,1 over FaceXPos..FaceZNeg) so
	// antipodal faces stay consistently outward-facing.
	reverseWinding := face%2 == 1
	for _, tri := range data.Triangles {
		i0, i1, i2 := vertIdx[tri[0]], vertIdx[tri[1]], vertIdx[tri[2]]
		if reverseWinding {
			i1, i2 = i2, i1
		}
		mesh.Indices = append(mesh.Indices, i0, i1, i2)
	}
}

func resolveTransitionVertex(mesh *Mesh, reuse map[edgeKey]uint32, stride int, inward mgl32.Vec3, face Face, front [9]CornerSample, a, b int) uint32 {
	sa, sb := slotSample(front, a), slotSample(front, b)

	key := makeEdgeKey(sa.Pos, sb.Pos)
	if idx, ok := reuse[key]; ok {
		return idx
	}

	t := interpT(sa.Distance, sb.Distance)
	pos := lerpPos(sa.Pos, sb.Pos, t)
	mat := sa.Material
	if t > fixedPointScale/2 {
		mat = sb.Material
	}

	v := Vertex{
		Pos:      pos,
		Normal:   normalizeFixZero(sa.Pos.Sub(sb.Pos)),
		Material: mat,
	}
	if a >= 9 || b >= 9 {
		v.OnBoundary = true
		v.Adjacency = uint32(1) << externalFaceBit[face]
		v.Secondary = accumulateTransitionDelta(pos, inward, stride)
	}

	idx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, v)
	reuse[key] = idx
	return idx
}
