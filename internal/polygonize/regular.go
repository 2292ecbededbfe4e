package polygonize

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/casetables"
	"github.com/stoyannk/voxels/internal/cellcache"
)

// Vertex is one output mesh vertex. Secondary, Adjacency and OnBoundary are
// only meaningful for vertices produced near a block boundary, where the
// transition mesh needs a shifted "secondary" position and a bitmask of
// which faces it borders to stitch cleanly against a coarser neighbor.
type Vertex struct {
	Pos        mgl32.Vec3
	Normal     mgl32.Vec3
	Material   MaterialInfo
	Secondary  mgl32.Vec3
	Adjacency  uint32
	OnBoundary bool
}

// Mesh is a regular-cell (or, from transition.go, transition-cell) output:
// a vertex pool plus triangle indices into it.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// CellStats accumulates per-cell run counters a PolygonizeBlock call
// observed: the trivial/non-trivial split, a histogram over the 256
// possible regular case codes, and how many generated triangles the
// degenerate-area filter discarded.
type CellStats struct {
	TrivialCells               int
	NonTrivialCells            int
	CaseHistogram              [256]int
	DegenerateTrianglesRemoved int
}

// Add accumulates o into s.
func (s *CellStats) Add(o CellStats) {
	s.TrivialCells += o.TrivialCells
	s.NonTrivialCells += o.NonTrivialCells
	s.DegenerateTrianglesRemoved += o.DegenerateTrianglesRemoved
	for i, n := range o.CaseHistogram {
		s.CaseHistogram[i] += n
	}
}

// PolygonizeBlock walks every cell of a BlockExtent-sided block at the
// given LOD level and case-code-polygonizes each non-trivial one, reusing
// vertices across cells within the block via a geometric edge key so
// adjacent cells agree on shared-edge vertices exactly once.
func PolygonizeBlock(cache *cellcache.Cache, mc *MaterialCache, level int, blockBaseX, blockBaseY, blockBaseZ, cellsPerSide int) (*Mesh, CellStats) {
	mesh := &Mesh{}
	var stats CellStats
	reuse := make(map[edgeKey]uint32)
	stride := 1 << uint(level)

	minX, minY, minZ := blockBaseX, blockBaseY, blockBaseZ
	maxX := blockBaseX + cellsPerSide*stride
	maxY := blockBaseY + cellsPerSide*stride
	maxZ := blockBaseZ + cellsPerSide*stride

	// boundaryAdjacency reports, for a position on the block's perimeter,
	// which external faces it touches (more than one at an edge or
	// corner) and the combined inward direction away from them.
	boundaryAdjacency := func(p mgl32.Vec3) (mask uint32, inward mgl32.Vec3, onBoundary bool) {
		minC := [3]int{minX, minY, minZ}
		maxC := [3]int{maxX, maxY, maxZ}
		for axis := 0; axis < 3; axis++ {
			if int(p[axis]) == minC[axis] {
				mask |= uint32(1) << externalFaceBit[negFace[axis]]
				inward[axis] = 1
				onBoundary = true
			} else if int(p[axis]) == maxC[axis] {
				mask |= uint32(1) << externalFaceBit[posFace[axis]]
				inward[axis] = -1
				onBoundary = true
			}
		}
		return mask, inward, onBoundary
	}

	resolveVertex := func(cell *Cell, e casetables.EdgeID) uint32 {
		a, b := casetables.EdgeCorners(int(e))
		ca, cb := cell.Corners[a], cell.Corners[b]

		reusable := casetables.IsReusable(e)
		var key edgeKey
		if reusable {
			key = makeEdgeKey(ca.Pos, cb.Pos)
			if idx, ok := reuse[key]; ok {
				return idx
			}
		}

		var pos mgl32.Vec3
		if cell.Level > 0 {
			pos = refineAcrossLODChain(cache, cell.Level, ca.Pos, cb.Pos, ca.Distance, cb.Distance)
		} else {
			pos = lerpPos(ca.Pos, cb.Pos, interpT(ca.Distance, cb.Distance))
		}

		mat := ca.Material
		if interpT(ca.Distance, cb.Distance) > fixedPointScale/2 {
			mat = cb.Material
		}

		v := Vertex{
			Pos:      pos,
			Normal:   calcNormal(cell),
			Material: mat,
		}
		if mask, inward, boundary := boundaryAdjacency(pos); boundary {
			v.OnBoundary = true
			v.Adjacency = mask
			v.Secondary = accumulateTransitionDelta(pos, inward, stride)
		}

		idx := uint32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices, v)
		if reusable {
			reuse[key] = idx
		}
		return idx
	}

	for z := 0; z < cellsPerSide; z++ {
		for y := 0; y < cellsPerSide; y++ {
			for x := 0; x < cellsPerSide; x++ {
				cell := BuildCell(cache, mc, level,
					blockBaseX+x*stride, blockBaseY+y*stride, blockBaseZ+z*stride)
				if cell.IsTrivial() {
					stats.TrivialCells++
					continue
				}
				stats.NonTrivialCells++
				stats.CaseHistogram[cell.Code]++
				data := casetables.RegularCell(cell.Code)
				vertIdx := make([]uint32, len(data.VertexEdges))
				for i, e := range data.VertexEdges {
					vertIdx[i] = resolveVertex(cell, e)
				}
				for _, tri := range data.Triangles {
					i0, i1, i2 := vertIdx[tri[0]], vertIdx[tri[1]], vertIdx[tri[2]]
					if isDegenerate(mesh.Vertices[i0].Pos, mesh.Vertices[i1].Pos, mesh.Vertices[i2].Pos) {
						stats.DegenerateTrianglesRemoved++
						continue
					}
					mesh.Indices = append(mesh.Indices, i0, i1, i2)
				}
			}
		}
	}
	return mesh, stats
}
