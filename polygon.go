package voxels

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/polygonize"
)

// Vertex is one output mesh vertex, in external (Y-up) world-voxel space.
//
// SecondaryPosition is only meaningful for vertices adjacent to a coarser
// neighbor: xyz is the inward-nudged position a transition mesh should
// stitch against, and w packs the adjacency bitmask of which faces the
// vertex borders, reinterpreted as a float32 (never cast) so it survives
// the same vertex buffer layout as a position. TexDiffuse0/1 are the
// triplanar texture ids MaterialMap resolved for MaterialID, following the
// same positive/negative-face split as Material.DiffuseIds0/1.
type Vertex struct {
	Position          mgl32.Vec3
	Normal            mgl32.Vec3
	SecondaryPosition mgl32.Vec4
	MaterialID        uint8
	Blend             uint8
	TexDiffuse0       [3]uint32
	TexDiffuse1       [3]uint32
}

// PolygonBlock is one grid block's mesh at one LOD level: a regular-cell
// mesh plus up to six transition-cell meshes, one per block face that lies
// on the outer boundary of that level's block grid; faces shared with
// another block get no transition mesh.
type PolygonBlock struct {
	ID    int
	Level int

	Vertices []Vertex
	Indices  []uint32

	TransitionVertices [6][]Vertex
	TransitionIndices  [6][]uint32

	MinimalCorner mgl32.Vec3
	MaximalCorner mgl32.Vec3
}

// LODLevel is every PolygonBlock produced at one LOD level.
type LODLevel struct {
	Blocks []*PolygonBlock
}

// Statistics accumulates counters across a polygonization run.
type Statistics struct {
	BlocksProcessed    int
	BlocksSkippedEmpty int
	VerticesGenerated  int
	TrianglesGenerated int

	// TrivialCells and NonTrivialCells partition every cell the run
	// visited: trivial cells (uniformly inside or outside) never reach
	// the case-code lookup, matching them always sums with
	// NonTrivialCells to the run's total visited-cell count.
	TrivialCells    int
	NonTrivialCells int
	// CaseHistogram[c] counts how many non-trivial cells resolved to
	// regular case code c.
	CaseHistogram [256]int
	// DegenerateTrianglesRemoved counts regular-mesh triangles the
	// near-zero-area filter discarded before they reached the mesh.
	DegenerateTrianglesRemoved int
}

// Add accumulates o into s.
func (s *Statistics) Add(o Statistics) {
	s.BlocksProcessed += o.BlocksProcessed
	s.BlocksSkippedEmpty += o.BlocksSkippedEmpty
	s.VerticesGenerated += o.VerticesGenerated
	s.TrianglesGenerated += o.TrianglesGenerated
	s.TrivialCells += o.TrivialCells
	s.NonTrivialCells += o.NonTrivialCells
	s.DegenerateTrianglesRemoved += o.DegenerateTrianglesRemoved
	for i, n := range o.CaseHistogram {
		s.CaseHistogram[i] += n
	}
}

// PolygonMap is the full mesh hierarchy Execute produces: one LODLevel per
// LOD, plus the material-resolution cache that run built (reported by
// CacheSizeBytes; later runs do not reuse it).
type PolygonMap struct {
	Levels  []LODLevel
	Extents [3]int
	Stats   Statistics

	matCache *polygonize.MaterialCache
}

// CacheSizeBytes estimates the material-resolution cache's memory use.
func (pm *PolygonMap) CacheSizeBytes() int {
	if pm.matCache == nil {
		return 0
	}
	return pm.matCache.ApproxSizeBytes()
}

// PolygonDataSizeBytes estimates the total bytes of vertex and index data
// across every level and block.
func (pm *PolygonMap) PolygonDataSizeBytes() int {
	const vertexSize = 4*3 + 4*3 + 4*4 + 1 + 1 + 4*3 + 4*3 // position + normal + secondary position + material id + blend + texture ids
	total := 0
	for _, lvl := range pm.Levels {
		for _, b := range lvl.Blocks {
			total += len(b.Vertices)*vertexSize + len(b.Indices)*4
			for f := 0; f < 6; f++ {
				total += len(b.TransitionVertices[f])*vertexSize + len(b.TransitionIndices[f])*4
			}
		}
	}
	return total
}

// ModifiedBlock identifies one block an incremental run touched.
type ModifiedBlock struct {
	Level   int
	BlockID int
}

// Modification scopes an incremental run to the blocks touched by a prior
// InjectSurface/InjectMaterial call, and accumulates which blocks it ends
// up modifying.
type Modification struct {
	DirtyMin, DirtyMax [3]float32
	ModifiedBlocks     []ModifiedBlock
}
