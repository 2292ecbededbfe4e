// Package casetables builds the case-code-indexed triangulation tables the
// polygonizer looks up once per cell: given which of a cube's 8 corners are
// "inside" the surface, which of its edges carry a vertex and how those
// vertices connect into triangles.
//
// Rather than hand-transcribing the original library's published 256-row
// constant table (high transcription risk for data this size, and
// impossible to catch a transcription error without running the code),
// this package derives the table at init time from a 6-tetrahedra
// decomposition of the cube sharing the corner-0/corner-7 diagonal. Each
// tetrahedron's 16 corner-sign configurations resolve unambiguously to 0,
// 1, or 2 triangles by simple edge connectivity — no asymptotic-decider
// ambiguity-resolution table is needed, because a tetrahedron's
// intersection with a plane is always a single triangle or quad. The
// tradeoff: vertices may also land on face or space diagonals the published
// table never uses (EdgeID >= CubeEdgeCount below), in addition to the 12
// real cube edges. Those extra vertices are excluded from the vertex-reuse
// candidate set. A space-diagonal vertex is interior to its cell; a
// face-diagonal vertex lies on a face the neighboring cell shares, and
// since every cell uses the same decomposition the neighbor creates its
// own vertex at the same position rather than reusing this one.
package casetables

// EdgeID indexes a potential surface-crossing edge of a cube cell.
type EdgeID int

// CubeEdgeCount is the number of a cube's 12 real edges (EdgeIDs 0-11) —
// the only edges eligible for vertex reuse.
const CubeEdgeCount = 12

var (
	allEdges  [][2]int
	edgeIndex map[[2]int]EdgeID
)

// EdgeCorners returns the pair of corner indices (0-7) edge id connects.
func EdgeCorners(id EdgeID) (a, b int) {
	e := allEdges[id]
	return e[0], e[1]
}

// IsReusable reports whether a vertex on this edge may be shared with a
// neighboring cell.
func IsReusable(id EdgeID) bool { return int(id) < CubeEdgeCount }

func registerEdge(a, b int) EdgeID {
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if id, ok := edgeIndex[key]; ok {
		return id
	}
	id := EdgeID(len(allEdges))
	allEdges = append(allEdges, key)
	edgeIndex[key] = id
	return id
}

// CornerCoord returns the unit-cube-local (0/1) coordinates of corner c,
// using the convention bit0=x, bit1=y, bit2=z.
func CornerCoord(c int) (x, y, z int) {
	return c & 1, (c >> 1) & 1, (c >> 2) & 1
}

// RegularCellData is one case code's triangulation: VertexEdges[i] is the
// edge the cell's i-th vertex lies on; Triangles indexes into VertexEdges.
type RegularCellData struct {
	VertexEdges []EdgeID
	Triangles   [][3]uint8
}

var regularCellData [256]RegularCellData

// RegularCell returns the triangulation for an 8-bit case code, bit c set
// when corner c is inside the surface.
func RegularCell(code uint8) *RegularCellData {
	return &regularCellData[code]
}

var cubeTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
	{0, 2, 6, 7},
	{0, 2, 3, 7},
}

func init() {
	edgeIndex = make(map[[2]int]EdgeID)
	// Register the 12 real cube edges first, so they land on ids 0-11.
	for bit := 0; bit < 3; bit++ {
		for c := 0; c < 8; c++ {
			if c&(1<<uint(bit)) != 0 {
				continue
			}
			registerEdge(c, c|(1<<uint(bit)))
		}
	}
	for code := 0; code < 256; code++ {
		regularCellData[code] = buildCellForCode(uint8(code))
	}
}

func cornerInside(code uint8, c int) bool {
	return code&(1<<uint(c)) != 0
}

func buildCellForCode(code uint8) RegularCellData {
	vertexOf := make(map[EdgeID]uint8)
	var data RegularCellData

	vertexIndex := func(e EdgeID) uint8 {
		if idx, ok := vertexOf[e]; ok {
			return idx
		}
		idx := uint8(len(data.VertexEdges))
		data.VertexEdges = append(data.VertexEdges, e)
		vertexOf[e] = idx
		return idx
	}

	for _, tet := range cubeTets {
		for _, tri := range tetTriangles(tet, code) {
			var idxs [3]uint8
			for i, pair := range tri {
				e := registerEdge(pair[0], pair[1])
				idxs[i] = vertexIndex(e)
			}
			data.Triangles = append(data.Triangles, idxs)
		}
	}
	return data
}

// tetTriangles resolves one tetrahedron's triangles for a cube-level case
// code. It only runs at init time, building the 256-entry regularCellData
// table that both regular and transition cells look up by code.
func tetTriangles(tet [4]int, code uint8) [][3][2]int {
	var in [4]bool
	nIn := 0
	for i, c := range tet {
		in[i] = cornerInside(code, c)
		if in[i] {
			nIn++
		}
	}
	switch nIn {
	case 0, 4:
		return nil
	case 1, 3:
		want := nIn == 1
		single := -1
		for i, v := range in {
			if v == want {
				single = i
			}
		}
		others := make([]int, 0, 3)
		for i := range tet {
			if i != single {
				others = append(others, i)
			}
		}
		tri := [3][2]int{
			{tet[single], tet[others[0]]},
			{tet[single], tet[others[1]]},
			{tet[single], tet[others[2]]},
		}
		if !want {
			tri[1], tri[2] = tri[2], tri[1]
		}
		return [][3][2]int{tri}
	default: // nIn == 2
		var insideIdx, outsideIdx []int
		for i, v := range in {
			if v {
				insideIdx = append(insideIdx, i)
			} else {
				outsideIdx = append(outsideIdx, i)
			}
		}
		a, b := tet[insideIdx[0]], tet[insideIdx[1]]
		c, d := tet[outsideIdx[0]], tet[outsideIdx[1]]
		t1 := [3][2]int{{a, c}, {b, c}, {b, d}}
		t2 := [3][2]int{{a, c}, {b, d}, {a, d}}
		return [][3][2]int{t1, t2}
	}
}
