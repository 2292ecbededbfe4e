// Transition-cell tables: the 9-bit case-code-indexed triangulation a block
// consults when stitching its face against a coarser neighbor.
//
// The published Transvoxel transition tables (transitionCellClass,
// transitionCellData, transitionVertexData, transitionCornerData) are fixed
// data this package deliberately does not hand-transcribe, for the same
// transcription-risk reason documented on regularCellData in regular.go.
// Instead it generates an equivalent table at init time from a tetrahedra
// decomposition of the transition cell's own geometry: the 3x3 grid of
// front (high-resolution) corners 0-8, plus one pyramid per quadrant whose
// apex is that quadrant's low-resolution corner (9-12, duplicating the
// case-code bit of corner 0, 2, 6 or 8 respectively). Each pyramid splits
// into two tetrahedra sharing the quadrant's off-axis diagonal, and each
// tetrahedron resolves by the same edge-connectivity rule tetTriangles
// uses for the cube.
package casetables

// TransitionCellData is one 9-bit case's triangulation: VertexEdges[i] is
// the pair of sample slots (0-8 front corners, 9-12 low-resolution corner
// duplicates of 0, 2, 6, 8) the cell's i-th vertex interpolates between;
// Triangles indexes into VertexEdges.
type TransitionCellData struct {
	VertexEdges [][2]int
	Triangles   [][3]uint8
}

var transitionCellData [512]TransitionCellData

// TransitionCell returns the triangulation for a 9-bit transition case
// code. Callers are expected to have already skipped code 0 and 511 (cell
// entirely outside or entirely inside).
func TransitionCell(code uint16) *TransitionCellData {
	return &transitionCellData[code]
}

// TransitionCornerCoeff maps front-corner index (0-8, row-major over the
// 3x3 face grid) to its bit in the 9-bit case code, matching the published
// per-corner coefficients.
var TransitionCornerCoeff = [9]uint16{0x01, 0x02, 0x04, 0x80, 0x100, 0x08, 0x40, 0x20, 0x10}

// transitionDupOf maps a low-resolution slot (9-12) to the front corner
// whose case-code bit and sampled value it duplicates.
var transitionDupOf = [4]int{0, 2, 6, 8}

func transitionSlotBit(slot int) uint16 {
	if slot < 9 {
		return TransitionCornerCoeff[slot]
	}
	return TransitionCornerCoeff[transitionDupOf[slot-9]]
}

// transitionTets decomposes the transition cell into one 5-vertex pyramid
// per quadrant (four front corners as the base, the quadrant's
// low-resolution corner as the apex), each split into two tetrahedra along
// the base's off-axis diagonal.
var transitionTets = [8][4]int{
	{9, 0, 1, 3}, {9, 1, 4, 3},
	{10, 1, 2, 4}, {10, 2, 5, 4},
	{11, 3, 4, 6}, {11, 4, 7, 6},
	{12, 4, 5, 7}, {12, 5, 8, 7},
}

func init() {
	for code := 0; code < 512; code++ {
		transitionCellData[code] = buildTransitionCellForCode(uint16(code))
	}
}

func buildTransitionCellForCode(code uint16) TransitionCellData {
	vertexOf := make(map[[2]int]uint8)
	var data TransitionCellData

	vertexIndex := func(a, b int) uint8 {
		key := [2]int{a, b}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if idx, ok := vertexOf[key]; ok {
			return idx
		}
		idx := uint8(len(data.VertexEdges))
		data.VertexEdges = append(data.VertexEdges, key)
		vertexOf[key] = idx
		return idx
	}

	inside := func(slot int) bool { return code&transitionSlotBit(slot) != 0 }

	for _, tet := range transitionTets {
		for _, tri := range transitionTetTriangles(tet, inside) {
			var idxs [3]uint8
			for i, pair := range tri {
				idxs[i] = vertexIndex(pair[0], pair[1])
			}
			data.Triangles = append(data.Triangles, idxs)
		}
	}
	return data
}

// transitionTetTriangles resolves one tetrahedron's triangles given an
// inside/outside classifier over its (possibly non-cube) sample slots.
// Identical edge-connectivity logic to tetTriangles, generalized to slots
// that aren't cube corners.
func transitionTetTriangles(tet [4]int, inside func(int) bool) [][3][2]int {
	var in [4]bool
	nIn := 0
	for i, s := range tet {
		in[i] = inside(s)
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
