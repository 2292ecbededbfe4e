package casetables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegularCell_TrivialCasesProduceNoTriangles(t *testing.T) {
	assert.Empty(t, RegularCell(0x00).Triangles, "all-outside cell must have no surface")
	assert.Empty(t, RegularCell(0xFF).Triangles, "all-inside cell must have no surface")
}

func TestRegularCell_SingleCornerProducesOneTriangle(t *testing.T) {
	data := RegularCell(0x01) // only corner 0 inside
	assert.Len(t, data.Triangles, 1)
	assert.Len(t, data.VertexEdges, 3)
}

func TestRegularCell_TriangleIndicesAreInBounds(t *testing.T) {
	for code := 0; code < 256; code++ {
		data := RegularCell(uint8(code))
		for _, tri := range data.Triangles {
			for _, idx := range tri {
				assert.Less(t, int(idx), len(data.VertexEdges))
			}
		}
	}
}

func TestEdgeCorners_MatchesRegisteredCubeEdges(t *testing.T) {
	for id := EdgeID(0); id < CubeEdgeCount; id++ {
		a, b := EdgeCorners(id)
		ax, ay, az := CornerCoord(a)
		bx, by, bz := CornerCoord(b)
		diffs := 0
		if ax != bx {
			diffs++
		}
		if ay != by {
			diffs++
		}
		if az != bz {
			diffs++
		}
		assert.Equal(t, 1, diffs, "a real cube edge must differ in exactly one axis")
	}
}

func TestRegularCell_ComplementaryCasesHaveSameEdgeSet(t *testing.T) {
	// Inverting every corner's inside/outside state should cross exactly
	// the same set of edges (an edge is active iff its endpoints differ),
	// so the two cases must produce the same vertex count.
	for code := 0; code < 256; code++ {
		a := RegularCell(uint8(code))
		b := RegularCell(uint8(^code & 0xFF))
		assert.Equal(t, len(a.VertexEdges), len(b.VertexEdges), "code=%d", code)
	}
}
