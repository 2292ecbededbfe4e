package voxels

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stoyannk/voxels/internal/gridstore"
	"github.com/stoyannk/voxels/internal/polygonize"
)

// swapYZ converts an internal (Z-up) vector to the external (Y-up)
// convention the public PolygonBlock/Vertex types use.
func swapYZ(v mgl32.Vec3) mgl32.Vec3 { return mgl32.Vec3{v[0], v[2], v[1]} }

// swapYZf is swapYZ over a plain [3]float32, for converting a Modification's
// external (Y-up) dirty bounds back to internal (Z-up) voxel coordinates.
func swapYZf(v [3]float32) [3]float32 { return [3]float32{v[0], v[2], v[1]} }

// convertVertex translates one internal polygonize.Vertex to the public
// wire format, swapping Z-up to Y-up and deriving the triplanar texture
// ids materials resolves for the vertex's material id. The adjacency
// bitmask packed into SecondaryPosition.W is reinterpreted via
// math.Float32frombits, never round-tripped through a float cast.
func convertVertex(v polygonize.Vertex, materials MaterialMap) Vertex {
	sec := swapYZ(v.Secondary)
	out := Vertex{
		Position:          swapYZ(v.Pos),
		Normal:            swapYZ(v.Normal),
		SecondaryPosition: mgl32.Vec4{sec[0], sec[1], sec[2], math.Float32frombits(v.Adjacency)},
		MaterialID:        v.Material.ID,
		Blend:             v.Material.Blend,
	}
	if materials != nil {
		if mat, ok := materials.GetMaterial(v.Material.ID); ok {
			out.TexDiffuse0 = mat.DiffuseIds0
			out.TexDiffuse1 = mat.DiffuseIds1
		} else if v.Material.ID != EmptyMaterial {
			logAt(SeverityError, "material id not found in material map", "id", v.Material.ID)
		}
	}
	return out
}

func convertMesh(m *polygonize.Mesh, materials MaterialMap) ([]Vertex, []uint32) {
	if m == nil {
		return nil, nil
	}
	verts := make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = convertVertex(v, materials)
	}
	return verts, append([]uint32(nil), m.Indices...)
}

func boundsOf(verts []Vertex) (min, max mgl32.Vec3) {
	if len(verts) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max = verts[0].Position, verts[0].Position
	for _, v := range verts[1:] {
		for a := 0; a < 3; a++ {
			if v.Position[a] < min[a] {
				min[a] = v.Position[a]
			}
			if v.Position[a] > max[a] {
				max[a] = v.Position[a]
			}
		}
	}
	return min, max
}

// clampInt clamps v into [lo,hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dirtyBlocksForLevel lists every block at level whose region intersects
// [minV,maxV] (internal Z-up voxel coordinates) expanded by one block on
// every side, so an edit near a block's border also re-polygonizes the
// neighbor whose transition mesh could have changed.
func dirtyBlocksForLevel(g *gridstore.Grid, level int, minV, maxV [3]float32) []polygonize.BlockCoord {
	stride := 1 << uint(level)
	blockVoxels := float32(gridstore.BlockExtent * stride)
	bx := (g.BlocksX + stride - 1) / stride
	by := (g.BlocksY + stride - 1) / stride
	bz := (g.BlocksZ + stride - 1) / stride

	loX := clampInt(int(minV[0]/blockVoxels)-1, 0, bx-1)
	loY := clampInt(int(minV[1]/blockVoxels)-1, 0, by-1)
	loZ := clampInt(int(minV[2]/blockVoxels)-1, 0, bz-1)
	hiX := clampInt(int(maxV[0]/blockVoxels)+1, 0, bx-1)
	hiY := clampInt(int(maxV[1]/blockVoxels)+1, 0, by-1)
	hiZ := clampInt(int(maxV[2]/blockVoxels)+1, 0, bz-1)

	out := make([]polygonize.BlockCoord, 0, (hiX-loX+1)*(hiY-loY+1)*(hiZ-loZ+1))
	for z := loZ; z <= hiZ; z++ {
		for y := loY; y <= hiY; y++ {
			for x := loX; x <= hiX; x++ {
				out = append(out, polygonize.BlockCoord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// Execute polygonizes every LOD level of g and returns the resulting
// PolygonMap. A non-nil mod scopes the run to the blocks its DirtyMin/
// DirtyMax region touches (expanded by one block per level) and records
// them in mod.ModifiedBlocks; pass nil for a full run over every block.
func Execute(g *Grid, materials MaterialMap, mod *Modification, opts *RunOptions) (*PolygonMap, error) {
	ro := opts.orDefault()
	w, d, h := g.Dimensions()

	pm := &PolygonMap{
		Extents:  [3]int{w, h, d}, // Y/Z swapped to external convention
		matCache: polygonize.NewMaterialCache(),
	}

	levels := polygonize.LevelCount(g.inner.BlocksX)
	pm.Levels = make([]LODLevel, levels)

	var minInternal, maxInternal [3]float32
	if mod != nil {
		minInternal, maxInternal = swapYZf(mod.DirtyMin), swapYZf(mod.DirtyMax)
		mod.ModifiedBlocks = mod.ModifiedBlocks[:0]
	}

	blockIDCounter := 0
	for level := 0; level < levels; level++ {
		var results []*polygonize.BlockResult
		var err error
		if mod != nil {
			blocks := dirtyBlocksForLevel(g.inner, level, minInternal, maxInternal)
			results, err = polygonize.RunLevelBlocks(g.inner, pm.matCache, level, gridstore.BlockExtent, ro.Workers, blocks)
		} else {
			results, err = polygonize.RunLevel(g.inner, pm.matCache, level, gridstore.BlockExtent, ro.Workers)
		}
		if err != nil {
			return nil, err
		}

		lvl := LODLevel{Blocks: make([]*PolygonBlock, 0, len(results))}
		for _, r := range results {
			pb := &PolygonBlock{ID: blockIDCounter, Level: level}
			blockIDCounter++

			pb.Vertices, pb.Indices = convertMesh(r.Mesh, materials)
			for f := 0; f < 6; f++ {
				pb.TransitionVertices[f], pb.TransitionIndices[f] = convertMesh(r.TransitionMeshes[f], materials)
			}
			pb.MinimalCorner, pb.MaximalCorner = boundsOf(pb.Vertices)

			pm.Stats.BlocksProcessed++
			pm.Stats.VerticesGenerated += len(pb.Vertices)
			pm.Stats.TrianglesGenerated += len(pb.Indices) / 3
			for f := 0; f < 6; f++ {
				pm.Stats.VerticesGenerated += len(pb.TransitionVertices[f])
				pm.Stats.TrianglesGenerated += len(pb.TransitionIndices[f]) / 3
			}
			pm.Stats.TrivialCells += r.Stats.TrivialCells
			pm.Stats.NonTrivialCells += r.Stats.NonTrivialCells
			pm.Stats.DegenerateTrianglesRemoved += r.Stats.DegenerateTrianglesRemoved
			for i, n := range r.Stats.CaseHistogram {
				pm.Stats.CaseHistogram[i] += n
			}

			if mod != nil {
				mod.ModifiedBlocks = append(mod.ModifiedBlocks, ModifiedBlock{Level: level, BlockID: pb.ID})
			}

			lvl.Blocks = append(lvl.Blocks, pb)
		}
		pm.Levels[level] = lvl
	}

	if materials == nil {
		totalVerts := 0
		for _, lvl := range pm.Levels {
			for _, b := range lvl.Blocks {
				totalVerts += len(b.Vertices)
			}
		}
		if totalVerts > 0 {
			return pm, ErrNoMaterialMap
		}
	}

	return pm, nil
}
