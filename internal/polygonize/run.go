// Package polygonize is the Transvoxel run driver: per-level parallel block
// dispatch, the regular and transition cell polygonizers, and the material
// resolution and vertex-reuse machinery they share.
package polygonize

import (
	"context"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/stoyannk/voxels/internal/cellcache"
	"github.com/stoyannk/voxels/internal/gridstore"
)

// BlockCoord is a block's position in block-space (not voxel-space).
type BlockCoord struct{ X, Y, Z int }

// BlockResult is one block's polygonization output at one LOD level.
type BlockResult struct {
	Coord             BlockCoord
	Level             int
	Mesh              *Mesh
	Stats             CellStats
	TransitionMeshes  [6]*Mesh
	HasTransitionFace [6]bool
}

// LevelCount returns how many LOD levels a grid of the given block-space
// width supports: the finest level (0) plus one per doubling, matching
// log2(blocksPerSide)+1.
func LevelCount(blocksX int) int {
	if blocksX <= 0 {
		return 0
	}
	return bits.Len(uint(blocksX))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AreBlockAndNeighborsEmpty reports whether the block at (bx,by,bz) and all
// 26 of its neighbors are empty. Neighbor coordinates are clamped into
// [0,count-1] unconditionally, even when (bx,by,bz) is already interior —
// this is preserved exactly as the original library behaves, per the
// specification's note that the clamp should not be special-cased away for
// interior blocks.
func AreBlockAndNeighborsEmpty(g *gridstore.Grid, bx, by, bz int) bool {
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx := clampInt(bx+dx, 0, g.BlocksX-1)
				ny := clampInt(by+dy, 0, g.BlocksY-1)
				nz := clampInt(bz+dz, 0, g.BlocksZ-1)
				if !g.IsBlockEmpty(nx, ny, nz) {
					return false
				}
			}
		}
	}
	return true
}

// GenerateBlockListForLevel enumerates every block that exists at the given
// LOD level: coarser levels have fewer, larger blocks, one per 2^level
// group of level-0 blocks along each axis.
func GenerateBlockListForLevel(g *gridstore.Grid, level int) []BlockCoord {
	stride := 1 << uint(level)
	bx := (g.BlocksX + stride - 1) / stride
	by := (g.BlocksY + stride - 1) / stride
	bz := (g.BlocksZ + stride - 1) / stride

	out := make([]BlockCoord, 0, bx*by*bz)
	for z := 0; z < bz; z++ {
		for y := 0; y < by; y++ {
			for x := 0; x < bx; x++ {
				out = append(out, BlockCoord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// RunLevel polygonizes every non-empty, non-isolated block at level,
// dispatching blocks across workers goroutines and returning one
// BlockResult per block that produced geometry. It is safe to call once
// per level in increasing level order — the errgroup.Wait inside this call
// is the barrier the specification requires between levels, since level
// ℓ+1's material resolution reads level ℓ's cached results.
func RunLevel(g *gridstore.Grid, mc *MaterialCache, level, cellsPerSide, workers int) ([]*BlockResult, error) {
	return RunLevelBlocks(g, mc, level, cellsPerSide, workers, GenerateBlockListForLevel(g, level))
}

// RunLevelBlocks polygonizes exactly the given blocks at level, instead of
// every block the level contains — the incremental-run entry point, so a
// re-polygonization after a localized edit only touches the blocks whose
// region the edit actually reached.
func RunLevelBlocks(g *gridstore.Grid, mc *MaterialCache, level, cellsPerSide, workers int, blocks []BlockCoord) ([]*BlockResult, error) {
	results := make([]*BlockResult, len(blocks))

	grp, _ := errgroup.WithContext(context.Background())
	grp.SetLimit(workers)

	for i, coord := range blocks {
		i, coord := i, coord
		grp.Go(func() error {
			stride := 1 << uint(level)
			bx0, by0, bz0 := coord.X*stride, coord.Y*stride, coord.Z*stride
			if level == 0 && AreBlockAndNeighborsEmpty(g, coord.X, coord.Y, coord.Z) {
				return nil
			}

			cache := cellcache.New(g)
			baseX := bx0 * gridstore.BlockExtent
			baseY := by0 * gridstore.BlockExtent
			baseZ := bz0 * gridstore.BlockExtent

			mesh, cellStats := PolygonizeBlock(cache, mc, level, baseX, baseY, baseZ, cellsPerSide)
			if len(mesh.Indices) == 0 {
				return nil
			}

			res := &BlockResult{Coord: coord, Level: level, Mesh: mesh, Stats: cellStats}
			for f := Face(0); f < 6; f++ {
				if !isOuterBoundaryFace(g, coord, level, f) {
					continue
				}
				tm := GenerateTransitionFace(cache, mc, level, baseX, baseY, baseZ, cellsPerSide, f)
				if len(tm.Indices) > 0 {
					res.TransitionMeshes[f] = tm
					res.HasTransitionFace[f] = true
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make([]*BlockResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// isOuterBoundaryFace reports whether face of the block at coord (at the
// given level) sits on the level's outer block-space boundary — the only
// place a transition cell belongs, since interior faces border a same-LOD
// neighbor already polygonized by the regular mesh.
func isOuterBoundaryFace(g *gridstore.Grid, coord BlockCoord, level int, face Face) bool {
	stride := 1 << uint(level)
	bx := (g.BlocksX + stride - 1) / stride
	by := (g.BlocksY + stride - 1) / stride
	bz := (g.BlocksZ + stride - 1) / stride
	switch face {
	case FaceXPos:
		return coord.X == bx-1
	case FaceXNeg:
		return coord.X == 0
	case FaceYPos:
		return coord.Y == by-1
	case FaceYNeg:
		return coord.Y == 0
	case FaceZPos:
		return coord.Z == bz-1
	case FaceZNeg:
		return coord.Z == 0
	}
	return false
}
