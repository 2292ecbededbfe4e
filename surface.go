package voxels

// Surface is an external collaborator that supplies signed-distance,
// material, and blend samples over an axis-aligned subgrid, matching the
// original library's VoxelSurface::GetSurface contract. Grid construction
// (CreateGrid, CreateGridFromHeightmap) samples a Surface once per voxel in
// the requested range; callers typically back it with an SDF evaluator or a
// heightmap lookup.
//
// xStart/xEnd/xStep (and the y/z equivalents) describe an inclusive-start,
// exclusive-end, strided range over voxel-space coordinates, exactly as the
// original's GetSurface signature. output receives one signed distance per
// sample in x-fastest, then y, then z order; materialID and blend receive
// the corresponding material id and blend value. All three slices must have
// capacity for the full sample count the range implies.
type Surface interface {
	GetSurface(
		xStart, xEnd, xStep int,
		yStart, yEnd, yStep int,
		zStart, zEnd, zStep int,
		output []float32,
		materialID []uint8,
		blend []uint8,
	)
}
