// Package voxels implements the Transvoxel algorithm over a block-partitioned,
// run-length-compressed signed-distance voxel grid.
//
// A Grid stores distance, material, and blend samples in 16-voxel cubic
// blocks, compressed independently with a run-length codec. Execute walks
// a Grid's LOD chain and produces a PolygonMap: one PolygonBlock per grid
// block per level that yields geometry, each carrying a regular-cell mesh
// plus up to six transition-cell meshes, generated only for block faces on
// the outer boundary of that level's block grid (faces shared with another
// block get none).
//
// This package does not render, shade, or upload geometry; it only turns
// voxel data into CPU-side mesh data.
//
// Basic usage:
//
//	g, err := voxels.CreateGrid(w, d, h, surface, nil)
//	pm, err := voxels.Execute(g, materials, nil, nil)
package voxels
