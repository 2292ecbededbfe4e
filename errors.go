package voxels

import "errors"

// Sentinel errors returned by grid construction, persistence, and
// polygonization. Wrap these with fmt.Errorf("%w", ...) when additional
// context (block id, offset, dimension) is useful to the caller.
var (
	// ErrGridTooLarge is returned when a grid's extents exceed the
	// configured GridOptions.MaxExtent.
	ErrGridTooLarge = errors.New("voxels: grid extent exceeds configured limit")

	// ErrInvalidDimensions is returned when a grid's width, depth, or
	// height is not a positive multiple of the block extent.
	ErrInvalidDimensions = errors.New("voxels: dimensions must be a positive multiple of the block extent")

	// ErrBlockOutOfRange is returned by block-level accessors when the
	// requested coordinate falls outside the grid.
	ErrBlockOutOfRange = errors.New("voxels: block coordinate out of range")

	// ErrUnsupportedVersion is returned by Load when the persisted blob's
	// version does not match CurrentFileVersion.
	ErrUnsupportedVersion = errors.New("voxels: unsupported persistence version")

	// ErrCorruptPersistence is returned by Load when the blob is
	// truncated or internally inconsistent.
	ErrCorruptPersistence = errors.New("voxels: corrupt persistence data")

	// ErrNoMaterialMap is returned by Execute when a non-empty grid is
	// polygonized without a MaterialMap.
	ErrNoMaterialMap = errors.New("voxels: material map required")
)
