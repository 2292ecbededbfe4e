package voxels

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/stoyannk/voxels/internal/gridstore"
)

// Grid is the block-partitioned, run-length-compressed voxel store:
// distance, material, and blend samples over a 3D volume whose dimensions
// are each a multiple of BlockExtent.
type Grid struct {
	inner *gridstore.Grid
}

// BlockExtent is the number of voxels along one edge of a grid block.
const BlockExtent = gridstore.BlockExtent

func checkExtent(width, depth, height int, opts *GridOptions) error {
	opts = opts.orDefault()
	if opts.MaxExtent > 0 {
		max := width
		if depth > max {
			max = depth
		}
		if height > max {
			max = height
		}
		if max > opts.MaxExtent {
			logAt(SeverityError, "grid exceeds configured extent", "max", opts.MaxExtent, "requested", max)
			return fmt.Errorf("%dx%dx%d: %w", width, depth, height, ErrGridTooLarge)
		}
	}
	return nil
}

// CreateEmptyGrid returns a grid of the given size (voxels) with every
// block set to the uniformly-outside placeholder.
func CreateEmptyGrid(width, depth, height int, opts *GridOptions) (*Grid, error) {
	if err := checkExtent(width, depth, height, opts); err != nil {
		return nil, err
	}
	inner, err := gridstore.NewEmpty(width, depth, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return &Grid{inner: inner}, nil
}

// CreateGrid samples surface over the full grid volume.
func CreateGrid(width, depth, height int, surface Surface, opts *GridOptions) (*Grid, error) {
	if err := checkExtent(width, depth, height, opts); err != nil {
		return nil, err
	}
	inner, err := gridstore.NewFromSurface(width, depth, height, surface)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return &Grid{inner: inner}, nil
}

// CreateGridFromHeightmap samples surface the same way CreateGrid does,
// additionally scaling sampled distances vertically by heightScale (1 or 0
// disables scaling).
func CreateGridFromHeightmap(width, depth, height int, surface Surface, heightScale float32, opts *GridOptions) (*Grid, error) {
	if err := checkExtent(width, depth, height, opts); err != nil {
		return nil, err
	}
	inner, err := gridstore.NewFromHeightmap(width, depth, height, surface, heightScale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return &Grid{inner: inner}, nil
}

// LoadGrid deserializes a grid from r, previously written by Grid.PackForSave.
// A blob of another version yields ErrUnsupportedVersion; any other read
// failure yields ErrCorruptPersistence.
func LoadGrid(r io.Reader) (*Grid, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrCorruptPersistence, err)
	}
	if v := binary.LittleEndian.Uint32(hdr[:]); v != gridstore.CurrentFileVersion {
		return nil, fmt.Errorf("version %d: %w", v, ErrUnsupportedVersion)
	}
	inner, err := gridstore.Load(io.MultiReader(bytes.NewReader(hdr[:]), r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPersistence, err)
	}
	return &Grid{inner: inner}, nil
}

// PackForSave serializes the grid to w.
func (g *Grid) PackForSave(w io.Writer) error { return g.inner.PackForSave(w) }

// Dimensions returns the grid's size in voxels.
func (g *Grid) Dimensions() (width, depth, height int) {
	return g.inner.Width, g.inner.Depth, g.inner.Height
}

// BlockExtent returns the number of voxels along one edge of a block.
func (g *Grid) BlockExtent() int { return BlockExtent }

// GridBlocksMemorySize returns the total bytes currently used by the
// grid's compressed (or raw-fallback) block storage.
func (g *Grid) GridBlocksMemorySize() int {
	total := 0
	for _, b := range g.inner.Blocks {
		total += len(b.CompressedDistance) + len(b.RawDistance)
		total += len(b.CompressedMaterial) + len(b.RawMaterial)
		total += len(b.CompressedBlend) + len(b.RawBlend)
	}
	return total
}

// InjectSurface combines values (one signed distance per voxel in the
// given range, x-fastest then y then z) into the grid using mode, and
// returns the world-space AABB (Y/Z already swapped to the external Y-up
// convention) of the region actually modified.
func (g *Grid) InjectSurface(xStart, xEnd, yStart, yEnd, zStart, zEnd int, mode InjectMode, values []float32) (min, max [3]float32) {
	return g.inner.InjectSurface(xStart, xEnd, yStart, yEnd, zStart, zEnd, gridstore.InjectMode(mode), values)
}

// InjectMaterial stamps materialID on the voxels within (extent/2)*0.75 of
// center (voxel coordinates, internal Z-up order) with a constant
// blendAmount; the blend does not fall off with distance from center.
func (g *Grid) InjectMaterial(center [3]float32, extent float32, materialID, blendAmount uint8) {
	g.inner.InjectMaterial(center, extent, materialID, blendAmount)
}

// InjectMode selects how InjectSurface combines new and existing distance
// values.
type InjectMode = gridstore.InjectMode

const (
	InjectAdd              = gridstore.InjectAdd
	InjectSubtractAddInner = gridstore.InjectSubtractAddInner
	InjectSubtract         = gridstore.InjectSubtract
)

// GetBlockDistanceData decompresses and returns the distance channel of
// the block at block coordinates (bx,by,bz).
func (g *Grid) GetBlockDistanceData(bx, by, bz int) ([]int8, error) {
	b := g.inner.Block(bx, by, bz)
	if b == nil {
		return nil, ErrBlockOutOfRange
	}
	return b.Distances(), nil
}

// GetBlockMaterialData decompresses and returns the material and blend
// channels of the block at block coordinates (bx,by,bz).
func (g *Grid) GetBlockMaterialData(bx, by, bz int) (material, blend []uint8, err error) {
	b := g.inner.Block(bx, by, bz)
	if b == nil {
		return nil, nil, ErrBlockOutOfRange
	}
	return b.Materials(), b.Blends(), nil
}

// ModifyBlockDistanceData recompresses raw as the distance channel of the
// block at (bx,by,bz).
func (g *Grid) ModifyBlockDistanceData(bx, by, bz int, raw []int8) error {
	b := g.inner.Block(bx, by, bz)
	if b == nil {
		return ErrBlockOutOfRange
	}
	b.SetDistances(raw)
	return nil
}

// ModifyBlockMaterialData recompresses material and blend as the block's
// material and blend channels.
func (g *Grid) ModifyBlockMaterialData(bx, by, bz int, material, blend []uint8) error {
	b := g.inner.Block(bx, by, bz)
	if b == nil {
		return ErrBlockOutOfRange
	}
	b.SetMaterials(material)
	b.SetBlends(blend)
	return nil
}

// IsBlockEmpty reports whether the block at (bx,by,bz) carries no surface.
func (g *Grid) IsBlockEmpty(bx, by, bz int) bool { return g.inner.IsBlockEmpty(bx, by, bz) }
