// Package gridstore implements the block-partitioned, run-length-compressed
// voxel grid: construction from a Surface or heightmap, point injection,
// block-level access, and little-endian persistence. It is the storage
// layer internal/cellcache and internal/polygonize read through.
package gridstore

import (
	"math"

	"github.com/stoyannk/voxels/internal/blockcodec"
)

// BlockExtent is the number of voxels along one edge of a block, matching
// the original library's VoxelGrid::BLOCK_EXTENT.
const BlockExtent = 16

// BlockSampleCount is the number of samples in a full block.
const BlockSampleCount = BlockExtent * BlockExtent * BlockExtent

// EmptyMaterial is the material id reserved to mean "no material".
const EmptyMaterial uint8 = 255

// CurrentFileVersion is the persistence format version this package writes
// and the only version it accepts on Load.
const CurrentFileVersion uint32 = 1

// DistanceClamp is the absolute bound distance samples are clamped to, in
// voxel units, matching the original's toGridDistValue clamp of +/-4.
const DistanceClamp = 4

// Flags is a bitset describing a block's storage state.
type Flags uint8

const (
	FlagNone               Flags = 0
	FlagEmpty              Flags = 1 << iota
	FlagDistanceUncompressed
	FlagMaterialUncompressed
	FlagBlendUncompressed
)

// Block is one 16^3 voxel block's storage: either compressed byte streams
// or raw arrays per channel, selected by Flags.
type Block struct {
	ID    int
	Flags Flags

	// Exactly one of {RawDistance, CompressedDistance} is populated,
	// selected by FlagDistanceUncompressed.
	RawDistance        []int8
	CompressedDistance []byte

	RawMaterial        []uint8
	CompressedMaterial []byte

	RawBlend        []uint8
	CompressedBlend []byte
}

// NewEmptyBlock returns a block whose distance channel is uniformly +4
// (fully outside the surface) and whose material channel is EmptyMaterial,
// the same representation the original library uses for blocks that were
// never touched by an injection.
func NewEmptyBlock(id int) *Block {
	// Each channel is one run covering all BlockSampleCount samples
	// (little-endian count).
	return &Block{
		ID:                 id,
		Flags:              FlagEmpty,
		CompressedDistance: []byte{byte(int8(DistanceClamp)), byte(BlockSampleCount & 0xFF), byte(BlockSampleCount >> 8)},
		CompressedMaterial: []byte{byte(EmptyMaterial), byte(BlockSampleCount & 0xFF), byte(BlockSampleCount >> 8)},
		CompressedBlend:    []byte{0, byte(BlockSampleCount & 0xFF), byte(BlockSampleCount >> 8)},
	}
}

// Distances decompresses (or copies) this block's distance channel into a
// BlockSampleCount-length slice.
func (b *Block) Distances() []int8 {
	out := make([]int8, BlockSampleCount)
	if b.Flags&FlagDistanceUncompressed != 0 {
		copy(out, b.RawDistance)
		return out
	}
	blockcodec.Decompress(b.CompressedDistance, out)
	return out
}

// Materials decompresses (or copies) this block's material channel.
func (b *Block) Materials() []uint8 {
	out := make([]uint8, BlockSampleCount)
	if b.Flags&FlagMaterialUncompressed != 0 {
		copy(out, b.RawMaterial)
		return out
	}
	blockcodec.Decompress(b.CompressedMaterial, out)
	return out
}

// Blends decompresses (or copies) this block's blend channel.
func (b *Block) Blends() []uint8 {
	out := make([]uint8, BlockSampleCount)
	if b.Flags&FlagBlendUncompressed != 0 {
		copy(out, b.RawBlend)
		return out
	}
	blockcodec.Decompress(b.CompressedBlend, out)
	return out
}

// SetDistances compresses raw and stores it, falling back to raw storage
// when the run-length encoding would not be smaller, exactly as the
// original's CompressBlock does. It also recomputes the block's Empty flag
// using the sign-uniformity rule (a zero sample always makes a block
// non-empty, even though it is not "inside" either).
func (b *Block) SetDistances(raw []int8) {
	if encoded, ok := blockcodec.Compress(raw); ok {
		b.CompressedDistance = encoded
		b.RawDistance = nil
		b.Flags &^= FlagDistanceUncompressed
	} else {
		b.RawDistance = append([]int8(nil), raw...)
		b.CompressedDistance = nil
		b.Flags |= FlagDistanceUncompressed
	}

	if _, uniform := blockcodec.IsUniformSign(raw); uniform && raw[0] > 0 {
		b.Flags |= FlagEmpty
	} else {
		b.Flags &^= FlagEmpty
	}
}

// SetMaterials compresses raw and stores it, matching SetDistances.
func (b *Block) SetMaterials(raw []uint8) {
	if encoded, ok := blockcodec.Compress(raw); ok {
		b.CompressedMaterial = encoded
		b.RawMaterial = nil
		b.Flags &^= FlagMaterialUncompressed
	} else {
		b.RawMaterial = append([]uint8(nil), raw...)
		b.CompressedMaterial = nil
		b.Flags |= FlagMaterialUncompressed
	}
}

// SetBlends compresses raw and stores it, matching SetDistances.
func (b *Block) SetBlends(raw []uint8) {
	if encoded, ok := blockcodec.Compress(raw); ok {
		b.CompressedBlend = encoded
		b.RawBlend = nil
		b.Flags &^= FlagBlendUncompressed
	} else {
		b.RawBlend = append([]uint8(nil), raw...)
		b.CompressedBlend = nil
		b.Flags |= FlagBlendUncompressed
	}
}

// IsEmpty reports the block's cached emptiness flag.
func (b *Block) IsEmpty() bool { return b.Flags&FlagEmpty != 0 }

// VoxelIDInBlock computes the flattened, x-fastest sample index of local
// coordinates (x,y,z) within a block, matching the original's
// VoxelIdInBlock formula.
func VoxelIDInBlock(x, y, z int) int {
	return x + y*BlockExtent + z*BlockExtent*BlockExtent
}

// ToGridDistValue rounds and clamps a floating-point signed distance (in
// voxel units) to the int8 range the grid stores, matching the original's
// round()+toGridDistValue() pair.
func ToGridDistValue(d float32) int8 {
	r := math.Round(float64(d))
	if r > DistanceClamp {
		r = DistanceClamp
	}
	if r < -DistanceClamp {
		r = -DistanceClamp
	}
	return int8(r)
}
