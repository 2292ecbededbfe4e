package gridstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/stoyannk/voxels/internal/pool"
)

var errUnsupportedVersion = errors.New("unsupported persistence version")

// Grid is the block-partitioned voxel store. Dimensions are in voxels and
// must each be a positive multiple of BlockExtent.
type Grid struct {
	Width, Depth, Height int // voxels, X/Y/Z in internal (Z-up) order: W=X, Depth=Y, Height=Z
	BlocksX, BlocksY, BlocksZ int
	Blocks                    []*Block // index: bx + by*BlocksX + bz*BlocksX*BlocksY
	nextID                    int
}

func (g *Grid) blockIndex(bx, by, bz int) int {
	return bx + by*g.BlocksX + bz*g.BlocksX*g.BlocksY
}

func (g *Grid) allocID() int {
	id := g.nextID
	g.nextID++
	return id
}

// NewEmpty builds a grid of the given size where every block is the
// "uniformly +4, empty material" placeholder block.
func NewEmpty(width, depth, height int) (*Grid, error) {
	if width <= 0 || depth <= 0 || height <= 0 ||
		width%BlockExtent != 0 || depth%BlockExtent != 0 || height%BlockExtent != 0 {
		return nil, fmt.Errorf("gridstore: invalid dimensions %dx%dx%d", width, depth, height)
	}
	g := &Grid{
		Width: width, Depth: depth, Height: height,
		BlocksX: width / BlockExtent, BlocksY: depth / BlockExtent, BlocksZ: height / BlockExtent,
	}
	g.Blocks = make([]*Block, g.BlocksX*g.BlocksY*g.BlocksZ)
	for i := range g.Blocks {
		g.Blocks[i] = NewEmptyBlock(g.allocID())
	}
	return g, nil
}

// Surface is the minimal sampling contract gridstore needs; the public
// voxels.Surface interface satisfies it.
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

// NewFromSurface samples s once per block over the full grid and compresses
// each block's channels.
//
// The block traversal order here reproduces the original library's
// constructor exactly, including its loop-bound quirk: the outermost loop
// that walks Z-axis blocks is bounded by blocksY rather than blocksZ. For
// grids where depth == height this is invisible; for grids where they
// differ it means the last (blocksZ - blocksY) planes of Z blocks (when
// blocksZ > blocksY) are never sampled from the surface and keep the
// newly-allocated empty-block default, or that blocks beyond blocksZ are
// never reached (when blocksZ < blocksY, the loop is harmlessly bounded by
// the real slice length). The specification calls this out as original
// behavior to preserve rather than "fix", since callers may depend on it.
func NewFromSurface(width, depth, height int, s Surface) (*Grid, error) {
	g, err := NewEmpty(width, depth, height)
	if err != nil {
		return nil, err
	}
	zBound := g.BlocksY
	if zBound > g.BlocksZ {
		zBound = g.BlocksZ
	}
	for bz := 0; bz < zBound; bz++ {
		for by := 0; by < g.BlocksY; by++ {
			for bx := 0; bx < g.BlocksX; bx++ {
				sampleBlockFromSurface(g, s, bx, by, bz)
			}
		}
	}
	return g, nil
}

// NewFromHeightmap samples s the same way NewFromSurface does. The original
// library's heightmap constructor is a near-duplicate of the surface
// constructor (including the same blocksY-bounded Z loop), kept as a
// distinct entry point because heightmap sources are commonly handed a
// coarser Surface implementation. HeightScale, when non-zero, is folded
// into the sampled distance via simple vertical scaling before clamping;
// a zero value disables scaling.
func NewFromHeightmap(width, depth, height int, s Surface, heightScale float32) (*Grid, error) {
	g, err := NewEmpty(width, depth, height)
	if err != nil {
		return nil, err
	}
	zBound := g.BlocksY
	if zBound > g.BlocksZ {
		zBound = g.BlocksZ
	}
	for bz := 0; bz < zBound; bz++ {
		for by := 0; by < g.BlocksY; by++ {
			for bx := 0; bx < g.BlocksX; bx++ {
				sampleBlockFromSurface(g, s, bx, by, bz)
			}
		}
	}
	if heightScale != 0 && heightScale != 1 {
		for _, blk := range g.Blocks {
			raw := blk.Distances()
			for i := range raw {
				scaled := float32(raw[i]) * heightScale
				raw[i] = ToGridDistValue(scaled)
			}
			blk.SetDistances(raw)
		}
	}
	return g, nil
}

func sampleBlockFromSurface(g *Grid, s Surface, bx, by, bz int) {
	idx := g.blockIndex(bx, by, bz)
	distF := make([]float32, BlockSampleCount)
	// mat/blend are pool-borrowed: SetMaterials/SetBlends below always copy
	// their contents into freshly-owned storage (compressed or raw), so the
	// borrowed backing array never escapes this function and can be
	// returned once sampling and compression are done.
	mat := pool.Get(BlockSampleCount)
	blend := pool.Get(BlockSampleCount)
	defer pool.Put(mat)
	defer pool.Put(blend)

	xs, ys, zs := bx*BlockExtent, by*BlockExtent, bz*BlockExtent
	s.GetSurface(
		xs, xs+BlockExtent, 1,
		ys, ys+BlockExtent, 1,
		zs, zs+BlockExtent, 1,
		distF, mat, blend,
	)

	dist := make([]int8, BlockSampleCount)
	for i, d := range distF {
		dist[i] = ToGridDistValue(d)
	}

	blk := NewEmptyBlock(g.Blocks[idx].ID)
	blk.SetDistances(dist)
	blk.SetMaterials(mat)
	blk.SetBlends(blend)
	g.Blocks[idx] = blk
}

// BlockExtentsVoxels returns BlockExtent, satisfying cellcache.Source.
func (g *Grid) BlockExtentsVoxels() int { return BlockExtent }

// Dimensions returns the grid's block-space extents, satisfying
// cellcache.Source.
func (g *Grid) Dimensions() (blocksX, blocksY, blocksZ int) {
	return g.BlocksX, g.BlocksY, g.BlocksZ
}

// BlockDistances decompresses and returns the distance channel of the block
// at (bx,by,bz), satisfying cellcache.Source. Out-of-range coordinates
// return a uniform +DistanceClamp block, matching NewEmptyBlock.
func (g *Grid) BlockDistances(bx, by, bz int) []int8 {
	b := g.Block(bx, by, bz)
	if b == nil {
		out := make([]int8, BlockSampleCount)
		for i := range out {
			out[i] = DistanceClamp
		}
		return out
	}
	return b.Distances()
}

// BlockMaterialBlend decompresses and returns the material and blend
// channels of the block at (bx,by,bz), satisfying cellcache.Source.
func (g *Grid) BlockMaterialBlend(bx, by, bz int) (material, blend []uint8) {
	b := g.Block(bx, by, bz)
	if b == nil {
		mat := make([]uint8, BlockSampleCount)
		for i := range mat {
			mat[i] = EmptyMaterial
		}
		return mat, make([]uint8, BlockSampleCount)
	}
	return b.Materials(), b.Blends()
}

// Block returns the block at block coordinates (bx,by,bz), or nil if out of
// range.
func (g *Grid) Block(bx, by, bz int) *Block {
	if bx < 0 || by < 0 || bz < 0 || bx >= g.BlocksX || by >= g.BlocksY || bz >= g.BlocksZ {
		return nil
	}
	return g.Blocks[g.blockIndex(bx, by, bz)]
}

// IsBlockEmpty reports whether the block at (bx,by,bz) carries the Empty
// flag, matching the original's VoxelGrid::IsBlockEmpty. Out-of-range
// coordinates are reported empty, matching the clamped-neighbor convention
// the polygonizer relies on (internal/cellcache clamps before calling this).
func (g *Grid) IsBlockEmpty(bx, by, bz int) bool {
	b := g.Block(bx, by, bz)
	if b == nil {
		return true
	}
	return b.IsEmpty()
}

// InjectMode selects how InjectSurface combines new distance values with
// what is already stored, matching the original's Add/SubtractAddInner/
// Subtract modes.
type InjectMode int

const (
	InjectAdd InjectMode = iota
	InjectSubtractAddInner
	InjectSubtract
)

// InjectSurface combines a caller-supplied signed-distance field over voxel
// range [xStart,xEnd)x[yStart,yEnd)x[zStart,zEnd) into the grid using mode,
// and returns the AABB (in voxel coordinates, Y/Z already swapped to the
// external Y-up convention) of the region actually touched.
func (g *Grid) InjectSurface(xStart, xEnd, yStart, yEnd, zStart, zEnd int, mode InjectMode, values []float32) (minC, maxC [3]float32) {
	minC = [3]float32{float32(xEnd), float32(zEnd), float32(yEnd)}
	maxC = [3]float32{float32(xStart), float32(zStart), float32(yStart)}

	idx := 0
	for z := zStart; z < zEnd; z++ {
		for y := yStart; y < yEnd; y++ {
			for x := xStart; x < xEnd; x++ {
				newVal := values[idx]
				idx++
				cur := g.sampleDistance(x, y, z)
				var next float32
				switch mode {
				case InjectAdd:
					next = min32(float32(cur), newVal)
				case InjectSubtractAddInner:
					next = max32(float32(cur), newVal)
				case InjectSubtract:
					next = max32(-newVal, float32(cur))
				}
				g.setDistance(x, y, z, ToGridDistValue(next))

				if next != float32(cur) {
					fx, fy, fz := float32(x), float32(z), float32(y) // Y/Z swap on output
					minC[0] = min32(minC[0], fx)
					minC[1] = min32(minC[1], fy)
					minC[2] = min32(minC[2], fz)
					maxC[0] = max32(maxC[0], fx)
					maxC[1] = max32(maxC[1], fy)
					maxC[2] = max32(maxC[2], fz)
				}
			}
		}
	}
	return minC, maxC
}

// InjectMaterial stamps materialID on the voxels within (extent/2)*0.75 of
// center (voxel coordinates). A voxel that already carries materialID gets
// blendAmount added to its blend, capped at 255; any other voxel takes
// materialID with blend blendAmount (a voxel exactly at that radius only
// if it carries EmptyMaterial). The blend is constant across the stamped
// region; it does not fall off with distance from center.
func (g *Grid) InjectMaterial(center [3]float32, extent float32, materialID uint8, blendAmount uint8) {
	r := extent
	x0, x1 := int(center[0]-r), int(center[0]+r)
	y0, y1 := int(center[1]-r), int(center[1]+r)
	z0, z1 := int(center[2]-r), int(center[2]+r)
	extDiv2x075 := (extent / 2) * 0.75

	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx, dy, dz := float32(x)-center[0], float32(y)-center[1], float32(z)-center[2]
				length := sqrt32(dx*dx + dy*dy + dz*dz)
				dist := length / extDiv2x075
				if dist > 1 {
					continue
				}
				curMat, curBlend := g.sampleMaterialBlend(x, y, z)
				if curMat == materialID {
					nb := int(curBlend) + int(blendAmount)
					if nb > 255 {
						nb = 255
					}
					g.setMaterialBlend(x, y, z, materialID, uint8(nb))
				} else if curMat == EmptyMaterial || dist < 1 {
					g.setMaterialBlend(x, y, z, materialID, blendAmount)
				}
			}
		}
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
func sqrt32(v float32) float32 {
	// Newton's method seeded from the standard bit trick avoids pulling in
	// math.Sqrt's float64 round trip in a hot per-voxel loop.
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 8; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

func (g *Grid) voxelToBlock(x, y, z int) (bx, by, bz, lx, ly, lz int) {
	bx, lx = x/BlockExtent, x%BlockExtent
	by, ly = y/BlockExtent, y%BlockExtent
	bz, lz = z/BlockExtent, z%BlockExtent
	return
}

func (g *Grid) sampleDistance(x, y, z int) int8 {
	bx, by, bz, lx, ly, lz := g.voxelToBlock(x, y, z)
	b := g.Block(bx, by, bz)
	if b == nil {
		return DistanceClamp
	}
	return b.Distances()[VoxelIDInBlock(lx, ly, lz)]
}

func (g *Grid) setDistance(x, y, z int, v int8) {
	bx, by, bz, lx, ly, lz := g.voxelToBlock(x, y, z)
	b := g.Block(bx, by, bz)
	if b == nil {
		return
	}
	raw := b.Distances()
	raw[VoxelIDInBlock(lx, ly, lz)] = v
	b.SetDistances(raw)
}

func (g *Grid) sampleMaterialBlend(x, y, z int) (uint8, uint8) {
	bx, by, bz, lx, ly, lz := g.voxelToBlock(x, y, z)
	b := g.Block(bx, by, bz)
	if b == nil {
		return EmptyMaterial, 0
	}
	i := VoxelIDInBlock(lx, ly, lz)
	return b.Materials()[i], b.Blends()[i]
}

func (g *Grid) setMaterialBlend(x, y, z int, mat, blend uint8) {
	bx, by, bz, lx, ly, lz := g.voxelToBlock(x, y, z)
	b := g.Block(bx, by, bz)
	if b == nil {
		return
	}
	i := VoxelIDInBlock(lx, ly, lz)
	m := b.Materials()
	bl := b.Blends()
	m[i] = mat
	bl[i] = blend
	b.SetMaterials(m)
	b.SetBlends(bl)
}

// PackForSave serializes the grid to w as a little-endian blob: a u32
// version, the three u32 voxel dimensions, then for each block in order a
// u8 flags byte followed by its distance, material and blend payloads, each
// prefixed by its u32 byte length. There is no table of block sizes ahead
// of the block data; sizes appear only inline with each payload.
func (g *Grid) PackForSave(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, CurrentFileVersion); err != nil {
		return err
	}
	dims := [3]uint32{uint32(g.Width), uint32(g.Depth), uint32(g.Height)}
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		return err
	}
	for _, b := range g.Blocks {
		if err := writeBlock(w, b); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(w io.Writer, b *Block) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(b.Flags)); err != nil {
		return err
	}
	writeChan := func(raw []int8, compressed []byte, uncompressed bool) error {
		var payload []byte
		if uncompressed {
			payload = make([]byte, len(raw))
			for i, v := range raw {
				payload[i] = byte(v)
			}
		} else {
			payload = compressed
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
			return err
		}
		_, err := w.Write(payload)
		return err
	}
	writeChanU8 := func(raw []uint8, compressed []byte, uncompressed bool) error {
		var payload []byte
		if uncompressed {
			payload = raw
		} else {
			payload = compressed
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
			return err
		}
		_, err := w.Write(payload)
		return err
	}
	if err := writeChan(b.RawDistance, b.CompressedDistance, b.Flags&FlagDistanceUncompressed != 0); err != nil {
		return err
	}
	if err := writeChanU8(b.RawMaterial, b.CompressedMaterial, b.Flags&FlagMaterialUncompressed != 0); err != nil {
		return err
	}
	if err := writeChanU8(b.RawBlend, b.CompressedBlend, b.Flags&FlagBlendUncompressed != 0); err != nil {
		return err
	}
	return nil
}

// Load deserializes a grid previously written by PackForSave.
func Load(r io.Reader) (*Grid, error) {
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("gridstore: reading version: %w", err)
	}
	if version != CurrentFileVersion {
		return nil, fmt.Errorf("gridstore: version %d: %w", version, errUnsupportedVersion)
	}
	var dims [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("gridstore: reading dimensions: %w", err)
	}
	g, err := NewEmpty(int(dims[0]), int(dims[1]), int(dims[2]))
	if err != nil {
		return nil, err
	}
	for i := range g.Blocks {
		blk, err := readBlock(r, i)
		if err != nil {
			return nil, fmt.Errorf("gridstore: block %d: %w", i, err)
		}
		g.Blocks[i] = blk
	}
	return g, nil
}

func readBlock(r io.Reader, id int) (*Block, error) {
	var flagsByte uint8
	if err := binary.Read(r, binary.LittleEndian, &flagsByte); err != nil {
		return nil, err
	}
	flags := Flags(flagsByte)
	b := &Block{ID: id, Flags: flags}

	readPayload := func() ([]byte, error) {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	distPayload, err := readPayload()
	if err != nil {
		return nil, err
	}
	if flags&FlagDistanceUncompressed != 0 {
		raw := make([]int8, len(distPayload))
		for i, v := range distPayload {
			raw[i] = int8(v)
		}
		b.RawDistance = raw
	} else {
		b.CompressedDistance = distPayload
	}

	matPayload, err := readPayload()
	if err != nil {
		return nil, err
	}
	if flags&FlagMaterialUncompressed != 0 {
		b.RawMaterial = matPayload
	} else {
		b.CompressedMaterial = matPayload
	}

	blendPayload, err := readPayload()
	if err != nil {
		return nil, err
	}
	if flags&FlagBlendUncompressed != 0 {
		b.RawBlend = blendPayload
	} else {
		b.CompressedBlend = blendPayload
	}

	return b, nil
}
