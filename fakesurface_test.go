package voxels

// sphereSurface is a test Surface implementation: a solid sphere of the
// given radius centered at center, in internal (Z-up) voxel coordinates.
type sphereSurface struct {
	center      [3]float32
	radius      float32
	materialID  uint8
	blendAmount uint8
}

func (s sphereSurface) GetSurface(
	xStart, xEnd, xStep int,
	yStart, yEnd, yStep int,
	zStart, zEnd, zStep int,
	output []float32,
	materialID []uint8,
	blend []uint8,
) {
	idx := 0
	for z := zStart; z < zEnd; z += zStep {
		for y := yStart; y < yEnd; y += yStep {
			for x := xStart; x < xEnd; x += xStep {
				dx := float32(x) - s.center[0]
				dy := float32(y) - s.center[1]
				dz := float32(z) - s.center[2]
				dist := sqrtf(dx*dx+dy*dy+dz*dz) - s.radius
				output[idx] = dist
				if dist < 0 {
					materialID[idx] = s.materialID
					blend[idx] = s.blendAmount
				} else {
					materialID[idx] = EmptyMaterial
					blend[idx] = 0
				}
				idx++
			}
		}
	}
}

// planeSurface splits the grid along x+y+z == threshold: negative on one
// side, positive on the other.
type planeSurface struct {
	threshold float32
}

func (p planeSurface) GetSurface(
	xStart, xEnd, xStep int,
	yStart, yEnd, yStep int,
	zStart, zEnd, zStep int,
	output []float32,
	materialID []uint8,
	blend []uint8,
) {
	idx := 0
	for z := zStart; z < zEnd; z += zStep {
		for y := yStart; y < yEnd; y += yStep {
			for x := xStart; x < xEnd; x += xStep {
				output[idx] = float32(x+y+z) - p.threshold
				materialID[idx] = EmptyMaterial
				blend[idx] = 0
				idx++
			}
		}
	}
}

func sqrtf(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 10; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// fakeMaterialMap answers GetMaterial for a fixed set of known ids.
type fakeMaterialMap struct {
	known map[uint8]Material
}

func (f fakeMaterialMap) GetMaterial(id uint8) (Material, bool) {
	m, ok := f.known[id]
	return m, ok
}
