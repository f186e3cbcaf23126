// Package noise implements the layered Perlin/"improved" noise machinery
// that density-function operators sample: a single-octave improved-noise
// kernel (this file), an octave-accumulating Perlin stack, and the
// dual-Perlin vanilla/old-blended composites built on top of it.
package noise

import (
	"math"

	"github.com/rubinda/densityvm/numeric"
)

// simplexGradient is the fixed 16-entry gradient table used to dot-product
// against the fractional lattice offset at each of the eight corners of a
// unit cube. The last four rows duplicate rows 0, 9, 1 and 11 respectively
// -- a legacy quirk that must be preserved bit for bit rather than "cleaned
// up" into 12 unique directions.
var simplexGradient = [16][3]int8{
	{1, 1, 0},
	{-1, 1, 0},
	{1, -1, 0},
	{-1, -1, 0},
	{1, 0, 1},
	{-1, 0, 1},
	{1, 0, -1},
	{-1, 0, -1},
	{0, 1, 1},
	{0, -1, 1},
	{0, 1, -1},
	{0, -1, -1},
	{1, 1, 0},
	{0, -1, 1},
	{-1, 1, 0},
	{0, -1, -1},
}

// ImprovedNoise is a single permutation-table octave: three coordinate
// offsets plus a 256-entry byte permutation. Disabled octaves are skipped by
// the Perlin stack (see perlin.go) but still occupy a slot in the shared
// noise-level table so indices stay aligned across octaves.
type ImprovedNoise struct {
	X, Y, Z  float64
	Values   [256]byte
	Disabled bool
}

// NewImprovedNoise builds an octave from an explicit permutation table. The
// table is copied; callers retain ownership of the slice they pass in.
func NewImprovedNoise(x, y, z float64, values []byte) *ImprovedNoise {
	n := &ImprovedNoise{X: x, Y: y, Z: z}
	copy(n.Values[:], values)
	return n
}

// index looks a permutation entry up modulo 256 and masks it unsigned.
func (n *ImprovedNoise) index(i int) int {
	return int(n.Values[i&0xFF])
}

// Generate samples this octave at (x, y, z). val1/val2 drive the optional Y
// "fade" used by OldBlendedNoise; ordinary Perlin-stack octaves always pass
// 0, 0, which disables the fade branch entirely.
func (n *ImprovedNoise) Generate(x, y, z, val1, val2 float64) float64 {
	x += n.X
	y += n.Y
	z += n.Z

	xFloor := int(math.Floor(x))
	yFloor := int(math.Floor(y))
	zFloor := int(math.Floor(z))
	x -= float64(xFloor)
	y -= float64(yFloor)
	z -= float64(zFloor)

	var yOffset float64
	if val1 != 0.0 {
		v := y
		if val2 >= 0.0 && val2 < y {
			v = val2
		}
		yOffset = y - val1*math.Floor(v/val1+1.0e-7)
	} else {
		yOffset = y
	}

	return n.samplePlusLerp(xFloor, yFloor, zFloor, x, y, z, yOffset)
}

// samplePlusLerp hashes the eight lattice corners of the unit cube
// surrounding (xFloor, yFloor, zFloor) through three permutation cascades,
// dot-products each corner's gradient with its offset vector, and
// trilinearly interpolates the eight results with the quintic smoothstep
// curve on each axis.
func (n *ImprovedNoise) samplePlusLerp(xFloor, yFloor, zFloor int, x, y, z, yOffset float64) float64 {
	val1 := n.index(xFloor)
	val2 := n.index(xFloor + 1)
	val3 := n.index(yFloor+val1) & 0xFF
	val4 := n.index(yFloor+val1+1) & 0xFF
	val5 := n.index(yFloor+val2) & 0xFF
	val6 := n.index(yFloor+val2+1) & 0xFF

	val7 := n.index(zFloor+val3) & 0xF
	val8 := n.index(zFloor+val5) & 0xF
	val9 := n.index(zFloor+val4) & 0xF
	val10 := n.index(zFloor+val6) & 0xF
	val11 := n.index(zFloor+val3+1) & 0xF
	val12 := n.index(zFloor+val5+1) & 0xF
	val13 := n.index(zFloor+val4+1) & 0xF
	val14 := n.index(zFloor+val6+1) & 0xF

	grad := simplexGradient
	dot := func(g int, gx, gy, gz float64) float64 {
		return float64(grad[g][0])*gx + float64(grad[g][1])*gy + float64(grad[g][2])*gz
	}

	x1 := dot(val7, x, yOffset, z)
	y1 := dot(val8, x-1.0, yOffset, z)
	x2 := dot(val9, x, yOffset-1.0, z)
	y2 := dot(val10, x-1.0, yOffset-1.0, z)
	x3 := dot(val11, x, yOffset, z-1.0)
	y3 := dot(val12, x-1.0, yOffset, z-1.0)
	x4 := dot(val13, x, yOffset-1.0, z-1.0)
	y4 := dot(val14, x-1.0, yOffset-1.0, z-1.0)

	return numeric.Lerp3(numeric.Smoothstep(x), numeric.Smoothstep(y), numeric.Smoothstep(z), x1, y1, x2, y2, x3, y3, x4, y4)
}
