package noise

import "github.com/rubinda/densityvm/numeric"

// secondaryScale is the fixed ratio the second Perlin stack of a
// VanillaNoise is sampled at relative to the first.
const secondaryScale = 1.0181268882175227

// VanillaNoise composes two PerlinNoise octave stacks (primary and a
// secondary sampled at secondaryScale) into the noise most density
// operators consume.
type VanillaNoise struct {
	Noises   [2]PerlinNoise
	ValFactor float64
	ValMax    float64
}

// GetVanillaVal samples both stacks and combines them per ValFactor.
func (v *VanillaNoise) GetVanillaVal(levels *Levels, x, y, z float64) float64 {
	return (v.Noises[0].GetPerlinVal(levels, x, y, z) +
		v.Noises[1].GetPerlinVal(levels, x*secondaryScale, y*secondaryScale, z*secondaryScale)) * v.ValFactor
}

// OldBlendedNoise is the legacy 8+16-octave blended sampler. smearScaleMultiplier,
// xzFactor, xzMult and yFactor/yMult are the operator's derived constants
// (see vm's OldBlendedNoise operator, which multiplies the two raw scale
// constants it reads from the program by 684.412 before calling here).
// old is always noise_states[0]: both loops pull octaves out of its two
// Perlin stacks (Noises[1] for the 8-octave accumulator, Noises[0] for the
// 16-octave clamp probe), independent of which frame's noise_index is
// bound -- this hardcoding is intentional, not a bug, and is preserved as
// the operator's documented behavior.
func OldBlendedNoise(levels *Levels, old *VanillaNoise, x, y, z int, smearScaleMultiplier, xzFactor, xzMult, yFactor, yMult float64) float64 {
	blockXMul := float64(x) * xzMult
	blockYMul := float64(y) * yMult
	blockZMul := float64(z) * xzMult
	blockXFact := blockXMul / xzFactor
	blockYFact := blockYMul / yFactor
	blockZFact := blockZMul / xzFactor
	ySmear := yMult * smearScaleMultiplier
	ySmearFactor := ySmear / yFactor

	noiseAcc := 0.0
	acc := 1.0
	for i := 0; i < 8; i++ {
		generator := old.Noises[1].GetPerlinLevel(levels, i)
		noiseAcc += generator.Generate(
			numeric.Wrap(blockXFact*acc),
			numeric.Wrap(blockYFact*acc),
			numeric.Wrap(blockZFact*acc),
			ySmearFactor*acc,
			blockYFact*acc,
		) / acc
		acc /= 2.0
	}

	noiseResult := (1.0 + noiseAcc/10.0) / 2.0

	minNoiseAcc := 0.0
	maxNoiseAcc := 0.0
	acc = 1.0
	for i := 0; i < 16; i++ {
		blockXWrap := numeric.Wrap(blockXMul * acc)
		blockYWrap := numeric.Wrap(blockYMul * acc)
		blockZWrap := numeric.Wrap(blockZMul * acc)
		ySmearAdj := ySmear * acc
		blockYAdj := blockYMul * acc
		limit := old.Noises[0].GetPerlinLevel(levels, i)

		if noiseResult < 1.0 {
			minNoiseAcc += limit.Generate(blockXWrap, blockYWrap, blockZWrap, ySmearAdj, blockYAdj) / acc
		}
		// Both branches intentionally sample the same generator with the
		// same arguments -- this looks like a copy-paste bug but is
		// preserved as documented behavior.
		if noiseResult > 0.0 {
			maxNoiseAcc += limit.Generate(blockXWrap, blockYWrap, blockZWrap, ySmearAdj, blockYAdj) / acc
		}
		acc /= 2.0
	}

	switch {
	case noiseResult < 0.0:
		return minNoiseAcc / float64(int(1)<<16)
	case noiseResult > 1.0:
		return maxNoiseAcc / float64(int(1)<<16)
	default:
		return numeric.Lerp(noiseResult, minNoiseAcc/512.0, maxNoiseAcc/512.0) / 128.0
	}
}
