package noise

import "github.com/rubinda/densityvm/numeric"

// PerlinNoise describes one octave stack: a contiguous run of
// NoiseCount ImprovedNoise octaves starting at DataPosition in the shared
// noise-level table, combined with doubling input scale and halving value
// scale starting from LowestInputFactor/LowestValFactor.
type PerlinNoise struct {
	NoiseCount        uint8
	DataPosition      uint16
	LowestValFactor   float64
	LowestInputFactor float64
}

// Levels holds the shared, immutable octave and amplitude tables a
// PerlinNoise indexes into. Every PerlinNoise sampled within one evaluation
// batch shares the same Levels.
type Levels struct {
	Octaves    []ImprovedNoise
	Amplitudes []float64
}

// GetPerlinVal accumulates this stack's octaves at (x, y, z). Disabled
// octaves are skipped but still advance input_factor/value_factor so every
// octave's contribution stays aligned with its position in the stack.
func (p *PerlinNoise) GetPerlinVal(levels *Levels, x, y, z float64) float64 {
	value := 0.0
	inputFactor := p.LowestInputFactor
	valueFactor := p.LowestValFactor
	for i := 0; i < int(p.NoiseCount); i++ {
		idx := int(p.DataPosition) + i
		octave := &levels.Octaves[idx]
		if !octave.Disabled {
			value += levels.Amplitudes[idx] * valueFactor * octave.Generate(
				numeric.Wrap(x*inputFactor),
				numeric.Wrap(y*inputFactor),
				numeric.Wrap(z*inputFactor),
				0.0,
				0.0,
			)
		}
		inputFactor *= 2.0
		valueFactor /= 2.0
	}
	return value
}

// GetPerlinLevel returns the octave `level` positions from the end of this
// stack's run -- octaves are addressed in reverse order, a quirk used only
// by OldBlendedNoise.
func (p *PerlinNoise) GetPerlinLevel(levels *Levels, level int) *ImprovedNoise {
	idx := int(p.DataPosition) + int(p.NoiseCount) - level - 1
	return &levels.Octaves[idx]
}
