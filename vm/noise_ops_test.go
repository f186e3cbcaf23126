package vm

import (
	"testing"

	"github.com/rubinda/densityvm/noise"
	"github.com/stretchr/testify/assert"
)

func simpleVanilla() *InputBundle {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i)
	}
	levels := noise.Levels{
		Octaves: []noise.ImprovedNoise{
			*noise.NewImprovedNoise(0, 0, 0, values),
			*noise.NewImprovedNoise(1, 1, 1, values),
		},
		Amplitudes: []float64{1.0, 0.5},
	}
	vanilla := noise.VanillaNoise{
		Noises: [2]noise.PerlinNoise{
			{NoiseCount: 1, DataPosition: 0, LowestValFactor: 1.0, LowestInputFactor: 1.0},
			{NoiseCount: 1, DataPosition: 1, LowestValFactor: 1.0, LowestInputFactor: 1.0},
		},
		ValFactor: 1.0,
		ValMax:    1.0,
	}
	return &InputBundle{NoiseStates: []noise.VanillaNoise{vanilla}, Levels: levels}
}

func Test_ShiftA_Symmetry(t *testing.T) {
	bundle := simpleVanilla()
	f := StackFrame{FnType: ShiftA, NoiseIndex: 0}
	p := NewProgram([]StackFrame{f}, nil)
	bundle.Program = p
	s := NewEvalState(bundle)
	s.stackOffset = 0
	s.x, s.y, s.z = 0, 0, 0

	got, jumped := compute(s, &p.Frames[0])
	assert.False(t, jumped)

	want := 4.0 * s.getVanillaVal(0, 0, 0)
	assert.Equal(t, want, got)
}

func Test_ShiftA_ShiftB_AxisSwap(t *testing.T) {
	bundle := simpleVanilla()
	frames := []StackFrame{
		{FnType: ShiftA, NoiseIndex: 0},
		{FnType: ShiftB, NoiseIndex: 0},
	}
	p := NewProgram(frames, nil)
	bundle.Program = p
	s := NewEvalState(bundle)
	s.x, s.y, s.z = 8, 0, 4

	s.stackOffset = 0
	shiftA, _ := compute(s, &p.Frames[0])

	s.stackOffset = 1
	shiftB, _ := compute(s, &p.Frames[1])

	// ShiftA samples (x/4, 0, z/4) while ShiftB permutes the axes to
	// (z/4, x/4, 0); check ShiftB against that permuted point directly.
	wantB := 4.0 * s.getVanillaVal(float64(s.z)*0.25, float64(s.x)*0.25, 0.0)
	assert.Equal(t, wantB, shiftB)
	assert.NotEqual(t, shiftA, 0.0) // sanity: the fixture noise isn't degenerately flat
}

func Test_Noise_Deterministic(t *testing.T) {
	bundle := simpleVanilla()
	f := StackFrame{FnType: Noise, NoiseIndex: 0, ConstantsIndex: 0}
	p := NewProgram([]StackFrame{f}, []float64{0.25, 0.5})
	bundle.Program = p
	s := NewEvalState(bundle)
	s.stackOffset = 0
	s.x, s.y, s.z = 12, -5, 40

	a, _ := compute(s, &p.Frames[0])
	b, _ := compute(s, &p.Frames[0])
	assert.Equal(t, a, b)
}

func Test_WeirdScaledSampler_RarityDispatch(t *testing.T) {
	bundle := simpleVanilla()
	f := StackFrame{FnType: WeirdScaledSampler, NoiseIndex: 0, ConstantsIndex: 0,
		ArgTypes:     [3]ArgSource{Constant},
		ArgPositions: [3]uint16{1}}
	p := NewProgram([]StackFrame{f}, []float64{0, -0.6}) // mapper_type=3D, input=-0.6 -> rarity 0.75
	bundle.Program = p
	s := NewEvalState(bundle)
	s.stackOffset = 0
	s.x, s.y, s.z = 3, 3, 3

	got, _ := compute(s, &p.Frames[0])
	want := 0.75 * absFloat(s.getVanillaVal(float64(s.x)/0.75, float64(s.y)/0.75, float64(s.z)/0.75))
	assert.Equal(t, want, got)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// blendedNoiseBundle builds octave stacks large enough for
// OldBlendedNoise's reverse-indexed lookups: an 8-octave accumulator
// (Noises[1]) and a 16-octave clamp probe (Noises[0]).
func blendedNoiseBundle() *InputBundle {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i)
	}
	octaves := make([]noise.ImprovedNoise, 16)
	amplitudes := make([]float64, 16)
	for i := range octaves {
		octaves[i] = *noise.NewImprovedNoise(float64(i), float64(i)*2, float64(i)*3, values)
		amplitudes[i] = 1.0
	}
	levels := noise.Levels{Octaves: octaves, Amplitudes: amplitudes}
	vanilla := noise.VanillaNoise{
		Noises: [2]noise.PerlinNoise{
			{NoiseCount: 16, DataPosition: 0, LowestValFactor: 1.0, LowestInputFactor: 1.0},
			{NoiseCount: 8, DataPosition: 0, LowestValFactor: 1.0, LowestInputFactor: 1.0},
		},
		ValFactor: 1.0,
		ValMax:    1.0,
	}
	return &InputBundle{NoiseStates: []noise.VanillaNoise{vanilla}, Levels: levels}
}

func Test_OldBlendedNoise_Operator_Deterministic(t *testing.T) {
	bundle := blendedNoiseBundle()
	f := StackFrame{FnType: OldBlendedNoise, NoiseIndex: 0, ConstantsIndex: 0}
	p := NewProgram([]StackFrame{f}, []float64{1.0, 80.0, 1.0, 160.0, 1.0})
	bundle.Program = p
	s := NewEvalState(bundle)
	s.stackOffset = 0
	s.x, s.y, s.z = 5, 10, 15

	a, _ := compute(s, &p.Frames[0])
	b, _ := compute(s, &p.Frames[0])
	assert.Equal(t, a, b)
}
