package vm

import (
	"math"

	"github.com/rubinda/densityvm/noise"
	"github.com/rubinda/densityvm/numeric"
)

// compute invokes the operator named by frame f against state, returning
// its scalar result and whether the operator itself rewrote stack_offset
// (a short-circuit or spline jump) -- in which case the dispatch loop in
// evaluator.go must not auto-advance the instruction pointer.
func compute(s *EvalState, f *StackFrame) (float64, bool) {
	switch f.FnType {
	case Add:
		return s.stackArg(0) + s.stackArg(1), false
	case Mul:
		return s.stackArg(0) * s.stackArg(1), false
	case Min:
		return minCompute(s)
	case Max:
		return maxCompute(s)
	case Abs:
		return math.Abs(s.stackArg(0)), false
	case Square:
		v := s.stackArg(0)
		return v * v, false
	case Cube:
		v := s.stackArg(0)
		return v * v * v, false
	case HalfNegative:
		v := s.stackArg(0)
		if v > 0.0 {
			return v, false
		}
		return v * 0.5, false
	case QuarterNegative:
		v := s.stackArg(0)
		if v > 0.0 {
			return v, false
		}
		return v * 0.25, false
	case Squeeze:
		return squeeze(s.stackArg(0)), false
	case Clamp:
		lo := s.constantArg(0)
		hi := s.constantArg(1)
		return numeric.Clamp(s.stackArg(0), lo, hi), false
	case YClampedGradient:
		fromY := s.constantArg(0)
		toY := s.constantArg(1)
		fromV := s.constantArg(2)
		toV := s.constantArg(3)
		return numeric.ClampedMap(float64(s.y), fromY, toY, fromV, toV), false
	case RangeChoice:
		return rangeChoiceCompute(s)
	case Noise:
		return noiseCompute(s), false
	case ShiftedNoise:
		return shiftedNoiseCompute(s), false
	case Spline:
		return splineCompute(s)
	case WeirdScaledSampler:
		return weirdScaledSamplerCompute(s), false
	case Interpolated, BlendDensity, CacheOnce, FlatCache, Cache2D:
		return s.stackArg(0), false
	case BlendOffset:
		return 0.0, false
	case BlendAlpha:
		return 1.0, false
	case ShiftA:
		return shiftACompute(s), false
	case ShiftB:
		return shiftBCompute(s), false
	case OldBlendedNoise:
		return oldBlendedNoiseCompute(s), false
	case EndIslands:
		return 1.0, false
	default:
		return 0.0, false
	}
}

// squeeze maps a clamp([-1,1]) input through the cubic "squeeze" curve;
// over the clamped domain the result stays within [-11/24, 11/24].
func squeeze(value float64) float64 {
	c := numeric.Clamp(value, -1.0, 1.0)
	return c/2.0 - (c*c*c)/24.0
}

// minCompute implements Min's two modes. Mode 0 ("Primary") short-circuits
// the fallback frame when the precomputed bound proves it unreachable;
// mode 1 ("Fallback") computes both operands directly.
func minCompute(s *EvalState) (float64, bool) {
	minType := s.constantArg(0)
	if minType == 0 {
		arg1 := s.stackArg(0)
		bound := s.constantArg(1)
		if arg1 <= bound {
			// target is the fallback frame's own index; pre-write its
			// register and resume one frame past it, since stack_offset
			// here always names the frame that executes next (no implicit
			// post-jump increment).
			target := int(s.constantArg(2))
			s.registers[s.bundle.Program.Frames[target].RegPosition] = arg1
			s.stackOffset = target + 1
			return arg1, true
		}
		return arg1, false
	}
	arg1 := s.stackArg(0)
	arg2 := s.stackArg(1)
	if arg1 < arg2 {
		return arg1, false
	}
	return arg2, false
}

// maxCompute is Min's mirror image.
func maxCompute(s *EvalState) (float64, bool) {
	maxType := s.constantArg(0)
	if maxType == 0 {
		arg1 := s.stackArg(0)
		bound := s.constantArg(1)
		if arg1 >= bound {
			// target is the fallback frame's own index; pre-write its
			// register and resume one frame past it, since stack_offset
			// here always names the frame that executes next (no implicit
			// post-jump increment).
			target := int(s.constantArg(2))
			s.registers[s.bundle.Program.Frames[target].RegPosition] = arg1
			s.stackOffset = target + 1
			return arg1, true
		}
		return arg1, false
	}
	arg1 := s.stackArg(0)
	arg2 := s.stackArg(1)
	if arg1 > arg2 {
		return arg1, false
	}
	return arg2, false
}

// rangeChoiceCompute implements RangeChoice's two modes: mode 0 dispatches
// to one of two branch frames depending on whether the input falls in
// [min_inclusive, max_exclusive); mode 1 is the "Return" continuation that
// forwards a branch's result back past the dispatch frame.
func rangeChoiceCompute(s *EvalState) (float64, bool) {
	rangeType := s.constantArg(0)
	if rangeType == 0 {
		minInclusive := s.constantArg(1)
		maxExclusive := s.constantArg(2)
		switchArgs := s.constantArg(3) != 0
		input := s.stackArg(0)

		inRangeIdx, outOfRangeIdx := 4, 5
		if switchArgs {
			inRangeIdx, outOfRangeIdx = 5, 4
		}
		if input >= minInclusive && input < maxExclusive {
			s.stackOffset = int(s.constantArg(inRangeIdx))
		} else {
			s.stackOffset = int(s.constantArg(outOfRangeIdx))
		}
		return 0.0, true
	}
	result := s.stackArg(0)
	s.stackOffset = int(s.constantArg(1))
	return result, true
}

func noiseCompute(s *EvalState) float64 {
	xzScale := s.constantArg(0)
	yScale := s.constantArg(1)
	return s.getVanillaVal(float64(s.x)*xzScale, float64(s.y)*yScale, float64(s.z)*xzScale)
}

func shiftedNoiseCompute(s *EvalState) float64 {
	xzScale := s.constantArg(0)
	yScale := s.constantArg(1)
	xArg := int(s.constantArg(2))
	yArg := int(s.constantArg(3))
	zArg := int(s.constantArg(4))
	shiftedX := float64(s.x)*xzScale + s.stackArg(xArg)
	shiftedY := float64(s.y)*yScale + s.stackArg(yArg)
	shiftedZ := float64(s.z)*xzScale + s.stackArg(zArg)
	return s.getVanillaVal(shiftedX, shiftedY, shiftedZ)
}

func shiftACompute(s *EvalState) float64 {
	return 4.0 * s.getVanillaVal(float64(s.x)*0.25, 0.0, float64(s.z)*0.25)
}

func shiftBCompute(s *EvalState) float64 {
	return 4.0 * s.getVanillaVal(float64(s.z)*0.25, float64(s.x)*0.25, 0.0)
}

// spaghettiRarity3D/2D are the step-function rarity tables WeirdScaledSampler
// consults.
func spaghettiRarity3D(value float64) float64 {
	switch {
	case value < -0.5:
		return 0.75
	case value < 0.0:
		return 1.0
	case value < 0.5:
		return 1.5
	default:
		return 2.0
	}
}

func spaghettiRarity2D(value float64) float64 {
	switch {
	case value < -0.75:
		return 0.5
	case value < -0.5:
		return 0.75
	case value < 0.5:
		return 1.0
	case value < 0.75:
		return 2.0
	default:
		return 3.0
	}
}

func weirdScaledSamplerCompute(s *EvalState) float64 {
	mapperType := s.constantArg(0)
	input := s.stackArg(0)
	var rarity float64
	if mapperType == 0 {
		rarity = spaghettiRarity3D(input)
	} else {
		rarity = spaghettiRarity2D(input)
	}
	return rarity * math.Abs(s.getVanillaVal(float64(s.x)/rarity, float64(s.y)/rarity, float64(s.z)/rarity))
}

func oldBlendedNoiseCompute(s *EvalState) float64 {
	smearScaleMultiplier := s.constantArg(0)
	xzFactor := s.constantArg(1)
	xzMult := s.constantArg(2) * 684.412
	yFactor := s.constantArg(3)
	yMult := s.constantArg(4) * 684.412
	old := &s.bundle.NoiseStates[0]
	return noise.OldBlendedNoise(&s.bundle.Levels, old, int(s.x), int(s.y), int(s.z), smearScaleMultiplier, xzFactor, xzMult, yFactor, yMult)
}
