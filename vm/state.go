package vm

import "github.com/rubinda/densityvm/noise"

// RegisterCapacity is the fixed size of the per-evaluation register file,
// large enough to hold every compiled program this VM is expected to run.
const RegisterCapacity = 80

// terminated is the stack_offset sentinel meaning "no more frames to run."
const terminated = -1

// InputBundle is the read-only collection of shared tables bound once
// before a batch of evaluations: the compiled Program, the VanillaNoise
// descriptors it may reference by NoiseIndex, and the improved-noise/
// amplitude tables those descriptors' Perlin stacks index into.
type InputBundle struct {
	Program     *Program
	NoiseStates []noise.VanillaNoise
	Levels      noise.Levels
}

// EvalState is the private, mutable evaluation context for one sample.
// Nothing in EvalState is shared across concurrently evaluating samples;
// the InputBundle it points to is immutable for the batch's duration.
type EvalState struct {
	bundle *InputBundle

	x, y, z int32

	stackOffset int
	skipResult  bool

	registers [RegisterCapacity]float64
}

// NewEvalState returns a fresh evaluation context bound to bundle. The
// register file starts zeroed; the compiler guarantees every register is
// written before it is ever read, so the zero value is never observed.
func NewEvalState(bundle *InputBundle) *EvalState {
	return &EvalState{bundle: bundle}
}

// Reset rebinds the state to a new coordinate without reallocating,
// letting callers pull EvalStates from a sync.Pool across a batch.
func (s *EvalState) Reset(x, y, z int32) {
	s.x, s.y, s.z = x, y, z
	s.stackOffset = 0
	s.skipResult = false
	s.registers = [RegisterCapacity]float64{}
}

func (s *EvalState) frame() *StackFrame {
	return &s.bundle.Program.Frames[s.stackOffset]
}

// stackArg implements get_stack_arg: the k-th logical argument of the
// currently executing frame, sourced from the constant pool or the
// register file depending on ArgTypes[k].
func (s *EvalState) stackArg(k int) float64 {
	f := s.frame()
	pos := f.ArgPositions[k]
	if f.ArgTypes[k] == Constant {
		return s.bundle.Program.Constants[pos]
	}
	return s.registers[pos]
}

// constantArg implements get_constant_arg: the k-th operator-specific
// constant of the currently executing frame.
func (s *EvalState) constantArg(k int) float64 {
	f := s.frame()
	return s.bundle.Program.Constants[int(f.ConstantsIndex)+k]
}

// vanillaNoise resolves the VanillaNoise bound to the currently executing
// frame's NoiseIndex.
func (s *EvalState) vanillaNoise() *noise.VanillaNoise {
	f := s.frame()
	return &s.bundle.NoiseStates[f.NoiseIndex]
}

func (s *EvalState) getVanillaVal(x, y, z float64) float64 {
	return s.vanillaNoise().GetVanillaVal(&s.bundle.Levels, x, y, z)
}
