// Package vm implements the stack-frame virtual machine that interprets a
// compiled density-function program: a linear sequence of StackFrames, each
// invoking one operator and writing its scalar result into a private
// register file, with Min/Max/RangeChoice/Spline able to rewrite the
// instruction pointer for short-circuit and reentrant control flow.
package vm

import "github.com/google/uuid"

// FnType selects which operator a StackFrame invokes. Values match the
// 28-entry operator ID table of the external interface one-for-one.
type FnType uint8

const (
	Add FnType = iota
	Mul
	Min
	Max
	Abs
	Square
	Cube
	HalfNegative
	QuarterNegative
	Squeeze
	Clamp
	YClampedGradient
	RangeChoice
	Noise
	ShiftedNoise
	Spline
	WeirdScaledSampler
	Interpolated
	BlendDensity
	BlendOffset
	BlendAlpha
	CacheOnce
	FlatCache
	Cache2D
	ShiftA
	ShiftB
	OldBlendedNoise
	EndIslands
)

// ArgSource selects where a logical argument slot's value comes from.
type ArgSource uint8

const (
	// Constant sources from the shared constant pool.
	Constant ArgSource = iota
	// Function sources from the private register file.
	Function
)

// StackFrame is one executable step of a compiled Program.
type StackFrame struct {
	FnType FnType
	// RegPosition is the register file slot this frame's result is written
	// to, unless the operator suppresses the write (skip-result) or
	// pre-writes a different frame's slot as part of a short-circuit.
	RegPosition uint8
	// ArgTypes/ArgPositions together describe up to three logical
	// arguments: for each k, ArgTypes[k] says which table ArgPositions[k]
	// indexes into.
	ArgTypes     [3]ArgSource
	ArgPositions [3]uint16
	// ConstantsIndex is the base offset into the constant pool for this
	// frame's operator-specific constants (distinct from ArgPositions).
	ConstantsIndex uint16
	// NoiseIndex selects which VanillaNoise this frame's noise-consuming
	// operator samples.
	NoiseIndex uint8
}

// Program is a read-only, compiled sequence of StackFrames plus its
// constant pool. Program instances are immutable for the lifetime of an
// evaluation batch and may be shared across concurrently evaluating
// samples.
type Program struct {
	// ID names this compiled program for logging and debug-validator
	// diagnostics; it carries no runtime meaning to the evaluator itself.
	ID        uuid.UUID
	Frames    []StackFrame
	Constants []float64
}

// NewProgram wraps frames and constants into a named, immutable Program.
func NewProgram(frames []StackFrame, constants []float64) *Program {
	return &Program{ID: uuid.New(), Frames: frames, Constants: constants}
}

// ConstantArg returns the k-th operator-specific constant of frame f, i.e.
// Constants[f.ConstantsIndex+k].
func (p *Program) ConstantArg(f *StackFrame, k int) float64 {
	return p.Constants[int(f.ConstantsIndex)+k]
}
