// Package densityvm evaluates compiled density-function programs at world
// coordinates, composing the vm (stack-frame interpreter) and noise
// (Perlin/improved-noise sampler) packages behind a single external surface.
//
// @author David Rubin, 2020
package densityvm

import (
	"github.com/rubinda/densityvm/noise"
	"github.com/rubinda/densityvm/vm"
)

// Location is a single evaluation coordinate in full 3D block space.
type Location struct {
	X, Y, Z int32
}

// Bundle is the external, read-only input to an evaluation batch: a
// compiled Program plus the noise tables its operators may sample. Bundle
// wraps vm.InputBundle so callers outside this module never import vm
// directly for the common case.
type Bundle struct {
	inner vm.InputBundle
}

// NewBundle wires a compiled program to the noise tables it references by
// NoiseIndex. noiseStates and levels must stay alive and unmodified for the
// lifetime of every Evaluator built from this Bundle.
func NewBundle(program *vm.Program, noiseStates []noise.VanillaNoise, levels noise.Levels) *Bundle {
	return &Bundle{inner: vm.InputBundle{
		Program:     program,
		NoiseStates: noiseStates,
		Levels:      levels,
	}}
}

// Evaluator evaluates many samples against one Bundle without reallocating
// its register file per call -- the long-lived counterpart to the
// package-level Evaluate convenience function, intended to be pulled one per
// worker out of a pool when fanning a coordinate grid across goroutines.
type Evaluator struct {
	state *vm.EvalState
}

// NewEvaluator binds a fresh Evaluator to bundle.
func NewEvaluator(bundle *Bundle) *Evaluator {
	return &Evaluator{state: vm.NewEvalState(&bundle.inner)}
}

// Evaluate returns the density value at loc.
func (e *Evaluator) Evaluate(loc Location) float64 {
	return e.state.Evaluate(loc.X, loc.Y, loc.Z)
}

// Evaluate is a package-level convenience entry point: bind a throwaway
// Evaluator to bundle and evaluate a single sample. Callers evaluating many
// samples against the same bundle should keep an Evaluator (one per
// goroutine, or pulled from a sync.Pool) around instead.
func Evaluate(bundle *Bundle, loc Location) float64 {
	return NewEvaluator(bundle).Evaluate(loc)
}

// Validate runs the debug-mode static checks described in vm.Validate
// against bundle's Program.
func Validate(bundle *Bundle) error {
	return vm.Validate(bundle.inner.Program)
}
