package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Evaluate_SplineIdentityAtKnot builds a 2-point spline (locations
// x0=0, x1=10; values v0=5, v1=8; both derivatives 0) and evaluates it
// exactly at x0. At that knot the interpolation fraction is 0, so the
// Hermite blend degenerates to the left value exactly, regardless of the
// (here zero) derivatives.
//
// Frame layout:
//
//	0: Spline primary        -- dispatches to frame 2 for coord=x0
//	1: frame peeked for v1   -- never executes via the dispatch loop;
//	   its stack_arg(0) is read directly while frame 2 borrows its
//	   stack_offset to fetch the neighboring point's value
//	2: Spline point          -- computes the Hermite blend, writes the
//	   result into frame 0's register, jumps to frame 3
//	3: passthrough           -- final frame; returns frame 0's register
func Test_Evaluate_SplineIdentityAtKnot(t *testing.T) {
	const (
		idxPrimary      = 0
		idxPeerFrame    = 1
		idxPoint        = 2
		idxContinuation = 3
	)

	frames := []StackFrame{
		idxPrimary: {FnType: Spline, RegPosition: 0, ConstantsIndex: 0,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{9}},
		idxPeerFrame: {FnType: Interpolated, RegPosition: 1,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{13}},
		idxPoint: {FnType: Spline, RegPosition: 2, ConstantsIndex: 10,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{12}},
		idxContinuation: {FnType: Interpolated, RegPosition: 5,
			ArgTypes:     [3]ArgSource{Function},
			ArgPositions: [3]uint16{0}},
	}

	constants := []float64{
		0,               // [0] primary: spline_type = primary
		2,               // [1] primary: point_count
		idxContinuation, // [2] primary: continuation frame after spline
		0.0,             // [3] x0
		10.0,            // [4] x1
		0.0,             // [5] d0
		0.0,             // [6] d1
		idxPeerFrame,    // [7] boundary-left / peer-point stack index
		idxPoint,        // [8] interior/boundary-right point stack index
		0.0,             // [9] coord -- evaluated exactly at x0
		1,               // [10] point frame: spline_type = point
		idxPrimary,      // [11] point frame: spline_stack_pos
		5.0,             // [12] v0, this point frame's own raw value
		8.0,             // [13] v1, the peer frame's own raw value
	}

	bundle := &InputBundle{Program: NewProgram(frames, constants)}
	got := Evaluate(bundle, 0, 0, 0)
	assert.InDelta(t, 5.0, got, 1e-9)
}
