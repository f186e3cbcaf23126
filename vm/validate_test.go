package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Validate_AcceptsWellFormedProgram(t *testing.T) {
	frames := []StackFrame{
		{FnType: Add, RegPosition: 0,
			ArgTypes:     [3]ArgSource{Constant, Constant},
			ArgPositions: [3]uint16{0, 1}},
		{FnType: Square, RegPosition: 1,
			ArgTypes:     [3]ArgSource{Function},
			ArgPositions: [3]uint16{0}},
	}
	p := NewProgram(frames, []float64{2.0, 3.0})

	assert.NoError(t, Validate(p))
}

func Test_Validate_RejectsReadBeforeWrite(t *testing.T) {
	frames := []StackFrame{
		{FnType: Square, RegPosition: 0,
			ArgTypes:     [3]ArgSource{Function},
			ArgPositions: [3]uint16{7}}, // register 7 never written by any prior frame
	}
	p := NewProgram(frames, nil)

	err := Validate(p)
	assert.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Frame)
}

func Test_Validate_RejectsOutOfRangeJumpTarget(t *testing.T) {
	frames := []StackFrame{
		{FnType: Min, RegPosition: 0, ConstantsIndex: 0,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{3}},
	}
	// target (constant[2]) names a frame index past the end of the program.
	p := NewProgram(frames, []float64{0, 2.0, 99, 1.0})

	assert.Error(t, Validate(p))
}

func Test_Validate_MinShortCircuitFollowsBothBranches(t *testing.T) {
	frames := []StackFrame{
		{FnType: Min, RegPosition: 0, ConstantsIndex: 0,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{3}},
		{FnType: Interpolated, RegPosition: 1,
			ArgTypes:     [3]ArgSource{Constant},
			ArgPositions: [3]uint16{4}},
	}
	p := NewProgram(frames, []float64{0, 2.0, 1, 1.0, 5.0})

	assert.NoError(t, Validate(p))
}
