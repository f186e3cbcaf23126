package vm

import (
	"container/heap"
	"strconv"

	"github.com/google/uuid"
)

// argSkipTable, constSkipTable and noiseSkipTable record how many argument,
// constant and noise slots each FnType consumes. Validate consults
// argSkipTable to decide how many of a frame's argument slots to check for
// read-before-write; constSkipTable and noiseSkipTable are not consulted by
// Validate. The evaluator itself never consults any of these, trusting
// arg_types/constants_index per frame unconditionally on the hot path.
var argSkipTable = map[FnType]int{
	Add: 2, Mul: 2, Min: 2, Max: 2,
	Abs: 1, Square: 1, Cube: 1, HalfNegative: 1, QuarterNegative: 1, Squeeze: 1, Clamp: 1,
	YClampedGradient: 0,
	RangeChoice:      3,
	Noise:            0,
	ShiftedNoise:     3,
	Spline:           1, WeirdScaledSampler: 1, Interpolated: 1, BlendDensity: 1,
	CacheOnce: 1, FlatCache: 1, Cache2D: 1,
	ShiftA: 0, ShiftB: 0, OldBlendedNoise: 0,
}

var constSkipTable = map[FnType]int{
	Clamp: 2, YClampedGradient: 4, RangeChoice: 2, Noise: 2, ShiftedNoise: 2,
	Spline: 6, WeirdScaledSampler: 1, OldBlendedNoise: 5,
}

var noiseSkipTable = map[FnType]int{
	Noise: 1, ShiftedNoise: 1, WeirdScaledSampler: 1, ShiftA: 1, ShiftB: 1,
}

// frameWork is one entry in the validator's processing worklist: a frame
// index to visit, ordered so frames are checked in ascending stack_offset
// order regardless of how many distinct jump edges reach them.
type frameWork int

// frameQueue is a container/heap-backed min-priority worklist of pending
// frame indices, ordering frames for static liveness checking the same way
// a search frontier orders candidate nodes by cost.
type frameQueue []frameWork

func (q frameQueue) Len() int            { return len(q) }
func (q frameQueue) Less(i, j int) bool  { return q[i] < q[j] }
func (q frameQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *frameQueue) Push(x interface{}) { *q = append(*q, x.(frameWork)) }
func (q *frameQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Validate runs assertions a production build can skip once a program is
// known to be well-formed: every visited frame's reg_position is within the
// register file, every Min/Max/RangeChoice jump target names a real frame,
// every Spline frame's spline_type is 0, 1 or 2, and -- approximately, by
// walking frames in ascending stack_offset order and tracking which
// registers have been written by the time each frame runs -- every register
// read is dominated by a prior write. The ascending order walk is exact for
// straight-line and short-circuit programs (which only ever jump forward).
// Constant-pool and noise-table indices are not bounds-checked, and Spline's
// point-frame jump targets are not followed or checked.
func Validate(p *Program) error {
	frames := p.Frames
	written := make(map[uint8]bool)
	visited := make(map[int]bool)

	q := &frameQueue{0}
	heap.Init(q)

	if len(frames) == 0 {
		return &ValidationError{ProgramID: p.ID, Frame: 0, Reason: "program has no frames"}
	}

	for q.Len() > 0 {
		idx := int(heap.Pop(q).(frameWork))
		if visited[idx] {
			continue
		}
		visited[idx] = true

		f := &frames[idx]
		if int(f.RegPosition) >= RegisterCapacity {
			return &ValidationError{ProgramID: p.ID, Frame: idx, Reason: "reg_position exceeds register capacity"}
		}

		argCount := argSkipTable[f.FnType]
		for k := 0; k < argCount && k < 3; k++ {
			if f.ArgTypes[k] == Function && !written[uint8(f.ArgPositions[k])] {
				return &ValidationError{ProgramID: p.ID, Frame: idx, Reason: "register read before write"}
			}
		}

		written[f.RegPosition] = true

		switch f.FnType {
		case Min, Max:
			if p.ConstantArg(f, 0) == 0 {
				// target names the fallback frame and must be real; target+1
				// is where evaluation resumes afterward, which legitimately
				// runs off the end of the program when target is the last
				// frame, so it gets the lenient fallthrough treatment.
				target := int(p.ConstantArg(f, 2))
				if err := pushJump(q, visited, len(frames), target, p.ID); err != nil {
					return err
				}
				if resume := target + 1; resume < len(frames) && !visited[resume] {
					heap.Push(q, frameWork(resume))
				}
			}
		case RangeChoice:
			if p.ConstantArg(f, 0) == 0 {
				if err := pushJump(q, visited, len(frames), int(p.ConstantArg(f, 4)), p.ID); err != nil {
					return err
				}
				if err := pushJump(q, visited, len(frames), int(p.ConstantArg(f, 5)), p.ID); err != nil {
					return err
				}
			} else {
				if err := pushJump(q, visited, len(frames), int(p.ConstantArg(f, 1)), p.ID); err != nil {
					return err
				}
			}
		case Spline:
			// Spline's jump graph is computed dynamically from the point
			// layout encoded in the constant pool; validating every point
			// frame's exact target here would duplicate splinePrimary's
			// own binary search. Validate only confirms the frame's
			// spline_type names one of the three frame types; point-frame
			// jump targets are not checked.
			if st := int(p.ConstantArg(f, 0)); st < 0 || st > 2 {
				return &ValidationError{ProgramID: p.ID, Frame: idx, Reason: "unrecognized spline_type"}
			}
		}

		// A frame that falls off the end of the program simply terminates
		// evaluation; only explicit jump targets above are bounds-errors.
		if next := idx + 1; next < len(frames) && !visited[next] {
			heap.Push(q, frameWork(next))
		}
	}
	return nil
}

// pushJump validates an explicit short-circuit/dispatch target before
// queuing it; unlike the sequential idx+1 advance, a jump naming a frame
// outside the program is always a structural defect.
func pushJump(q *frameQueue, visited map[int]bool, frameCount, idx int, programID uuid.UUID) error {
	if idx < 0 || idx >= frameCount {
		return &ValidationError{ProgramID: programID, Frame: idx, Reason: "jump target out of range"}
	}
	if !visited[idx] {
		heap.Push(q, frameWork(idx))
	}
	return nil
}

// ValidationError reports a single structural defect found by Validate.
// ProgramID names which compiled program failed, so a caller validating
// several programs (or logging from a long-running service) can tell them
// apart without threading extra context through the error path.
type ValidationError struct {
	ProgramID uuid.UUID
	Frame     int
	Reason    string
}

func (e *ValidationError) Error() string {
	return "vm: program " + e.ProgramID.String() + ": invalid at frame " + strconv.Itoa(e.Frame) + ": " + e.Reason
}
