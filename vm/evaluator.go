package vm

// Evaluate steps frames in increasing stack_offset order starting at 0
// until stack_offset runs past the program:
//
//  1. Read frame F = program[stack_offset].
//  2. Invoke the operator selected by F.FnType.
//  3. Write the result to arg_register[F.RegPosition] unless skip_result is
//     set (in which case clear it and skip the write).
//  4. If the operator did not itself mutate stack_offset, advance by 1.
//
// It returns the final frame's result register -- the sample's density.
func (s *EvalState) Evaluate(x, y, z int32) float64 {
	s.Reset(x, y, z)

	frames := s.bundle.Program.Frames
	for s.stackOffset >= 0 && s.stackOffset < len(frames) {
		f := &frames[s.stackOffset]
		result, jumped := compute(s, f)

		if s.skipResult {
			s.skipResult = false
		} else {
			s.registers[f.RegPosition] = result
		}

		if !jumped {
			s.stackOffset++
		}
	}

	last := &frames[len(frames)-1]
	return s.registers[last.RegPosition]
}

// Evaluate is the package-level convenience entry point: bind a fresh
// EvalState to bundle and evaluate one sample. Callers evaluating
// many samples against the same bundle should keep an EvalState (or a
// sync.Pool of them) around and call EvalState.Evaluate directly instead,
// to avoid reallocating the register file per sample.
func Evaluate(bundle *InputBundle, x, y, z int32) float64 {
	return NewEvalState(bundle).Evaluate(x, y, z)
}
