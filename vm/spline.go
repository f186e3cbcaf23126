package vm

import "github.com/rubinda/densityvm/numeric"

// splineCompute implements the three cooperating Spline frame types.
// Point frames (type 1) behave as coroutines resumed via
// stack_offset, with the Primary frame's own register slot serving as the
// return channel for the point_num selector it wrote -- the only place in
// this VM where a frame deliberately reads back a register slot that does
// not belong to it.
func splineCompute(s *EvalState) (float64, bool) {
	splineType := int(s.constantArg(0))
	switch splineType {
	case 0:
		return splinePrimary(s)
	case 1:
		return splinePoint(s)
	case 2:
		return s.stackArg(0), false
	default:
		// Not reachable from a compiler-produced program; treated as an
		// invalid-program condition rather than guessed at.
		logger.Warn().Str("program", s.bundle.Program.ID.String()).Int("spline_type", splineType).
			Msg("spline frame with unrecognized spline_type")
		return 0.0, false
	}
}

// splinePrimary performs the binary search over point X-locations to find
// the bracketing segment, then jumps into the point-frame coroutine chain.
func splinePrimary(s *EvalState) (float64, bool) {
	coord := s.stackArg(0)
	pointCount := int(s.constantArg(1))

	searchLen := pointCount
	searchIndex := 0
	for searchLen > 0 {
		halfLen := searchLen / 2
		mid := searchIndex + halfLen
		pointLocation := s.constantArg(mid + 3)
		if coord < pointLocation {
			searchLen = halfLen
		} else {
			searchIndex = mid + 1
			searchLen -= halfLen + 1
		}
	}
	searchIndex--

	s.skipResult = true
	myReg := s.frame().RegPosition

	switch {
	case searchIndex < 0:
		firstPointStack := int(s.constantArg(pointCount*2 + 3))
		s.registers[myReg] = 0.0
		s.stackOffset = firstPointStack
	case searchIndex == pointCount-1:
		pointStack := int(s.constantArg(pointCount*3 + 2))
		s.registers[myReg] = float64(searchIndex + 1)
		s.stackOffset = pointStack
	default:
		pointStack := int(s.constantArg(pointCount*2 + 4 + searchIndex))
		s.registers[myReg] = float64(searchIndex) + 1.0
		s.stackOffset = pointStack
	}
	return 0.0, true
}

// splinePoint is resumed via a jump from splinePrimary (or from a sibling
// point frame, when an interior point needs its successor's value first).
// It temporarily switches stack_offset back to the Primary frame to read
// the point_num bookkeeping the Primary wrote, then either returns a
// linear extrapolation (boundary points) or the classic Hermite-like
// interpolation (interior points), finishing by handing control back to
// the Primary's continuation with skip_result set. An interior point frame
// whose own index equals the final-point stack slot instead returns its
// linear extension as an ordinary result, without jumping or setting
// skip_result.
func splinePoint(s *EvalState) (float64, bool) {
	oldStackOffset := s.stackOffset
	value := s.stackArg(0)

	splineStackPos := int(s.constantArg(1))
	s.stackOffset = splineStackPos

	pointNum := int(s.registers[s.frame().RegPosition])
	coord := s.stackArg(0)
	numOfPoints := int(s.constantArg(1))
	initStackPos := int(s.constantArg(2))

	switch {
	case pointNum == 0:
		pointDeriv := s.constantArg(numOfPoints + 3 + pointNum)
		pointLocation := s.constantArg(3 + pointNum)
		s.registers[s.frame().RegPosition] = linearExtIfNonZero(coord, pointDeriv, pointLocation, value)
		s.stackOffset = initStackPos
		s.skipResult = true
		return 0.0, true

	case pointNum == numOfPoints:
		pointDeriv := s.constantArg(numOfPoints + 2 + pointNum)
		pointLocation := s.constantArg(2 + pointNum)
		s.registers[s.frame().RegPosition] = linearExtIfNonZero(coord, pointDeriv, pointLocation, value)
		s.stackOffset = initStackPos
		s.skipResult = true
		return 0.0, true

	default:
		pointDeriv := s.constantArg(numOfPoints + 2 + pointNum)
		pointLocation := s.constantArg(2 + pointNum)
		finalPointStack := int(s.constantArg(numOfPoints*2 + 3 + (pointNum - 1)))

		if oldStackOffset != finalPointStack {
			nextPointDeriv := s.constantArg(numOfPoints + 3 + pointNum)
			nextPointLocation := s.constantArg(3 + pointNum)
			nextPointStack := int(s.constantArg(numOfPoints*2 + 2 + pointNum))
			s.stackOffset = nextPointStack

			nextPointValue := s.stackArg(0)
			distance := nextPointLocation - pointLocation
			position := (coord - pointLocation) / distance
			valueDistance := nextPointValue - value
			val1 := pointDeriv*distance - valueDistance
			val2 := -nextPointDeriv*distance + valueDistance

			newVal := numeric.Lerp(position, value, nextPointValue) +
				(position*(1.0-position))*numeric.Lerp(position, val1, val2)

			s.registers[s.bundle.Program.Frames[splineStackPos].RegPosition] = newVal
			s.stackOffset = initStackPos
			s.skipResult = true
			return newVal, true
		}

		// The point before us hasn't been computed yet: keep the current
		// stack position so the caller's own point frame runs next.
		s.stackOffset = oldStackOffset
		return linearExtIfNonZero(coord, pointDeriv, pointLocation, value), false
	}
}

// linearExtIfNonZero extends a boundary point's value linearly by its
// derivative, or returns it unchanged when the derivative is zero.
func linearExtIfNonZero(x, derivative, location, value float64) float64 {
	if derivative == 0.0 {
		return value
	}
	return value + derivative*(x-location)
}
