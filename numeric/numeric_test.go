package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_Lerp_Identity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-1e6, 1e6).Draw(t, "a")
		b := rapid.Float64Range(-1e6, 1e6).Draw(t, "b")

		assert.Equal(t, a, Lerp(0, a, b))
		assert.Equal(t, b, Lerp(1, a, b))
	})
}

func Test_Smoothstep_Boundary(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0))
	assert.Equal(t, 1.0, Smoothstep(1))
}

func Test_Smoothstep_Monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v1 := rapid.Float64Range(0, 1).Draw(t, "v1")
		v2 := rapid.Float64Range(0, 1).Draw(t, "v2")
		if v1 > v2 {
			v1, v2 = v2, v1
		}
		assert.LessOrEqual(t, Smoothstep(v1), Smoothstep(v2))
	})
}

func Test_Clamp_Range(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1e6, 0).Draw(t, "lo")
		hi := rapid.Float64Range(0, 1e6).Draw(t, "hi")
		a := rapid.Float64Range(-1e9, 1e9).Draw(t, "a")

		result := Clamp(a, lo, hi)
		assert.GreaterOrEqual(t, result, lo)
		assert.LessOrEqual(t, result, hi)
	})
}

func Test_ClampedMap_Saturation(t *testing.T) {
	assert.Equal(t, 1.0, ClampedMap(-50, 0, 100, 1.0, 9.0))
	assert.Equal(t, 9.0, ClampedMap(200, 0, 100, 1.0, 9.0))
	assert.Equal(t, 5.0, ClampedMap(50, 0, 100, 1.0, 9.0))
}

func Test_Wrap_Periodicity(t *testing.T) {
	const period = float64(1 << 25)
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e8, 1e8).Draw(t, "v")

		w1 := Wrap(v)
		w2 := Wrap(v + period)

		assert.InDelta(t, w1, w2, 1e-6)
		assert.GreaterOrEqual(t, w1, 0.0)
		assert.Less(t, w1, period)
	})
}

func Test_Lerp3_CornerIdentity(t *testing.T) {
	// At (0,0,0) lerp3 must select the first corner exactly.
	got := Lerp3(0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	assert.Equal(t, 1.0, got)
	// At (1,1,1) it must select the last corner exactly.
	got = Lerp3(1, 1, 1, 1, 2, 3, 4, 5, 6, 7, 8)
	assert.Equal(t, 8.0, got)
}

func Test_InverseLerp_Roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(-100, 0).Draw(t, "x")
		y := rapid.Float64Range(1, 100).Draw(t, "y")
		frac := rapid.Float64Range(0, 1).Draw(t, "frac")

		pos := Lerp(frac, x, y)
		inv := InverseLerp(pos, x, y)
		assert.InDelta(t, frac, inv, 1e-9)
	})
}

func Test_Clamp_Matches_Math(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-5, 0, 10))
	assert.Equal(t, 10.0, Clamp(15, 0, 10))
}
