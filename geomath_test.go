package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSincosdExact(t *testing.T) {
	for _, tt := range []struct {
		x, s, c float64
	}{
		{0, 0, 1},
		{30, 0.5, math.Sqrt(3) / 2},
		{90, 1, 0},
		{-90, -1, 0},
		{180, 0, -1},
		{270, -1, 0},
		{-630, 1, 0},
		{720, 0, 1},
	} {
		s, c := sincosd(tt.x)
		assert.InDelta(t, tt.s, s, 1e-15, "sin %v", tt.x)
		assert.InDelta(t, tt.c, c, 1e-15, "cos %v", tt.x)
	}
	s, c := sincosd(math.Inf(1))
	assert.True(t, math.IsNaN(s) && math.IsNaN(c))
}

func TestAtan2d(t *testing.T) {
	assert.Equal(t, 90.0, atan2d(1, 0))
	assert.Equal(t, -90.0, atan2d(-1, 0))
	assert.Equal(t, 180.0, atan2d(0, -1))
	assert.InDelta(t, 45, atan2d(1, 1), 1e-13)
	assert.InDelta(t, -135, atan2d(-1, -1), 1e-13)
}

func TestAngleNormalization(t *testing.T) {
	assert.Equal(t, 180.0, angNormalize(-180))
	assert.Equal(t, 180.0, angNormalize(540))
	assert.Equal(t, -180.0, lonNormalize(180))
	assert.Equal(t, 10.0, lonNormalize(370))

	d, e := angDiff(170, -170)
	assert.Equal(t, 20.0, d)
	assert.Zero(t, e)
	d, _ = angDiff(-170, 170)
	assert.Equal(t, -20.0, d)

	assert.Zero(t, angRound(1e-200))
	assert.Equal(t, 45.0, angRound(45))
	assert.Equal(t, -0.5, angRound(-0.5))
}

func TestPolyval(t *testing.T) {
	p := []float64{9, 2, -3, 1}
	assert.Equal(t, 2*4.0-3*2+1, polyval(2, p, 1, 2))
	assert.Zero(t, polyval(-1, p, 0, 2))
}

func TestAccumulator(t *testing.T) {
	var a accumulator
	a.set(1)
	a.add(1e-20)
	a.add(-1)
	assert.Equal(t, 1e-20, a.sum(0))
	a.negate()
	assert.Equal(t, -1e-20, a.s)

	a.set(725)
	a.remainder(360)
	assert.Equal(t, 5.0, a.s)
}
