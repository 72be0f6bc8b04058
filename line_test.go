package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineMatchesDirect(t *testing.T) {
	l, err := WGS84.Line(40.63972222, -73.77888889, 53.5)
	require.NoError(t, err)
	assert.Equal(t, 40.63972222, l.Latitude())
	assert.Equal(t, -73.77888889, l.Longitude())
	assert.Equal(t, 53.5, l.Azimuth())
	for _, s := range []float64{-2e7, -1e6, -1, 0, 1e-3, 1, 1e3, 5850e3, 1e7, 3e7} {
		got, err := l.PositionWith(s, All)
		require.NoError(t, err)
		want, err := WGS84.DirectWith(40.63972222, -73.77888889, 53.5, s, All)
		require.NoError(t, err)
		assert.Equal(t, want, got, "s12 %v", s)
	}
}

func TestLineLongUnroll(t *testing.T) {
	l, err := WGS84.Line(40, -75, -10)
	require.NoError(t, err)
	r, err := l.PositionWith(2e7, LongUnroll)
	require.NoError(t, err)
	assert.InDelta(t, -39, r.Lat2, 1)
	assert.InDelta(t, -254, r.Lon2, 1)
	assert.InDelta(t, -170, r.Azi2, 1)
}

func TestLineMonotonic(t *testing.T) {
	quarter := WGS84.Radius() * math.Pi / 2
	for _, azi := range []float64{0, 30, 90, 135, 180, -60} {
		l, err := WGS84.Line(-20, 33, azi)
		require.NoError(t, err)
		prev := -1.0
		for s := 0.0; s <= quarter; s += quarter / 200 {
			p, err := l.Position(s)
			require.NoError(t, err)
			inv, err := WGS84.Inverse(-20, 33, p.Lat2, p.Lon2)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, inv.S12, prev, "azi %v s %v", azi, s)
			assert.InDelta(t, s, inv.S12, 1e-6, "azi %v s %v", azi, s)
			prev = inv.S12

			// and going backwards
			p, err = l.Position(-s)
			require.NoError(t, err)
			inv, err = WGS84.Inverse(-20, 33, p.Lat2, p.Lon2)
			require.NoError(t, err)
			assert.InDelta(t, s, inv.S12, 1e-6, "azi %v s %v", azi, -s)
		}
	}
}

func TestLineArcPosition(t *testing.T) {
	l, err := WGS84.Line(10, 20, 30)
	require.NoError(t, err)
	p, err := l.Position(4e6)
	require.NoError(t, err)
	a, err := l.ArcPosition(p.A12, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4e6, a.S12, 1e-6)
	assert.InDelta(t, p.Lat2, a.Lat2, 1e-12)
	assert.InDelta(t, p.Lon2, a.Lon2, 1e-12)
	assert.InDelta(t, p.Azi2, a.Azi2, 1e-12)
}

func TestInverseLineInterpolate(t *testing.T) {
	l, err := WGS84.InverseLine(40.6, -73.8, 49.01666667, 2.55)
	require.NoError(t, err)
	s13, ok := l.Distance()
	require.True(t, ok)
	assert.InDelta(t, 5853226, s13, 0.5)
	a13, ok := l.Arc()
	require.True(t, ok)
	assert.Greater(t, a13, 0.0)
	assert.InDelta(t, 53.47022, l.Azimuth(), 0.5e-5)

	end, err := l.Interpolate(1)
	require.NoError(t, err)
	assert.InDelta(t, 49.01666667, end.Lat2, 1e-9)
	assert.InDelta(t, 2.55, end.Lon2, 1e-9)

	mid, err := l.Interpolate(0.5)
	require.NoError(t, err)
	h1, err := WGS84.Inverse(40.6, -73.8, mid.Lat2, mid.Lon2)
	require.NoError(t, err)
	h2, err := WGS84.Inverse(mid.Lat2, mid.Lon2, 49.01666667, 2.55)
	require.NoError(t, err)
	assert.InDelta(t, s13/2, h1.S12, 1e-6)
	assert.InDelta(t, s13/2, h2.S12, 1e-6)

	start, err := l.Interpolate(0)
	require.NoError(t, err)
	assert.Equal(t, 40.6, start.Lat2)
	assert.Equal(t, -73.8, start.Lon2)
}

func TestDirectLine(t *testing.T) {
	l, err := WGS84.DirectLine(1, 2, 45, 1e6)
	require.NoError(t, err)
	s13, ok := l.Distance()
	require.True(t, ok)
	assert.Equal(t, 1e6, s13)
	a13, _ := l.Arc()
	d, err := WGS84.Direct(1, 2, 45, 1e6)
	require.NoError(t, err)
	assert.Equal(t, d.A12, a13)

	p, err := l.Interpolate(1)
	require.NoError(t, err)
	assert.Equal(t, d, p)
}

func TestLineWithoutReference(t *testing.T) {
	l, err := WGS84.Line(1, 2, 3)
	require.NoError(t, err)
	_, ok := l.Distance()
	assert.False(t, ok)
	_, ok = l.Arc()
	assert.False(t, ok)
	_, err = l.Interpolate(0.5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = l.Position(math.NaN())
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = l.ArcPosition(math.Inf(-1), 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestLineEquatorCrossing(t *testing.T) {
	// An equatorial start heading north-east crosses the equator at the
	// starting point with the same azimuth.
	l, err := WGS84.Line(0, 0, 45)
	require.NoError(t, err)
	assert.InDelta(t, 45, l.EquatorialAzimuth(), 1e-12)
	assert.InDelta(t, 0, l.EquatorialArc(), 1e-12)

	// The equatorial azimuth is constant along the line (Clairaut).
	l2, err := WGS84.Line(30, 0, 45)
	require.NoError(t, err)
	p, err := l2.Position(3e6)
	require.NoError(t, err)
	l3, err := WGS84.Line(p.Lat2, p.Lon2, p.Azi2)
	require.NoError(t, err)
	assert.InDelta(t, l2.EquatorialAzimuth(), l3.EquatorialAzimuth(), 1e-11)
	assert.InDelta(t, p.A12, l3.EquatorialArc()-l2.EquatorialArc(), 1e-9)
}

func TestLineIsValue(t *testing.T) {
	l, err := WGS84.DirectLine(10, 10, 10, 5e5)
	require.NoError(t, err)
	copyL := l
	_, err = l.Position(1e6)
	require.NoError(t, err)
	assert.Equal(t, copyL, l)
}
