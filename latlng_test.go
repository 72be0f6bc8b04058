package geodesic

import (
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverseLatLng(t *testing.T) {
	jfk := s2.LatLngFromDegrees(40.6, -73.8)
	cdg := s2.LatLngFromDegrees(49.01666667, 2.55)
	got, err := WGS84.InverseLatLng(jfk, cdg)
	require.NoError(t, err)
	want, err := WGS84.Inverse(jfk.Lat.Degrees(), jfk.Lng.Degrees(), cdg.Lat.Degrees(), cdg.Lng.Degrees())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.InDelta(t, 5853226, got.S12, 0.5)

	pts, err := WGS84.InversePoints(s2.PointFromLatLng(jfk), s2.PointFromLatLng(cdg))
	require.NoError(t, err)
	assert.InDelta(t, got.S12, pts.S12, 1e-6)
	assert.InDelta(t, got.Azi1, pts.Azi1, 1e-9)

	_, err = WGS84.InverseLatLng(s2.LatLngFromDegrees(91, 0), cdg)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDirectLatLng(t *testing.T) {
	start := s2.LatLngFromDegrees(10, 20)
	end, azi2, err := WGS84.DirectLatLng(start, 45*s1.Degree, 1e6)
	require.NoError(t, err)
	want, err := WGS84.Direct(10, 20, 45, 1e6)
	require.NoError(t, err)
	assert.InDelta(t, want.Lat2, end.Lat.Degrees(), 1e-12)
	assert.InDelta(t, want.Lon2, end.Lng.Degrees(), 1e-12)
	assert.InDelta(t, want.Azi2, azi2.Degrees(), 1e-12)
}

func TestPolygonAddLoop(t *testing.T) {
	corners := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	byPoint := WGS84.NewPolygon(false)
	points := make([]s2.Point, 0, len(corners))
	for _, c := range corners {
		require.NoError(t, byPoint.AddPoint(c[0], c[1]))
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(c[0], c[1])))
	}

	byLoop := WGS84.NewPolygon(false)
	require.NoError(t, byLoop.AddLoop(s2.LoopFromPoints(points)))
	a := byPoint.Compute(false, true)
	b := byLoop.Compute(false, true)
	assert.Equal(t, 4, b.Count)
	assert.InDelta(t, a.Perimeter, b.Perimeter, 1e-6)
	assert.InDelta(t, a.Area, b.Area, 1)
	assert.Greater(t, b.Area, 0.0)

	ll := WGS84.NewPolygon(true)
	require.NoError(t, ll.AddLatLng(s2.LatLngFromDegrees(0, 0)))
	require.NoError(t, ll.AddLatLng(s2.LatLngFromDegrees(0, 1)))
	assert.InDelta(t, 111319.491, ll.Compute(false, true).Perimeter, 1e-3)
}
