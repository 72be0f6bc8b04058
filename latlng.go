package geodesic

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// InverseLatLng solves the inverse problem between two s2.LatLng values.
func (e *Ellipsoid) InverseLatLng(p1, p2 s2.LatLng) (InverseResult, error) {
	return e.Inverse(p1.Lat.Degrees(), p1.Lng.Degrees(), p2.Lat.Degrees(), p2.Lng.Degrees())
}

// InversePoints solves the inverse problem between two s2.Points, which are
// first converted to geodetic latitude and longitude.
func (e *Ellipsoid) InversePoints(a, b s2.Point) (InverseResult, error) {
	return e.InverseLatLng(s2.LatLngFromPoint(a), s2.LatLngFromPoint(b))
}

// DirectLatLng solves the direct problem from p on azimuth azi1 for a
// distance s12 (meters), returning the end point and the forward azimuth
// there.
func (e *Ellipsoid) DirectLatLng(p s2.LatLng, azi1 s1.Angle, s12 float64) (s2.LatLng, s1.Angle, error) {
	r, err := e.Direct(p.Lat.Degrees(), p.Lng.Degrees(), azi1.Degrees(), s12)
	if err != nil {
		return s2.LatLng{}, 0, err
	}
	return s2.LatLngFromDegrees(r.Lat2, r.Lon2), s1.Angle(r.Azi2) * s1.Degree, nil
}

// AddLatLng adds a vertex given as an s2.LatLng.
func (p *Polygon) AddLatLng(ll s2.LatLng) error {
	return p.AddPoint(ll.Lat.Degrees(), ll.Lng.Degrees())
}

// AddLoop adds every vertex of an s2.Loop in order. The loop's implicit
// closing edge is supplied by Compute.
func (p *Polygon) AddLoop(loop *s2.Loop) error {
	for _, v := range loop.Vertices() {
		if err := p.AddLatLng(s2.LatLngFromPoint(v)); err != nil {
			return err
		}
	}
	return nil
}
