package geodesic

import "math"

// WGS84 conforming ellipsoid
// https://en.wikipedia.org/wiki/World_Geodetic_System
var WGS84 = mustEllipsoid(6378137, 1/298.257223563)

// International is the 1924 International (Hayford) ellipsoid.
var International = mustEllipsoid(6378388, 1/297.0)

// Globe is a pre-initialized spherical representing Earth as a
// terrestrial globe.
var Globe = mustSpherical(6378137)

const (
	maxIt1 = 20                   // Newton steps before falling back to bisection
	maxIt2 = maxIt1 + digits + 10 // total cap on inverse iterations
	tol0   = epsilon              // ~1 ulp for a number in [0, pi]
	tol1   = 200 * tol0           // strip width near the antipodal cut
	tol2   = 0x1p-26              // sqrt(tol0)
	tolb   = tol0 * tol2          // bisection termination
	tiny   = 0x1p-511             // sqrt(smallest normal)
	xthres = 1000 * tol2          // astroid threshold
)

// Outputs selects the optional quantities computed by the *With variants of
// Direct, Inverse and the Line position queries. Latitude, longitude,
// azimuths, distance and arc length are always computed.
type Outputs uint

const (
	// ReducedLength requests the reduced length m12 (meters).
	ReducedLength Outputs = 1 << iota
	// GeodesicScale requests the geodesic scales M12 and M21.
	GeodesicScale
	// Area requests S12, the area between the geodesic and the equator.
	Area
	// LongUnroll makes Direct report lon2 unrolled, i.e. lon2 - lon1 is
	// the signed number of degrees the geodesic wraps around the earth.
	LongUnroll

	outDistance // internal: distance in the lengths helper

	// Differentials requests the reduced length and the geodesic scales.
	Differentials = ReducedLength | GeodesicScale
	// All requests every optional quantity except LongUnroll.
	All = Differentials | Area
)

// Optional is a quantity that is only present when it was requested.
type Optional struct {
	Value float64
	Valid bool
}

func some(v float64) Optional { return Optional{Value: v, Valid: true} }

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

// DirectResult is the solution of a direct problem, or a position along a
// Line.
type DirectResult struct {
	Lat2 float64 // latitude of point 2 (degrees)
	Lon2 float64 // longitude of point 2 (degrees)
	Azi2 float64 // (forward) azimuth at point 2 (degrees)
	S12  float64 // distance from point 1 to point 2 (meters)
	A12  float64 // arc length on the auxiliary sphere (degrees)

	ReducedLength Optional // m12 (meters)
	Scale12       Optional // M12, dimensionless
	Scale21       Optional // M21, dimensionless
	Area          Optional // S12 (meters-squared)
}

// InverseResult is the solution of an inverse problem.
type InverseResult struct {
	Azi1 float64 // azimuth at point 1 (degrees)
	Azi2 float64 // (forward) azimuth at point 2 (degrees)
	S12  float64 // distance from point 1 to point 2 (meters)
	A12  float64 // arc length on the auxiliary sphere (degrees)

	ReducedLength Optional // m12 (meters)
	Scale12       Optional // M12
	Scale21       Optional // M21
	Area          Optional // S12 (meters-squared)

	// Iterations reports the work done by the iterative solver. It is
	// diagnostic only.
	Iterations Iterations
}

// Iterations counts the steps taken by the inverse solver. Both counts are
// zero for the cases solved in closed form.
type Iterations struct {
	Newton    int
	Bisection int
}

// Total is the number of evaluations of the longitude function beyond the
// first.
func (it Iterations) Total() int { return it.Newton + it.Bisection }

// Ellipsoid is an object for performing geodesic operations. It is
// immutable and safe for concurrent use.
type Ellipsoid struct {
	a, f      float64 // equatorial radius and flattening
	f1        float64 // 1 - f
	e2        float64 // eccentricity squared
	ep2       float64 // second eccentricity squared
	n         float64 // third flattening
	b         float64 // polar semi-axis
	c2        float64 // authalic radius squared
	etol2     float64 // "really short" threshold for sig12
	series    seriesTables
	spherical bool
}

// NewEllipsoid initializes a new geodesic ellipsoid object.
//
// Param radius is the equatorial radius (meters).
// Param flattening is the flattening factor of the ellipsoid. Zero gives a
// sphere and a negative value a prolate ellipsoid.
//
// The error is ErrInvalidParameter if radius is not finite and positive or
// flattening is not finite and less than one.
//
// The WGS84 package-level variable is a pre-initialized ellipsoid
// representing Earth.
func NewEllipsoid(radius, flattening float64) (*Ellipsoid, error) {
	const op = "NewEllipsoid"
	if !(isFinite(radius) && radius > 0) {
		return nil, invalidParam(op, "radius", radius, "equatorial radius is not positive")
	}
	if !(isFinite(flattening) && flattening < 1) {
		return nil, invalidParam(op, "flattening", flattening, "must be finite and less than 1")
	}
	b := radius * (1 - flattening)
	if !(isFinite(b) && b > 0) {
		return nil, invalidParam(op, "flattening", flattening, "polar semi-axis is not positive")
	}
	e := &Ellipsoid{a: radius, f: flattening, b: b}
	e.f1 = 1 - e.f
	e.e2 = e.f * (2 - e.f)
	e.ep2 = e.e2 / sq(e.f1)
	e.n = e.f / (2 - e.f)
	e.c2 = (sq(e.a) + sq(e.b)*authalicFactor(e.e2)) / 2
	// The sig12 threshold for "really short". Using the auxiliary sphere
	// solution with dnm computed at (bet1 + bet2) / 2, the relative error in
	// the azimuth consistency check is sig12^2 * abs(f) * min(1, 1-f/2) / 2.
	// Setting this equal to epsilon gives sig12 = etol2. Here 0.1 is a
	// safety factor and max(0.001, abs(f)) stops etol2 getting too large in
	// the nearly spherical case.
	e.etol2 = 0.1 * tol2 / math.Sqrt(math.Max(0.001, math.Abs(e.f))*math.Min(1, 1-e.f/2)/2)
	e.series = newSeriesTables(e.n)
	return e, nil
}

// authalicFactor returns atanh(e)/e for e = sqrt(e2), continued to
// prolate ellipsoids as atan(sqrt(-e2))/sqrt(-e2).
func authalicFactor(e2 float64) float64 {
	switch {
	case e2 == 0:
		return 1
	case e2 > 0:
		return math.Atanh(math.Sqrt(e2)) / math.Sqrt(e2)
	default:
		return math.Atan(math.Sqrt(-e2)) / math.Sqrt(-e2)
	}
}

// NewEllipsoidInverseFlattening is like NewEllipsoid but takes the inverse
// flattening 1/f, as ellipsoids are usually published. A value whose
// magnitude is less than one is taken to be the flattening itself; zero
// or an infinite value gives a sphere; a negative value a prolate
// ellipsoid.
func NewEllipsoidInverseFlattening(radius, invFlattening float64) (*Ellipsoid, error) {
	if math.IsNaN(invFlattening) {
		return nil, invalidParam("NewEllipsoidInverseFlattening", "inverse flattening", invFlattening, "not a number")
	}
	return NewEllipsoid(radius, flatteningOf(invFlattening))
}

func flatteningOf(invf float64) float64 {
	switch {
	case invf == 0 || math.IsInf(invf, 0):
		return 0
	case math.Abs(invf) < 1:
		return invf
	default:
		return 1 / invf
	}
}

// NewSpherical initializes a new geodesic ellipsoid object that uses
// simplified operations on a sphere.
//
// The Inverse and Direct operations will often be more computationally
// efficient than NewEllipsoid because it uses simpler great-circle
// calculations such as the Haversine formula. Requests for differential
// quantities or areas are served by the full solver with zero flattening.
//
// Param radius is the equatorial radius (meters).
//
// The Globe package-level variable is a pre-initialized spherical
// representing Earth as a terrestrial globe.
func NewSpherical(radius float64) (*Ellipsoid, error) {
	e, err := NewEllipsoid(radius, 0)
	if err != nil {
		return nil, err
	}
	e.spherical = true
	return e, nil
}

func mustEllipsoid(radius, flattening float64) *Ellipsoid {
	e, err := NewEllipsoid(radius, flattening)
	if err != nil {
		panic(err)
	}
	return e
}

func mustSpherical(radius float64) *Ellipsoid {
	e, err := NewSpherical(radius)
	if err != nil {
		panic(err)
	}
	return e
}

// Radius of the Ellipsoid
func (e *Ellipsoid) Radius() float64 {
	return e.a
}

// Flattening of the Ellipsoid
func (e *Ellipsoid) Flattening() float64 {
	return e.f
}

// PolarRadius returns the polar semi-axis b = a(1 - f).
func (e *Ellipsoid) PolarRadius() float64 {
	return e.b
}

// AuthalicRadiusSquared returns c^2, the square of the radius of the
// sphere with the same area as the ellipsoid.
func (e *Ellipsoid) AuthalicRadiusSquared() float64 {
	return e.c2
}

// Area returns the total surface area of the ellipsoid (meters-squared).
func (e *Ellipsoid) Area() float64 {
	return 4 * math.Pi * e.c2
}

// Spherical returns true if the ellipsoid was initialized using NewSpherical.
func (e *Ellipsoid) Spherical() bool {
	return e.spherical
}

// Inverse solves the inverse geodesic problem.
//
// Param lat1 is latitude of point 1 (degrees).
// Param lon1 is longitude of point 1 (degrees).
// Param lat2 is latitude of point 2 (degrees).
// Param lon2 is longitude of point 2 (degrees).
//
// lat1 and lat2 should be in the range [-90,+90]; otherwise, and for
// non-finite longitudes, the error is ErrOutOfRange. The values of Azi1
// and Azi2 returned are in the range (-180,+180].
//
// The solution to the inverse problem is found using Newton's method. If
// this fails to converge (this is very unlikely in geodetic applications
// but does occur for very eccentric ellipsoids), then the bisection method
// is used to refine the solution. If the iteration cap is reached, the best
// estimate is returned.
func (e *Ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64) (InverseResult, error) {
	return e.InverseWith(lat1, lon1, lat2, lon2, 0)
}

// InverseWith is like Inverse but also computes the optional quantities
// selected by want.
func (e *Ellipsoid) InverseWith(lat1, lon1, lat2, lon2 float64, want Outputs) (InverseResult, error) {
	const op = "Inverse"
	if err := checkLat(op, "lat1", lat1); err != nil {
		return InverseResult{}, err
	}
	if err := checkFinite(op, "lon1", lon1); err != nil {
		return InverseResult{}, err
	}
	if err := checkLat(op, "lat2", lat2); err != nil {
		return InverseResult{}, err
	}
	if err := checkFinite(op, "lon2", lon2); err != nil {
		return InverseResult{}, err
	}
	if e.spherical && want&All == 0 {
		return e.sphericalInverse(lat1, lon1, lat2, lon2), nil
	}
	sol := e.genInverse(lat1, lon1, lat2, lon2, want)
	r := InverseResult{
		Azi1:       atan2d(sol.salp1, sol.calp1),
		Azi2:       atan2d(sol.salp2, sol.calp2),
		S12:        sol.s12,
		A12:        sol.a12,
		Iterations: sol.iter,
	}
	if want&ReducedLength != 0 {
		r.ReducedLength = some(sol.m12)
	}
	if want&GeodesicScale != 0 {
		r.Scale12 = some(sol.M12)
		r.Scale21 = some(sol.M21)
	}
	if want&Area != 0 {
		r.Area = some(sol.S12)
	}
	return r, nil
}

// Direct solves the direct geodesic problem.
//
// Param lat1 is the latitude of point 1 (degrees).
// Param lon1 is the longitude of point 1 (degrees).
// Param azi1 is the azimuth at point 1 (degrees).
// Param s12 is the distance from point 1 to point 2 (meters). negative is ok.
//
// lat1 should be in the range [-90,+90]. The value of Lon2 returned is in
// the range [-180,+180) and Azi2 in (-180,+180].
func (e *Ellipsoid) Direct(lat1, lon1, azi1, s12 float64) (DirectResult, error) {
	return e.DirectWith(lat1, lon1, azi1, s12, 0)
}

// DirectWith is like Direct but also computes the optional quantities
// selected by want.
func (e *Ellipsoid) DirectWith(lat1, lon1, azi1, s12 float64, want Outputs) (DirectResult, error) {
	const op = "Direct"
	if err := checkDirect(op, lat1, lon1, azi1); err != nil {
		return DirectResult{}, err
	}
	if err := checkFinite(op, "s12", s12); err != nil {
		return DirectResult{}, err
	}
	if e.spherical && want&(All|LongUnroll) == 0 {
		return e.sphericalDirect(lat1, lon1, azi1, s12), nil
	}
	l := e.newLine(lat1, lon1, azi1)
	return l.genPosition(false, s12, want), nil
}

// ArcDirect solves the direct problem with the length of the geodesic given
// as the arc length a12 on the auxiliary sphere (degrees) rather than a
// distance.
func (e *Ellipsoid) ArcDirect(lat1, lon1, azi1, a12 float64, want Outputs) (DirectResult, error) {
	const op = "ArcDirect"
	if err := checkDirect(op, lat1, lon1, azi1); err != nil {
		return DirectResult{}, err
	}
	if err := checkFinite(op, "a12", a12); err != nil {
		return DirectResult{}, err
	}
	l := e.newLine(lat1, lon1, azi1)
	return l.genPosition(true, a12, want), nil
}

func checkDirect(op string, lat1, lon1, azi1 float64) error {
	if err := checkLat(op, "lat1", lat1); err != nil {
		return err
	}
	if err := checkFinite(op, "lon1", lon1); err != nil {
		return err
	}
	return checkFinite(op, "azi1", azi1)
}
