package geodesic

import "math"

// Line is a single geodesic, defined by a starting point and an azimuth,
// prepared for computing many points along it. All per-line quantities are
// computed once, when the line is created; positions along the line are pure
// functions of those quantities.
//
// A Line is plain data and may be copied freely. Direct is implemented in
// terms of a Line, so Line.Position(s12) gives exactly the same result as
// Direct with the same starting point and azimuth (except on ellipsoids
// created by NewSpherical, whose Direct uses great-circle formulas).
type Line struct {
	lat1, lon1, azi1 float64
	salp1, calp1     float64

	f, b, c2, f1 float64

	salp0, calp0 float64 // azimuth at the equator crossing
	k2           float64
	ssig1, csig1 float64 // sigma of point 1 on the auxiliary sphere
	dn1          float64
	stau1, ctau1 float64
	somg1, comg1 float64

	a1m1, a2m1, a3c, a4 float64
	b11, b21, b31, b41  float64

	c1a  [nC1 + 1]float64
	c1pa [nC1p + 1]float64
	c2a  [nC2 + 1]float64
	c3a  [nC3]float64
	c4a  [nC4]float64

	s13, a13 float64 // reference distance and arc; NaN when not set
}

// Line returns the geodesic starting at (lat1, lon1) with azimuth azi1.
//
// lat1 should be in the range [-90,+90]; lon1 and azi1 must be finite.
func (e *Ellipsoid) Line(lat1, lon1, azi1 float64) (Line, error) {
	if err := checkDirect("Line", lat1, lon1, azi1); err != nil {
		return Line{}, err
	}
	return e.newLine(lat1, lon1, azi1), nil
}

// DirectLine returns the geodesic starting at (lat1, lon1) with azimuth
// azi1 and remembers s13 as its reference distance, for use with
// Interpolate.
func (e *Ellipsoid) DirectLine(lat1, lon1, azi1, s13 float64) (Line, error) {
	const op = "DirectLine"
	if err := checkDirect(op, lat1, lon1, azi1); err != nil {
		return Line{}, err
	}
	if err := checkFinite(op, "s13", s13); err != nil {
		return Line{}, err
	}
	l := e.newLine(lat1, lon1, azi1)
	l.s13 = s13
	l.a13 = l.genPosition(false, s13, 0).A12
	return l, nil
}

// InverseLine returns the shortest geodesic from (lat1, lon1) to
// (lat2, lon2). Its reference distance is the distance between the points,
// so Interpolate(0.5) is the midpoint.
func (e *Ellipsoid) InverseLine(lat1, lon1, lat2, lon2 float64) (Line, error) {
	const op = "InverseLine"
	if err := checkLat(op, "lat1", lat1); err != nil {
		return Line{}, err
	}
	if err := checkFinite(op, "lon1", lon1); err != nil {
		return Line{}, err
	}
	if err := checkLat(op, "lat2", lat2); err != nil {
		return Line{}, err
	}
	if err := checkFinite(op, "lon2", lon2); err != nil {
		return Line{}, err
	}
	sol := e.genInverse(lat1, lon1, lat2, lon2, 0)
	azi1 := atan2d(sol.salp1, sol.calp1)
	l := e.newLineWithAzimuth(lat1, lon1, azi1, sol.salp1, sol.calp1)
	l.a13 = sol.a12
	l.s13 = l.genPosition(true, sol.a12, 0).S12
	return l, nil
}

func (e *Ellipsoid) newLine(lat1, lon1, azi1 float64) Line {
	azi1 = angNormalize(azi1)
	// Guard against underflow in salp0
	salp1, calp1 := sincosd(angRound(azi1))
	return e.newLineWithAzimuth(lat1, lon1, azi1, salp1, calp1)
}

func (e *Ellipsoid) newLineWithAzimuth(lat1, lon1, azi1, salp1, calp1 float64) Line {
	l := Line{
		lat1: lat1, lon1: lon1, azi1: azi1,
		salp1: salp1, calp1: calp1,
		f: e.f, b: e.b, c2: e.c2, f1: e.f1,
		s13: math.NaN(), a13: math.NaN(),
	}

	sbet1, cbet1 := sincosd(angRound(lat1))
	sbet1 *= e.f1
	// Ensure cbet1 = +epsilon at poles
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(tiny, cbet1)
	l.dn1 = math.Sqrt(1 + e.ep2*sq(sbet1))

	// Evaluate alp0 from sin(alp1) * cos(bet1) = sin(alp0),
	l.salp0 = salp1 * cbet1 // alp0 in [0, pi/2 - |bet1|]
	// Alt: calp0 = hypot(sbet1, calp1 * cbet1). The following
	// is slightly better (consider the case salp1 = 0).
	l.calp0 = math.Hypot(calp1, salp1*sbet1)
	// Evaluate sig with tan(bet1) = tan(sig1) * cos(alp1).
	// sig = 0 is nearest northward crossing of equator.
	// With bet1 = 0, alp1 = pi/2, we have sig1 = 0 (equatorial line).
	// With bet1 =  pi/2, alp1 = -pi, sig1 =  pi/2
	// With bet1 = -pi/2, alp1 =  0 , sig1 = -pi/2
	// Evaluate omg1 with tan(omg1) = sin(alp0) * tan(sig1).
	// With alp0 in (0, pi/2], quadrants for sig and omg coincide.
	// No atan2(0,0) ambiguity at poles since cbet1 = +epsilon.
	// With alp0 = 0, omg1 = 0 for alp1 = 0, omg1 = pi for alp1 = pi.
	l.ssig1 = sbet1
	l.somg1 = l.salp0 * sbet1
	if sbet1 != 0 || calp1 != 0 {
		l.csig1 = cbet1 * calp1
	} else {
		l.csig1 = 1
	}
	l.comg1 = l.csig1
	l.ssig1, l.csig1 = norm(l.ssig1, l.csig1) // sig1 in (-pi, pi]
	// norm(somg1, comg1); -- don't need to normalize!

	l.k2 = sq(l.calp0) * e.ep2
	eps := epsilonOf(l.k2)

	l.a1m1 = a1m1f(eps)
	c1f(eps, &l.c1a)
	l.b11 = sinCosSeries(true, l.ssig1, l.csig1, l.c1a[:])
	s, c := math.Sincos(l.b11)
	// tau1 = sig1 + B11
	l.stau1 = l.ssig1*c + l.csig1*s
	l.ctau1 = l.csig1*c - l.ssig1*s
	// Not necessary because C1pa reverts C1a
	//    B11 = -sinCosSeries(true, stau1, ctau1, C1pa)

	c1pf(eps, &l.c1pa)

	l.a2m1 = a2m1f(eps)
	c2f(eps, &l.c2a)
	l.b21 = sinCosSeries(true, l.ssig1, l.csig1, l.c2a[:])

	e.series.c3f(eps, &l.c3a)
	l.a3c = -e.f * l.salp0 * e.series.a3f(eps)
	l.b31 = sinCosSeries(true, l.ssig1, l.csig1, l.c3a[:])

	e.series.c4f(eps, &l.c4a)
	// Multiplier = a^2 * e^2 * cos(alpha0) * sin(alpha0)
	l.a4 = sq(e.a) * l.calp0 * l.salp0 * e.e2
	l.b41 = sinCosSeries(false, l.ssig1, l.csig1, l.c4a[:])
	return l
}

// Latitude returns the latitude of the starting point (degrees).
func (l Line) Latitude() float64 { return l.lat1 }

// Longitude returns the longitude of the starting point (degrees).
func (l Line) Longitude() float64 { return l.lon1 }

// Azimuth returns the azimuth at the starting point (degrees).
func (l Line) Azimuth() float64 { return l.azi1 }

// EquatorialAzimuth returns the azimuth with which the geodesic crosses
// the equator (degrees).
func (l Line) EquatorialAzimuth() float64 { return atan2d(l.salp0, l.calp0) }

// EquatorialArc returns the arc length on the auxiliary sphere from the
// northward equator crossing to the starting point (degrees).
func (l Line) EquatorialArc() float64 { return atan2d(l.ssig1, l.csig1) }

// Distance returns the reference distance s13 of a line created by
// DirectLine or InverseLine.
func (l Line) Distance() (float64, bool) {
	return l.s13, !math.IsNaN(l.s13)
}

// Arc returns the reference arc a13 (degrees) of a line created by
// DirectLine or InverseLine.
func (l Line) Arc() (float64, bool) {
	return l.a13, !math.IsNaN(l.a13)
}

// Position returns the point at distance s12 (meters, may be negative)
// from the starting point of the line.
func (l Line) Position(s12 float64) (DirectResult, error) {
	return l.PositionWith(s12, 0)
}

// PositionWith is like Position but also computes the optional quantities
// selected by want.
func (l Line) PositionWith(s12 float64, want Outputs) (DirectResult, error) {
	if err := checkFinite("Position", "s12", s12); err != nil {
		return DirectResult{}, err
	}
	return l.genPosition(false, s12, want), nil
}

// ArcPosition returns the point at arc length a12 (degrees on the auxiliary
// sphere) from the starting point of the line.
func (l Line) ArcPosition(a12 float64, want Outputs) (DirectResult, error) {
	if err := checkFinite("ArcPosition", "a12", a12); err != nil {
		return DirectResult{}, err
	}
	return l.genPosition(true, a12, want), nil
}

// Interpolate returns the point at fraction t of the reference distance of
// a line created by DirectLine or InverseLine; t = 0 is the starting point
// and t = 1 the end point.
func (l Line) Interpolate(t float64) (DirectResult, error) {
	const op = "Interpolate"
	if math.IsNaN(l.s13) {
		return DirectResult{}, outOfRange(op, "s13", l.s13, "line has no reference distance")
	}
	if err := checkFinite(op, "t", t); err != nil {
		return DirectResult{}, err
	}
	return l.genPosition(false, t*l.s13, 0), nil
}

// origin is the result for a zero displacement along the line.
func (l *Line) origin(want Outputs) DirectResult {
	r := DirectResult{Lat2: l.lat1, Azi2: l.azi1}
	if want&LongUnroll != 0 {
		r.Lon2 = l.lon1
	} else {
		r.Lon2 = lonNormalize(l.lon1)
	}
	if want&ReducedLength != 0 {
		r.ReducedLength = some(0)
	}
	if want&GeodesicScale != 0 {
		r.Scale12 = some(1)
		r.Scale21 = some(1)
	}
	if want&Area != 0 {
		r.Area = some(0)
	}
	return r
}

// genPosition computes the point at distance s12a12 (meters) or, with
// arcmode, at arc length s12a12 (degrees) along the line.
func (l *Line) genPosition(arcmode bool, s12a12 float64, want Outputs) DirectResult {
	if s12a12 == 0 {
		return l.origin(want)
	}

	var sig12, ssig12, csig12, b12, ab1 float64
	if arcmode {
		// Interpret s12a12 as spherical arc length
		sig12 = s12a12 * degree
		ssig12, csig12 = sincosd(s12a12)
	} else {
		// Interpret s12a12 as distance
		tau12 := s12a12 / (l.b * (1 + l.a1m1))
		s, c := math.Sincos(tau12)
		// tau2 = tau1 + tau12
		b12 = -sinCosSeries(true, l.stau1*c+l.ctau1*s, l.ctau1*c-l.stau1*s, l.c1pa[:])
		sig12 = tau12 - (b12 - l.b11)
		ssig12, csig12 = math.Sincos(sig12)
		if math.Abs(l.f) > 0.01 {
			// The reverted distance series is inaccurate for |f| > 1/100, so
			// correct sig12 with one Newton iteration.
			ssig2 := l.ssig1*csig12 + l.csig1*ssig12
			csig2 := l.csig1*csig12 - l.ssig1*ssig12
			b12 = sinCosSeries(true, ssig2, csig2, l.c1a[:])
			serr := (1+l.a1m1)*(sig12+(b12-l.b11)) - s12a12/l.b
			sig12 -= serr / math.Sqrt(1+l.k2*sq(ssig2))
			ssig12, csig12 = math.Sincos(sig12)
			// Update B12 below
		}
	}

	// sig2 = sig1 + sig12
	ssig2 := l.ssig1*csig12 + l.csig1*ssig12
	csig2 := l.csig1*csig12 - l.ssig1*ssig12
	dn2 := math.Sqrt(1 + l.k2*sq(ssig2))
	if arcmode || math.Abs(l.f) > 0.01 {
		b12 = sinCosSeries(true, ssig2, csig2, l.c1a[:])
	}
	ab1 = (1 + l.a1m1) * (b12 - l.b11)

	// sin(bet2) = cos(alp0) * sin(sig2)
	sbet2 := l.calp0 * ssig2
	// Alt: cbet2 = hypot(csig2, salp0 * ssig2);
	cbet2 := math.Hypot(l.salp0, l.calp0*csig2)
	if cbet2 == 0 {
		// I.e., salp0 = 0, csig2 = 0. Break the degeneracy in this case
		cbet2 = tiny
		csig2 = tiny
	}
	// tan(alp0) = cos(sig2)*tan(alp2)
	salp2 := l.salp0
	calp2 := l.calp0 * csig2 // No need to normalize

	var r DirectResult
	if arcmode {
		r.S12 = l.b * ((1+l.a1m1)*sig12 + ab1)
		r.A12 = s12a12
	} else {
		r.S12 = s12a12
		r.A12 = sig12 / degree
	}

	// tan(omg2) = sin(alp0) * tan(sig2)
	somg2 := l.salp0 * ssig2
	comg2 := csig2 // No need to normalize
	var omg12 float64
	if want&LongUnroll != 0 {
		eSign := math.Copysign(1, l.salp0) // east-going?
		omg12 = eSign * (sig12 -
			(math.Atan2(ssig2, csig2) - math.Atan2(l.ssig1, l.csig1)) +
			(math.Atan2(eSign*somg2, comg2) - math.Atan2(eSign*l.somg1, l.comg1)))
	} else {
		// omg12 = omg2 - omg1
		omg12 = math.Atan2(somg2*l.comg1-comg2*l.somg1, comg2*l.comg1+somg2*l.somg1)
	}
	lam12 := omg12 + l.a3c*(sig12+(sinCosSeries(true, ssig2, csig2, l.c3a[:])-l.b31))
	lon12 := lam12 / degree
	if want&LongUnroll != 0 {
		r.Lon2 = l.lon1 + lon12
	} else {
		r.Lon2 = lonNormalize(angNormalize(l.lon1) + angNormalize(lon12))
	}

	r.Lat2 = atan2d(sbet2, l.f1*cbet2)
	r.Azi2 = atan2d(salp2, calp2)

	if want&Differentials != 0 {
		b22 := sinCosSeries(true, ssig2, csig2, l.c2a[:])
		ab2 := (1 + l.a2m1) * (b22 - l.b21)
		j12 := (l.a1m1-l.a2m1)*sig12 + (ab1 - ab2)
		if want&ReducedLength != 0 {
			// Add parens around (csig1 * ssig2) and (ssig1 * csig2) to ensure
			// accurate cancellation in the case of coincident points.
			r.ReducedLength = some(l.b * ((dn2*(l.csig1*ssig2) - l.dn1*(l.ssig1*csig2)) -
				l.csig1*csig2*j12))
		}
		if want&GeodesicScale != 0 {
			t := l.k2 * (ssig2 - l.ssig1) * (ssig2 + l.ssig1) / (l.dn1 + dn2)
			r.Scale12 = some(csig12 + (t*ssig2-csig2*j12)*l.ssig1/l.dn1)
			r.Scale21 = some(csig12 - (t*l.ssig1-l.csig1*j12)*ssig2/dn2)
		}
	}

	if want&Area != 0 {
		b42 := sinCosSeries(false, ssig2, csig2, l.c4a[:])
		var salp12, calp12 float64
		if l.calp0 == 0 || l.salp0 == 0 {
			// alp12 = alp2 - alp1, used in atan2 so no need to normalize
			salp12 = salp2*l.calp1 - calp2*l.salp1
			calp12 = calp2*l.calp1 + salp2*l.salp1
		} else {
			// tan(alp) = tan(alp0) * sec(sig)
			// tan(alp2-alp1) = (tan(alp2) -tan(alp1)) / (tan(alp2)*tan(alp1)+1)
			// = calp0 * salp0 * (csig1-csig2) / (salp0^2 + calp0^2 * csig1*csig2)
			// If csig12 > 0, write
			//   csig1 - csig2 = ssig12 * (csig1 * ssig12 / (1 + csig12) + ssig1)
			// else
			//   csig1 - csig2 = csig1 * (1 - csig12) + ssig12 * ssig1
			// No need to normalize
			if csig12 <= 0 {
				salp12 = l.csig1*(1-csig12) + ssig12*l.ssig1
			} else {
				salp12 = ssig12 * (l.csig1*ssig12/(1+csig12) + l.ssig1)
			}
			salp12 *= l.calp0 * l.salp0
			calp12 = sq(l.salp0) + sq(l.calp0)*l.csig1*csig2
		}
		r.Area = some(l.c2*math.Atan2(salp12, calp12) + l.a4*(b42-l.b41))
	}
	return r
}
