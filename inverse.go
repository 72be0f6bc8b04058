package geodesic

import "math"

// inverseSolution is the raw output of genInverse. Azimuths are kept as
// unnormalized sine/cosine pairs.
type inverseSolution struct {
	a12, s12                   float64
	salp1, calp1, salp2, calp2 float64
	m12, M12, M21, S12         float64
	iter                       Iterations
}

// lengthsResult holds the output of lengths. Missing factors of b: s12b and
// m12b are the distance and reduced length divided by b.
type lengthsResult struct {
	s12b, m12b, m0, M12, M21 float64
}

// lengths evaluates the distance, reduced length and geodesic scales for a
// geodesic with parameter eps between sig1 and sig2. m0 is the coefficient
// of the secular term in the expression for the reduced length.
func (e *Ellipsoid) lengths(eps, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2,
	cbet1, cbet2 float64, want Outputs, c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64,
) lengthsResult {
	r := lengthsResult{
		s12b: math.NaN(), m12b: math.NaN(), m0: math.NaN(),
		M12: math.NaN(), M21: math.NaN(),
	}
	var a1, a2, m0x, j12 float64
	if want&(outDistance|Differentials) != 0 {
		a1 = a1m1f(eps)
		c1f(eps, c1a)
		if want&Differentials != 0 {
			a2 = a2m1f(eps)
			c2f(eps, c2a)
			m0x = a1 - a2
			a2 = 1 + a2
		}
		a1 = 1 + a1
	}
	if want&outDistance != 0 {
		b1 := sinCosSeries(true, ssig2, csig2, c1a[:]) -
			sinCosSeries(true, ssig1, csig1, c1a[:])
		r.s12b = a1 * (sig12 + b1)
		if want&Differentials != 0 {
			b2 := sinCosSeries(true, ssig2, csig2, c2a[:]) -
				sinCosSeries(true, ssig1, csig1, c2a[:])
			j12 = m0x*sig12 + (a1*b1 - a2*b2)
		}
	} else if want&Differentials != 0 {
		// Assume here that nC1 >= nC2
		for l := 1; l <= nC2; l++ {
			c2a[l] = a1*c1a[l] - a2*c2a[l]
		}
		j12 = m0x*sig12 + (sinCosSeries(true, ssig2, csig2, c2a[:]) -
			sinCosSeries(true, ssig1, csig1, c2a[:]))
	}
	if want&ReducedLength != 0 {
		r.m0 = m0x
		// Add parens around (csig1 * ssig2) and (ssig1 * csig2) to ensure
		// accurate cancellation in the case of coincident points.
		r.m12b = dn2*(csig1*ssig2) - dn1*(ssig1*csig2) - csig1*csig2*j12
	}
	if want&GeodesicScale != 0 {
		csig12 := csig1*csig2 + ssig1*ssig2
		t := e.ep2 * (cbet1 - cbet2) * (cbet1 + cbet2) / (dn1 + dn2)
		r.M12 = csig12 + (t*ssig2-csig2*j12)*ssig1/dn1
		r.M21 = csig12 - (t*ssig1-csig1*j12)*ssig2/dn2
	}
	return r
}

// astroid solves k^4+2*k^3-(x^2+y^2-1)*k^2-2*y^2*k-y^2 = 0 for the positive
// root k.
func astroid(x, y float64) float64 {
	p := sq(x)
	q := sq(y)
	r := (p + q - 1) / 6
	if q == 0 && r <= 0 {
		// y = 0 with |x| <= 1. Handle this case directly.
		// For y small, positive root is k = abs(y)/sqrt(1-x^2).
		return 0
	}
	// Avoid possible division by zero when r = 0 by multiplying equations
	// for s and t by r^3 and r, resp.
	s := p * q / 4 // s = r^3 * s
	r2 := sq(r)
	r3 := r * r2
	// The discriminant of the quadratic equation for T3. This is zero on
	// the evolute curve p^(1/3)+q^(1/3) = 1.
	disc := s * (s + 2*r3)
	u := r
	if disc >= 0 {
		t3 := s + r3
		// Pick the sign on the sqrt to maximize abs(T3). This minimizes loss
		// of precision due to cancellation. The result is unchanged because
		// of the way the T is used in definition of u.
		if t3 < 0 {
			t3 -= math.Sqrt(disc)
		} else {
			t3 += math.Sqrt(disc) // T3 = (r * t)^3
		}
		// N.B. cbrt always returns the real root. cbrt(-8) = -2.
		t := math.Cbrt(t3) // T = r * t
		// T can be zero; but then r2 / T -> 0.
		u += t
		if t != 0 {
			u += r2 / t
		}
	} else {
		// T is complex, but the way u is defined the result is real.
		ang := math.Atan2(math.Sqrt(-disc), -(s + r3))
		// There are three possible cube roots. We choose the root which
		// avoids cancellation. Note that disc < 0 implies that r < 0.
		u += 2 * r * math.Cos(ang/3)
	}
	v := math.Sqrt(sq(u) + q) // guaranteed positive
	// Avoid loss of accuracy when u < 0.
	var uv float64
	if u < 0 {
		uv = q / (v - u)
	} else {
		uv = u + v // u+v, guaranteed positive
	}
	w := (uv - q) / (2 * v) // positive?
	// Rearrange expression for k to avoid loss of accuracy due to
	// subtraction. Division by 0 not possible because uv > 0, w >= 0.
	return uv / (math.Sqrt(uv+sq(w)) + w) // guaranteed positive
}

// inverseStartResult is the starting guess for Newton's method. When sig12
// is non-negative the problem was solved directly (short line) and salp2,
// calp2 and dnm are also set.
type inverseStartResult struct {
	sig12, salp1, calp1, salp2, calp2, dnm float64
}

// inverseStart finds a starting value for Newton's method.
func (e *Ellipsoid) inverseStart(sbet1, cbet1, dn1, sbet2, cbet2, dn2,
	lam12, slam12, clam12 float64, c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64,
) inverseStartResult {
	r := inverseStartResult{sig12: -1, salp2: math.NaN(), calp2: math.NaN(), dnm: math.NaN()}
	// bet12 = bet2 - bet1 in [0, pi); bet12a = bet2 + bet1 in (-pi, 0]
	sbet12 := sbet2*cbet1 - cbet2*sbet1
	cbet12 := cbet2*cbet1 + sbet2*sbet1
	sbet12a := sbet2 * cbet1
	sbet12a += cbet2 * sbet1

	shortline := cbet12 >= 0 && sbet12 < 0.5 && cbet2*lam12 < 0.5
	var somg12, comg12 float64
	if shortline {
		sbetm2 := sq(sbet1 + sbet2)
		// sin((bet1+bet2)/2)^2
		// =  (sbet1 + sbet2)^2 / ((sbet1 + sbet2)^2 + (cbet1 + cbet2)^2)
		sbetm2 /= sbetm2 + sq(cbet1+cbet2)
		r.dnm = math.Sqrt(1 + e.ep2*sbetm2)
		omg12 := lam12 / (e.f1 * r.dnm)
		somg12, comg12 = math.Sincos(omg12)
	} else {
		somg12, comg12 = slam12, clam12
	}

	r.salp1 = cbet2 * somg12
	if comg12 >= 0 {
		r.calp1 = sbet12 + cbet2*sbet1*sq(somg12)/(1+comg12)
	} else {
		r.calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
	}
	ssig12 := math.Hypot(r.salp1, r.calp1)
	csig12 := sbet1*sbet2 + cbet1*cbet2*comg12

	switch {
	case shortline && ssig12 < e.etol2:
		// really short lines
		r.salp2 = cbet1 * somg12
		var mult float64
		if comg12 >= 0 {
			mult = sq(somg12) / (1 + comg12)
		} else {
			mult = 1 - comg12
		}
		r.calp2 = sbet12 - cbet1*sbet2*mult
		r.salp2, r.calp2 = norm(r.salp2, r.calp2)
		// Set return value
		r.sig12 = math.Atan2(ssig12, csig12)
	case math.Abs(e.n) > 0.1 || // Skip astroid calc if too eccentric
		csig12 >= 0 ||
		ssig12 >= 6*math.Abs(e.n)*math.Pi*sq(cbet1):
		// Nothing to do, zeroth order spherical approximation is OK
	default:
		// Scale lam12 and bet2 to x, y coordinate system where antipodal point
		// is at origin and singular point is at y = 0, x = -1.
		var x, y, lamscale, betscale float64
		lam12x := math.Atan2(-slam12, -clam12) // lam12 - pi
		if e.f >= 0 {
			// x = dlong, y = dlat
			k2 := sq(sbet1) * e.ep2
			eps := epsilonOf(k2)
			lamscale = e.f * cbet1 * e.series.a3f(eps) * math.Pi
			betscale = lamscale * cbet1
			x = lam12x / lamscale
			y = sbet12a / betscale
		} else {
			// x = dlat, y = dlong
			cbet12a := cbet2*cbet1 - sbet2*sbet1
			bet12a := math.Atan2(sbet12a, cbet12a)
			// In the case of lon12 = 180, this repeats a calculation made in
			// Inverse.
			lr := e.lengths(e.n, math.Pi+bet12a, sbet1, -cbet1, dn1, sbet2, cbet2, dn2,
				cbet1, cbet2, ReducedLength, c1a, c2a)
			x = -1 + lr.m12b/(cbet1*cbet2*lr.m0*math.Pi)
			if x < -0.01 {
				betscale = sbet12a / x
			} else {
				betscale = -e.f * sq(cbet1) * math.Pi
			}
			lamscale = betscale / cbet1
			y = lam12x / lamscale
		}

		if y > -tol1 && x > -1-xthres {
			// strip near cut
			if e.f >= 0 {
				r.salp1 = math.Min(1, -x)
				r.calp1 = -math.Sqrt(1 - sq(r.salp1))
			} else {
				if x > -tol1 {
					r.calp1 = math.Max(0, x)
				} else {
					r.calp1 = math.Max(-1, x)
				}
				r.salp1 = math.Sqrt(1 - sq(r.calp1))
			}
		} else {
			// Estimate alp1, by solving the astroid problem.
			//
			// Could estimate alpha1 = theta + pi/2, directly, i.e.,
			//   calp1 = y/k; salp1 = -x/(1+k);  for f >= 0
			//   calp1 = x/(1+k); salp1 = -y/k;  for f < 0 (need to check)
			//
			// However, it's better to estimate omg12 from astroid and use
			// spherical formula to compute alp1. This reduces the mean number of
			// Newton iterations for astroid cases from 2.24 (min 0, max 6) to 2.12
			// (min 0 max 5).
			//
			// Because omg12 is near pi, estimate work with omg12a = pi - omg12
			k := astroid(x, y)
			var omg12a float64
			if e.f >= 0 {
				omg12a = lamscale * (-x * k / (1 + k))
			} else {
				omg12a = lamscale * (-y * (1 + k) / k)
			}
			somg12 = math.Sin(omg12a)
			comg12 = -math.Cos(omg12a)
			// Update spherical estimate of alp1 using omg12 instead of lam12
			r.salp1 = cbet2 * somg12
			r.calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
		}
	}
	// Sanity check on starting guess. Backwards check allows NaN through.
	if !(r.salp1 <= 0) {
		r.salp1, r.calp1 = norm(r.salp1, r.calp1)
	} else {
		r.salp1 = 1
		r.calp1 = 0
	}
	return r
}

// lambda12Result is the state of the hybrid problem for a trial azimuth.
type lambda12Result struct {
	lam12                      float64 // longitude residual, omg12 - lam120 + domg12
	salp2, calp2               float64
	sig12                      float64
	ssig1, csig1, ssig2, csig2 float64
	eps, domg12                float64
	dlam12                     float64 // derivative with respect to alp1
}

// lambda12 solves the hybrid problem: given the latitudes of both points
// and the azimuth at point 1, find the longitude difference, relative to
// the target difference lam120.
func (e *Ellipsoid) lambda12(sbet1, cbet1, dn1, sbet2, cbet2, dn2, salp1, calp1,
	slam120, clam120 float64, diffp bool,
	c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64, c3a *[nC3]float64,
) lambda12Result {
	var r lambda12Result
	if sbet1 == 0 && calp1 == 0 {
		// Break degeneracy of equatorial line. This case has already been
		// handled.
		calp1 = -tiny
	}

	// sin(alp1) * cos(bet1) = sin(alp0)
	salp0 := salp1 * cbet1
	calp0 := math.Hypot(calp1, salp1*sbet1) // calp0 > 0

	// tan(bet1) = tan(sig1) * cos(alp1)
	// tan(omg1) = sin(alp0) * tan(sig1) = tan(omg1)=tan(alp1)*sin(bet1)
	r.ssig1 = sbet1
	somg1 := salp0 * sbet1
	r.csig1 = calp1 * cbet1
	comg1 := r.csig1
	r.ssig1, r.csig1 = norm(r.ssig1, r.csig1)
	// norm(somg1, comg1); -- don't need to normalize!

	// Enforce symmetries in the case abs(bet2) = -bet1. Need to be careful
	// about this case, since this can yield singularities in the Newton
	// iteration.
	// sin(alp2) * cos(bet2) = sin(alp0)
	if cbet2 != cbet1 {
		r.salp2 = salp0 / cbet2
	} else {
		r.salp2 = salp1
	}
	// calp2 = sqrt(1 - sq(salp2))
	//       = sqrt(sq(calp0) - sq(sbet2)) / cbet2
	// and subst for calp0 and rearrange to give (choose positive sqrt
	// to give alp2 in [0, pi/2]).
	if cbet2 != cbet1 || math.Abs(sbet2) != -sbet1 {
		var t float64
		if cbet1 < -sbet1 {
			t = (cbet2 - cbet1) * (cbet1 + cbet2)
		} else {
			t = (sbet1 - sbet2) * (sbet1 + sbet2)
		}
		r.calp2 = math.Sqrt(sq(calp1*cbet1)+t) / cbet2
	} else {
		r.calp2 = math.Abs(calp1)
	}
	// tan(bet2) = tan(sig2) * cos(alp2)
	// tan(omg2) = sin(alp0) * tan(sig2).
	r.ssig2 = sbet2
	somg2 := salp0 * sbet2
	r.csig2 = r.calp2 * cbet2
	comg2 := r.csig2
	r.ssig2, r.csig2 = norm(r.ssig2, r.csig2)

	// sig12 = sig2 - sig1, limit to [0, pi]
	r.sig12 = math.Atan2(math.Max(0, r.csig1*r.ssig2-r.ssig1*r.csig2),
		r.csig1*r.csig2+r.ssig1*r.ssig2)

	// omg12 = omg2 - omg1, limit to [0, pi]
	somg12 := math.Max(0, comg1*somg2-somg1*comg2)
	comg12 := comg1*comg2 + somg1*somg2
	// eta = omg12 - lam120
	eta := math.Atan2(somg12*clam120-comg12*slam120,
		comg12*clam120+somg12*slam120)

	k2 := sq(calp0) * e.ep2
	r.eps = epsilonOf(k2)
	e.series.c3f(r.eps, c3a)
	b312 := sinCosSeries(true, r.ssig2, r.csig2, c3a[:]) -
		sinCosSeries(true, r.ssig1, r.csig1, c3a[:])
	r.domg12 = -e.f * e.series.a3f(r.eps) * salp0 * (r.sig12 + b312)
	r.lam12 = eta + r.domg12

	if diffp {
		if r.calp2 == 0 {
			r.dlam12 = -2 * e.f1 * dn1 / sbet1
		} else {
			lr := e.lengths(r.eps, r.sig12, r.ssig1, r.csig1, dn1, r.ssig2, r.csig2, dn2,
				cbet1, cbet2, ReducedLength, c1a, c2a)
			r.dlam12 = lr.m12b * e.f1 / (r.calp2 * cbet2)
		}
	} else {
		r.dlam12 = math.NaN()
	}
	return r
}

// genInverse is the general inverse solver. Inputs have been validated.
func (e *Ellipsoid) genInverse(lat1, lon1, lat2, lon2 float64, want Outputs) inverseSolution {
	var sol inverseSolution
	sol.m12, sol.M12, sol.M21, sol.S12 = math.NaN(), math.NaN(), math.NaN(), math.NaN()

	// Compute longitude difference (angDiff does this carefully). Result is
	// in [-180, 180] but -180 is only for west-going geodesics. 180 is for
	// east-going and meridional geodesics.
	lon12, lon12s := angDiff(lon1, lon2)
	// Make longitude difference positive.
	lonsign := 1.0
	if math.Signbit(lon12) {
		lonsign = -1
	}
	// If very close to being on the same half-meridian, then make it so.
	lon12 = lonsign * angRound(lon12)
	lon12s = angRound((180 - lon12) - lonsign*lon12s)
	lam12 := lon12 * degree
	var slam12, clam12 float64
	if lon12 > 90 {
		slam12, clam12 = sincosd(lon12s)
		clam12 = -clam12
	} else {
		slam12, clam12 = sincosd(lon12)
	}

	// If really close to the equator, treat as on equator.
	lat1 = angRound(lat1)
	lat2 = angRound(lat2)
	// Swap points so that point with higher (abs) latitude is point 1.
	swapp := 1.0
	if math.Abs(lat1) < math.Abs(lat2) {
		swapp = -1
		lonsign = -lonsign
		lat1, lat2 = lat2, lat1
	}
	// Make lat1 <= 0
	latsign := 1.0
	if lat1 >= 0 {
		latsign = -1
	}
	lat1 *= latsign
	lat2 *= latsign
	// Now we have
	//
	//     0 <= lon12 <= 180
	//     -90 <= lat1 <= 0
	//     lat1 <= lat2 <= -lat1
	//
	// lonsign, swapp, latsign register the transformation to bring the
	// coordinates to this canonical form. In all cases, 1 means no change
	// was made. We make these transformations so that there are few cases
	// to check, e.g., on verifying quadrants in atan2. In addition, this
	// enforces some symmetries in the results returned.

	sbet1, cbet1 := sincosd(lat1)
	sbet1 *= e.f1
	// Ensure cbet1 = +epsilon at poles
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(tiny, cbet1)

	sbet2, cbet2 := sincosd(lat2)
	sbet2 *= e.f1
	sbet2, cbet2 = norm(sbet2, cbet2)
	cbet2 = math.Max(tiny, cbet2)

	// If cbet1 < -sbet1, then cbet2 - cbet1 is a sensitive measure of the
	// |bet1| - |bet2|. Alternatively (cbet1 >= -sbet1), abs(sbet2) + sbet1 is
	// a better measure. This logic is used in assigning calp2 in lambda12.
	// Sometimes these quantities vanish and in that case we force bet2 = +/-
	// bet1 exactly.
	if cbet1 < -sbet1 {
		if cbet2 == cbet1 {
			if sbet2 < 0 {
				sbet2 = sbet1
			} else {
				sbet2 = -sbet1
			}
		}
	} else if math.Abs(sbet2) == -sbet1 {
		cbet2 = cbet1
	}

	dn1 := math.Sqrt(1 + e.ep2*sq(sbet1))
	dn2 := math.Sqrt(1 + e.ep2*sq(sbet2))

	// index zero elements of these arrays are unused
	var c1a [nC1 + 1]float64
	var c2a [nC2 + 1]float64
	var c3a [nC3]float64

	var a12, sig12, s12x, m12x float64
	var salp1, calp1, salp2, calp2 float64
	var M12, M21 float64

	meridian := lat1 == -90 || slam12 == 0
	if meridian {
		// Endpoints are on a single full meridian, so the geodesic might lie
		// on a meridian.
		calp1, salp1 = clam12, slam12 // Head to the target longitude
		calp2, salp2 = 1, 0           // At the target we're heading north

		// tan(bet) = tan(sig) * cos(alp)
		ssig1, csig1 := sbet1, calp1*cbet1
		ssig2, csig2 := sbet2, calp2*cbet2

		// sig12 = sig2 - sig1
		sig12 = math.Atan2(math.Max(0, csig1*ssig2-ssig1*csig2),
			csig1*csig2+ssig1*ssig2)
		lr := e.lengths(e.n, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
			want|outDistance|ReducedLength, &c1a, &c2a)
		s12x, m12x, M12, M21 = lr.s12b, lr.m12b, lr.M12, lr.M21
		// Add the check for sig12 since zero length geodesics might yield
		// m12 < 0. In fact, we will have sig12 > pi/2 for meridional
		// geodesic which is not a shortest path.
		if sig12 < 1 || m12x >= 0 {
			// Need at least 2, to handle 90 0 90 180
			if sig12 < 3*tiny || (sig12 < tol0 && (s12x < 0 || m12x < 0)) {
				sig12, m12x, s12x = 0, 0, 0
			}
			m12x *= e.b
			s12x *= e.b
			a12 = sig12 / degree
		} else {
			// m12 < 0, i.e., prolate and too close to anti-podal
			meridian = false
		}
	}

	// somg12 > 1 marks that it needs to be calculated
	somg12, comg12, omg12 := 2.0, 0.0, 0.0
	switch {
	case meridian:
	case sbet1 == 0 && (e.f <= 0 || lon12s >= e.f*180):
		// Geodesic runs along equator; mimic the way lambda12 works with
		// calp1 = 0.
		calp1, calp2 = 0, 0
		salp1, salp2 = 1, 1
		s12x = e.a * lam12
		sig12 = lam12 / e.f1
		omg12 = sig12
		m12x = e.b * math.Sin(sig12)
		if want&GeodesicScale != 0 {
			M12 = math.Cos(sig12)
			M21 = M12
		}
		a12 = lon12 / e.f1
	default:
		// Now point1 and point2 belong within a hemisphere bounded by a
		// meridian and geodesic is neither meridional nor equatorial.

		// Figure a starting point for Newton's method
		st := e.inverseStart(sbet1, cbet1, dn1, sbet2, cbet2, dn2,
			lam12, slam12, clam12, &c1a, &c2a)
		sig12, salp1, calp1 = st.sig12, st.salp1, st.calp1

		if sig12 >= 0 {
			// Short lines (inverseStart sets salp2, calp2, dnm)
			salp2, calp2 = st.salp2, st.calp2
			s12x = sig12 * e.b * st.dnm
			m12x = sq(st.dnm) * e.b * math.Sin(sig12/st.dnm)
			if want&GeodesicScale != 0 {
				M12 = math.Cos(sig12 / st.dnm)
				M21 = M12
			}
			a12 = sig12 / degree
			omg12 = lam12 / (e.f1 * st.dnm)
			break
		}

		// Newton's method. This is a straightforward solution of f(alp1) =
		// lambda12(alp1) - lam12 = 0 with one wrinkle. f(alp) has exactly one
		// root in the interval (0, pi) and its derivative is positive at the
		// root. Thus f(alp) is positive for alp > alp1 and negative for alp <
		// alp1. During the course of the iteration, a range (alp1a, alp1b) is
		// maintained which brackets the root and with each evaluation of
		// f(alp) the range is shrunk, if possible. Newton's method is
		// restarted whenever the derivative of f is negative (because the new
		// value of alp1 is then further from the solution) or if the new
		// estimate of alp1 lies outside (0,pi); in this case, the new starting
		// guess is taken to be (alp1a + alp1b) / 2.
		var lr lambda12Result
		tripn, tripb := false, false
		// Bracketing range
		salp1a, calp1a := tiny, 1.0
		salp1b, calp1b := tiny, -1.0
		for numit := 0; ; numit++ {
			// the WGS84 test set: mean = 1.47, sd = 1.25, max = 16
			// WGS84 and random input: mean = 2.85, sd = 0.60
			lr = e.lambda12(sbet1, cbet1, dn1, sbet2, cbet2, dn2,
				salp1, calp1, slam12, clam12, numit < maxIt1, &c1a, &c2a, &c3a)
			v := lr.lam12
			// 2 * tol0 is approximately 1 ulp for a number in [0, pi].
			// Reversed test to allow escape with NaNs
			tol := tol0
			if tripn {
				tol = 8 * tol0
			}
			if tripb || !(math.Abs(v) >= tol) || numit == maxIt2 {
				break
			}
			// Update bracketing values
			if v > 0 && (numit > maxIt1 || calp1/salp1 > calp1b/salp1b) {
				salp1b, calp1b = salp1, calp1
			} else if v < 0 && (numit > maxIt1 || calp1/salp1 < calp1a/salp1a) {
				salp1a, calp1a = salp1, calp1
			}
			if numit < maxIt1 && lr.dlam12 > 0 {
				dalp1 := -v / lr.dlam12
				if math.Abs(dalp1) < math.Pi {
					sdalp1, cdalp1 := math.Sincos(dalp1)
					nsalp1 := salp1*cdalp1 + calp1*sdalp1
					if nsalp1 > 0 {
						calp1 = calp1*cdalp1 - salp1*sdalp1
						salp1 = nsalp1
						salp1, calp1 = norm(salp1, calp1)
						sol.iter.Newton++
						// In some regimes we don't get quadratic convergence
						// because slope -> 0. So use convergence conditions
						// based on epsilon instead of sqrt(epsilon).
						tripn = math.Abs(v) <= 16*tol0
						continue
					}
				}
			}
			// Either dv was not positive or updated value was outside legal
			// range. Use the midpoint of the bracket as the next estimate.
			// This mechanism is not needed for the WGS84 ellipsoid, but it
			// does catch problems with more eccentric ellipsoids.
			salp1 = (salp1a + salp1b) / 2
			calp1 = (calp1a + calp1b) / 2
			salp1, calp1 = norm(salp1, calp1)
			sol.iter.Bisection++
			tripn = false
			tripb = math.Abs(salp1a-salp1)+(calp1a-calp1) < tolb ||
				math.Abs(salp1-salp1b)+(calp1-calp1b) < tolb
		}
		salp2, calp2, sig12 = lr.salp2, lr.calp2, lr.sig12

		// Ensure that the reduced length and geodesic scale are computed in
		// a "canonical" way, with the I2 integral.
		lengthWant := want | outDistance
		lres := e.lengths(lr.eps, sig12, lr.ssig1, lr.csig1, dn1, lr.ssig2, lr.csig2, dn2,
			cbet1, cbet2, lengthWant, &c1a, &c2a)
		s12x, m12x, M12, M21 = lres.s12b, lres.m12b, lres.M12, lres.M21
		m12x *= e.b
		s12x *= e.b
		a12 = sig12 / degree
		if want&Area != 0 {
			// omg12 = lam12 - domg12
			sdomg12, cdomg12 := math.Sincos(lr.domg12)
			somg12 = slam12*cdomg12 - clam12*sdomg12
			comg12 = clam12*cdomg12 + slam12*sdomg12
		}
	}

	sol.s12 = 0 + s12x // Convert -0 to 0
	if want&ReducedLength != 0 {
		sol.m12 = 0 + m12x
	}

	if want&Area != 0 {
		// From lambda12: sin(alp1) * cos(bet1) = sin(alp0)
		salp0 := salp1 * cbet1
		calp0 := math.Hypot(calp1, salp1*sbet1) // calp0 > 0
		var s12 float64
		if calp0 != 0 && salp0 != 0 {
			// From lambda12: tan(bet) = tan(sig) * cos(alp)
			ssig1, csig1 := norm(sbet1, calp1*cbet1)
			ssig2, csig2 := norm(sbet2, calp2*cbet2)
			k2 := sq(calp0) * e.ep2
			eps := epsilonOf(k2)
			// Multiplier = a^2 * e^2 * cos(alpha0) * sin(alpha0).
			a4 := sq(e.a) * calp0 * salp0 * e.e2
			var c4a [nC4]float64
			e.series.c4f(eps, &c4a)
			b41 := sinCosSeries(false, ssig1, csig1, c4a[:])
			b42 := sinCosSeries(false, ssig2, csig2, c4a[:])
			s12 = a4 * (b42 - b41)
		} else {
			// Avoid problems with indeterminate sig1, sig2 on equator
			s12 = 0
		}
		if !meridian && somg12 > 1 {
			somg12, comg12 = math.Sincos(omg12)
		}

		var alp12 float64
		if !meridian &&
			// omg12 < 3/4 * pi
			comg12 > -0.7071 && // Long difference not too big
			sbet2-sbet1 < 1.75 { // Lat difference not too big
			// Use tan(Gamma/2) = tan(omg12/2)
			// * (tan(bet1/2)+tan(bet2/2))/(1+tan(bet1/2)*tan(bet2/2))
			// with tan(x/2) = sin(x)/(1+cos(x))
			domg12 := 1 + comg12
			dbet1 := 1 + cbet1
			dbet2 := 1 + cbet2
			alp12 = 2 * math.Atan2(somg12*(sbet1*dbet2+sbet2*dbet1),
				domg12*(sbet1*sbet2+dbet1*dbet2))
		} else {
			// alp12 = alp2 - alp1, used in atan2 so no need to normalize
			salp12 := salp2*calp1 - calp2*salp1
			calp12 := calp2*calp1 + salp2*salp1
			// The right thing appears to happen if alp1 = +/-180 and alp2 = 0,
			// viz salp12 = -0 and alp12 = -180. However this depends on the
			// sign being attached to 0 correctly. The following ensures the
			// correct behavior.
			if salp12 == 0 && calp12 < 0 {
				salp12 = tiny * calp1
				calp12 = -1
			}
			alp12 = math.Atan2(salp12, calp12)
		}
		s12 += e.c2 * alp12
		s12 *= swapp * lonsign * latsign
		// Convert -0 to 0
		sol.S12 = s12 + 0
	}

	// Convert calp, salp to azimuth accounting for lonsign, swapp, latsign.
	if swapp < 0 {
		salp1, salp2 = salp2, salp1
		calp1, calp2 = calp2, calp1
		M12, M21 = M21, M12
	}
	salp1 *= swapp * lonsign
	calp1 *= swapp * latsign
	salp2 *= swapp * lonsign
	calp2 *= swapp * latsign

	if want&GeodesicScale != 0 {
		sol.M12, sol.M21 = M12, M21
	}
	sol.a12 = a12
	sol.salp1, sol.calp1, sol.salp2, sol.calp2 = salp1, calp1, salp2, calp2
	return sol
}
