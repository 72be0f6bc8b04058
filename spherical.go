// Great-circle routines used by spherical ellipsoids.
//
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */
/* Latitude/longitude spherical geodesy tools   (c) Chris Veness 2002-2019 */
/*                                                             MIT Licence */
/* www.movable-type.co.uk/scripts/latlong.html                             */
/* www.movable-type.co.uk/scripts/geodesy-library.html#latlon-spherical    */
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */

package geodesic

import "math"

// sphericalInverse solves the inverse problem along a great circle.
// Coincident points yield a zero distance and a due north azimuth.
func (e *Ellipsoid) sphericalInverse(lat1, lon1, lat2, lon2 float64) InverseResult {
	δ := centralAngle(lat1, lon1, lat2, lon2)
	if δ == 0 {
		return InverseResult{Azi1: 0, Azi2: 0}
	}
	return InverseResult{
		Azi1: bearing(lat1, lon1, lat2, lon2),
		Azi2: angNormalize(bearing(lat2, lon2, lat1, lon1) + 180),
		S12:  e.a * δ,
		A12:  δ / degree,
	}
}

// sphericalDirect solves the direct problem along a great circle.
func (e *Ellipsoid) sphericalDirect(lat1, lon1, azi1, s12 float64) DirectResult {
	if s12 == 0 {
		return DirectResult{
			Lat2: lat1,
			Lon2: lonNormalize(lon1),
			Azi2: angNormalize(azi1),
		}
	}
	lat2, lon2 := destination(e.a, lat1, lon1, s12, azi1)
	azi2 := finalBearing(lat1, lon1, azi1, s12/e.a)
	return DirectResult{
		Lat2: lat2,
		Lon2: lon2,
		Azi2: azi2,
		S12:  s12,
		A12:  s12 / e.a / degree,
	}
}

func destination(radius float64, lat1, lon1, meters, bearingDegrees float64) (lat2, lon2 float64) {
	// sinφ2 = sinφ1⋅cosδ + cosφ1⋅sinδ⋅cosθ
	// tanΔλ = sinθ⋅sinδ⋅cosφ1 / cosδ−sinφ1⋅sinφ2
	// see mathforum.org/library/drmath/view/52049.html for derivation
	δ := meters / radius
	sθ, cθ := sincosd(bearingDegrees)
	sφ1, cφ1 := sincosd(lat1)
	sδ, cδ := math.Sincos(δ)
	sφ2 := clamp(sφ1*cδ+cφ1*sδ*cθ, -1, 1)
	φ2 := math.Asin(sφ2)
	Δλ := math.Atan2(sθ*sδ*cφ1, cδ-sφ1*sφ2)
	return φ2 / degree, lonNormalize(lon1 + Δλ/degree)
}

// finalBearing is the forward azimuth at the far end of an arc of δ
// radians leaving (lat1, lon1) on azimuth azi1.
func finalBearing(lat1, lon1, azi1, δ float64) float64 {
	sα, cα := sincosd(azi1)
	sφ1, cφ1 := sincosd(lat1)
	sδ, cδ := math.Sincos(δ)
	// tanα2 = sinα1⋅cosφ1 / (cosφ1⋅cosδ⋅cosα1 − sinφ1⋅sinδ)
	return atan2d(sα*cφ1, cφ1*cδ*cα-sφ1*sδ)
}

func centralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	// Vincenty's form of the great-circle distance, well conditioned for
	// both small and nearly antipodal separations.
	Δλ, _ := angDiff(lon1, lon2)
	sφ1, cφ1 := sincosd(lat1)
	sφ2, cφ2 := sincosd(lat2)
	sΔλ, cΔλ := sincosd(Δλ)
	y := math.Hypot(cφ2*sΔλ, cφ1*sφ2-sφ1*cφ2*cΔλ)
	x := sφ1*sφ2 + cφ1*cφ2*cΔλ
	return math.Atan2(y, x)
}

func bearing(lat1, lon1, lat2, lon2 float64) float64 {
	// tanθ = sinΔλ⋅cosφ2 / cosφ1⋅sinφ2 − sinφ1⋅cosφ2⋅cosΔλ
	// see mathforum.org/library/drmath/view/55417.html for derivation
	Δλ, _ := angDiff(lon1, lon2)
	sφ1, cφ1 := sincosd(lat1)
	sφ2, cφ2 := sincosd(lat2)
	sΔλ, cΔλ := sincosd(Δλ)
	y := sΔλ * cφ2
	x := cφ1*sφ2 - sφ1*cφ2*cΔλ
	return atan2d(y, x)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
