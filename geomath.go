package geodesic

import "math"

const (
	digits  = 53
	degree  = math.Pi / 180
	epsilon = 0x1p-52 // 2^(1-digits)
)

func sq(x float64) float64 { return x * x }

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// polyval evaluates the polynomial p[s] x^n + p[s+1] x^(n-1) + ... + p[s+n]
// using Horner's method. A negative n yields 0.
func polyval(n int, p []float64, s int, x float64) float64 {
	var y float64
	if n >= 0 {
		y = p[s]
	}
	for ; n > 0; n-- {
		s++
		y = y*x + p[s]
	}
	return y
}

// sum is an error free transformation of a sum: u + v = s + t exactly,
// with s = round(u + v).
func sum(u, v float64) (s, t float64) {
	s = u + v
	up := s - v
	vpp := s - up
	up -= u
	vpp -= v
	t = -(up + vpp)
	return s, t
}

// remainder returns x mod y reduced to [-y/2, y/2).
func remainder(x, y float64) float64 {
	z := math.NaN()
	if !math.IsInf(x, 0) {
		z = math.Mod(x, y)
	}
	switch {
	case z < -y/2:
		return z + y
	case z < y/2:
		return z
	default:
		return z - y
	}
}

// angNormalize reduces an angle to (-180,180].
func angNormalize(x float64) float64 {
	y := remainder(x, 360)
	if y == -180 {
		return 180
	}
	return y
}

// lonNormalize reduces a longitude to [-180,180).
func lonNormalize(x float64) float64 {
	y := remainder(x, 360)
	if y == 180 {
		return -180
	}
	return y
}

// angDiff computes y - x reduced to [-180,180] accurately. The second
// result is the rounding error, so that d + e = y - x exactly.
func angDiff(x, y float64) (d, e float64) {
	d, t := sum(angNormalize(-x), angNormalize(y))
	d = angNormalize(d)
	if d == 180 && t > 0 {
		return sum(-180, t)
	}
	return sum(d, t)
}

// angRound rounds an angle so that small values underflow to zero. The
// smallest gap in x is 1/16 - nextafter(1/16, 0) = 2^-57, about 0.7 pm on
// the earth for an angle in degrees. This avoids near singular cases when
// x is non-zero but tiny (e.g., 1e-200).
func angRound(x float64) float64 {
	const z = 1 / 16.0
	y := math.Abs(x)
	if y < z {
		y = z - (z - y)
	}
	switch {
	case x == 0:
		return 0
	case x < 0:
		return -y
	default:
		return y
	}
}

// sincosd returns the sine and cosine of x in degrees, exact at multiples
// of 90 degrees.
func sincosd(x float64) (s, c float64) {
	r := math.NaN()
	if !math.IsInf(x, 0) {
		r = math.Mod(x, 360)
	}
	q := 0
	if !math.IsNaN(r) {
		q = int(math.Round(r / 90))
	}
	r -= float64(90 * q)
	r *= degree
	s, c = math.Sincos(r)
	switch uint(q) & 3 {
	case 1:
		s, c = c, -s
	case 2:
		s, c = -s, -c
	case 3:
		s, c = -c, s
	}
	if x == 0 {
		s = x
	}
	return s, c + 0
}

// atan2d returns atan2(y, x) in degrees, in (-180,180]. The quadrant is
// resolved before calling math.Atan2 so that the result is exact for
// points on the axes.
func atan2d(y, x float64) float64 {
	q := 0
	if math.Abs(y) > math.Abs(x) {
		q = 2
		x, y = y, x
	}
	if x < 0 {
		q++
		x = -x
	}
	ang := math.Atan2(y, x) / degree
	switch q {
	case 1:
		if y >= 0 {
			ang = 180 - ang
		} else {
			ang = -180 - ang
		}
	case 2:
		ang = 90 - ang
	case 3:
		ang = -90 + ang
	}
	return ang
}

// norm normalizes the two-vector (x, y).
func norm(x, y float64) (float64, float64) {
	r := math.Hypot(x, y)
	return x / r, y / r
}

// accumulator sums float64 values at twice the normal precision, in the
// manner of Shewchuk's exact summation. Used for polygon perimeters and
// areas where many small contributions cancel.
type accumulator struct {
	s, t float64
}

func (a *accumulator) set(y float64) { a.s, a.t = y, 0 }

func (a *accumulator) add(y float64) {
	var u float64
	y, u = sum(y, a.t)
	a.s, a.t = sum(y, a.s)
	// Here y + u = old t + y exactly, and s + t = old s + y + (old t - u)
	if a.s == 0 {
		a.s = u
	} else {
		a.t += u
	}
}

// sum returns the accumulated value plus y without modifying a.
func (a accumulator) sum(y float64) float64 {
	if y == 0 {
		return a.s
	}
	b := a
	b.add(y)
	return b.s
}

func (a *accumulator) negate() {
	a.s = -a.s
	a.t = -a.t
}

// remainder reduces the accumulated value to [-y/2, y/2].
func (a *accumulator) remainder(y float64) {
	a.s = math.Remainder(a.s, y)
	a.add(0)
}
