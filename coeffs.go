package geodesic

import "math"

// Series expansions of the geodesic integrals, carried to sixth order in the
// flattening. See C. F. F. Karney, Algorithms for geodesics, J. Geodesy 87,
// 43-55 (2013), for the definitions of A1..A4 and C1..C4.

const (
	order = 6
	nA1   = order
	nC1   = order
	nC1p  = order
	nA2   = order
	nC2   = order
	nA3   = order
	nA3x  = nA3
	nC3   = order
	nC3x  = (nC3 * (nC3 - 1)) / 2
	nC4   = order
	nC4x  = (nC4 * (nC4 + 1)) / 2
)

var (
	a1m1Coeff = [...]float64{1, 4, 64, 0, 256}
	c1Coeff   = [...]float64{
		-1, 6, -16, 32,
		-9, 64, -128, 2048,
		9, -16, 768,
		3, -5, 512,
		-7, 1280,
		-7, 2048,
	}
	c1pCoeff = [...]float64{
		205, -432, 768, 1536,
		4005, -4736, 3840, 12288,
		-225, 116, 384,
		-7173, 2695, 7680,
		3467, 7680,
		38081, 61440,
	}
	a2m1Coeff = [...]float64{-11, -28, -192, 0, 256}
	c2Coeff   = [...]float64{
		1, 2, 16, 32,
		35, 64, 384, 2048,
		15, 80, 768,
		7, 35, 512,
		63, 1280,
		77, 2048,
	}
	a3Coeff = [...]float64{
		-3, 128,
		-2, -3, 64,
		-1, -3, -1, 16,
		3, -1, -2, 8,
		1, -1, 2,
		1, 1,
	}
	c3Coeff = [...]float64{
		3, 128,
		2, 5, 128,
		-1, 3, 3, 64,
		-1, 0, 1, 8,
		-1, 1, 4,
		5, 256,
		1, 3, 128,
		-3, -2, 3, 64,
		1, -3, 2, 32,
		7, 512,
		-10, 9, 384,
		5, -9, 5, 192,
		7, 512,
		-14, 7, 512,
		21, 2560,
	}
	c4Coeff = [...]float64{
		97, 15015,
		1088, 156, 45045,
		-224, -4784, 1573, 45045,
		-10656, 14144, -4576, -858, 45045,
		64, 624, -4576, 6864, -3003, 15015,
		100, 208, 572, 3432, -12012, 30030, 45045,
		1, 9009,
		-2944, 468, 135135,
		5792, 1040, -1287, 135135,
		5952, -11648, 9152, -2574, 135135,
		-64, -624, 4576, -6864, 3003, 135135,
		8, 10725,
		1856, -936, 225225,
		-8448, 4992, -1144, 225225,
		-1440, 4160, -4576, 1716, 225225,
		-136, 63063,
		1024, -208, 105105,
		3584, -3328, 1144, 315315,
		-128, 135135,
		-2560, 832, 405405,
		128, 99099,
	}
)

// a1m1f returns A1 - 1, the secular term of the distance integral.
func a1m1f(eps float64) float64 {
	const m = nA1 / 2
	t := polyval(m, a1m1Coeff[:], 0, sq(eps)) / a1m1Coeff[m+1]
	return (t + eps) / (1 - eps)
}

// c1f sets c[1..nC1], the coefficients of the distance series s(sigma).
func c1f(eps float64, c *[nC1 + 1]float64) {
	eps2 := sq(eps)
	d := eps
	o := 0
	for l := 1; l <= nC1; l++ {
		m := (nC1 - l) / 2 // order of polynomial in eps^2
		c[l] = d * polyval(m, c1Coeff[:], o, eps2) / c1Coeff[o+m+1]
		o += m + 2
		d *= eps
	}
}

// c1pf sets c[1..nC1p], the coefficients of the reverted series
// sigma(tau) which gives the auxiliary arc from a distance.
func c1pf(eps float64, c *[nC1p + 1]float64) {
	eps2 := sq(eps)
	d := eps
	o := 0
	for l := 1; l <= nC1p; l++ {
		m := (nC1p - l) / 2
		c[l] = d * polyval(m, c1pCoeff[:], o, eps2) / c1pCoeff[o+m+1]
		o += m + 2
		d *= eps
	}
}

// a2m1f returns A2 - 1, the secular term of the reduced length integral.
func a2m1f(eps float64) float64 {
	const m = nA2 / 2
	t := polyval(m, a2m1Coeff[:], 0, sq(eps)) / a2m1Coeff[m+1]
	return (t - eps) / (1 + eps)
}

// c2f sets c[1..nC2].
func c2f(eps float64, c *[nC2 + 1]float64) {
	eps2 := sq(eps)
	d := eps
	o := 0
	for l := 1; l <= nC2; l++ {
		m := (nC2 - l) / 2
		c[l] = d * polyval(m, c2Coeff[:], o, eps2) / c2Coeff[o+m+1]
		o += m + 2
		d *= eps
	}
}

// seriesTables holds the coefficients of the A3, C3 and C4 expansions
// reduced to polynomials in eps. They depend only on the third flattening
// n and are computed once per ellipsoid.
type seriesTables struct {
	a3x [nA3x]float64
	c3x [nC3x]float64
	c4x [nC4x]float64
}

func newSeriesTables(n float64) seriesTables {
	var t seriesTables
	o, k := 0, 0
	for j := nA3 - 1; j >= 0; j-- { // coeff of eps^j
		m := min(nA3-j-1, j) // order of polynomial in n
		t.a3x[k] = polyval(m, a3Coeff[:], o, n) / a3Coeff[o+m+1]
		k++
		o += m + 2
	}
	o, k = 0, 0
	for l := 1; l < nC3; l++ {
		for j := nC3 - 1; j >= l; j-- {
			m := min(nC3-j-1, j)
			t.c3x[k] = polyval(m, c3Coeff[:], o, n) / c3Coeff[o+m+1]
			k++
			o += m + 2
		}
	}
	o, k = 0, 0
	for l := 0; l < nC4; l++ {
		for j := nC4 - 1; j >= l; j-- {
			m := nC4 - j - 1
			t.c4x[k] = polyval(m, c4Coeff[:], o, n) / c4Coeff[o+m+1]
			k++
			o += m + 2
		}
	}
	return t
}

// a3f evaluates A3, the secular term of the longitude integral.
func (t *seriesTables) a3f(eps float64) float64 {
	return polyval(nA3-1, t.a3x[:], 0, eps)
}

// c3f sets c[1..nC3-1].
func (t *seriesTables) c3f(eps float64, c *[nC3]float64) {
	mult := 1.0
	o := 0
	for l := 1; l < nC3; l++ {
		m := nC3 - l - 1 // order of polynomial in eps
		mult *= eps
		c[l] = mult * polyval(m, t.c3x[:], o, eps)
		o += m + 1
	}
}

// c4f sets c[0..nC4-1], the coefficients of the area series.
func (t *seriesTables) c4f(eps float64, c *[nC4]float64) {
	mult := 1.0
	o := 0
	for l := 0; l < nC4; l++ {
		m := nC4 - l - 1
		c[l] = mult * polyval(m, t.c4x[:], o, eps)
		o += m + 1
		mult *= eps
	}
}

// sinCosSeries evaluates, by Clenshaw summation,
//
//	sinp:  sum(c[i] * sin(2*i*x), i, 1, n)      (c[0] unused)
//	!sinp: sum(c[i] * cos((2*i+1)*x), i, 0, n-1)
//
// where n = len(c) - 1 for sine series and len(c) otherwise.
func sinCosSeries(sinp bool, sinx, cosx float64, c []float64) float64 {
	k := len(c)
	n := k
	if sinp {
		n--
	}
	ar := 2 * (cosx - sinx) * (cosx + sinx) // 2 * cos(2 * x)
	var y0, y1 float64
	if n&1 != 0 {
		k--
		y0 = c[k]
	}
	for n /= 2; n > 0; n-- {
		k--
		y1 = ar*y0 - y1 + c[k]
		k--
		y0 = ar*y1 - y0 + c[k]
	}
	if sinp {
		return 2 * sinx * cosx * y0 // sin(2 * x) * y0
	}
	return cosx * (y0 - y1) // cos(x) * (y0 - y1)
}

// epsilonOf returns the expansion parameter eps = k^2 / (2(1 + sqrt(1 + k^2))
// + k^2) for k2 = k^2.
func epsilonOf(k2 float64) float64 {
	return k2 / (2*(1+math.Sqrt(1+k2)) + k2)
}
