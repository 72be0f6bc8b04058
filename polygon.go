package geodesic

import "math"

// Polygon accumulates information about a geodesic polygon, for computing
// its perimeter and area. It must be created with Ellipsoid.NewPolygon.
//
// A Polygon is not safe for concurrent use.
type Polygon struct {
	e         *Ellipsoid
	polyline  bool
	num       int
	lat0      float64 // first vertex
	lon0      float64
	lat       float64 // last vertex; lon is unrolled after AddEdge
	lon       float64
	crossings int
	perimeter accumulator
	area      accumulator
}

// PolygonResult is the result of Polygon.Compute, TestPoint and TestEdge.
type PolygonResult struct {
	// Count is the number of vertices.
	Count int
	// Perimeter of the polygon or length of the polyline (meters).
	Perimeter float64
	// Area of the polygon (meters-squared). Always zero for a polyline.
	Area float64
}

// NewPolygon returns an empty polygon.
//
// If polyline is not set, then the sequence of vertices and edges added by
// AddPoint and AddEdge define a polygon and the perimeter and area are
// returned by Compute. If polyline is set, then the vertices and edges
// define a polyline and only the perimeter is returned.
//
// The area and perimeter are accumulated at two times the standard floating
// point precision to guard against the loss of accuracy with many-sided
// polygons. At any point you can ask for the perimeter and area so far.
func (e *Ellipsoid) NewPolygon(polyline bool) *Polygon {
	p := &Polygon{e: e, polyline: polyline}
	p.Clear()
	return p
}

// Clear the polygon, allowing a new polygon to be started.
func (p *Polygon) Clear() {
	p.num = 0
	p.crossings = 0
	p.perimeter.set(0)
	p.area.set(0)
	p.lat0, p.lon0 = math.NaN(), math.NaN()
	p.lat, p.lon = math.NaN(), math.NaN()
}

// Polyline reports whether p was created as a polyline.
func (p *Polygon) Polyline() bool { return p.polyline }

// Count returns the number of vertices added so far.
func (p *Polygon) Count() int { return p.num }

func (p *Polygon) areaWant() Outputs {
	if p.polyline {
		return 0
	}
	return Area
}

// AddPoint adds a point to the polygon or polyline.
//
// lat should be in the range [-90,+90].
func (p *Polygon) AddPoint(lat, lon float64) error {
	const op = "Polygon.AddPoint"
	if err := checkLat(op, "lat", lat); err != nil {
		return err
	}
	if err := checkFinite(op, "lon", lon); err != nil {
		return err
	}
	if p.num == 0 {
		p.lat0, p.lat = lat, lat
		p.lon0, p.lon = lon, lon
	} else {
		sol := p.e.genInverse(p.lat, p.lon, lat, lon, p.areaWant())
		p.perimeter.add(sol.s12)
		if !p.polyline {
			p.area.add(sol.S12)
			p.crossings += transit(p.lon, lon)
		}
		p.lat, p.lon = lat, lon
	}
	p.num++
	return nil
}

// AddEdge adds an edge to the polygon or polyline, starting at the last
// vertex and heading on azimuth azi (degrees) for a distance s (meters).
// An edge added before any point is ignored.
func (p *Polygon) AddEdge(azi, s float64) error {
	const op = "Polygon.AddEdge"
	if err := checkFinite(op, "azi", azi); err != nil {
		return err
	}
	if err := checkFinite(op, "s", s); err != nil {
		return err
	}
	if p.num == 0 {
		return nil
	}
	ln := p.e.newLine(p.lat, p.lon, azi)
	r := ln.genPosition(false, s, LongUnroll|p.areaWant())
	p.perimeter.add(s)
	if !p.polyline {
		p.area.add(r.Area.Value)
		p.crossings += transitDirect(p.lon, r.Lon2)
	}
	p.lat, p.lon = r.Lat2, r.Lon2
	p.num++
	return nil
}

// Compute returns the results for the polygon so far.
//
// Param reverse: if set then clockwise (instead of counter-clockwise)
// traversal counts as a positive area.
// Param sign: if set then return a signed result for the area if the
// polygon is traversed in the "wrong" direction instead of returning the
// area for the rest of the earth.
//
// Arbitrarily complex polygons are allowed. In the case of self-intersecting
// polygons the area is accumulated "algebraically", e.g., the areas of the 2
// loops in a figure-8 polygon will partially cancel. There's no need to
// "close" the polygon by repeating the first vertex.
//
// More points can be added to the polygon after this call.
func (p *Polygon) Compute(reverse, sign bool) PolygonResult {
	r := PolygonResult{Count: p.num}
	if p.num < 2 {
		return r
	}
	if p.polyline {
		r.Perimeter = p.perimeter.s
		return r
	}
	sol := p.e.genInverse(p.lat, p.lon, p.lat0, p.lon0, Area)
	r.Perimeter = p.perimeter.sum(sol.s12)
	t := p.area
	t.add(sol.S12)
	r.Area = p.reduceAccumulated(t, p.crossings+transit(p.lon, p.lon0), reverse, sign)
	return r
}

// TestPoint returns the results for the polygon with the point (lat, lon)
// tentatively added. The polygon is not modified.
func (p *Polygon) TestPoint(lat, lon float64, reverse, sign bool) (PolygonResult, error) {
	const op = "Polygon.TestPoint"
	if err := checkLat(op, "lat", lat); err != nil {
		return PolygonResult{}, err
	}
	if err := checkFinite(op, "lon", lon); err != nil {
		return PolygonResult{}, err
	}
	r := PolygonResult{Count: p.num + 1}
	if r.Count == 1 {
		return r, nil
	}
	perimeter := p.perimeter.s
	var tempsum float64
	if !p.polyline {
		tempsum = p.area.s
	}
	crossings := p.crossings
	legs := 2
	if p.polyline {
		legs = 1
	}
	for i := 0; i < legs; i++ {
		lat1, lon1, lat2, lon2 := p.lat, p.lon, lat, lon
		if i != 0 {
			lat1, lon1, lat2, lon2 = lat, lon, p.lat0, p.lon0
		}
		sol := p.e.genInverse(lat1, lon1, lat2, lon2, p.areaWant())
		perimeter += sol.s12
		if !p.polyline {
			tempsum += sol.S12
			crossings += transit(lon1, lon2)
		}
	}
	r.Perimeter = perimeter
	if !p.polyline {
		r.Area = p.reduce(tempsum, crossings, reverse, sign)
	}
	return r, nil
}

// TestEdge returns the results for the polygon with an edge tentatively
// added from the last vertex. The polygon is not modified. Without a
// starting point the count is zero and the perimeter and area are NaN.
func (p *Polygon) TestEdge(azi, s float64, reverse, sign bool) (PolygonResult, error) {
	const op = "Polygon.TestEdge"
	if err := checkFinite(op, "azi", azi); err != nil {
		return PolygonResult{}, err
	}
	if err := checkFinite(op, "s", s); err != nil {
		return PolygonResult{}, err
	}
	if p.num == 0 {
		r := PolygonResult{Perimeter: math.NaN()}
		if !p.polyline {
			r.Area = math.NaN()
		}
		return r, nil
	}
	r := PolygonResult{Count: p.num + 1, Perimeter: p.perimeter.s + s}
	if p.polyline {
		return r, nil
	}
	tempsum := p.area.s
	crossings := p.crossings
	ln := p.e.newLine(p.lat, p.lon, azi)
	d := ln.genPosition(false, s, LongUnroll|Area)
	tempsum += d.Area.Value
	crossings += transitDirect(p.lon, d.Lon2)
	sol := p.e.genInverse(d.Lat2, d.Lon2, p.lat0, p.lon0, Area)
	r.Perimeter += sol.s12
	tempsum += sol.S12
	crossings += transit(d.Lon2, p.lon0)
	r.Area = p.reduce(tempsum, crossings, reverse, sign)
	return r, nil
}

// reduceAccumulated folds an accumulated area into the conventional range
// for the traversal direction and sign convention.
func (p *Polygon) reduceAccumulated(a accumulator, crossings int, reverse, sign bool) float64 {
	area0 := p.e.Area()
	a.remainder(area0)
	if crossings&1 != 0 {
		if a.s < 0 {
			a.add(area0 / 2)
		} else {
			a.add(-area0 / 2)
		}
	}
	// area is with the clockwise sense. If !reverse convert to
	// counter-clockwise convention.
	if !reverse {
		a.negate()
	}
	// If sign put area in (-area0/2, area0/2], else put area in [0, area0)
	if sign {
		if a.s > area0/2 {
			a.add(-area0)
		} else if a.s <= -area0/2 {
			a.add(area0)
		}
	} else {
		if a.s >= area0 {
			a.add(-area0)
		} else if a.s < 0 {
			a.add(area0)
		}
	}
	return 0 + a.s
}

// reduce is reduceAccumulated for a plain sum.
func (p *Polygon) reduce(area float64, crossings int, reverse, sign bool) float64 {
	area0 := p.e.Area()
	area = math.Remainder(area, area0)
	if crossings&1 != 0 {
		if area < 0 {
			area += area0 / 2
		} else {
			area -= area0 / 2
		}
	}
	if !reverse {
		area = -area
	}
	if sign {
		if area > area0/2 {
			area -= area0
		} else if area <= -area0/2 {
			area += area0
		}
	} else {
		if area >= area0 {
			area -= area0
		} else if area < 0 {
			area += area0
		}
	}
	return 0 + area
}

// transit returns 1 or -1 if crossing the prime meridian in the east or
// west direction and 0 otherwise. Going from 0 to 180 counts as a crossing
// while going from 180 to 0 does not.
func transit(lon1, lon2 float64) int {
	// Compute lon12 the same way as Inverse does.
	lon12, _ := angDiff(lon1, lon2)
	lon1 = angNormalize(lon1)
	lon2 = angNormalize(lon2)
	switch {
	case lon12 > 0 && ((lon1 < 0 && lon2 >= 0) || (lon1 > 0 && lon2 == 0)):
		return 1
	case lon12 < 0 && lon1 >= 0 && lon2 < 0:
		return -1
	default:
		return 0
	}
}

// transitDirect is transit for unrolled longitudes, as produced by AddEdge.
func transitDirect(lon1, lon2 float64) int {
	lon1 = math.Remainder(lon1, 720)
	lon2 = math.Remainder(lon2, 720)
	return b2i(lon2 <= 0 && lon2 > -360) - b2i(lon1 <= 0 && lon1 > -360)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
