package batch

import (
	"strconv"

	"github.com/geodkit/geodesic/internal/dms"
)

// formatter renders results. Angles carry prec+5 decimals of a degree
// (1e-8 deg is about 1 mm at prec 3) and distances prec decimals of a
// meter.
type formatter struct {
	prec int
	dms  bool
}

func (f formatter) latLon(lat, lon float64) string {
	if f.dms {
		return dms.Encode(lat, f.prec+5, dms.Latitude) + " " + dms.Encode(lon, f.prec+5, dms.Longitude)
	}
	return f.angle(lat) + " " + f.angle(lon)
}

func (f formatter) azimuth(azi float64) string {
	if f.dms {
		return dms.Encode(azi, f.prec+5, dms.Azimuth)
	}
	return f.angle(azi)
}

func (f formatter) angle(x float64) string {
	return strconv.FormatFloat(x, 'f', f.prec+5, 64)
}

func (f formatter) distance(s float64) string {
	return strconv.FormatFloat(s, 'f', f.prec, 64)
}
