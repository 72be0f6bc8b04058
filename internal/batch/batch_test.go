package batch

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodkit/geodesic"
	"github.com/geodkit/geodesic/internal/config"
	"github.com/geodkit/geodesic/internal/dms"
)

func run(t *testing.T, opts Options, input string) ([]string, Stats) {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	var out strings.Builder
	stats, err := p.Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"), stats
}

func fixed(x float64, prec int) string {
	return strconv.FormatFloat(x, 'f', prec, 64)
}

func TestInverse(t *testing.T) {
	lines, stats := run(t, Options{Mode: config.ModeInverse, Precision: 3, Workers: 3},
		"0 0 0 1\n\n40.6 -73.8 49.01666667 2.55\nbad\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "90.00000000 90.00000000 111319.491", lines[0])
	assert.Equal(t, "", lines[1])

	r, err := geodesic.WGS84.Inverse(40.6, -73.8, 49.01666667, 2.55)
	require.NoError(t, err)
	assert.Equal(t, fixed(r.Azi1, 8)+" "+fixed(r.Azi2, 8)+" "+fixed(r.S12, 3), lines[2])

	assert.Equal(t, "ERROR: incomplete input: bad", lines[3])
	assert.Equal(t, Stats{Records: 3, Failed: 1}, stats)
}

func TestInverseFullDMS(t *testing.T) {
	lines, _ := run(t, Options{Mode: config.ModeInverse, Precision: 0, DMS: true, Full: true},
		"0 0 0 1\n")
	require.Len(t, lines, 1)
	assert.Equal(t, `00d00'00.0"N 000d00'00.0"E 090d00'00.0" 00d00'00.0"N 001d00'00.0"E 090d00'00.0" 111319`, lines[0])
}

func TestDirect(t *testing.T) {
	lines, stats := run(t, Options{Mode: config.ModeDirect, Precision: 3, Full: true},
		"40d38'23\"N 73d46'44\"W 53.5 5850e3\n0 0 0 nan\n91 0 0 1\n0 0 10N 1\n")
	require.Len(t, lines, 4)

	lat1, lon1, err := dms.DecodeLatLon(`40d38'23"N`, `73d46'44"W`)
	require.NoError(t, err)
	r, err := geodesic.WGS84.Direct(lat1, lon1, 53.5, 5850e3)
	require.NoError(t, err)
	want := strings.Join([]string{
		fixed(lat1, 8), fixed(lon1, 8), fixed(53.5, 8),
		fixed(r.Lat2, 8), fixed(r.Lon2, 8), fixed(r.Azi2, 8),
		"5850000.000",
	}, " ")
	assert.Equal(t, want, lines[0])

	assert.True(t, strings.HasPrefix(lines[1], "ERROR: geodesic: Direct: out of range s12"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "ERROR: dms: out of range"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "ERROR: dms: out of range"), lines[3])
	assert.Equal(t, Stats{Records: 4, Failed: 3}, stats)
}

func TestDirectDMS(t *testing.T) {
	lines, _ := run(t, Options{Mode: config.ModeDirect, Precision: 3, DMS: true}, "10 20 -30 1e6\n")
	require.Len(t, lines, 1)
	r, err := geodesic.WGS84.Direct(10, 20, -30, 1e6)
	require.NoError(t, err)
	want := dms.Encode(r.Lat2, 8, dms.Latitude) + " " +
		dms.Encode(r.Lon2, 8, dms.Longitude) + " " +
		dms.Encode(r.Azi2, 8, dms.Azimuth)
	assert.Equal(t, want, lines[0])
}

func TestLineMode(t *testing.T) {
	opts := Options{Mode: config.ModeLine, Lat1: 40.6, Lon1: -73.8, Azi1: 45, Precision: 3, Full: true}
	lines, stats := run(t, opts, "0\n1000\nx\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "40.60000000 -73.80000000 45.00000000 40.60000000 -73.80000000 45.00000000 0.000", lines[0])

	r, err := geodesic.WGS84.Direct(40.6, -73.8, 45, 1000)
	require.NoError(t, err)
	assert.Equal(t, "40.60000000 -73.80000000 45.00000000 "+
		fixed(r.Lat2, 8)+" "+fixed(r.Lon2, 8)+" "+fixed(r.Azi2, 8)+" 1000.000", lines[1])
	assert.Equal(t, `ERROR: bad distance "x"`, lines[2])
	assert.Equal(t, Stats{Records: 3, Failed: 1}, stats)
}

func TestOrderPreserved(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var in strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&in, "%f %f %f %f\n",
			rnd.Float64()*180-90, rnd.Float64()*360-180,
			rnd.Float64()*180-90, rnd.Float64()*360-180)
	}
	serial, _ := run(t, Options{Mode: config.ModeInverse, Workers: 1}, in.String())
	parallel, stats := run(t, Options{Mode: config.ModeInverse, Workers: 8}, in.String())
	assert.Equal(t, serial, parallel)
	assert.Equal(t, 500, stats.Records)
	assert.Zero(t, stats.Failed)
}

func TestCacheAndMetrics(t *testing.T) {
	cache, err := NewCache(context.Background(), 1)
	require.NoError(t, err)
	defer cache.Close()
	m := NewMetrics()

	p, err := New(Options{Mode: config.ModeInverse, Cache: cache, Metrics: m})
	require.NoError(t, err)
	first, err := p.Solve("-30 0 29.9 179.8")
	require.NoError(t, err)
	second, err := p.Solve("  -30   0 29.9 179.8 ")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	_, err = p.Solve("-30 0 29.9")
	require.Error(t, err)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Records.WithLabelValues("inverse", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Records.WithLabelValues("inverse", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Iterations))
	n, err := testutil.GatherAndCount(m.Registry(), "geodsolve_records_total", "geodsolve_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	path := filepath.Join(t.TempDir(), "geodsolve.prom")
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geodsolve_records_total")
	assert.Contains(t, string(data), "geodsolve_inverse_iterations_bucket")
}

func TestNilCacheAndMetrics(t *testing.T) {
	var c *Cache
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.NoError(t, c.Set("k", "v"))
	assert.Zero(t, c.Len())
	assert.NoError(t, c.Close())

	var m *Metrics
	m.record("direct", nil, 0)
	m.cacheLookup(true)
	m.iterations(geodesic.Iterations{Newton: 1})
}

func TestCanceled(t *testing.T) {
	p, err := New(Options{Mode: config.ModeDirect})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	stats, err := p.Run(ctx, strings.NewReader("0 0 0 1\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Records)
	assert.Empty(t, out.String())
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Mode: "sideways"})
	assert.Error(t, err)
	_, err = New(Options{Mode: config.ModeLine, Lat1: 91})
	assert.ErrorIs(t, err, geodesic.ErrOutOfRange)
}

func TestOptionsFromConfig(t *testing.T) {
	fs := config.Flags("geodsolve")
	require.NoError(t, fs.Parse([]string{"-l", "40d36'N 73d48'W 45", "-n", "-p", "5", "-d"}))
	c, err := config.Load(fs)
	require.NoError(t, err)
	o, err := OptionsFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, config.ModeLine, o.Mode)
	assert.Same(t, geodesic.International, o.Ellipsoid)
	assert.InDelta(t, 40.6, o.Lat1, 1e-12)
	assert.InDelta(t, -73.8, o.Lon1, 1e-12)
	assert.Equal(t, 45.0, o.Azi1)
	assert.Equal(t, 5, o.Precision)
	assert.True(t, o.DMS)

	c.Line.Azi1 = "10S"
	_, err = OptionsFromConfig(c)
	assert.ErrorIs(t, err, dms.ErrRange)
}
