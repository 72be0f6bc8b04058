package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodkit/geodesic"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := Flags("geodsolve")
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func TestDefaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, c.Mode)
	assert.Equal(t, "wgs84", c.Ellipsoid.Name)
	assert.Equal(t, 3, c.Output.Precision)
	assert.False(t, c.Output.DMS)
	assert.False(t, c.Output.Full)
	assert.Equal(t, 4, c.Workers)
	assert.Zero(t, c.Cache.SizeMB)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)

	e, err := c.Ellipsoid.Build()
	require.NoError(t, err)
	assert.Same(t, geodesic.WGS84, e)
}

func TestShortFlags(t *testing.T) {
	c, err := load(t, "-i", "-n", "-d", "-f", "-p", "12")
	require.NoError(t, err)
	assert.Equal(t, ModeInverse, c.Mode)
	assert.Equal(t, "international", c.Ellipsoid.Name)
	assert.True(t, c.Output.DMS)
	assert.True(t, c.Output.Full)
	assert.Equal(t, 9, c.Output.Precision)

	c, err = load(t, "-l", "40d38'N 73d47'W 53.5", "-p", "-2")
	require.NoError(t, err)
	assert.Equal(t, ModeLine, c.Mode)
	assert.Equal(t, LineConfig{Lat1: "40d38'N", Lon1: "73d47'W", Azi1: "53.5"}, c.Line)
	assert.Zero(t, c.Output.Precision)

	c, err = load(t, "-l", "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, LineConfig{Lat1: "1", Lon1: "2", Azi1: "3"}, c.Line)
}

func TestCustomEllipsoid(t *testing.T) {
	c, err := load(t, "-e", "6400000 300")
	require.NoError(t, err)
	assert.Equal(t, EllipsoidConfig{Name: "custom", Radius: 6400000, Flattening: 300}, c.Ellipsoid)
	e, err := c.Ellipsoid.Build()
	require.NoError(t, err)
	assert.Equal(t, 6400000.0, e.Radius())
	assert.InDelta(t, 1.0/300, e.Flattening(), 1e-18)

	c, err = load(t, "-e", "6400000 0.01")
	require.NoError(t, err)
	e, err = c.Ellipsoid.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.01, e.Flattening())

	c, err = load(t, "-e", "6400000 1")
	if err == nil {
		_, err = c.Ellipsoid.Build()
	}
	assert.Error(t, err)
}

func TestFlagErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-i", "-l", "1 2 3"},
		{"-l", "1 2"},
		{"-n", "-e", "6378137 298"},
		{"-e", "6378137"},
		{"-e", "x 298"},
		{"-e", "6378137 y"},
		{"-e", "0 298"},
		{"--workers", "0"},
		{"--log-level", "loud"},
		{"--log-format", "xml"},
		{"--cache-mb", "-1"},
	} {
		_, err := load(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("GEODSOLVE_OUTPUT_PRECISION", "6")
	t.Setenv("GEODSOLVE_MODE", "INVERSE")
	t.Setenv("GEODSOLVE_LOG_LEVEL", "debug")
	t.Setenv("GEODSOLVE_ELLIPSOID_NAME", "sphere")
	t.Setenv("GEODSOLVE_ELLIPSOID_RADIUS", "6371000")

	c, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Output.Precision)
	assert.Equal(t, ModeInverse, c.Mode)
	assert.Equal(t, "debug", c.Log.Level)
	e, err := c.Ellipsoid.Build()
	require.NoError(t, err)
	assert.True(t, e.Spherical())
	assert.Equal(t, 6371000.0, e.Radius())

	// Flags win over the environment.
	c, err = load(t, "-p", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Output.Precision)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodsolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: line
line:
  lat1: "10"
  lon1: "20"
  azi1: "30"
output:
  precision: 5
  full: true
workers: 8
cache:
  size_mb: 16
metrics:
  file: /tmp/geodsolve.prom
`), 0o600))

	c, err := load(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, ModeLine, c.Mode)
	assert.Equal(t, LineConfig{Lat1: "10", Lon1: "20", Azi1: "30"}, c.Line)
	assert.Equal(t, 5, c.Output.Precision)
	assert.True(t, c.Output.Full)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, 16, c.Cache.SizeMB)
	assert.Equal(t, "/tmp/geodsolve.prom", c.Metrics.File)

	c, err = load(t, "--config", path, "--workers", "2", "-i")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, ModeInverse, c.Mode)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLineModeNeedsStart(t *testing.T) {
	t.Setenv("GEODSOLVE_MODE", "line")
	_, err := load(t)
	assert.ErrorContains(t, err, "line mode")
}

func TestSphereWithoutRadius(t *testing.T) {
	e, err := EllipsoidConfig{Name: "sphere"}.Build()
	require.NoError(t, err)
	assert.Same(t, geodesic.Globe, e)

	_, err = EllipsoidConfig{Name: "pear"}.Build()
	assert.Error(t, err)
}
