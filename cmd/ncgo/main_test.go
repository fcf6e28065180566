package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/netcdf-go/pkg/netcdf"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRoot(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// sample writes a small file with a record variable, a fill-padded
// variable and attributes of several types.
func sample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.nc")
	f, err := netcdf.Create(path)
	require.NoError(t, err)
	_, err = f.AddUnlimitedDimension("time")
	require.NoError(t, err)
	_, err = f.AddDimension("x", 3)
	require.NoError(t, err)
	temp, err := f.AddVariable("temp", netcdf.Float, "time", "x")
	require.NoError(t, err)
	_, err = temp.PutAttribute("units", "K")
	require.NoError(t, err)
	require.NoError(t, temp.SetFillValue(float32(-999)))
	count, err := f.AddVariable("count", netcdf.Short, "x")
	require.NoError(t, err)
	_, err = f.PutAttribute("title", "sample data")
	require.NoError(t, err)
	_, err = f.PutAttribute("version", []int32{1, 2})
	require.NoError(t, err)

	require.NoError(t, netcdf.PutValues(temp, netcdf.All(), []float32{1, 2, 3, 4, -999, 6}))
	require.NoError(t, netcdf.PutValues(count, netcdf.All(), []int16{7, 8, 9}))
	require.NoError(t, f.Close())
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ncgo "+netcdf.WrapperVersion())
	assert.Contains(t, out, "library "+netcdf.LibraryVersion())
}

func TestDumpCDL(t *testing.T) {
	out, err := run(t, "dump", sample(t), "--var", "count")
	require.NoError(t, err)
	for _, want := range []string{
		"netcdf sample {",
		"\ttime = UNLIMITED ; // (2 currently)",
		"\tx = 3 ;",
		"\tfloat temp(time, x) ;",
		"\t\ttemp:units = \"K\" ;",
		"\tshort count(x) ;",
		"// global attributes:",
		"\t\t:title = \"sample data\" ;",
		"\t\t:version = 1, 2 ;",
		" count = 7s, 8s, 9s ;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, " temp = ")
}

func TestDumpJSONAndYAML(t *testing.T) {
	path := sample(t)

	out, err := run(t, "dump", path, "-f", "json", "-v", "temp")
	require.NoError(t, err)
	var doc struct {
		File      string
		Name      string
		Format    string
		Variables []struct {
			Name string
			Data []float64
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "sample", doc.File)
	assert.Equal(t, "/", doc.Name)
	assert.Equal(t, "classic", doc.Format)
	require.Len(t, doc.Variables, 2)
	assert.Equal(t, []float64{1, 2, 3, 4, -999, 6}, doc.Variables[0].Data)
	assert.Nil(t, doc.Variables[1].Data)

	out, err = run(t, "dump", path, "--format", "yaml")
	require.NoError(t, err)
	var y map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &y))
	assert.Equal(t, "sample", y["file"])
	assert.Equal(t, "/", y["name"])
	assert.Len(t, y["dimensions"], 2)
}

func TestDumpGzip(t *testing.T) {
	path := sample(t)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	gz := path + ".gz"
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(gz, buf.Bytes(), 0o644))

	out, err := run(t, "dump", gz)
	require.NoError(t, err)
	assert.Contains(t, out, "netcdf sample {")
}

func TestDumpErrors(t *testing.T) {
	path := sample(t)

	_, err := run(t, "dump", filepath.Join(t.TempDir(), "missing.nc"))
	assert.ErrorIs(t, err, netcdf.ErrNotFound)

	_, err = run(t, "dump", path, "--var", "nope")
	assert.ErrorIs(t, err, netcdf.ErrNotFound)

	_, err = run(t, "dump", path, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	bad := filepath.Join(t.TempDir(), "bad.nc.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = run(t, "dump", bad)
	assert.Error(t, err)
}

func TestStat(t *testing.T) {
	path := sample(t)
	f, err := netcdf.Open(path)
	require.NoError(t, err)
	defer f.Close()

	temp, err := f.Variable("temp")
	require.NoError(t, err)
	s, err := summarize(temp, true)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.InDelta(t, 3.2, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(3.7), s.StdDev, 1e-9)

	s, err = summarize(temp, false)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, -999.0, s.Min)

	out, err := run(t, "stat", path, "temp", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "VARIABLE")
	assert.Regexp(t, `count\s+3\s+0\s+7\s+9\s+8\s+1`, out)

	_, err = run(t, "stat", path, "nope")
	assert.ErrorIs(t, err, netcdf.ErrNotFound)
}

func TestStress(t *testing.T) {
	before := netcdf.Stats()
	out, err := run(t, "stress", "--workers", "4", "-n", "3", "--size", "128", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "cycles     12")
	assert.Greater(t, netcdf.Stats().Calls, before.Calls)

	_, err = run(t, "stress", "--workers", "0")
	assert.Error(t, err)
}

func TestConfigFileAndEnvironment(t *testing.T) {
	path := sample(t)
	cfg := filepath.Join(t.TempDir(), "ncgo.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: json\nlog-level: debug\n"), 0o644))

	out, err := run(t, "dump", path, "--config", cfg)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	t.Setenv("NCGO_FORMAT", "yaml")
	out, err = run(t, "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "file: sample")

	// Flags win over the environment.
	out, err = run(t, "dump", path, "-f", "cdl")
	require.NoError(t, err)
	assert.Contains(t, out, "netcdf sample {")

	_, err = run(t, "version", "--log-level", "loud")
	assert.Error(t, err)
	_, err = run(t, "version", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "configuration file")
}
