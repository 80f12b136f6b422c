package batch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func TestDetectCoordinateColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		lat     string
		lon     string
	}{
		{"short names", []string{"id", "lat", "lon"}, "lat", "lon"},
		{"long names", []string{"Latitude", "Longitude", "name"}, "Latitude", "Longitude"},
		{"xy", []string{"X", "Y"}, "Y", "X"},
		{"substring", []string{"site_lat_deg", "site_long_deg"}, "site_lat_deg", "site_long_deg"},
		{"exact beats substring", []string{"city", "lat", "lon"}, "lat", "lon"},
		{"missing", []string{"id", "name"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := DetectCoordinateColumns(tt.headers)
			assert.Equal(t, tt.lat, lat)
			assert.Equal(t, tt.lon, lon)
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	in := strings.Join([]string{
		"name,lat,lon",
		"Delhi,28.6139,77.2090",
		"Mumbai,19.0760,72.8777",
		"Nowhere,0,50",
		"Broken,abc,77",
	}, "\n")

	var out bytes.Buffer
	report, err := EncodeCSV(strings.NewReader(in), &out, CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Success)
	assert.Equal(t, 2, report.Errors)
	assert.Equal(t, 4, report.Total())

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, []string{"name", "lat", "lon", "DIGIPIN"}, rows[0])
	assert.Equal(t, "39J-438-TJC7", rows[1][3])
	assert.Equal(t, "4FK-595-8823", rows[2][3])
	assert.Equal(t, "", rows[3][3])
	assert.Equal(t, "", rows[4][3])
}

func TestEncodeCSVOverwritesExistingColumn(t *testing.T) {
	in := "code,latitude,longitude\nold,28.6139,77.2090\n"

	var out bytes.Buffer
	report, err := EncodeCSV(strings.NewReader(in), &out, CSVOptions{Field: "code", Precision: 6})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Success)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "latitude", "longitude"}, rows[0])
	assert.Equal(t, "39J-438", rows[1][0])
}

func TestEncodeCSVNoCoordinates(t *testing.T) {
	_, err := EncodeCSV(strings.NewReader("id,name\n1,a\n"), &bytes.Buffer{}, CSVOptions{})
	assert.ErrorIs(t, err, ErrNoCoordinateColumns)
}

func TestReadCSV(t *testing.T) {
	in := "DIGIPIN,lat,lon\n39J-438-TJC7,28.6139,77.2090\n4FK-595-8823,,\n"

	src, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, src, 2)

	p, ok := src[0].Point()
	require.True(t, ok)
	assert.InDelta(t, 77.2090, p.Lon(), 1e-9)
	assert.InDelta(t, 28.6139, p.Lat(), 1e-9)

	_, ok = src[1].Point()
	assert.False(t, ok)

	density, err := digipin.Density(src, digipin.DefaultField, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"3": 1, "4": 1}, density)
}

func TestReadCSVCodesOnly(t *testing.T) {
	src, err := ReadCSV(strings.NewReader("DIGIPIN\n39J\n39J\n"), CSVOptions{})
	require.NoError(t, err)

	stats := digipin.Coverage(src, digipin.DefaultField, digipin.CoverageOptions{})
	assert.Equal(t, 1, stats.UniqueCells)
	assert.Equal(t, 2, stats.TotalFeatures)
}

func TestEncodeCSVParallel(t *testing.T) {
	var b strings.Builder
	b.WriteString("lat,lon\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "%v,%v\n", 5+float64(i)*0.15, 70+float64(i)*0.1)
	}
	b.WriteString("1,1\n")

	var serial, parallel, errLog bytes.Buffer
	want, err := EncodeCSV(strings.NewReader(b.String()), &serial, CSVOptions{Precision: 8})
	require.NoError(t, err)

	got, err := EncodeCSV(strings.NewReader(b.String()), &parallel, CSVOptions{
		Precision: 8,
		Batch:     digipin.BatchOptions{Parallel: true, Workers: 4, ErrorLog: &errLog},
	})
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, Report{Success: 200, Errors: 1}, got)
	assert.Equal(t, serial.String(), parallel.String())
	assert.Contains(t, errLog.String(), "batch: encode item 200")
}
