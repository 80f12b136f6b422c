// Package batch reads and writes the tabular and GeoJSON files that feed
// DIGIPIN batch encoding and analysis.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

var (
	latKeywords = []string{"lat", "latitude", "y"}
	lonKeywords = []string{"lon", "long", "longitude", "x"}
)

// ErrNoCoordinateColumns is returned when latitude and longitude columns
// are neither given nor detectable.
var ErrNoCoordinateColumns = errors.New("batch: latitude and longitude columns not found")

// Report counts the outcome of a batch encode.
type Report struct {
	Success int
	Errors  int
}

// Total returns the number of records processed.
func (r Report) Total() int { return r.Success + r.Errors }

// DetectCoordinateColumns guesses the latitude and longitude columns of a
// header row. A header equal to a keyword (case-insensitive) wins;
// otherwise the last header containing a keyword is used. Empty strings are
// returned for columns that could not be found.
func DetectCoordinateColumns(headers []string) (lat, lon string) {
	lat = detectColumn(headers, latKeywords)
	lon = detectColumn(headers, lonKeywords)
	return lat, lon
}

func detectColumn(headers, keywords []string) string {
	for _, h := range headers {
		if slices.Contains(keywords, strings.ToLower(strings.TrimSpace(h))) {
			return h
		}
	}

	found := ""
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found = h
				break
			}
		}
	}
	return found
}

// CSVOptions configures CSV reading and encoding.
type CSVOptions struct {
	// LatField and LonField name the coordinate columns. When empty they
	// are detected from the header row.
	LatField string
	LonField string

	// Field is the code column. Defaults to digipin.DefaultField.
	Field string

	// Precision for encoding. Defaults to digipin.DefaultPrecision.
	Precision int

	// Batch controls parallelism and per-row error logging while encoding.
	Batch digipin.BatchOptions
}

func (o *CSVOptions) setDefaults() {
	if o.Field == "" {
		o.Field = digipin.DefaultField
	}
	if o.Precision == 0 {
		o.Precision = digipin.DefaultPrecision
	}
}

// resolveColumns fills in missing coordinate columns from headers and
// returns their indexes.
func (o *CSVOptions) resolveColumns(headers []string) (latIdx, lonIdx int, err error) {
	detLat, detLon := DetectCoordinateColumns(headers)
	if o.LatField == "" {
		o.LatField = detLat
	}
	if o.LonField == "" {
		o.LonField = detLon
	}
	latIdx = slices.Index(headers, o.LatField)
	lonIdx = slices.Index(headers, o.LonField)
	if latIdx < 0 || lonIdx < 0 {
		return -1, -1, ErrNoCoordinateColumns
	}
	return latIdx, lonIdx, nil
}

// ReadCSV loads a CSV file as a feature source. Every column becomes a
// string attribute; rows whose coordinate columns parse also get a point.
// Coordinate columns are optional: a file with only a code column is a
// valid source for analysis.
func ReadCSV(r io.Reader, opts CSVOptions) (digipin.SliceSource, error) {
	opts.setDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	latIdx, lonIdx, colErr := opts.resolveColumns(headers)

	var src digipin.SliceSource
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(src)+1, err)
		}

		f := digipin.MapFeature{Attributes: make(map[string]any, len(headers))}
		for i, h := range headers {
			if i < len(row) {
				f.Attributes[h] = row[i]
			}
		}
		if colErr == nil {
			if c, err := parseCoordinate(row, latIdx, lonIdx); err == nil {
				f.Geometry = c.Point()
				f.HasPoint = true
			}
		}
		src = append(src, f)
	}
	return src, nil
}

// EncodeCSV copies a CSV file from r to w, adding a code column.
//
// The column is appended unless the header already has one of that name,
// in which case it is overwritten. Rows that cannot be encoded get an
// empty code and are counted in Report.Errors; they never stop the run.
func EncodeCSV(r io.Reader, w io.Writer, opts CSVOptions) (Report, error) {
	opts.setDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if err != nil {
		return Report{}, fmt.Errorf("read csv header: %w", err)
	}
	latIdx, lonIdx, err := opts.resolveColumns(headers)
	if err != nil {
		return Report{}, err
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("read csv rows: %w", err)
	}

	outHeaders := headers
	codeIdx := slices.Index(headers, opts.Field)
	if codeIdx < 0 {
		outHeaders = append(slices.Clone(headers), opts.Field)
		codeIdx = len(headers)
	}

	// Rows whose coordinates parse are encoded together; the rest fail here.
	coords := make([]digipin.Coordinate, 0, len(rows))
	rowOf := make([]int, 0, len(rows))
	codes := make([]string, len(rows))
	var report Report
	for i, row := range rows {
		c, err := parseCoordinate(row, latIdx, lonIdx)
		if err != nil {
			report.Errors++
			continue
		}
		coords = append(coords, c)
		rowOf = append(rowOf, i)
	}
	results, err := digipin.EncodeBatchWithOptions(context.Background(), coords, opts.Precision, opts.Batch)
	if err != nil {
		return report, err
	}
	for j, res := range results {
		if !res.OK() {
			report.Errors++
			continue
		}
		codes[rowOf[j]] = res.Code
		report.Success++
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(outHeaders); err != nil {
		return report, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		out := make([]string, len(outHeaders))
		copy(out, row)
		out[codeIdx] = codes[i]
		if err := cw.Write(out); err != nil {
			return report, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return report, fmt.Errorf("flush csv: %w", err)
	}
	return report, nil
}

func parseCoordinate(row []string, latIdx, lonIdx int) (digipin.Coordinate, error) {
	if latIdx >= len(row) || lonIdx >= len(row) {
		return digipin.Coordinate{}, fmt.Errorf("row has %d columns", len(row))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
	if err != nil {
		return digipin.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
	if err != nil {
		return digipin.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	return digipin.CoordinateFromPoint(orb.Point{lon, lat}), nil
}
