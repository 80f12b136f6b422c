package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/beetlebugorg/digipin/internal/batch"
	"github.com/beetlebugorg/digipin/internal/config"
	"github.com/beetlebugorg/digipin/pkg/digipin"
)

// stdout is where command results go. Diagnostics go through log.
var stdout io.Writer = os.Stdout

var errInvalid = errors.New("invalid input")

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runEncode(cfg config.Config, args []string) error {
	fs := newFlagSet("encode")
	lat := fs.Float64("lat", 0, "latitude in decimal degrees")
	lon := fs.Float64("lon", 0, "longitude in decimal degrees")
	precision := fs.Int("precision", cfg.Precision, "code length, 1-10")
	if err := fs.Parse(args); err != nil {
		return err
	}

	code, err := digipin.Encode(*lat, *lon, *precision)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, code)
	if info, ok := digipin.PrecisionInfoFor(*precision); ok {
		log.Printf("precision %d, accuracy %s", info.Level, info.Accuracy)
	}
	return nil
}

func runDecode(cfg config.Config, args []string) error {
	fs := newFlagSet("decode")
	code := fs.String("code", "", "code to decode, separators optional")
	asJSON := fs.Bool("json", false, "print the location as JSON")
	asWKT := fs.Bool("wkt", false, "also print the cell outline as WKT")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		return errors.New("please provide -code")
	}

	cell, err := digipin.DecodeCell(*code)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(stdout, cell)
	}
	fmt.Fprintf(stdout, "Code:      %s\n", cell.Code)
	fmt.Fprintf(stdout, "Center:    %.6f, %.6f\n", cell.Center.Lat, cell.Center.Lon)
	fmt.Fprintf(stdout, "Latitude:  %.6f to %.6f\n", cell.Bounds.MinLat, cell.Bounds.MaxLat)
	fmt.Fprintf(stdout, "Longitude: %.6f to %.6f\n", cell.Bounds.MinLon, cell.Bounds.MaxLon)
	fmt.Fprintf(stdout, "Area:      %.6f km²\n", cell.AreaKm2)
	if *asWKT {
		fmt.Fprintln(stdout, cell.WKT())
	}
	return nil
}

func runValidate(cfg config.Config, args []string) error {
	fs := newFlagSet("validate")
	code := fs.String("code", "", "code to validate")
	lat := fs.Float64("lat", 0, "latitude to validate")
	lon := fs.Float64("lon", 0, "longitude to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var ok bool
	var reason string
	switch {
	case set["code"]:
		ok, reason = digipin.ValidateDigipin(*code)
	case set["lat"] && set["lon"]:
		ok, reason = digipin.ValidateCoordinates(*lat, *lon)
	default:
		return errors.New("please provide -code or both -lat and -lon")
	}

	if !ok {
		fmt.Fprintln(stdout, reason)
		return errInvalid
	}
	fmt.Fprintln(stdout, "valid")
	return nil
}

func runNeighbors(cfg config.Config, args []string) error {
	fs := newFlagSet("neighbors")
	code := fs.String("code", "", "center code")
	diagonals := fs.Bool("diagonals", false, "include diagonal neighbors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	neighbors, err := digipin.Neighbors(*code, *diagonals)
	if err != nil {
		return err
	}
	for _, n := range neighbors {
		fmt.Fprintln(stdout, n)
	}
	return nil
}

func runGrid(cfg config.Config, args []string) error {
	fs := newFlagSet("grid")
	bbox := fs.String("bbox", "", "extent as minLon,minLat,maxLon,maxLat")
	precision := fs.Int("precision", cfg.GridPrecision, "cell precision, 1-10")
	maxCells := fs.Int("max-cells", cfg.MaxCells, "stop after this many cells")
	out := fs.String("out", "", "output GeoJSON file (default stdout)")
	progress := fs.Bool("progress", false, "log progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	extent, err := parseBBox(*bbox)
	if err != nil {
		return err
	}

	log.Printf("estimated cells: %d", digipin.EstimateCellCount(extent, *precision))
	if w := digipin.PrecisionWarning(*precision); w != "" {
		log.Print(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := digipin.GridOptions{MaxCells: *maxCells}
	if *progress {
		opts.Progress = func(p int) { log.Printf("progress: %d%%", p) }
	}

	grid, err := digipin.GenerateGrid(ctx, extent, *precision, opts)
	if err != nil {
		return err
	}
	if grid.Truncated {
		log.Printf("stopped at %d cells (-max-cells)", grid.Len())
	}
	log.Printf("generated %d cells from %d samples", grid.Len(), grid.Probes)

	return writeOutput(*out, func(w io.Writer) error {
		return writeJSON(w, grid.GeoJSON())
	})
}

func runBatch(cfg config.Config, args []string) error {
	fs := newFlagSet("batch")
	in := fs.String("in", "", "input CSV or GeoJSON file")
	out := fs.String("out", "", "output file (default stdout)")
	field := fs.String("field", cfg.Field, "code column or property name")
	latField := fs.String("lat", "", "latitude column (CSV, detected when empty)")
	lonField := fs.String("lon", "", "longitude column (CSV, detected when empty)")
	precision := fs.Int("precision", cfg.Precision, "code length, 1-10")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("please provide -in")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	batchOpts := digipin.BatchOptions{
		Parallel: cfg.Workers > 1,
		Workers:  cfg.Workers,
	}

	var report batch.Report
	err = writeOutput(*out, func(w io.Writer) error {
		var err error
		if isGeoJSON(*in) {
			report, err = batch.EncodeGeoJSONWithOptions(f, w, *precision, *field, batchOpts)
			return err
		}
		report, err = batch.EncodeCSV(f, w, batch.CSVOptions{
			LatField:  *latField,
			LonField:  *lonField,
			Field:     *field,
			Precision: *precision,
			Batch:     batchOpts,
		})
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("encoded %d of %d records (%d errors)", report.Success, report.Total(), report.Errors)
	return nil
}

func runDensity(cfg config.Config, args []string) error {
	fs := newFlagSet("density")
	in := fs.String("in", "", "input CSV or GeoJSON file")
	field := fs.String("field", cfg.Field, "code column or property name")
	precision := fs.Int("precision", 6, "aggregation precision, 1-10")
	out := fs.String("out", "", "write classified cells as GeoJSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := readSource(*in, *field)
	if err != nil {
		return err
	}
	density, err := digipin.Density(src, *field, *precision)
	if err != nil {
		return err
	}
	if len(density) == 0 {
		return fmt.Errorf("no valid codes in field %q", *field)
	}

	cells := digipin.ClassifyDensity(density)
	if *out != "" {
		return writeOutput(*out, func(w io.Writer) error {
			return writeJSON(w, digipin.DensityFeatureCollection(cells))
		})
	}

	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Count > cells[j].Count })
	for _, c := range cells {
		fmt.Fprintf(stdout, "%-14s %6d  %s\n", c.Cell.Code, c.Count, c.Class)
	}
	return nil
}

func runCoverage(cfg config.Config, args []string) error {
	fs := newFlagSet("coverage")
	in := fs.String("in", "", "input CSV or GeoJSON file")
	field := fs.String("field", cfg.Field, "code column or property name")
	totalArea := fs.Float64("total-area", 0, "reference area in km² for a coverage estimate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := readSource(*in, *field)
	if err != nil {
		return err
	}
	stats := digipin.Coverage(src, *field, digipin.CoverageOptions{TotalAreaKm2: *totalArea})
	if stats.Empty() {
		return fmt.Errorf("no valid codes in field %q", *field)
	}

	fmt.Fprintf(stdout, "Features:     %d\n", stats.TotalFeatures)
	fmt.Fprintf(stdout, "Unique cells: %d\n", stats.UniqueCells)

	levels := make([]int, 0, len(stats.PrecisionDistribution))
	for l := range stats.PrecisionDistribution {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		fmt.Fprintf(stdout, "  Level %-2d    %d\n", l, stats.PrecisionDistribution[l])
	}
	if stats.HasArea {
		fmt.Fprintf(stdout, "Covered area: %.4f km² (%.4f%%)\n", stats.CoveredAreaKm2, stats.CoveragePercentage)
	}
	return nil
}

func runDistance(cfg config.Config, args []string) error {
	fs := newFlagSet("distance")
	in := fs.String("in", "", "input CSV or GeoJSON file")
	field := fs.String("field", cfg.Field, "code column or property name")
	maxItems := fs.Int("max-items", cfg.MaxItems, "maximum number of codes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := readSource(*in, *field)
	if err != nil {
		return err
	}
	m := digipin.ComputeDistanceMatrix(src, *field, *maxItems)
	if m.Len() == 0 {
		return fmt.Errorf("no valid codes in field %q", *field)
	}
	if m.Truncated {
		log.Printf("only the first %d codes were used (-max-items)", *maxItems)
	}

	codes := m.Codes()
	fmt.Fprintf(stdout, "%-14s", "")
	for _, c := range codes {
		fmt.Fprintf(stdout, " %14s", c)
	}
	fmt.Fprintln(stdout)
	for _, a := range codes {
		fmt.Fprintf(stdout, "%-14s", a)
		for _, b := range codes {
			d, _ := m.Distance(a, b)
			fmt.Fprintf(stdout, " %14.3f", d)
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

// parseBBox parses "minLon,minLat,maxLon,maxLat".
func parseBBox(s string) (digipin.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return digipin.Bounds{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return digipin.Bounds{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	b := digipin.Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if !b.Valid() {
		return digipin.Bounds{}, fmt.Errorf("bbox %q: minimum exceeds maximum", s)
	}
	return b, nil
}

func isGeoJSON(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return true
	}
	return false
}

// readSource opens a CSV or GeoJSON file as a feature source.
func readSource(path, field string) (digipin.FeatureSource, error) {
	if path == "" {
		return nil, errors.New("please provide -in")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isGeoJSON(path) {
		return batch.ReadGeoJSON(f)
	}
	return batch.ReadCSV(f, batch.CSVOptions{Field: field})
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
