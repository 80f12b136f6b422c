package digipin

import (
	"context"
	"math"
)

// Sample densities per axis, tiered by precision.
const (
	coarseSamplePoints = 50
	mediumSamplePoints = 100
	fineSamplePoints   = 200
)

// progressInterval is how many probes pass between progress reports while
// sampling.
const progressInterval = 100

// GridOptions controls grid generation.
type GridOptions struct {
	// MaxCells caps the number of unique cells. Sampling stops as soon as
	// the cap is reached. If 0, defaults to 10000.
	MaxCells int

	// BatchSize is how many cells are built between progress reports and
	// cancellation checks during emission. If 0, defaults to 100.
	BatchSize int

	// Progress is an optional callback receiving a percentage in [0, 100].
	// Values never decrease and are not repeated.
	Progress func(percent int)
}

// DefaultGridOptions returns grid options with sensible defaults.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		MaxCells:  10000,
		BatchSize: 100,
	}
}

// SamplePoints returns the per-axis lattice size used for precision:
// 50 up to level 5, 100 for levels 6-7 and 200 from level 8.
func SamplePoints(precision int) int {
	switch {
	case precision <= 5:
		return coarseSamplePoints
	case precision <= 7:
		return mediumSamplePoints
	default:
		return fineSamplePoints
	}
}

// GenerateGrid enumerates the unique cells of the given precision that
// intersect extent, for visualization.
//
// The extent is clamped to the region and sampled on a regular lattice of
// SamplePoints(precision) points per axis, including both edges. Every
// lattice point is encoded and the unique codes are decoded into cells.
// At most SamplePoints(precision)² encodes are performed and at most
// MaxCells cells are returned, whatever the size of extent. The result is
// therefore an approximation: for fine precision over a large extent many
// cells fall between lattice points and are not returned.
//
// Cancellation is checked after every lattice row and every emission batch.
// A cancelled call returns the cells built so far together with ctx.Err().
//
// Example:
//
//	extent := digipin.Bounds{MinLon: 77.0, MaxLon: 77.5, MinLat: 28.4, MaxLat: 28.9}
//	grid, err := digipin.GenerateGrid(ctx, extent, 5, digipin.GridOptions{
//	    MaxCells: 5000,
//	    Progress: func(p int) { fmt.Printf("\r%d%%", p) },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("\n%d cells\n", grid.Len())
func GenerateGrid(ctx context.Context, extent Bounds, precision int, opts GridOptions) (*CellCollection, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, &PrecisionError{Precision: precision}
	}

	maxCells := opts.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultGridOptions().MaxCells
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultGridOptions().BatchSize
	}

	clamped := extent.Clamp(defaultRegion.bounds)
	n := SamplePoints(precision)

	cc := NewCellCollection(precision)
	cc.Extent = clamped
	cc.SamplePoints = n

	progress := &progressReporter{fn: opts.Progress, last: -1}
	progress.report(0)

	if !clamped.Valid() {
		progress.report(100)
		return cc, nil
	}

	codes, err := sampleCodes(ctx, cc, n, maxCells, progress)
	if err != nil {
		return cc, err
	}

	for start := 0; start < len(codes); start += batchSize {
		end := min(start+batchSize, len(codes))
		for _, code := range codes[start:end] {
			cell, err := DecodeCell(code)
			if err != nil {
				continue
			}
			cc.Add(cell)
		}

		progress.report(50 + end*50/len(codes))
		if err := ctx.Err(); err != nil {
			return cc, err
		}
	}

	progress.report(100)
	return cc, nil
}

// sampleCodes walks the n×n lattice over cc.Extent and returns the unique
// codes in discovery order.
func sampleCodes(ctx context.Context, cc *CellCollection, n, maxCells int, progress *progressReporter) ([]string, error) {
	ext := cc.Extent
	total := n * n
	latStep := (ext.MaxLat - ext.MinLat) / float64(n-1)
	lonStep := (ext.MaxLon - ext.MinLon) / float64(n-1)

	seen := make(map[string]struct{})
	var codes []string

	for i := 0; i < n; i++ {
		lat := ext.MinLat + latStep*float64(i)
		if i == n-1 {
			lat = ext.MaxLat
		}

		for j := 0; j < n; j++ {
			lon := ext.MinLon + lonStep*float64(j)
			if j == n-1 {
				lon = ext.MaxLon
			}

			code, err := Encode(lat, lon, cc.Precision)
			cc.Probes++
			if err == nil {
				if _, ok := seen[code]; !ok {
					seen[code] = struct{}{}
					codes = append(codes, code)
				}
			}

			if cc.Probes%progressInterval == 0 {
				progress.report(cc.Probes * 50 / total)
			}

			if len(codes) >= maxCells {
				cc.Truncated = cc.Probes < total
				progress.report(50)
				return codes, nil
			}
		}

		progress.report(cc.Probes * 50 / total)
		if err := ctx.Err(); err != nil {
			return codes, err
		}
	}

	return codes, nil
}

// progressReporter forwards strictly increasing percentages.
type progressReporter struct {
	fn   func(int)
	last int
}

func (p *progressReporter) report(percent int) {
	if p.fn == nil || percent <= p.last {
		return
	}
	p.last = percent
	p.fn(percent)
}

// EstimateCellCount returns a rough count of the cells at precision that
// cover extent, without clamping: Δlat·Δlon·4^precision/36.
//
// Use it to warn before generating very large grids.
func EstimateCellCount(extent Bounds, precision int) int {
	latRange := extent.MaxLat - extent.MinLat
	lonRange := extent.MaxLon - extent.MinLon
	cellsPerDegree := math.Pow(4, float64(precision)) / 36
	return int(latRange * lonRange * cellsPerDegree)
}

// PrecisionWarning returns a user-facing warning for expensive grid
// precisions, or "" when none applies.
func PrecisionWarning(precision int) string {
	switch {
	case precision >= 9:
		return "Very high precision! Grid generation may be slow"
	case precision >= 7:
		return "High precision - processing may take time"
	default:
		return ""
	}
}
