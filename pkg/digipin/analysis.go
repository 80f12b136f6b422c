package digipin

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxDistanceItems caps the number of codes in a distance matrix.
const DefaultMaxDistanceItems = 100

// Density counts records per cell at the given precision.
//
// Each record's code attribute is stripped of separators and truncated to
// precision symbols; the truncated prefix is the map key. Records without a
// valid code are skipped. An empty map means no valid codes were found and
// is not an error.
//
// Example:
//
//	counts, err := digipin.Density(src, "DIGIPIN", 6)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for prefix, n := range counts {
//	    fmt.Printf("%s: %d\n", prefix, n)
//	}
func Density(src FeatureSource, field string, precision int) (map[string]int, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, &PrecisionError{Precision: precision}
	}

	density := make(map[string]int)
	for f := range src.Features() {
		code, ok := codeAttribute(f, field)
		if !ok {
			continue
		}
		if ok, _ := ValidateDigipin(code); !ok {
			continue
		}
		if len(code) > precision {
			code = code[:precision]
		}
		density[code]++
	}
	return density, nil
}

// CoverageOptions controls Coverage.
type CoverageOptions struct {
	// TotalAreaKm2 is the area to report coverage against. When 0 no area
	// estimate is made.
	TotalAreaKm2 float64
}

// CoverageStats summarizes the codes found in a feature source.
type CoverageStats struct {
	// UniqueCells is the number of distinct codes.
	UniqueCells int `json:"unique_cells"`

	// PrecisionDistribution maps code length to the number of records.
	PrecisionDistribution map[int]int `json:"precision_distribution"`

	// TotalFeatures counts every record, with or without a code.
	TotalFeatures int `json:"total_features"`

	// HasArea reports whether the area fields below were computed.
	HasArea bool `json:"-"`

	// CoveredAreaKm2 is unique cells × nominal cell area at the average
	// precision. It ignores overlap between cells of different precisions
	// and is only an estimate.
	CoveredAreaKm2 float64 `json:"covered_area_km2,omitempty"`

	// CoveragePercentage is CoveredAreaKm2 relative to TotalAreaKm2.
	CoveragePercentage float64 `json:"coverage_percentage,omitempty"`
}

// Empty reports whether no valid codes were found.
func (s CoverageStats) Empty() bool {
	return s.UniqueCells == 0
}

// Coverage collects the unique codes and a histogram of code lengths.
//
// When opts.TotalAreaKm2 is positive, the covered area is approximated from
// the nominal cell size of the average precision. This is a statistical
// estimate, not a geometric union of cells.
func Coverage(src FeatureSource, field string, opts CoverageOptions) CoverageStats {
	stats := CoverageStats{
		PrecisionDistribution: make(map[int]int),
	}
	unique := make(map[string]struct{})

	for f := range src.Features() {
		stats.TotalFeatures++

		code, ok := codeAttribute(f, field)
		if !ok {
			continue
		}
		if ok, _ := ValidateDigipin(code); !ok {
			continue
		}
		unique[code] = struct{}{}
		stats.PrecisionDistribution[len(code)]++
	}
	stats.UniqueCells = len(unique)

	if opts.TotalAreaKm2 <= 0 || len(stats.PrecisionDistribution) == 0 {
		return stats
	}

	levels := make([]float64, 0, len(stats.PrecisionDistribution))
	weights := make([]float64, 0, len(stats.PrecisionDistribution))
	for level, count := range stats.PrecisionDistribution {
		levels = append(levels, float64(level))
		weights = append(weights, float64(count))
	}
	avg := int(stat.Mean(levels, weights))

	info, ok := PrecisionInfoFor(avg)
	if !ok {
		return stats
	}
	stats.HasArea = true
	stats.CoveredAreaKm2 = float64(stats.UniqueCells) * info.AreaKm2()
	stats.CoveragePercentage = stats.CoveredAreaKm2 / opts.TotalAreaKm2 * 100
	return stats
}

var (
	orthogonalOffsets = [][2]float64{
		{-1, 0},
		{0, -1}, {0, 1},
		{1, 0},
	}
	allOffsets = [][2]float64{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// Neighbors returns the codes of the cells adjacent to code, at the same
// precision.
//
// Neighbors are found by probing one cell-size away from the center in
// each direction: 4 orthogonal directions, or 8 with includeDiagonals.
// Probes outside the region are skipped, so cells on the region edge have
// fewer neighbors. The input code itself is never returned. Results follow
// a fixed order, south-west to north-east by (latitude, longitude) offset.
func Neighbors(code string, includeDiagonals bool) ([]string, error) {
	loc, err := Decode(code)
	if err != nil {
		return nil, err
	}

	latSize := loc.Bounds.MaxLat - loc.Bounds.MinLat
	lonSize := loc.Bounds.MaxLon - loc.Bounds.MinLon
	self := Normalize(code)
	precision := len(self)

	offsets := orthogonalOffsets
	if includeDiagonals {
		offsets = allOffsets
	}

	neighbors := make([]string, 0, len(offsets))
	for _, off := range offsets {
		lat := loc.Latitude + off[0]*latSize
		lon := loc.Longitude + off[1]*lonSize
		if !defaultRegion.Contains(lat, lon) {
			continue
		}

		n, err := Encode(lat, lon, precision)
		if err != nil {
			continue
		}
		if Normalize(n) == self {
			continue
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}

// DistanceMatrix holds pairwise distances in kilometres between cell
// centers, keyed by code (with separators).
type DistanceMatrix struct {
	// Distances maps each code to the distance to every other code.
	// A code never maps to itself.
	Distances map[string]map[string]float64

	// Truncated is set when records beyond the item cap were ignored.
	Truncated bool
}

// Len returns the number of codes in the matrix.
func (m DistanceMatrix) Len() int {
	return len(m.Distances)
}

// Codes returns the codes in sorted order.
func (m DistanceMatrix) Codes() []string {
	codes := make([]string, 0, len(m.Distances))
	for c := range m.Distances {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Distance returns the distance between two codes in the matrix.
func (m DistanceMatrix) Distance(a, b string) (float64, bool) {
	row, ok := m.Distances[FormatDigipin(a, true)]
	if !ok {
		return 0, false
	}
	d, ok := row[FormatDigipin(b, true)]
	return d, ok
}

// Dense returns the matrix as a square gonum matrix whose rows and columns
// follow Codes(). The diagonal is zero. Returns nil for an empty matrix.
func (m DistanceMatrix) Dense() *mat.Dense {
	codes := m.Codes()
	if len(codes) == 0 {
		return nil
	}
	d := mat.NewDense(len(codes), len(codes), nil)
	for i, a := range codes {
		for j, b := range codes {
			if i != j {
				d.Set(i, j, m.Distances[a][b])
			}
		}
	}
	return d
}

// ComputeDistanceMatrix decodes up to maxItems codes from src and measures
// the ellipsoidal distance between the centers of every pair.
//
// Records without a valid code do not count toward maxItems. Records
// beyond the cap are silently excluded and Truncated is set; this bounds
// the otherwise quadratic cost. When maxItems is 0 or negative
// DefaultMaxDistanceItems is used. Repeated codes collapse into one entry.
func ComputeDistanceMatrix(src FeatureSource, field string, maxItems int) DistanceMatrix {
	if maxItems <= 0 {
		maxItems = DefaultMaxDistanceItems
	}

	type entry struct {
		code   string
		center Coordinate
	}
	var entries []entry
	decoded := 0
	seen := make(map[string]bool)
	result := DistanceMatrix{Distances: make(map[string]map[string]float64)}

	for f := range src.Features() {
		code, ok := codeAttribute(f, field)
		if !ok {
			continue
		}
		loc, err := Decode(code)
		if err != nil {
			continue
		}
		if decoded >= maxItems {
			result.Truncated = true
			break
		}
		decoded++
		key := FormatDigipin(code, true)
		if !seen[key] {
			seen[key] = true
			entries = append(entries, entry{code: key, center: loc.Coordinate()})
		}
	}

	for _, a := range entries {
		row := make(map[string]float64, len(entries)-1)
		for _, b := range entries {
			if a.code == b.code {
				continue
			}
			row[b.code] = Distance(a.center, b.center)
		}
		result.Distances[a.code] = row
	}
	return result
}
