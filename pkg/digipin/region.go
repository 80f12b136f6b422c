package digipin

import "math"

const (
	// MinPrecision is the shortest valid code length.
	MinPrecision = 1

	// MaxPrecision is the longest valid code length.
	MaxPrecision = 10

	// DefaultPrecision is used when callers do not choose a level.
	DefaultPrecision = 10

	// DefaultGridPrecision is the precision offered for grid generation.
	DefaultGridPrecision = 5

	// DefaultField is the attribute name codes are written to and read from.
	DefaultField = "DIGIPIN"

	// DefaultCRS is the coordinate reference system of every code and cell.
	DefaultCRS = "EPSG:4326"

	// Separator is the cosmetic character inserted after the 3rd and 6th symbols.
	Separator = '-'
)

// PrecisionInfo describes the nominal cell size of a precision level.
//
// The table is informational. It is never consulted by the codec itself,
// only by estimation helpers such as Coverage.
type PrecisionInfo struct {
	Level      int     `json:"level"`
	Name       string  `json:"name"`
	CellSizeKm float64 `json:"cell_size_km"`
	Accuracy   string  `json:"accuracy"`
}

// AreaKm2 returns the nominal area of a cell at this level.
func (p PrecisionInfo) AreaKm2() float64 {
	return p.CellSizeKm * p.CellSizeKm
}

// gridPos is a (row, col) position within the 4x4 symbol matrix.
type gridPos struct {
	row, col int
}

// RegionSpec holds the constants the whole scheme is defined over: the
// outer bounding box, the 4x4 symbol matrix and the precision table.
//
// A RegionSpec is immutable once constructed. Use DefaultRegion to obtain
// the shared instance; it is safe for concurrent use without locking.
type RegionSpec struct {
	bounds     Bounds
	grid       [4][4]byte
	inverse    map[byte]gridPos
	precisions [MaxPrecision]PrecisionInfo
}

var defaultRegion = newRegionSpec()

func newRegionSpec() *RegionSpec {
	r := &RegionSpec{
		bounds: Bounds{
			MinLat: 2.5,
			MaxLat: 38.5,
			MinLon: 63.5,
			MaxLon: 99.5,
		},
		grid: [4][4]byte{
			{'F', 'C', '9', '8'},
			{'J', '3', '2', '7'},
			{'K', '4', '5', '6'},
			{'L', 'M', 'P', 'T'},
		},
		precisions: [MaxPrecision]PrecisionInfo{
			{Level: 1, Name: "Level 1", CellSizeKm: 900, Accuracy: "~900 km"},
			{Level: 2, Name: "Level 2", CellSizeKm: 225, Accuracy: "~225 km"},
			{Level: 3, Name: "Level 3", CellSizeKm: 56, Accuracy: "~56 km"},
			{Level: 4, Name: "Level 4", CellSizeKm: 14, Accuracy: "~14 km"},
			{Level: 5, Name: "Level 5", CellSizeKm: 3.5, Accuracy: "~3.5 km"},
			{Level: 6, Name: "Level 6", CellSizeKm: 0.875, Accuracy: "~875 m"},
			{Level: 7, Name: "Level 7", CellSizeKm: 0.219, Accuracy: "~219 m"},
			{Level: 8, Name: "Level 8", CellSizeKm: 0.055, Accuracy: "~55 m"},
			{Level: 9, Name: "Level 9", CellSizeKm: 0.014, Accuracy: "~14 m"},
			{Level: 10, Name: "Level 10", CellSizeKm: 0.0034, Accuracy: "~3.4 m"},
		},
	}

	r.inverse = make(map[byte]gridPos, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r.inverse[r.grid[row][col]] = gridPos{row: row, col: col}
		}
	}
	return r
}

// DefaultRegion returns the shared India region specification.
func DefaultRegion() *RegionSpec {
	return defaultRegion
}

// Bounds returns the addressable rectangle.
func (r *RegionSpec) Bounds() Bounds {
	return r.bounds
}

// Contains reports whether (lat, lon) lies inside the region, edges inclusive.
func (r *RegionSpec) Contains(lat, lon float64) bool {
	return r.bounds.Contains(lon, lat)
}

// Symbol returns the symbol at (row, col) of the 4x4 matrix.
//
// Row 0 is the northernmost band.
func (r *RegionSpec) Symbol(row, col int) byte {
	return r.grid[row][col]
}

// Position returns the matrix position of symbol c.
func (r *RegionSpec) Position(c byte) (row, col int, ok bool) {
	p, ok := r.inverse[c]
	return p.row, p.col, ok
}

// IsSymbol reports whether c belongs to the alphabet.
func (r *RegionSpec) IsSymbol(c byte) bool {
	_, ok := r.inverse[c]
	return ok
}

// Alphabet returns the 16 symbols in row-major order.
func (r *RegionSpec) Alphabet() string {
	buf := make([]byte, 0, 16)
	for row := 0; row < 4; row++ {
		buf = append(buf, r.grid[row][:]...)
	}
	return string(buf)
}

// Precision returns the nominal size entry for level.
func (r *RegionSpec) Precision(level int) (PrecisionInfo, bool) {
	if level < MinPrecision || level > MaxPrecision {
		return PrecisionInfo{}, false
	}
	return r.precisions[level-1], true
}

// Precisions returns a copy of the full precision table.
func (r *RegionSpec) Precisions() []PrecisionInfo {
	out := make([]PrecisionInfo, MaxPrecision)
	copy(out, r.precisions[:])
	return out
}

// CellSpan returns the exact latitude and longitude span of a cell at the
// given level: the region span divided by 4^level on each axis.
func (r *RegionSpec) CellSpan(level int) (latSpan, lonSpan float64) {
	div := math.Pow(4, float64(level))
	return (r.bounds.MaxLat - r.bounds.MinLat) / div,
		(r.bounds.MaxLon - r.bounds.MinLon) / div
}

// PrecisionInfoFor returns the nominal size entry for level from the
// default region.
func PrecisionInfoFor(level int) (PrecisionInfo, bool) {
	return defaultRegion.Precision(level)
}
