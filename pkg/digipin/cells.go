package digipin

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// kmPerDegree is the planar approximation used for cell areas.
const kmPerDegree = 111.0

// Cell is the rectangle identified by a code.
type Cell struct {
	Code      string     `json:"digipin"` // with separators
	Precision int        `json:"precision"`
	Center    Coordinate `json:"center"`
	Bounds    Bounds     `json:"bounds"`
	AreaKm2   float64    `json:"area_km2"`
}

// DecodeCell decodes code into a Cell, adding its precision and approximate
// area to the decoded center and bounds.
func DecodeCell(code string) (Cell, error) {
	loc, err := Decode(code)
	if err != nil {
		return Cell{}, err
	}
	return Cell{
		Code:      FormatDigipin(code, true),
		Precision: Precision(code),
		Center:    loc.Coordinate(),
		Bounds:    loc.Bounds,
		AreaKm2:   CellAreaKm2(loc.Bounds),
	}, nil
}

// CellAreaKm2 approximates the area of b in square kilometres.
//
// One degree of latitude is taken as 111 km and one degree of longitude as
// 111 km scaled by the cosine of the mean latitude. This is a planar
// approximation, adequate for display at DIGIPIN cell sizes.
func CellAreaKm2(b Bounds) float64 {
	avgLat := (b.MinLat + b.MaxLat) / 2
	latKm := (b.MaxLat - b.MinLat) * kmPerDegree
	lonKm := (b.MaxLon - b.MinLon) * kmPerDegree * math.Cos(toRadians(avgLat))
	return latKm * lonKm
}

// Polygon returns the cell outline as a closed orb ring.
func (c Cell) Polygon() orb.Polygon {
	return c.Bounds.Bound().ToPolygon()
}

// WKT returns the cell outline as Well-Known Text.
func (c Cell) WKT() string {
	return wkt.MarshalString(c.Polygon())
}

// GeoJSON returns the cell as a polygon feature carrying the attribute set
// used for grid layers.
func (c Cell) GeoJSON() *geojson.Feature {
	f := geojson.NewFeature(c.Polygon())
	f.Properties["DIGIPIN"] = c.Code
	f.Properties["CenterLat"] = c.Center.Lat
	f.Properties["CenterLon"] = c.Center.Lon
	f.Properties["Precision"] = c.Precision
	f.Properties["Area_km2"] = c.AreaKm2
	return f
}

// CellCollection is an ordered set of unique cells with a spatial index.
//
// Cells are kept in the order they were discovered. The R-tree makes
// viewport queries O(log n).
type CellCollection struct {
	// Precision is the level of every cell in the collection.
	Precision int

	// Extent is the area that was sampled, already clamped to the region.
	Extent Bounds

	// SamplePoints is the per-axis lattice size used when sampling.
	SamplePoints int

	// Probes counts encode operations performed while sampling.
	Probes int

	// Truncated is set when sampling stopped at the cell cap.
	Truncated bool

	cells  []Cell
	byCode map[string]int
	rtree  *rtreego.Rtree
}

// NewCellCollection returns an empty collection for cells of precision.
func NewCellCollection(precision int) *CellCollection {
	return &CellCollection{
		Precision: precision,
		byCode:    make(map[string]int),
		// 2D, min=25 children, max=50 children
		rtree: rtreego.NewTree(2, 25, 50),
	}
}

// indexedCell wraps a cell position for R-tree storage.
type indexedCell struct {
	index  int
	bounds Bounds
}

// Bounds implements rtreego.Spatial.
func (c *indexedCell) Bounds() rtreego.Rect {
	return toRect(c.bounds)
}

func toRect(b Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}

	// R-tree requires non-zero dimensions
	const epsilon = 1e-9
	lonLength := math.Max(b.MaxLon-b.MinLon, epsilon)
	latLength := math.Max(b.MaxLat-b.MinLat, epsilon)

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

// Add appends cell unless a cell with the same code is already present.
// It reports whether the cell was added.
func (cc *CellCollection) Add(cell Cell) bool {
	key := Normalize(cell.Code)
	if _, ok := cc.byCode[key]; ok {
		return false
	}
	cc.byCode[key] = len(cc.cells)
	cc.rtree.Insert(&indexedCell{index: len(cc.cells), bounds: cell.Bounds})
	cc.cells = append(cc.cells, cell)
	return true
}

// Cells returns all cells in discovery order.
func (cc *CellCollection) Cells() []Cell {
	return cc.cells
}

// Len returns the number of cells.
func (cc *CellCollection) Len() int {
	return len(cc.cells)
}

// Lookup returns the cell with the given code, separators optional.
func (cc *CellCollection) Lookup(code string) (Cell, bool) {
	i, ok := cc.byCode[Normalize(code)]
	if !ok {
		return Cell{}, false
	}
	return cc.cells[i], true
}

// CellsInBounds returns the cells intersecting b in discovery order.
//
// Example:
//
//	grid, _ := digipin.GenerateGrid(ctx, extent, 5, digipin.DefaultGridOptions())
//	visible := grid.CellsInBounds(viewport)
func (cc *CellCollection) CellsInBounds(b Bounds) []Cell {
	if len(cc.cells) == 0 || !b.Valid() {
		return nil
	}

	spatials := cc.rtree.SearchIntersect(toRect(b))
	idx := make([]int, 0, len(spatials))
	for _, s := range spatials {
		idx = append(idx, s.(*indexedCell).index)
	}
	sort.Ints(idx)

	result := make([]Cell, len(idx))
	for i, j := range idx {
		result[i] = cc.cells[j]
	}
	return result
}

// Bounds returns the union of all cell bounds.
func (cc *CellCollection) Bounds() Bounds {
	if len(cc.cells) == 0 {
		return Bounds{}
	}
	b := cc.cells[0].Bounds
	for _, c := range cc.cells[1:] {
		b = b.Union(c.Bounds)
	}
	return b
}

// TotalAreaKm2 sums the approximate area of every cell.
func (cc *CellCollection) TotalAreaKm2() float64 {
	var total float64
	for _, c := range cc.cells {
		total += c.AreaKm2
	}
	return total
}

// GeoJSON returns the collection as a FeatureCollection of cell polygons.
func (cc *CellCollection) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range cc.cells {
		fc.Append(c.GeoJSON())
	}
	return fc
}
