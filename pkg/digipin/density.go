package digipin

import (
	"sort"

	"github.com/paulmach/orb/geojson"
)

// DensityClass buckets a cell's count relative to the densest and sparsest
// cells of the same analysis.
type DensityClass string

const (
	DensityLow        DensityClass = "Low"
	DensityMediumLow  DensityClass = "Medium-Low"
	DensityMediumHigh DensityClass = "Medium-High"
	DensityHigh       DensityClass = "High"
	DensityUniform    DensityClass = "Uniform"
)

// DensityCell is one classified entry of a density map.
type DensityCell struct {
	Cell  Cell
	Count int
	Class DensityClass
}

// ClassifyDensity decodes every key of a density map and assigns each a
// class by its normalized count: below 0.25 is Low, below 0.5 Medium-Low,
// below 0.75 Medium-High, otherwise High. When all counts are equal every
// cell is Uniform. Keys that do not decode are skipped.
//
// The result is sorted by code.
func ClassifyDensity(density map[string]int) []DensityCell {
	if len(density) == 0 {
		return nil
	}

	first := true
	var minCount, maxCount int
	for _, n := range density {
		if first || n < minCount {
			minCount = n
		}
		if first || n > maxCount {
			maxCount = n
		}
		first = false
	}

	codes := make([]string, 0, len(density))
	for c := range density {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	out := make([]DensityCell, 0, len(codes))
	for _, code := range codes {
		cell, err := DecodeCell(code)
		if err != nil {
			continue
		}
		count := density[code]
		out = append(out, DensityCell{
			Cell:  cell,
			Count: count,
			Class: classify(count, minCount, maxCount),
		})
	}
	return out
}

func classify(count, minCount, maxCount int) DensityClass {
	if maxCount <= minCount {
		return DensityUniform
	}
	normalized := float64(count-minCount) / float64(maxCount-minCount)
	switch {
	case normalized < 0.25:
		return DensityLow
	case normalized < 0.5:
		return DensityMediumLow
	case normalized < 0.75:
		return DensityMediumHigh
	default:
		return DensityHigh
	}
}

// DensityFeatureCollection renders classified density cells as polygons
// with DIGIPIN, Count and Density_Class properties.
func DensityFeatureCollection(cells []DensityCell) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, dc := range cells {
		f := geojson.NewFeature(dc.Cell.Polygon())
		f.Properties["DIGIPIN"] = dc.Cell.Code
		f.Properties["Count"] = dc.Count
		f.Properties["Density_Class"] = string(dc.Class)
		fc.Append(f)
	}
	return fc
}
