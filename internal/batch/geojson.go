package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

// GeoJSONSource adapts a GeoJSON FeatureCollection to digipin.FeatureSource.
type GeoJSONSource struct {
	Collection *geojson.FeatureCollection
}

// Features implements digipin.FeatureSource.
func (s GeoJSONSource) Features() iter.Seq[digipin.Feature] {
	return func(yield func(digipin.Feature) bool) {
		if s.Collection == nil {
			return
		}
		for _, f := range s.Collection.Features {
			if !yield(geoJSONFeature{f}) {
				return
			}
		}
	}
}

type geoJSONFeature struct {
	f *geojson.Feature
}

func (g geoJSONFeature) Attribute(name string) (any, bool) {
	v, ok := g.f.Properties[name]
	return v, ok
}

func (g geoJSONFeature) Point() (orb.Point, bool) {
	p, ok := g.f.Geometry.(orb.Point)
	return p, ok
}

// ReadGeoJSON parses a FeatureCollection from r.
func ReadGeoJSON(r io.Reader) (GeoJSONSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return GeoJSONSource{}, fmt.Errorf("read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return GeoJSONSource{}, fmt.Errorf("parse geojson: %w", err)
	}
	return GeoJSONSource{Collection: fc}, nil
}

// EncodeGeoJSON reads a FeatureCollection from r, sets the code property on
// every point feature and writes the collection to w.
//
// Features without point geometry, or whose point lies outside the region,
// are left unchanged and counted as errors.
func EncodeGeoJSON(r io.Reader, w io.Writer, precision int, field string) (Report, error) {
	return EncodeGeoJSONWithOptions(r, w, precision, field, digipin.DefaultBatchOptions())
}

// EncodeGeoJSONWithOptions is EncodeGeoJSON with batch options.
func EncodeGeoJSONWithOptions(r io.Reader, w io.Writer, precision int, field string, opts digipin.BatchOptions) (Report, error) {
	if field == "" {
		field = digipin.DefaultField
	}
	src, err := ReadGeoJSON(r)
	if err != nil {
		return Report{}, err
	}
	features := src.Collection.Features

	coords := make([]digipin.Coordinate, 0, len(features))
	targets := make([]*geojson.Feature, 0, len(features))
	var report Report
	for _, f := range features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			report.Errors++
			continue
		}
		coords = append(coords, digipin.CoordinateFromPoint(p))
		targets = append(targets, f)
	}

	results, err := digipin.EncodeBatchWithOptions(context.Background(), coords, precision, opts)
	if err != nil {
		return report, err
	}
	for i, res := range results {
		if !res.OK() {
			report.Errors++
			continue
		}
		if targets[i].Properties == nil {
			targets[i].Properties = geojson.Properties{}
		}
		targets[i].Properties[field] = res.Code
		report.Success++
	}

	out, err := json.MarshalIndent(src.Collection, "", "  ")
	if err != nil {
		return report, fmt.Errorf("marshal geojson: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return report, fmt.Errorf("write geojson: %w", err)
	}
	return report, nil
}
