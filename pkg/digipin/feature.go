package digipin

import (
	"fmt"
	"iter"
	"strings"

	"github.com/paulmach/orb"
)

// Feature is a single record from a feature source: a set of named
// attributes and an optional point geometry.
type Feature interface {
	// Attribute returns the named attribute value, or nil and false when the
	// record has no such attribute.
	Attribute(name string) (any, bool)

	// Point returns the record's point geometry, if it has one.
	Point() (orb.Point, bool)
}

// FeatureSource is anything that can iterate feature records. Hosts such as
// file readers, databases or GIS layers implement it with a thin adapter.
type FeatureSource interface {
	Features() iter.Seq[Feature]
}

// MapFeature is an in-memory Feature backed by an attribute map.
type MapFeature struct {
	Attributes map[string]any
	Geometry   orb.Point
	HasPoint   bool
}

// Attribute implements Feature.
func (f MapFeature) Attribute(name string) (any, bool) {
	v, ok := f.Attributes[name]
	return v, ok
}

// Point implements Feature.
func (f MapFeature) Point() (orb.Point, bool) {
	return f.Geometry, f.HasPoint
}

// SliceSource is a FeatureSource over a slice of features.
type SliceSource []Feature

// Features implements FeatureSource.
func (s SliceSource) Features() iter.Seq[Feature] {
	return func(yield func(Feature) bool) {
		for _, f := range s {
			if !yield(f) {
				return
			}
		}
	}
}

// CodeSource builds a SliceSource whose records carry only a code attribute
// named field.
//
// Example:
//
//	src := digipin.CodeSource(digipin.DefaultField, "39J-438-TJC7", "4FK-595-8823")
//	density, _ := digipin.Density(src, digipin.DefaultField, 3)
func CodeSource(field string, codes ...string) SliceSource {
	src := make(SliceSource, len(codes))
	for i, c := range codes {
		src[i] = MapFeature{Attributes: map[string]any{field: c}}
	}
	return src
}

// codeAttribute extracts a normalized code from a feature attribute.
// Missing, empty and non-text values yield false.
func codeAttribute(f Feature, field string) (string, bool) {
	v, ok := f.Attribute(field)
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}

	s = Normalize(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, true
}
