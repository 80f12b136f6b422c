package digipin

import (
	"math"

	"github.com/paulmach/orb"
)

// Bounds represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in decimal degrees.
type Bounds struct {
	MinLon float64 `json:"minLon"` // Western edge
	MaxLon float64 `json:"maxLon"` // Eastern edge
	MinLat float64 `json:"minLat"` // Southern edge
	MaxLat float64 `json:"maxLat"` // Northern edge
}

// Contains returns true if the point (lon, lat) is within the bounds.
// Edges are inclusive.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// ContainsBounds returns true if other lies entirely within b.
func (b Bounds) ContainsBounds(other Bounds) bool {
	return other.MinLon >= b.MinLon && other.MaxLon <= b.MaxLon &&
		other.MinLat >= b.MinLat && other.MaxLat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Expand returns a new Bounds expanded by the given margin in all directions.
//
// Margin is in decimal degrees.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLon: b.MinLon - margin,
		MaxLon: b.MaxLon + margin,
		MinLat: b.MinLat - margin,
		MaxLat: b.MaxLat + margin,
	}
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Clamp returns the intersection of b with limit.
//
// The result may be invalid (see Valid) when the two do not overlap.
func (b Bounds) Clamp(limit Bounds) Bounds {
	return Bounds{
		MinLon: math.Max(b.MinLon, limit.MinLon),
		MaxLon: math.Min(b.MaxLon, limit.MaxLon),
		MinLat: math.Max(b.MinLat, limit.MinLat),
		MaxLat: math.Min(b.MaxLat, limit.MaxLat),
	}
}

// Valid reports whether the bounds describe a non-inverted rectangle.
// Zero-width or zero-height bounds are valid.
func (b Bounds) Valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Bound converts to an orb.Bound ([lon, lat] ordering).
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// BoundsFromOrb converts an orb.Bound to Bounds.
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{
		MinLon: b.Min.Lon(),
		MaxLon: b.Max.Lon(),
		MinLat: b.Min.Lat(),
		MaxLat: b.Max.Lat(),
	}
}

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts to an orb.Point. Note orb uses [lon, lat] ordering.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// CoordinateFromPoint converts an orb.Point to a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
