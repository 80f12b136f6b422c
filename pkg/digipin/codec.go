package digipin

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Location is the result of decoding a code: the cell center and its
// bounding box, all rounded to 6 decimal places.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Bounds    Bounds  `json:"bounds"`
}

// Coordinate returns the center as a Coordinate.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Latitude, Lon: l.Longitude}
}

// Encode converts a coordinate to a code of the given precision.
//
// The returned code carries separators after the 3rd and 6th symbols when
// it is long enough to have them. Returns *RangeError when the coordinate
// lies outside the region and *PrecisionError when precision is not 1-10.
//
// Example:
//
//	code, err := digipin.Encode(28.6139, 77.2090, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(code) // 39J-438-TJC7
func Encode(lat, lon float64, precision int) (string, error) {
	return defaultRegion.Encode(lat, lon, precision)
}

// Encode converts a coordinate to a code using this region's constants.
func (r *RegionSpec) Encode(lat, lon float64, precision int) (string, error) {
	b := r.bounds
	if math.IsNaN(lat) || lat < b.MinLat || lat > b.MaxLat ||
		math.IsNaN(lon) || lon < b.MinLon || lon > b.MaxLon {
		return "", &RangeError{Lat: lat, Lon: lon, Bounds: b}
	}
	if precision < MinPrecision || precision > MaxPrecision {
		return "", &PrecisionError{Precision: precision}
	}

	minLat, maxLat := b.MinLat, b.MaxLat
	minLon, maxLon := b.MinLon, b.MaxLon

	var sb strings.Builder
	sb.Grow(precision + 2)

	for level := 1; level <= precision; level++ {
		latDiv := (maxLat - minLat) / 4
		lonDiv := (maxLon - minLon) / 4

		// Row 0 is the northernmost band, so latitude indexes in reverse.
		row := clampIndex(3 - int(math.Floor((lat-minLat)/latDiv)))
		col := clampIndex(int(math.Floor((lon - minLon) / lonDiv)))

		sb.WriteByte(r.grid[row][col])
		if (level == 3 || level == 6) && level < precision {
			sb.WriteByte(Separator)
		}

		maxLat = minLat + latDiv*float64(4-row)
		minLat = minLat + latDiv*float64(3-row)

		// minLon must be updated before maxLon is derived from it. Codes in
		// circulation depend on this exact order.
		minLon = minLon + lonDiv*float64(col)
		maxLon = minLon + lonDiv
	}

	return sb.String(), nil
}

// Decode converts a code, with or without separators, to its cell center
// and bounds.
//
// Returns *InvalidLengthError when the code has fewer than 1 or more than
// 10 symbols, and *InvalidCharacterError for any symbol outside the
// alphabet.
//
// Example:
//
//	loc, err := digipin.Decode("39J-438-TJC7")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.6f, %.6f\n", loc.Latitude, loc.Longitude)
func Decode(code string) (Location, error) {
	return defaultRegion.Decode(code)
}

// Decode converts a code to a Location using this region's constants.
func (r *RegionSpec) Decode(code string) (Location, error) {
	pin, err := r.parse(code)
	if err != nil {
		return Location{}, err
	}

	b := r.bounds
	minLat, maxLat := b.MinLat, b.MaxLat
	minLon, maxLon := b.MinLon, b.MaxLon

	for i := 0; i < len(pin); i++ {
		p := r.inverse[pin[i]]

		latDiv := (maxLat - minLat) / 4
		lonDiv := (maxLon - minLon) / 4

		lat1 := maxLat - latDiv*float64(p.row+1)
		lat2 := maxLat - latDiv*float64(p.row)
		lon1 := minLon + lonDiv*float64(p.col)
		lon2 := minLon + lonDiv*float64(p.col+1)

		minLat, maxLat = lat1, lat2
		minLon, maxLon = lon1, lon2
	}

	return Location{
		Latitude:  round6((minLat + maxLat) / 2),
		Longitude: round6((minLon + maxLon) / 2),
		Bounds: Bounds{
			MinLat: round6(minLat),
			MaxLat: round6(maxLat),
			MinLon: round6(minLon),
			MaxLon: round6(maxLon),
		},
	}, nil
}

// parse strips separators and checks length and alphabet membership.
// The returned string contains only alphabet bytes.
func (r *RegionSpec) parse(code string) (string, error) {
	pin := Normalize(code)

	n := utf8.RuneCountInString(pin)
	if n < MinPrecision || n > MaxPrecision {
		return "", &InvalidLengthError{Length: n}
	}

	pos := 0
	for _, c := range pin {
		if c >= utf8.RuneSelf || !r.IsSymbol(byte(c)) {
			return "", &InvalidCharacterError{Char: c, Position: pos}
		}
		pos++
	}
	return pin, nil
}

// Precision returns the precision level of a code, which is its symbol
// count with separators removed.
func Precision(code string) int {
	return utf8.RuneCountInString(Normalize(code))
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > 3 {
		return 3
	}
	return i
}
