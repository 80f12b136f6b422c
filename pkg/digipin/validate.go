package digipin

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ValidateCoordinates checks that lat and lon are finite numbers inside the
// region. It never returns an error; the second value explains a failure.
//
// Example:
//
//	if ok, reason := digipin.ValidateCoordinates(lat, lon); !ok {
//	    fmt.Println(reason) // "Latitude must be between 2.5 and 38.5"
//	}
func ValidateCoordinates(lat, lon float64) (bool, string) {
	return defaultRegion.ValidateCoordinates(lat, lon)
}

// ValidateCoordinates checks a coordinate against this region.
func (r *RegionSpec) ValidateCoordinates(lat, lon float64) (bool, string) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return false, "Latitude must be a number"
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false, "Longitude must be a number"
	}

	b := r.bounds
	if lat < b.MinLat || lat > b.MaxLat {
		return false, fmt.Sprintf("Latitude must be between %v and %v", b.MinLat, b.MaxLat)
	}
	if lon < b.MinLon || lon > b.MaxLon {
		return false, fmt.Sprintf("Longitude must be between %v and %v", b.MinLon, b.MaxLon)
	}
	return true, ""
}

// ValidateDigipin checks the length and character set of a code.
//
// All invalid characters are reported, not just the first.
func ValidateDigipin(code string) (bool, string) {
	return defaultRegion.ValidateDigipin(code)
}

// ValidateDigipin checks a code against this region's alphabet.
func (r *RegionSpec) ValidateDigipin(code string) (bool, string) {
	pin := Normalize(code)

	n := utf8.RuneCountInString(pin)
	if n < MinPrecision || n > MaxPrecision {
		return false, fmt.Sprintf("DIGIPIN must be %d-%d characters (got %d)", MinPrecision, MaxPrecision, n)
	}

	var invalid []string
	for _, c := range pin {
		if c >= utf8.RuneSelf || !r.IsSymbol(byte(c)) {
			invalid = append(invalid, string(c))
		}
	}
	if len(invalid) > 0 {
		return false, "Invalid characters: " + strings.Join(invalid, ", ")
	}
	return true, ""
}

// ValidateValue validates a loosely typed value, such as a feature
// attribute, as a code. Anything other than a string fails the type check.
func ValidateValue(v any) (bool, string) {
	s, ok := v.(string)
	if !ok {
		return false, "DIGIPIN must be a string"
	}
	return ValidateDigipin(s)
}

// Normalize removes every separator from code.
func Normalize(code string) string {
	if strings.IndexByte(code, Separator) < 0 {
		return code
	}
	return strings.ReplaceAll(code, string(Separator), "")
}

// FormatDigipin normalizes separator placement.
//
// With withSeparators set, separators are placed after the 3rd and 6th
// symbols; otherwise all separators are removed. The code is not validated
// and the function is idempotent.
//
// Example:
//
//	digipin.FormatDigipin("FCJ3K4LM92", true)    // "FCJ-3K4-LM92"
//	digipin.FormatDigipin("FCJ-3K4-LM92", false) // "FCJ3K4LM92"
func FormatDigipin(code string, withSeparators bool) string {
	pin := []rune(Normalize(code))
	if !withSeparators || len(pin) <= 3 {
		return string(pin)
	}

	var sb strings.Builder
	sb.WriteString(string(pin[:3]))
	sb.WriteByte(Separator)
	if len(pin) <= 6 {
		sb.WriteString(string(pin[3:]))
		return sb.String()
	}
	sb.WriteString(string(pin[3:6]))
	sb.WriteByte(Separator)
	sb.WriteString(string(pin[6:]))
	return sb.String()
}
