// Package digipin implements the DIGIPIN hierarchical geocoding scheme.
//
// DIGIPIN divides a fixed region (latitude 2.5 to 38.5, longitude 63.5 to
// 99.5) into a 4×4 grid, then divides each grid cell again, up to ten
// levels. Each level contributes one symbol from a 16-character alphabet,
// so a code of length k names a cell of roughly region/4^k per axis.
//
// # Basic Usage
//
//	code, err := digipin.Encode(28.6139, 77.2090, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(code) // 39J-438-TJC7
//
//	loc, err := digipin.Decode(code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.6f, %.6f\n", loc.Latitude, loc.Longitude)
//
// Codes are written with separators after the 3rd and 6th symbols. The
// separators are cosmetic: Decode accepts codes with or without them and
// FormatDigipin adds or removes them.
//
// # Validation
//
// ValidateCoordinates and ValidateDigipin never fail; they return a boolean
// and a human-readable reason, suitable for form input:
//
//	if ok, reason := digipin.ValidateDigipin(input); !ok {
//	    fmt.Println(reason)
//	}
//
// Encode and Decode return typed errors (*RangeError, *PrecisionError,
// *InvalidLengthError, *InvalidCharacterError) that also match the
// sentinels ErrOutOfRange, ErrPrecision, ErrInvalidLength and
// ErrInvalidCharacter with errors.Is.
//
// # Batches
//
// EncodeBatch and DecodeBatch isolate failures per item. A bad record
// yields a result with Err set and the batch carries on:
//
//	for i, r := range digipin.DecodeBatch(codes) {
//	    if !r.OK() {
//	        fmt.Printf("row %d: %v\n", i, r.Err)
//	        continue
//	    }
//	    use(r.Location)
//	}
//
// # Spatial Analysis
//
// Density, Coverage and ComputeDistanceMatrix read codes from any
// FeatureSource. Neighbors finds the cells around a code.
//
// # Grids
//
// GenerateGrid samples an extent to find the cells that intersect it at a
// chosen precision. The number of encodes and of returned cells is bounded
// whatever the extent, so the result is an approximation for very fine
// precisions over large areas. The returned CellCollection has a spatial
// index for viewport queries and exports to GeoJSON.
//
// # Concurrency
//
// Every function is a pure function of its inputs. The region constants are
// read-only and shared; all functions are safe for concurrent use.
package digipin
