package digipin

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. Each typed error below matches
// exactly one of them.
var (
	ErrOutOfRange       = errors.New("digipin: coordinate out of range")
	ErrPrecision        = errors.New("digipin: invalid precision")
	ErrInvalidLength    = errors.New("digipin: invalid length")
	ErrInvalidCharacter = errors.New("digipin: invalid character")
)

// RangeError indicates a coordinate outside the region.
type RangeError struct {
	Lat, Lon float64
	Bounds   Bounds
}

func (e *RangeError) Error() string {
	if e.Lat < e.Bounds.MinLat || e.Lat > e.Bounds.MaxLat {
		return fmt.Sprintf("latitude %v out of range [%v, %v]", e.Lat, e.Bounds.MinLat, e.Bounds.MaxLat)
	}
	return fmt.Sprintf("longitude %v out of range [%v, %v]", e.Lon, e.Bounds.MinLon, e.Bounds.MaxLon)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// PrecisionError indicates a precision outside 1-10.
type PrecisionError struct {
	Precision int
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("precision must be between %d and %d, got %d", MinPrecision, MaxPrecision, e.Precision)
}

func (e *PrecisionError) Is(target error) bool { return target == ErrPrecision }

// InvalidLengthError indicates a code whose length, after removing
// separators, is outside 1-10.
type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid DIGIPIN length: %d. Must be %d-%d characters", e.Length, MinPrecision, MaxPrecision)
}

func (e *InvalidLengthError) Is(target error) bool { return target == ErrInvalidLength }

// InvalidCharacterError indicates a symbol outside the alphabet.
type InvalidCharacterError struct {
	Char     rune
	Position int // zero-based, separators excluded
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character in DIGIPIN: %q at position %d", e.Char, e.Position)
}

func (e *InvalidCharacterError) Is(target error) bool { return target == ErrInvalidCharacter }
