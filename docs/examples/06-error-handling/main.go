package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func safeDecode(code string) (digipin.Location, error) {
	loc, err := digipin.Decode(code)
	if err != nil {
		// Report the offending symbol
		var charErr *digipin.InvalidCharacterError
		if errors.As(err, &charErr) {
			return loc, fmt.Errorf("%q: bad symbol %q at %d", code, charErr.Char, charErr.Position)
		}

		// Log detailed error
		log.Printf("Failed to decode %q: %v", code, err)
		return loc, err
	}
	return loc, nil
}

func main() {
	// Out of range coordinates match the sentinel
	_, err := digipin.Encode(51.5074, -0.1278, 10)
	if errors.Is(err, digipin.ErrOutOfRange) {
		log.Printf("Expected error: %v", err)
	}

	// Form validation never fails, it explains
	if ok, reason := digipin.ValidateCoordinates(40, 77); !ok {
		fmt.Printf("Rejected: %s\n", reason)
	}
	if ok, reason := digipin.ValidateDigipin("ABC-123"); !ok {
		fmt.Printf("Rejected: %s\n", reason)
	}

	// Typed errors from Decode
	for _, code := range []string{"39J-438-TJC7", "39J-43A", "39J-438-TJC7-F"} {
		loc, err := safeDecode(code)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Printf("%s: %.6f, %.6f\n", code, loc.Latitude, loc.Longitude)
	}
}
