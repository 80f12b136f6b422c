package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func main() {
	// Encode a coordinate (India Gate, New Delhi)
	code, err := digipin.Encode(28.6139, 77.2090, 10)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("DIGIPIN: %s\n", code)

	// Decode it back to the cell center
	loc, err := digipin.Decode(code)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Center: %.6f, %.6f\n", loc.Latitude, loc.Longitude)
	fmt.Printf("Bounds: [%.6f,%.6f] to [%.6f,%.6f]\n",
		loc.Bounds.MinLon, loc.Bounds.MinLat,
		loc.Bounds.MaxLon, loc.Bounds.MaxLat)

	// Shorter codes name larger cells
	for _, p := range []int{3, 6, 8} {
		short, err := digipin.Encode(28.6139, 77.2090, p)
		if err != nil {
			log.Fatal(err)
		}
		info, _ := digipin.PrecisionInfoFor(p)
		fmt.Printf("Level %d: %-12s %s\n", p, short, info.Accuracy)
	}
}
