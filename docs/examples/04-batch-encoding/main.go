package main

import (
	"fmt"
	"os"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func main() {
	coords := []digipin.Coordinate{
		{Lat: 28.6139, Lon: 77.2090}, // Delhi
		{Lat: 19.0760, Lon: 72.8777}, // Mumbai
		{Lat: 51.5074, Lon: -0.1278}, // London, outside the region
		{Lat: 13.0827, Lon: 80.2707}, // Chennai
	}

	// Failures stay with their record; the batch carries on
	for i, r := range digipin.EncodeBatch(coords, 10) {
		if !r.OK() {
			fmt.Fprintf(os.Stderr, "record %d: %v\n", i, r.Err)
			continue
		}
		fmt.Printf("record %d: %s\n", i, r.Code)
	}

	// Decoding works the same way
	for i, r := range digipin.DecodeBatch([]string{"39J-438-TJC7", "XYZ-123"}) {
		if !r.OK() {
			fmt.Fprintf(os.Stderr, "code %d: %v\n", i, r.Err)
			continue
		}
		fmt.Printf("code %d: %.6f, %.6f\n", i, r.Location.Latitude, r.Location.Longitude)
	}
}
