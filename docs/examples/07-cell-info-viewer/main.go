package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func main() {
	code := flag.String("code", "", "DIGIPIN code")
	flag.Parse()

	if *code == "" {
		log.Fatal("Please provide -code")
	}

	// Decode cell
	cell, err := digipin.DecodeCell(*code)
	if err != nil {
		log.Fatal(err)
	}

	// Print metadata
	info, _ := digipin.PrecisionInfoFor(cell.Precision)
	fmt.Printf("=== Cell Information ===\n")
	fmt.Printf("Code: %s\n", cell.Code)
	fmt.Printf("Precision: %d (%s)\n", cell.Precision, info.Accuracy)
	fmt.Printf("Area: %.6f km²\n\n", cell.AreaKm2)

	// Print bounds
	fmt.Printf("=== Geographic Bounds ===\n")
	fmt.Printf("Longitude: %.6f to %.6f\n", cell.Bounds.MinLon, cell.Bounds.MaxLon)
	fmt.Printf("Latitude: %.6f to %.6f\n", cell.Bounds.MinLat, cell.Bounds.MaxLat)
	fmt.Printf("WKT: %s\n\n", cell.WKT())

	// Print neighbors
	neighbors, err := digipin.Neighbors(*code, true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("=== Neighbors ===\n")
	for _, n := range neighbors {
		fmt.Println(n)
	}
}
