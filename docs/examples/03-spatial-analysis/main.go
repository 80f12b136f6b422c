package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func main() {
	// Delivery addresses collected as codes
	src := digipin.CodeSource(digipin.DefaultField,
		"39J-438-TJC7", "39J-438-TJC6", "39J-438-TJ9K",
		"39J-43F-C2M8", "4FK-595-8823", "4T3-84L-L5L9",
	)

	// Records per level 6 cell
	density, err := digipin.Density(src, digipin.DefaultField, 6)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("=== Density ===")
	for _, c := range digipin.ClassifyDensity(density) {
		fmt.Printf("%-8s %d  %s\n", c.Cell.Code, c.Count, c.Class)
	}

	// Coverage against the area of Delhi NCT
	stats := digipin.Coverage(src, digipin.DefaultField, digipin.CoverageOptions{TotalAreaKm2: 1484})
	fmt.Println("\n=== Coverage ===")
	fmt.Printf("Unique cells: %d of %d features\n", stats.UniqueCells, stats.TotalFeatures)
	fmt.Printf("Covered: %.6f km² (%.6f%%)\n", stats.CoveredAreaKm2, stats.CoveragePercentage)

	// Cells around the first address
	neighbors, err := digipin.Neighbors("39J-438-TJC7", true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("\n=== Neighbors ===")
	for _, n := range neighbors {
		fmt.Println(n)
	}

	// Distances between every pair
	m := digipin.ComputeDistanceMatrix(src, digipin.DefaultField, 0)
	fmt.Println("\n=== Distances (km) ===")
	codes := m.Codes()
	for i, a := range codes {
		for _, b := range codes[i+1:] {
			d, _ := m.Distance(a, b)
			fmt.Printf("%s -> %s: %.3f\n", a, b, d)
		}
	}
}
