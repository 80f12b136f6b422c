package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

// Spread coordinates over the whole region
func sampleCoordinates(n int) []digipin.Coordinate {
	coords := make([]digipin.Coordinate, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			coords = append(coords, digipin.Coordinate{
				Lat: 2.5 + 36*float64(i)/float64(n),
				Lon: 63.5 + 36*float64(j)/float64(n),
			})
		}
	}
	return coords
}

func main() {
	coords := sampleCoordinates(500)

	// Serial
	fmt.Println("=== Serial ===")
	start := time.Now()
	if _, err := digipin.EncodeBatchWithOptions(context.Background(), coords, 10, digipin.DefaultBatchOptions()); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Encoded %d in %v\n", len(coords), time.Since(start))

	// Parallel with a worker pool
	fmt.Println("\n=== Parallel ===")
	opts := digipin.DefaultBatchOptions()
	opts.Parallel = true
	opts.ErrorLog = os.Stderr
	opts.Progress = func(done, total int) {
		if done%50000 == 0 {
			fmt.Printf("  %d/%d\n", done, total)
		}
	}

	start = time.Now()
	if _, err := digipin.EncodeBatchWithOptions(context.Background(), coords, 10, opts); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Encoded %d in %v\n", len(coords), time.Since(start))

	// Bound grid work by capping cells
	fmt.Println("\n=== Capped grid ===")
	extent := digipin.DefaultRegion().Bounds()
	fmt.Printf("Estimated level 8 cells: %d\n", digipin.EstimateCellCount(extent, 8))

	grid, err := digipin.GenerateGrid(context.Background(), extent, 8, digipin.GridOptions{MaxCells: 2000})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d cells (truncated: %v)\n", grid.Len(), grid.Truncated)
}
