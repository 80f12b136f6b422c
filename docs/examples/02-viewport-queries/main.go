package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func main() {
	// Generate a level 6 grid over central Delhi
	extent := digipin.Bounds{
		MinLon: 77.1, MaxLon: 77.3,
		MinLat: 28.5, MaxLat: 28.7,
	}

	grid, err := digipin.GenerateGrid(context.Background(), extent, 6, digipin.DefaultGridOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Grid cells: %d (from %d samples)\n", grid.Len(), grid.Probes)

	// Define viewport (Connaught Place)
	viewport := digipin.Bounds{
		MinLon: 77.21, MaxLon: 77.23,
		MinLat: 28.62, MaxLat: 28.64,
	}

	// Query R-tree index for visible cells (O(log n))
	cells := grid.CellsInBounds(viewport)

	fmt.Printf("Visible cells: %d\n", len(cells))

	for _, cell := range cells {
		fmt.Printf("  %s: %.6f, %.6f\n",
			cell.Code,
			cell.Center.Lat, cell.Center.Lon)
	}
}
