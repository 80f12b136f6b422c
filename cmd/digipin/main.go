// Command digipin encodes, decodes and analyses DIGIPIN codes.
//
// Usage:
//
//	digipin <command> [flags]
//
// Run "digipin <command> -h" for the flags of a command. Defaults are read
// from the environment and an optional .env file (see internal/config).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/digipin/internal/config"
)

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, args []string) error
}

var commands = []command{
	{"encode", "encode a coordinate", runEncode},
	{"decode", "decode a code to its center and bounds", runDecode},
	{"validate", "validate a code or a coordinate", runValidate},
	{"neighbors", "list the cells around a code", runNeighbors},
	{"grid", "generate a cell grid over a bounding box as GeoJSON", runGrid},
	{"batch", "add codes to a CSV or GeoJSON file", runBatch},
	{"density", "count records per cell", runDensity},
	{"coverage", "summarize the codes in a file", runCoverage},
	{"distance", "pairwise distances between codes in a file", runDistance},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("digipin: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	name := os.Args[1]
	for _, c := range commands {
		if c.name == name {
			if err := c.run(cfg, os.Args[2:]); err != nil {
				log.Fatal(err)
			}
			return
		}
	}

	if name != "-h" && name != "help" {
		log.Printf("unknown command %q", name)
	}
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: digipin <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.usage)
	}
}
