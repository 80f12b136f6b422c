// Package config loads command-line defaults from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

// Environment variable names.
const (
	EnvPrecision     = "DIGIPIN_PRECISION"
	EnvGridPrecision = "DIGIPIN_GRID_PRECISION"
	EnvMaxCells      = "DIGIPIN_MAX_CELLS"
	EnvMaxItems      = "DIGIPIN_MAX_ITEMS"
	EnvField         = "DIGIPIN_FIELD"
	EnvWorkers       = "DIGIPIN_WORKERS"
)

// Config holds defaults for the digipin command. Flags override it.
type Config struct {
	Precision     int
	GridPrecision int
	MaxCells      int
	MaxItems      int
	Field         string
	Workers       int
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Precision:     digipin.DefaultPrecision,
		GridPrecision: digipin.DefaultGridPrecision,
		MaxCells:      digipin.DefaultGridOptions().MaxCells,
		MaxItems:      digipin.DefaultMaxDistanceItems,
		Field:         digipin.DefaultField,
		Workers:       runtime.NumCPU(),
	}
}

// Load reads the given .env files (".env" when none are given) into the
// process environment and returns the resulting config. Variables already
// set in the environment win over file values. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a config from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvPrecision, &cfg.Precision},
		{EnvGridPrecision, &cfg.GridPrecision},
		{EnvMaxCells, &cfg.MaxCells},
		{EnvMaxItems, &cfg.MaxItems},
		{EnvWorkers, &cfg.Workers},
	}
	for _, v := range ints {
		s, ok := lookup(v.name)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}
	if s, ok := lookup(EnvField); ok && s != "" {
		cfg.Field = s
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if c.Precision < digipin.MinPrecision || c.Precision > digipin.MaxPrecision {
		return fmt.Errorf("%s: %w", EnvPrecision, &digipin.PrecisionError{Precision: c.Precision})
	}
	if c.GridPrecision < digipin.MinPrecision || c.GridPrecision > digipin.MaxPrecision {
		return fmt.Errorf("%s: %w", EnvGridPrecision, &digipin.PrecisionError{Precision: c.GridPrecision})
	}
	if c.MaxCells <= 0 {
		return fmt.Errorf("%s must be positive (got %d)", EnvMaxCells, c.MaxCells)
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("%s must be positive (got %d)", EnvMaxItems, c.MaxItems)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%s must be positive (got %d)", EnvWorkers, c.Workers)
	}
	return nil
}
