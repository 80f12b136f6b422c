package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/digipin/pkg/digipin"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(mapLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.Precision)
	assert.Equal(t, 5, cfg.GridPrecision)
	assert.Equal(t, "DIGIPIN", cfg.Field)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		EnvPrecision:     "6",
		EnvGridPrecision: "4",
		EnvMaxCells:      "500",
		EnvMaxItems:      "20",
		EnvField:         "pin",
		EnvWorkers:       "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Precision:     6,
		GridPrecision: 4,
		MaxCells:      500,
		MaxItems:      20,
		Field:         "pin",
		Workers:       2,
	}, cfg)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"not a number", map[string]string{EnvPrecision: "ten"}},
		{"precision too high", map[string]string{EnvPrecision: "11"}},
		{"grid precision zero", map[string]string{EnvGridPrecision: "0"}},
		{"negative cells", map[string]string{EnvMaxCells: "-1"}},
		{"zero items", map[string]string{EnvMaxItems: "0"}},
		{"zero workers", map[string]string{EnvWorkers: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(mapLookup(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestFromEnvPrecisionError(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{EnvPrecision: "12"}))
	assert.ErrorIs(t, err, digipin.ErrPrecision)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, godotenv.Write(map[string]string{
		EnvGridPrecision: "7",
		EnvField:         "code",
	}, path))
	t.Cleanup(func() {
		os.Unsetenv(EnvGridPrecision)
		os.Unsetenv(EnvField)
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.GridPrecision)
	assert.Equal(t, "code", cfg.Field)
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, godotenv.Write(map[string]string{EnvMaxItems: "30"}, path))
	t.Setenv(EnvMaxItems, "40")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.MaxItems)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, digipin.DefaultField, cfg.Field)
}
