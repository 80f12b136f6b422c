package digipin

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownLocations(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"delhi", 28.6139, 77.2090, "39J-438-TJC7"},
		{"mumbai", 19.0760, 72.8777, "4FK-595-8823"},
		{"chennai", 13.0827, 80.2707, "4T3-84L-L5L9"},
		{"south-west corner", 2.5, 63.5, "LLL-LLL-LLLL"},
		{"north-east corner", 38.5, 99.5, "888-888-8888"},
		{"center", 20, 80, "48C-M4C-M4CM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.lat, tt.lon, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePrecisionPrefixes(t *testing.T) {
	want := []string{
		"3", "39", "39J", "39J-4", "39J-43", "39J-438",
		"39J-438-T", "39J-438-TJ", "39J-438-TJC", "39J-438-TJC7",
	}

	for p := MinPrecision; p <= MaxPrecision; p++ {
		got, err := Encode(28.6139, 77.2090, p)
		require.NoError(t, err)
		assert.Equal(t, want[p-1], got, "precision %d", p)
		assert.Equal(t, p, Precision(got))
	}
}

func TestEncodeNoTrailingSeparator(t *testing.T) {
	for _, p := range []int{3, 6} {
		code, err := Encode(20, 80, p)
		require.NoError(t, err)
		assert.False(t, strings.HasSuffix(code, "-"), "precision %d gave %q", p, code)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  float64
		precision int
		target    error
	}{
		{"outside region", 0, 50, 10, ErrOutOfRange},
		{"latitude too high", 38.6, 77, 10, ErrOutOfRange},
		{"longitude too low", 20, 63.4, 10, ErrOutOfRange},
		{"nan", math.NaN(), 77, 10, ErrOutOfRange},
		{"precision zero", 20, 80, 0, ErrPrecision},
		{"precision eleven", 20, 80, 11, ErrPrecision},
		{"range checked first", 0, 50, 0, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Encode(tt.lat, tt.lon, tt.precision)
			assert.Empty(t, code)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRangeErrorFields(t *testing.T) {
	_, err := Encode(0, 50, 10)

	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0.0, rangeErr.Lat)
	assert.Equal(t, 50.0, rangeErr.Lon)
	assert.Contains(t, rangeErr.Error(), "latitude 0 out of range")
}

func TestDecodeKnownCodes(t *testing.T) {
	loc, err := Decode("39J-438-TJC7")
	require.NoError(t, err)
	assert.Equal(t, Location{
		Latitude:  28.613901,
		Longitude: 77.208998,
		Bounds: Bounds{
			MinLat: 28.613884,
			MaxLat: 28.613918,
			MinLon: 77.208981,
			MaxLon: 77.209015,
		},
	}, loc)

	loc, err = Decode("FCJ3K4LM92")
	require.NoError(t, err)
	assert.Equal(t, 37.700693, loc.Latitude)
	assert.Equal(t, 65.900324, loc.Longitude)
}

func TestDecodeCoarse(t *testing.T) {
	loc, err := Decode("3")
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLat: 20.5, MaxLat: 29.5, MinLon: 72.5, MaxLon: 81.5}, loc.Bounds)
	assert.Equal(t, 25.0, loc.Latitude)
	assert.Equal(t, 77.0, loc.Longitude)
}

func TestDecodeSeparatorsOptional(t *testing.T) {
	a, err := Decode("39J-438-TJC7")
	require.NoError(t, err)
	b, err := Decode("39J438TJC7")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		target error
	}{
		{"empty", "", ErrInvalidLength},
		{"separators only", "--", ErrInvalidLength},
		{"too long", "39J438TJC7F", ErrInvalidLength},
		{"bad characters", "ABC123", ErrInvalidCharacter},
		{"lowercase", "39j", ErrInvalidCharacter},
		{"non ascii", "39É", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.code)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDecodeErrorDetails(t *testing.T) {
	_, err := Decode("39J438TJC7F")
	var lenErr *InvalidLengthError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 11, lenErr.Length)

	_, err = Decode("39-A")
	var charErr *InvalidCharacterError
	require.ErrorAs(t, err, &charErr)
	assert.Equal(t, 'A', charErr.Char)
	assert.Equal(t, 2, charErr.Position)
}

func TestRoundTrip(t *testing.T) {
	points := []Coordinate{
		{Lat: 28.6139, Lon: 77.2090},
		{Lat: 19.0760, Lon: 72.8777},
		{Lat: 13.0827, Lon: 80.2707},
		{Lat: 8.5241, Lon: 76.9366},
		{Lat: 34.0837, Lon: 74.7973},
		{Lat: 2.5, Lon: 63.5},
		{Lat: 38.4999, Lon: 99.4999},
	}

	for _, p := range points {
		code, err := Encode(p.Lat, p.Lon, 10)
		require.NoError(t, err)

		loc, err := Decode(code)
		require.NoError(t, err)
		assert.InDelta(t, p.Lat, loc.Latitude, 1e-4, "code %s", code)
		assert.InDelta(t, p.Lon, loc.Longitude, 1e-4, "code %s", code)
		assert.True(t, loc.Bounds.Expand(1e-6).Contains(p.Lon, p.Lat), "code %s", code)
	}
}

func TestCellsNest(t *testing.T) {
	code, err := Encode(28.6139, 77.2090, 10)
	require.NoError(t, err)

	var parent Bounds
	for p := MinPrecision; p <= MaxPrecision; p++ {
		loc, err := Decode(Normalize(code)[:p])
		require.NoError(t, err)
		if p > MinPrecision {
			assert.True(t, parent.Expand(1e-6).ContainsBounds(loc.Bounds), "level %d escapes its parent", p)
		}
		parent = loc.Bounds
	}
}

func TestRegionAlphabet(t *testing.T) {
	r := DefaultRegion()
	assert.Equal(t, "FC98J327K456LMPT", r.Alphabet())

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			gotRow, gotCol, ok := r.Position(r.Symbol(row, col))
			require.True(t, ok)
			assert.Equal(t, row, gotRow)
			assert.Equal(t, col, gotCol)
		}
	}
	assert.False(t, r.IsSymbol('A'))
	assert.False(t, r.IsSymbol('0'))
}

func TestPrecisionTable(t *testing.T) {
	info, ok := PrecisionInfoFor(6)
	require.True(t, ok)
	assert.Equal(t, 0.875, info.CellSizeKm)
	assert.Equal(t, "~875 m", info.Accuracy)
	assert.InDelta(t, 0.765625, info.AreaKm2(), 1e-12)

	_, ok = PrecisionInfoFor(0)
	assert.False(t, ok)
	assert.Len(t, DefaultRegion().Precisions(), MaxPrecision)

	latSpan, lonSpan := DefaultRegion().CellSpan(1)
	assert.Equal(t, 9.0, latSpan)
	assert.Equal(t, 9.0, lonSpan)
}
