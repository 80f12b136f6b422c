package digipin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestDensity(t *testing.T) {
	src := SliceSource{
		MapFeature{Attributes: map[string]any{"DIGIPIN": "39J-438-TJC7"}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": "39J-438-TJC6"}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": " 39j "}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": "4FK-595-8823"}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": stringer("4FK")}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": "ABC"}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": 42}},
		MapFeature{Attributes: map[string]any{"DIGIPIN": nil}},
		MapFeature{Attributes: map[string]any{"other": "39J"}},
	}

	got, err := Density(src, DefaultField, 3)
	require.NoError(t, err)

	want := map[string]int{"39J": 2, "4FK": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Density() mismatch (-want +got):\n%s", diff)
	}
}

func TestDensityShortCodesKeepTheirLength(t *testing.T) {
	got, err := Density(CodeSource("pin", "39", "39J-438"), "pin", 6)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"39": 1, "39J438": 1}, got)
}

func TestDensityEmptyAndBadPrecision(t *testing.T) {
	got, err := Density(SliceSource{}, DefaultField, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Density(SliceSource{}, DefaultField, 11)
	assert.ErrorIs(t, err, ErrPrecision)
}

func TestClassifyDensity(t *testing.T) {
	cells := ClassifyDensity(map[string]int{"39J": 1, "4FK": 4, "4T3": 10, "FCJ": 6, "bad": 3})
	require.Len(t, cells, 4)

	got := map[string]DensityClass{}
	for _, c := range cells {
		got[c.Cell.Code] = c.Class
	}
	want := map[string]DensityClass{
		"39J": DensityLow,
		"4FK": DensityMediumLow,
		"FCJ": DensityMediumHigh,
		"4T3": DensityHigh,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassifyDensity() mismatch (-want +got):\n%s", diff)
	}

	// Sorted by code.
	assert.Equal(t, "39J", cells[0].Cell.Code)
	assert.Equal(t, "FCJ", cells[3].Cell.Code)

	uniform := ClassifyDensity(map[string]int{"39J": 2, "4FK": 2})
	for _, c := range uniform {
		assert.Equal(t, DensityUniform, c.Class)
	}

	fc := DensityFeatureCollection(cells)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "4T3", fc.Features[2].Properties["DIGIPIN"])
	assert.Equal(t, 10, fc.Features[2].Properties["Count"])
	assert.Equal(t, "High", fc.Features[2].Properties["Density_Class"])
}

func TestCoverage(t *testing.T) {
	src := CodeSource(DefaultField, "39J-438", "39J-438", "4FK-595", "4T3-84L", "4T3-84L-L5L9", "bad", "")

	stats := Coverage(src, DefaultField, CoverageOptions{})
	assert.Equal(t, 7, stats.TotalFeatures)
	assert.Equal(t, 4, stats.UniqueCells)
	assert.Equal(t, map[int]int{6: 4, 10: 1}, stats.PrecisionDistribution)
	assert.False(t, stats.HasArea)
	assert.False(t, stats.Empty())
}

func TestCoverageArea(t *testing.T) {
	src := CodeSource(DefaultField, "39J-438", "4FK-595", "4T3-84L")

	stats := Coverage(src, DefaultField, CoverageOptions{TotalAreaKm2: 100})
	require.True(t, stats.HasArea)
	assert.InDelta(t, 3*0.875*0.875, stats.CoveredAreaKm2, 1e-9)
	assert.InDelta(t, 3*0.875*0.875, stats.CoveragePercentage, 1e-9)
}

func TestCoverageEmpty(t *testing.T) {
	stats := Coverage(CodeSource(DefaultField, "nope"), DefaultField, CoverageOptions{TotalAreaKm2: 10})
	assert.True(t, stats.Empty())
	assert.Equal(t, 1, stats.TotalFeatures)
	assert.False(t, stats.HasArea)
}

func TestNeighbors(t *testing.T) {
	got, err := Neighbors("39J-438-TJC7", true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"39J-438-TJC5", "39J-438-TJC6", "39J-438-TJ9K",
		"39J-438-TJC2", "39J-438-TJ9J",
		"39J-438-TJC9", "39J-438-TJC8", "39J-438-TJ9F",
	}, got)

	got, err = Neighbors("39J438TJC7", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"39J-438-TJC6", "39J-438-TJC2", "39J-438-TJ9J", "39J-438-TJC8"}, got)
}

func TestNeighborsCoarse(t *testing.T) {
	got, err := Neighbors("39J", true)
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.NotContains(t, got, "39J")
}

func TestNeighborsRegionEdge(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"LLL", []string{"LLM", "LLK", "LL4"}},
		{"888", []string{"882", "887", "889"}},
		{"L", []string{"M", "K", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Neighbors(tt.code, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeighborsInvalid(t *testing.T) {
	_, err := Neighbors("XYZ", true)
	assert.ErrorIs(t, err, ErrInvalidCharacter)
}

func TestComputeDistanceMatrix(t *testing.T) {
	src := CodeSource(DefaultField, "39J438TJC7", "4FK-595-8823", "4T3-84L-L5L9", "39J-438-TJC7", "bad")

	m := ComputeDistanceMatrix(src, DefaultField, 0)
	assert.False(t, m.Truncated)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"39J-438-TJC7", "4FK-595-8823", "4T3-84L-L5L9"}, m.Codes())

	d, ok := m.Distance("39J438TJC7", "4FK5958823")
	require.True(t, ok)
	assert.InDelta(t, 1150, d, 10)

	back, ok := m.Distance("4FK-595-8823", "39J-438-TJC7")
	require.True(t, ok)
	assert.InDelta(t, d, back, 1e-6)

	_, ok = m.Distance("39J-438-TJC7", "39J-438-TJC7")
	assert.False(t, ok)

	dense := m.Dense()
	require.NotNil(t, dense)
	r, c := dense.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, dense.At(i, i))
		for j := 0; j < 3; j++ {
			assert.InDelta(t, dense.At(i, j), dense.At(j, i), 1e-6)
		}
	}
	assert.InDelta(t, d, dense.At(0, 1), 1e-9)
}

func TestComputeDistanceMatrixTruncates(t *testing.T) {
	src := CodeSource(DefaultField, "39J", "4FK", "bad", "4T3", "FCJ")

	m := ComputeDistanceMatrix(src, DefaultField, 2)
	assert.True(t, m.Truncated)
	assert.Equal(t, []string{"39J", "4FK"}, m.Codes())

	exact := ComputeDistanceMatrix(CodeSource(DefaultField, "39J", "4FK"), DefaultField, 2)
	assert.False(t, exact.Truncated)
}

func TestComputeDistanceMatrixEmpty(t *testing.T) {
	m := ComputeDistanceMatrix(SliceSource{}, DefaultField, 10)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Dense())
}
