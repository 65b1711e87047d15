package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRatingTable_Cleaning verifies the cleaning policies applied
// during table construction: keep-first deduplication, missing-score
// filtering, and optional dropping of single-score tasters.
func TestNewRatingTable_Cleaning(t *testing.T) {
	tests := []struct {
		name             string
		observations     []Observation
		cfg              TableConfig
		expectedWines    []int64
		expectedTasters  int
		expectedRetained int
	}{
		{
			name:          "empty input yields empty table",
			observations:  nil,
			expectedWines: []int64{},
		},
		{
			name: "duplicate wine-taster pairs collapse keep-first",
			observations: []Observation{
				{WineID: 10, TasterID: 1, Score: 4.0},
				{WineID: 10, TasterID: 1, Score: 1.0}, // later duplicate, ignored
				{WineID: 20, TasterID: 1, Score: 3.0},
			},
			expectedWines:    []int64{10, 20},
			expectedTasters:  1,
			expectedRetained: 2,
		},
		{
			name: "missing scores are filtered",
			observations: []Observation{
				{WineID: 10, TasterID: 1, Score: 4.0},
				{WineID: 20, TasterID: 1, Score: math.NaN()},
				{WineID: 30, TasterID: 1, Score: 0},
				{WineID: 40, TasterID: 1, Score: -1},
				{WineID: 50, TasterID: 1, Score: 2.5},
			},
			expectedWines:    []int64{10, 50},
			expectedTasters:  1,
			expectedRetained: 2,
		},
		{
			name: "single-score tasters dropped when configured",
			observations: []Observation{
				{WineID: 10, TasterID: 1, Score: 4.0},
				{WineID: 20, TasterID: 1, Score: 3.0},
				{WineID: 30, TasterID: 2, Score: 5.0}, // taster 2 has one score
			},
			cfg:              TableConfig{DropSingleTasters: true},
			expectedWines:    []int64{10, 20},
			expectedTasters:  1,
			expectedRetained: 2,
		},
		{
			name: "single-score tasters kept by default",
			observations: []Observation{
				{WineID: 10, TasterID: 1, Score: 4.0},
				{WineID: 20, TasterID: 1, Score: 3.0},
				{WineID: 30, TasterID: 2, Score: 5.0},
			},
			expectedWines:    []int64{10, 20, 30},
			expectedTasters:  2,
			expectedRetained: 3,
		},
		{
			name: "wines are sorted ascending regardless of input order",
			observations: []Observation{
				{WineID: 300, TasterID: 1, Score: 4.0},
				{WineID: 100, TasterID: 1, Score: 3.0},
				{WineID: 200, TasterID: 1, Score: 5.0},
			},
			expectedWines:    []int64{100, 200, 300},
			expectedTasters:  1,
			expectedRetained: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewRatingTable(tt.observations, tt.cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedWines, table.Wines())
			assert.Equal(t, len(tt.expectedWines), table.NumWines())
			assert.Equal(t, tt.expectedTasters, table.NumTasters())
			assert.Equal(t, tt.expectedRetained, table.NumObservations())
		})
	}
}

// TestNewRatingTable_RatingCounts verifies per-wine taster counts,
// including that counts reflect post-cleaning state.
func TestNewRatingTable_RatingCounts(t *testing.T) {
	observations := []Observation{
		{WineID: 10, TasterID: 1, Score: 4.0},
		{WineID: 10, TasterID: 2, Score: 3.5},
		{WineID: 10, TasterID: 2, Score: 5.0}, // duplicate, not counted twice
		{WineID: 20, TasterID: 1, Score: 3.0},
		{WineID: 20, TasterID: 3, Score: math.NaN()}, // missing, not counted
	}

	table, err := NewRatingTable(observations, TableConfig{})
	require.NoError(t, err)

	assert.Equal(t, 2, table.RatingCount(10))
	assert.Equal(t, 1, table.RatingCount(20))
	assert.Equal(t, 0, table.RatingCount(999))
}

// TestNewRatingTable_MaxWines verifies the dense-matrix size bound.
func TestNewRatingTable_MaxWines(t *testing.T) {
	observations := []Observation{
		{WineID: 10, TasterID: 1, Score: 4.0},
		{WineID: 20, TasterID: 1, Score: 3.0},
		{WineID: 30, TasterID: 1, Score: 2.0},
	}

	_, err := NewRatingTable(observations, TableConfig{MaxWines: 2})
	require.Error(t, err)

	var sizeErr *TableSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 3, sizeErr.Wines)
	assert.Equal(t, 2, sizeErr.Limit)

	// At the limit exactly, construction succeeds.
	_, err = NewRatingTable(observations[:2], TableConfig{MaxWines: 2})
	assert.NoError(t, err)
}

// TestRatingTable_EachTaster verifies deterministic taster iteration
// order and that a later duplicate never overrides the first score.
func TestRatingTable_EachTaster(t *testing.T) {
	observations := []Observation{
		{WineID: 10, TasterID: 3, Score: 4.0},
		{WineID: 20, TasterID: 3, Score: 3.0},
		{WineID: 10, TasterID: 1, Score: 2.0},
		{WineID: 20, TasterID: 1, Score: 5.0},
		{WineID: 10, TasterID: 1, Score: 5.0}, // duplicate
	}

	table, err := NewRatingTable(observations, TableConfig{})
	require.NoError(t, err)

	var order []int64
	table.EachTaster(func(tasterID int64, scores map[int64]float64) {
		order = append(order, tasterID)
		if tasterID == 1 {
			assert.Equal(t, 2.0, scores[10], "keep-first must preserve the original score")
		}
	})
	assert.Equal(t, []int64{1, 3}, order)
}

func TestIsMissingScore(t *testing.T) {
	assert.True(t, IsMissingScore(math.NaN()))
	assert.True(t, IsMissingScore(0))
	assert.True(t, IsMissingScore(-2.5))
	assert.False(t, IsMissingScore(0.5))
	assert.False(t, IsMissingScore(5))
}
