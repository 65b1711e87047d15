package colley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varietal/winerank/internal/domain"
	"github.com/varietal/winerank/internal/testutils"
)

func buildTable(t *testing.T, observations []domain.Observation) *domain.RatingTable {
	t.Helper()
	table, err := domain.NewRatingTable(observations, domain.TableConfig{})
	require.NoError(t, err)
	return table
}

// TestAggregatePairs_StrictPreference covers a single taster with a
// strict preference: one comparison, one game each, win to the
// higher-scored wine.
func TestAggregatePairs_StrictPreference(t *testing.T) {
	table := buildTable(t, []domain.Observation{
		{WineID: 1, TasterID: 1, Score: 5},
		{WineID: 2, TasterID: 1, Score: 3},
	})

	tallies := AggregatePairs(table)

	assert.Equal(t, 1, tallies.PairsPlayed[NewPairKey(1, 2)])
	assert.Equal(t, 1, tallies.TotalPlayed[1])
	assert.Equal(t, 1, tallies.TotalPlayed[2])
	assert.Equal(t, 1, tallies.Wins[1])
	assert.Equal(t, 0, tallies.Wins[2])
	assert.Equal(t, 1, tallies.Comparisons())
}

// TestAggregatePairs_Tie covers two tasters who each tie the same two
// wines: both wines are credited a win per tie, and the win/loss
// conservation identity holds for each wine.
func TestAggregatePairs_Tie(t *testing.T) {
	table := buildTable(t, []domain.Observation{
		{WineID: 1, TasterID: 1, Score: 4},
		{WineID: 2, TasterID: 1, Score: 4},
		{WineID: 1, TasterID: 2, Score: 3},
		{WineID: 2, TasterID: 2, Score: 3},
	})

	tallies := AggregatePairs(table)

	assert.Equal(t, 2, tallies.PairsPlayed[NewPairKey(1, 2)])
	assert.Equal(t, 2, tallies.TotalPlayed[1])
	assert.Equal(t, 2, tallies.TotalPlayed[2])
	assert.Equal(t, 2, tallies.Wins[1])
	assert.Equal(t, 2, tallies.Wins[2])
}

// TestAggregatePairs_AllCombinations verifies that a taster scoring K
// wines generates all C(K,2) unordered pairs with no self-pairs.
func TestAggregatePairs_AllCombinations(t *testing.T) {
	table := buildTable(t, []domain.Observation{
		{WineID: 1, TasterID: 7, Score: 5},
		{WineID: 2, TasterID: 7, Score: 4},
		{WineID: 3, TasterID: 7, Score: 3},
		{WineID: 4, TasterID: 7, Score: 2},
	})

	tallies := AggregatePairs(table)

	assert.Len(t, tallies.PairsPlayed, 6) // C(4,2)
	assert.Equal(t, 6, tallies.Comparisons())
	for wineID := int64(1); wineID <= 4; wineID++ {
		assert.Equal(t, 3, tallies.TotalPlayed[wineID], "each wine faces the other three")
	}
	// Strictly descending scores: wins equal the number of lower-scored wines.
	assert.Equal(t, 3, tallies.Wins[1])
	assert.Equal(t, 2, tallies.Wins[2])
	assert.Equal(t, 1, tallies.Wins[3])
	assert.Equal(t, 0, tallies.Wins[4])
}

// TestAggregatePairs_SingleScoreTasterContributesNothing verifies that
// tasters with fewer than two scores produce no tallies at all.
func TestAggregatePairs_SingleScoreTasterContributesNothing(t *testing.T) {
	table := buildTable(t, []domain.Observation{
		{WineID: 1, TasterID: 1, Score: 5},
		{WineID: 2, TasterID: 2, Score: 4},
		{WineID: 3, TasterID: 2, Score: 3},
	})

	tallies := AggregatePairs(table)

	assert.Equal(t, 1, tallies.Comparisons())
	assert.Zero(t, tallies.TotalPlayed[1])
	assert.Zero(t, tallies.Wins[1])
}

// TestAggregatePairs_Conservation checks the win/loss conservation
// identity over a generated dataset: for every wine,
// wins + losses == totalPlayed, with losses = totalPlayed - wins >= 0.
func TestAggregatePairs_Conservation(t *testing.T) {
	observations := testutils.GenerateObservations(40, 120, 0.15, 42)
	table := buildTable(t, observations)

	tallies := AggregatePairs(table)

	pairSum := make(map[int64]int)
	for pair, played := range tallies.PairsPlayed {
		require.Positive(t, played)
		pairSum[pair.Lo] += played
		pairSum[pair.Hi] += played
	}

	for _, wineID := range table.Wines() {
		total := tallies.TotalPlayed[wineID]
		wins := tallies.Wins[wineID]
		assert.GreaterOrEqual(t, total, wins, "wine %d cannot win more games than it played", wineID)
		assert.Equal(t, total, pairSum[wineID], "wine %d total must equal its summed pair counts", wineID)
	}
}
