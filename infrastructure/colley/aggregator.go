package colley

import (
	"sort"

	"github.com/varietal/winerank/internal/domain"
)

// PairKey identifies an unordered pair of wines. Lo is always the
// smaller wine ID, so {a,b} and {b,a} map to the same key.
type PairKey struct {
	Lo int64
	Hi int64
}

// NewPairKey builds the canonical key for an unordered wine pair.
func NewPairKey(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Tallies holds the accumulated pairwise statistics for a rating table:
// per wine, the number of implied head-to-head games played and won, and
// per unordered wine pair, the number of tasters who scored both.
//
// The identity wins + losses == totalPlayed holds for every wine, where
// losses = totalPlayed - wins. A tie counts as one game per wine, won by
// both sides, so the identity survives ties as well.
type Tallies struct {
	// TotalPlayed maps wine ID to the total number of implied
	// head-to-head games that wine took part in.
	TotalPlayed map[int64]int

	// Wins maps wine ID to the number of games won outright or tied.
	Wins map[int64]int

	// PairsPlayed maps each unordered wine pair to the number of tasters
	// who scored both wines in the pair.
	PairsPlayed map[PairKey]int
}

// Comparisons returns the total number of pairwise comparisons
// accumulated across all tasters.
func (t *Tallies) Comparisons() int {
	total := 0
	for _, n := range t.PairsPlayed {
		total += n
	}
	return total
}

// AggregatePairs converts each taster's scores into implied pairwise
// outcomes and accumulates them into global tallies.
//
// For each taster, every unordered pair drawn from that taster's scored
// wines counts one comparison: both wines' TotalPlayed increments and
// the pair's PairsPlayed increments. The higher-scored wine takes the
// win; on a tie both wines take a win, each crediting its own game.
// Tasters with fewer than two scored wines contribute nothing.
//
// Cost scales with C(K,2) per taster who scored K wines. A single
// taster with thousands of scores dominates the run, so callers with
// prolific tasters should bound per-taster score counts upstream.
func AggregatePairs(table *domain.RatingTable) *Tallies {
	tallies := &Tallies{
		TotalPlayed: make(map[int64]int, table.NumWines()),
		Wins:        make(map[int64]int, table.NumWines()),
		PairsPlayed: make(map[PairKey]int),
	}

	table.EachTaster(func(_ int64, scores map[int64]float64) {
		if len(scores) < 2 {
			return
		}

		wines := sortedWineIDs(scores)
		for i := 0; i < len(wines); i++ {
			for j := i + 1; j < len(wines); j++ {
				a, b := wines[i], wines[j]
				tallies.PairsPlayed[NewPairKey(a, b)]++
				tallies.TotalPlayed[a]++
				tallies.TotalPlayed[b]++

				switch {
				case scores[a] == scores[b]:
					tallies.Wins[a]++
					tallies.Wins[b]++
				case scores[a] > scores[b]:
					tallies.Wins[a]++
				default:
					tallies.Wins[b]++
				}
			}
		}
	})

	return tallies
}

func sortedWineIDs(scores map[int64]float64) []int64 {
	wines := make([]int64, 0, len(scores))
	for wineID := range scores {
		wines = append(wines, wineID)
	}
	// Sorted enumeration keeps the pair walk deterministic; the tallies
	// themselves are order-independent sums.
	sort.Slice(wines, func(i, j int) bool { return wines[i] < wines[j] })
	return wines
}
