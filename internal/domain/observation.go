// Package domain contains the core data model for pairwise wine ranking:
// observations, the deduplicated rating table, and ranked results.
package domain

import (
	"math"
	"sort"
)

// Observation records a single taster's score for a single wine.
// Identifiers are integers by contract; sources that read textual data
// must reject non-integer identifiers before constructing observations.
type Observation struct {
	// WineID identifies the wine (vintage) being scored.
	WineID int64 `json:"wine_id"`

	// TasterID identifies the taster (user) who produced the score.
	TasterID int64 `json:"taster_id"`

	// Score is the taster's numeric rating for the wine.
	// A NaN or non-positive value is the missing-score sentinel and is
	// filtered out during table construction.
	Score float64 `json:"score"`
}

// IsMissingScore reports whether a score value is the missing-value
// sentinel. Both NaN and non-positive scores count as missing, matching
// the upstream data convention where valid ratings are strictly positive.
func IsMissingScore(score float64) bool {
	return math.IsNaN(score) || score <= 0
}

// TableConfig controls the cleaning policies applied while building a
// RatingTable.
type TableConfig struct {
	// DropSingleTasters removes tasters with fewer than two retained
	// scores. Such tasters generate zero pairwise comparisons, so
	// dropping them changes memory use but never pairwise tallies.
	// Per-wine rating counts are computed after the drop.
	DropSingleTasters bool `yaml:"drop_single_tasters"`

	// MaxWines bounds the number of distinct wines the table may hold.
	// The ranking system is a dense V x V matrix, so V must be bounded
	// before construction commits to O(V^2) memory. Zero means no bound.
	MaxWines int `yaml:"max_wines" validate:"min=0"`
}

// RatingTable is a validated, deduplicated wine x taster score table.
// It is built once from a batch of observations and immutable afterward;
// concurrent readers need no synchronization.
type RatingTable struct {
	// byTaster maps taster ID to that taster's retained scores by wine ID.
	byTaster map[int64]map[int64]float64

	// ratingCounts maps wine ID to the number of tasters who scored it
	// with a valid (non-missing) score.
	ratingCounts map[int64]int

	// wines holds all distinct wine IDs in ascending order. This is the
	// canonical row ordering for the ranking linear system.
	wines []int64

	observations int
}

// NewRatingTable builds a RatingTable from a batch of observations.
//
// Cleaning policies, applied in order:
//  1. Duplicate (wine, taster) pairs are collapsed keep-first; a later
//     duplicate never overrides an earlier score. Duplicates would
//     otherwise double-count a taster's comparisons.
//  2. Observations whose score is the missing sentinel (NaN or <= 0)
//     are discarded.
//  3. When cfg.DropSingleTasters is set, tasters left with fewer than
//     two scores are discarded entirely.
//
// An empty input is not an error: it yields an empty table, which ranks
// to an empty result downstream. Exceeding cfg.MaxWines returns a
// TableSizeError.
func NewRatingTable(observations []Observation, cfg TableConfig) (*RatingTable, error) {
	seen := make(map[[2]int64]struct{}, len(observations))
	byTaster := make(map[int64]map[int64]float64)

	retained := 0
	for _, obs := range observations {
		key := [2]int64{obs.WineID, obs.TasterID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if IsMissingScore(obs.Score) {
			continue
		}

		scores := byTaster[obs.TasterID]
		if scores == nil {
			scores = make(map[int64]float64)
			byTaster[obs.TasterID] = scores
		}
		scores[obs.WineID] = obs.Score
		retained++
	}

	if cfg.DropSingleTasters {
		for tasterID, scores := range byTaster {
			if len(scores) < 2 {
				retained -= len(scores)
				delete(byTaster, tasterID)
			}
		}
	}

	ratingCounts := make(map[int64]int)
	for _, scores := range byTaster {
		for wineID := range scores {
			ratingCounts[wineID]++
		}
	}

	wines := make([]int64, 0, len(ratingCounts))
	for wineID := range ratingCounts {
		wines = append(wines, wineID)
	}
	sort.Slice(wines, func(i, j int) bool { return wines[i] < wines[j] })

	if cfg.MaxWines > 0 && len(wines) > cfg.MaxWines {
		return nil, &TableSizeError{Wines: len(wines), Limit: cfg.MaxWines}
	}

	return &RatingTable{
		byTaster:     byTaster,
		ratingCounts: ratingCounts,
		wines:        wines,
		observations: retained,
	}, nil
}

// Wines returns all distinct wine IDs in ascending order.
// The returned slice is a copy; callers may modify it freely.
func (t *RatingTable) Wines() []int64 {
	wines := make([]int64, len(t.wines))
	copy(wines, t.wines)
	return wines
}

// NumWines returns the number of distinct wines in the table.
func (t *RatingTable) NumWines() int { return len(t.wines) }

// NumTasters returns the number of tasters retained after cleaning.
func (t *RatingTable) NumTasters() int { return len(t.byTaster) }

// NumObservations returns the number of scores retained after cleaning.
func (t *RatingTable) NumObservations() int { return t.observations }

// RatingCount returns how many tasters scored the given wine.
// It returns zero for wines not present in the table.
func (t *RatingTable) RatingCount(wineID int64) int {
	return t.ratingCounts[wineID]
}

// EachTaster invokes fn once per retained taster, in ascending taster-ID
// order, with that taster's wine scores. The scores map is shared table
// state and must not be mutated by fn.
func (t *RatingTable) EachTaster(fn func(tasterID int64, scores map[int64]float64)) {
	tasters := make([]int64, 0, len(t.byTaster))
	for tasterID := range t.byTaster {
		tasters = append(tasters, tasterID)
	}
	sort.Slice(tasters, func(i, j int) bool { return tasters[i] < tasters[j] })

	for _, tasterID := range tasters {
		fn(tasterID, t.byTaster[tasterID])
	}
}
