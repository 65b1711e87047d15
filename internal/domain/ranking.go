package domain

import "sort"

// RankedWine is one entry of a computed ranking: a wine, its solved
// Colley rating, and the number of tasters whose scores supported it.
type RankedWine struct {
	// WineID identifies the ranked wine.
	WineID int64 `json:"wine_id"`

	// Rating is the solved Colley rating. Isolated wines with no
	// pairwise comparisons resolve to the neutral baseline of 0.5.
	Rating float64 `json:"rating"`

	// NumRatings is the number of tasters who scored this wine,
	// attached so callers can judge how much evidence backs the rating.
	NumRatings int `json:"num_ratings"`
}

// SortRanking orders entries by rating descending, breaking ties by
// ascending wine ID so that identical inputs always produce identical
// output ordering.
func SortRanking(entries []RankedWine) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].WineID < entries[j].WineID
	})
}
