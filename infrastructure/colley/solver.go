package colley

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/varietal/winerank/internal/domain"
)

// RankerConfig defines the configuration parameters for a Ranker.
type RankerConfig struct {
	// MinRatings is the minimum number of tasters a wine needs before it
	// appears in the ranking. Wines below the threshold are still part
	// of the linear system (their comparisons inform other ratings) but
	// are filtered from the result. Zero keeps every wine.
	MinRatings int `yaml:"min_ratings" validate:"min=0"`
}

// Ranker solves the Colley system for a rating table and produces the
// final filtered, descending-sorted ranking. It is stateless apart from
// its immutable configuration and safe for concurrent use.
type Ranker struct {
	cfg RankerConfig
}

// NewRanker creates a Ranker with the given configuration.
func NewRanker(cfg RankerConfig) (*Ranker, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Ranker{cfg: cfg}, nil
}

// MinRatings returns the configured minimum-taster threshold.
func (r *Ranker) MinRatings() int { return r.cfg.MinRatings }

// Rank computes the full ranking for a rating table: aggregate pairwise
// tallies, assemble the Colley system, solve it, attach per-wine rating
// counts, filter by the minimum-ratings threshold, and sort by rating
// descending with ascending wine ID as the tie break.
//
// The run is atomic: either the complete ranking is returned or an
// error, never a partial result. An empty table, or a filter that
// removes every wine, yields an empty ranking rather than an error.
func (r *Ranker) Rank(table *domain.RatingTable) ([]domain.RankedWine, error) {
	if table.NumWines() == 0 {
		return []domain.RankedWine{}, nil
	}

	tallies := AggregatePairs(table)
	sys := AssembleSystem(table.Wines(), tallies)

	ratings, err := SolveRatings(sys)
	if err != nil {
		return nil, err
	}

	return BuildRanking(sys, ratings, table, r.cfg.MinRatings), nil
}

// SolveRatings solves the assembled system for the rating vector using
// Cholesky factorization. The Colley construction guarantees a
// symmetric positive definite matrix, so factorization failure or a
// non-finite solution indicates corrupted tallies and is surfaced as a
// fatal NumericalError, never suppressed.
func SolveRatings(sys *System) (*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(sys.M); !ok {
		return nil, &domain.NumericalError{Stage: "factorize", Err: ErrNotPositiveDefinite}
	}

	var x mat.VecDense
	if err := chol.SolveVecTo(&x, sys.B); err != nil {
		return nil, &domain.NumericalError{Stage: "solve", Err: err}
	}

	for i := 0; i < x.Len(); i++ {
		if v := x.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &domain.NumericalError{Stage: "solve", Err: ErrNonFiniteRating}
		}
	}

	return &x, nil
}

// BuildRanking maps the solved rating vector back to wine IDs, attaches
// the per-wine taster counts from the table, drops wines with fewer
// than minRatings tasters, and returns the entries sorted by rating
// descending (ascending wine ID on ties).
func BuildRanking(sys *System, ratings *mat.VecDense, table *domain.RatingTable, minRatings int) []domain.RankedWine {
	ranking := make([]domain.RankedWine, 0, len(sys.Wines))
	for i, wineID := range sys.Wines {
		numRatings := table.RatingCount(wineID)
		if numRatings < minRatings {
			continue
		}
		ranking = append(ranking, domain.RankedWine{
			WineID:     wineID,
			Rating:     ratings.AtVec(i),
			NumRatings: numRatings,
		})
	}

	domain.SortRanking(ranking)
	return ranking
}
