package colley

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// System is the assembled Colley linear system M*x = b. Rows and
// columns are indexed by the position of each wine ID in Wines, which
// is held in ascending order so identical inputs always assemble the
// identical system.
type System struct {
	// Wines maps row index to wine ID, ascending.
	Wines []int64

	// M is the symmetric positive definite coefficient matrix:
	// M[i][i] = totalPlayed(i) + 2, M[i][j] = -pairsPlayed(i, j).
	M *mat.SymDense

	// B is the right-hand side: b[i] = 1 + (wins(i) - losses(i)) / 2.
	B *mat.VecDense
}

// AssembleSystem builds the Colley system for the given wines and
// tallies. Wines must be sorted ascending and non-empty; callers handle
// the zero-wine case by short-circuiting to an empty ranking.
//
// The +2 on the diagonal and the +1 anchor in b are the Colley
// regularization: every wine starts with an implicit one-win, one-loss
// record against a nominal average opponent, which keeps the matrix
// positive definite even for wines with no comparisons at all. Such
// isolated wines get the row [2, 0, ..., 0] with b = 1 and resolve to
// the neutral rating 0.5.
//
// Tallies are integer counts and always finite, but any non-finite
// value that slips through is zeroed rather than poisoning the solve.
func AssembleSystem(wines []int64, tallies *Tallies) *System {
	n := len(wines)
	rowOf := make(map[int64]int, n)
	for i, wineID := range wines {
		rowOf[wineID] = i
	}

	m := mat.NewSymDense(n, nil)
	b := mat.NewVecDense(n, nil)

	for i, wineID := range wines {
		total := tallies.TotalPlayed[wineID]
		wins := tallies.Wins[wineID]
		losses := total - wins

		m.SetSym(i, i, finiteOrZero(float64(total)+2))
		b.SetVec(i, finiteOrZero(1+float64(wins-losses)/2))
	}

	for pair, played := range tallies.PairsPlayed {
		i, ok := rowOf[pair.Lo]
		if !ok {
			continue
		}
		j, ok := rowOf[pair.Hi]
		if !ok {
			continue
		}
		m.SetSym(i, j, finiteOrZero(-float64(played)))
	}

	return &System{Wines: wines, M: m, B: b}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
