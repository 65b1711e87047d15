// Package colley implements the pairwise-comparison rating method used
// to rank wines from tasters' independent scores. Each taster's scores
// imply head-to-head outcomes between every pair of wines that taster
// scored; the package aggregates those outcomes and solves the Colley
// linear system for a global rating per wine.
package colley

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Errors returned while building or solving the rating system.
var (
	// ErrNotPositiveDefinite is returned when Cholesky factorization of
	// the coefficient matrix fails. The Colley construction guarantees a
	// symmetric positive definite matrix, so this indicates corrupted
	// pairwise tallies rather than an expected numerical condition.
	ErrNotPositiveDefinite = errors.New("coefficient matrix is not positive definite")

	// ErrNonFiniteRating is returned when the solved rating vector
	// contains NaN or infinite entries.
	ErrNonFiniteRating = errors.New("solved ratings contain non-finite values")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()
