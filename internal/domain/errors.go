package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced during table construction and ranking.
var (
	// ErrMalformedIdentifier indicates a wine or taster identifier that
	// could not be parsed as an integer. Integer identity is required for
	// stable matrix indexing, so sources must fail fast on this.
	ErrMalformedIdentifier = errors.New("malformed identifier: integer required")

	// ErrMalformedScore indicates a score value that could not be parsed
	// as a number. Blank values are the missing-score sentinel and are
	// not malformed.
	ErrMalformedScore = errors.New("malformed score: number required")
)

// TableSizeError reports a rating table whose distinct wine count
// exceeds the configured dense-matrix bound. The ranking system is
// O(wines^2) in memory, so oversized inputs are rejected up front
// instead of silently committing to the allocation.
type TableSizeError struct {
	// Wines is the number of distinct wines in the input.
	Wines int

	// Limit is the configured maximum.
	Limit int
}

// Error implements the error interface for TableSizeError.
func (e *TableSizeError) Error() string {
	return fmt.Sprintf("rating table has %d wines, exceeding the dense-matrix limit of %d", e.Wines, e.Limit)
}

// NumericalError reports a failure in the linear solve stage. Given the
// regularized system construction this indicates a data-integrity
// violation rather than an expected runtime condition, and it aborts
// the whole ranking run.
type NumericalError struct {
	// Stage names the solve step that failed, e.g. "factorize" or "solve".
	Stage string

	// Err is the underlying error, if the failure carried one.
	Err error
}

// Error implements the error interface for NumericalError.
func (e *NumericalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("numerical error during %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("numerical error during %s", e.Stage)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *NumericalError) Unwrap() error { return e.Err }
