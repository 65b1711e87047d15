// Package testutils provides deterministic synthetic ratings data for
// tests, benchmarks, and the dataset generator command.
package testutils

import (
	"context"
	"math/rand"

	"github.com/varietal/winerank/internal/domain"
)

// GenerateObservations produces a synthetic ratings snapshot with the
// given number of wines and tasters. Each taster scores each wine with
// probability density, on the familiar 1.0-5.0 half-point scale. The
// same seed always produces the identical observation sequence, so
// generated fixtures are reproducible across runs and machines.
func GenerateObservations(numWines, numTasters int, density float64, seed int64) []domain.Observation {
	rng := rand.New(rand.NewSource(seed))

	var observations []domain.Observation
	for taster := 0; taster < numTasters; taster++ {
		for wine := 0; wine < numWines; wine++ {
			if rng.Float64() >= density {
				continue
			}
			observations = append(observations, domain.Observation{
				WineID:   int64(wine + 1),
				TasterID: int64(taster + 1),
				// Half-point scale from 1.0 through 5.0.
				Score: 1.0 + 0.5*float64(rng.Intn(9)),
			})
		}
	}
	return observations
}

// InMemorySource is an ObservationSource over a fixed slice, for tests
// and examples.
type InMemorySource struct {
	Observations []domain.Observation
	Err          error
}

// Load returns the fixed observations, or the configured error.
func (s *InMemorySource) Load(_ context.Context) ([]domain.Observation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Observations, nil
}

// CaptureSink records the ranking it is handed, for tests.
type CaptureSink struct {
	Ranking []domain.RankedWine
	Writes  int
	Err     error
}

// Write captures the ranking, or returns the configured error.
func (s *CaptureSink) Write(_ context.Context, ranking []domain.RankedWine) error {
	if s.Err != nil {
		return s.Err
	}
	s.Ranking = ranking
	s.Writes++
	return nil
}
