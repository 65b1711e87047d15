// Package sources provides the observation sources and result sinks the
// ranking pipeline composes with: delimited files and Postgres.
package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/varietal/winerank/internal/domain"
	"github.com/varietal/winerank/internal/ports"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Expected CSV column names, matching the upstream ratings export.
const (
	colWineID   = "vintage_id"
	colTasterID = "user_id"
	colRating   = "rating"
)

var _ ports.ObservationSource = (*CSVSource)(nil)

// CSVSource reads observations from a delimited file with a header row
// containing the vintage_id, user_id and rating columns, in any order.
// Extra columns are ignored.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads and parses the full file. Identifiers that do not parse as
// integers fail the load immediately; a blank rating cell passes
// through as the missing-score sentinel (NaN) for the table to filter,
// while a non-numeric rating is an error.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Observation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header from %s: %w", s.path, err)
	}

	wineIdx, tasterIdx, ratingIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colWineID:
			wineIdx = i
		case colTasterID:
			tasterIdx = i
		case colRating:
			ratingIdx = i
		}
	}
	if wineIdx < 0 || tasterIdx < 0 || ratingIdx < 0 {
		return nil, fmt.Errorf("ratings file %s is missing one of the %s, %s, %s columns",
			s.path, colWineID, colTasterID, colRating)
	}

	var observations []domain.Observation
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s line %d: %w", s.path, line+1, err)
		}
		line++

		obs, err := parseObservation(record, wineIdx, tasterIdx, ratingIdx)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

func parseObservation(record []string, wineIdx, tasterIdx, ratingIdx int) (domain.Observation, error) {
	wineID, err := strconv.ParseInt(strings.TrimSpace(record[wineIdx]), 10, 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("%w: %s=%q", domain.ErrMalformedIdentifier, colWineID, record[wineIdx])
	}

	tasterID, err := strconv.ParseInt(strings.TrimSpace(record[tasterIdx]), 10, 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("%w: %s=%q", domain.ErrMalformedIdentifier, colTasterID, record[tasterIdx])
	}

	rawRating := strings.TrimSpace(record[ratingIdx])
	rating := math.NaN()
	if rawRating != "" {
		rating, err = strconv.ParseFloat(rawRating, 64)
		if err != nil {
			return domain.Observation{}, fmt.Errorf("%w: %s=%q", domain.ErrMalformedScore, colRating, rawRating)
		}
	}

	return domain.Observation{WineID: wineID, TasterID: tasterID, Score: rating}, nil
}
