package sources

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varietal/winerank/internal/domain"
	"github.com/varietal/winerank/internal/ports"
)

// RatingsQuery narrows the Postgres observation query to one slice of
// the ratings corpus, mirroring the filters the cleaned ratings
// relation supports.
type RatingsQuery struct {
	// Country limits results to wines from one country.
	Country string `yaml:"country" validate:"required"`

	// Grape limits results to one grape variety.
	Grape string `yaml:"grape" validate:"required"`

	// WineTypeID limits results to one wine type (red, white, ...).
	WineTypeID int `yaml:"wine_type_id" validate:"min=0"`

	// MinReviews excludes wines whose upstream review count is at or
	// below this value. This is a coarse pre-filter applied in SQL; the
	// ranking-side minimum-taster filter still applies afterward.
	MinReviews int `yaml:"min_reviews" validate:"min=0"`
}

var _ ports.ObservationSource = (*PostgresSource)(nil)

// PostgresSource loads observations from the cleaned ratings relation
// of a Postgres database via a pgx connection pool.
type PostgresSource struct {
	db    *pgxpool.Pool
	query RatingsQuery
}

// NewPostgresSource connects a pool to the given DSN, verifies the
// connection with a ping, and returns a source scoped to the query
// filters. Callers own the returned source and must Close it.
func NewPostgresSource(ctx context.Context, connStr string, query RatingsQuery) (*PostgresSource, error) {
	if err := validate.Struct(query); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return &PostgresSource{db: pool, query: query}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresSource) Close() { s.db.Close() }

// Load queries the full ratings snapshot matching the configured
// filters. NULL ratings map to the missing-score sentinel so the table
// construction filters them consistently with file sources.
func (s *PostgresSource) Load(ctx context.Context) ([]domain.Observation, error) {
	const ratingsSQL = `
		SELECT vintage_id, user_id, rating
		FROM cleaned_ratings
		WHERE country = $1 AND wine_grape_name = $2
		  AND wine_type_id = $3 AND rate_count > $4
	`

	rows, err := s.db.Query(ctx, ratingsSQL,
		s.query.Country, s.query.Grape, s.query.WineTypeID, s.query.MinReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ratings query: %w", err)
	}
	defer rows.Close()

	var observations []domain.Observation
	for rows.Next() {
		var (
			wineID   int64
			tasterID int64
			rating   *float64
		)
		if err := rows.Scan(&wineID, &tasterID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}

		score := math.NaN()
		if rating != nil {
			score = *rating
		}
		observations = append(observations, domain.Observation{
			WineID:   wineID,
			TasterID: tasterID,
			Score:    score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}

	slog.Info("loaded observations from postgres",
		"count", len(observations),
		"country", s.query.Country,
		"grape", s.query.Grape,
	)
	return observations, nil
}
