// Package application composes the ranking pipeline: it loads and
// validates job configuration and orchestrates the stages from
// observation source to ranked output.
package application

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// JobConfig is the complete specification of one ranking run: where
// observations come from, the cleaning and filtering policies, and
// where results go.
type JobConfig struct {
	// Source selects and configures the observation source.
	Source SourceConfig `yaml:"source" validate:"required"`

	// Ranking configures cleaning and filtering policies.
	Ranking RankingConfig `yaml:"ranking"`

	// Output configures where the computed ranking is written.
	Output OutputConfig `yaml:"output" validate:"required"`
}

// SourceConfig selects the observation source for a run. Exactly one
// backend is active, chosen by Type.
type SourceConfig struct {
	// Type is the source backend: "csv" or "postgres".
	Type string `yaml:"type" validate:"required,oneof=csv postgres"`

	// Path is the ratings file for the csv backend.
	Path string `yaml:"path" validate:"required_if=Type csv"`

	// DSN is the connection string for the postgres backend. It may be
	// left empty in the file and supplied via environment instead, so
	// credentials stay out of committed configuration.
	DSN string `yaml:"dsn"`

	// Country, Grape, WineTypeID and MinReviews narrow the postgres
	// query to one slice of the ratings corpus.
	Country    string `yaml:"country" validate:"required_if=Type postgres"`
	Grape      string `yaml:"grape" validate:"required_if=Type postgres"`
	WineTypeID int    `yaml:"wine_type_id" validate:"min=0"`
	MinReviews int    `yaml:"min_reviews" validate:"min=0"`
}

// RankingConfig holds the cleaning and filtering policies applied
// around the core Colley computation.
type RankingConfig struct {
	// MinRatings is the minimum number of tasters a wine needs to
	// appear in the final ranking.
	MinRatings int `yaml:"min_ratings" validate:"min=0"`

	// DropSingleTasters removes tasters with fewer than two scores
	// before aggregation; they contribute no pairwise information.
	DropSingleTasters bool `yaml:"drop_single_tasters"`

	// MaxWines bounds the distinct wine count before the dense V x V
	// system is allocated. Zero disables the bound.
	MaxWines int `yaml:"max_wines" validate:"min=0"`
}

// OutputConfig configures the result destination.
type OutputConfig struct {
	// Path is the CSV file the ranking is written to. Must end in .csv.
	Path string `yaml:"path" validate:"required,endswith=.csv"`
}

// DefaultJobConfig returns a JobConfig with production-ready defaults.
// Callers overlay their file on top of these, so omitted fields keep
// sensible behavior: low-evidence wines are filtered, single-score
// tasters dropped, and the dense system bounded.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Ranking: RankingConfig{
			MinRatings:        2,
			DropSingleTasters: true,
			MaxWines:          10000,
		},
	}
}

// LoadJobConfig reads a YAML job configuration from path, overlays it
// on the defaults, and validates the result.
func LoadJobConfig(path string) (JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return JobConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultJobConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return JobConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return JobConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
