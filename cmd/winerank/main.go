// Command winerank runs one batch ranking job: it loads a ratings
// snapshot from the configured source, computes the Colley ranking, and
// writes the result CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/varietal/winerank/infrastructure/middleware"
	"github.com/varietal/winerank/infrastructure/sources"
	"github.com/varietal/winerank/internal/application"
	"github.com/varietal/winerank/internal/ports"
)

const dsnEnv = "WINERANK_POSTGRES_DSN"

func main() {
	var (
		configPath  = flag.String("config", "winerank.yaml", "Path to the job configuration file")
		minRatings  = flag.Int("min-ratings", -1, "Override the configured minimum ratings per wine (-1 keeps the config value)")
		metricsAddr = flag.String("metrics-addr", "", "Optional address to serve Prometheus metrics on during the run")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// A local .env is a convenience for development credentials; its
	// absence is not an error.
	_ = godotenv.Load()

	if err := run(context.Background(), *configPath, *minRatings, *metricsAddr); err != nil {
		slog.Error("ranking run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, minRatings int, metricsAddr string) error {
	cfg, err := application.LoadJobConfig(configPath)
	if err != nil {
		return err
	}
	if minRatings >= 0 {
		cfg.Ranking.MinRatings = minRatings
	}

	source, closeSource, err := buildSource(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	sink, err := sources.NewCSVSink(cfg.Output.Path)
	if err != nil {
		return err
	}

	var metrics ports.MetricsCollector
	if metricsAddr != "" {
		metrics = middleware.NewPrometheusMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	pipeline, err := application.NewPipeline(source, sink, cfg.Ranking, metrics)
	if err != nil {
		return err
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("ranking completed",
		"run_id", report.RunID,
		"observations", report.Observations,
		"retained", report.Retained,
		"tasters", report.Tasters,
		"wines", report.Wines,
		"comparisons", report.Comparisons,
		"ranked", len(report.Ranking),
		"duration", report.Duration,
		"output", cfg.Output.Path,
	)
	return nil
}

func buildSource(ctx context.Context, cfg application.SourceConfig) (ports.ObservationSource, func(), error) {
	switch cfg.Type {
	case "csv":
		return sources.NewCSVSource(cfg.Path), func() {}, nil

	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = os.Getenv(dsnEnv)
		}
		if dsn == "" {
			return nil, nil, fmt.Errorf("postgres source requires a DSN in the config or %s", dsnEnv)
		}

		source, err := sources.NewPostgresSource(ctx, dsn, sources.RatingsQuery{
			Country:    cfg.Country,
			Grape:      cfg.Grape,
			WineTypeID: cfg.WineTypeID,
			MinReviews: cfg.MinReviews,
		})
		if err != nil {
			return nil, nil, err
		}
		return source, source.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}
