package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/varietal/winerank/infrastructure/colley"
	"github.com/varietal/winerank/internal/domain"
	"github.com/varietal/winerank/internal/ports"
)

// RunReport summarizes one completed ranking run. It is the atomic
// output of Pipeline.Run: a run either produces a complete report with
// its full ranking, or an error with no partial state.
type RunReport struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Observations is the number of observations loaded from the source
	// before cleaning.
	Observations int `json:"observations"`

	// Retained is the number of observations surviving deduplication,
	// missing-score filtering, and taster dropping.
	Retained int `json:"retained"`

	// Tasters and Wines count the distinct tasters and wines retained.
	Tasters int `json:"tasters"`
	Wines   int `json:"wines"`

	// Comparisons is the total number of implied pairwise comparisons
	// aggregated across all tasters.
	Comparisons int `json:"comparisons"`

	// Ranking is the final sorted, filtered ranking.
	Ranking []domain.RankedWine `json:"ranking"`

	// Duration is the wall-clock time of the full run.
	Duration time.Duration `json:"duration"`
}

// Pipeline wires an observation source, the Colley ranking core, and a
// result sink into one batch computation. A Pipeline is immutable after
// construction and safe for sequential reuse; each Run is an
// independent full recompute from the source's current snapshot.
type Pipeline struct {
	source  ports.ObservationSource
	sink    ports.ResultSink
	ranker  *colley.Ranker
	table   domain.TableConfig
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewPipeline assembles a pipeline. The sink may be nil when the caller
// only wants the in-memory report; metrics may be nil to disable
// instrumentation.
func NewPipeline(
	source ports.ObservationSource,
	sink ports.ResultSink,
	cfg RankingConfig,
	metrics ports.MetricsCollector,
) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("observation source is required")
	}

	ranker, err := colley.NewRanker(colley.RankerConfig{MinRatings: cfg.MinRatings})
	if err != nil {
		return nil, fmt.Errorf("create ranker: %w", err)
	}

	return &Pipeline{
		source: source,
		sink:   sink,
		ranker: ranker,
		table: domain.TableConfig{
			DropSingleTasters: cfg.DropSingleTasters,
			MaxWines:          cfg.MaxWines,
		},
		metrics: metrics,
		tracer:  otel.Tracer("winerank/pipeline"),
	}, nil
}

// Run executes the full batch computation: load observations, build the
// rating table, aggregate pairwise tallies, assemble and solve the
// Colley system, and write the ranking to the sink. Each stage is
// traced and timed individually; any stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{RunID: uuid.NewString()}

	ctx, runSpan := p.tracer.Start(ctx, "winerank.Run",
		trace.WithAttributes(attribute.String("run.id", report.RunID)))
	defer runSpan.End()

	report, err := p.run(ctx, report)
	if err != nil {
		runSpan.SetStatus(codes.Error, err.Error())
		p.recordRun("error", nil, started)
		return nil, err
	}

	report.Duration = time.Since(started)
	runSpan.SetAttributes(
		attribute.Int("run.wines", report.Wines),
		attribute.Int("run.comparisons", report.Comparisons),
		attribute.Int("run.ranked", len(report.Ranking)),
	)
	runSpan.SetStatus(codes.Ok, "ranking completed")
	p.recordRun("success", report, started)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, report *RunReport) (*RunReport, error) {
	var observations []domain.Observation
	err := p.stage(ctx, "load_observations", func(ctx context.Context) error {
		var err error
		observations, err = p.source.Load(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	report.Observations = len(observations)

	var table *domain.RatingTable
	err = p.stage(ctx, "build_table", func(context.Context) error {
		var err error
		table, err = domain.NewRatingTable(observations, p.table)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build rating table: %w", err)
	}
	report.Retained = table.NumObservations()
	report.Tasters = table.NumTasters()
	report.Wines = table.NumWines()

	// A table with no wines ranks to an empty result; the matrix stages
	// are skipped because a zero-size system has nothing to solve.
	ranking := []domain.RankedWine{}
	if table.NumWines() > 0 {
		var tallies *colley.Tallies
		_ = p.stage(ctx, "aggregate_pairs", func(context.Context) error {
			tallies = colley.AggregatePairs(table)
			return nil
		})
		report.Comparisons = tallies.Comparisons()

		var sys *colley.System
		_ = p.stage(ctx, "assemble_system", func(context.Context) error {
			sys = colley.AssembleSystem(table.Wines(), tallies)
			return nil
		})

		err = p.stage(ctx, "solve", func(context.Context) error {
			ratings, err := colley.SolveRatings(sys)
			if err != nil {
				return err
			}
			ranking = colley.BuildRanking(sys, ratings, table, p.ranker.MinRatings())
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("solve rating system: %w", err)
		}
	}
	report.Ranking = ranking

	if p.sink != nil {
		err = p.stage(ctx, "write_results", func(ctx context.Context) error {
			return p.sink.Write(ctx, ranking)
		})
		if err != nil {
			return nil, fmt.Errorf("write results: %w", err)
		}
	}

	return report, nil
}

// stage runs fn inside a child span and records its latency.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "winerank."+name)
	defer span.End()

	started := time.Now()
	err := fn(ctx)

	if p.metrics != nil {
		p.metrics.RecordLatency(name, time.Since(started), map[string]string{"stage": name})
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (p *Pipeline) recordRun(status string, report *RunReport, started time.Time) {
	if p.metrics == nil {
		return
	}

	p.metrics.RecordCounter("winerank_runs_total", 1, map[string]string{"status": status})
	p.metrics.RecordLatency("run", time.Since(started), map[string]string{"stage": "run"})

	if report == nil {
		return
	}
	p.metrics.RecordGauge("observations", float64(report.Observations), nil)
	p.metrics.RecordGauge("tasters", float64(report.Tasters), nil)
	p.metrics.RecordGauge("wines", float64(report.Wines), nil)
	p.metrics.RecordGauge("comparisons", float64(report.Comparisons), nil)
	p.metrics.RecordGauge("ranked", float64(len(report.Ranking)), nil)
}
