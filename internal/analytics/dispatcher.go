package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// benchmarkStatsMonths is the trailing window behind benchmark's
// min/mean/max monthly figures.
const benchmarkStatsMonths = 12

// DataSource serves billing rows for a declarative request. The
// warehouse implements it; tests use fakes.
type DataSource interface {
	Execute(ctx context.Context, req model.DataRequest) ([]model.BillingRecord, error)
}

// Config tunes the statistical routines.
type Config struct {
	AnomalyWindow    int
	AnomalyThreshold float64
}

// Engine maps a resolved intent to its data requests, runs them, and
// hands the rows to the matching routine.
type Engine struct {
	src DataSource
	cfg Config
	log *slog.Logger
}

// NewEngine creates the dispatcher. Zero config fields get the stock
// window of 6 months and threshold of 2 standard deviations.
func NewEngine(src DataSource, cfg Config, log *slog.Logger) *Engine {
	if cfg.AnomalyWindow <= 0 {
		cfg.AnomalyWindow = 6
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = 2.0
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{src: src, cfg: cfg, log: log}
}

// Run executes one intent. Data-layer failures surface as errors
// wrapping model.ErrDataUnavailable; thin data is an InsufficientData
// result, not an error.
func (e *Engine) Run(ctx context.Context, intent model.Intent) (model.AnalyticResult, error) {
	e.log.Debug("dispatching intent", "kind", intent.Kind)

	switch intent.Kind {
	case model.IntentTotalCost:
		rows, err := e.src.Execute(ctx, singleMonth(intent, intent.Period, model.DimensionNone))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return total(intent.Period, rows), nil

	case model.IntentByProject, model.IntentByService:
		rows, err := e.src.Execute(ctx, singleMonth(intent, intent.Period, intent.Dimension))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return breakdown(intent.Period, intent.Dimension, rows), nil

	case model.IntentComparePeriods:
		baseRows, compRows, err := e.fetchPair(ctx,
			singleMonth(intent, intent.Baseline, model.DimensionNone),
			singleMonth(intent, intent.Comparand, model.DimensionNone))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return compare(intent.Baseline, intent.Comparand, baseRows, compRows), nil

	case model.IntentTrend:
		rows, err := e.src.Execute(ctx, monthRange(intent, intent.Start, intent.End, model.DimensionNone))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return trend(rows), nil

	case model.IntentAnomaly:
		// Fetch the baseline window before the evaluated range too.
		req := monthRange(intent, intent.Start.Add(-e.cfg.AnomalyWindow), intent.End, model.DimensionNone)
		rows, err := e.src.Execute(ctx, req)
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return anomaly(intent.Start, intent.End, e.cfg.AnomalyWindow, e.cfg.AnomalyThreshold, rows), nil

	case model.IntentSeasonality:
		rows, err := e.src.Execute(ctx, monthRange(intent, intent.Start, intent.End, model.DimensionNone))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return seasonal(rows), nil

	case model.IntentForecast:
		rows, err := e.src.Execute(ctx, monthRange(intent, intent.Start, intent.End, model.DimensionNone))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return forecast(intent.Horizon, rows), nil

	case model.IntentOptimize:
		rows, err := e.src.Execute(ctx, monthRange(intent, intent.Start, intent.End, intent.Dimension))
		if err != nil {
			return model.AnalyticResult{}, err
		}
		return optimize(intent.Start, intent.End, intent.Dimension, intent.TopK, rows), nil

	case model.IntentBenchmark:
		return e.runBenchmark(ctx, intent)
	}

	return model.AnalyticResult{}, fmt.Errorf("analytics: no routine for intent %s", intent.Kind)
}

func (e *Engine) runBenchmark(ctx context.Context, intent model.Intent) (model.AnalyticResult, error) {
	var baseRows, compRows, trailingRows []model.BillingRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseRows, err = e.src.Execute(gctx, singleMonth(intent, intent.Baseline, intent.Dimension))
		return err
	})
	g.Go(func() error {
		var err error
		compRows, err = e.src.Execute(gctx, singleMonth(intent, intent.Comparand, intent.Dimension))
		return err
	})
	g.Go(func() error {
		var err error
		req := monthRange(intent, intent.Comparand.Add(-(benchmarkStatsMonths - 1)), intent.Comparand, model.DimensionNone)
		trailingRows, err = e.src.Execute(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.AnalyticResult{}, err
	}
	return benchmark(intent.Baseline, intent.Comparand, intent.Dimension, baseRows, compRows, trailingRows), nil
}

// fetchPair runs two requests concurrently; the first failure cancels
// the other.
func (e *Engine) fetchPair(ctx context.Context, a, b model.DataRequest) ([]model.BillingRecord, []model.BillingRecord, error) {
	var rowsA, rowsB []model.BillingRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rowsA, err = e.src.Execute(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		rowsB, err = e.src.Execute(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rowsA, rowsB, nil
}

// singleMonth and monthRange build requests carrying the intent's
// project/service filters, so "spend on storage" narrows every fetch.
func singleMonth(intent model.Intent, p model.Period, dim model.Dimension) model.DataRequest {
	return monthRange(intent, p, p, dim)
}

func monthRange(intent model.Intent, start, end model.Period, dim model.Dimension) model.DataRequest {
	return model.DataRequest{
		Start:    start,
		End:      end,
		GroupBy:  dim,
		Projects: intent.Projects,
		Services: intent.Services,
	}
}
