package resolve

import (
	"sort"
	"strings"
	"time"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/nlu"
	"github.com/kirill-demidov/gcp-cost-agent/internal/session"
)

// Default window lengths, in months, when the question names no range.
const (
	defaultTrendMonths    = 12
	defaultSeasonalMonths = 36
	defaultOptimizeMonths = 3
)

// Resolver turns an entity bag plus session context into a fully
// parameterized intent.
type Resolver struct {
	DefaultTopK    int
	DefaultHorizon int
}

// NewResolver creates a resolver with the configured defaults; zero
// values fall back to topK=5 and horizon=1.
func NewResolver(topK, horizon int) *Resolver {
	if topK <= 0 {
		topK = 5
	}
	if horizon <= 0 {
		horizon = 1
	}
	return &Resolver{DefaultTopK: topK, DefaultHorizon: horizon}
}

// Resolve produces the intent for one turn. receivedAt is the turn's
// single reference time; every relative period resolves against it.
// prior may be nil (no live session context). The session is never
// mutated here.
func (r *Resolver) Resolve(bag nlu.EntityBag, prior *session.Context, receivedAt time.Time) (model.Intent, error) {
	ref := model.PeriodOf(receivedAt)
	lang := bag.Language

	kind := bag.IntentSignal
	dimText := bag.DimensionText

	// Follow-up continuity: a turn that names only a new period reuses
	// the previous turn's intent and dimension.
	if kind == model.IntentUnknown {
		if prior != nil && prior.LastIntent != model.IntentUnknown && len(bag.PeriodTexts) > 0 {
			kind = prior.LastIntent
		} else {
			return model.Intent{}, ErrUnrecognizedIntent
		}
	}

	periods := make([]model.Period, 0, len(bag.PeriodTexts))
	for _, text := range bag.PeriodTexts {
		p, err := NormalizePeriod(text, lang, ref)
		if err != nil {
			return model.Intent{}, err
		}
		periods = append(periods, p)
	}

	dim, err := NormalizeDimension(dimText, lang)
	if err != nil {
		return model.Intent{}, err
	}

	intent := model.Intent{
		Kind:     kind,
		Language: lang,
		Services: NormalizeServices(bag.ServiceTexts, lang),
		Projects: trimAll(bag.ProjectTexts),
	}

	switch kind {
	case model.IntentTotalCost, model.IntentByProject, model.IntentByService:
		intent.Period = r.singlePeriod(periods, prior, ref)
		switch kind {
		case model.IntentByProject:
			intent.Dimension = model.DimensionProject
		case model.IntentByService:
			intent.Dimension = model.DimensionService
		}

	case model.IntentComparePeriods:
		base, comp, err := r.periodPair(periods, prior)
		if err != nil {
			return model.Intent{}, err
		}
		intent.Baseline, intent.Comparand = base, comp

	case model.IntentTrend, model.IntentAnomaly, model.IntentForecast:
		intent.Start, intent.End = r.periodRange(periods, prior, ref, defaultTrendMonths)
		if kind == model.IntentForecast {
			intent.Horizon = orDefault(bag.Horizon, r.DefaultHorizon)
		}

	case model.IntentSeasonality:
		intent.Start, intent.End = r.periodRange(periods, prior, ref, defaultSeasonalMonths)

	case model.IntentOptimize:
		intent.Start, intent.End = r.periodRange(periods, prior, ref, defaultOptimizeMonths)
		intent.Dimension = r.dimensionOr(dim, prior, model.DimensionService)
		intent.TopK = orDefault(bag.TopK, r.DefaultTopK)

	case model.IntentBenchmark:
		base, comp, err := r.periodPair(periods, prior)
		if err != nil {
			return model.Intent{}, err
		}
		intent.Baseline, intent.Comparand = base, comp
		intent.Dimension = r.dimensionOr(dim, prior, model.DimensionService)

	default:
		return model.Intent{}, ErrUnrecognizedIntent
	}

	return intent, nil
}

// singlePeriod picks the period for single-month intents: question,
// then session, then the month before receipt.
func (r *Resolver) singlePeriod(periods []model.Period, prior *session.Context, ref model.Period) model.Period {
	if len(periods) > 0 {
		return periods[0]
	}
	if prior != nil && prior.LastPeriod != nil {
		return *prior.LastPeriod
	}
	return ref.Add(-1)
}

// periodPair picks baseline and comparand for two-period intents.
// A missing second period comes from the session. Ordering is
// chronological regardless of mention order; the earlier period is the
// baseline.
func (r *Resolver) periodPair(periods []model.Period, prior *session.Context) (model.Period, model.Period, error) {
	pair := periods
	if len(pair) > 2 {
		pair = pair[:2]
	}
	if len(pair) < 2 && prior != nil && prior.LastPeriod != nil {
		pair = append(pair, *prior.LastPeriod)
	}
	if len(pair) < 2 {
		return model.Period{}, model.Period{}, &MissingParameterError{Name: "period"}
	}
	sorted := []model.Period{pair[0], pair[1]}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return sorted[0], sorted[1], nil
}

// periodRange picks the range for windowed intents: an explicit pair,
// a single named month widened backwards, the session range, or the
// trailing default window ending the month before receipt.
func (r *Resolver) periodRange(periods []model.Period, prior *session.Context, ref model.Period, months int) (model.Period, model.Period) {
	switch {
	case len(periods) >= 2:
		start, end := periods[0], periods[1]
		if end.Before(start) {
			start, end = end, start
		}
		return start, end
	case len(periods) == 1:
		end := periods[0]
		return end.Add(-(months - 1)), end
	case prior != nil && prior.LastPeriod != nil && prior.LastPeriodEnd != nil:
		return *prior.LastPeriod, *prior.LastPeriodEnd
	}
	end := ref.Add(-1)
	return end.Add(-(months - 1)), end
}

func (r *Resolver) dimensionOr(dim model.Dimension, prior *session.Context, fallback model.Dimension) model.Dimension {
	if dim != model.DimensionNone {
		return dim
	}
	if prior != nil && prior.LastDimension != model.DimensionNone {
		return prior.LastDimension
	}
	return fallback
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
