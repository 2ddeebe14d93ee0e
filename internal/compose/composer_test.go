package compose

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/resolve"
)

var (
	july   = model.Period{Year: 2025, Month: time.July}
	august = model.Period{Year: 2025, Month: time.August}
)

// every result variant, rendered in both languages, must be non-empty.
func TestEveryVariantNonEmptyBothLanguages(t *testing.T) {
	pt := model.TrendPoint{Period: august, Cost: model.MustMoney("150"), Delta: model.MustMoney("50")}
	results := map[string]model.AnalyticResult{
		"total": {Total: &model.TotalResult{Period: july, Cost: model.MustMoney("100"), Currency: "USD"}},
		"breakdown": {Breakdown: &model.BreakdownResult{
			Period: july, Dimension: model.DimensionService, Currency: "USD",
			Items: []model.BreakdownItem{{Name: "compute", Cost: model.MustMoney("80"), Share: 80}},
			Total: model.MustMoney("100"),
		}},
		"comparison": {Comparison: &model.ComparisonResult{
			Baseline: july, Comparand: august,
			BaselineCost: model.MustMoney("100"), ComparandCost: model.MustMoney("150"),
			Delta: model.MustMoney("50"), Percent: 50, PercentDefined: true, Currency: "USD",
		}},
		"trend": {Trend: &model.TrendResult{
			Points: []model.TrendPoint{{Period: july, Cost: model.MustMoney("100")}, pt},
			Slope:  50, Direction: "rising", Peak: august, PeakCost: model.MustMoney("150"),
			LargestRise: &pt, Currency: "USD",
		}},
		"anomalies": {Anomalies: &model.AnomalyResult{
			Start: july, End: august, Window: 6, Threshold: 2, Evaluated: 2, Currency: "USD",
			Anomalies: []model.Anomaly{{Period: august, Cost: model.MustMoney("500"), Expected: 100, Score: 4.2}},
		}},
		"no-anomalies": {Anomalies: &model.AnomalyResult{
			Start: july, End: august, Window: 6, Threshold: 2, Evaluated: 2, Currency: "USD",
		}},
		"forecast": {Forecast: &model.ForecastResult{
			History: 6, LastKnown: august, Slope: 10, Currency: "USD",
			Points: []model.ForecastPoint{{
				Period: august.Add(1), Cost: model.MustMoney("160"),
				Low: model.MustMoney("150"), High: model.MustMoney("170"),
			}},
		}},
		"seasonality": {Seasonality: &model.SeasonalityResult{
			Conclusive: true, Cycles: 2, CV: 35, Stability: "moderate", Currency: "USD",
			Indexes: []model.MonthIndex{{Month: 1, Index: 0.8, Cycles: 2}, {Month: 12, Index: 1.6, Cycles: 2}},
		}},
		"seasonality-inconclusive": {Seasonality: &model.SeasonalityResult{Cycles: 1, CV: 10, Stability: "stable"}},
		"optimization": {Optimization: &model.OptimizationResult{
			Start: july, End: august, Dimension: model.DimensionService, Currency: "USD",
			Total: model.MustMoney("300"),
			Candidates: []model.OptimizationCandidate{{
				Name: "compute", Cost: model.MustMoney("200"), Share: 66.7, Growth: 100, HasGrowth: true,
			}},
		}},
		"benchmark": {Benchmark: &model.BenchmarkResult{
			Baseline: july, Comparand: august, Dimension: model.DimensionService, Currency: "USD",
			Shifts: []model.RankShift{{
				Name: "compute", BaselineRank: 2, ComparandRank: 1,
				BaselineCost: model.MustMoney("80"), ComparandCost: model.MustMoney("120"),
				Delta: model.MustMoney("40"),
			}},
			Stats: &model.BenchmarkStats{Start: july, End: august, Months: 2,
				Min: model.MustMoney("100"), Mean: model.MustMoney("125"), Max: model.MustMoney("150")},
		}},
		"insufficient": {Insufficient: &model.InsufficientData{Reason: "trend", Needed: 2, Got: 1}},
		"empty":        {},
	}

	for name, res := range results {
		for _, lang := range []model.Language{model.LangEnglish, model.LangRussian} {
			out := Result(model.Intent{Language: lang}, res)
			assert.NotEmpty(t, out, "%s/%s", name, lang)
		}
	}
}

func TestEveryErrorKindNonEmptyBothLanguages(t *testing.T) {
	errs := []error{
		resolve.ErrUnrecognizedIntent,
		resolve.ErrAmbiguousParameter,
		resolve.ErrUnknownDimension,
		&resolve.MissingParameterError{Name: "period"},
		model.ErrDataUnavailable,
		errors.New("some internal failure"),
	}
	for _, err := range errs {
		for _, lang := range []model.Language{model.LangEnglish, model.LangRussian} {
			out := Error(lang, err)
			assert.NotEmpty(t, out, "%v/%s", err, lang)
			assert.NotContains(t, out, "internal failure", "raw error text must not leak")
		}
	}
}

func TestCurrencyAlwaysShown(t *testing.T) {
	out := Result(model.Intent{Language: model.LangEnglish}, model.AnalyticResult{
		Total: &model.TotalResult{Period: july, Cost: model.MustMoney("99.90"), Currency: "EUR"},
	})
	assert.Contains(t, out, "99.90 EUR")
}

func TestComparisonUndefinedPercentMessage(t *testing.T) {
	res := model.AnalyticResult{Comparison: &model.ComparisonResult{
		Baseline: july, Comparand: august,
		ComparandCost: model.MustMoney("10"), Delta: model.MustMoney("10"),
		PercentDefined: false, Currency: "USD",
	}}
	en := Result(model.Intent{Language: model.LangEnglish}, res)
	assert.Contains(t, en, "undefined")
	ru := Result(model.Intent{Language: model.LangRussian}, res)
	assert.Contains(t, ru, "не определён")
}

func TestSeasonalityUnknownLanguageFallsBack(t *testing.T) {
	res := model.AnalyticResult{Seasonality: &model.SeasonalityResult{
		Conclusive: true, Cycles: 2, CV: 35, Stability: "moderate", Currency: "USD",
		Indexes: []model.MonthIndex{{Month: 1, Index: 0.8, Cycles: 2}, {Month: 12, Index: 1.6, Cycles: 2}},
	}}
	out := Result(model.Intent{Language: model.Language("de")}, res)
	assert.Contains(t, out, "December", "unknown language must fall back to English month names")
}

func TestFilterNoteShown(t *testing.T) {
	res := model.AnalyticResult{
		Total: &model.TotalResult{Period: july, Cost: model.MustMoney("50.25"), Currency: "USD"},
	}
	en := Result(model.Intent{Language: model.LangEnglish, Services: []string{"Cloud Storage"}}, res)
	assert.Contains(t, en, "Cloud Storage")
	ru := Result(model.Intent{Language: model.LangRussian, Projects: []string{"proj-a"}}, res)
	assert.Contains(t, ru, "proj-a")
}

func TestFormatPeriodLocalized(t *testing.T) {
	assert.Equal(t, "September 2025", FormatPeriod(model.Period{Year: 2025, Month: time.September}, model.LangEnglish))
	assert.Equal(t, "сентябрь 2025", FormatPeriod(model.Period{Year: 2025, Month: time.September}, model.LangRussian))
}

func TestBreakdownSortedOutput(t *testing.T) {
	out := Result(model.Intent{Language: model.LangEnglish}, model.AnalyticResult{
		Breakdown: &model.BreakdownResult{
			Period: july, Dimension: model.DimensionProject, Currency: "USD",
			Items: []model.BreakdownItem{
				{Name: "big", Cost: model.MustMoney("75"), Share: 75},
				{Name: "small", Cost: model.MustMoney("25"), Share: 25},
			},
			Total: model.MustMoney("100"),
		},
	})
	assert.Less(t, strings.Index(out, "big"), strings.Index(out, "small"))
}
