package model

// IntentKind is the closed set of canonical question intents.
type IntentKind string

const (
	IntentUnknown        IntentKind = "UNKNOWN"
	IntentTotalCost      IntentKind = "TOTAL_COST"
	IntentByProject      IntentKind = "BY_PROJECT"
	IntentByService      IntentKind = "BY_SERVICE"
	IntentComparePeriods IntentKind = "COMPARE_PERIODS"
	IntentTrend          IntentKind = "TREND"
	IntentAnomaly        IntentKind = "ANOMALY"
	IntentForecast       IntentKind = "FORECAST"
	IntentSeasonality    IntentKind = "SEASONALITY"
	IntentOptimize       IntentKind = "OPTIMIZE"
	IntentBenchmark      IntentKind = "BENCHMARK"
)

// Intent is a fully resolved question: canonical kind plus normalized,
// typed parameters. Field meaning per kind:
//
//   - TOTAL_COST, BY_PROJECT, BY_SERVICE: Period.
//   - COMPARE_PERIODS, BENCHMARK: Baseline (earlier) and Comparand (later).
//   - TREND, ANOMALY, SEASONALITY, FORECAST, OPTIMIZE: Start..End range.
//   - BY_*, OPTIMIZE, BENCHMARK: Dimension; OPTIMIZE also TopK;
//     FORECAST also Horizon.
//
// Projects and Services narrow any kind to the named projects/services
// ("how much did we spend on storage"); empty means all.
type Intent struct {
	Kind      IntentKind
	Language  Language
	Period    Period
	Start     Period
	End       Period
	Baseline  Period
	Comparand Period
	Dimension Dimension
	Projects  []string
	Services  []string
	TopK      int
	Horizon   int
}

// Range returns the inclusive period range for range-based intents.
func (i Intent) Range() (Period, Period) {
	return i.Start, i.End
}
