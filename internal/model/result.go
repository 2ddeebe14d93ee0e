package model

// AnalyticResult is a tagged union: exactly one field is non-nil. The
// composer consumes it once and renders the populated variant.
type AnalyticResult struct {
	Total        *TotalResult
	Breakdown    *BreakdownResult
	Comparison   *ComparisonResult
	Trend        *TrendResult
	Anomalies    *AnomalyResult
	Forecast     *ForecastResult
	Seasonality  *SeasonalityResult
	Optimization *OptimizationResult
	Benchmark    *BenchmarkResult
	Insufficient *InsufficientData
}

// InsufficientData explains why a routine could not run. It is a
// result, not an error: the turn still produces an answer.
type InsufficientData struct {
	Reason string
	Needed int
	Got    int
}

// TotalResult is an aggregate cost for one period.
type TotalResult struct {
	Period   Period
	Cost     Money
	Currency string
	Rows     int
}

// BreakdownItem is one group in a cost breakdown, with its share of the
// period total in percent.
type BreakdownItem struct {
	Name  string
	Cost  Money
	Share float64
}

// BreakdownResult is a per-dimension cost split, sorted most expensive
// first.
type BreakdownResult struct {
	Period    Period
	Dimension Dimension
	Items     []BreakdownItem
	Total     Money
	Currency  string
}

// ComparisonResult compares a comparand period against a baseline.
// PercentDefined is false when the baseline is zero and the comparand is
// not; Percent is meaningless in that case.
type ComparisonResult struct {
	Baseline       Period
	Comparand      Period
	BaselineCost   Money
	ComparandCost  Money
	Delta          Money
	Percent        float64
	PercentDefined bool
	Currency       string
}

// TrendPoint is one month on a cost series with its change from the
// previous month.
type TrendPoint struct {
	Period         Period
	Cost           Money
	Delta          Money
	Percent        float64
	PercentDefined bool
}

// TrendResult describes the direction of a cost series.
type TrendResult struct {
	Points      []TrendPoint
	Slope       float64 // per-month, in currency units
	Direction   string  // "rising", "falling", "flat"
	Peak        Period
	PeakCost    Money
	LargestRise *TrendPoint
	LargestDrop *TrendPoint
	Currency    string
}

// Anomaly is one flagged period with its deviation from the trailing
// baseline in standard deviations.
type Anomaly struct {
	Period   Period
	Cost     Money
	Expected float64
	Score    float64
}

// AnomalyResult lists flagged periods over an evaluated range.
type AnomalyResult struct {
	Start     Period
	End       Period
	Window    int
	Threshold float64
	Anomalies []Anomaly
	Evaluated int
	Currency  string
}

// ForecastPoint is one projected month with its confidence band.
type ForecastPoint struct {
	Period Period
	Cost   Money
	Low    Money
	High   Money
}

// ForecastResult projects costs beyond the observed range.
type ForecastResult struct {
	History   int
	Points    []ForecastPoint
	Slope     float64
	Currency  string
	LastKnown Period
}

// MonthIndex is one calendar month's seasonal index: its mean cost
// relative to the overall mean (1.0 = average month).
type MonthIndex struct {
	Month  int // 1..12
	Index  float64
	Cycles int
}

// SeasonalityResult describes recurring intra-year patterns.
// Conclusive is false when fewer than two full cycles were observed.
type SeasonalityResult struct {
	Conclusive bool
	Cycles     int
	Indexes    []MonthIndex
	CV         float64 // coefficient of variation across month means
	Stability  string  // "stable", "moderate", "seasonal"
	Currency   string
}

// OptimizationCandidate is one group suggested for cost review.
type OptimizationCandidate struct {
	Name      string
	Cost      Money
	Share     float64
	Growth    float64 // month-over-month, percent
	HasGrowth bool
	Reason    string
}

// OptimizationResult ranks the top cost-review candidates.
type OptimizationResult struct {
	Start      Period
	End        Period
	Dimension  Dimension
	Candidates []OptimizationCandidate
	Total      Money
	Currency   string
}

// RankShift is one group's position change between two periods.
type RankShift struct {
	Name          string
	BaselineRank  int // 0 = absent in baseline
	ComparandRank int // 0 = absent in comparand
	BaselineCost  Money
	ComparandCost Money
	Delta         Money
}

// BenchmarkStats summarizes monthly totals over a trailing range.
type BenchmarkStats struct {
	Start  Period
	End    Period
	Min    Money
	Mean   Money
	Max    Money
	Months int
}

// BenchmarkResult compares group rankings across two periods and sets
// them against trailing monthly statistics.
type BenchmarkResult struct {
	Baseline  Period
	Comparand Period
	Dimension Dimension
	Shifts    []RankShift
	Stats     *BenchmarkStats
	Currency  string
}
