package analytics

import (
	"math"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// trend computes the TREND result over a month series. Needs at least
// two observed months; fewer is reported as insufficient data, not an
// error.
func trend(rows []model.BillingRecord) model.AnalyticResult {
	totals := monthlyTotals(rows)
	periods := sortedPeriods(totals)
	if len(periods) < 2 {
		return insufficient("trend", 2, len(periods))
	}

	points := make([]model.TrendPoint, 0, len(periods))
	values := make([]float64, 0, len(periods))
	for i, p := range periods {
		cost := totals[p]
		point := model.TrendPoint{Period: p, Cost: cost}
		if i > 0 {
			prev := totals[periods[i-1]]
			point.Delta = cost.Sub(prev)
			switch {
			case prev.IsZero() && cost.IsZero():
				point.Percent = 0
				point.PercentDefined = true
			case prev.IsZero():
				point.PercentDefined = false
			default:
				point.Percent = point.Delta.Div(prev).Float64() * 100
				point.PercentDefined = true
			}
		}
		points = append(points, point)
		values = append(values, cost.Float64())
	}

	slope, _, _ := linearFit(values)

	result := &model.TrendResult{
		Points:   points,
		Slope:    slope,
		Currency: currencyOf(rows),
	}

	// Flat means the monthly drift is under 1% of the average cost.
	avg := mean(values)
	switch {
	case math.Abs(slope) <= 0.01*math.Abs(avg):
		result.Direction = "flat"
	case slope > 0:
		result.Direction = "rising"
	default:
		result.Direction = "falling"
	}

	result.Peak = periods[0]
	result.PeakCost = totals[periods[0]]
	for _, p := range periods[1:] {
		if totals[p].Cmp(result.PeakCost) > 0 {
			result.Peak = p
			result.PeakCost = totals[p]
		}
	}

	for i := range points[1:] {
		pt := points[i+1]
		if pt.Delta.Cmp(model.Money{}) > 0 {
			if result.LargestRise == nil || pt.Delta.Cmp(result.LargestRise.Delta) > 0 {
				cp := pt
				result.LargestRise = &cp
			}
		}
		if pt.Delta.IsNegative() {
			if result.LargestDrop == nil || pt.Delta.Cmp(result.LargestDrop.Delta) < 0 {
				cp := pt
				result.LargestDrop = &cp
			}
		}
	}

	return model.AnalyticResult{Trend: result}
}

func insufficient(what string, needed, got int) model.AnalyticResult {
	return model.AnalyticResult{Insufficient: &model.InsufficientData{
		Reason: what,
		Needed: needed,
		Got:    got,
	}}
}
