package analytics

import (
	"sort"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// Coefficient-of-variation cutoffs for the stability label, percent.
const (
	cvStable   = 20
	cvModerate = 50
)

// seasonal computes recurring intra-year patterns. A conclusive read
// needs two full observed cycles (24 months); with less the result is
// marked inconclusive but still reports what was seen.
func seasonal(rows []model.BillingRecord) model.AnalyticResult {
	totals := monthlyTotals(rows)
	if len(totals) == 0 {
		return insufficient("seasonality", 24, 0)
	}
	periods := sortedPeriods(totals)
	cycles := len(periods) / 12

	byMonth := make(map[int][]float64)
	for _, p := range periods {
		m := int(p.Month)
		byMonth[m] = append(byMonth[m], totals[p].Float64())
	}

	monthMeans := make(map[int]float64, len(byMonth))
	var all []float64
	for m, vals := range byMonth {
		monthMeans[m] = mean(vals)
		all = append(all, mean(vals))
	}
	overall := mean(all)

	indexes := make([]model.MonthIndex, 0, len(monthMeans))
	for m, v := range monthMeans {
		idx := model.MonthIndex{Month: m, Cycles: len(byMonth[m])}
		if overall != 0 {
			idx.Index = v / overall
		}
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i].Month < indexes[j].Month })

	var cv float64
	if overall != 0 {
		cv = stddev(all) / overall * 100
	}
	stability := "seasonal"
	switch {
	case cv < cvStable:
		stability = "stable"
	case cv < cvModerate:
		stability = "moderate"
	}

	return model.AnalyticResult{Seasonality: &model.SeasonalityResult{
		Conclusive: cycles >= 2,
		Cycles:     cycles,
		Indexes:    indexes,
		CV:         cv,
		Stability:  stability,
		Currency:   currencyOf(rows),
	}}
}
