package analytics

import (
	"math"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

const minBaseline = 3

// anomaly flags months whose cost deviates from the trailing baseline
// by at least threshold standard deviations. rows must cover the
// evaluated range plus up to window preceding months; months with too
// short a baseline, or a baseline with zero spread, are skipped.
func anomaly(start, end model.Period, window int, threshold float64, rows []model.BillingRecord) model.AnalyticResult {
	totals := monthlyTotals(rows)
	periods := sortedPeriods(totals)

	var found []model.Anomaly
	evaluated := 0
	for i, p := range periods {
		if p.Before(start) || end.Before(p) {
			continue
		}
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		baseline := periods[lo:i]
		if len(baseline) < minBaseline {
			continue
		}

		values := make([]float64, len(baseline))
		for j, bp := range baseline {
			values[j] = totals[bp].Float64()
		}
		sigma := stddev(values)
		if sigma == 0 {
			continue
		}
		evaluated++

		expected := mean(values)
		score := (totals[p].Float64() - expected) / sigma
		if math.Abs(score) >= threshold {
			found = append(found, model.Anomaly{
				Period:   p,
				Cost:     totals[p],
				Expected: expected,
				Score:    score,
			})
		}
	}

	if evaluated == 0 {
		return insufficient("anomaly baseline", minBaseline, len(periods))
	}

	return model.AnalyticResult{Anomalies: &model.AnomalyResult{
		Start:     start,
		End:       end,
		Window:    window,
		Threshold: threshold,
		Anomalies: found,
		Evaluated: evaluated,
		Currency:  currencyOf(rows),
	}}
}
