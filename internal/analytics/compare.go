package analytics

import "github.com/kirill-demidov/gcp-cost-agent/internal/model"

// compare computes the COMPARE_PERIODS result. The percent rules are
// strict: 0 → 0 is a 0 % change; 0 → nonzero has no defined percent.
func compare(baseline, comparand model.Period, baseRows, compRows []model.BillingRecord) model.AnalyticResult {
	baseCost := sumTotal(baseRows)
	compCost := sumTotal(compRows)
	delta := compCost.Sub(baseCost)

	result := &model.ComparisonResult{
		Baseline:      baseline,
		Comparand:     comparand,
		BaselineCost:  baseCost,
		ComparandCost: compCost,
		Delta:         delta,
	}

	switch {
	case baseCost.IsZero() && compCost.IsZero():
		result.Percent = 0
		result.PercentDefined = true
	case baseCost.IsZero():
		result.PercentDefined = false
	default:
		result.Percent = delta.Div(baseCost).Float64() * 100
		result.PercentDefined = true
	}

	result.Currency = currencyOf(compRows)
	if result.Currency == "USD" {
		result.Currency = currencyOf(baseRows)
	}
	return model.AnalyticResult{Comparison: result}
}
