package analytics

import "github.com/kirill-demidov/gcp-cost-agent/internal/model"

const minHistory = 3

// forecast projects monthly totals horizon months past the last
// observed month using a least-squares fit, with a band of two residual
// standard errors. Needs at least three observed months.
func forecast(horizon int, rows []model.BillingRecord) model.AnalyticResult {
	totals := monthlyTotals(rows)
	periods := sortedPeriods(totals)
	if len(periods) < minHistory {
		return insufficient("forecast history", minHistory, len(periods))
	}
	if horizon < 1 {
		horizon = 1
	}

	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = totals[p].Float64()
	}
	slope, intercept, stderr := linearFit(values)

	last := periods[len(periods)-1]
	band := 2 * stderr
	points := make([]model.ForecastPoint, 0, horizon)
	for h := 1; h <= horizon; h++ {
		x := float64(len(values) - 1 + h)
		y := intercept + slope*x
		points = append(points, model.ForecastPoint{
			Period: last.Add(h),
			Cost:   clampMoney(y),
			Low:    clampMoney(y - band),
			High:   clampMoney(y + band),
		})
	}

	return model.AnalyticResult{Forecast: &model.ForecastResult{
		History:   len(periods),
		Points:    points,
		Slope:     slope,
		Currency:  currencyOf(rows),
		LastKnown: last,
	}}
}

// clampMoney converts a projected value to Money, flooring at zero;
// a negative projected bill is noise from the fit, not a refund.
func clampMoney(v float64) model.Money {
	if v < 0 {
		return model.Money{}
	}
	return model.MoneyFromFloat(v).Round2()
}
