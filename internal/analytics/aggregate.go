package analytics

import (
	"sort"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// sumTotal re-aggregates rows into one exact total. Routines never
// assume the data layer pre-summed anything.
func sumTotal(rows []model.BillingRecord) model.Money {
	var total model.Money
	for _, r := range rows {
		total = total.Add(r.Cost)
	}
	return total
}

// groupCosts sums rows per dimension value.
func groupCosts(rows []model.BillingRecord, dim model.Dimension) map[string]model.Money {
	out := make(map[string]model.Money)
	for _, r := range rows {
		key := r.Project
		if dim == model.DimensionService {
			key = r.Service
		}
		out[key] = out[key].Add(r.Cost)
	}
	return out
}

// monthlyTotals sums rows per month. Months with no rows are absent,
// not zero.
func monthlyTotals(rows []model.BillingRecord) map[model.Period]model.Money {
	out := make(map[model.Period]model.Money)
	for _, r := range rows {
		out[r.Month] = out[r.Month].Add(r.Cost)
	}
	return out
}

// sortedPeriods returns the map's keys in chronological order.
func sortedPeriods(totals map[model.Period]model.Money) []model.Period {
	periods := make([]model.Period, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// currencyOf picks the display currency from the rows; billing exports
// carry one currency per account.
func currencyOf(rows []model.BillingRecord) string {
	for _, r := range rows {
		if r.Currency != "" {
			return r.Currency
		}
	}
	return "USD"
}

// total computes the TOTAL_COST result for a single period's rows.
func total(period model.Period, rows []model.BillingRecord) model.AnalyticResult {
	return model.AnalyticResult{Total: &model.TotalResult{
		Period:   period,
		Cost:     sumTotal(rows),
		Currency: currencyOf(rows),
		Rows:     len(rows),
	}}
}

// breakdown computes a BY_PROJECT / BY_SERVICE result, sorted most
// expensive first. Shares are percentages of the period total; a zero
// total leaves every share at zero rather than dividing by it.
func breakdown(period model.Period, dim model.Dimension, rows []model.BillingRecord) model.AnalyticResult {
	groups := groupCosts(rows, dim)
	grand := sumTotal(rows)

	items := make([]model.BreakdownItem, 0, len(groups))
	for name, cost := range groups {
		item := model.BreakdownItem{Name: name, Cost: cost}
		if !grand.IsZero() {
			item.Share = cost.Div(grand).Float64() * 100
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Cost.Cmp(items[j].Cost); c != 0 {
			return c > 0
		}
		return items[i].Name < items[j].Name
	})

	return model.AnalyticResult{Breakdown: &model.BreakdownResult{
		Period:    period,
		Dimension: dim,
		Items:     items,
		Total:     grand,
		Currency:  currencyOf(rows),
	}}
}
