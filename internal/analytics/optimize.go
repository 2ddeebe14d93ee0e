package analytics

import (
	"sort"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// optimize ranks the topK groups worth a cost review over the range:
// the biggest spenders, annotated with their last month-over-month
// growth where a previous month exists.
func optimize(start, end model.Period, dim model.Dimension, topK int, rows []model.BillingRecord) model.AnalyticResult {
	if len(rows) == 0 {
		return insufficient("optimization data", 1, 0)
	}
	grand := sumTotal(rows)

	type monthCost map[model.Period]model.Money
	perGroup := make(map[string]monthCost)
	for _, r := range rows {
		key := r.Project
		if dim == model.DimensionService {
			key = r.Service
		}
		if perGroup[key] == nil {
			perGroup[key] = make(monthCost)
		}
		perGroup[key][r.Month] = perGroup[key][r.Month].Add(r.Cost)
	}

	candidates := make([]model.OptimizationCandidate, 0, len(perGroup))
	for name, months := range perGroup {
		var cost model.Money
		for _, c := range months {
			cost = cost.Add(c)
		}
		cand := model.OptimizationCandidate{Name: name, Cost: cost}
		if !grand.IsZero() {
			cand.Share = cost.Div(grand).Float64() * 100
		}

		periods := sortedPeriods(months)
		if len(periods) >= 2 {
			last := months[periods[len(periods)-1]]
			prev := months[periods[len(periods)-2]]
			if !prev.IsZero() {
				cand.Growth = last.Sub(prev).Div(prev).Float64() * 100
				cand.HasGrowth = true
			}
		}
		cand.Reason = "share"
		if cand.HasGrowth && cand.Growth > 0 {
			cand.Reason = "growth"
		}
		candidates = append(candidates, cand)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if c := candidates[i].Cost.Cmp(candidates[j].Cost); c != 0 {
			return c > 0
		}
		return candidates[i].Name < candidates[j].Name
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return model.AnalyticResult{Optimization: &model.OptimizationResult{
		Start:      start,
		End:        end,
		Dimension:  dim,
		Candidates: candidates,
		Total:      grand,
		Currency:   currencyOf(rows),
	}}
}

// benchmark compares group rankings between two periods and sets them
// against trailing monthly totals.
func benchmark(baseline, comparand model.Period, dim model.Dimension,
	baseRows, compRows, trailingRows []model.BillingRecord) model.AnalyticResult {

	baseRank := rankGroups(baseRows, dim)
	compRank := rankGroups(compRows, dim)
	if len(baseRank) == 0 && len(compRank) == 0 {
		return insufficient("benchmark data", 1, 0)
	}

	names := make(map[string]struct{})
	for n := range baseRank {
		names[n] = struct{}{}
	}
	for n := range compRank {
		names[n] = struct{}{}
	}

	baseCosts := groupCosts(baseRows, dim)
	compCosts := groupCosts(compRows, dim)

	shifts := make([]model.RankShift, 0, len(names))
	for n := range names {
		shifts = append(shifts, model.RankShift{
			Name:          n,
			BaselineRank:  baseRank[n],
			ComparandRank: compRank[n],
			BaselineCost:  baseCosts[n],
			ComparandCost: compCosts[n],
			Delta:         compCosts[n].Sub(baseCosts[n]),
		})
	}
	sort.Slice(shifts, func(i, j int) bool {
		if c := shifts[i].ComparandCost.Cmp(shifts[j].ComparandCost); c != 0 {
			return c > 0
		}
		return shifts[i].Name < shifts[j].Name
	})

	result := &model.BenchmarkResult{
		Baseline:  baseline,
		Comparand: comparand,
		Dimension: dim,
		Shifts:    shifts,
		Currency:  currencyOf(compRows),
	}

	if totals := monthlyTotals(trailingRows); len(totals) > 0 {
		periods := sortedPeriods(totals)
		stats := &model.BenchmarkStats{
			Start:  periods[0],
			End:    periods[len(periods)-1],
			Months: len(periods),
			Min:    totals[periods[0]],
			Max:    totals[periods[0]],
		}
		var sum model.Money
		for _, p := range periods {
			c := totals[p]
			sum = sum.Add(c)
			if c.Cmp(stats.Min) < 0 {
				stats.Min = c
			}
			if c.Cmp(stats.Max) > 0 {
				stats.Max = c
			}
		}
		stats.Mean = sum.Div(model.MoneyFromFloat(float64(len(periods)))).Round2()
		result.Stats = stats
	}

	return model.AnalyticResult{Benchmark: result}
}

// rankGroups returns 1-based cost ranks, most expensive first.
func rankGroups(rows []model.BillingRecord, dim model.Dimension) map[string]int {
	costs := groupCosts(rows, dim)
	names := make([]string, 0, len(costs))
	for n := range costs {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if c := costs[names[i]].Cmp(costs[names[j]]); c != 0 {
			return c > 0
		}
		return names[i] < names[j]
	})
	ranks := make(map[string]int, len(names))
	for i, n := range names {
		ranks[n] = i + 1
	}
	return ranks
}
