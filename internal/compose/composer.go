// Package compose renders analytic results and turn errors as chat
// answers in the question's language. Every result variant and every
// error kind has a renderer; output is never empty and never exposes
// internal error text.
package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/resolve"
)

var monthNames = map[model.Language][12]string{
	model.LangEnglish: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	model.LangRussian: {
		"январь", "февраль", "март", "апрель", "май", "июнь",
		"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
	},
}

func monthNamesFor(lang model.Language) [12]string {
	if names, ok := monthNames[lang]; ok {
		return names
	}
	return monthNames[model.LangEnglish]
}

// FormatPeriod renders a period for humans: "September 2025" or
// "сентябрь 2025".
func FormatPeriod(p model.Period, lang model.Language) string {
	return fmt.Sprintf("%s %d", monthNamesFor(lang)[int(p.Month)-1], p.Year)
}

// FormatMoney renders an amount with its currency code; the code is
// always shown.
func FormatMoney(m model.Money, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return m.Round2().String() + " " + currency
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%+.1f%%", p)
}

// Result renders one analytic result. The fallback branch exists so a
// new variant without a renderer degrades to a visible generic line
// instead of an empty answer.
func Result(intent model.Intent, res model.AnalyticResult) string {
	return renderResult(intent, res) + filterNote(intent)
}

// filterNote appends the active project/service filters, so an answer
// narrowed to one service never reads like the full bill.
func filterNote(intent model.Intent) string {
	if len(intent.Services) == 0 && len(intent.Projects) == 0 {
		return ""
	}
	var parts []string
	ru := intent.Language == model.LangRussian
	if len(intent.Services) > 0 {
		if ru {
			parts = append(parts, "сервисы: "+strings.Join(intent.Services, ", "))
		} else {
			parts = append(parts, "services: "+strings.Join(intent.Services, ", "))
		}
	}
	if len(intent.Projects) > 0 {
		if ru {
			parts = append(parts, "проекты: "+strings.Join(intent.Projects, ", "))
		} else {
			parts = append(parts, "projects: "+strings.Join(intent.Projects, ", "))
		}
	}
	if ru {
		return "\n(только " + strings.Join(parts, "; ") + ")"
	}
	return "\n(only " + strings.Join(parts, "; ") + ")"
}

func renderResult(intent model.Intent, res model.AnalyticResult) string {
	lang := intent.Language
	switch {
	case res.Total != nil:
		return renderTotal(res.Total, lang)
	case res.Breakdown != nil:
		return renderBreakdown(res.Breakdown, lang)
	case res.Comparison != nil:
		return renderComparison(res.Comparison, lang)
	case res.Trend != nil:
		return renderTrend(res.Trend, lang)
	case res.Anomalies != nil:
		return renderAnomalies(res.Anomalies, lang)
	case res.Forecast != nil:
		return renderForecast(res.Forecast, lang)
	case res.Seasonality != nil:
		return renderSeasonality(res.Seasonality, lang)
	case res.Optimization != nil:
		return renderOptimization(res.Optimization, lang)
	case res.Benchmark != nil:
		return renderBenchmark(res.Benchmark, lang)
	case res.Insufficient != nil:
		return renderInsufficient(res.Insufficient, lang)
	}
	if lang == model.LangRussian {
		return "Готово, но мне нечего показать по этому вопросу."
	}
	return "Done, but there is nothing to show for this question."
}

// Error renders a turn error as a clarification or apology. Raw error
// text never reaches the user.
func Error(lang model.Language, err error) string {
	ru := lang == model.LangRussian

	var missing *resolve.MissingParameterError
	switch {
	case errors.As(err, &missing):
		if ru {
			return "Мне не хватает параметра: укажите, пожалуйста, период (например, «сентябрь 2025» или «2025-09»)."
		}
		return "I'm missing a parameter: please name the period (for example \"September 2025\" or \"2025-09\")."
	case errors.Is(err, resolve.ErrUnrecognizedIntent):
		if ru {
			return "Я отвечаю на вопросы о расходах на облако. Попробуйте, например: «Сколько мы потратили в прошлом месяце?», «Расходы по сервисам за август», «Сравни июль и август»."
		}
		return "I answer questions about cloud spending. Try for example: \"How much did we spend last month?\", \"Costs by service for August\", \"Compare July and August\"."
	case errors.Is(err, resolve.ErrAmbiguousParameter):
		if ru {
			return "Я не смог однозначно понять период. Укажите месяц в виде «2025-09» или «сентябрь 2025»."
		}
		return "I couldn't pin down the period. Please give the month as \"2025-09\" or \"September 2025\"."
	case errors.Is(err, resolve.ErrUnknownDimension):
		if ru {
			return "Я умею группировать расходы только по проектам и по сервисам."
		}
		return "I can only break down costs by project or by service."
	case errors.Is(err, model.ErrDataUnavailable):
		if ru {
			return "Данные биллинга сейчас недоступны, попробуйте позже. Это не значит, что расходы нулевые."
		}
		return "Billing data is unavailable right now, please try again later. This does not mean the costs are zero."
	}
	if ru {
		return "Что-то пошло не так при обработке вопроса. Попробуйте переформулировать."
	}
	return "Something went wrong handling that question. Please try rephrasing."
}

func renderTotal(r *model.TotalResult, lang model.Language) string {
	if lang == model.LangRussian {
		return fmt.Sprintf("Расходы за %s: %s.",
			FormatPeriod(r.Period, lang), FormatMoney(r.Cost, r.Currency))
	}
	return fmt.Sprintf("Total spend for %s: %s.",
		FormatPeriod(r.Period, lang), FormatMoney(r.Cost, r.Currency))
}

func renderBreakdown(r *model.BreakdownResult, lang model.Language) string {
	var b strings.Builder
	dimEN, dimRU := "project", "проектам"
	if r.Dimension == model.DimensionService {
		dimEN, dimRU = "service", "сервисам"
	}
	if lang == model.LangRussian {
		fmt.Fprintf(&b, "Расходы по %s за %s (всего %s):\n",
			dimRU, FormatPeriod(r.Period, lang), FormatMoney(r.Total, r.Currency))
	} else {
		fmt.Fprintf(&b, "Costs by %s for %s (total %s):\n",
			dimEN, FormatPeriod(r.Period, lang), FormatMoney(r.Total, r.Currency))
	}
	if len(r.Items) == 0 {
		if lang == model.LangRussian {
			b.WriteString("  (нет данных за этот месяц)")
		} else {
			b.WriteString("  (no data for this month)")
		}
		return b.String()
	}
	for _, item := range r.Items {
		fmt.Fprintf(&b, "  %s — %s (%.1f%%)\n", item.Name, FormatMoney(item.Cost, r.Currency), item.Share)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderComparison(r *model.ComparisonResult, lang model.Language) string {
	base := FormatPeriod(r.Baseline, lang)
	comp := FormatPeriod(r.Comparand, lang)

	percent := ""
	if r.PercentDefined {
		percent = " (" + formatPercent(r.Percent) + ")"
	} else if lang == model.LangRussian {
		percent = " (процент не определён: базовый месяц нулевой)"
	} else {
		percent = " (percent undefined: baseline month is zero)"
	}

	if lang == model.LangRussian {
		return fmt.Sprintf("%s: %s, %s: %s. Изменение: %s%s.",
			base, FormatMoney(r.BaselineCost, r.Currency),
			comp, FormatMoney(r.ComparandCost, r.Currency),
			FormatMoney(r.Delta, r.Currency), percent)
	}
	return fmt.Sprintf("%s: %s, %s: %s. Change: %s%s.",
		base, FormatMoney(r.BaselineCost, r.Currency),
		comp, FormatMoney(r.ComparandCost, r.Currency),
		FormatMoney(r.Delta, r.Currency), percent)
}

func renderTrend(r *model.TrendResult, lang model.Language) string {
	var b strings.Builder
	direction := r.Direction
	if lang == model.LangRussian {
		switch r.Direction {
		case "rising":
			direction = "растут"
		case "falling":
			direction = "снижаются"
		default:
			direction = "стабильны"
		}
		fmt.Fprintf(&b, "Расходы %s (наклон %.2f %s/мес). Пик: %s — %s.",
			direction, r.Slope, r.Currency, FormatPeriod(r.Peak, lang), FormatMoney(r.PeakCost, r.Currency))
		if r.LargestRise != nil {
			fmt.Fprintf(&b, " Наибольший рост: %s (%s).",
				FormatPeriod(r.LargestRise.Period, lang), FormatMoney(r.LargestRise.Delta, r.Currency))
		}
		if r.LargestDrop != nil {
			fmt.Fprintf(&b, " Наибольшее снижение: %s (%s).",
				FormatPeriod(r.LargestDrop.Period, lang), FormatMoney(r.LargestDrop.Delta, r.Currency))
		}
	} else {
		fmt.Fprintf(&b, "Costs are %s (slope %.2f %s/month). Peak: %s at %s.",
			direction, r.Slope, r.Currency, FormatPeriod(r.Peak, lang), FormatMoney(r.PeakCost, r.Currency))
		if r.LargestRise != nil {
			fmt.Fprintf(&b, " Largest rise: %s (%s).",
				FormatPeriod(r.LargestRise.Period, lang), FormatMoney(r.LargestRise.Delta, r.Currency))
		}
		if r.LargestDrop != nil {
			fmt.Fprintf(&b, " Largest drop: %s (%s).",
				FormatPeriod(r.LargestDrop.Period, lang), FormatMoney(r.LargestDrop.Delta, r.Currency))
		}
	}
	b.WriteString("\n")
	for _, p := range r.Points {
		change := ""
		if p.PercentDefined && !p.Delta.IsZero() {
			change = " (" + formatPercent(p.Percent) + ")"
		}
		fmt.Fprintf(&b, "  %s: %s%s\n", p.Period, FormatMoney(p.Cost, r.Currency), change)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnomalies(r *model.AnomalyResult, lang model.Language) string {
	if len(r.Anomalies) == 0 {
		if lang == model.LangRussian {
			return fmt.Sprintf("Аномалий не найдено: проверено %d мес., порог %.1fσ.", r.Evaluated, r.Threshold)
		}
		return fmt.Sprintf("No anomalies found: %d months checked at a %.1fσ threshold.", r.Evaluated, r.Threshold)
	}
	var b strings.Builder
	if lang == model.LangRussian {
		fmt.Fprintf(&b, "Найдено аномалий: %d (порог %.1fσ):\n", len(r.Anomalies), r.Threshold)
	} else {
		fmt.Fprintf(&b, "Found %d anomalies (threshold %.1fσ):\n", len(r.Anomalies), r.Threshold)
	}
	for _, a := range r.Anomalies {
		if lang == model.LangRussian {
			fmt.Fprintf(&b, "  %s: %s при ожидаемых ~%.2f %s (отклонение %.1fσ)\n",
				FormatPeriod(a.Period, lang), FormatMoney(a.Cost, r.Currency), a.Expected, r.Currency, a.Score)
		} else {
			fmt.Fprintf(&b, "  %s: %s against an expected ~%.2f %s (%.1fσ off)\n",
				FormatPeriod(a.Period, lang), FormatMoney(a.Cost, r.Currency), a.Expected, r.Currency, a.Score)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderForecast(r *model.ForecastResult, lang model.Language) string {
	var b strings.Builder
	if lang == model.LangRussian {
		fmt.Fprintf(&b, "Прогноз по %d мес. истории (последний месяц с данными: %s):\n",
			r.History, FormatPeriod(r.LastKnown, lang))
	} else {
		fmt.Fprintf(&b, "Forecast from %d months of history (last observed: %s):\n",
			r.History, FormatPeriod(r.LastKnown, lang))
	}
	for _, p := range r.Points {
		if lang == model.LangRussian {
			fmt.Fprintf(&b, "  %s: ~%s (диапазон %s – %s)\n",
				FormatPeriod(p.Period, lang), FormatMoney(p.Cost, r.Currency),
				FormatMoney(p.Low, r.Currency), FormatMoney(p.High, r.Currency))
		} else {
			fmt.Fprintf(&b, "  %s: ~%s (range %s – %s)\n",
				FormatPeriod(p.Period, lang), FormatMoney(p.Cost, r.Currency),
				FormatMoney(p.Low, r.Currency), FormatMoney(p.High, r.Currency))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSeasonality(r *model.SeasonalityResult, lang model.Language) string {
	ru := lang == model.LangRussian
	if !r.Conclusive {
		if ru {
			return fmt.Sprintf("Для надёжного вывода о сезонности нужно минимум 2 полных года данных, наблюдается %d. Предварительно: коэффициент вариации %.1f%%.", r.Cycles, r.CV)
		}
		return fmt.Sprintf("A reliable seasonality read needs at least 2 full years of data, %d observed. Tentatively: coefficient of variation %.1f%%.", r.Cycles, r.CV)
	}

	label := map[string][2]string{
		"stable":   {"stable (little seasonality)", "стабильны (сезонность слабая)"},
		"moderate": {"moderately seasonal", "умеренно сезонны"},
		"seasonal": {"strongly seasonal", "выраженно сезонны"},
	}[r.Stability]

	var hi, lo model.MonthIndex
	for _, idx := range r.Indexes {
		if hi.Month == 0 || idx.Index > hi.Index {
			hi = idx
		}
		if lo.Month == 0 || idx.Index < lo.Index {
			lo = idx
		}
	}

	names := monthNamesFor(lang)
	if ru {
		return fmt.Sprintf("Расходы %s: коэффициент вариации %.1f%% по %d годам. Самый дорогой месяц — %s (индекс %.2f), самый дешёвый — %s (индекс %.2f).",
			label[1], r.CV, r.Cycles, names[hi.Month-1], hi.Index, names[lo.Month-1], lo.Index)
	}
	return fmt.Sprintf("Spending is %s: coefficient of variation %.1f%% over %d years. Most expensive month is %s (index %.2f), cheapest is %s (index %.2f).",
		label[0], r.CV, r.Cycles, names[hi.Month-1], hi.Index, names[lo.Month-1], lo.Index)
}

func renderOptimization(r *model.OptimizationResult, lang model.Language) string {
	ru := lang == model.LangRussian
	var b strings.Builder
	if ru {
		fmt.Fprintf(&b, "Кандидаты на оптимизацию за %s – %s (всего %s):\n",
			FormatPeriod(r.Start, lang), FormatPeriod(r.End, lang), FormatMoney(r.Total, r.Currency))
	} else {
		fmt.Fprintf(&b, "Cost-review candidates for %s – %s (total %s):\n",
			FormatPeriod(r.Start, lang), FormatPeriod(r.End, lang), FormatMoney(r.Total, r.Currency))
	}
	for i, c := range r.Candidates {
		growth := ""
		if c.HasGrowth {
			if ru {
				growth = fmt.Sprintf(", рост %s за месяц", formatPercent(c.Growth))
			} else {
				growth = fmt.Sprintf(", %s month over month", formatPercent(c.Growth))
			}
		}
		if ru {
			fmt.Fprintf(&b, "  %d. %s — %s (%.1f%% всех расходов%s)\n",
				i+1, c.Name, FormatMoney(c.Cost, r.Currency), c.Share, growth)
		} else {
			fmt.Fprintf(&b, "  %d. %s — %s (%.1f%% of spend%s)\n",
				i+1, c.Name, FormatMoney(c.Cost, r.Currency), c.Share, growth)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBenchmark(r *model.BenchmarkResult, lang model.Language) string {
	ru := lang == model.LangRussian
	var b strings.Builder
	if ru {
		fmt.Fprintf(&b, "Рейтинг: %s против %s:\n",
			FormatPeriod(r.Comparand, lang), FormatPeriod(r.Baseline, lang))
	} else {
		fmt.Fprintf(&b, "Ranking: %s versus %s:\n",
			FormatPeriod(r.Comparand, lang), FormatPeriod(r.Baseline, lang))
	}
	for _, s := range r.Shifts {
		rank := rankNote(s, ru)
		fmt.Fprintf(&b, "  %s: %s → %s%s\n",
			s.Name, FormatMoney(s.BaselineCost, r.Currency), FormatMoney(s.ComparandCost, r.Currency), rank)
	}
	if r.Stats != nil {
		if ru {
			fmt.Fprintf(&b, "За %d мес.: минимум %s, среднее %s, максимум %s в месяц.\n",
				r.Stats.Months, FormatMoney(r.Stats.Min, r.Currency),
				FormatMoney(r.Stats.Mean, r.Currency), FormatMoney(r.Stats.Max, r.Currency))
		} else {
			fmt.Fprintf(&b, "Over %d months: min %s, mean %s, max %s per month.\n",
				r.Stats.Months, FormatMoney(r.Stats.Min, r.Currency),
				FormatMoney(r.Stats.Mean, r.Currency), FormatMoney(r.Stats.Max, r.Currency))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func rankNote(s model.RankShift, ru bool) string {
	switch {
	case s.BaselineRank == 0:
		if ru {
			return " (новая позиция, место " + fmt.Sprint(s.ComparandRank) + ")"
		}
		return " (new entry at rank " + fmt.Sprint(s.ComparandRank) + ")"
	case s.ComparandRank == 0:
		if ru {
			return " (выбыла из рейтинга)"
		}
		return " (dropped out)"
	case s.BaselineRank != s.ComparandRank:
		if ru {
			return fmt.Sprintf(" (место %d → %d)", s.BaselineRank, s.ComparandRank)
		}
		return fmt.Sprintf(" (rank %d → %d)", s.BaselineRank, s.ComparandRank)
	}
	return ""
}

func renderInsufficient(r *model.InsufficientData, lang model.Language) string {
	if lang == model.LangRussian {
		return fmt.Sprintf("Недостаточно данных для ответа: нужно минимум %d мес. с данными, есть %d. Импортируйте больше истории биллинга.", r.Needed, r.Got)
	}
	return fmt.Sprintf("Not enough data to answer: at least %d months with data are needed, %d available. Import more billing history.", r.Needed, r.Got)
}
