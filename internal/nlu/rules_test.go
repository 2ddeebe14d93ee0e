package nlu

import (
	"context"
	"testing"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want model.Language
	}{
		{"how much did we spend last month?", model.LangEnglish},
		{"сколько мы потратили в прошлом месяце?", model.LangRussian},
		{"расходы за 2025-09", model.LangRussian},
		{"costs for 2025-09", model.LangEnglish},
		{"", model.LangEnglish},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.in); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRulesClassify(t *testing.T) {
	tests := []struct {
		question string
		want     model.IntentKind
	}{
		{"how much did we spend in September 2025?", model.IntentTotalCost},
		{"show costs by service for last month", model.IntentByService},
		{"which project was the most expensive?", model.IntentByProject},
		{"Which services were the most expensive in September 2025?", model.IntentByService},
		{"breakdown by project for 2025-08", model.IntentByProject},
		{"compare July and August", model.IntentComparePeriods},
		{"what is the cost trend this year?", model.IntentTrend},
		{"any spending anomalies recently?", model.IntentAnomaly},
		{"forecast next month's bill", model.IntentForecast},
		{"is our spend seasonal?", model.IntentSeasonality},
		{"where can we save money?", model.IntentOptimize},
		{"где можно сэкономить?", model.IntentOptimize},
		{"Какие сервисы были самыми дорогими в сентябре 2025?", model.IntentByService},
		{"сколько мы потратили в сентябре?", model.IntentTotalCost},
		{"покажи расходы по сервисам за август", model.IntentByService},
		{"сравни июль и август", model.IntentComparePeriods},
		{"есть ли аномалии в расходах?", model.IntentAnomaly},
		{"прогноз на следующий месяц", model.IntentForecast},
		{"what's the weather like today?", model.IntentUnknown},
	}
	r := NewRules()
	for _, tt := range tests {
		bag, err := r.Extract(context.Background(), tt.question)
		if err != nil {
			t.Fatalf("Extract(%q): %v", tt.question, err)
		}
		if bag.IntentSignal != tt.want {
			t.Errorf("Extract(%q).IntentSignal = %v, want %v", tt.question, bag.IntentSignal, tt.want)
		}
	}
}

func TestRulesPeriodTexts(t *testing.T) {
	tests := []struct {
		question string
		want     []string
	}{
		{"costs for 2025-09", []string{"2025-09"}},
		{"costs for 202509", []string{"202509"}},
		{"compare july and august 2025", []string{"july", "august 2025"}},
		{"spending in September 2025 please", []string{"september 2025"}},
		{"how much last month?", []string{"last month"}},
		{"сравни июль и август", []string{"июль", "август"}},
		{"расходы за сентября 2025", []string{"сентября 2025"}},
		{"за прошлый месяц", []string{"прошлый месяц"}},
	}
	r := NewRules()
	for _, tt := range tests {
		bag, err := r.Extract(context.Background(), tt.question)
		if err != nil {
			t.Fatalf("Extract(%q): %v", tt.question, err)
		}
		if len(bag.PeriodTexts) != len(tt.want) {
			t.Errorf("Extract(%q).PeriodTexts = %v, want %v", tt.question, bag.PeriodTexts, tt.want)
			continue
		}
		for i := range tt.want {
			if bag.PeriodTexts[i] != tt.want[i] {
				t.Errorf("Extract(%q).PeriodTexts[%d] = %q, want %q", tt.question, i, bag.PeriodTexts[i], tt.want[i])
			}
		}
	}
}

// A superlative-cost question about a dimension is a breakdown, not an
// optimization review; the full entity bag must line up for both
// languages.
func TestRulesMostExpensiveServices(t *testing.T) {
	r := NewRules()
	for _, question := range []string{
		"Which services were the most expensive in September 2025?",
		"Какие сервисы были самыми дорогими в сентябре 2025?",
	} {
		bag, err := r.Extract(context.Background(), question)
		if err != nil {
			t.Fatalf("Extract(%q): %v", question, err)
		}
		if bag.IntentSignal != model.IntentByService {
			t.Errorf("Extract(%q).IntentSignal = %v, want BY_SERVICE", question, bag.IntentSignal)
		}
		if len(bag.PeriodTexts) != 1 {
			t.Errorf("Extract(%q).PeriodTexts = %v, want one period", question, bag.PeriodTexts)
		}
	}
}

func TestRulesServiceTexts(t *testing.T) {
	tests := []struct {
		question string
		want     []string
	}{
		{"how much did we spend on storage in July 2025?", []string{"storage"}},
		{"bigquery costs for 2025-07", []string{"bigquery"}},
		{"сколько мы потратили на storage за октябрь?", []string{"storage"}},
		{"compare storage and bigquery spend", []string{"storage", "bigquery"}},
		{"costs by service for July", nil},
	}
	r := NewRules()
	for _, tt := range tests {
		bag, err := r.Extract(context.Background(), tt.question)
		if err != nil {
			t.Fatalf("Extract(%q): %v", tt.question, err)
		}
		if len(bag.ServiceTexts) != len(tt.want) {
			t.Errorf("Extract(%q).ServiceTexts = %v, want %v", tt.question, bag.ServiceTexts, tt.want)
			continue
		}
		for i := range tt.want {
			if bag.ServiceTexts[i] != tt.want[i] {
				t.Errorf("Extract(%q).ServiceTexts[%d] = %q, want %q", tt.question, i, bag.ServiceTexts[i], tt.want[i])
			}
		}
	}
}

func TestRulesModifiers(t *testing.T) {
	r := NewRules()

	bag, _ := r.Extract(context.Background(), "top 3 most expensive services")
	if bag.TopK != 3 {
		t.Errorf("TopK = %d, want 3", bag.TopK)
	}
	if bag.DimensionText != "services" {
		t.Errorf("DimensionText = %q, want services", bag.DimensionText)
	}

	bag, _ = r.Extract(context.Background(), "forecast spend for the next 3 months")
	if bag.Horizon != 3 {
		t.Errorf("Horizon = %d, want 3", bag.Horizon)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
