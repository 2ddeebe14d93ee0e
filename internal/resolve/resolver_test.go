package resolve

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/nlu"
	"github.com/kirill-demidov/gcp-cost-agent/internal/session"
)

var receivedAt = time.Date(2025, 9, 15, 10, 30, 0, 0, time.UTC)

func TestResolveTotalCostExplicitPeriod(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentTotalCost,
		PeriodTexts:  []string{"2025-07"},
	}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.IntentTotalCost, intent.Kind)
	assert.Equal(t, model.Period{Year: 2025, Month: time.July}, intent.Period)
}

func TestResolveTotalCostDefaultsToPreviousMonth(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{Language: model.LangEnglish, IntentSignal: model.IntentTotalCost}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.Period)
}

func TestResolveEnglishAndRussianProduceSameIntent(t *testing.T) {
	r := NewResolver(0, 0)
	en := nlu.EntityBag{
		Language:      model.LangEnglish,
		IntentSignal:  model.IntentByService,
		PeriodTexts:   []string{"september 2025"},
		DimensionText: "services",
	}
	ru := nlu.EntityBag{
		Language:      model.LangRussian,
		IntentSignal:  model.IntentByService,
		PeriodTexts:   []string{"сентябрь 2025"},
		DimensionText: "сервисам",
	}

	enIntent, err := r.Resolve(en, nil, receivedAt)
	require.NoError(t, err)
	ruIntent, err := r.Resolve(ru, nil, receivedAt)
	require.NoError(t, err)

	// Same canonical intent and parameters; only the answer language differs.
	ruIntent.Language = enIntent.Language
	assert.Equal(t, enIntent, ruIntent)
	assert.Equal(t, model.IntentByService, enIntent.Kind)
	assert.Equal(t, model.DimensionService, enIntent.Dimension)
	assert.Equal(t, model.Period{Year: 2025, Month: time.September}, enIntent.Period)
}

func TestResolveFollowUpReusesSessionIntent(t *testing.T) {
	r := NewResolver(0, 0)
	aug := model.Period{Year: 2025, Month: time.August}
	prior := &session.Context{
		LastIntent:    model.IntentByService,
		LastPeriod:    &aug,
		LastDimension: model.DimensionService,
	}
	// "And for July?": no intent keywords, just a period.
	bag := nlu.EntityBag{
		Language:    model.LangEnglish,
		PeriodTexts: []string{"july"},
	}
	intent, err := r.Resolve(bag, prior, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.IntentByService, intent.Kind)
	assert.Equal(t, model.DimensionService, intent.Dimension)
	assert.Equal(t, model.Period{Year: 2025, Month: time.July}, intent.Period)
}

func TestResolveServiceFilter(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentTotalCost,
		PeriodTexts:  []string{"2025-07"},
		ServiceTexts: []string{"storage", "Dataflow"},
	}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	// Known aliases map to export names; the rest pass through lowered.
	assert.Equal(t, []string{"Cloud Storage", "dataflow"}, intent.Services)
}

func TestResolveProjectFilter(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentTrend,
		ProjectTexts: []string{" proj-a ", ""},
	}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-a"}, intent.Projects)
}

func TestResolveUnknownWithoutSessionFails(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{Language: model.LangEnglish}
	_, err := r.Resolve(bag, nil, receivedAt)
	assert.ErrorIs(t, err, ErrUnrecognizedIntent)
}

func TestResolveCompareChronologicalOrder(t *testing.T) {
	r := NewResolver(0, 0)
	// Mentioned later-first; baseline must still be the earlier month.
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentComparePeriods,
		PeriodTexts:  []string{"august 2025", "july 2025"},
	}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.Period{Year: 2025, Month: time.July}, intent.Baseline)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.Comparand)
}

func TestResolveCompareFillsFromSession(t *testing.T) {
	r := NewResolver(0, 0)
	jul := model.Period{Year: 2025, Month: time.July}
	prior := &session.Context{LastIntent: model.IntentTotalCost, LastPeriod: &jul}
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentComparePeriods,
		PeriodTexts:  []string{"august 2025"},
	}
	intent, err := r.Resolve(bag, prior, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, jul, intent.Baseline)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.Comparand)
}

func TestResolveCompareMissingPeriod(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentComparePeriods,
		PeriodTexts:  []string{"august 2025"},
	}
	_, err := r.Resolve(bag, nil, receivedAt)
	var missing *MissingParameterError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "period", missing.Name)
}

func TestResolveTrendDefaultRange(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{Language: model.LangEnglish, IntentSignal: model.IntentTrend}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.Period{Year: 2024, Month: time.September}, intent.Start)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.End)
}

func TestResolveTrendReusesSessionRange(t *testing.T) {
	r := NewResolver(0, 0)
	start := model.Period{Year: 2025, Month: time.January}
	end := model.Period{Year: 2025, Month: time.June}
	prior := &session.Context{
		LastIntent:    model.IntentTrend,
		LastPeriod:    &start,
		LastPeriodEnd: &end,
	}
	bag := nlu.EntityBag{Language: model.LangEnglish, IntentSignal: model.IntentAnomaly}
	intent, err := r.Resolve(bag, prior, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, start, intent.Start)
	assert.Equal(t, end, intent.End)
}

func TestResolveForecastHorizonDefault(t *testing.T) {
	r := NewResolver(5, 1)
	bag := nlu.EntityBag{Language: model.LangEnglish, IntentSignal: model.IntentForecast}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, intent.Horizon)

	bag.Horizon = 3
	intent, err = r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, 3, intent.Horizon)
}

func TestResolveOptimizeDefaults(t *testing.T) {
	r := NewResolver(0, 0)
	bag := nlu.EntityBag{Language: model.LangEnglish, IntentSignal: model.IntentOptimize}
	intent, err := r.Resolve(bag, nil, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.DimensionService, intent.Dimension)
	assert.Equal(t, 5, intent.TopK)
	assert.Equal(t, model.Period{Year: 2025, Month: time.June}, intent.Start)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.End)
}

func TestResolveBenchmarkDimensionFromSession(t *testing.T) {
	r := NewResolver(0, 0)
	jul := model.Period{Year: 2025, Month: time.July}
	prior := &session.Context{
		LastIntent:    model.IntentByProject,
		LastPeriod:    &jul,
		LastDimension: model.DimensionProject,
	}
	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentBenchmark,
		PeriodTexts:  []string{"august 2025"},
	}
	intent, err := r.Resolve(bag, prior, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, model.DimensionProject, intent.Dimension)
	assert.Equal(t, jul, intent.Baseline)
	assert.Equal(t, model.Period{Year: 2025, Month: time.August}, intent.Comparand)
}

func TestResolveNeverMutatesSession(t *testing.T) {
	r := NewResolver(0, 0)
	aug := model.Period{Year: 2025, Month: time.August}
	prior := &session.Context{LastIntent: model.IntentTotalCost, LastPeriod: &aug}
	before := *prior

	bag := nlu.EntityBag{
		Language:     model.LangEnglish,
		IntentSignal: model.IntentComparePeriods,
		PeriodTexts:  []string{"july 2025"},
	}
	_, err := r.Resolve(bag, prior, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, before, *prior)
}
