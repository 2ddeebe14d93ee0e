// Package nlu extracts intent signals and raw entities from free-form
// questions. Extraction is deliberately dumb: it finds *texts*, the
// resolver normalizes them into canonical parameters.
package nlu

import (
	"context"
	"unicode"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// EntityBag is the raw output of an extractor for a single question.
// PeriodTexts holds period references in the order they appeared, still
// unnormalized ("2025-09", "сентября", "last month"); ServiceTexts and
// ProjectTexts hold filter mentions the same way ("storage", "vertex ai",
// "proj-a").
type EntityBag struct {
	Language      model.Language
	IntentSignal  model.IntentKind
	PeriodTexts   []string
	DimensionText string
	ServiceTexts  []string
	ProjectTexts  []string
	TopK          int
	Horizon       int
}

// Extractor turns a question into an EntityBag. Implementations must
// not mutate any session state.
type Extractor interface {
	Extract(ctx context.Context, question string) (EntityBag, error)
}

// DetectLanguage classifies a question as Russian when at least a third
// of its letters are Cyrillic, English otherwise.
func DetectLanguage(s string) model.Language {
	var letters, cyrillic int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
	}
	if letters > 0 && cyrillic*3 >= letters {
		return model.LangRussian
	}
	return model.LangEnglish
}
