package nlu

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

//go:embed lexicons/*.yaml
var lexiconFS embed.FS

// lexicon is one language's keyword tables. Adding a language is a new
// YAML file, not new code.
type lexicon struct {
	Language  string              `yaml:"language"`
	Months    map[string]int      `yaml:"months"`
	Relative  map[string]int      `yaml:"relative"`
	Intents   map[string][]string `yaml:"intents"`
	Dimension map[string][]string `yaml:"dimensions"`
	Services  map[string]string   `yaml:"services"`
}

var lexicons = mustLoadLexicons()

func mustLoadLexicons() map[model.Language]*lexicon {
	out := make(map[model.Language]*lexicon)
	entries, err := lexiconFS.ReadDir("lexicons")
	if err != nil {
		panic(fmt.Sprintf("nlu: reading embedded lexicons: %v", err))
	}
	for _, e := range entries {
		raw, err := lexiconFS.ReadFile("lexicons/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("nlu: reading lexicon %s: %v", e.Name(), err))
		}
		var lex lexicon
		if err := yaml.Unmarshal(raw, &lex); err != nil {
			panic(fmt.Sprintf("nlu: parsing lexicon %s: %v", e.Name(), err))
		}
		out[model.Language(lex.Language)] = &lex
	}
	return out
}

func lexiconFor(lang model.Language) *lexicon {
	if lex, ok := lexicons[lang]; ok {
		return lex
	}
	return lexicons[model.LangEnglish]
}

// LookupMonth resolves a localized month name (any case form the
// lexicon carries) to its calendar month.
func LookupMonth(word string, lang model.Language) (time.Month, bool) {
	n, ok := lexiconFor(lang).Months[word]
	if !ok {
		return 0, false
	}
	return time.Month(n), true
}

// LookupRelative resolves a relative period phrase ("last month",
// "прошлый месяц") to a month offset from the reference period.
func LookupRelative(phrase string, lang model.Language) (int, bool) {
	n, ok := lexiconFor(lang).Relative[phrase]
	return n, ok
}

// LookupService resolves a service alias ("storage", "vertex") to the
// service name billing exports use ("Cloud Storage", "Vertex AI").
func LookupService(word string, lang model.Language) (string, bool) {
	name, ok := lexiconFor(lang).Services[word]
	return name, ok
}

// LookupDimension resolves a dimension alias to a canonical dimension.
func LookupDimension(word string, lang model.Language) (model.Dimension, bool) {
	for dim, aliases := range lexiconFor(lang).Dimension {
		for _, a := range aliases {
			if a == word {
				return model.Dimension(dim), true
			}
		}
	}
	return model.DimensionNone, false
}
