package nlu

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// intentOrder is the classification priority: specific analytic signals
// win over the generic cost keywords they often co-occur with
// ("compare spending" is a comparison, not a total).
var intentOrder = []model.IntentKind{
	model.IntentComparePeriods,
	model.IntentForecast,
	model.IntentAnomaly,
	model.IntentSeasonality,
	model.IntentTrend,
	model.IntentOptimize,
	model.IntentBenchmark,
	model.IntentByProject,
	model.IntentByService,
	model.IntentTotalCost,
}

var (
	canonicalPeriodRe = regexp.MustCompile(`20\d{2}-\d{2}`)
	compactPeriodRe   = regexp.MustCompile(`\b20\d{4}\b`)
	yearRe            = regexp.MustCompile(`^20\d{2}$`)
	topKRe            = regexp.MustCompile(`(?:top|топ)[\s-]*(\d+)`)
	horizonRe         = regexp.MustCompile(`(?:на|next|ahead)\s+(\d+)\s+(?:months?|месяц)`)
)

// Rules is a deterministic bilingual extractor built on keyword tables.
// It needs no network and no key; Gemini degrades to it on any failure.
type Rules struct{}

// NewRules returns the rule-based extractor.
func NewRules() *Rules { return &Rules{} }

// Extract scans the question for intent keywords, period references,
// dimension aliases, and numeric modifiers.
func (r *Rules) Extract(_ context.Context, question string) (EntityBag, error) {
	lang := DetectLanguage(question)
	lower := strings.ToLower(question)
	lex := lexiconFor(lang)

	bag := EntityBag{
		Language:     lang,
		IntentSignal: classify(lower, lex),
		PeriodTexts:  findPeriodTexts(lower, lex),
	}

	if dim := findDimensionText(lower, lang); dim != "" {
		bag.DimensionText = dim
	}
	bag.ServiceTexts = findServiceTexts(lower, lang)
	if m := topKRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			bag.TopK = n
		}
	}
	if m := horizonRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			bag.Horizon = n
		}
	}
	return bag, nil
}

func classify(lower string, lex *lexicon) model.IntentKind {
	for _, kind := range intentOrder {
		for _, kw := range lex.Intents[string(kind)] {
			if strings.Contains(lower, kw) {
				return kind
			}
		}
	}
	return model.IntentUnknown
}

// periodHit is a period reference with its byte offset, so hits from
// the different scanners can be merged in appearance order.
type periodHit struct {
	pos  int
	text string
}

func findPeriodTexts(lower string, lex *lexicon) []string {
	var hits []periodHit

	for _, loc := range canonicalPeriodRe.FindAllStringIndex(lower, -1) {
		hits = append(hits, periodHit{loc[0], lower[loc[0]:loc[1]]})
	}
	for _, loc := range compactPeriodRe.FindAllStringIndex(lower, -1) {
		hits = append(hits, periodHit{loc[0], lower[loc[0]:loc[1]]})
	}

	// Month names, optionally followed by a year token.
	tokens := tokenize(lower)
	for i, tok := range tokens {
		if _, ok := lex.Months[tok.text]; !ok {
			continue
		}
		text := tok.text
		if i+1 < len(tokens) && yearRe.MatchString(tokens[i+1].text) {
			text = tok.text + " " + tokens[i+1].text
		}
		hits = append(hits, periodHit{tok.pos, text})
	}

	for phrase := range lex.Relative {
		if pos := strings.Index(lower, phrase); pos >= 0 {
			hits = append(hits, periodHit{pos, phrase})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.text)
	}
	return out
}

// findServiceTexts collects service-name mentions, each once, in
// appearance order. Project mentions have no alias table, so the rule
// extractor never produces them; Gemini can.
func findServiceTexts(lower string, lang model.Language) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenize(lower) {
		if _, ok := LookupService(tok.text, lang); !ok || seen[tok.text] {
			continue
		}
		seen[tok.text] = true
		out = append(out, tok.text)
	}
	return out
}

func findDimensionText(lower string, lang model.Language) string {
	for _, tok := range tokenize(lower) {
		if _, ok := LookupDimension(tok.text, lang); ok {
			return tok.text
		}
	}
	return ""
}

type token struct {
	pos  int
	text string
}

// tokenize splits on non-word runes, keeping digits and hyphens inside
// tokens so "2025-09" survives as one token.
func tokenize(s string) []token {
	var tokens []token
	start := -1
	for i, r := range s {
		word := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		if word && start < 0 {
			start = i
		}
		if !word && start >= 0 {
			tokens = append(tokens, token{start, s[start:i]})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start, s[start:]})
	}
	return tokens
}
