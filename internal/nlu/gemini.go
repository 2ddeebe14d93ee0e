package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 15 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the API key is missing or rejected.
	ErrUnauthorized = errors.New("nlu: gemini unauthorized (check API key)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("nlu: gemini rate limited")
)

// Gemini extracts entities by asking the Gemini API for a structured
// JSON reading of the question. Any failure (transport, status, or
// unparseable output) degrades to the rule-based extractor so a turn
// never fails on the NLU boundary.
type Gemini struct {
	apiKey   string
	model    string
	http     *http.Client
	fallback *Rules
	log      *slog.Logger
}

// NewGemini creates the extractor. Returns nil if the key is empty;
// callers then use NewRules directly.
func NewGemini(apiKey, modelName string, log *slog.Logger) *Gemini {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if modelName == "" {
		modelName = defaultModel
	}
	return &Gemini{
		apiKey:   apiKey,
		model:    modelName,
		http:     &http.Client{},
		fallback: NewRules(),
		log:      log,
	}
}

const extractionPrompt = `You classify questions about cloud billing costs.
The question may be in English or Russian.
Respond with ONLY a JSON object, no prose, with these fields:
  "language":  "en" or "ru"
  "intent":    one of TOTAL_COST, BY_PROJECT, BY_SERVICE, COMPARE_PERIODS,
               TREND, ANOMALY, FORECAST, SEASONALITY, OPTIMIZE, BENCHMARK,
               or UNKNOWN if the question is not about billing costs
  "periods":   period references exactly as written in the question, in
               order of appearance (e.g. ["2025-09"], ["июль", "август"],
               ["last month"]); [] if none
  "dimension": the grouping word as written ("project", "сервисам", ...) or ""
  "services":  cloud services the question restricts to, as written
               (e.g. ["storage"], ["vertex ai"]); [] if none
  "projects":  project ids the question restricts to, as written; [] if none
  "top_k":     requested list size, 0 if not stated
  "horizon":   requested forecast months, 0 if not stated

QUESTION: %s`

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// extraction is the JSON shape the prompt asks for.
type extraction struct {
	Language  string   `json:"language"`
	Intent    string   `json:"intent"`
	Periods   []string `json:"periods"`
	Dimension string   `json:"dimension"`
	Services  []string `json:"services"`
	Projects  []string `json:"projects"`
	TopK      int      `json:"top_k"`
	Horizon   int      `json:"horizon"`
}

// Extract asks Gemini for a structured reading of the question and
// falls back to rules when anything goes wrong.
func (g *Gemini) Extract(ctx context.Context, question string) (EntityBag, error) {
	text, err := g.generate(ctx, fmt.Sprintf(extractionPrompt, question))
	if err != nil {
		g.log.Warn("gemini extraction failed, using rules", "error", err)
		return g.fallback.Extract(ctx, question)
	}

	var ex extraction
	if err := json.Unmarshal([]byte(stripFences(text)), &ex); err != nil {
		g.log.Warn("gemini returned unparseable JSON, using rules", "error", err)
		return g.fallback.Extract(ctx, question)
	}

	bag := EntityBag{
		Language:      model.Language(ex.Language),
		IntentSignal:  model.IntentKind(ex.Intent),
		PeriodTexts:   ex.Periods,
		DimensionText: strings.ToLower(strings.TrimSpace(ex.Dimension)),
		ServiceTexts:  lowerAll(ex.Services),
		ProjectTexts:  lowerAll(ex.Projects),
		TopK:          ex.TopK,
		Horizon:       ex.Horizon,
	}
	if bag.Language != model.LangEnglish && bag.Language != model.LangRussian {
		bag.Language = DetectLanguage(question)
	}
	if !validIntent(bag.IntentSignal) {
		bag.IntentSignal = model.IntentUnknown
	}
	return bag, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("nlu: marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("nlu: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("nlu: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("nlu: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("nlu: reading response: %w", err)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("nlu: parsing response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("nlu: gemini error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("nlu: empty gemini response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func validIntent(k model.IntentKind) bool {
	switch k {
	case model.IntentTotalCost, model.IntentByProject, model.IntentByService,
		model.IntentComparePeriods, model.IntentTrend, model.IntentAnomaly,
		model.IntentForecast, model.IntentSeasonality, model.IntentOptimize,
		model.IntentBenchmark, model.IntentUnknown:
		return true
	}
	return false
}
