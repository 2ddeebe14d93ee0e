// Package cmd holds the cobra command tree.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/agent"
	"github.com/kirill-demidov/gcp-cost-agent/internal/analytics"
	"github.com/kirill-demidov/gcp-cost-agent/internal/config"
	"github.com/kirill-demidov/gcp-cost-agent/internal/nlu"
	"github.com/kirill-demidov/gcp-cost-agent/internal/resolve"
	"github.com/kirill-demidov/gcp-cost-agent/internal/session"
	"github.com/kirill-demidov/gcp-cost-agent/internal/store"
)

var (
	flagVerbose bool
	flagDBPath  string
)

var rootCmd = &cobra.Command{
	Use:   "gcp-cost-agent",
	Short: "Ask questions about your cloud spending",
	Long:  "A bilingual (EN/RU) natural-language agent over your cloud billing data: totals, breakdowns, comparisons, trends, anomalies, forecasts, and more.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// A missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Billing warehouse path (overrides config)")
}

// newLogger builds the process logger. Logs go to stderr so answers on
// stdout stay pipeable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runtime bundles everything a command needs to answer questions.
type runtime struct {
	cfg       config.Config
	agent     *agent.Agent
	warehouse *store.Warehouse
	sessions  *session.MemoryStore
	log       *slog.Logger
}

func (r *runtime) Close() {
	if r.warehouse != nil {
		_ = r.warehouse.Close()
	}
}

// buildRuntime is the shared assembly path used by ask, chat, and import.
func buildRuntime() (*runtime, error) {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dbPath := config.WarehousePath(cfg)
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	warehouse, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	var extractor nlu.Extractor
	if g := nlu.NewGemini(config.GetGeminiKey(cfg), cfg.Gemini.Model, log); g != nil {
		extractor = g
	} else {
		log.Debug("no gemini key configured, using rule-based extraction")
		extractor = nlu.NewRules()
	}

	sessions := session.NewMemoryStore(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute, session.SystemClock{})

	engine := analytics.NewEngine(warehouse, analytics.Config{
		AnomalyWindow:    cfg.Analytics.AnomalyWindow,
		AnomalyThreshold: cfg.Analytics.AnomalyThreshold,
	}, log)

	resolver := resolve.NewResolver(cfg.Analytics.TopK, cfg.Analytics.ForecastHorizon)

	return &runtime{
		cfg:       cfg,
		agent:     agent.New(extractor, resolver, sessions, engine, session.SystemClock{}, log),
		warehouse: warehouse,
		sessions:  sessions,
		log:       log,
	}, nil
}
