// Package agent wires extraction, resolution, analytics, and
// composition into the turn pipeline behind HandleQuestion.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirill-demidov/gcp-cost-agent/internal/analytics"
	"github.com/kirill-demidov/gcp-cost-agent/internal/compose"
	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/nlu"
	"github.com/kirill-demidov/gcp-cost-agent/internal/resolve"
	"github.com/kirill-demidov/gcp-cost-agent/internal/session"
)

// Answer is the rendered outcome of one turn.
type Answer struct {
	Text     string
	Language model.Language
	Intent   model.Intent
}

// Agent handles questions end to end. All dependencies are injected;
// the agent owns no goroutines and is safe for concurrent turns on
// distinct sessions.
type Agent struct {
	extractor nlu.Extractor
	resolver  *resolve.Resolver
	sessions  session.Store
	engine    *analytics.Engine
	clock     session.Clock
	log       *slog.Logger
}

// New assembles an agent.
func New(extractor nlu.Extractor, resolver *resolve.Resolver, sessions session.Store,
	engine *analytics.Engine, clock session.Clock, log *slog.Logger) *Agent {
	if clock == nil {
		clock = session.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Agent{
		extractor: extractor,
		resolver:  resolver,
		sessions:  sessions,
		engine:    engine,
		clock:     clock,
		log:       log,
	}
}

// HandleQuestion runs one turn. Questions the agent cannot resolve
// produce clarification answers, not errors; the session context is
// committed only after a successful analytic outcome, so a failed turn
// leaves the previous context untouched. The error return is reserved
// for infrastructure failures the caller must surface as such.
func (a *Agent) HandleQuestion(ctx context.Context, sessionID, question string) (Answer, error) {
	receivedAt := a.clock.Now()

	bag, err := a.extractor.Extract(ctx, question)
	if err != nil {
		// The rule extractor never fails; reaching this means even the
		// fallback path broke.
		return Answer{}, fmt.Errorf("agent: extraction failed: %w", err)
	}
	lang := bag.Language
	a.log.Debug("extracted entities",
		"session", sessionID, "signal", bag.IntentSignal, "periods", len(bag.PeriodTexts))

	prior := a.sessions.Get(sessionID)

	intent, err := a.resolver.Resolve(bag, prior, receivedAt)
	if err != nil {
		a.log.Info("turn needs clarification", "session", sessionID, "reason", err)
		return Answer{Text: compose.Error(lang, err), Language: lang}, nil
	}

	result, err := a.engine.Run(ctx, intent)
	if err != nil {
		if errors.Is(err, model.ErrDataUnavailable) {
			a.log.Warn("billing data unavailable", "session", sessionID, "error", err)
			return Answer{Text: compose.Error(lang, err), Language: lang, Intent: intent}, nil
		}
		return Answer{}, fmt.Errorf("agent: running %s: %w", intent.Kind, err)
	}

	a.sessions.Commit(sessionID, contextFrom(intent))

	return Answer{
		Text:     compose.Result(intent, result),
		Language: lang,
		Intent:   intent,
	}, nil
}

// Reset drops the conversational context for a session.
func (a *Agent) Reset(sessionID string) {
	a.sessions.Reset(sessionID)
}

// contextFrom derives the next session context from a completed turn.
// Pair intents keep the later period, so "and compared to June?" works
// off the most recent month discussed.
func contextFrom(intent model.Intent) session.Context {
	next := session.Context{
		LastIntent:    intent.Kind,
		LastDimension: intent.Dimension,
	}
	switch intent.Kind {
	case model.IntentTotalCost, model.IntentByProject, model.IntentByService:
		p := intent.Period
		next.LastPeriod = &p
	case model.IntentComparePeriods, model.IntentBenchmark:
		p := intent.Comparand
		next.LastPeriod = &p
	default:
		start, end := intent.Start, intent.End
		next.LastPeriod = &start
		next.LastPeriodEnd = &end
	}
	return next
}
