package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

const instrumentationName = "github.com/wricardo/mcp-training/graphracers/game/service"

// serviceMetrics records match activity on an OTel meter provider
type serviceMetrics struct {
	liveSessions metric.Int64ObservableGauge
	matches      metric.Int64Counter
	moves        metric.Int64Counter
	crashes      metric.Int64Counter
	eliminations metric.Int64Counter
	wins         metric.Int64Counter
}

func newServiceMetrics(provider metric.MeterProvider, sessions SessionManager) (*serviceMetrics, error) {
	m := provider.Meter(instrumentationName)
	sm := &serviceMetrics{}

	var err error
	sm.liveSessions, err = m.Int64ObservableGauge(
		"graphracers.sessions.live",
		metric.WithDescription("Current number of match sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live sessions gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(sm.liveSessions, int64(sessions.Count()))
			return nil
		},
		sm.liveSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("registering sessions callback: %w", err)
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&sm.matches, "graphracers.matches.created", "Total matches created"},
		{&sm.moves, "graphracers.moves.submitted", "Total moves accepted"},
		{&sm.crashes, "graphracers.crashes", "Total crashes, including forced severe crashes"},
		{&sm.eliminations, "graphracers.eliminations", "Total players eliminated"},
		{&sm.wins, "graphracers.wins", "Total matches won"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	return sm, nil
}

func (sm *serviceMetrics) matchCreated(ctx context.Context, trackID string, players int) {
	sm.matches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("track", trackID),
		attribute.Int("players", players)))
}

// moveResolved counts the move itself and every crash, elimination and win
// among the events it produced
func (sm *serviceMetrics) moveResolved(ctx context.Context, trackID string, events []engine.Event) {
	trackAttr := metric.WithAttributes(attribute.String("track", trackID))
	sm.moves.Add(ctx, 1, trackAttr)

	for _, ev := range events {
		switch ev.Type {
		case engine.EventCrash, engine.EventSevereCrash:
			sm.crashes.Add(ctx, 1, metric.WithAttributes(
				attribute.String("track", trackID),
				attribute.String("kind", string(ev.Type))))
		case engine.EventEliminated:
			sm.eliminations.Add(ctx, 1, trackAttr)
		case engine.EventWin:
			sm.wins.Add(ctx, 1, trackAttr)
		}
	}
}
