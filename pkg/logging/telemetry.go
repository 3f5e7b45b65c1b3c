package logging

import (
	"context"
	"log/slog"

	"github.com/opd-ai/go-asteroid-run/pkg/event"
)

// EventLogger writes one structured record per game event published on a bus.
type EventLogger struct {
	logger *Logger
	ctx    context.Context
	subs   []*event.Subscription
}

// NewEventLogger subscribes to every game event type on bus. Records carry
// the correlation ID found in ctx.
func NewEventLogger(ctx context.Context, logger *Logger, bus *event.Bus) *EventLogger {
	l := &EventLogger{
		logger: logger.WithComponent("telemetry"),
		ctx:    ctx,
	}
	for _, eventType := range event.AllTypes {
		l.subs = append(l.subs, bus.Subscribe(eventType, l.handle))
	}
	return l
}

// Close cancels all subscriptions
func (l *EventLogger) Close() {
	for _, sub := range l.subs {
		sub.Cancel()
	}
	l.subs = nil
}

func (l *EventLogger) handle(e event.Event) {
	level := slog.LevelInfo
	args := []any{"event", string(e.GetType())}

	switch ev := e.(type) {
	case *event.DifficultyEvent:
		args = append(args, "difficulty", ev.Level, "spawn_interval", ev.SpawnInterval,
			"min_speed", ev.MinSpeed, "max_speed", ev.MaxSpeed)
	case *event.WaveEvent:
		args = append(args, "count", ev.Count, "z", ev.Z)
	case *event.ScoreEvent:
		// Dodges and shots fire several times a second
		level = slog.LevelDebug
		args = append(args, "entity_id", ev.EntityID, "points", ev.Points)
	case *event.ShipHitEvent:
		args = append(args, "x", ev.Position.X(), "z", ev.Position.Z(), "lives", ev.LivesRemaining)
	case *event.BossEvent:
		args = append(args, "level", ev.Level, "health", ev.Health, "points", ev.Points)
	case *event.LevelEvent:
		args = append(args, "level", ev.Level)
	case *event.GameOverEvent:
		args = append(args, "score", ev.Score, "level", ev.Level, "elapsed_seconds", ev.Elapsed)
	}

	l.logger.Log(l.ctx, level, "game event", args...)
}
