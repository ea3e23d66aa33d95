// Package observability carries fault and lifecycle events from the
// responder's subsystems to logging and to the application's registered
// fault handler. Level values align with OpenTelemetry SeverityNumbers.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Kind identifies the kind of event. Each subsystem defines its own
// constants using this type (e.g., "responder.fault.error").
type Kind string

// Event is a single observable occurrence. Detail carries the human-readable
// description handed to fault handlers; Data carries structured attributes
// for log emission.
type Event struct {
	Kind   Kind
	Level  Level
	Time   time.Time
	Source string
	Detail string
	Data   map[string]any
}

// Observer receives events from subsystems for logging or notification.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}
