package responder

import (
	"github.com/rmay1er/ai-responder/cache"
	"github.com/rmay1er/ai-responder/observability"
)

// Responder event kinds emitted to the observer alongside the fault handler.
const (
	EventError        observability.Kind = "responder.error"
	EventConnect      observability.Kind = "responder.cache.connect"
	EventReconnecting observability.Kind = "responder.cache.reconnecting"
	EventEnd          observability.Kind = "responder.cache.end"
	EventClean        observability.Kind = "responder.shutdown.clean"
)

func eventFor(kind cache.EventKind) (observability.Kind, observability.Level) {
	switch kind {
	case cache.EventError:
		return EventError, observability.LevelError
	case cache.EventConnect:
		return EventConnect, observability.LevelInfo
	case cache.EventReconnecting:
		return EventReconnecting, observability.LevelWarning
	case cache.EventEnd:
		return EventEnd, observability.LevelInfo
	case cache.EventClean:
		return EventClean, observability.LevelInfo
	default:
		return EventError, observability.LevelWarning
	}
}
