package cache

import "sync"

// EventKind identifies a provider connectivity or lifecycle event.
type EventKind string

const (
	// EventError fires on a provider connectivity failure. The responder
	// layer also reports model-invocation failures under this kind.
	EventError EventKind = "error"
	// EventConnect fires when the remote provider establishes a connection.
	EventConnect EventKind = "connect"
	// EventReconnecting fires when the remote provider retries a lost
	// connection.
	EventReconnecting EventKind = "reconnecting"
	// EventEnd fires when the provider connection is closed for good.
	EventEnd EventKind = "end"
	// EventClean is emitted by the lifecycle layer once after a successful
	// flush-and-close, never by a provider itself.
	EventClean EventKind = "clean"
)

// Handler receives the detail string of a fired event.
type Handler func(detail string)

// notifier holds per-kind event handlers. Embedded by providers that fire
// connectivity events; safe for concurrent Subscribe and emit.
type notifier struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
}

func (n *notifier) Subscribe(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.handlers == nil {
		n.handlers = make(map[EventKind][]Handler)
	}
	n.handlers[kind] = append(n.handlers[kind], handler)
}

func (n *notifier) emit(kind EventKind, detail string) {
	n.mu.RLock()
	handlers := n.handlers[kind]
	n.mu.RUnlock()

	for _, h := range handlers {
		h(detail)
	}
}
