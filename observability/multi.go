package observability

import "context"

// MultiObserver delivers each event to every observer it holds, in order.
// The responder uses it to pair log emission with fault-handler delivery.
type MultiObserver struct {
	targets []Observer
}

// NewMultiObserver builds a MultiObserver from the given observers. Nil
// entries are discarded so callers can pass optional observers directly.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	targets := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			targets = append(targets, obs)
		}
	}
	return &MultiObserver{targets: targets}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.targets {
		obs.OnEvent(ctx, event)
	}
}
