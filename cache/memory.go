package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

const janitorInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryProvider struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	closed  bool
	stop    chan struct{}
	notifier
}

// NewMemoryProvider creates a process-local Provider backed by a map.
// Expired entries are invisible to Get immediately and reclaimed by a
// background janitor. Subscribe handlers never fire.
func NewMemoryProvider() Provider {
	p := &memoryProvider{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go p.janitor()
	return p
}

func (p *memoryProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, false, ErrClosed
	}

	e, ok := p.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(e.value), true, nil
}

func (p *memoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (p *memoryProvider) ClearAll(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.entries = make(map[string]memoryEntry)
	return nil
}

func (p *memoryProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.stop)
	p.entries = nil
	return nil
}

func (p *memoryProvider) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

func (p *memoryProvider) sweep() {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	for key, e := range p.entries {
		if now.After(e.expiresAt) {
			delete(p.entries, key)
		}
	}
}
