package bus

import (
	"context"
	"sync"
	"time"
)

// MemoryBus delivers events in process. It backs single-instance deployments
// without REDIS_ADDR and tests.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []func(Event)
	events   []Event
	keep     bool
}

// NewMemoryBus returns a bus; when keep is set every published event is retained for Events.
func NewMemoryBus(keep bool) *MemoryBus { return &MemoryBus{keep: keep} }

func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.Lock()
	if b.keep {
		b.events = append(b.events, ev)
	}
	handlers := append([]func(Event){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error {
	if onEvent == nil {
		return nil
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, onEvent)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBus) Events() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Event(nil), b.events...)
}

func (b *MemoryBus) Close() error { return nil }
