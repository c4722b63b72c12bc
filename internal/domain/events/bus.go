package events

import "sync"

// Handler consumes one event. Handlers never return errors: observers that
// fail are expected to log and swallow, the publisher proceeds regardless.
type Handler func(evt Event)

// Bus is a small in-process pub/sub hub. Delivery is synchronous and in
// subscription order, which keeps observer effects deterministic.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]Handler
	all  []Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]Handler)}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[t] = append(b.subs[t], h)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[evt.GetType()])+len(b.all))
	handlers = append(handlers, b.subs[evt.GetType()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}
