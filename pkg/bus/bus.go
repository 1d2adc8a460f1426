package bus

import (
	"log/slog"
	"sync"
)

// maxDepth bounds same-event re-entrant publishing.
// A handler publishing the event it was invoked for is allowed
// up to this nesting depth, deeper publishes are dropped.
const maxDepth = 8

type Handler func(payload any)

type WildcardHandler func(event string, payload any)

// A Subscription identifies a registered handler for Unsubscribe.
type Subscription struct {
	event string
	id    uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

type wildcardSubscriber struct {
	id      uint64
	handler WildcardHandler
}

// A Bus is a synchronous publish/subscribe channel.
//
// Publish dispatches depth-first: all handlers registered for the
// event run in subscription order before Publish returns, and a
// handler publishing again triggers full nested dispatch first.
// Events are never queued or deduplicated.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	subs      map[string][]subscriber
	wildcards []wildcardSubscriber
	depth     map[string]int
}

func New() *Bus {
	return &Bus{
		subs:  make(map[string][]subscriber),
		depth: make(map[string]int),
	}
}

// Subscribe registers the handler for event.
// Handlers for one event run in subscription order.
func (b *Bus) Subscribe(event string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[event] = append(b.subs[event], subscriber{b.nextID, h})
	return Subscription{event: event, id: b.nextID}
}

// SubscribeAll registers a handler receiving every published event,
// used for cross-cutting logging and telemetry.
func (b *Bus) SubscribeAll(h WildcardHandler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.wildcards = append(b.wildcards, wildcardSubscriber{b.nextID, h})
	return Subscription{id: b.nextID}
}

// Unsubscribe removes the handler identified by s.
// Unknown subscriptions are a no-op.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.event == "" {
		for i, w := range b.wildcards {
			if w.id == s.id {
				b.wildcards = append(b.wildcards[:i:i], b.wildcards[i+1:]...)
				return
			}
		}
		return
	}

	ss := b.subs[s.event]
	for i, sub := range ss {
		if sub.id == s.id {
			b.subs[s.event] = append(ss[:i:i], ss[i+1:]...)
			return
		}
	}
}

// Publish synchronously invokes all handlers currently registered for
// event, then all wildcard handlers. A panicking handler is logged and
// skipped, the remaining handlers still run.
func (b *Bus) Publish(event string, payload any) {
	const op = "Bus.Publish"

	b.mu.Lock()
	if b.depth[event] >= maxDepth {
		b.mu.Unlock()
		slog.Warn(
			"re-entrant publish depth exceeded, event dropped",
			"op", op, "event", event, "depth", maxDepth,
		)
		return
	}
	b.depth[event]++
	ss := append([]subscriber(nil), b.subs[event]...)
	ws := append([]wildcardSubscriber(nil), b.wildcards...)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.depth[event]--
		b.mu.Unlock()
	}()

	for _, s := range ss {
		b.dispatch(event, payload, s.handler)
	}
	for _, w := range ws {
		h := w.handler
		b.dispatch(event, payload, func(p any) { h(event, p) })
	}
}

func (b *Bus) dispatch(event string, payload any, h Handler) {
	const op = "Bus.dispatch"
	defer func() {
		if r := recover(); r != nil {
			slog.Error(
				"handler panicked",
				"op", op, "event", event, "panic", r,
			)
		}
	}()
	h(payload)
}
