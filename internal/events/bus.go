// Package events provides the in-process lifecycle event bus and the
// reactive handlers subscribed to it.
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Kind discriminates lifecycle event types on the bus.
type Kind string

const (
	// KindCircleDestroyed signals that an externally managed circle was
	// destroyed by its owner service.
	KindCircleDestroyed Kind = "circleDestroyed"
)

// Event is one lifecycle notification. Delivery is at-least-once; handlers
// must be idempotent.
type Event struct {
	// Kind identifies the event type.
	Kind Kind
	// CircleID carries the destroyed circle's opaque identifier for
	// KindCircleDestroyed events.
	CircleID string
}

// Bus is a minimal in-process publish/subscribe fan-out keyed by event kind.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind]map[chan Event]struct{}
	log  *zap.Logger
}

// NewBus constructs an empty Bus logging through the given logger.
func NewBus(log *zap.Logger) *Bus {
	return &Bus{subs: make(map[Kind]map[chan Event]struct{}), log: log}
}

// Subscribe registers a buffered channel for events of the given kind and
// returns it along with a cancel func that unregisters and closes it.
func (b *Bus) Subscribe(kind Kind) (ch chan Event, cancel func()) {
	ch = make(chan Event, 16)
	b.mu.Lock()
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[chan Event]struct{})
	}
	b.subs[kind][ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		if subs, ok := b.subs[kind]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, kind)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
}

// Publish delivers the event to every subscriber of its kind. Slow
// subscribers with a full buffer are skipped and logged rather than blocking
// the publisher.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[ev.Kind] {
		select {
		case ch <- ev:
		default:
			b.log.Warn("dropping event for slow subscriber", zap.String("kind", string(ev.Kind)))
		}
	}
}
