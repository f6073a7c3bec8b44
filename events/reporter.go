package events

import (
	"sync"
	"time"
)

// Reporter fans events out to subscriber channels. Emits never block: a
// subscriber that stopped draining its channel misses events instead of
// stalling the engine.
type Reporter struct {
	mu     sync.RWMutex
	bufsz  int
	subs   map[int]chan UserEvent
	nextID int
	closed bool
}

// NewReporter creates a reporter with the given per-subscriber buffer size.
func NewReporter(bufsz int) *Reporter {
	if bufsz <= 0 {
		bufsz = 32
	}
	return &Reporter{
		bufsz: bufsz,
		subs:  map[int]chan UserEvent{},
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes the
// subscription and closes the channel.
func (r *Reporter) Subscribe() (<-chan UserEvent, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	ch := make(chan UserEvent, r.bufsz)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	r.subs[id] = ch
	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, exist := r.subs[id]; exist {
			delete(r.subs, id)
			close(sub)
		}
	}
}

// Emit publishes an event to all subscribers without blocking.
func (r *Reporter) Emit(typ EventType, details any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	event := UserEvent{
		Timestamp: time.Now(),
		Type:      typ,
		Details:   details,
	}
	for _, sub := range r.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close closes all subscriber channels. Further emits are dropped.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for id, sub := range r.subs {
		delete(r.subs, id)
		close(sub)
	}
}
