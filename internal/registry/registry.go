// Package registry implements the Subscription Registry: a mapping from
// event-type key to an ordered list of observer callbacks.
package registry

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/opsdeck/opsdeck/internal/event"
)

// Callback receives one envelope per dispatch of its event type.
type Callback func(event.Envelope)

// subscription pairs a callback with an opaque handle so that the disposer
// removes exactly this entry, never a sibling registered for the same type.
type subscription struct {
	id uuid.UUID
	fn Callback
}

// Registry maps event types to ordered listener lists. Safe for concurrent
// subscribe/unsubscribe/dispatch.
type Registry struct {
	logger *slog.Logger

	mu        sync.Mutex
	listeners map[string][]subscription
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		logger:    logger,
		listeners: make(map[string][]subscription),
	}
}

// Subscribe appends fn to the listener list for eventType and returns a
// disposer that removes exactly that entry. The disposer is idempotent:
// calling it twice, or after the entry is already gone, is a no-op.
func (r *Registry) Subscribe(eventType string, fn Callback) (cancel func()) {
	sub := subscription{id: uuid.New(), fn: fn}

	r.mu.Lock()
	r.listeners[eventType] = append(r.listeners[eventType], sub)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		subs := r.listeners[eventType]
		for i := range subs {
			if subs[i].id == sub.id {
				r.listeners[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(r.listeners[eventType]) == 0 {
			delete(r.listeners, eventType)
		}
	}
}

// Dispatch invokes every listener registered for env.Type in registration
// order. Unknown types are not errors; there is simply nothing to do. A
// panicking listener is logged and skipped; it does not abort delivery to
// the remaining listeners and stays registered for future dispatches.
//
// The listener list is snapshotted before iterating, so a listener that
// subscribes or unsubscribes during dispatch cannot corrupt the in-progress
// iteration.
func (r *Registry) Dispatch(env event.Envelope) {
	r.mu.Lock()
	subs := r.listeners[env.Type]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	r.mu.Unlock()

	for _, sub := range snapshot {
		r.invoke(sub, env)
	}
}

// Len reports how many listeners are registered for eventType.
func (r *Registry) Len(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners[eventType])
}

func (r *Registry) invoke(sub subscription, env event.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event listener panicked",
				"event_type", env.Type,
				"subscription", sub.id,
				"panic", rec,
			)
		}
	}()

	sub.fn(env)
}
