// Package router implements the Message Router: it decodes each inbound
// frame into an event envelope and feeds it, independently, to the
// Subscription Registry and the Notification Policy.
package router

import (
	"log/slog"
	"sync"

	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/identity"
	"github.com/opsdeck/opsdeck/internal/notify"
	"github.com/opsdeck/opsdeck/internal/registry"
)

// Stats contains routing counters.
type Stats struct {
	FramesReceived int64
	DecodeErrors   int64
	Dispatched     int64
	Notified       int64
}

// Router routes decoded envelopes. Frames are handed to OnFrame in
// transport order by the connection's single reader, so dispatch for one
// frame completes before the next frame is processed.
type Router struct {
	registry  *registry.Registry
	ident     identity.Provider
	presenter notify.Presenter
	logger    *slog.Logger

	mu      sync.Mutex
	last    event.Envelope
	hasLast bool
	stats   Stats
}

// New creates a Router. presenter may be nil when nothing renders
// notifications (descriptors are then computed and dropped).
func New(reg *registry.Registry, ident identity.Provider, presenter notify.Presenter, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		registry:  reg,
		ident:     ident,
		presenter: presenter,
		logger:    logger,
	}
}

// OnFrame decodes one raw text frame and routes the result. A frame that
// fails to decode is logged and discarded; it never crashes the connection
// and triggers neither dispatch nor notification.
func (r *Router) OnFrame(raw []byte) {
	r.mu.Lock()
	r.stats.FramesReceived++
	r.mu.Unlock()

	env, err := event.Decode(raw)
	if err != nil {
		r.logger.Warn("discarding malformed frame", "error", err)
		r.mu.Lock()
		r.stats.DecodeErrors++
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	r.last = env
	r.hasLast = true
	r.mu.Unlock()

	// Registry dispatch and policy evaluation are independent: a failure in
	// one must not suppress the other.
	r.dispatch(env)
	r.evaluate(env)
}

// Last returns the most recently decoded envelope, for consumers that want
// to inspect current state synchronously.
func (r *Router) Last() (event.Envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}

// Stats returns current routing counters.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Router) dispatch(env event.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("registry dispatch panicked", "event_type", env.Type, "panic", rec)
		}
	}()

	r.registry.Dispatch(env)

	r.mu.Lock()
	r.stats.Dispatched++
	r.mu.Unlock()
}

func (r *Router) evaluate(env event.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("notification evaluation panicked", "event_type", env.Type, "panic", rec)
		}
	}()

	var id identity.Identity
	if r.ident != nil {
		id, _ = r.ident.Current()
	}

	desc, ok := notify.Decide(env, id)
	if !ok {
		return
	}

	r.mu.Lock()
	r.stats.Notified++
	r.mu.Unlock()

	if r.presenter != nil {
		r.presenter.Present(desc)
	}
}
