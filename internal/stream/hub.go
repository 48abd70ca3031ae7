package stream

import (
	"log/slog"
	"sync"

	"github.com/opsdeck/opsdeck/internal/event"
)

// Hub fans events out to subscribers using per-subscriber buffered channels.
type Hub struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[uint64]chan event.Envelope
	nextID      uint64
	buffer      int
}

// NewHub creates a Hub with the given per-subscriber buffer size.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer < 1 {
		buffer = 1
	}

	return &Hub{
		logger:      logger,
		subscribers: make(map[uint64]chan event.Envelope),
		buffer:      buffer,
	}
}

// Publish delivers the envelope to all subscribers. A subscriber whose
// buffer is full drops the event so publishers never block.
func (h *Hub) Publish(env event.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- env:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"subscriber", id,
				"event_type", env.Type,
			)
		}
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel is idempotent.
func (h *Hub) Subscribe() (<-chan event.Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan event.Envelope, h.buffer)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
