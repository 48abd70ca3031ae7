package connection

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/identity"
)

// Manager owns the one live socket, the connection state machine, and the
// exclusive reconnect timer.
//
// Invariants, held at the start and end of every callback: at most one live
// socket exists, and at most one retry timer is pending. The generation
// counter invalidates callbacks from torn-down sockets, so a close that
// arrives after an explicit Disconnect never schedules a reconnect.
type Manager struct {
	cfg     Config
	handler FrameHandler
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
	retry *time.Timer
	ident identity.Identity
	gen   uint64
}

// NewManager creates a Manager in the Disconnected state.
func NewManager(cfg Config, handler FrameHandler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Connect opens the event stream for the given session identity. It is a
// no-op while already Connected or Connecting, which guards against
// duplicate sockets. A pending retry timer is cancelled: an explicit
// Connect supersedes the scheduled one.
func (m *Manager) Connect(id identity.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectLocked(id)
}

func (m *Manager) connectLocked(id identity.Identity) {
	if m.state == StateConnected || m.state == StateConnecting {
		return
	}
	m.clearRetryLocked()
	m.setStateLocked(StateConnecting)
	m.ident = id
	m.gen++

	go m.dial(m.gen)
}

// Disconnect closes the socket if present, clears any pending retry timer
// synchronously, and transitions to Disconnected. Intended for session end:
// auto-reconnect stays suppressed until the next explicit Connect.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.gen++ // invalidate in-flight dial and read callbacks
	m.clearRetryLocked()
	conn := m.conn
	m.conn = nil
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	}

	m.logger.Info("disconnected")
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// dial runs off the caller's goroutine; gorilla's dial blocks.
func (m *Manager) dial(gen uint64) {
	dialer := websocket.Dialer{HandshakeTimeout: m.cfg.HandshakeTimeout}

	conn, _, err := dialer.Dial(m.cfg.URL, nil)
	if err != nil {
		m.logger.Warn("dial failed", "url", m.cfg.URL, "error", err)
		m.scheduleRetry(gen)
		return
	}

	m.mu.Lock()
	if gen != m.gen || m.state != StateConnecting {
		// Disconnect raced the dial; this socket must not survive.
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.setStateLocked(StateConnected)
	m.clearRetryLocked()
	ident := m.ident
	m.mu.Unlock()

	// Auth frame goes out exactly once per successful open, before any
	// inbound frame is read.
	frame := event.AuthFrame{Type: event.TypeAuth, UserID: ident.ID, Role: ident.Role}
	conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		m.logger.Warn("auth frame write failed", "error", err)
		m.handleClose(gen, err)
		return
	}

	m.logger.Info("connected", "url", m.cfg.URL, "user_id", ident.ID)

	go m.readLoop(conn, gen)
}

// readLoop is the single reader for one socket generation. Every transport
// failure surfaces here as a read error, so this is the one close-equivalent
// exit point that owns reconnect scheduling.
func (m *Manager) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(gen, err)
			return
		}
		m.handler.OnFrame(raw)
	}
}

// handleClose reacts to a socket that stopped without an explicit
// Disconnect. Stale generations are ignored.
func (m *Manager) handleClose(gen uint64, err error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	m.logger.Warn("connection lost", "error", err)
	m.scheduleRetry(gen)
}

// scheduleRetry schedules the single reconnect attempt. If a retry is
// already pending, no second timer is created: overlapping close events
// must not cause reconnect storms.
func (m *Manager) scheduleRetry(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return
	}

	m.setStateLocked(StateReconnectScheduled)
	if m.retry != nil {
		return
	}

	m.logger.Info("reconnect scheduled", "delay", m.cfg.ReconnectDelay)
	m.retry = time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if gen != m.gen {
			// Stopped too late by Disconnect; a newer session may own
			// m.retry by now, so leave it alone.
			return
		}

		m.retry = nil
		if m.state != StateReconnectScheduled {
			return
		}

		m.logger.Info("reconnecting", "user_id", m.ident.ID)
		m.connectLocked(m.ident)
	})
}

func (m *Manager) clearRetryLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

func (m *Manager) setStateLocked(s State) {
	if m.state == s {
		return
	}
	m.logger.Debug("connection state", "from", m.state, "to", s)
	m.state = s
}
