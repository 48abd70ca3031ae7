package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrBadEndpoint = errors.New("endpoint must be an http, https, ws, or wss URL")
)

// State is the connection lifecycle state. Exactly one Manager instance
// owns exactly one State; transitions happen only through the Manager's
// public operations and its internal open/close/timer callbacks.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnectScheduled
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectScheduled:
		return "reconnect_scheduled"
	default:
		return "unknown"
	}
}

// FrameHandler consumes raw inbound text frames. The Manager calls it from
// a single reader goroutine, so handling of one frame always completes
// before the next frame is delivered.
type FrameHandler interface {
	OnFrame(raw []byte)
}

// Config configures a Manager.
type Config struct {
	URL              string        // event endpoint (ws:// or wss://)
	ReconnectDelay   time.Duration // fixed wait before the single retry
	HandshakeTimeout time.Duration // dial deadline
	WriteTimeout     time.Duration // write deadline for outbound frames
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:   5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}
