package connection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/identity"
)

var testIdentity = identity.Identity{ID: "user-1", Role: "manager"}

// frameCollector is a FrameHandler capturing delivered frames.
type frameCollector struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *frameCollector) OnFrame(raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, raw)
}

func (c *frameCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// mockEventServer accepts WebSocket upgrades, counts them, and hands each
// connection to handler.
type mockEventServer struct {
	server *httptest.Server
	dials  atomic.Int64
}

func newMockEventServer(t *testing.T, handler func(*websocket.Conn)) *mockEventServer {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	s := &mockEventServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		s.dials.Add(1)
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(s.server.Close)

	return s
}

func (s *mockEventServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

// readAuth reads and decodes the first inbound frame, which must be the
// auth frame.
func readAuth(t *testing.T, conn *websocket.Conn) event.AuthFrame {
	t.Helper()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Errorf("reading auth frame: %v", err)
		return event.AuthFrame{}
	}

	var frame event.AuthFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		t.Errorf("decoding auth frame: %v", err)
	}
	return frame
}

func testConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.ReconnectDelay = 100 * time.Millisecond
	return cfg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestManager_ConnectSendsAuthFrame(t *testing.T) {
	authCh := make(chan event.AuthFrame, 1)
	server := newMockEventServer(t, func(conn *websocket.Conn) {
		authCh <- readAuth(t, conn)

		// Push one event frame, then hold the connection open.
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"room-status-changed","data":{},"timestamp":"2025-06-01T12:00:00Z"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	handler := &frameCollector{}
	m := NewManager(testConfig(server.url()), handler, nil)
	defer m.Disconnect()

	m.Connect(testIdentity)

	select {
	case frame := <-authCh:
		if frame.Type != event.TypeAuth {
			t.Errorf("first frame type = %q, want auth", frame.Type)
		}
		if frame.UserID != "user-1" || frame.Role != "manager" {
			t.Errorf("auth frame = %+v, want session identity", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the auth frame")
	}

	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "connected state")
	waitFor(t, 2*time.Second, func() bool { return handler.count() == 1 }, "frame delivery")
}

func TestManager_ConnectWhileConnectedIsNoOp(t *testing.T) {
	server := newMockEventServer(t, func(conn *websocket.Conn) {
		readAuth(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	m := NewManager(testConfig(server.url()), &frameCollector{}, nil)
	defer m.Disconnect()

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "connected state")

	m.Connect(testIdentity)
	m.Connect(testIdentity)
	time.Sleep(50 * time.Millisecond)

	if dials := server.dials.Load(); dials != 1 {
		t.Errorf("dials = %d, want 1 (duplicate Connect must not open a second socket)", dials)
	}
}

func TestManager_UnexpectedCloseSchedulesSingleRetry(t *testing.T) {
	var server *mockEventServer
	server = newMockEventServer(t, func(conn *websocket.Conn) {
		readAuth(t, conn)
		if server.dials.Load() == 1 {
			return // drop the first connection immediately
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	m := NewManager(testConfig(server.url()), &frameCollector{}, nil)
	defer m.Disconnect()

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateReconnectScheduled }, "reconnect scheduled")

	// Before the fixed delay elapses there must be no second dial.
	time.Sleep(50 * time.Millisecond)
	if dials := server.dials.Load(); dials != 1 {
		t.Fatalf("dials = %d before the retry delay, want 1", dials)
	}

	// Exactly one retry fires after the delay and recovers the stream.
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "reconnection")
	if dials := server.dials.Load(); dials != 2 {
		t.Errorf("dials = %d after recovery, want 2", dials)
	}
}

func TestManager_DisconnectSuppressesReconnect(t *testing.T) {
	server := newMockEventServer(t, func(conn *websocket.Conn) {
		readAuth(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	m := NewManager(testConfig(server.url()), &frameCollector{}, nil)

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "connected state")

	m.Disconnect()
	if m.State() != StateDisconnected {
		t.Errorf("State = %v after Disconnect, want disconnected", m.State())
	}

	// The server-side close that follows must not be treated as unexpected.
	time.Sleep(3 * m.cfg.ReconnectDelay)
	if dials := server.dials.Load(); dials != 1 {
		t.Errorf("dials = %d, want 1 (no reconnect after explicit Disconnect)", dials)
	}
	if m.State() != StateDisconnected {
		t.Errorf("State = %v, want disconnected until the next explicit Connect", m.State())
	}
}

func TestManager_DisconnectClearsPendingRetry(t *testing.T) {
	server := newMockEventServer(t, func(conn *websocket.Conn) {
		readAuth(t, conn)
		// Drop every connection immediately.
	})

	m := NewManager(testConfig(server.url()), &frameCollector{}, nil)

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateReconnectScheduled }, "reconnect scheduled")

	m.Disconnect()

	time.Sleep(3 * m.cfg.ReconnectDelay)
	if dials := server.dials.Load(); dials != 1 {
		t.Errorf("dials = %d, want 1 (pending retry cleared by Disconnect)", dials)
	}
}

func TestManager_DialFailureSchedulesRetry(t *testing.T) {
	// A server that is already gone: the socket never opens.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := "ws" + strings.TrimPrefix(dead.URL, "http")
	dead.Close()

	m := NewManager(testConfig(url), &frameCollector{}, nil)
	defer m.Disconnect()

	m.Connect(testIdentity)

	waitFor(t, 2*time.Second, func() bool { return m.State() == StateReconnectScheduled }, "reconnect scheduled after dial failure")
}

func TestManager_ConnectAfterDisconnectReconnects(t *testing.T) {
	server := newMockEventServer(t, func(conn *websocket.Conn) {
		readAuth(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	m := NewManager(testConfig(server.url()), &frameCollector{}, nil)
	defer m.Disconnect()

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "first connect")

	m.Disconnect()

	m.Connect(testIdentity)
	waitFor(t, 2*time.Second, func() bool { return m.State() == StateConnected }, "second connect")

	if dials := server.dials.Load(); dials != 2 {
		t.Errorf("dials = %d, want 2", dials)
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "plain page", base: "http://dashboard.local:8080", want: "ws://dashboard.local:8080/api/events"},
		{name: "secure page", base: "https://dashboard.example.com", want: "wss://dashboard.example.com/api/events"},
		{name: "ws passthrough", base: "ws://dashboard.local:8080", want: "ws://dashboard.local:8080/api/events"},
		{name: "wss passthrough", base: "wss://dashboard.example.com", want: "wss://dashboard.example.com/api/events"},
		{name: "path replaced", base: "https://dashboard.example.com/some/page?q=1", want: "wss://dashboard.example.com/api/events"},
		{name: "unsupported scheme", base: "ftp://dashboard.local", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndpointURL(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("EndpointURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("EndpointURL = %q, want %q", got, tt.want)
			}
		})
	}
}
