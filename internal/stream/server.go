package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/opsdeck/opsdeck/internal/connection"
	"github.com/opsdeck/opsdeck/internal/event"
)

const (
	authTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Server exposes the event stream endpoint.
type Server struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a Server backed by hub.
func NewServer(hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Same-origin checks belong to the fronting proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the event stream plus a health probe.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get(connection.EventPath, s.handleEvents)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"subscribers": s.hub.Subscribers(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The first inbound frame must be the session's auth frame.
	conn.SetReadDeadline(time.Now().Add(authTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		s.logger.Warn("client sent no auth frame", "error", err)
		return
	}

	var auth event.AuthFrame
	if err := json.Unmarshal(raw, &auth); err != nil || auth.Type != event.TypeAuth {
		s.logger.Warn("first frame was not an auth frame")
		return
	}
	conn.SetReadDeadline(time.Time{})

	logger := s.logger.With("user_id", auth.UserID, "role", auth.Role)
	logger.Info("session connected")

	events, cancel := s.hub.Subscribe()
	defer cancel()

	// Drain inbound frames so pings are answered and the client close
	// surfaces promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			logger.Info("session disconnected")
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(env); err != nil {
				logger.Warn("write failed, dropping session", "error", err)
				return
			}
		}
	}
}
