package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerHost       = "127.0.0.1"
	DefaultServerPort       = 8080
	DefaultLogLevel         = "info"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultStreamChannel    = "opsdeck_events"
	DefaultClientBuffer     = 32
	DefaultBaseURL          = "http://127.0.0.1:8080"
	DefaultReconnectDelay   = 5 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Stream defaults
	if c.Stream.Channel == "" {
		c.Stream.Channel = DefaultStreamChannel
	}
	if c.Stream.ClientBuffer == 0 {
		c.Stream.ClientBuffer = DefaultClientBuffer
	}

	// Realtime defaults
	if c.Realtime.BaseURL == "" {
		c.Realtime.BaseURL = DefaultBaseURL
	}
	if c.Realtime.ReconnectDelay == 0 {
		c.Realtime.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Realtime.HandshakeTimeout == 0 {
		c.Realtime.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Realtime.WriteTimeout == 0 {
		c.Realtime.WriteTimeout = DefaultWriteTimeout
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
