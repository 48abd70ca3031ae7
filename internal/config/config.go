package config

import "time"

// Config is the root configuration for the opsdeck binaries.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Stream   StreamConfig   `yaml:"stream"`
	Realtime RealtimeConfig `yaml:"realtime"`
}

// ServerConfig holds the stream server's HTTP settings.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig holds the event-source database connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StreamConfig holds event fan-out settings for the stream server.
type StreamConfig struct {
	Channel      string `yaml:"channel"`       // Postgres NOTIFY channel carrying event frames
	ClientBuffer int    `yaml:"client_buffer"` // per-subscriber buffered events before dropping
}

// RealtimeConfig holds the dashboard client's connection settings.
type RealtimeConfig struct {
	BaseURL          string        `yaml:"base_url"` // dashboard origin; scheme picks ws vs wss
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}
