package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Stream.Channel == "" {
		return errors.New("stream.channel is required")
	}
	if c.Stream.ClientBuffer < 1 {
		return errors.New("stream.client_buffer must be >= 1")
	}

	return c.Realtime.Validate()
}

// Validate checks the client-side connection settings. The dashboard client
// validates only this section; it never touches the database.
func (r *RealtimeConfig) Validate() error {
	if r.BaseURL == "" {
		return errors.New("realtime.base_url is required")
	}
	if r.ReconnectDelay <= 0 {
		return errors.New("realtime.reconnect_delay must be positive")
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
