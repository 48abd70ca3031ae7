package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FrameFunc receives one raw event frame per NOTIFY.
type FrameFunc func(payload []byte)

// Listener holds a dedicated connection on LISTEN and forwards notification
// payloads, which are already JSON event frames, to a FrameFunc.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	logger  *slog.Logger
}

// NewListener creates a Listener for the given NOTIFY channel.
func NewListener(pool *pgxpool.Pool, channel string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}

	return &Listener{
		pool:    pool,
		channel: channel,
		logger:  logger,
	}
}

// Listen blocks until ctx is done or the listening connection fails,
// forwarding each notification payload to fn. The LISTEN connection is
// pinned for the whole call; pool queries are unaffected.
func (l *Listener) Listen(ctx context.Context, fn FrameFunc) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	listenSQL := "LISTEN " + pgx.Identifier{l.channel}.Sanitize()
	if _, err := conn.Exec(ctx, listenSQL); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}

	l.logger.Info("listening for events", "channel", l.channel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		fn([]byte(notification.Payload))
	}
}
