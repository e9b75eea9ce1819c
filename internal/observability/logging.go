// Package observability provides tracing, domain metrics and websocket
// lifecycle logging.
package observability

import (
	"context"
	"log/slog"
)

// WSLogger logs websocket lifecycle events for one hub.
type WSLogger struct {
	hubName string
	logger  *slog.Logger
}

// NewWSLogger creates a WSLogger writing through logger.
func NewWSLogger(hubName string, logger *slog.Logger) *WSLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSLogger{hubName: hubName, logger: logger}
}

// LogConnect logs a websocket connection.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint, connections int) {
	l.logger.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("user_connections", connections),
	)
}

// LogDisconnect logs a websocket disconnection.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	l.logger.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason),
	)
}

// LogError logs a websocket error.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	l.logger.ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// LogLifecycle logs a hub-level event such as wiring or shutdown.
func (l *WSLogger) LogLifecycle(ctx context.Context, event string, attrs ...slog.Attr) {
	args := []any{slog.String("hub", l.hubName), slog.String("event", event)}
	for _, a := range attrs {
		args = append(args, a)
	}
	l.logger.InfoContext(ctx, "websocket lifecycle", args...)
}
