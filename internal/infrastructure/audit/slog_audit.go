package audit

import (
	"context"
	"log/slog"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// SlogAuditLogger implements domain.AuditLogger by writing structured log
// lines tagged audit=true through the request-scoped logger.
type SlogAuditLogger struct{}

// NewSlogAuditLogger creates a new audit logger
func NewSlogAuditLogger() domain.AuditLogger {
	return &SlogAuditLogger{}
}

// LogEvent implements domain.AuditLogger
func (a *SlogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	attrs := []slog.Attr{
		slog.Bool("audit", true),
		slog.String("event_type", string(event.EventType)),
		slog.Bool("success", event.Success),
		slog.Time("event_time", event.Timestamp),
	}
	if event.UserID != 0 {
		attrs = append(attrs, slog.Uint64("user_id", uint64(event.UserID)))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", event.Email))
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, slog.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		meta := make([]any, 0, len(event.Metadata))
		for k, v := range event.Metadata {
			meta = append(meta, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", meta...))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	logging.FromContext(ctx).LogAttrs(ctx, level, "audit_event", attrs...)
}
