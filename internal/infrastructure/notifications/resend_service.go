package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// ResendServiceImpl implements domain.NotificationService over the Resend API
type ResendServiceImpl struct {
	client *resend.Client
	from   string
}

// NewResendService creates an email notifier. Without an API key messages are
// logged instead of sent, with the body only when logBodies is set.
func NewResendService(apiKey, from string, logBodies bool) domain.NotificationService {
	if apiKey == "" {
		return &LogServiceImpl{IncludeBody: logBodies}
	}
	return &ResendServiceImpl{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// SendEmail implements domain.NotificationService
func (s *ResendServiceImpl) SendEmail(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotifier, err)
	}

	logging.FromContext(ctx).Debug("email sent", slog.String("message_id", sent.Id))
	return nil
}

// LogServiceImpl writes messages to the log. Used when no provider is configured.
// Bodies carry live login codes and are omitted unless IncludeBody is set.
type LogServiceImpl struct {
	IncludeBody bool
}

// SendEmail implements domain.NotificationService
func (s *LogServiceImpl) SendEmail(ctx context.Context, to, subject, body string) error {
	attrs := []any{slog.String("to", to), slog.String("subject", subject)}
	if s.IncludeBody {
		attrs = append(attrs, slog.String("body", body))
	}
	logging.FromContext(ctx).Warn("email delivery disabled, message logged instead", attrs...)
	return nil
}
