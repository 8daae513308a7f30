package notification

import (
	"context"
	"log/slog"
)

// Message kinds understood by downstream delivery systems.
const (
	// KindEmailCode is a verification code delivered to an email address.
	KindEmailCode = "email_code"
	// KindSMSCode is a one-time password delivered over SMS.
	KindSMSCode = "sms_code"
)

// Message describes a notification payload.
type Message struct {
	Kind      string
	Recipient string
	Body      string
}

// Notifier delivers notifications to downstream systems. The verification
// flow only ever talks to this interface; real email/SMS providers would
// slot in behind it.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// structured logger instead of delivering them.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("recipient", message.Recipient),
		slog.String("body", message.Body),
	)
	return nil
}
