package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTokensCredited indicates tokens were added to a wallet.
	KindTokensCredited = "tokens_credited"
	// KindTokensDebited indicates tokens were spent from a wallet.
	KindTokensDebited = "tokens_debited"
	// KindTokensRefunded indicates a previous debit was compensated.
	KindTokensRefunded = "tokens_refunded"
)

// Message describes a notification payload.
type Message struct {
	Kind   string
	UserID string
	Amount int64
	Body   string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", message.Kind,
		"user_id", message.UserID,
		"amount", message.Amount,
		"body", message.Body,
	)
	return nil
}
