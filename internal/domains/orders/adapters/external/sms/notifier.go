package sms

import (
	"context"
	"errors"
	"log/slog"

	smsclient "github.com/Apurer/restaurant-backoffice/internal/clients/http/sms"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier adapts the SMS gateway client to the dispatch notifier port.
type Notifier struct {
	client *smsclient.Client
}

func NewNotifier(client *smsclient.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) Notify(ctx context.Context, destination, message string) error {
	if n == nil || n.client == nil {
		return errors.New("sms notifier not configured")
	}
	_, err := n.client.Send(ctx, destination, message)
	return err
}

var _ ports.Notifier = LogNotifier{}

// LogNotifier records messages instead of sending them. Used when no SMS account is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, destination, message string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "sms delivery skipped, no gateway configured",
		slog.String("destination", destination), slog.String("message", message))
	return nil
}
