package service

import (
	"context"
)

// NotificationSender delivers a notification event over one channel.
type NotificationSender interface {
	// Channel names the delivery channel, e.g. "whatsapp" or "push".
	Channel() string

	// Send delivers the event. Returning an error asks the caller to retry.
	Send(ctx context.Context, event *NotificationEvent) error
}
