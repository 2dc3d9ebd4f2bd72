package service

import (
	"context"
)

// Notification event kinds.
const (
	EventKindAdminMessage  = "admin_message"
	EventKindProjectUpdate = "project_update"
	EventKindInvestment    = "investment"
)

// NotificationEvent represents a project notification to be delivered by the notifier worker.
// It carries everything the worker needs so delivery never reads the database.
type NotificationEvent struct {
	RequestID   string            `json:"request_id,omitempty"` // For distributed tracing
	EventID     string            `json:"event_id"`
	Kind        string            `json:"kind"`
	ProjectID   string            `json:"project_id"`
	ProjectName string            `json:"project_name"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Data        map[string]string `json:"data,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishNotificationEvent publishes a notification event for async processing
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
