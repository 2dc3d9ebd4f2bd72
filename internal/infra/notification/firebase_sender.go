package notification

import (
	"context"
	"fmt"

	"carbonledger/internal/domain/constants"
	"carbonledger/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// topicMessenger is the part of the FCM client the sender uses.
type topicMessenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebaseSender struct {
	client topicMessenger
}

// NewFirebaseSender creates a push sender that publishes to per-project FCM topics.
// Followers subscribe their devices to the topic "project-<id>".
func NewFirebaseSender(ctx context.Context, projectID, credentialsPath string) (service.NotificationSender, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var fbConfig *firebase.Config
	if projectID != "" {
		fbConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseSender{client: client}, nil
}

// ProjectTopic is the FCM topic followers of a project subscribe to.
func ProjectTopic(projectID string) string {
	return "project-" + projectID
}

func (s *firebaseSender) Channel() string {
	return constants.ChannelPush
}

// Send publishes the event to the project's topic.
func (s *firebaseSender) Send(ctx context.Context, event *service.NotificationEvent) error {
	data := make(map[string]string, len(event.Data)+3)
	for k, v := range event.Data {
		data[k] = v
	}
	data["event_id"] = event.EventID
	data["kind"] = event.Kind
	data["project_id"] = event.ProjectID

	message := &messaging.Message{
		Topic: ProjectTopic(event.ProjectID),
		Notification: &messaging.Notification{
			Title: event.Title,
			Body:  event.Message,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		if messaging.IsInvalidArgument(err) {
			return fmt.Errorf("push rejected for topic %s: %w", message.Topic, err)
		}

		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}
