package impl

import (
	"context"
	"log/slog"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/service"

	"github.com/google/uuid"
)

// publishEvent sends a notification event without failing the caller.
// Delivery is best effort; failures are only logged.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.NotificationEvent) {
	if publisher == nil {
		return
	}

	event.EventID = uuid.NewString()
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	if err := publisher.PublishNotificationEvent(context.WithoutCancel(ctx), event); err != nil {
		logger.Warn("Failed to publish notification event",
			slog.String("kind", event.Kind),
			slog.String("project_id", event.ProjectID),
			slog.Any("error", err),
		)
	}
}

func investmentEvent(project *entity.Project, investment *entity.Investment) *service.NotificationEvent {
	return &service.NotificationEvent{
		Kind:        service.EventKindInvestment,
		ProjectID:   project.ID.String(),
		ProjectName: project.Name,
		Title:       "New investment",
		Message:     "The project received " + investment.Amount.StringFixed(2) + " Kz.",
		Data: map[string]string{
			"investment_id": investment.ID.String(),
			"amount":        investment.Amount.StringFixed(2),
		},
	}
}
