package notification

import (
	"context"
	"log/slog"

	"carbonledger/config"
	"carbonledger/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SendersParams holds dependencies for NewSenders, injected by Fx.
type SendersParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewSenders builds every delivery channel enabled in the notifier configuration.
func NewSenders(params SendersParams) ([]service.NotificationSender, error) {
	cfg := params.Config.Notifier
	if cfg == nil {
		params.Logger.Warn("Notifier not configured, events will be acknowledged without delivery")

		return nil, nil
	}

	var senders []service.NotificationSender

	if cfg.WhatsApp != nil && cfg.WhatsApp.GatewayURL != "" {
		sender, err := NewWhatsAppSender(cfg.WhatsApp)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create whatsapp sender")
		}
		senders = append(senders, sender)
	}

	if cfg.Push {
		var projectID, credentialsPath string
		if params.Config.Firebase != nil {
			projectID = params.Config.Firebase.ProjectID
			credentialsPath = params.Config.Firebase.CredentialsPath
		}

		sender, err := NewFirebaseSender(params.Ctx, projectID, credentialsPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create firebase sender")
		}
		senders = append(senders, sender)
	}

	for _, sender := range senders {
		params.Logger.Info("Notification channel enabled", slog.String("channel", sender.Channel()))
	}

	return senders, nil
}
