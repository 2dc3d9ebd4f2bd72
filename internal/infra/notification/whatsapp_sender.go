package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carbonledger/config"
	"carbonledger/internal/domain/constants"
	"carbonledger/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultWhatsAppTimeout = 10 * time.Second

type whatsAppSender struct {
	gatewayURL string
	token      string
	recipients []string
	httpClient *http.Client
}

// whatsAppMessage is the request body accepted by the gateway.
type whatsAppMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewWhatsAppSender creates a sender relaying text messages through an HTTP gateway.
func NewWhatsAppSender(cfg *config.WhatsAppConfig) (service.NotificationSender, error) {
	if cfg == nil || cfg.GatewayURL == "" {
		return nil, errors.New("whatsapp gateway URL is required")
	}
	if len(cfg.Recipients) == 0 {
		return nil, errors.New("whatsapp recipients are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWhatsAppTimeout
	}

	return &whatsAppSender{
		gatewayURL: cfg.GatewayURL,
		token:      cfg.Token,
		recipients: cfg.Recipients,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (s *whatsAppSender) Channel() string {
	return constants.ChannelWhatsApp
}

// Send posts one message per recipient and stops at the first failure.
func (s *whatsAppSender) Send(ctx context.Context, event *service.NotificationEvent) error {
	text := FormatText(event)

	for _, recipient := range s.recipients {
		if err := s.post(ctx, whatsAppMessage{To: recipient, Text: text}); err != nil {
			return errors.Wrapf(err, "send whatsapp message to %s", recipient)
		}
	}

	return nil
}

func (s *whatsAppSender) post(ctx context.Context, msg whatsAppMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return errors.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}

// FormatText renders an event as a plain chat message.
func FormatText(event *service.NotificationEvent) string {
	var b strings.Builder
	if event.ProjectName != "" {
		fmt.Fprintf(&b, "[%s] ", event.ProjectName)
	}
	if event.Title != "" {
		b.WriteString(event.Title)
		if event.Message != "" {
			b.WriteString("\n")
		}
	}
	b.WriteString(event.Message)

	return b.String()
}
