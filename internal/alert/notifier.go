package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Notifier delivers an alert somewhere
type Notifier interface {
	Notify(ctx context.Context, payload Payload) error
}

// AlertCreator is the backend call that stores an alert
type AlertCreator interface {
	Create(ctx context.Context, alert domain.Alert) (*domain.Alert, error)
}

// BackendNotifier registers alerts in the FaceFind backend
type BackendNotifier struct {
	alerts AlertCreator
	logger *slog.Logger
}

func NewBackendNotifier(alerts AlertCreator, logger *slog.Logger) *BackendNotifier {
	return &BackendNotifier{alerts: alerts, logger: logger}
}

func (n *BackendNotifier) Notify(ctx context.Context, payload Payload) error {
	created, err := n.alerts.Create(ctx, payload.Alert)
	if err != nil {
		return fmt.Errorf("create backend alert: %w", err)
	}

	n.logger.Info("alert registered in backend",
		"alert_id", created.ID,
		"camera_id", created.CameraID,
		"person_name", created.PersonName,
	)
	return nil
}

// WebhookConfig configures a signed webhook target
type WebhookConfig struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
}

// WebhookNotifier POSTs the payload as JSON signed with HMAC-SHA256
type WebhookNotifier struct {
	config WebhookConfig
	client *http.Client
	logger *slog.Logger
}

func NewWebhookNotifier(config WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		lastErr = n.send(ctx, payload.Type, body)
		if lastErr == nil {
			n.logger.Info("alert webhook delivered",
				"camera_id", payload.Alert.CameraID,
				"person_name", payload.Alert.PersonName,
				"attempt", attempt+1,
			)
			return nil
		}
	}

	return fmt.Errorf("send webhook after %d attempts: %w", n.config.MaxRetries+1, lastErr)
}

func (n *WebhookNotifier) send(ctx context.Context, eventType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(n.config.Secret, body))
	req.Header.Set("X-FaceFind-Event", eventType)
	req.Header.Set("User-Agent", "FaceFind-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// MultiNotifier fans out to every notifier and reports how many failed
type MultiNotifier struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewMultiNotifier(logger *slog.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers, logger: logger}
}

func (n *MultiNotifier) Notify(ctx context.Context, payload Payload) error {
	var errs []error

	for _, notifier := range n.notifiers {
		if err := notifier.Notify(ctx, payload); err != nil {
			n.logger.Error("failed to send alert notification",
				"notifier", fmt.Sprintf("%T", notifier),
				"camera_id", payload.Alert.CameraID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d/%d notifications: %w", len(errs), len(n.notifiers), errors.Join(errs...))
	}
	return nil
}

// Len returns the number of configured notifiers
func (n *MultiNotifier) Len() int {
	return len(n.notifiers)
}
