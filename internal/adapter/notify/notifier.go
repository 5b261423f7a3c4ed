package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// Notifier delivers events to users. Implementations must never block or
// fail the caller; the ledger path has already committed by the time an
// event is published.
type Notifier interface {
	Notify(event model.NotificationEvent)
}

// HTTPNotifier posts events to the notification service, fire-and-forget.
// With an empty base URL it degrades to logging only.
type HTTPNotifier struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPNotifier creates the notifier. baseURL may be empty.
func NewHTTPNotifier(baseURL string, logger *slog.Logger) (*HTTPNotifier, error) {
	n := &HTTPNotifier{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	if baseURL == "" {
		return n, nil
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	n.baseURL = parsed
	return n, nil
}

// Notify publishes the event in a background goroutine.
func (n *HTTPNotifier) Notify(event model.NotificationEvent) {
	go n.deliver(event)
}

func (n *HTTPNotifier) deliver(event model.NotificationEvent) {
	if n.baseURL == nil {
		n.logger.Info("notification",
			slog.Int64("user_id", event.UserID),
			slog.String("kind", event.Kind),
			slog.String("amount", event.Amount.String()),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal notification failed", slog.String("error", err.Error()))
		return
	}

	endpoint := *n.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/notifications/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		n.logger.Error("build notification request failed", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("notification delivery failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Warn("notification rejected", slog.Int("status", resp.StatusCode))
	}
}
