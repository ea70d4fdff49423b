package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookChannel posts a Notification as JSON to a configured URL: a small
// JSON envelope, configurable headers, and a non-2xx response treated as
// delivery failure.
type WebhookChannel struct {
	name    string
	url     string
	client  *http.Client
	headers map[string]string
}

// WebhookOption configures a WebhookChannel.
type WebhookOption func(*WebhookChannel)

// WithTimeout bounds how long the webhook POST may take.
func WithTimeout(timeout time.Duration) WebhookOption {
	return func(w *WebhookChannel) { w.client.Timeout = timeout }
}

// WithHeaders sets additional headers sent with every delivery, such as an
// auth token.
func WithHeaders(headers map[string]string) WebhookOption {
	return func(w *WebhookChannel) {
		for k, v := range headers {
			w.headers[k] = v
		}
	}
}

// NewWebhookChannel constructs a webhook-backed Channel named name,
// posting to url.
func NewWebhookChannel(name, url string, opts ...WebhookOption) *WebhookChannel {
	w := &WebhookChannel{
		name:    name,
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WebhookChannel) Name() string { return w.name }

// Supports reports true for every priority; filtering by priority is the
// Center's MinPriority responsibility, not the channel's.
func (w *WebhookChannel) Supports(NotificationPriority) bool { return true }

type webhookPayload struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Priority int               `json:"priority"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	payload := webhookPayload{
		ID:       n.ID,
		Title:    n.Title,
		Body:     n.Body,
		Priority: int(n.Priority),
		Metadata: n.Metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook %s returned status %d", w.name, resp.StatusCode)
	}
	return nil
}
